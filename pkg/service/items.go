package service

import (
	"context"
	"strings"

	"shareit/pkg/apperr"
	"shareit/pkg/dto"
	"shareit/pkg/models"
	"shareit/pkg/repository"
)

type ItemService struct{ base }

func (s *ItemService) Create(ctx context.Context, ownerID int64, in dto.ItemCreate) (dto.ItemDto, error) {
	it := models.Item{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Available:   in.Available != nil && *in.Available,
		OwnerID:     ownerID,
		RequestID:   in.RequestID,
	}
	err := s.inTx(ctx, func(r *repository.Repo) error {
		if err := requireUser(ctx, r, ownerID); err != nil {
			return err
		}
		if it.RequestID != nil {
			if err := requireRequest(ctx, r, *it.RequestID); err != nil {
				return err
			}
		}
		return r.CreateItem(ctx, &it)
	})
	if err != nil {
		return dto.ItemDto{}, err
	}
	s.logger(ctx).Info().Int64("item_id", it.ID).Int64("owner_id", ownerID).Msg("item created")
	return dto.ToItemDto(it), nil
}

// Update merges the supplied fields onto the item. Only the owner may do it.
func (s *ItemService) Update(ctx context.Context, ownerID, itemID int64, patch dto.ItemPatch) (dto.ItemDto, error) {
	var out models.Item
	err := s.inTx(ctx, func(r *repository.Repo) error {
		if err := requireUser(ctx, r, ownerID); err != nil {
			return err
		}
		it, err := r.FindItemByID(ctx, itemID)
		if err != nil {
			return notFoundOr(err, "Item with id %d not found", itemID)
		}
		if it.OwnerID != ownerID {
			return apperr.Access("User %d does not own item %d", ownerID, itemID)
		}
		if err := mergeItem(ctx, r, it, patch); err != nil {
			return err
		}
		if err := r.UpdateItem(ctx, it); err != nil {
			return err
		}
		out = *it
		return nil
	})
	if err != nil {
		return dto.ItemDto{}, err
	}
	s.logger(ctx).Info().Int64("item_id", itemID).Msg("item updated")
	return dto.ToItemDto(out), nil
}

func mergeItem(ctx context.Context, r *repository.Repo, it *models.Item, patch dto.ItemPatch) error {
	fields := map[string]string{}
	if patch.Name.Present {
		if name, ok := patch.Name.Get(); ok && strings.TrimSpace(name) != "" {
			it.Name = strings.TrimSpace(name)
		} else {
			fields["name"] = "must not be blank"
		}
	}
	if patch.Description.Present {
		if desc, ok := patch.Description.Get(); ok && strings.TrimSpace(desc) != "" {
			it.Description = strings.TrimSpace(desc)
		} else {
			fields["description"] = "must not be blank"
		}
	}
	if patch.Available.Present {
		if available, ok := patch.Available.Get(); ok {
			it.Available = available
		} else {
			fields["available"] = "must not be null"
		}
	}
	if len(fields) > 0 {
		return apperr.Fields(fields)
	}
	if patch.RequestID.Present {
		requestID, ok := patch.RequestID.Get()
		if !ok {
			it.RequestID = nil
			return nil
		}
		if err := requireRequest(ctx, r, requestID); err != nil {
			return err
		}
		it.RequestID = &requestID
	}
	return nil
}

// Get returns the item with its comments; booking neighbours are shown to the owner only.
func (s *ItemService) Get(ctx context.Context, userID, itemID int64) (dto.ItemDetails, error) {
	r := s.repo()
	it, err := r.FindItemByID(ctx, itemID)
	if err != nil {
		return dto.ItemDetails{}, notFoundOr(err, "Item with id %d not found", itemID)
	}
	details, err := s.details(ctx, r, []models.Item{*it}, it.OwnerID == userID)
	if err != nil {
		return dto.ItemDetails{}, err
	}
	return details[0], nil
}

func (s *ItemService) ListByOwner(ctx context.Context, ownerID int64, page repository.Page) ([]dto.ItemDetails, error) {
	r := s.repo()
	items, err := r.ListItemsByOwner(ctx, ownerID, page)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, r, items, true)
}

func (s *ItemService) details(ctx context.Context, r *repository.Repo, items []models.Item, withBookings bool) ([]dto.ItemDetails, error) {
	itemIDs := make([]int64, 0, len(items))
	for _, it := range items {
		itemIDs = append(itemIDs, it.ID)
	}
	comments, err := r.CommentsByItem(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	last := map[int64]*models.Booking{}
	next := map[int64]*models.Booking{}
	if withBookings {
		now := s.now()
		if last, err = r.LastBookings(ctx, itemIDs, now); err != nil {
			return nil, err
		}
		if next, err = r.NextBookings(ctx, itemIDs, now); err != nil {
			return nil, err
		}
	}
	out := make([]dto.ItemDetails, 0, len(items))
	for _, it := range items {
		out = append(out, dto.ToItemDetails(it, last[it.ID], next[it.ID], comments[it.ID]))
	}
	return out, nil
}

// Search finds available items by name or description. Blank text matches nothing.
func (s *ItemService) Search(ctx context.Context, text string, page repository.Page) ([]dto.ItemDto, error) {
	if strings.TrimSpace(text) == "" {
		return []dto.ItemDto{}, nil
	}
	items, err := s.repo().SearchAvailable(ctx, text, page)
	if err != nil {
		return nil, err
	}
	return dto.ToItemDtos(items), nil
}

func (s *ItemService) Delete(ctx context.Context, ownerID, itemID int64) error {
	err := s.inTx(ctx, func(r *repository.Repo) error {
		it, err := r.FindItemByID(ctx, itemID)
		if err != nil {
			return notFoundOr(err, "Item with id %d not found", itemID)
		}
		if it.OwnerID != ownerID {
			return apperr.Access("User %d does not own item %d", ownerID, itemID)
		}
		return r.DeleteItem(ctx, itemID)
	})
	if err != nil {
		return err
	}
	s.logger(ctx).Info().Int64("item_id", itemID).Msg("item deleted")
	return nil
}

// AddComment lets a past renter comment: the author needs a non-rejected
// booking of the item that has already ended.
func (s *ItemService) AddComment(ctx context.Context, authorID, itemID int64, in dto.CommentCreate) (dto.CommentDto, error) {
	now := s.now()
	var c models.Comment
	err := s.inTx(ctx, func(r *repository.Repo) error {
		author, err := r.FindUserByID(ctx, authorID)
		if err != nil {
			if isNotFound(err) {
				return apperr.Validation("User with id %d not found", authorID).Wrap(err)
			}
			return err
		}
		if _, err := r.FindItemByID(ctx, itemID); err != nil {
			if isNotFound(err) {
				return apperr.Validation("Item with id %d not found", itemID).Wrap(err)
			}
			return err
		}
		booking, err := r.FirstFinishingBooking(ctx, itemID, authorID)
		if err != nil {
			if isNotFound(err) {
				return apperr.Validation("User %d has not booked item %d", authorID, itemID).Wrap(err)
			}
			return err
		}
		if now.Before(booking.EndAt) {
			return apperr.Validation("User %d cannot comment item %d before the booking ends", authorID, itemID)
		}
		c = models.Comment{Text: strings.TrimSpace(in.Text), ItemID: itemID, AuthorID: authorID, Created: now, Author: *author}
		return r.CreateComment(ctx, &c)
	})
	if err != nil {
		return dto.CommentDto{}, err
	}
	s.logger(ctx).Info().Int64("comment_id", c.ID).Int64("item_id", itemID).Msg("comment added")
	return dto.ToCommentDto(c), nil
}

func requireRequest(ctx context.Context, r *repository.Repo, id int64) error {
	ok, err := r.RequestExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Request with id %d not found", id)
	}
	return nil
}
