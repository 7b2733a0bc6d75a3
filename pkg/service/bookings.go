package service

import (
	"context"

	"shareit/pkg/apperr"
	"shareit/pkg/dto"
	"shareit/pkg/metrics"
	"shareit/pkg/models"
	"shareit/pkg/repository"
)

type BookingService struct{ base }

func (s *BookingService) Create(ctx context.Context, bookerID int64, in dto.BookingCreate) (dto.BookingDto, error) {
	if in.ItemID == nil || in.Start == nil || in.End == nil {
		return dto.BookingDto{}, apperr.Validation("itemId, start and end are required")
	}
	start, end := in.Start.Time().UTC(), in.End.Time().UTC()
	if !end.After(start) {
		return dto.BookingDto{}, apperr.Validation("Booking end must be after its start")
	}
	if start.Before(s.now()) {
		return dto.BookingDto{}, apperr.Fields(map[string]string{"start": "must be a date in the present or in the future"})
	}

	var b models.Booking
	err := s.inTx(ctx, func(r *repository.Repo) error {
		booker, err := r.FindUserByID(ctx, bookerID)
		if err != nil {
			return notFoundOr(err, "User with id %d not found", bookerID)
		}
		item, err := r.FindItemByID(ctx, *in.ItemID)
		if err != nil {
			return notFoundOr(err, "Item with id %d not found", *in.ItemID)
		}
		if !item.Available {
			return apperr.Validation("Item %d is not available for booking", item.ID)
		}
		if item.OwnerID == bookerID {
			return apperr.NotFound("Owner cannot book own item %d", item.ID)
		}
		b = models.Booking{
			StartAt:  start,
			EndAt:    end,
			ItemID:   item.ID,
			BookerID: bookerID,
			Status:   models.StatusWaiting,
		}
		if err := r.CreateBooking(ctx, &b); err != nil {
			return err
		}
		b.Item, b.Booker = *item, *booker
		return nil
	})
	if err != nil {
		return dto.BookingDto{}, err
	}
	metrics.IncBookingStatus(string(b.Status))
	s.logger(ctx).Info().Int64("booking_id", b.ID).Int64("item_id", b.ItemID).Int64("booker_id", bookerID).Msg("booking created")
	return dto.ToBookingDto(b), nil
}

// Confirm approves or rejects a booking on behalf of the item's owner.
// Repeating the decision the booking already carries is rejected.
func (s *BookingService) Confirm(ctx context.Context, ownerID, bookingID int64, approved bool) (dto.BookingDto, error) {
	status := models.StatusRejected
	if approved {
		status = models.StatusApproved
	}

	var out *models.Booking
	err := s.inTx(ctx, func(r *repository.Repo) error {
		if err := requireUser(ctx, r, ownerID); err != nil {
			return err
		}
		b, err := r.LockBooking(ctx, bookingID)
		if err != nil {
			return notFoundOr(err, "Booking with id %d not found", bookingID)
		}
		item, err := r.FindItemByID(ctx, b.ItemID)
		if err != nil {
			return notFoundOr(err, "Item with id %d not found", b.ItemID)
		}
		if item.OwnerID != ownerID {
			return apperr.Access("User %d does not own the item of booking %d", ownerID, bookingID)
		}
		switch {
		case approved && b.Status == models.StatusApproved:
			return apperr.Validation("Booking %d is already approved", bookingID)
		case !approved && b.Status == models.StatusRejected:
			return apperr.Validation("Booking %d is already rejected", bookingID)
		}
		if err := r.UpdateBookingStatus(ctx, bookingID, status); err != nil {
			return err
		}
		out, err = r.FindBookingByID(ctx, bookingID)
		return err
	})
	if err != nil {
		return dto.BookingDto{}, err
	}
	metrics.IncBookingStatus(string(status))
	s.logger(ctx).Info().Int64("booking_id", bookingID).Str("status", string(status)).Msg("booking confirmed")
	return dto.ToBookingDto(*out), nil
}

// Get shows a booking to its booker or to the owner of the booked item.
func (s *BookingService) Get(ctx context.Context, userID, bookingID int64) (dto.BookingDto, error) {
	b, err := s.repo().FindBookingByID(ctx, bookingID)
	if err != nil {
		return dto.BookingDto{}, notFoundOr(err, "Booking with id %d not found", bookingID)
	}
	if b.BookerID != userID && b.Item.OwnerID != userID {
		return dto.BookingDto{}, apperr.Access("Booking %d is not accessible for user %d", bookingID, userID)
	}
	return dto.ToBookingDto(*b), nil
}

func (s *BookingService) ListForBooker(ctx context.Context, bookerID int64, state models.BookingState, page repository.Page) ([]dto.BookingDto, error) {
	r := s.repo()
	if err := requireUser(ctx, r, bookerID); err != nil {
		return nil, err
	}
	bookings, err := r.ListBookerBookings(ctx, bookerID, state, s.now(), page)
	if err != nil {
		return nil, err
	}
	return dto.ToBookingDtos(bookings), nil
}

// ListForOwner lists bookings of the user's items. A user without items gets NotFound.
func (s *BookingService) ListForOwner(ctx context.Context, ownerID int64, state models.BookingState, page repository.Page) ([]dto.BookingDto, error) {
	r := s.repo()
	if err := requireUser(ctx, r, ownerID); err != nil {
		return nil, err
	}
	n, err := r.CountItemsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, apperr.NotFound("User %d has no items", ownerID)
	}
	bookings, err := r.ListOwnerBookings(ctx, ownerID, state, s.now(), page)
	if err != nil {
		return nil, err
	}
	return dto.ToBookingDtos(bookings), nil
}
