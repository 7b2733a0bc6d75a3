package service

import (
	"context"
	"strings"

	"shareit/pkg/dto"
	"shareit/pkg/models"
	"shareit/pkg/repository"
)

type RequestService struct{ base }

func (s *RequestService) Create(ctx context.Context, userID int64, in dto.RequestCreate) (dto.RequestDto, error) {
	var req models.ItemRequest
	err := s.inTx(ctx, func(r *repository.Repo) error {
		requester, err := r.FindUserByID(ctx, userID)
		if err != nil {
			return notFoundOr(err, "User with id %d not found", userID)
		}
		req = models.ItemRequest{
			Description: strings.TrimSpace(in.Description),
			RequesterID: userID,
			Created:     s.now(),
		}
		if err := r.CreateRequest(ctx, &req); err != nil {
			return err
		}
		req.Requester = *requester
		return nil
	})
	if err != nil {
		return dto.RequestDto{}, err
	}
	s.logger(ctx).Info().Int64("request_id", req.ID).Int64("requester_id", userID).Msg("item request created")
	return dto.ToRequestDto(req, nil), nil
}

// ListOwn returns the user's requests with the items offered in reply.
func (s *RequestService) ListOwn(ctx context.Context, userID int64) ([]dto.RequestDto, error) {
	r := s.repo()
	if err := requireUser(ctx, r, userID); err != nil {
		return nil, err
	}
	reqs, err := r.ListRequestsByRequester(ctx, userID)
	if err != nil {
		return nil, err
	}
	return withReplies(ctx, r, reqs)
}

// ListOthers pages through everybody else's requests, newest first.
func (s *RequestService) ListOthers(ctx context.Context, userID int64, page repository.Page) ([]dto.RequestDto, error) {
	r := s.repo()
	reqs, err := r.ListRequestsByOthers(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	return withReplies(ctx, r, reqs)
}

func (s *RequestService) Get(ctx context.Context, userID, requestID int64) (dto.RequestDto, error) {
	r := s.repo()
	if err := requireUser(ctx, r, userID); err != nil {
		return dto.RequestDto{}, err
	}
	req, err := r.FindRequestByID(ctx, requestID)
	if err != nil {
		return dto.RequestDto{}, notFoundOr(err, "Request with id %d not found", requestID)
	}
	out, err := withReplies(ctx, r, []models.ItemRequest{*req})
	if err != nil {
		return dto.RequestDto{}, err
	}
	return out[0], nil
}

func withReplies(ctx context.Context, r *repository.Repo, reqs []models.ItemRequest) ([]dto.RequestDto, error) {
	ids := make([]int64, 0, len(reqs))
	for _, req := range reqs {
		ids = append(ids, req.ID)
	}
	replies, err := r.ItemsByRequest(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RequestDto, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, dto.ToRequestDto(req, replies[req.ID]))
	}
	return out, nil
}
