package repository

import (
	"context"

	"gorm.io/gorm/clause"

	"shareit/pkg/models"
)

func (r *Repo) CreateRequest(ctx context.Context, req *models.ItemRequest) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(req).Error
}

func (r *Repo) FindRequestByID(ctx context.Context, id int64) (*models.ItemRequest, error) {
	var req models.ItemRequest
	if err := r.DB.WithContext(ctx).Preload("Requester").First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *Repo) RequestExists(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.ItemRequest{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

// ListRequestsByRequester returns the user's own requests, newest first.
func (r *Repo) ListRequestsByRequester(ctx context.Context, requesterID int64) ([]models.ItemRequest, error) {
	var reqs []models.ItemRequest
	err := r.DB.WithContext(ctx).
		Preload("Requester").
		Where("requester_id = ?", requesterID).
		Order("created DESC").
		Order("id DESC").
		Find(&reqs).Error
	return reqs, err
}

// ListRequestsByOthers returns requests made by anyone but the user, newest first.
func (r *Repo) ListRequestsByOthers(ctx context.Context, userID int64, page Page) ([]models.ItemRequest, error) {
	var reqs []models.ItemRequest
	q := r.DB.WithContext(ctx).
		Preload("Requester").
		Where("requester_id <> ?", userID).
		Order("created DESC").
		Order("id DESC")
	err := page.apply(q).Find(&reqs).Error
	return reqs, err
}
