package repository

import (
	"context"

	"gorm.io/gorm/clause"

	"shareit/pkg/models"
)

func (r *Repo) CreateComment(ctx context.Context, c *models.Comment) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

// CommentsByItem groups comments with their authors by item.
func (r *Repo) CommentsByItem(ctx context.Context, itemIDs []int64) (map[int64][]models.Comment, error) {
	out := make(map[int64][]models.Comment, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}
	var comments []models.Comment
	err := r.DB.WithContext(ctx).
		Preload("Author").
		Where("item_id IN ?", itemIDs).
		Order("created").
		Order("id").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	for _, c := range comments {
		out[c.ItemID] = append(out[c.ItemID], c)
	}
	return out, nil
}
