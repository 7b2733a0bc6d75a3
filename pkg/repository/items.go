package repository

import (
	"context"
	"strings"

	"gorm.io/gorm/clause"

	"shareit/pkg/models"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *Repo) CreateItem(ctx context.Context, it *models.Item) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(it).Error
}

func (r *Repo) FindItemByID(ctx context.Context, id int64) (*models.Item, error) {
	var it models.Item
	if err := r.DB.WithContext(ctx).First(&it, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *Repo) UpdateItem(ctx context.Context, it *models.Item) error {
	return r.DB.WithContext(ctx).Model(it).Omit(clause.Associations).
		Updates(map[string]interface{}{
			"name":        it.Name,
			"description": it.Description,
			"available":   it.Available,
			"request_id":  it.RequestID,
		}).Error
}

func (r *Repo) DeleteItem(ctx context.Context, id int64) error {
	return r.DB.WithContext(ctx).Delete(&models.Item{}, id).Error
}

func (r *Repo) CountItemsByOwner(ctx context.Context, ownerID int64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Item{}).Where("owner_id = ?", ownerID).Count(&n).Error
	return n, err
}

func (r *Repo) ListItemsByOwner(ctx context.Context, ownerID int64, page Page) ([]models.Item, error) {
	var items []models.Item
	q := r.DB.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id")
	err := page.apply(q).Find(&items).Error
	return items, err
}

// SearchAvailable matches text case-insensitively against name or description
// of available items.
func (r *Repo) SearchAvailable(ctx context.Context, text string, page Page) ([]models.Item, error) {
	like := "%" + likeEscaper.Replace(strings.ToLower(text)) + "%"
	var items []models.Item
	q := r.DB.WithContext(ctx).
		Where("available = ?", true).
		Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, like, like).
		Order("id")
	err := page.apply(q).Find(&items).Error
	return items, err
}

// ItemsByRequest groups the items created in reply to the given requests.
func (r *Repo) ItemsByRequest(ctx context.Context, requestIDs []int64) (map[int64][]models.Item, error) {
	out := make(map[int64][]models.Item, len(requestIDs))
	if len(requestIDs) == 0 {
		return out, nil
	}
	var items []models.Item
	if err := r.DB.WithContext(ctx).Where("request_id IN ?", requestIDs).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	for _, it := range items {
		out[*it.RequestID] = append(out[*it.RequestID], it)
	}
	return out, nil
}
