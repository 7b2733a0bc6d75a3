package repository

import (
	"context"

	"gorm.io/gorm/clause"

	"shareit/pkg/models"
)

func (r *Repo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *Repo) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) UserExists(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func (r *Repo) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.DB.WithContext(ctx).Order("id").Find(&users).Error
	return users, err
}

func (r *Repo) UpdateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Model(u).Omit(clause.Associations).
		Updates(map[string]interface{}{"name": u.Name, "email": u.Email}).Error
}

// DeleteUser removes the user; items, bookings, requests and comments go
// with it through the foreign keys.
func (r *Repo) DeleteUser(ctx context.Context, id int64) (int64, error) {
	res := r.DB.WithContext(ctx).Delete(&models.User{}, id)
	return res.RowsAffected, res.Error
}
