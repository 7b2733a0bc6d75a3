package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shareit/pkg/models"
)

type stateFilter func(q *gorm.DB, now time.Time) *gorm.DB

// stateFilters maps each booking state to its predicate. Every listing is
// ordered by start, newest first.
var stateFilters = map[models.BookingState]stateFilter{
	models.StateAll: func(q *gorm.DB, _ time.Time) *gorm.DB {
		return q
	},
	models.StateCurrent: func(q *gorm.DB, now time.Time) *gorm.DB {
		return q.Where("bookings.start_at <= ? AND bookings.end_at >= ?", now, now)
	},
	models.StatePast: func(q *gorm.DB, now time.Time) *gorm.DB {
		return q.Where("bookings.end_at < ?", now)
	},
	models.StateFuture: func(q *gorm.DB, now time.Time) *gorm.DB {
		return q.Where("bookings.start_at > ?", now)
	},
	models.StateWaiting: func(q *gorm.DB, _ time.Time) *gorm.DB {
		return q.Where("bookings.status = ?", models.StatusWaiting)
	},
	models.StateRejected: func(q *gorm.DB, _ time.Time) *gorm.DB {
		return q.Where("bookings.status = ?", models.StatusRejected)
	},
}

func (r *Repo) CreateBooking(ctx context.Context, b *models.Booking) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(b).Error
}

// FindBookingByID loads the booking with its item and booker.
func (r *Repo) FindBookingByID(ctx context.Context, id int64) (*models.Booking, error) {
	var b models.Booking
	err := r.DB.WithContext(ctx).
		Preload("Item").
		Preload("Booker").
		First(&b, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// LockBooking loads the booking row for update.
func (r *Repo) LockBooking(ctx context.Context, id int64) (*models.Booking, error) {
	var b models.Booking
	if err := forUpdate(r.DB.WithContext(ctx)).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repo) UpdateBookingStatus(ctx context.Context, id int64, status models.BookingStatus) error {
	return r.DB.WithContext(ctx).Model(&models.Booking{}).Where("id = ?", id).Update("status", status).Error
}

func (r *Repo) ListBookerBookings(ctx context.Context, bookerID int64, state models.BookingState, now time.Time, page Page) ([]models.Booking, error) {
	q := r.DB.WithContext(ctx).Where("bookings.booker_id = ?", bookerID)
	return r.listBookings(q, state, now, page)
}

func (r *Repo) ListOwnerBookings(ctx context.Context, ownerID int64, state models.BookingState, now time.Time, page Page) ([]models.Booking, error) {
	q := r.DB.WithContext(ctx).
		Joins("JOIN items ON items.id = bookings.item_id").
		Where("items.owner_id = ?", ownerID)
	return r.listBookings(q, state, now, page)
}

func (r *Repo) listBookings(q *gorm.DB, state models.BookingState, now time.Time, page Page) ([]models.Booking, error) {
	filter, ok := stateFilters[state]
	if !ok {
		return nil, fmt.Errorf("unknown booking state %q", state)
	}
	q = filter(q.Model(&models.Booking{}), now).
		Preload("Item").
		Preload("Booker").
		Order("bookings.start_at DESC").
		Order("bookings.id DESC")

	var bookings []models.Booking
	err := page.apply(q).Find(&bookings).Error
	return bookings, err
}

// LastBookings returns, per item, the non-rejected booking that started
// most recently before now.
func (r *Repo) LastBookings(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]*models.Booking, error) {
	return r.nearestBookings(ctx, itemIDs, "start_at < ?", "start_at DESC", now)
}

// NextBookings returns, per item, the non-rejected booking starting soonest after now.
func (r *Repo) NextBookings(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]*models.Booking, error) {
	return r.nearestBookings(ctx, itemIDs, "start_at > ?", "start_at ASC", now)
}

func (r *Repo) nearestBookings(ctx context.Context, itemIDs []int64, cond, order string, now time.Time) (map[int64]*models.Booking, error) {
	out := make(map[int64]*models.Booking, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}
	var bookings []models.Booking
	err := r.DB.WithContext(ctx).
		Where("item_id IN ?", itemIDs).
		Where("status <> ?", models.StatusRejected).
		Where(cond, now).
		Order(order).
		Order("id").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	for i := range bookings {
		if _, seen := out[bookings[i].ItemID]; !seen {
			out[bookings[i].ItemID] = &bookings[i]
		}
	}
	return out, nil
}

// FirstFinishingBooking returns the booker's non-rejected booking of the item
// that ends first.
func (r *Repo) FirstFinishingBooking(ctx context.Context, itemID, bookerID int64) (*models.Booking, error) {
	var b models.Booking
	err := r.DB.WithContext(ctx).
		Where("item_id = ? AND booker_id = ?", itemID, bookerID).
		Where("status <> ?", models.StatusRejected).
		Order("end_at ASC").
		Order("id").
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}
