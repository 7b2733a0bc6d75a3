package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"shareit/pkg/apperr"
	"shareit/pkg/logging"
	"shareit/pkg/repository"
)

// Services bundles the business layer of the server tier.
type Services struct {
	Users    *UserService
	Items    *ItemService
	Bookings *BookingService
	Requests *RequestService
}

type Option func(*base)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(b *base) { b.clock = now }
}

func New(db *gorm.DB, log zerolog.Logger, opts ...Option) *Services {
	b := base{db: db, log: log, clock: time.Now}
	for _, opt := range opts {
		opt(&b)
	}
	return &Services{
		Users:    &UserService{base: b},
		Items:    &ItemService{base: b},
		Bookings: &BookingService{base: b},
		Requests: &RequestService{base: b},
	}
}

type base struct {
	db    *gorm.DB
	log   zerolog.Logger
	clock func() time.Time
}

// now is second-precision UTC, the precision timestamps are stored with.
func (b base) now() time.Time {
	return b.clock().UTC().Truncate(time.Second)
}

func (b base) repo() *repository.Repo {
	return repository.New(b.db)
}

func (b base) logger(ctx context.Context) *zerolog.Logger {
	return logging.FromContext(ctx, b.log)
}

// inTx runs fn with a repository bound to a single transaction.
func (b base) inTx(ctx context.Context, fn func(r *repository.Repo) error) error {
	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(repository.New(tx))
	})
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// notFoundOr maps a missing row to a NotFound error and passes anything else through.
func notFoundOr(err error, format string, args ...any) error {
	if isNotFound(err) {
		return apperr.NotFound(format, args...).Wrap(err)
	}
	return err
}

func requireUser(ctx context.Context, r *repository.Repo, id int64) error {
	ok, err := r.UserExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("User with id %d not found", id)
	}
	return nil
}
