package models

import (
	"strings"
	"time"
)

type User struct {
	ID    int64  `gorm:"primaryKey"`
	Name  string `gorm:"size:255;not null"`
	Email string `gorm:"size:512;not null;uniqueIndex"`
}

type ItemRequest struct {
	ID          int64     `gorm:"primaryKey"`
	Description string    `gorm:"size:1000;not null"`
	RequesterID int64     `gorm:"not null;index"`
	Created     time.Time `gorm:"not null;index"`

	Requester User `gorm:"foreignKey:RequesterID;constraint:OnDelete:CASCADE"`
}

type Item struct {
	ID          int64  `gorm:"primaryKey"`
	Name        string `gorm:"size:255;not null"`
	Description string `gorm:"size:1000;not null"`
	Available   bool   `gorm:"not null"`
	OwnerID     int64  `gorm:"not null;index"`
	RequestID   *int64 `gorm:"index"`

	Owner   User         `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Request *ItemRequest `gorm:"foreignKey:RequestID;constraint:OnDelete:SET NULL"`
}

type BookingStatus string

const (
	StatusWaiting  BookingStatus = "WAITING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
	StatusCanceled BookingStatus = "CANCELED"
)

type Booking struct {
	ID       int64         `gorm:"primaryKey"`
	StartAt  time.Time     `gorm:"column:start_at;not null;index"`
	EndAt    time.Time     `gorm:"column:end_at;not null"`
	ItemID   int64         `gorm:"not null;index"`
	BookerID int64         `gorm:"not null;index"`
	Status   BookingStatus `gorm:"size:20;not null;default:'WAITING'"`

	Item   Item `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
	Booker User `gorm:"foreignKey:BookerID;constraint:OnDelete:CASCADE"`
}

type Comment struct {
	ID       int64     `gorm:"primaryKey"`
	Text     string    `gorm:"size:2000;not null"`
	ItemID   int64     `gorm:"not null;index"`
	AuthorID int64     `gorm:"not null"`
	Created  time.Time `gorm:"not null"`

	Item   Item `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
	Author User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

// BookingState narrows booking listings. It is a query filter, not a stored value.
type BookingState string

const (
	StateAll      BookingState = "ALL"
	StateCurrent  BookingState = "CURRENT"
	StatePast     BookingState = "PAST"
	StateFuture   BookingState = "FUTURE"
	StateWaiting  BookingState = "WAITING"
	StateRejected BookingState = "REJECTED"
)

var bookingStates = map[BookingState]struct{}{
	StateAll:      {},
	StateCurrent:  {},
	StatePast:     {},
	StateFuture:   {},
	StateWaiting:  {},
	StateRejected: {},
}

// ParseBookingState matches s against the known states ignoring case.
func ParseBookingState(s string) (BookingState, bool) {
	state := BookingState(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := bookingStates[state]
	return state, ok
}

// AllModels lists the entities in migration order.
func AllModels() []interface{} {
	return []interface{}{&User{}, &ItemRequest{}, &Item{}, &Booking{}, &Comment{}}
}
