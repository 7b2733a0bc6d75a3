package dto

import "shareit/pkg/models"

type UserDto struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ItemDto struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	RequestID   *int64 `json:"requestId"`
}

// ItemDetails is an item as shown on its own page or in the owner's list.
type ItemDetails struct {
	ItemDto
	LastBooking *BookingShort `json:"lastBooking"`
	NextBooking *BookingShort `json:"nextBooking"`
	Comments    []CommentDto  `json:"comments"`
}

type BookingShort struct {
	ID       int64                `json:"id"`
	ItemID   int64                `json:"itemId"`
	BookerID int64                `json:"bookerId"`
	Start    Timestamp            `json:"start"`
	End      Timestamp            `json:"end"`
	Status   models.BookingStatus `json:"status"`
}

type BookingDto struct {
	ID     int64                `json:"id"`
	Item   ItemDto              `json:"item"`
	Start  Timestamp            `json:"start"`
	End    Timestamp            `json:"end"`
	Booker UserDto              `json:"booker"`
	Status models.BookingStatus `json:"status"`
}

type CommentDto struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	ItemID     int64     `json:"itemId"`
	Created    Timestamp `json:"created"`
}

type RequestDto struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Requester   UserDto   `json:"requester"`
	Created     Timestamp `json:"created"`
	Items       []ItemDto `json:"items"`
}
