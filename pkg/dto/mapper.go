package dto

import "shareit/pkg/models"

func ToUserDto(u models.User) UserDto {
	return UserDto{ID: u.ID, Name: u.Name, Email: u.Email}
}

func ToUserDtos(users []models.User) []UserDto {
	out := make([]UserDto, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserDto(u))
	}
	return out
}

func ToItemDto(i models.Item) ItemDto {
	return ItemDto{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		Available:   i.Available,
		RequestID:   i.RequestID,
	}
}

func ToItemDtos(items []models.Item) []ItemDto {
	out := make([]ItemDto, 0, len(items))
	for _, i := range items {
		out = append(out, ToItemDto(i))
	}
	return out
}

// ToItemDetails assembles an item view. last and next may be nil.
func ToItemDetails(i models.Item, last, next *models.Booking, comments []models.Comment) ItemDetails {
	return ItemDetails{
		ItemDto:     ToItemDto(i),
		LastBooking: toBookingShortPtr(last),
		NextBooking: toBookingShortPtr(next),
		Comments:    ToCommentDtos(comments),
	}
}

func ToBookingShort(b models.Booking) BookingShort {
	return BookingShort{
		ID:       b.ID,
		ItemID:   b.ItemID,
		BookerID: b.BookerID,
		Start:    Timestamp(b.StartAt),
		End:      Timestamp(b.EndAt),
		Status:   b.Status,
	}
}

func toBookingShortPtr(b *models.Booking) *BookingShort {
	if b == nil {
		return nil
	}
	short := ToBookingShort(*b)
	return &short
}

// ToBookingDto expects Item and Booker to be loaded.
func ToBookingDto(b models.Booking) BookingDto {
	return BookingDto{
		ID:     b.ID,
		Item:   ToItemDto(b.Item),
		Start:  Timestamp(b.StartAt),
		End:    Timestamp(b.EndAt),
		Booker: ToUserDto(b.Booker),
		Status: b.Status,
	}
}

func ToBookingDtos(bookings []models.Booking) []BookingDto {
	out := make([]BookingDto, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, ToBookingDto(b))
	}
	return out
}

// ToCommentDto expects Author to be loaded.
func ToCommentDto(c models.Comment) CommentDto {
	return CommentDto{
		ID:         c.ID,
		Text:       c.Text,
		AuthorName: c.Author.Name,
		ItemID:     c.ItemID,
		Created:    Timestamp(c.Created),
	}
}

func ToCommentDtos(comments []models.Comment) []CommentDto {
	out := make([]CommentDto, 0, len(comments))
	for _, c := range comments {
		out = append(out, ToCommentDto(c))
	}
	return out
}

// ToRequestDto expects Requester to be loaded.
func ToRequestDto(r models.ItemRequest, replies []models.Item) RequestDto {
	return RequestDto{
		ID:          r.ID,
		Description: r.Description,
		Requester:   ToUserDto(r.Requester),
		Created:     Timestamp(r.Created),
		Items:       ToItemDtos(replies),
	}
}
