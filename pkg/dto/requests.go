package dto

type UserCreate struct {
	Name  string `json:"name" binding:"notblank"`
	Email string `json:"email" binding:"required,email"`
}

// UserPatch carries the fields of a partial user update. Blank values are ignored.
type UserPatch struct {
	Name  Optional[string] `json:"name"`
	Email Optional[string] `json:"email"`
}

type ItemCreate struct {
	Name        string `json:"name" binding:"notblank"`
	Description string `json:"description" binding:"notblank"`
	Available   *bool  `json:"available" binding:"required"`
	RequestID   *int64 `json:"requestId"`
}

type ItemPatch struct {
	Name        Optional[string] `json:"name"`
	Description Optional[string] `json:"description"`
	Available   Optional[bool]   `json:"available"`
	RequestID   Optional[int64]  `json:"requestId"`
}

type CommentCreate struct {
	Text string `json:"text" binding:"notblank"`
}

type BookingCreate struct {
	ItemID *int64     `json:"itemId" binding:"required"`
	Start  *Timestamp `json:"start" binding:"required"`
	End    *Timestamp `json:"end" binding:"required"`
}

type RequestCreate struct {
	Description string `json:"description" binding:"notblank"`
}
