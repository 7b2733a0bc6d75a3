package dto

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"shareit/pkg/apperr"
	"shareit/pkg/models"
)

const (
	UserIDHeader = "X-Sharer-User-Id"

	DefaultFrom  = 0
	DefaultSize  = 10
	DefaultState = "ALL"
)

// UserID reads the caller id from the identity header.
func UserID(c *gin.Context) (int64, error) {
	raw := strings.TrimSpace(c.GetHeader(UserIDHeader))
	if raw == "" {
		return 0, apperr.Validation("header %s is required", UserIDHeader)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.Validation("header %s must be a number", UserIDHeader)
	}
	return id, nil
}

// PathID parses a numeric path parameter.
func PathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, apperr.Fields(map[string]string{name: "must be a number"})
	}
	return id, nil
}

// Pagination is the from/size pair of list endpoints.
type Pagination struct {
	From int
	Size int
}

// ParsePagination reads from and size. When required is false missing values
// fall back to DefaultFrom and DefaultSize.
func ParsePagination(c *gin.Context, required bool) (Pagination, error) {
	fields := map[string]string{}
	from := queryInt(c, "from", DefaultFrom, required, fields)
	size := queryInt(c, "size", DefaultSize, required, fields)
	if _, bad := fields["from"]; !bad && from < 0 {
		fields["from"] = "must be greater than or equal to 0"
	}
	if _, bad := fields["size"]; !bad && size < 1 {
		fields["size"] = "must be greater than 0"
	}
	if len(fields) > 0 {
		return Pagination{}, apperr.Fields(fields)
	}
	return Pagination{From: from, Size: size}, nil
}

func queryInt(c *gin.Context, name string, def int, required bool, fields map[string]string) int {
	raw, ok := c.GetQuery(name)
	if !ok {
		if required {
			fields[name] = "is required"
		}
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		fields[name] = "must be a number"
		return def
	}
	return n
}

// ParseState reads the booking state filter. An unknown value is an
// UnsupportedState error; a missing one is a validation error when required.
func ParseState(c *gin.Context, required bool) (models.BookingState, error) {
	raw, ok := c.GetQuery("state")
	if !ok {
		if required {
			return "", apperr.Fields(map[string]string{"state": "is required"})
		}
		raw = DefaultState
	}
	state, known := models.ParseBookingState(raw)
	if !known {
		return "", apperr.UnsupportedState(raw)
	}
	return state, nil
}

// ParseApproved reads the boolean approved flag of a booking confirmation.
func ParseApproved(c *gin.Context) (bool, error) {
	raw, ok := c.GetQuery("approved")
	if !ok {
		return false, apperr.Fields(map[string]string{"approved": "is required"})
	}
	approved, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperr.Fields(map[string]string{"approved": "must be true or false"})
	}
	return approved, nil
}
