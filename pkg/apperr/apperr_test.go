package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NotFound("user %d not found", 1), http.StatusNotFound},
		{Access("booking %d", 3), http.StatusNotFound},
		{Validation("bad"), http.StatusBadRequest},
		{Conflict("email taken"), http.StatusConflict},
		{UnsupportedState("REJECTING"), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", NotFound("item")), http.StatusNotFound},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), tc.err.Error())
	}
}

func TestBodyOf(t *testing.T) {
	body := BodyOf(NotFound("user %d not found", 9))
	assert.Equal(t, "Object not found", body.Error)
	assert.Equal(t, "user 9 not found", body.Message)

	body = BodyOf(UnsupportedState("UNSUPPORTED_STATUS"))
	assert.Equal(t, "Unknown state: UNSUPPORTED_STATUS", body.Error)

	body = BodyOf(errors.New("pq: connection refused"))
	assert.Equal(t, "Internal server error", body.Error)
	assert.Empty(t, body.Message)
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("unique constraint")
	err := Conflict("email already registered").Wrap(cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Contains(t, err.Error(), "unique constraint")
}

type signup struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Size  int    `json:"size" validate:"min=1"`
}

func TestFromBinding(t *testing.T) {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})

	err := v.Struct(signup{Email: "not-an-email"})
	require.Error(t, err)

	appErr := FromBinding(err)
	assert.Equal(t, KindValidation, appErr.Kind)
	assert.Equal(t, "must not be null", appErr.Fields["name"])
	assert.Equal(t, "must be a well-formed email address", appErr.Fields["email"])
	assert.Equal(t, "must be greater than or equal to 1", appErr.Fields["size"])

	var target map[string]string
	syntaxErr := json.Unmarshal([]byte("{"), &target)
	assert.Equal(t, KindValidation, FromBinding(syntaxErr).Kind)
}

func TestRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/bookings", nil)

	Respond(c, Validation("Booking is already approved"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, c.IsAborted())
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Invalid value", body["error"])
	assert.Equal(t, "Booking is already approved", body["message"])
	assert.NotContains(t, body, "fields")
}
