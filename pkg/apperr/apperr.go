package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindConflict
	KindAccess
	KindUnsupportedState
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAccess:
		return "access"
	case KindUnsupportedState:
		return "unsupported_state"
	default:
		return "internal"
	}
}

// Error is the error type returned by services and request parsing.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return newError(KindNotFound, format, args...)
}

func Validation(format string, args ...any) *Error {
	return newError(KindValidation, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return newError(KindConflict, format, args...)
}

func Access(format string, args ...any) *Error {
	return newError(KindAccess, format, args...)
}

// UnsupportedState reports a booking state filter that is not one of the known values.
func UnsupportedState(state string) *Error {
	return &Error{Kind: KindUnsupportedState, Message: "Unknown state: " + state}
}

// Fields builds a validation error carrying a field to message map.
func Fields(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "Validation failed", Fields: fields}
}

// Wrap attaches a cause to e and returns it.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

// KindOf reports the kind of the first *Error in err's chain, KindInternal if none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound, KindAccess:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Body is the JSON error payload shared by both tiers.
type Body struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func title(kind Kind) string {
	switch kind {
	case KindNotFound:
		return "Object not found"
	case KindValidation:
		return "Invalid value"
	case KindConflict:
		return "Object already exists"
	case KindAccess:
		return "Object not accessible"
	default:
		return "Internal server error"
	}
}

// BodyOf renders err as the public payload. Internal errors never leak their text.
func BodyOf(err error) Body {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return Body{Error: title(KindInternal)}
	}
	if appErr.Kind == KindUnsupportedState {
		return Body{Error: appErr.Message, Message: appErr.Message}
	}
	return Body{Error: title(appErr.Kind), Message: appErr.Message, Fields: appErr.Fields}
}

// Respond writes err to the client and logs it with the request logger.
func Respond(c *gin.Context, err error) {
	status := HTTPStatus(err)
	log := zerolog.Ctx(c.Request.Context())
	if status >= http.StatusInternalServerError && KindOf(err) == KindInternal {
		log.Error().Err(err).Msg("request failed")
	} else {
		log.Debug().Err(err).Str("kind", KindOf(err).String()).Msg("request rejected")
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, BodyOf(err))
}

// FromBinding converts a gin binding failure into a validation error.
func FromBinding(err error) *Error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fieldMessage(fe)
		}
		return Fields(fields).Wrap(err)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return Validation("request body is empty").Wrap(err)
	case errors.As(err, &syntaxErr):
		return Validation("malformed JSON at offset %d", syntaxErr.Offset).Wrap(err)
	case errors.As(err, &typeErr):
		return Fields(map[string]string{typeErr.Field: "must be of type " + typeErr.Type.String()}).Wrap(err)
	}
	return Validation("%s", err.Error()).Wrap(err)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be null"
	case "notblank":
		return "must not be blank"
	case "email":
		return "must be a well-formed email address"
	case "min", "gte":
		return "must be greater than or equal to " + fe.Param()
	case "max", "lte":
		return "must be less than or equal to " + fe.Param()
	default:
		return "failed on " + fe.Tag()
	}
}
