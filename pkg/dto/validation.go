package dto

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("notblank", validators.NotBlank)
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

// jsonFieldName makes validation errors report the wire name of a field.
func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// IsEmail checks a single value with the same rule the binding tags use.
func IsEmail(s string) bool {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return false
	}
	return v.Var(s, "email") == nil
}
