// Package validators configures request validation and turns validator
// failures into field errors.
package validators

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	nonstandard "github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/planwise/engine/internal/api/types"
)

var projectKeyPattern = regexp.MustCompile(`^[A-Za-z0-9]{2,4}$`)

// New returns a validator that reports JSON field names and knows the
// projectkey, notblank and maxbytes tags.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("projectkey", func(fl validator.FieldLevel) bool {
		return projectKeyPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("notblank", nonstandard.NotBlank)
	// maxbytes bounds the UTF-8 length; max counts runes.
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= n
	})
	return v
}

// Translate converts a validation error into field errors. Other errors
// yield nil.
func Translate(err error) []types.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]types.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, types.FieldError{
			Field:   fe.Field(),
			Message: message(fe),
			Code:    fe.Tag(),
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	f := fe.Field()
	switch fe.Tag() {
	case "required":
		return f + " is required"
	case "email":
		return f + " must be a valid email address"
	case "url":
		return f + " must be a valid URL"
	case "uuid":
		return f + " must be a valid id"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", f, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", f, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", f, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", f, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", f, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", f, fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s must match %s", f, lowerFirst(fe.Param()))
	case "notblank":
		return f + " must not be blank"
	case "maxbytes":
		return fmt.Sprintf("%s must be at most %s bytes", f, fe.Param())
	case "projectkey":
		return f + " must be 2 to 4 letters or digits"
	default:
		return fmt.Sprintf("%s is invalid (%s)", f, fe.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
