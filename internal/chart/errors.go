package chart

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/litescript/ls-natal/internal/civil"
	"github.com/litescript/ls-natal/internal/zodiac"
)

// ErrInvalidInput is returned when an input field is missing, malformed or
// out of range. It is detected before any ephemeris call.
var ErrInvalidInput = errors.New("invalid input")

// Errors from the lower layers, re-exported so callers only import chart.
var (
	ErrUnresolvedTimeZone    = civil.ErrUnresolvedTimeZone
	ErrDegenerateSignMapping = zodiac.ErrDegenerateSignMapping
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field  string
	Value  any
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s (got %v)", e.Field, e.Reason, e.Value)
}

// Unwrap makes FieldError match ErrInvalidInput.
func (e *FieldError) Unwrap() error {
	return ErrInvalidInput
}

func fieldErrors(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	errs := make([]error, 0, len(ves))
	for _, fe := range ves {
		errs = append(errs, &FieldError{
			Field:  fe.Field(),
			Value:  fe.Value(),
			Reason: reason(fe),
		})
	}
	return errors.Join(errs...)
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		if fe.Type().Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}
