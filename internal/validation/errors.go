package validation

import (
	"errors"
	"fmt"
)

// ErrInvalid matches every *Error via errors.Is.
var ErrInvalid = errors.New("validation failed")

// Error describes a rejected input field.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *Error) Is(target error) bool {
	return target == ErrInvalid
}

func invalid(field, message string) error {
	return &Error{Field: field, Message: message}
}
