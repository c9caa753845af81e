package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrTransport  = errors.New("transport error")
)

// User-facing status messages. They are surfaced verbatim by every presentation layer.
const (
	MsgSymbols   = "No numbers or symbols, please try again"
	MsgMultiWord = "Please do one word per search"
	MsgNotFound  = "Sorry, we couldn't find that word :("
	MsgAPIDown   = "API might be down, please try again"
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// StatusMessage maps a lookup error to the message shown to the user.
// Validation errors keep their own message; a miss gets MsgNotFound and
// everything else is reported as the API being down.
func StatusMessage(err error) string {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve) && len(ve.Errors) > 0:
		return ve.Errors[0].Message
	case errors.Is(err, ErrNotFound):
		return MsgNotFound
	default:
		return MsgAPIDown
	}
}
