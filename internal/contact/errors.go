package contact

import (
	"errors"
	"fmt"

	"github.com/tartampluch/go-contacts/internal/config"
)

// ErrNotFound is returned when a contact or one of its phones does not exist.
var ErrNotFound = errors.New(config.ErrNotFound)

// ValidationError reports a field value that was rejected at construction.
type ValidationError struct {
	Field string
	Value string

	// MessageID is the translation key of Message.
	MessageID string
	Message   string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(field, value, messageID, message string) *ValidationError {
	return &ValidationError{
		Field:     field,
		Value:     value,
		MessageID: messageID,
		Message:   message,
	}
}

// notFound wraps ErrNotFound with the missing key.
func notFound(key string) error {
	return fmt.Errorf("%w: %q", ErrNotFound, key)
}
