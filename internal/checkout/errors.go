package checkout

import (
	"errors"
	"fmt"
)

// ValidationError reports untrusted checkout input that was rejected.
// Index is the offending cart line, or -1 when the request as a whole is bad.
type ValidationError struct {
	Index   int
	Message string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return "invalid request: " + e.Message
	}
	return fmt.Sprintf("invalid item at index %d: %s", e.Index, e.Message)
}

// IsValidationError reports whether err (or anything it wraps) is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func requestError(format string, args ...any) error {
	return &ValidationError{Index: -1, Message: fmt.Sprintf(format, args...)}
}

func itemError(index int, format string, args ...any) error {
	return &ValidationError{Index: index, Message: fmt.Sprintf(format, args...)}
}
