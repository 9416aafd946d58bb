package payment

import (
	"errors"

	"github.com/stripe/stripe-go/v80"
)

var (
	ErrNotConfigured       = errors.New("payment provider is not configured")
	ErrProviderUnavailable = errors.New("payment provider is temporarily unavailable")
	ErrInvalidSignature    = errors.New("invalid webhook signature")
)

// ProviderError carries the provider's own message for diagnostics.
type ProviderError struct {
	Message    string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	return "payment provider error: " + e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func newProviderError(err error) *ProviderError {
	var se *stripe.Error
	if errors.As(err, &se) {
		msg := se.Msg
		if msg == "" {
			msg = string(se.Type)
		}
		return &ProviderError{Message: msg, StatusCode: se.HTTPStatusCode, Err: err}
	}
	return &ProviderError{Message: err.Error(), Err: err}
}

// countsAsFailure decides whether an error should trip the circuit breaker.
// Requests the provider rejected as invalid say nothing about its health.
func countsAsFailure(err error) bool {
	if err == nil {
		return false
	}
	var se *stripe.Error
	if errors.As(err, &se) {
		return se.HTTPStatusCode >= 500 || se.HTTPStatusCode == 429 || se.HTTPStatusCode == 0
	}
	return true
}
