package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// ErrEmptyCompletion is returned when the backend answered but produced no
// usable choice. It is not a service failure.
var ErrEmptyCompletion = errors.New("completion returned no content")

// ServiceError reports that the completion backend was unreachable or
// answered with an error. StatusCode is zero when no HTTP response arrived.
type ServiceError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: service returned status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: service request failed: %v", e.Provider, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// IsServiceError reports whether err, or anything it wraps, is a *ServiceError.
func IsServiceError(err error) bool {
	var se *ServiceError
	return errors.As(err, &se)
}

// wrapTransportError reports unreachable backends, timeouts and cancellations
// as *ServiceError. Anything else, such as an undecodable 2xx body, stays a
// plain error.
func wrapTransportError(provider string, err error) error {
	if isTransportError(err) {
		return &ServiceError{Provider: provider, Err: err}
	}
	return fmt.Errorf("%s: %w", provider, err)
}

func isTransportError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
