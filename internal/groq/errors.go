package groq

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"
)

// Provider policy errors. These are surfaced to the caller with a
// distinguishable remediation path and are never silently retried.
var (
	// ErrTermsNotAccepted means the account has not accepted the model's
	// terms on the provider console.
	ErrTermsNotAccepted = errors.New("terms acceptance required")

	// ErrRateLimited is the provider's HTTP 429.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrNoAPIKey means the client was constructed without a credential.
	ErrNoAPIKey = errors.New("GROQ_API_KEY is not configured")
)

// StatusError is a non-2xx provider response that maps to no policy error.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Body)
}

// IsTransient reports whether err is a connection-class failure worth
// retrying. Policy errors and plain bad statuses are not transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTermsNotAccepted) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return false
	}

	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "connection reset") || strings.Contains(msg, "connection error")
}
