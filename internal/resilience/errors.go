// Package resilience classifies upstream failures and applies the
// credential refresh policy to authorized calls.
package resilience

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// TransientError wraps an upstream failure that may succeed if the caller
// tries again later (429, 5xx, network timeout). Nothing in this module
// retries it automatically; it only changes how the failure is reported.
type TransientError struct {
	Err        error
	StatusCode int
}

func (e *TransientError) Error() string {
	return e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// NewTransientError wraps an error as transient with an optional HTTP status code.
func NewTransientError(err error, statusCode int) *TransientError {
	return &TransientError{Err: err, StatusCode: statusCode}
}

// IsTransient reports whether err (or any error in its chain) is a
// TransientError or a network-level failure such as a timeout or reset.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var te *TransientError
	if errors.As(err, &te) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, p := range []string{
		"connection reset by peer",
		"broken pipe",
		"no such host",
		"i/o timeout",
		"server closed idle connection",
	} {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// IsTransientHTTPStatus reports whether an HTTP status indicates a
// temporary server-side condition.
func IsTransientHTTPStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// UnauthorizedError marks an authorization failure (HTTP 401 or an
// equivalent backend signal). Terminal is set once the credential refresh
// policy has already been applied.
type UnauthorizedError struct {
	Err      error
	Terminal bool
}

func (e *UnauthorizedError) Error() string {
	if e.Terminal {
		return "unauthorized after credential refresh: " + e.Err.Error()
	}
	return "unauthorized: " + e.Err.Error()
}

func (e *UnauthorizedError) Unwrap() error {
	return e.Err
}

// NewUnauthorizedError wraps err as an authorization failure.
func NewUnauthorizedError(err error) *UnauthorizedError {
	return &UnauthorizedError{Err: err}
}

// IsUnauthorized reports whether err is, or wraps, an UnauthorizedError.
func IsUnauthorized(err error) bool {
	var ue *UnauthorizedError
	return errors.As(err, &ue)
}

// IsTerminalUnauthorized reports whether err is an authorization failure
// that survived a credential refresh.
func IsTerminalUnauthorized(err error) bool {
	var ue *UnauthorizedError
	return errors.As(err, &ue) && ue.Terminal
}
