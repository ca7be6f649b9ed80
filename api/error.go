package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a structured failure reported by the backend, or a local
// timeout/cancellation. Timeouts carry no status code and must be
// distinguishable so pollers can swallow them while user-initiated calls
// show retry text.
type Error struct {
	StatusCode int
	Message    string
	Timeout    bool
}

func (e *Error) Error() string {
	if e.Timeout {
		return "request timed out"
	}
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

func IsTimeout(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Timeout
}

func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// ErrorMessage extracts the server-reported message for display, falling
// back to the given generic text for network failures and empty bodies.
func ErrorMessage(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && !apiErr.Timeout && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
