package client

import (
	"errors"
	"fmt"
)

// APIError represents a non-2xx HTTP response from the FIDD backend.
// Message carries the server-provided message when one was present;
// Fields carries per-field validation errors for 4xx rejections.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string][]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus returns true if err (or any wrapped error) is an APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == code
	}
	return false
}

// Message returns the server-provided message from err, or fallback when err
// is not an APIError or carries no message. Views use it to turn transport
// failures into a stable user-facing line.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
