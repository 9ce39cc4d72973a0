package models

import (
	"errors"
	"fmt"
	"net/http"
)

// Error constants for verification API operations
var (
	ErrNotFound           = errors.New("document not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmptySelection     = errors.New("no forms selected")
	ErrMissingID          = errors.New("form id is required")
)

// APIError is a non-success response from the verification API
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("verification api returned status %d", e.Status)
	}
	return fmt.Sprintf("verification api returned status %d: %s", e.Status, e.Message)
}

// Is lets errors.Is match API errors against the sentinels above
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	}
	return false
}

// UserMessage returns the text to show for err, or fallback when err carries
// no server-provided message.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
