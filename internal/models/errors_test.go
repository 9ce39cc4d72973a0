package models

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorConstants(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		expectedMsg string
	}{
		{"ErrNotFound", ErrNotFound, "document not found"},
		{"ErrUnauthorized", ErrUnauthorized, "unauthorized"},
		{"ErrInvalidCredentials", ErrInvalidCredentials, "invalid credentials"},
		{"ErrEmptySelection", ErrEmptySelection, "no forms selected"},
		{"ErrMissingID", ErrMissingID, "form id is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.expectedMsg {
				t.Errorf("%s.Error() = %q, want %q", tt.name, tt.err.Error(), tt.expectedMsg)
			}
		})
	}
}

func TestAPIError_Error(t *testing.T) {
	assert.Equal(t, "verification api returned status 500", (&APIError{Status: 500}).Error())
	assert.Equal(t, "verification api returned status 400: Reference number already exists",
		(&APIError{Status: 400, Message: "Reference number already exists"}).Error())
}

func TestAPIError_Is(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		notFound     bool
		unauthorized bool
	}{
		{"not found", http.StatusNotFound, true, false},
		{"unauthorized", http.StatusUnauthorized, false, true},
		{"forbidden", http.StatusForbidden, false, true},
		{"server error", http.StatusInternalServerError, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fmt.Errorf("get form: %w", &APIError{Status: tt.status})
			assert.Equal(t, tt.notFound, errors.Is(err, ErrNotFound))
			assert.Equal(t, tt.unauthorized, errors.Is(err, ErrUnauthorized))
		})
	}
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Form not found", UserMessage(fmt.Errorf("wrap: %w", &APIError{Status: 404, Message: "Form not found"}), "Document not found"))
	assert.Equal(t, "Document not found", UserMessage(&APIError{Status: 404}, "Document not found"))
	assert.Equal(t, "Failed to load document", UserMessage(errors.New("dial tcp: refused"), "Failed to load document"))
	assert.Equal(t, "fallback", UserMessage(nil, "fallback"))
}
