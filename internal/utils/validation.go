package utils

import (
	"regexp"
	"strings"

	"github.com/psycho-70/Eservice-frontend/internal/models"
)

var (
	emailRegex     = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	lowercaseRegex = regexp.MustCompile(`[a-z]`)
	uppercaseRegex = regexp.MustCompile(`[A-Z]`)
	digitRegex     = regexp.MustCompile(`\d`)
)

// Messages shown by the sign-in and change-password forms
const (
	MsgSignInFieldsRequired    = "Please enter both email and password."
	MsgAllFieldsRequired       = "All fields are required."
	MsgPasswordsDoNotMatch     = "New passwords do not match."
	MsgPasswordUnchanged       = "New password cannot be the same as old password."
	MsgCreateFieldsRequired    = "Reference number, passport number and facility 700 are required"
	MsgReferenceNumberRequired = "Please enter a reference number"
)

// ValidationError represents a validation error with field and message
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult represents the result of validation
type ValidationResult struct {
	IsValid bool              `json:"is_valid"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

// NewValidationResult creates a new validation result
func NewValidationResult() *ValidationResult {
	return &ValidationResult{
		IsValid: true,
		Errors:  []ValidationError{},
	}
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.IsValid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// Message joins all error messages into the single line the forms display
func (vr *ValidationResult) Message() string {
	msgs := make([]string, 0, len(vr.Errors))
	for _, e := range vr.Errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, ", ")
}

// ValidateSignIn checks that both credentials are present
func ValidateSignIn(input models.LoginRequest) *ValidationResult {
	result := NewValidationResult()

	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		result.AddError("credentials", MsgSignInFieldsRequired)
	}

	return result
}

// ValidatePasswordStrength applies the account password policy
func ValidatePasswordStrength(password string) *ValidationResult {
	result := NewValidationResult()

	if len(password) < 6 {
		result.AddError("newPassword", "Password must be at least 6 characters long")
	}
	if !lowercaseRegex.MatchString(password) {
		result.AddError("newPassword", "Password must contain at least one lowercase letter")
	}
	if !uppercaseRegex.MatchString(password) {
		result.AddError("newPassword", "Password must contain at least one uppercase letter")
	}
	if !digitRegex.MatchString(password) {
		result.AddError("newPassword", "Password must contain at least one number")
	}

	return result
}

// ValidateChangePassword validates the change-password form. Checks run in
// order and stop at the first failing group.
func ValidateChangePassword(input models.ChangePasswordInput) *ValidationResult {
	result := NewValidationResult()

	if strings.TrimSpace(input.Email) == "" || input.OldPassword == "" ||
		input.NewPassword == "" || input.ConfirmPassword == "" {
		result.AddError("form", MsgAllFieldsRequired)
		return result
	}

	if !emailRegex.MatchString(strings.TrimSpace(input.Email)) {
		result.AddError("email", "Invalid email format")
		return result
	}

	if strength := ValidatePasswordStrength(input.NewPassword); !strength.IsValid {
		return strength
	}

	if input.NewPassword != input.ConfirmPassword {
		result.AddError("confirmPassword", MsgPasswordsDoNotMatch)
		return result
	}

	if input.OldPassword == input.NewPassword {
		result.AddError("newPassword", MsgPasswordUnchanged)
	}

	return result
}

// ValidateCreateForm checks the three fields of the initial creation step
func ValidateCreateForm(input models.CreateFormInput) *ValidationResult {
	result := NewValidationResult()

	if input.ReferenceNumber == "" || input.PassportNumber == "" || input.Facility700 == "" {
		result.AddError("form", MsgCreateFieldsRequired)
		return result
	}

	if len(input.ReferenceNumber) > 64 {
		result.AddError("referenceNumber", "Reference number must not exceed 64 characters")
	}
	if len(input.PassportNumber) > 64 {
		result.AddError("passportNumber", "Passport number must not exceed 64 characters")
	}
	if len(input.Facility700) > 64 {
		result.AddError("facility700", "Facility 700 must not exceed 64 characters")
	}

	return result
}

// ValidateReferenceNumber checks a public lookup query
func ValidateReferenceNumber(ref string) *ValidationResult {
	result := NewValidationResult()

	if strings.TrimSpace(ref) == "" {
		result.AddError("referenceNumber", MsgReferenceNumberRequired)
	}

	return result
}

// SanitizeString removes leading/trailing whitespace
func SanitizeString(s string) string {
	return strings.TrimSpace(s)
}

// SanitizeCreateFormInput trims the creation-step fields
func SanitizeCreateFormInput(input models.CreateFormInput) models.CreateFormInput {
	return models.CreateFormInput{
		ReferenceNumber: SanitizeString(input.ReferenceNumber),
		PassportNumber:  SanitizeString(input.PassportNumber),
		Facility700:     SanitizeString(input.Facility700),
	}
}
