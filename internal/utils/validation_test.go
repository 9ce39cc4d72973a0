package utils

import (
	"strings"
	"testing"

	"github.com/psycho-70/Eservice-frontend/internal/models"
)

func TestNewValidationResult(t *testing.T) {
	result := NewValidationResult()

	if result == nil {
		t.Fatal("NewValidationResult() returned nil")
	}
	if !result.IsValid {
		t.Error("NewValidationResult() IsValid should be true")
	}
	if result.Errors == nil {
		t.Error("NewValidationResult() Errors should not be nil")
	}
	if len(result.Errors) != 0 {
		t.Errorf("NewValidationResult() should have 0 errors, got %d", len(result.Errors))
	}
}

func TestValidationResult_AddError(t *testing.T) {
	result := NewValidationResult()

	result.AddError("test_field", "test message")

	if result.IsValid {
		t.Error("AddError() should set IsValid to false")
	}
	if len(result.Errors) != 1 {
		t.Fatalf("AddError() should have 1 error, got %d", len(result.Errors))
	}
	if result.Errors[0].Field != "test_field" {
		t.Errorf("AddError() Field = %q, want %q", result.Errors[0].Field, "test_field")
	}

	result.AddError("field2", "message2")
	if got := result.Message(); got != "test message, message2" {
		t.Errorf("Message() = %q", got)
	}
}

func TestValidateSignIn(t *testing.T) {
	tests := []struct {
		name      string
		input     models.LoginRequest
		wantValid bool
	}{
		{"both present", models.LoginRequest{Email: "admin@example.com", Password: "Secret1"}, true},
		{"missing email", models.LoginRequest{Password: "Secret1"}, false},
		{"blank email", models.LoginRequest{Email: "   ", Password: "Secret1"}, false},
		{"missing password", models.LoginRequest{Email: "admin@example.com"}, false},
		{"both missing", models.LoginRequest{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateSignIn(tt.input)
			if result.IsValid != tt.wantValid {
				t.Fatalf("ValidateSignIn() IsValid = %v, want %v", result.IsValid, tt.wantValid)
			}
			if !tt.wantValid && result.Message() != MsgSignInFieldsRequired {
				t.Errorf("ValidateSignIn() Message = %q", result.Message())
			}
		})
	}
}

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		name       string
		password   string
		wantErrors int
	}{
		{"strong", "Abcde1", 0},
		{"too short", "Ab1", 1},
		{"no lowercase", "ABCDEF1", 1},
		{"no uppercase", "abcdef1", 1},
		{"no digit", "Abcdefg", 1},
		{"empty", "", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidatePasswordStrength(tt.password)
			if len(result.Errors) != tt.wantErrors {
				t.Errorf("ValidatePasswordStrength(%q) errors = %v, want %d", tt.password, result.Errors, tt.wantErrors)
			}
			if result.IsValid != (tt.wantErrors == 0) {
				t.Errorf("ValidatePasswordStrength(%q) IsValid = %v", tt.password, result.IsValid)
			}
		})
	}
}

func TestValidateChangePassword(t *testing.T) {
	valid := models.ChangePasswordInput{
		Email:           "admin@example.com",
		OldPassword:     "OldPass1",
		NewPassword:     "NewPass1",
		ConfirmPassword: "NewPass1",
	}

	tests := []struct {
		name    string
		mutate  func(in *models.ChangePasswordInput)
		wantMsg string
	}{
		{"valid", func(in *models.ChangePasswordInput) {}, ""},
		{"missing confirm", func(in *models.ChangePasswordInput) { in.ConfirmPassword = "" }, MsgAllFieldsRequired},
		{"missing email", func(in *models.ChangePasswordInput) { in.Email = " " }, MsgAllFieldsRequired},
		{"bad email", func(in *models.ChangePasswordInput) { in.Email = "admin" }, "Invalid email format"},
		{"weak", func(in *models.ChangePasswordInput) { in.NewPassword, in.ConfirmPassword = "newpass", "newpass" },
			"Password must contain at least one uppercase letter, Password must contain at least one number"},
		{"mismatch", func(in *models.ChangePasswordInput) { in.ConfirmPassword = "NewPass2" }, MsgPasswordsDoNotMatch},
		{"unchanged", func(in *models.ChangePasswordInput) {
			in.NewPassword, in.ConfirmPassword = in.OldPassword, in.OldPassword
		}, MsgPasswordUnchanged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			result := ValidateChangePassword(in)
			if tt.wantMsg == "" {
				if !result.IsValid {
					t.Fatalf("ValidateChangePassword() unexpected errors: %v", result.Errors)
				}
				return
			}
			if result.IsValid {
				t.Fatal("ValidateChangePassword() should be invalid")
			}
			if result.Message() != tt.wantMsg {
				t.Errorf("ValidateChangePassword() Message = %q, want %q", result.Message(), tt.wantMsg)
			}
		})
	}
}

func TestValidateCreateForm(t *testing.T) {
	tests := []struct {
		name      string
		input     models.CreateFormInput
		wantValid bool
		wantField string
	}{
		{"complete", models.CreateFormInput{ReferenceNumber: "1653542", PassportNumber: "HJ411328", Facility700: "7003134525"}, true, ""},
		{"missing facility", models.CreateFormInput{ReferenceNumber: "1653542", PassportNumber: "HJ411328"}, false, "form"},
		{"missing reference", models.CreateFormInput{PassportNumber: "HJ411328", Facility700: "7003134525"}, false, "form"},
		{"reference too long", models.CreateFormInput{ReferenceNumber: strings.Repeat("1", 65), PassportNumber: "HJ411328", Facility700: "7003134525"}, false, "referenceNumber"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateCreateForm(tt.input)
			if result.IsValid != tt.wantValid {
				t.Fatalf("ValidateCreateForm() IsValid = %v, want %v", result.IsValid, tt.wantValid)
			}
			if !tt.wantValid && result.Errors[0].Field != tt.wantField {
				t.Errorf("ValidateCreateForm() field = %q, want %q", result.Errors[0].Field, tt.wantField)
			}
		})
	}
}

func TestValidateReferenceNumber(t *testing.T) {
	if !ValidateReferenceNumber("1653542").IsValid {
		t.Error("ValidateReferenceNumber() should accept a reference")
	}
	result := ValidateReferenceNumber("  ")
	if result.IsValid || result.Message() != MsgReferenceNumberRequired {
		t.Errorf("ValidateReferenceNumber() = %+v", result)
	}
}

func TestSanitizeCreateFormInput(t *testing.T) {
	got := SanitizeCreateFormInput(models.CreateFormInput{
		ReferenceNumber: " 1653542 ",
		PassportNumber:  "\tHJ411328",
		Facility700:     "7003134525\n",
	})
	want := models.CreateFormInput{ReferenceNumber: "1653542", PassportNumber: "HJ411328", Facility700: "7003134525"}
	if got != want {
		t.Errorf("SanitizeCreateFormInput() = %+v, want %+v", got, want)
	}
}
