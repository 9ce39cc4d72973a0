package observability

import (
	"github.com/psycho-70/Eservice-frontend/internal/logging"
)

// Logger returns the global safe logger instance
func Logger() *logging.SafeLogger {
	return logging.Logger
}

// MaskPassport masks a passport number for logging, keeping the first and
// last two characters.
func MaskPassport(passport string) string {
	if len(passport) <= 4 {
		return "****"
	}
	return passport[:2] + "****" + passport[len(passport)-2:]
}

// MaskEmail masks the local part of an email address for logging
func MaskEmail(email string) string {
	for i := 0; i < len(email); i++ {
		if email[i] == '@' {
			if i == 0 {
				return "***" + email
			}
			return email[:1] + "***" + email[i:]
		}
	}
	return "***"
}
