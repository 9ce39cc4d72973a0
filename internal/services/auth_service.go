package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/psycho-70/Eservice-frontend/internal/logging"
	"github.com/psycho-70/Eservice-frontend/internal/models"
	"github.com/psycho-70/Eservice-frontend/internal/observability"
	"github.com/psycho-70/Eservice-frontend/internal/session"
	"github.com/psycho-70/Eservice-frontend/internal/utils"
	"go.uber.org/zap"
)

// Messages shown on the sign-in page
const (
	MsgInvalidCredentials   = "Please enter correct email and password."
	MsgSignInFailed         = "Sign in failed"
	MsgChangePasswordFailed = "Failed to change password"
	MsgPasswordChanged      = "Password changed successfully! You can now sign in with your new password."
)

// FormError is a failure to be shown verbatim next to the submitted form
type FormError struct {
	Message string
	Err     error
}

func (e *FormError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *FormError) Unwrap() error {
	return e.Err
}

// FormMessage returns the message to display for err
func FormMessage(err error, fallback string) string {
	var fe *FormError
	if errors.As(err, &fe) {
		return fe.Message
	}
	return models.UserMessage(err, fallback)
}

// AuthAPI is the account half of the verification API
type AuthAPI interface {
	Login(ctx context.Context, in models.LoginRequest) (*models.LoginResponse, error)
	ChangePassword(ctx context.Context, in models.ChangePasswordRequest) error
}

// AuthService signs admins in and changes their passwords
type AuthService struct {
	api    AuthAPI
	logger *logging.SafeLogger
}

// NewAuthService creates an auth service on top of api
func NewAuthService(api AuthAPI, logger *logging.SafeLogger) *AuthService {
	return &AuthService{api: api, logger: logger}
}

// SignIn exchanges credentials for a session
func (s *AuthService) SignIn(ctx context.Context, in models.LoginRequest) (*session.Session, error) {
	in.Email = utils.SanitizeString(in.Email)

	if result := utils.ValidateSignIn(in); !result.IsValid {
		observability.SignIns.WithLabelValues("invalid_input").Inc()
		return nil, &FormError{Message: result.Message()}
	}

	resp, err := s.api.Login(ctx, in)
	if err != nil {
		var apiErr *models.APIError
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusUnauthorized) {
			observability.SignIns.WithLabelValues("rejected").Inc()
			s.logger.Info("sign in rejected", zap.String("email", observability.MaskEmail(in.Email)))
			return nil, &FormError{Message: MsgInvalidCredentials, Err: fmt.Errorf("%w: %v", models.ErrInvalidCredentials, err)}
		}

		observability.SignIns.WithLabelValues("error").Inc()
		s.logger.Error("sign in failed", zap.String("email", observability.MaskEmail(in.Email)), zap.Error(err))
		return nil, &FormError{Message: models.UserMessage(err, MsgSignInFailed), Err: err}
	}

	observability.SignIns.WithLabelValues("success").Inc()

	email := strings.TrimSpace(resp.User.Email)
	if email == "" {
		email = in.Email
	}
	s.logger.Info("sign in succeeded", zap.String("email", observability.MaskEmail(email)))
	return &session.Session{Token: resp.Token, Email: email}, nil
}

// ChangePassword validates the form locally, then asks the API to change the password
func (s *AuthService) ChangePassword(ctx context.Context, in models.ChangePasswordInput) error {
	in.Email = utils.SanitizeString(in.Email)

	if result := utils.ValidateChangePassword(in); !result.IsValid {
		return &FormError{Message: result.Message()}
	}

	if err := s.api.ChangePassword(ctx, in.Request()); err != nil {
		s.logger.Warn("change password failed", zap.String("email", observability.MaskEmail(in.Email)), zap.Error(err))
		return &FormError{Message: models.UserMessage(err, MsgChangePasswordFailed), Err: err}
	}

	s.logger.Info("password changed", zap.String("email", observability.MaskEmail(in.Email)))
	return nil
}
