package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/psycho-70/Eservice-frontend/internal/middleware"
	"github.com/psycho-70/Eservice-frontend/internal/models"
	"github.com/psycho-70/Eservice-frontend/internal/observability"
	"github.com/psycho-70/Eservice-frontend/internal/services"
	"github.com/psycho-70/Eservice-frontend/internal/session"
	"go.uber.org/zap"
)

// AuthHandlers serves the sign-in page, sign-out and password changes
type AuthHandlers struct {
	auth    *services.AuthService
	cookies session.Cookies
}

// NewAuthHandlers creates auth handlers storing sessions in cookies
func NewAuthHandlers(auth *services.AuthService, cookies session.Cookies) *AuthHandlers {
	return &AuthHandlers{auth: auth, cookies: cookies}
}

func signinPage() signinView {
	return signinView{pageView: pageView{Title: "Sign in"}}
}

// Home sends signed-in admins to the dashboard and everyone else to sign in
func (h *AuthHandlers) Home(c *gin.Context) {
	if middleware.CurrentSession(c).Authenticated() {
		c.Redirect(http.StatusFound, AdminPath)
		return
	}
	c.Redirect(http.StatusFound, SignInPath)
}

// SignInPage renders the sign-in form. ?change=1 also opens the change
// password form.
func (h *AuthHandlers) SignInPage(c *gin.Context) {
	view := signinPage()
	view.ShowChange = c.Query("change") != ""
	c.HTML(http.StatusOK, "signin.html", view)
}

// SignIn exchanges the posted credentials for a session cookie
func (h *AuthHandlers) SignIn(c *gin.Context) {
	in := models.LoginRequest{
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
	}

	s, err := h.auth.SignIn(c.Request.Context(), in)
	if err != nil {
		view := signinPage()
		view.SignInEmail = in.Email
		view.Error = services.FormMessage(err, services.MsgSignInFailed)
		c.HTML(signInStatus(err), "signin.html", view)
		return
	}

	h.cookies.Write(c.Writer, s)
	middleware.Logger(c).Info("signed in", zap.String("email", observability.MaskEmail(s.Email)))
	c.Redirect(http.StatusSeeOther, AdminPath)
}

// signInStatus picks the status of a failed sign-in page
func signInStatus(err error) int {
	var fe *services.FormError
	switch {
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.As(err, &fe) && fe.Err == nil:
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

// SignOut clears the session cookies
func (h *AuthHandlers) SignOut(c *gin.Context) {
	if s := middleware.CurrentSession(c); s.Authenticated() {
		middleware.Logger(c).Info("signed out", zap.String("email", observability.MaskEmail(s.Email)))
	}
	h.cookies.Clear(c.Writer)
	c.Redirect(http.StatusFound, SignInPath)
}

// ChangePassword handles the change password form of the sign-in page
func (h *AuthHandlers) ChangePassword(c *gin.Context) {
	var in models.ChangePasswordInput
	if err := c.ShouldBind(&in); err != nil {
		middleware.Logger(c).Debug("change password form did not bind", zap.Error(err))
	}

	view := signinPage()
	view.ShowChange = true
	view.ChangeEmail = in.Email

	if err := h.auth.ChangePassword(c.Request.Context(), in); err != nil {
		view.ChangeError = services.FormMessage(err, services.MsgChangePasswordFailed)
		status := http.StatusBadGateway
		var fe *services.FormError
		if errors.As(err, &fe) && fe.Err == nil {
			status = http.StatusBadRequest
		}
		c.HTML(status, "signin.html", view)
		return
	}

	view.ChangeNotice = services.MsgPasswordChanged
	view.SignInEmail = in.Email
	view.ChangeEmail = ""
	c.HTML(http.StatusOK, "signin.html", view)
}
