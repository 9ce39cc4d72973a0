package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/psycho-70/Eservice-frontend/internal/session"
)

const sessionKey = "session"

// SessionLoader reads the session cookies and attaches the session to both
// the gin context and the request context, where the API client finds it.
func SessionLoader(cookies session.Cookies) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := cookies.Read(c.Request)
		c.Set(sessionKey, s)
		c.Request = c.Request.WithContext(session.NewContext(c.Request.Context(), s))
		c.Next()
	}
}

// CurrentSession returns the session attached by SessionLoader. It never
// returns nil.
func CurrentSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(*session.Session); ok && s != nil {
			return s
		}
	}
	return &session.Session{}
}

// RequireSession redirects to signinPath unless the request carries a
// session token. Only presence is checked.
func RequireSession(signinPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentSession(c).Authenticated() {
			Logger(c).Debug("no session, redirecting to sign in")
			c.Redirect(http.StatusFound, signinPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequirePrefixSession applies RequireSession to every path starting with
// prefix, including paths no route matches. It belongs in the engine-wide
// chain so unknown admin paths redirect instead of answering 404.
func RequirePrefixSession(prefix, signinPath string) gin.HandlerFunc {
	guard := RequireSession(signinPath)
	return func(c *gin.Context) {
		if !strings.HasPrefix(c.Request.URL.Path, prefix) {
			c.Next()
			return
		}
		guard(c)
	}
}
