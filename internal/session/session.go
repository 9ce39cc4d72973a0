// Package session carries the signed-in admin's token through a request.
package session

import (
	"context"
	"net/http"
	"strings"
)

// Session is the admin session attached to one request. Only the presence of
// a token is meaningful here; the verification API judges its validity.
type Session struct {
	Token string
	Email string
}

// Authenticated reports whether the session carries a token
func (s *Session) Authenticated() bool {
	return s != nil && strings.TrimSpace(s.Token) != ""
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying s
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session carried by ctx, if any
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	if !ok || s == nil {
		return nil, false
	}
	return s, true
}

// Token returns the session token carried by ctx, or ""
func Token(ctx context.Context) string {
	if s, ok := FromContext(ctx); ok {
		return s.Token
	}
	return ""
}

// Cookies reads and writes the session cookies
type Cookies struct {
	Name   string
	Secure bool
	// MaxAge in seconds; 0 makes a browser-session cookie
	MaxAge int
}

// EmailCookieName names the cookie holding the signed-in email
func (c Cookies) EmailCookieName() string {
	return c.Name + "Email"
}

// Read extracts the session from r. The result is never nil but may be
// unauthenticated.
func (c Cookies) Read(r *http.Request) *Session {
	s := &Session{}
	if ck, err := r.Cookie(c.Name); err == nil {
		s.Token = ck.Value
	}
	if ck, err := r.Cookie(c.EmailCookieName()); err == nil {
		s.Email = ck.Value
	}
	return s
}

// Write stores s in the response cookies
func (c Cookies) Write(w http.ResponseWriter, s *Session) {
	http.SetCookie(w, c.cookie(c.Name, s.Token, c.MaxAge))
	if s.Email != "" {
		http.SetCookie(w, c.cookie(c.EmailCookieName(), s.Email, c.MaxAge))
	}
}

// Clear expires both session cookies
func (c Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie(c.Name, "", -1))
	http.SetCookie(w, c.cookie(c.EmailCookieName(), "", -1))
}

func (c Cookies) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   c.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
