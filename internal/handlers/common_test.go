package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/psycho-70/Eservice-frontend/internal/config"
	"github.com/psycho-70/Eservice-frontend/internal/logging"
	"github.com/psycho-70/Eservice-frontend/internal/middleware"
	"github.com/psycho-70/Eservice-frontend/internal/services"
	"github.com/psycho-70/Eservice-frontend/internal/session"
	fake "github.com/psycho-70/Eservice-frontend/internal/testutil"
	"github.com/psycho-70/Eservice-frontend/internal/web"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testCookies = session.Cookies{Name: "authToken"}

var fixedNow = time.Date(2025, 10, 14, 20, 26, 23, 0, time.UTC)

type portalOption func(*Portal)

func withLimiter(l middleware.Limiter) portalOption {
	return func(p *Portal) { p.LookupLimiter = l }
}

func withHealthChecks(checks map[string]HealthCheck) portalOption {
	return func(p *Portal) { p.Health = NewHealthHandlers(checks) }
}

// setupPortal wires every handler against a fake verification API
func setupPortal(t *testing.T, opts ...portalOption) (*gin.Engine, *fake.FakeAPI) {
	t.Helper()

	api := fake.NewFakeAPI(t)
	client := services.NewAPIClient(&config.Config{
		APIBaseURL:    api.URL(),
		APITimeout:    5 * time.Second,
		APIMaxClients: 4,
	}, logging.Logger)
	t.Cleanup(client.Close)

	forms := NewFormHandlers(client, services.NewFormService(client, logging.Logger))
	forms.now = func() time.Time { return fixedNow }

	portal := &Portal{
		Auth:      NewAuthHandlers(services.NewAuthService(client, logging.Logger), testCookies),
		Dashboard: NewDashboardHandlers(services.NewFormService(client, logging.Logger)),
		Forms:     forms,
		Verify:    NewVerifyHandlers(client),
		Health:    NewHealthHandlers(nil),
	}
	for _, opt := range opts {
		opt(portal)
	}

	router := gin.New()
	router.SetHTMLTemplate(web.MustTemplates())
	router.Use(middleware.SessionLoader(testCookies))
	portal.Register(router)
	return router, api
}

// signedIn adds the session cookies the sign-in handler sets
func signedIn(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: "authToken", Value: "test-session-token"})
	req.AddCookie(&http.Cookie{Name: "authTokenEmail", Value: "admin@example.com"})
	return req
}

func get(router http.Handler, target string, admin bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if admin {
		signedIn(req)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func postForm(router http.Handler, target string, form url.Values, admin bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if admin {
		signedIn(req)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// stubLimiter allows a fixed number of requests in total
type stubLimiter struct {
	left int
}

func (l *stubLimiter) Allow(context.Context, string) (bool, error) {
	if l.left <= 0 {
		return false, nil
	}
	l.left--
	return true, nil
}
