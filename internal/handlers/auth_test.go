package handlers

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psycho-70/Eservice-frontend/internal/services"
	"github.com/psycho-70/Eservice-frontend/internal/utils"
)

func TestHome_Redirects(t *testing.T) {
	router, _ := setupPortal(t)

	w := get(router, "/", false)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, SignInPath, w.Header().Get("Location"))

	w = get(router, "/", true)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, AdminPath, w.Header().Get("Location"))
}

func TestSignInPage(t *testing.T) {
	router, _ := setupPortal(t)

	w := get(router, SignInPath, false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/signin"`)
	assert.NotContains(t, w.Body.String(), `action="/change-password"`)

	w = get(router, SignInPath+"?change=1", false)
	assert.Contains(t, w.Body.String(), `action="/change-password"`)
}

func TestSignIn_SetsCookieAndRedirects(t *testing.T) {
	router, _ := setupPortal(t)

	w := postForm(router, SignInPath, url.Values{
		"email":    {"admin@example.com"},
		"password": {"Secret1"},
	}, false)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, AdminPath, w.Header().Get("Location"))

	cookies := map[string]*http.Cookie{}
	for _, ck := range w.Result().Cookies() {
		cookies[ck.Name] = ck
	}
	require.Contains(t, cookies, "authToken")
	assert.Equal(t, "test-session-token", cookies["authToken"].Value)
	assert.True(t, cookies["authToken"].HttpOnly)
	assert.Equal(t, "/", cookies["authToken"].Path)
	require.Contains(t, cookies, "authTokenEmail")
	assert.Equal(t, "admin@example.com", cookies["authTokenEmail"].Value)
}

func TestSignIn_Failures(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		password   string
		wantStatus int
		wantMsg    string
	}{
		{"blank password", "admin@example.com", "", http.StatusBadRequest, utils.MsgSignInFieldsRequired},
		{"blank email", "  ", "Secret1", http.StatusBadRequest, utils.MsgSignInFieldsRequired},
		{"wrong password", "admin@example.com", "wrong", http.StatusUnauthorized, services.MsgInvalidCredentials},
		{"unknown user", "nobody@example.com", "Secret1", http.StatusUnauthorized, services.MsgInvalidCredentials},
		{"upstream failure", "broken@example.com", "Secret1", http.StatusBadGateway, "Database unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := setupPortal(t)

			w := postForm(router, SignInPath, url.Values{
				"email":    {tt.email},
				"password": {tt.password},
			}, false)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantMsg)
			assert.Empty(t, w.Result().Cookies(), "no session on failure")
		})
	}
}

func TestSignOut_ClearsCookies(t *testing.T) {
	router, _ := setupPortal(t)

	w := get(router, "/signout", true)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, SignInPath, w.Header().Get("Location"))

	cleared := 0
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "authToken" || ck.Name == "authTokenEmail" {
			assert.Empty(t, ck.Value)
			assert.Less(t, ck.MaxAge, 0)
			cleared++
		}
	}
	assert.Equal(t, 2, cleared)
}

func TestChangePassword(t *testing.T) {
	router, api := setupPortal(t)

	w := postForm(router, "/change-password", url.Values{
		"email":           {"admin@example.com"},
		"oldPassword":     {"Secret1"},
		"newPassword":     {"Secret2"},
		"confirmPassword": {"Secret2"},
	}, false)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), services.MsgPasswordChanged)

	sent := api.LastPasswordChange()
	require.NotNil(t, sent)
	assert.Equal(t, "admin@example.com", sent.Email)
	assert.Equal(t, "Secret2", sent.NewPassword)
}

func TestChangePassword_Failures(t *testing.T) {
	tests := []struct {
		name       string
		form       url.Values
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "missing fields",
			form:       url.Values{"email": {"admin@example.com"}},
			wantStatus: http.StatusBadRequest,
			wantMsg:    utils.MsgAllFieldsRequired,
		},
		{
			name: "mismatch",
			form: url.Values{
				"email": {"admin@example.com"}, "oldPassword": {"Secret1"},
				"newPassword": {"Secret2"}, "confirmPassword": {"Secret3"},
			},
			wantStatus: http.StatusBadRequest,
			wantMsg:    utils.MsgPasswordsDoNotMatch,
		},
		{
			name: "wrong old password",
			form: url.Values{
				"email": {"admin@example.com"}, "oldPassword": {"Nope99"},
				"newPassword": {"Secret2"}, "confirmPassword": {"Secret2"},
			},
			wantStatus: http.StatusBadGateway,
			wantMsg:    "Old password is incorrect",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := setupPortal(t)

			w := postForm(router, "/change-password", tt.form, false)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantMsg)
			assert.Contains(t, w.Body.String(), `action="/change-password"`)
		})
	}
}
