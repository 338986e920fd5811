package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biocms/internal/middleware"
)

func cookieByName(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLoginSetsSessionCookies(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "Editor@BioCMS.test",
		"password": testPassword,
	}, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	body := decode(t, rr)
	assert.Equal(t, true, body["success"])
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	assert.NotEmpty(t, body["expires_at"])
	admin := object(t, body, "admin")
	assert.Equal(t, "editor@biocms.test", admin["email"])
	assert.NotContains(t, admin, "password_hash")

	session := cookieByName(rr, middleware.TokenCookieName)
	require.NotNil(t, session)
	assert.Equal(t, token, session.Value)
	assert.True(t, session.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, session.SameSite)

	csrf := cookieByName(rr, middleware.CSRFCookieName)
	require.NotNil(t, csrf)
	assert.False(t, csrf.HttpOnly, "the CSRF cookie must be readable by the admin UI")
	assert.Equal(t, body["csrf_token"], csrf.Value)
}

func TestLoginFailures(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{name: "wrong password", body: map[string]string{"email": "editor@biocms.test", "password": "nope"}, status: http.StatusUnauthorized, code: "invalid_credentials"},
		{name: "unknown email", body: map[string]string{"email": "ghost@biocms.test", "password": testPassword}, status: http.StatusUnauthorized, code: "invalid_credentials"},
		{name: "empty fields", body: map[string]string{}, status: http.StatusUnauthorized, code: "invalid_credentials"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, http.MethodPost, "/api/auth/login", tt.body, "")
			require.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.code, decode(t, rr)["code"])
			assert.Nil(t, cookieByName(rr, middleware.TokenCookieName))
		})
	}

	t.Run("malformed body", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/api/auth/login", "{not json", "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "invalid JSON body", decode(t, rr)["error"])
	})

	t.Run("empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(""))
		rr := httptest.NewRecorder()
		env.router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "request body is required", decode(t, rr)["error"])
	})
}

func TestLoginInactiveAccount(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.db.Admins().SetActive(t.Context(), env.admin.ID, false))

	rr := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "editor@biocms.test", "password": testPassword,
	}, "")
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "account_inactive", decode(t, rr)["code"])
}

func TestMeRequiresToken(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/api/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = env.do(t, http.MethodGet, "/api/auth/me", nil, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = env.do(t, http.MethodGet, "/api/auth/me", nil, env.login(t, "root@biocms.test"))
	require.Equal(t, http.StatusOK, rr.Code)
	admin := object(t, decode(t, rr), "admin")
	assert.Equal(t, "root@biocms.test", admin["email"])
	assert.Equal(t, "super_admin", admin["role"])
}

func TestLogoutRevokesToken(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "editor@biocms.test")

	rr := env.do(t, http.MethodPost, "/api/auth/logout", nil, token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "logged out", decode(t, rr)["message"])

	cleared := cookieByName(rr, middleware.TokenCookieName)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)

	rr = env.do(t, http.MethodGet, "/api/auth/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCookieSessionNeedsCSRFHeader(t *testing.T) {
	env := newTestEnv(t)

	login := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "editor@biocms.test", "password": testPassword,
	}, "")
	require.Equal(t, http.StatusOK, login.Code)
	session := cookieByName(login, middleware.TokenCookieName)
	csrf := cookieByName(login, middleware.CSRFCookieName)

	send := func(withHeader bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/categories", strings.NewReader(`{"name":"Proteomics"}`))
		req.AddCookie(session)
		req.AddCookie(csrf)
		if withHeader {
			req.Header.Set(middleware.CSRFHeaderName, csrf.Value)
		}
		rr := httptest.NewRecorder()
		env.router.ServeHTTP(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusForbidden, send(false).Code)
	assert.Equal(t, http.StatusCreated, send(true).Code)

	// Reads only need the cookie.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(session)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestTwoFactorEnrollment(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "editor@biocms.test")

	rr := env.do(t, http.MethodPost, "/api/auth/2fa/setup", nil, token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	setup := object(t, decode(t, rr), "totp")
	secret, _ := setup["secret"].(string)
	require.NotEmpty(t, secret)
	assert.NotEmpty(t, setup["qr_code"])
	assert.Contains(t, setup["url"], "otpauth://")

	rr = env.do(t, http.MethodPost, "/api/auth/2fa/enable", map[string]string{"code": "000000"}, token)
	if rr.Code == http.StatusOK {
		t.Skip("000000 happened to be the current code")
	}
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid_code", decode(t, rr)["code"])

	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	rr = env.do(t, http.MethodPost, "/api/auth/2fa/enable", map[string]string{"code": code}, token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, true, decode(t, rr)["totp_enabled"])

	// Password alone is no longer enough.
	rr = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "editor@biocms.test", "password": testPassword,
	}, "")
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	body := decode(t, rr)
	assert.Equal(t, "totp_required", body["code"])
	assert.Equal(t, true, body["totp_required"])

	code, err = totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	rr = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "editor@biocms.test", "password": testPassword, "totp_code": code,
	}, "")
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}
