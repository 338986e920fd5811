package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"biocms/internal/auth"
	"biocms/internal/models"
)

// stubAuthenticator accepts exactly one token.
type stubAuthenticator struct {
	token string
	id    *auth.Identity
	err   error
	calls int
}

func (s *stubAuthenticator) Authenticate(_ context.Context, raw string) (*auth.Identity, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if raw != s.token {
		return nil, auth.ErrUnauthenticated
	}
	return s.id, nil
}

func newStub(role models.Role) *stubAuthenticator {
	return &stubAuthenticator{
		token: "good-token",
		id:    &auth.Identity{AdminID: uuid.New(), Email: "ops@biocms.test", Role: role, TokenID: "jti-1"},
	}
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		cookie     string
		wantToken  string
		wantSource TokenSource
	}{
		{name: "bearer header", header: "Bearer abc", wantToken: "abc", wantSource: TokenHeader},
		{name: "lowercase scheme", header: "bearer abc", wantToken: "abc", wantSource: TokenHeader},
		{name: "cookie", cookie: "xyz", wantToken: "xyz", wantSource: TokenCookie},
		{name: "header wins over cookie", header: "Bearer abc", cookie: "xyz", wantToken: "abc", wantSource: TokenHeader},
		{name: "basic scheme falls back to cookie", header: "Basic dXNlcg==", cookie: "xyz", wantToken: "xyz", wantSource: TokenCookie},
		{name: "empty bearer", header: "Bearer ", wantSource: TokenNone},
		{name: "nothing", wantSource: TokenNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: tt.cookie})
			}

			token, source := ExtractToken(req)
			if token != tt.wantToken {
				t.Errorf("token = %q, want %q", token, tt.wantToken)
			}
			if source != tt.wantSource {
				t.Errorf("source = %v, want %v", source, tt.wantSource)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	t.Run("valid bearer token reaches handler with identity", func(t *testing.T) {
		stub := newStub(models.RoleAdmin)
		var got *auth.Identity
		var gotSource TokenSource
		handler := Authenticate(stub)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = IdentityFromCtx(r.Context())
			gotSource = tokenSourceFromCtx(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("status: got %d, want 200", rr.Code)
		}
		if got == nil || got.AdminID != stub.id.AdminID {
			t.Errorf("identity = %+v, want %+v", got, stub.id)
		}
		if gotSource != TokenHeader {
			t.Errorf("source = %v, want TokenHeader", gotSource)
		}
	})

	t.Run("cookie token records cookie source", func(t *testing.T) {
		stub := newStub(models.RoleAdmin)
		var gotSource TokenSource
		handler := Authenticate(stub)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotSource = tokenSourceFromCtx(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "good-token"})
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if gotSource != TokenCookie {
			t.Errorf("source = %v, want TokenCookie", gotSource)
		}
	})

	failures := []struct {
		name     string
		token    string
		err      error
		wantCode int
		wantBody string
	}{
		{name: "missing token", wantCode: http.StatusUnauthorized, wantBody: `"code":"unauthenticated"`},
		{name: "wrong token", token: "forged", wantCode: http.StatusUnauthorized, wantBody: `"code":"unauthenticated"`},
		{name: "expired token", token: "good-token", err: auth.ErrTokenExpired, wantCode: http.StatusUnauthorized, wantBody: `"code":"token_expired"`},
		{name: "inactive account", token: "good-token", err: auth.ErrAccountInactive, wantCode: http.StatusForbidden, wantBody: `"code":"account_inactive"`},
	}

	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			stub := newStub(models.RoleAdmin)
			stub.err = tt.err
			var called bool
			handler := Authenticate(stub)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if called {
				t.Error("handler should not be called")
			}
			if rr.Code != tt.wantCode {
				t.Errorf("status: got %d, want %d", rr.Code, tt.wantCode)
			}
			if !strings.Contains(rr.Body.String(), tt.wantBody) {
				t.Errorf("body = %q, want %s", rr.Body.String(), tt.wantBody)
			}
		})
	}

	t.Run("missing token never reaches authenticator", func(t *testing.T) {
		stub := newStub(models.RoleAdmin)
		handler := Authenticate(stub)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
		if stub.calls != 0 {
			t.Errorf("authenticator calls = %d, want 0", stub.calls)
		}
	})
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		identity *auth.Identity
		required models.Role
		wantCode int
	}{
		{name: "no identity", required: models.RoleAdmin, wantCode: http.StatusUnauthorized},
		{name: "admin on admin route", identity: &auth.Identity{Role: models.RoleAdmin}, required: models.RoleAdmin, wantCode: http.StatusOK},
		{name: "admin on super admin route", identity: &auth.Identity{Role: models.RoleAdmin}, required: models.RoleSuperAdmin, wantCode: http.StatusForbidden},
		{name: "super admin on super admin route", identity: &auth.Identity{Role: models.RoleSuperAdmin}, required: models.RoleSuperAdmin, wantCode: http.StatusOK},
		{name: "super admin on admin route", identity: &auth.Identity{Role: models.RoleSuperAdmin}, required: models.RoleAdmin, wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireRole(tt.required)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodPut, "/api/admin/settings/site_name", nil)
			if tt.identity != nil {
				req = req.WithContext(WithIdentity(req.Context(), tt.identity, TokenHeader))
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.wantCode {
				t.Errorf("status: got %d, want %d", rr.Code, tt.wantCode)
			}
		})
	}
}

func TestIdentityFromCtx(t *testing.T) {
	if IdentityFromCtx(context.Background()) != nil {
		t.Error("empty context should yield nil identity")
	}

	id := &auth.Identity{Email: "ops@biocms.test"}
	ctx := WithIdentity(context.Background(), id, TokenCookie)
	if got := IdentityFromCtx(ctx); got != id {
		t.Errorf("got %+v, want %+v", got, id)
	}
	if tokenSourceFromCtx(ctx) != TokenCookie {
		t.Error("token source not carried")
	}
}
