// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"biocms/internal/auth"
	"biocms/internal/models"
	"biocms/internal/response"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// IdentityKey is the context key for the authenticated admin.
	IdentityKey contextKey = "identity"
	// tokenSourceKey records where the session token was read from.
	tokenSourceKey contextKey = "token_source"

	// TokenCookieName is the cookie browser clients carry the token in.
	TokenCookieName = "biocms_token"
)

// TokenSource says how a request presented its session token.
type TokenSource int

const (
	TokenNone TokenSource = iota
	TokenHeader
	TokenCookie
)

// Authenticator resolves a raw session token into an identity.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*auth.Identity, error)
}

// Authenticate rejects requests without a valid session token and stores
// the resolved identity in the request context. The token is read from an
// "Authorization: Bearer" header first, then from the token cookie.
func Authenticate(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, source := ExtractToken(r)
			if source == TokenNone {
				response.FromError(w, r, auth.ErrUnauthenticated)
				return
			}

			id, err := a.Authenticate(r.Context(), raw)
			if err != nil {
				response.FromError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), IdentityKey, id)
			ctx = context.WithValue(ctx, tokenSourceKey, source)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole returns 403 unless the authenticated admin holds a role that
// satisfies role. Must be applied after Authenticate.
func RequireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := auth.AuthorizeRole(IdentityFromCtx(r.Context()), role); err != nil {
				response.FromError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ExtractToken returns the raw session token and where it came from.
func ExtractToken(r *http.Request) (string, TokenSource) {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") && strings.TrimSpace(token) != "" {
			return strings.TrimSpace(token), TokenHeader
		}
	}
	if c, err := r.Cookie(TokenCookieName); err == nil && c.Value != "" {
		return c.Value, TokenCookie
	}
	return "", TokenNone
}

// IdentityFromCtx returns the authenticated admin, or nil outside an
// Authenticate chain.
func IdentityFromCtx(ctx context.Context) *auth.Identity {
	id, _ := ctx.Value(IdentityKey).(*auth.Identity)
	return id
}

// WithIdentity returns ctx carrying id, as Authenticate would.
func WithIdentity(ctx context.Context, id *auth.Identity, source TokenSource) context.Context {
	ctx = context.WithValue(ctx, IdentityKey, id)
	return context.WithValue(ctx, tokenSourceKey, source)
}

// tokenSourceFromCtx returns how the request authenticated.
func tokenSourceFromCtx(ctx context.Context) TokenSource {
	s, _ := ctx.Value(tokenSourceKey).(TokenSource)
	return s
}
