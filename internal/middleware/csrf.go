// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"biocms/internal/response"
)

const (
	// csrfTokenLength is the byte length of CSRF tokens (32 bytes = 64 hex chars).
	csrfTokenLength = 32

	// CSRFCookieName is the cookie that holds the CSRF token.
	CSRFCookieName = "biocms_csrf"

	// CSRFHeaderName is the header the admin UI echoes the token in.
	CSRFHeaderName = "X-CSRF-Token"
)

// CSRF enforces double-submit cookie protection on state-changing requests
// that authenticated with the token cookie. Bearer-token clients never
// send credentials implicitly and are not checked. Must be applied after
// Authenticate.
func CSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isSafeMethod(r.Method) || tokenSourceFromCtx(r.Context()) != TokenCookie {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(CSRFCookieName)
		submitted := r.Header.Get(CSRFHeaderName)
		if err != nil || cookie.Value == "" || submitted == "" ||
			subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(submitted)) != 1 {
			response.Error(w, http.StatusForbidden, "CSRF token mismatch", response.Fields{"code": "csrf"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func isSafeMethod(m string) bool {
	return m == http.MethodGet || m == http.MethodHead || m == http.MethodOptions
}

// NewCSRFToken creates a cryptographically random token.
func NewCSRFToken() (string, error) {
	b := make([]byte, csrfTokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
