// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"biocms/internal/auth"
	"biocms/internal/middleware"
	"biocms/internal/response"
)

// Auth groups the session endpoints: login, logout, the current admin and
// TOTP enrollment.
type Auth struct {
	svc           *auth.Service
	secureCookies bool
}

// NewAuth creates the auth handler group. secureCookies marks the session
// cookies Secure and should be true behind HTTPS.
func NewAuth(svc *auth.Service, secureCookies bool) *Auth {
	return &Auth{svc: svc, secureCookies: secureCookies}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	TOTPCode string `json:"totp_code"`
}

// Login verifies credentials and returns a bearer token. Browser clients
// also receive it as an HttpOnly cookie together with a CSRF cookie whose
// value must be echoed in the X-CSRF-Token header on writes.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sess, err := a.svc.Login(r.Context(), req.Email, req.Password, req.TOTPCode)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) || errors.Is(err, auth.ErrAccountInactive) {
			slog.Info("login rejected", "email", req.Email, "remote", r.RemoteAddr, "error", err)
		}
		response.FromError(w, r, err)
		return
	}

	csrfToken, err := middleware.NewCSRFToken()
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	http.SetCookie(w, a.cookie(middleware.TokenCookieName, sess.Token, sess.ExpiresAt, true))
	http.SetCookie(w, a.cookie(middleware.CSRFCookieName, csrfToken, sess.ExpiresAt, false))

	response.Success(w, response.Fields{
		"token":      sess.Token,
		"expires_at": sess.ExpiresAt,
		"csrf_token": csrfToken,
		"admin":      sess.Admin,
	})
}

// Logout revokes the presented token and clears the session cookies.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.Logout(r.Context(), middleware.IdentityFromCtx(r.Context())); err != nil {
		response.FromError(w, r, err)
		return
	}

	http.SetCookie(w, a.expired(middleware.TokenCookieName, true))
	http.SetCookie(w, a.expired(middleware.CSRFCookieName, false))
	response.Success(w, response.Fields{"message": "logged out"})
}

// Me returns the authenticated admin.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	admin, err := a.svc.Me(r.Context(), middleware.IdentityFromCtx(r.Context()))
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, response.Fields{"admin": admin})
}

// TwoFASetup generates a TOTP secret and returns it with a QR code.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	setup, err := a.svc.SetupTOTP(r.Context(), middleware.IdentityFromCtx(r.Context()))
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, response.Fields{"totp": setup})
}

type enableRequest struct {
	Code string `json:"code"`
}

// TwoFAEnable turns 2FA on after confirming a code from the new secret.
func (a *Auth) TwoFAEnable(w http.ResponseWriter, r *http.Request) {
	var req enableRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := a.svc.EnableTOTP(r.Context(), middleware.IdentityFromCtx(r.Context()), req.Code); err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, response.Fields{"totp_enabled": true})
}

func (a *Auth) cookie(name, value string, expires time.Time, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: httpOnly,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteStrictMode,
	}
}

func (a *Auth) expired(name string, httpOnly bool) *http.Cookie {
	c := a.cookie(name, "", time.Unix(0, 0), httpOnly)
	c.MaxAge = -1
	return c
}
