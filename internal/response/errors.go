// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package response

import (
	"errors"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"biocms/internal/auth"
	"biocms/internal/models"
	"biocms/internal/service"
)

// FromError maps a domain error to its HTTP status and envelope. Errors
// without a mapping are logged and reported as a generic 500.
func FromError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		dup      *service.DuplicateSlugError
		missing  *service.MissingFieldError
		category *service.InvalidCategoryError
		invalid  *service.ValidationError
	)

	switch {
	case errors.As(err, &dup):
		Error(w, http.StatusConflict, dup.Error(), Fields{
			"code":       "duplicate_slug",
			"slug":       dup.Slug,
			"suggestion": dup.Suggestion,
		})
	case errors.As(err, &missing):
		Error(w, http.StatusBadRequest, missing.Error(), Fields{"code": "missing_field", "field": missing.Field})
	case errors.As(err, &invalid):
		Error(w, http.StatusBadRequest, invalid.Error(), Fields{"code": "invalid_field", "field": invalid.Field})
	case errors.As(err, &category):
		Error(w, http.StatusUnprocessableEntity, category.Error(), Fields{
			"code":    "invalid_category",
			"allowed": category.Allowed,
		})
	case errors.Is(err, service.ErrInvalidParent):
		Error(w, http.StatusUnprocessableEntity, err.Error(), Fields{"code": "invalid_parent"})
	case errors.Is(err, service.ErrNotFound):
		Error(w, http.StatusNotFound, "not found", Fields{"code": "not_found"})
	case errors.Is(err, models.ErrValueTooLong):
		Error(w, http.StatusBadRequest, "a value exceeds its maximum length", Fields{"code": "value_too_long"})

	case errors.Is(err, auth.ErrTOTPRequired):
		Error(w, http.StatusUnauthorized, "totp code required", Fields{"code": "totp_required", "totp_required": true})
	case errors.Is(err, auth.ErrInvalidCredentials):
		Error(w, http.StatusUnauthorized, "invalid email or password", Fields{"code": "invalid_credentials"})
	case errors.Is(err, auth.ErrTokenExpired):
		Error(w, http.StatusUnauthorized, "token expired", Fields{"code": "token_expired"})
	case errors.Is(err, auth.ErrUnauthenticated):
		Error(w, http.StatusUnauthorized, "authentication required", Fields{"code": "unauthenticated"})
	case errors.Is(err, auth.ErrAccountInactive):
		Error(w, http.StatusForbidden, "account is inactive", Fields{"code": "account_inactive"})
	case errors.Is(err, auth.ErrForbidden):
		Error(w, http.StatusForbidden, "forbidden", Fields{"code": "forbidden"})
	case errors.Is(err, auth.ErrInvalidCode):
		Error(w, http.StatusBadRequest, "invalid verification code", Fields{"code": "invalid_code"})
	case errors.Is(err, auth.ErrEmailTaken):
		Error(w, http.StatusConflict, "email already in use", Fields{"code": "email_taken"})

	default:
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", chimw.GetReqID(r.Context()),
			"error", err,
		)
		InternalServerError(w)
	}
}
