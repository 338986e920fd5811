// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"biocms/internal/auth"
	"biocms/internal/middleware"
	"biocms/internal/response"
	"biocms/internal/service"
)

// AdminsList returns every admin account. super_admin only.
func (a *Admin) AdminsList(w http.ResponseWriter, r *http.Request) {
	admins, err := a.accounts.ListAdmins(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, response.Fields{"admins": admins})
}

// AdminCreate creates an admin account. super_admin only.
func (a *Admin) AdminCreate(w http.ResponseWriter, r *http.Request) {
	var in auth.AdminInput
	if !decodeJSON(w, r, &in) {
		return
	}
	admin, err := a.accounts.CreateAdmin(r.Context(), in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Created(w, response.Fields{"admin": admin})
}

type activeRequest struct {
	Active *bool `json:"active"`
}

// AdminSetActive enables or disables an admin account. A disabled account
// fails authentication on its next request. super_admin only.
func (a *Admin) AdminSetActive(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid id")
		return
	}
	var req activeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Active == nil {
		response.FromError(w, r, &service.MissingFieldError{Field: "active"})
		return
	}
	admin, err := a.accounts.SetAdminActive(r.Context(), middleware.IdentityFromCtx(r.Context()), id, *req.Active)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, response.Fields{"admin": admin})
}
