// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"biocms/internal/auth"
	"biocms/internal/response"
	"biocms/internal/service"
	"biocms/internal/slug"
)

// Admin groups the authenticated content-management endpoints. Every
// successful write clears the public response cache.
type Admin struct {
	taxonomy  *service.TaxonomyService
	content   *service.ContentService
	site      *service.SiteService
	dashboard *service.DashboardService
	accounts  *auth.Service
	images    ImageStore
	cache     ResponseCache
}

// AdminDeps carries the dependencies of the admin handler group. Images
// and Cache may be nil.
type AdminDeps struct {
	Taxonomy  *service.TaxonomyService
	Content   *service.ContentService
	Site      *service.SiteService
	Dashboard *service.DashboardService
	Accounts  *auth.Service
	Images    ImageStore
	Cache     ResponseCache
}

// NewAdmin creates the admin handler group.
func NewAdmin(d AdminDeps) *Admin {
	return &Admin{
		taxonomy:  d.Taxonomy,
		content:   d.Content,
		site:      d.Site,
		dashboard: d.Dashboard,
		accounts:  d.Accounts,
		images:    d.Images,
		cache:     d.Cache,
	}
}

// Dashboard returns content and taxonomy counts.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := a.dashboard.Stats(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, response.Fields{"stats": stats})
}

// SlugPreview shows the slug a title would produce, so the admin UI can
// prefill the slug field. GET /api/admin/slug?text=...
func (a *Admin) SlugPreview(w http.ResponseWriter, r *http.Request) {
	text := strings.TrimSpace(r.URL.Query().Get("text"))
	if text == "" {
		response.FromError(w, r, &service.MissingFieldError{Field: "text"})
		return
	}
	generated := slug.Generate(text)
	response.Success(w, response.Fields{
		"slug":  generated,
		"valid": slug.Valid(generated),
	})
}

// mutated clears the public cache after a successful write.
func (a *Admin) mutated(r *http.Request) {
	invalidate(r.Context(), a.cache)
}
