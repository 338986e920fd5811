// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"biocms/internal/models"
	"biocms/internal/response"
	"biocms/internal/service"
)

// --- Site settings ---

// SettingsList returns every setting with its raw value and type.
func (a *Admin) SettingsList(w http.ResponseWriter, r *http.Request) {
	settings, err := a.site.ListSettings(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, response.Fields{"settings": settings})
}

// SettingPut creates or replaces the setting at {key}.
func (a *Admin) SettingPut(w http.ResponseWriter, r *http.Request) {
	var in service.SettingInput
	if !decodeJSON(w, r, &in) {
		return
	}
	s, err := a.site.PutSetting(r.Context(), chi.URLParam(r, "key"), in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	a.mutated(r)
	response.Success(w, response.Fields{"setting": s})
}

// SettingDelete removes the setting at {key}.
func (a *Admin) SettingDelete(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := a.site.DeleteSetting(r.Context(), key); err != nil {
		response.FromError(w, r, err)
		return
	}
	a.mutated(r)
	response.Success(w, response.Fields{"deleted": key})
}

// --- Page content ---

// PagesList returns the names of pages that have content blocks.
func (a *Admin) PagesList(w http.ResponseWriter, r *http.Request) {
	pages, err := a.site.ListPages(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, response.Fields{"pages": pages})
}

// PageContentList returns the raw blocks of {page}.
func (a *Admin) PageContentList(w http.ResponseWriter, r *http.Request) {
	page := chi.URLParam(r, "page")
	rows, err := a.site.PageContent(r.Context(), page)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, response.Fields{"page": page, "content": rows})
}

// PageContentPut creates or replaces the block addressed by page, section
// and key in the body.
func (a *Admin) PageContentPut(w http.ResponseWriter, r *http.Request) {
	var in models.PageContent
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := checkLengths(lengthCheck{"content", &in.Content, maxContentLen}); err != nil {
		response.FromError(w, r, err)
		return
	}
	pc, err := a.site.PutPageContent(r.Context(), in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	a.mutated(r)
	response.Success(w, response.Fields{"content": pc})
}

// PageContentDelete removes a block by id.
func (a *Admin) PageContentDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := a.site.DeletePageContent(r.Context(), id); err != nil {
		response.FromError(w, r, err)
		return
	}
	a.mutated(r)
	response.Success(w, response.Fields{"deleted": id})
}

// --- Service pages ---

// ServicesList returns every service page, inactive ones included.
func (a *Admin) ServicesList(w http.ResponseWriter, r *http.Request) {
	pages, err := a.site.ListServicePages(r.Context(), false)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, response.Fields{"services": pages})
}

// ServiceGet returns a service page by id.
func (a *Admin) ServiceGet(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	sp, err := a.site.GetServicePage(r.Context(), id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, response.Fields{"service": sp})
}

// ServiceCreate creates a service page. Omitting active creates it active.
func (a *Admin) ServiceCreate(w http.ResponseWriter, r *http.Request) {
	in := models.ServicePage{Active: true}
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := checkLengths(
		lengthCheck{"title", &in.Title, maxShortTitleLen},
		lengthCheck{"slug", &in.Slug, maxShortSlugLen},
		lengthCheck{"summary", &in.Summary, maxExcerptLen},
		lengthCheck{"content", &in.Content, maxContentLen},
	); err != nil {
		response.FromError(w, r, err)
		return
	}
	sp, err := a.site.CreateServicePage(r.Context(), in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	a.mutated(r)
	response.Created(w, response.Fields{"service": sp})
}

// ServiceUpdate applies a partial update to a service page.
func (a *Admin) ServiceUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var p models.ServicePagePatch
	if !decodeJSON(w, r, &p) {
		return
	}
	if err := checkLengths(
		lengthCheck{"title", p.Title, maxShortTitleLen},
		lengthCheck{"slug", p.Slug, maxShortSlugLen},
		lengthCheck{"summary", p.Summary, maxExcerptLen},
		lengthCheck{"content", p.Content, maxContentLen},
	); err != nil {
		response.FromError(w, r, err)
		return
	}
	sp, err := a.site.UpdateServicePage(r.Context(), id, p)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	a.mutated(r)
	response.Success(w, response.Fields{"service": sp})
}

// ServiceDelete deletes a service page.
func (a *Admin) ServiceDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := a.site.DeleteServicePage(r.Context(), id); err != nil {
		response.FromError(w, r, err)
		return
	}
	a.mutated(r)
	response.Success(w, response.Fields{"deleted": id})
}
