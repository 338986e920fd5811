// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"biocms/internal/models"
	"biocms/internal/response"
	"biocms/internal/service"
)

// adminFilter is listFilter plus ?published=true, since admins see drafts
// by default.
func adminFilter(r *http.Request) (models.ContentFilter, error) {
	f, err := listFilter(r)
	if err != nil {
		return f, err
	}
	f.PublishedOnly = r.URL.Query().Get("published") == "true"
	return f, nil
}

// --- Blogs ---

// BlogsList returns blogs including drafts.
func (a *Admin) BlogsList(w http.ResponseWriter, r *http.Request) {
	f, err := adminFilter(r)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	blogs, err := a.content.ListBlogs(r.Context(), f)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, response.Fields{
		"blogs":      blogs,
		"count":      len(blogs),
		"categories": models.BlogCategories,
	})
}

// BlogGet returns any blog by id.
func (a *Admin) BlogGet(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	b, err := a.content.GetBlog(r.Context(), id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, response.Fields{"blog": b})
}

// BlogCreate creates a blog.
func (a *Admin) BlogCreate(w http.ResponseWriter, r *http.Request) {
	var in service.BlogInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := validateBlogInput(&in); err != nil {
		response.FromError(w, r, err)
		return
	}
	b, err := a.content.CreateBlog(r.Context(), in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	a.mutated(r)
	response.Created(w, response.Fields{"blog": b})
}

// BlogUpdate applies a partial update to a blog.
func (a *Admin) BlogUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var p models.BlogPatch
	if !decodeJSON(w, r, &p) {
		return
	}
	if err := validateBlogPatch(&p); err != nil {
		response.FromError(w, r, err)
		return
	}
	b, err := a.content.UpdateBlog(r.Context(), id, p)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	a.mutated(r)
	response.Success(w, response.Fields{"blog": b})
}

// BlogDelete deletes a blog.
func (a *Admin) BlogDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := a.content.DeleteBlog(r.Context(), id); err != nil {
		response.FromError(w, r, err)
		return
	}
	a.mutated(r)
	response.Success(w, response.Fields{"deleted": id})
}

// --- News blogs ---

// NewsList returns news blogs including drafts.
func (a *Admin) NewsList(w http.ResponseWriter, r *http.Request) {
	f, err := adminFilter(r)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	news, err := a.content.ListNews(r.Context(), f)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, response.Fields{"news": news, "count": len(news)})
}

// NewsGet returns any news blog by id.
func (a *Admin) NewsGet(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	n, err := a.content.GetNews(r.Context(), id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, response.Fields{"news": n})
}

// NewsCreate creates a news blog, optionally bound to the taxonomy.
func (a *Admin) NewsCreate(w http.ResponseWriter, r *http.Request) {
	var in service.NewsBlogInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := validateNewsInput(&in); err != nil {
		response.FromError(w, r, err)
		return
	}
	n, err := a.content.CreateNews(r.Context(), in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	a.mutated(r)
	response.Created(w, response.Fields{"news": n})
}

// NewsUpdate applies a partial update. An explicit null category_id or
// subcategory_id clears that reference.
func (a *Admin) NewsUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var p models.NewsBlogPatch
	if !decodeJSON(w, r, &p) {
		return
	}
	if err := validateNewsPatch(&p); err != nil {
		response.FromError(w, r, err)
		return
	}
	n, err := a.content.UpdateNews(r.Context(), id, p)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	a.mutated(r)
	response.Success(w, response.Fields{"news": n})
}

// NewsDelete deletes a news blog.
func (a *Admin) NewsDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := a.content.DeleteNews(r.Context(), id); err != nil {
		response.FromError(w, r, err)
		return
	}
	a.mutated(r)
	response.Success(w, response.Fields{"deleted": id})
}
