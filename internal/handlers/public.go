// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"biocms/internal/cache"
	"biocms/internal/response"
	"biocms/internal/service"
)

// Public groups the unauthenticated read endpoints of the marketing site.
// Only active taxonomy nodes, published content and active service pages
// are visible here.
type Public struct {
	taxonomy *service.TaxonomyService
	content  *service.ContentService
	site     *service.SiteService
	cache    ResponseCache
}

// NewPublic creates the public handler group. responses may be nil.
func NewPublic(taxonomy *service.TaxonomyService, content *service.ContentService, site *service.SiteService, responses ResponseCache) *Public {
	return &Public{taxonomy: taxonomy, content: content, site: site, cache: responses}
}

// cached serves the response for the request URL from the response cache,
// building and storing it on a miss. Failures are never cached.
func (p *Public) cached(w http.ResponseWriter, r *http.Request, build func(ctx context.Context) (response.Fields, error)) {
	ctx := r.Context()
	key := cache.Key(r.URL.Path, r.URL.Query().Encode())

	if p.cache != nil {
		if body, ok := p.cache.Get(ctx, key); ok {
			w.Header().Set("X-Cache", "HIT")
			response.Raw(w, http.StatusOK, body)
			return
		}
	}

	fields, err := build(ctx)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	body, err := json.Marshal(response.Envelope(fields))
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	if p.cache != nil {
		p.cache.Set(ctx, key, body)
		w.Header().Set("X-Cache", "MISS")
	}
	response.Raw(w, http.StatusOK, body)
}

// Categories lists the active category tree with published item counts.
func (p *Public) Categories(w http.ResponseWriter, r *http.Request) {
	p.cached(w, r, func(ctx context.Context) (response.Fields, error) {
		cats, err := p.taxonomy.ListCategories(ctx, true)
		if err != nil {
			return nil, err
		}
		return response.Fields{"categories": cats}, nil
	})
}

// Category returns one active category with its active subcategories.
func (p *Public) Category(w http.ResponseWriter, r *http.Request) {
	sl := chi.URLParam(r, "slug")
	p.cached(w, r, func(ctx context.Context) (response.Fields, error) {
		c, err := p.taxonomy.GetCategoryBySlug(ctx, sl, true)
		if err != nil {
			return nil, err
		}
		return response.Fields{"category": c}, nil
	})
}

// Blogs lists published blogs. Supports category, tag, featured, limit and
// offset query parameters.
func (p *Public) Blogs(w http.ResponseWriter, r *http.Request) {
	f, err := listFilter(r)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	f.PublishedOnly = true

	p.cached(w, r, func(ctx context.Context) (response.Fields, error) {
		blogs, err := p.content.ListBlogs(ctx, f)
		if err != nil {
			return nil, err
		}
		return response.Fields{"blogs": blogs, "count": len(blogs)}, nil
	})
}

// Blog returns a published blog by slug and counts a view. Not cached, so
// every read reaches the view counter.
func (p *Public) Blog(w http.ResponseWriter, r *http.Request) {
	b, err := p.content.GetPublishedBlog(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, response.Fields{"blog": b})
}

// News lists published news blogs. Supports category and subcategory slugs,
// category_id, subcategory_id, tag, featured, limit and offset.
func (p *Public) News(w http.ResponseWriter, r *http.Request) {
	f, err := listFilter(r)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	f.PublishedOnly = true

	p.cached(w, r, func(ctx context.Context) (response.Fields, error) {
		news, err := p.content.ListNews(ctx, f)
		if err != nil {
			return nil, err
		}
		return response.Fields{"news": news, "count": len(news)}, nil
	})
}

// NewsItem returns a published news blog by slug and counts a view.
func (p *Public) NewsItem(w http.ResponseWriter, r *http.Request) {
	n, err := p.content.GetPublishedNews(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, response.Fields{"news": n})
}

// Settings returns every site setting decoded by its type.
func (p *Public) Settings(w http.ResponseWriter, r *http.Request) {
	p.cached(w, r, func(ctx context.Context) (response.Fields, error) {
		settings, err := p.site.PublicSettings(ctx)
		if err != nil {
			return nil, err
		}
		return response.Fields{"settings": settings}, nil
	})
}

// Page returns the content blocks of a page grouped by section.
func (p *Public) Page(w http.ResponseWriter, r *http.Request) {
	page := chi.URLParam(r, "page")
	p.cached(w, r, func(ctx context.Context) (response.Fields, error) {
		sections, err := p.site.PageSections(ctx, page)
		if err != nil {
			return nil, err
		}
		return response.Fields{"page": page, "sections": sections}, nil
	})
}

// Services lists the active service pages.
func (p *Public) Services(w http.ResponseWriter, r *http.Request) {
	p.cached(w, r, func(ctx context.Context) (response.Fields, error) {
		pages, err := p.site.ListServicePages(ctx, true)
		if err != nil {
			return nil, err
		}
		return response.Fields{"services": pages}, nil
	})
}

// Service returns an active service page by slug.
func (p *Public) Service(w http.ResponseWriter, r *http.Request) {
	sl := chi.URLParam(r, "slug")
	p.cached(w, r, func(ctx context.Context) (response.Fields, error) {
		sp, err := p.site.GetServicePageBySlug(ctx, sl, true)
		if err != nil {
			return nil, err
		}
		return response.Fields{"service": sp}, nil
	})
}
