// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers of the biocms JSON API.
// Handlers are grouped by concern (public, auth, admin) and receive their
// dependencies through the handler struct. Every response uses the
// envelope written by the response package.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"biocms/internal/models"
	"biocms/internal/response"
	"biocms/internal/service"
)

const (
	// maxJSONBody caps request bodies; rich-text content is the largest field.
	maxJSONBody = 4 << 20

	// maxPageSize caps the limit query parameter of list endpoints.
	maxPageSize = 100
)

// ResponseCache stores encoded public responses. A nil ResponseCache
// disables caching.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, body []byte)
	InvalidateAll(ctx context.Context)
}

// decodeJSON reads a JSON body into dst. It writes a 400 and returns false
// when the body is missing or malformed.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.As(err, &tooBig):
			response.Error(w, http.StatusRequestEntityTooLarge, "request body too large", response.Fields{"code": "too_large"})
		case errors.Is(err, io.EOF):
			response.BadRequest(w, "request body is required")
		default:
			response.BadRequest(w, "invalid JSON body")
		}
		return false
	}
	return true
}

// idParam parses the {id} URL parameter. It writes a 400 and returns false
// when the id is not a positive integer.
func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "invalid id")
		return 0, false
	}
	return id, true
}

// listFilter builds a content filter from query parameters:
// category, subcategory, category_id, subcategory_id, tag, featured,
// limit and offset.
func listFilter(r *http.Request) (models.ContentFilter, error) {
	q := r.URL.Query()
	f := models.ContentFilter{
		Category:        strings.TrimSpace(q.Get("category")),
		SubcategorySlug: strings.TrimSpace(q.Get("subcategory")),
		Tag:             strings.TrimSpace(q.Get("tag")),
		FeaturedOnly:    q.Get("featured") == "true",
	}

	var err error
	if f.CategoryID, err = optionalID(q.Get("category_id"), "category_id"); err != nil {
		return f, err
	}
	if f.SubcategoryID, err = optionalID(q.Get("subcategory_id"), "subcategory_id"); err != nil {
		return f, err
	}
	if f.Limit, err = nonNegative(q.Get("limit"), "limit"); err != nil {
		return f, err
	}
	if f.Limit > maxPageSize {
		f.Limit = maxPageSize
	}
	if f.Offset, err = nonNegative(q.Get("offset"), "offset"); err != nil {
		return f, err
	}
	return f, nil
}

func optionalID(raw, field string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, &service.ValidationError{Field: field, Message: "must be a positive integer"}
	}
	return &id, nil
}

func nonNegative(raw, field string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, &service.ValidationError{Field: field, Message: "must be a non-negative integer"}
	}
	return n, nil
}

// invalidate clears every cached public response after a mutation.
func invalidate(ctx context.Context, c ResponseCache) {
	if c != nil {
		c.InvalidateAll(ctx)
	}
}
