// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package mocks

import (
	"context"
	"fmt"
	"sort"

	"biocms/internal/models"
)

// page applies limit/offset to n items and returns the bounds.
func page(n, limit, offset int) (int, int) {
	if offset > n {
		offset = n
	}
	end := n
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return offset, end
}

func hasTag(tags models.StringList, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func copyList(l models.StringList) models.StringList {
	if l == nil {
		return models.StringList{}
	}
	return append(models.StringList{}, l...)
}

// BlogRepository is the in-memory blog table.
type BlogRepository struct{ d *DB }

func (r *BlogRepository) List(ctx context.Context, f models.ContentFilter) ([]models.Blog, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return nil, r.d.Err
	}
	var out []models.Blog
	for _, b := range r.d.blogs {
		if f.PublishedOnly && !b.Published {
			continue
		}
		if f.FeaturedOnly && !b.Featured {
			continue
		}
		if f.Category != "" && string(b.Category) != f.Category {
			continue
		}
		if f.Tag != "" && !hasTag(b.Tags, f.Tag) {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	lo, hi := page(len(out), f.Limit, f.Offset)
	return out[lo:hi], nil
}

func (r *BlogRepository) FindByID(ctx context.Context, id int64) (*models.Blog, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return nil, r.d.Err
	}
	if b, ok := r.d.blogs[id]; ok {
		cp := *b
		cp.Tags = copyList(b.Tags)
		return &cp, nil
	}
	return nil, nil
}

func (r *BlogRepository) FindBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return nil, r.d.Err
	}
	for _, b := range r.d.blogs {
		if b.Slug == slug {
			cp := *b
			cp.Tags = copyList(b.Tags)
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *BlogRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return false, r.d.Err
	}
	return r.slugTaken(slug, excludeID), nil
}

func (r *BlogRepository) slugTaken(slug string, excludeID int64) bool {
	for _, b := range r.d.blogs {
		if b.Slug == slug && b.ID != excludeID {
			return true
		}
	}
	return false
}

func (r *BlogRepository) Create(ctx context.Context, b *models.Blog) (*models.Blog, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return nil, r.d.Err
	}
	if r.slugTaken(b.Slug, 0) {
		return nil, fmt.Errorf("create blog: %w", models.ErrDuplicateKey)
	}
	row := *b
	row.ID = r.d.id()
	row.Tags = copyList(b.Tags)
	row.Views = 0
	row.CreatedAt, row.UpdatedAt = now(), now()
	r.d.blogs[row.ID] = &row
	out := row
	return &out, nil
}

func (r *BlogRepository) Update(ctx context.Context, b *models.Blog) (*models.Blog, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return nil, r.d.Err
	}
	existing, ok := r.d.blogs[b.ID]
	if !ok {
		return nil, nil
	}
	if r.slugTaken(b.Slug, b.ID) {
		return nil, fmt.Errorf("update blog: %w", models.ErrDuplicateKey)
	}
	row := *b
	row.Tags = copyList(b.Tags)
	row.Views = existing.Views
	row.CreatedAt = existing.CreatedAt
	row.UpdatedAt = now()
	r.d.blogs[row.ID] = &row
	out := row
	return &out, nil
}

func (r *BlogRepository) Delete(ctx context.Context, id int64) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return r.d.Err
	}
	delete(r.d.blogs, id)
	return nil
}

func (r *BlogRepository) IncrementViews(ctx context.Context, slug string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	r.d.ViewCalls[slug]++
	if r.d.Err != nil {
		return r.d.Err
	}
	for _, b := range r.d.blogs {
		if b.Slug == slug && b.Published {
			b.Views++
		}
	}
	return nil
}

func (r *BlogRepository) Stats(ctx context.Context) (models.ContentStats, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	var st models.ContentStats
	if r.d.Err != nil {
		return st, r.d.Err
	}
	for _, b := range r.d.blogs {
		st.Total++
		if b.Published {
			st.Published++
		}
		if b.Featured {
			st.Featured++
		}
		st.Views += b.Views
	}
	return st, nil
}

// NewsBlogRepository is the in-memory news blog table.
type NewsBlogRepository struct{ d *DB }

// view copies n and resolves the taxonomy slugs. Callers hold mu.
func (r *NewsBlogRepository) view(n *models.NewsBlog) *models.NewsBlog {
	cp := *n
	cp.Images = copyList(n.Images)
	cp.Tags = copyList(n.Tags)
	cp.CategorySlug, cp.SubcategorySlug = nil, nil
	if n.CategoryID != nil {
		if c, ok := r.d.categories[*n.CategoryID]; ok {
			s := c.Slug
			cp.CategorySlug = &s
		}
	}
	if n.SubcategoryID != nil {
		if sc, ok := r.d.subcategories[*n.SubcategoryID]; ok {
			s := sc.Slug
			cp.SubcategorySlug = &s
		}
	}
	return &cp
}

func (r *NewsBlogRepository) List(ctx context.Context, f models.ContentFilter) ([]models.NewsBlog, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return nil, r.d.Err
	}
	var out []models.NewsBlog
	for _, raw := range r.d.news {
		n := r.view(raw)
		if f.PublishedOnly && !n.Published {
			continue
		}
		if f.FeaturedOnly && !n.Featured {
			continue
		}
		if f.CategoryID != nil && (n.CategoryID == nil || *n.CategoryID != *f.CategoryID) {
			continue
		}
		if f.SubcategoryID != nil && (n.SubcategoryID == nil || *n.SubcategoryID != *f.SubcategoryID) {
			continue
		}
		if f.Category != "" && (n.CategorySlug == nil || *n.CategorySlug != f.Category) {
			continue
		}
		if f.SubcategorySlug != "" && (n.SubcategorySlug == nil || *n.SubcategorySlug != f.SubcategorySlug) {
			continue
		}
		if f.Tag != "" && !hasTag(n.Tags, f.Tag) {
			continue
		}
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	lo, hi := page(len(out), f.Limit, f.Offset)
	return out[lo:hi], nil
}

func (r *NewsBlogRepository) FindByID(ctx context.Context, id int64) (*models.NewsBlog, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return nil, r.d.Err
	}
	if n, ok := r.d.news[id]; ok {
		return r.view(n), nil
	}
	return nil, nil
}

func (r *NewsBlogRepository) FindBySlug(ctx context.Context, slug string) (*models.NewsBlog, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return nil, r.d.Err
	}
	for _, n := range r.d.news {
		if n.Slug == slug {
			return r.view(n), nil
		}
	}
	return nil, nil
}

func (r *NewsBlogRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return false, r.d.Err
	}
	return r.slugTaken(slug, excludeID), nil
}

func (r *NewsBlogRepository) slugTaken(slug string, excludeID int64) bool {
	for _, n := range r.d.news {
		if n.Slug == slug && n.ID != excludeID {
			return true
		}
	}
	return false
}

// checkRefs mimics the foreign keys. Callers hold mu.
func (r *NewsBlogRepository) checkRefs(n *models.NewsBlog) error {
	if n.CategoryID != nil {
		if _, ok := r.d.categories[*n.CategoryID]; !ok {
			return models.ErrMissingReference
		}
	}
	if n.SubcategoryID != nil {
		if _, ok := r.d.subcategories[*n.SubcategoryID]; !ok {
			return models.ErrMissingReference
		}
	}
	return nil
}

func (r *NewsBlogRepository) Create(ctx context.Context, n *models.NewsBlog) (*models.NewsBlog, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return nil, r.d.Err
	}
	if r.slugTaken(n.Slug, 0) {
		return nil, fmt.Errorf("create news blog: %w", models.ErrDuplicateKey)
	}
	if err := r.checkRefs(n); err != nil {
		return nil, fmt.Errorf("create news blog: %w", err)
	}
	row := *n
	row.ID = r.d.id()
	row.Images = copyList(n.Images)
	row.Tags = copyList(n.Tags)
	row.Views = 0
	row.CreatedAt, row.UpdatedAt = now(), now()
	r.d.news[row.ID] = &row
	return r.view(&row), nil
}

func (r *NewsBlogRepository) Update(ctx context.Context, n *models.NewsBlog) (*models.NewsBlog, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return nil, r.d.Err
	}
	existing, ok := r.d.news[n.ID]
	if !ok {
		return nil, nil
	}
	if r.slugTaken(n.Slug, n.ID) {
		return nil, fmt.Errorf("update news blog: %w", models.ErrDuplicateKey)
	}
	if err := r.checkRefs(n); err != nil {
		return nil, fmt.Errorf("update news blog: %w", err)
	}
	row := *n
	row.Images = copyList(n.Images)
	row.Tags = copyList(n.Tags)
	row.Views = existing.Views
	row.CreatedAt = existing.CreatedAt
	row.UpdatedAt = now()
	r.d.news[row.ID] = &row
	return r.view(&row), nil
}

func (r *NewsBlogRepository) Delete(ctx context.Context, id int64) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return r.d.Err
	}
	delete(r.d.news, id)
	return nil
}

func (r *NewsBlogRepository) IncrementViews(ctx context.Context, slug string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	r.d.ViewCalls[slug]++
	if r.d.Err != nil {
		return r.d.Err
	}
	for _, n := range r.d.news {
		if n.Slug == slug && n.Published {
			n.Views++
		}
	}
	return nil
}

func (r *NewsBlogRepository) Stats(ctx context.Context) (models.ContentStats, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	var st models.ContentStats
	if r.d.Err != nil {
		return st, r.d.Err
	}
	for _, n := range r.d.news {
		st.Total++
		if n.Published {
			st.Published++
		}
		if n.Featured {
			st.Featured++
		}
		st.Views += n.Views
	}
	return st, nil
}
