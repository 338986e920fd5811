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

// SettingRepository is the in-memory site_settings table.
type SettingRepository struct{ d *DB }

func (r *SettingRepository) List(ctx context.Context) ([]models.SiteSetting, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return nil, r.d.Err
	}
	var out []models.SiteSetting
	for _, s := range r.d.settings {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (r *SettingRepository) Find(ctx context.Context, key string) (*models.SiteSetting, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return nil, r.d.Err
	}
	if s, ok := r.d.settings[key]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *SettingRepository) Upsert(ctx context.Context, s *models.SiteSetting) (*models.SiteSetting, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return nil, r.d.Err
	}
	row := *s
	t := now()
	if existing, ok := r.d.settings[s.Key]; ok {
		row.ID = existing.ID
		row.CreatedAt = existing.CreatedAt
	} else {
		row.ID = r.d.id()
		row.CreatedAt = t
	}
	row.UpdatedAt = t
	r.d.settings[row.Key] = &row
	cp := row
	return &cp, nil
}

func (r *SettingRepository) Delete(ctx context.Context, key string) (bool, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return false, r.d.Err
	}
	if _, ok := r.d.settings[key]; !ok {
		return false, nil
	}
	delete(r.d.settings, key)
	return true, nil
}

// PageContentRepository is the in-memory page_contents table.
type PageContentRepository struct{ d *DB }

func (r *PageContentRepository) ListPages(ctx context.Context) ([]string, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return nil, r.d.Err
	}
	seen := map[string]bool{}
	var out []string
	for _, p := range r.d.pages {
		if !seen[p.Page] {
			seen[p.Page] = true
			out = append(out, p.Page)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *PageContentRepository) ListByPage(ctx context.Context, page string) ([]models.PageContent, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return nil, r.d.Err
	}
	var out []models.PageContent
	for _, p := range r.d.pages {
		if p.Page == page {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Section != out[j].Section {
			return out[i].Section < out[j].Section
		}
		return out[i].Key < out[j].Key
	})
	return out, nil
}

func (r *PageContentRepository) FindByID(ctx context.Context, id int64) (*models.PageContent, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return nil, r.d.Err
	}
	if p, ok := r.d.pages[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

// Upsert keys rows by (page, section, key), like the unique constraint.
func (r *PageContentRepository) Upsert(ctx context.Context, p *models.PageContent) (*models.PageContent, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return nil, r.d.Err
	}
	row := *p
	t := now()
	row.ID = 0
	for _, existing := range r.d.pages {
		if existing.Page == p.Page && existing.Section == p.Section && existing.Key == p.Key {
			row.ID = existing.ID
			row.CreatedAt = existing.CreatedAt
		}
	}
	if row.ID == 0 {
		row.ID = r.d.id()
		row.CreatedAt = t
	}
	row.UpdatedAt = t
	r.d.pages[row.ID] = &row
	cp := row
	return &cp, nil
}

func (r *PageContentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return false, r.d.Err
	}
	if _, ok := r.d.pages[id]; !ok {
		return false, nil
	}
	delete(r.d.pages, id)
	return true, nil
}

// ServicePageRepository is the in-memory service_pages table.
type ServicePageRepository struct{ d *DB }

func (r *ServicePageRepository) List(ctx context.Context, activeOnly bool) ([]models.ServicePage, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return nil, r.d.Err
	}
	var out []models.ServicePage
	for _, s := range r.d.services {
		if activeOnly && !s.Active {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrderIndex != out[j].OrderIndex {
			return out[i].OrderIndex < out[j].OrderIndex
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *ServicePageRepository) FindByID(ctx context.Context, id int64) (*models.ServicePage, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return nil, r.d.Err
	}
	if s, ok := r.d.services[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *ServicePageRepository) FindBySlug(ctx context.Context, slug string) (*models.ServicePage, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return nil, r.d.Err
	}
	for _, s := range r.d.services {
		if s.Slug == slug {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ServicePageRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return false, r.d.Err
	}
	return r.slugTaken(slug, excludeID), nil
}

// slugTaken is called with mu held.
func (r *ServicePageRepository) slugTaken(slug string, excludeID int64) bool {
	for _, s := range r.d.services {
		if s.Slug == slug && s.ID != excludeID {
			return true
		}
	}
	return false
}

func (r *ServicePageRepository) Create(ctx context.Context, s *models.ServicePage) (*models.ServicePage, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return nil, r.d.Err
	}
	if r.slugTaken(s.Slug, 0) {
		return nil, fmt.Errorf("create service page: %w", models.ErrDuplicateKey)
	}
	row := *s
	row.ID = r.d.id()
	row.CreatedAt = now()
	row.UpdatedAt = row.CreatedAt
	r.d.services[row.ID] = &row
	cp := row
	return &cp, nil
}

func (r *ServicePageRepository) Update(ctx context.Context, s *models.ServicePage) (*models.ServicePage, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return nil, r.d.Err
	}
	existing, ok := r.d.services[s.ID]
	if !ok {
		return nil, nil
	}
	if r.slugTaken(s.Slug, s.ID) {
		return nil, fmt.Errorf("update service page: %w", models.ErrDuplicateKey)
	}
	row := *s
	row.CreatedAt = existing.CreatedAt
	row.UpdatedAt = now()
	r.d.services[row.ID] = &row
	cp := row
	return &cp, nil
}

func (r *ServicePageRepository) Delete(ctx context.Context, id int64) (bool, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return false, r.d.Err
	}
	if _, ok := r.d.services[id]; !ok {
		return false, nil
	}
	delete(r.d.services, id)
	return true, nil
}

func (r *ServicePageRepository) Count(ctx context.Context) (int, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return 0, r.d.Err
	}
	return len(r.d.services), nil
}
