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

// CategoryRepository is the in-memory category table.
type CategoryRepository struct{ d *DB }

func sortCategories(items []models.Category) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].OrderIndex != items[j].OrderIndex {
			return items[i].OrderIndex < items[j].OrderIndex
		}
		return items[i].ID < items[j].ID
	})
}

func sortSubcategories(items []models.Subcategory) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CategoryID != items[j].CategoryID {
			return items[i].CategoryID < items[j].CategoryID
		}
		if items[i].OrderIndex != items[j].OrderIndex {
			return items[i].OrderIndex < items[j].OrderIndex
		}
		return items[i].ID < items[j].ID
	})
}

func (r *CategoryRepository) List(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return nil, r.d.Err
	}
	var out []models.Category
	for _, c := range r.d.categories {
		if activeOnly && !c.Active {
			continue
		}
		out = append(out, *c)
	}
	sortCategories(out)
	return out, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return nil, r.d.Err
	}
	if c, ok := r.d.categories[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return nil, r.d.Err
	}
	for _, c := range r.d.categories {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *CategoryRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return false, r.d.Err
	}
	return r.slugTaken(slug, excludeID), nil
}

func (r *CategoryRepository) slugTaken(slug string, excludeID int64) bool {
	for _, c := range r.d.categories {
		if c.Slug == slug && c.ID != excludeID {
			return true
		}
	}
	return false
}

func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return nil, r.d.Err
	}
	if r.slugTaken(c.Slug, 0) {
		return nil, fmt.Errorf("create category: %w", models.ErrDuplicateKey)
	}
	row := *c
	row.ID = r.d.id()
	row.CreatedAt, row.UpdatedAt = now(), now()
	row.Subcategories, row.ItemCount = nil, nil
	r.d.categories[row.ID] = &row
	out := row
	return &out, nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *models.Category) (*models.Category, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return nil, r.d.Err
	}
	existing, ok := r.d.categories[c.ID]
	if !ok {
		return nil, nil
	}
	if r.slugTaken(c.Slug, c.ID) {
		return nil, fmt.Errorf("update category: %w", models.ErrDuplicateKey)
	}
	row := *c
	row.CreatedAt = existing.CreatedAt
	row.UpdatedAt = now()
	row.Subcategories, row.ItemCount = nil, nil
	r.d.categories[row.ID] = &row
	out := row
	return &out, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) (models.CategoryDeletion, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	var res models.CategoryDeletion
	if r.d.Err != nil {
		return res, r.d.Err
	}

	owned := map[int64]bool{}
	for sid, sc := range r.d.subcategories {
		if sc.CategoryID == id {
			owned[sid] = true
		}
	}
	for _, n := range r.d.news {
		touched := false
		if n.CategoryID != nil && *n.CategoryID == id {
			n.CategoryID = nil
			touched = true
		}
		if n.SubcategoryID != nil && owned[*n.SubcategoryID] {
			n.SubcategoryID = nil
			touched = true
		}
		if touched {
			n.UpdatedAt = now()
			res.ItemsDetached++
		}
	}
	for sid := range owned {
		delete(r.d.subcategories, sid)
		res.SubcategoriesDeleted++
	}
	delete(r.d.categories, id)
	return res, nil
}

func (r *CategoryRepository) Reorder(ctx context.Context, items []models.ReorderItem) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return r.d.Err
	}
	for _, it := range items {
		if _, ok := r.d.categories[it.ID]; !ok {
			return fmt.Errorf("reorder categories %d: %w", it.ID, models.ErrNoRows)
		}
	}
	for _, it := range items {
		r.d.categories[it.ID].OrderIndex = it.OrderIndex
	}
	return nil
}

func (r *CategoryRepository) CountItems(ctx context.Context, id int64, publishedOnly bool) (int, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return 0, r.d.Err
	}
	n := 0
	for _, item := range r.d.news {
		if item.CategoryID != nil && *item.CategoryID == id && (!publishedOnly || item.Published) {
			n++
		}
	}
	return n, nil
}

func (r *CategoryRepository) Count(ctx context.Context) (int, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return 0, r.d.Err
	}
	return len(r.d.categories), nil
}

// SubcategoryRepository is the in-memory subcategory table.
type SubcategoryRepository struct{ d *DB }

func (r *SubcategoryRepository) List(ctx context.Context, activeOnly bool) ([]models.Subcategory, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return nil, r.d.Err
	}
	var out []models.Subcategory
	for _, sc := range r.d.subcategories {
		if activeOnly && !sc.Active {
			continue
		}
		out = append(out, *sc)
	}
	sortSubcategories(out)
	return out, nil
}

func (r *SubcategoryRepository) ListByCategory(ctx context.Context, categoryID int64, activeOnly bool) ([]models.Subcategory, error) {
	all, err := r.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	var out []models.Subcategory
	for _, sc := range all {
		if sc.CategoryID == categoryID {
			out = append(out, sc)
		}
	}
	return out, nil
}

func (r *SubcategoryRepository) FindByID(ctx context.Context, id int64) (*models.Subcategory, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return nil, r.d.Err
	}
	if sc, ok := r.d.subcategories[id]; ok {
		cp := *sc
		return &cp, nil
	}
	return nil, nil
}

func (r *SubcategoryRepository) FindBySlug(ctx context.Context, categoryID int64, slug string) (*models.Subcategory, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return nil, r.d.Err
	}
	for _, sc := range r.d.subcategories {
		if sc.CategoryID == categoryID && sc.Slug == slug {
			cp := *sc
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *SubcategoryRepository) SlugExists(ctx context.Context, categoryID int64, slug string, excludeID int64) (bool, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return false, r.d.Err
	}
	return r.slugTaken(categoryID, slug, excludeID), nil
}

func (r *SubcategoryRepository) slugTaken(categoryID int64, slug string, excludeID int64) bool {
	for _, sc := range r.d.subcategories {
		if sc.CategoryID == categoryID && sc.Slug == slug && sc.ID != excludeID {
			return true
		}
	}
	return false
}

func (r *SubcategoryRepository) Create(ctx context.Context, s *models.Subcategory) (*models.Subcategory, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return nil, r.d.Err
	}
	if _, ok := r.d.categories[s.CategoryID]; !ok {
		return nil, fmt.Errorf("create subcategory: %w", models.ErrMissingReference)
	}
	if r.slugTaken(s.CategoryID, s.Slug, 0) {
		return nil, fmt.Errorf("create subcategory: %w", models.ErrDuplicateKey)
	}
	row := *s
	row.ID = r.d.id()
	row.CreatedAt, row.UpdatedAt = now(), now()
	row.ItemCount = nil
	r.d.subcategories[row.ID] = &row
	out := row
	return &out, nil
}

func (r *SubcategoryRepository) Update(ctx context.Context, s *models.Subcategory) (*models.Subcategory, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return nil, r.d.Err
	}
	existing, ok := r.d.subcategories[s.ID]
	if !ok {
		return nil, nil
	}
	if _, ok := r.d.categories[s.CategoryID]; !ok {
		return nil, fmt.Errorf("update subcategory: %w", models.ErrMissingReference)
	}
	if r.slugTaken(s.CategoryID, s.Slug, s.ID) {
		return nil, fmt.Errorf("update subcategory: %w", models.ErrDuplicateKey)
	}
	row := *s
	row.CreatedAt = existing.CreatedAt
	row.UpdatedAt = now()
	row.ItemCount = nil
	r.d.subcategories[row.ID] = &row
	for _, n := range r.d.news {
		if n.SubcategoryID != nil && *n.SubcategoryID == row.ID &&
			(n.CategoryID == nil || *n.CategoryID != row.CategoryID) {
			cid := row.CategoryID
			n.CategoryID = &cid
			n.UpdatedAt = now()
		}
	}
	out := row
	return &out, nil
}

func (r *SubcategoryRepository) Delete(ctx context.Context, id int64) (int64, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return 0, r.d.Err
	}
	var detached int64
	for _, n := range r.d.news {
		if n.SubcategoryID != nil && *n.SubcategoryID == id {
			n.SubcategoryID = nil
			n.UpdatedAt = now()
			detached++
		}
	}
	delete(r.d.subcategories, id)
	return detached, nil
}

func (r *SubcategoryRepository) Reorder(ctx context.Context, items []models.ReorderItem) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return r.d.Err
	}
	for _, it := range items {
		if _, ok := r.d.subcategories[it.ID]; !ok {
			return fmt.Errorf("reorder subcategories %d: %w", it.ID, models.ErrNoRows)
		}
	}
	for _, it := range items {
		r.d.subcategories[it.ID].OrderIndex = it.OrderIndex
	}
	return nil
}

func (r *SubcategoryRepository) CountItems(ctx context.Context, id int64, publishedOnly bool) (int, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return 0, r.d.Err
	}
	n := 0
	for _, item := range r.d.news {
		if item.SubcategoryID != nil && *item.SubcategoryID == id && (!publishedOnly || item.Published) {
			n++
		}
	}
	return n, nil
}

func (r *SubcategoryRepository) Count(ctx context.Context) (int, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return 0, r.d.Err
	}
	return len(r.d.subcategories), nil
}
