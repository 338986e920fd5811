// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"biocms/internal/models"
	"biocms/internal/slug"
)

// TaxonomyService manages the category and subcategory tree.
type TaxonomyService struct {
	categories    CategoryRepository
	subcategories SubcategoryRepository
}

// NewTaxonomyService wires the taxonomy rules over the given repositories.
func NewTaxonomyService(categories CategoryRepository, subcategories SubcategoryRepository) *TaxonomyService {
	return &TaxonomyService{categories: categories, subcategories: subcategories}
}

// CategoryInput is the payload for creating a category. Nil OrderIndex
// defaults to 0 and nil Active to true.
type CategoryInput struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
	OrderIndex  *int    `json:"order_index"`
	Active      *bool   `json:"active"`
}

// SubcategoryInput is the payload for creating a subcategory.
type SubcategoryInput struct {
	CategoryID  int64   `json:"category_id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
	OrderIndex  *int    `json:"order_index"`
	Active      *bool   `json:"active"`
}

// ListCategories returns the category tree ordered by order_index then id,
// with item counts on every node. With activeOnly, inactive categories and
// subcategories are dropped and only published items are counted.
func (s *TaxonomyService) ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	cats, err := s.categories.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	subs, err := s.subcategories.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}

	byParent := make(map[int64][]models.Subcategory, len(cats))
	for _, sc := range subs {
		byParent[sc.CategoryID] = append(byParent[sc.CategoryID], sc)
	}

	for i := range cats {
		cats[i].Subcategories = byParent[cats[i].ID]
		if cats[i].Subcategories == nil {
			cats[i].Subcategories = []models.Subcategory{}
		}
		if err := s.attachCounts(ctx, &cats[i], activeOnly); err != nil {
			return nil, err
		}
	}
	if cats == nil {
		cats = []models.Category{}
	}
	return cats, nil
}

// attachCounts runs one count query per node.
func (s *TaxonomyService) attachCounts(ctx context.Context, c *models.Category, publishedOnly bool) error {
	n, err := s.categories.CountItems(ctx, c.ID, publishedOnly)
	if err != nil {
		return err
	}
	c.ItemCount = &n
	for j := range c.Subcategories {
		m, err := s.subcategories.CountItems(ctx, c.Subcategories[j].ID, publishedOnly)
		if err != nil {
			return err
		}
		c.Subcategories[j].ItemCount = &m
	}
	return nil
}

// GetCategory returns a category with its subcategories and counts.
func (s *TaxonomyService) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return s.withChildren(ctx, c, false)
}

// GetCategoryBySlug resolves a category by slug. With activeOnly an inactive
// category is reported as not found.
func (s *TaxonomyService) GetCategoryBySlug(ctx context.Context, categorySlug string, activeOnly bool) (*models.Category, error) {
	c, err := s.categories.FindBySlug(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	if c == nil || (activeOnly && !c.Active) {
		return nil, ErrNotFound
	}
	return s.withChildren(ctx, c, activeOnly)
}

func (s *TaxonomyService) withChildren(ctx context.Context, c *models.Category, activeOnly bool) (*models.Category, error) {
	subs, err := s.subcategories.ListByCategory(ctx, c.ID, activeOnly)
	if err != nil {
		return nil, err
	}
	if subs == nil {
		subs = []models.Subcategory{}
	}
	c.Subcategories = subs
	if err := s.attachCounts(ctx, c, activeOnly); err != nil {
		return nil, err
	}
	return c, nil
}

// CreateCategory validates and inserts a category. An empty slug is derived
// from the name.
func (s *TaxonomyService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, missing("name")
	}
	sl := slug.Generate(in.Slug)
	if sl == "" {
		sl = slug.Generate(name)
	}
	if sl == "" {
		return nil, missing("slug")
	}

	if err := s.checkCategorySlug(ctx, sl, 0); err != nil {
		return nil, err
	}

	c := &models.Category{
		Name:        name,
		Slug:        sl,
		Description: in.Description,
		OrderIndex:  intOr(in.OrderIndex, 0),
		Active:      boolOr(in.Active, true),
	}
	created, err := s.categories.Create(ctx, c)
	if err != nil {
		return nil, s.categoryWriteError(sl, err)
	}
	slog.Info("category created", "id", created.ID, "slug", created.Slug)
	return created, nil
}

// UpdateCategory merges the supplied fields into the stored category.
func (s *TaxonomyService) UpdateCategory(ctx context.Context, id int64, p models.CategoryPatch) (*models.Category, error) {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}

	if err := normalizeName(p.Name); err != nil {
		return nil, err
	}
	if err := normalizeSlug(p.Slug); err != nil {
		return nil, err
	}
	p.Apply(c)

	if p.Slug != nil {
		if err := s.checkCategorySlug(ctx, c.Slug, c.ID); err != nil {
			return nil, err
		}
	}

	updated, err := s.categories.Update(ctx, c)
	if err != nil {
		return nil, s.categoryWriteError(c.Slug, err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// DeleteCategory removes a category and all its subcategories. Content
// items that referenced either survive with the reference cleared.
func (s *TaxonomyService) DeleteCategory(ctx context.Context, id int64) (models.CategoryDeletion, error) {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return models.CategoryDeletion{}, err
	}
	if c == nil {
		return models.CategoryDeletion{}, ErrNotFound
	}
	res, err := s.categories.Delete(ctx, id)
	if err != nil {
		return models.CategoryDeletion{}, err
	}
	slog.Info("category deleted",
		"id", id,
		"slug", c.Slug,
		"subcategories_deleted", res.SubcategoriesDeleted,
		"items_detached", res.ItemsDetached,
	)
	return res, nil
}

// ReorderCategories applies new order indexes in one transaction.
func (s *TaxonomyService) ReorderCategories(ctx context.Context, items []models.ReorderItem) error {
	return reorderError(s.categories.Reorder(ctx, items))
}

// ListSubcategories returns the subcategories of one category.
func (s *TaxonomyService) ListSubcategories(ctx context.Context, categoryID int64, activeOnly bool) ([]models.Subcategory, error) {
	c, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	subs, err := s.subcategories.ListByCategory(ctx, categoryID, activeOnly)
	if err != nil {
		return nil, err
	}
	if subs == nil {
		subs = []models.Subcategory{}
	}
	return subs, nil
}

// GetSubcategory returns a subcategory by id.
func (s *TaxonomyService) GetSubcategory(ctx context.Context, id int64) (*models.Subcategory, error) {
	sc, err := s.subcategories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, ErrNotFound
	}
	return sc, nil
}

// CreateSubcategory validates and inserts a subcategory under an existing
// category. Its slug only has to be unique among its siblings.
func (s *TaxonomyService) CreateSubcategory(ctx context.Context, in SubcategoryInput) (*models.Subcategory, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, missing("name")
	}
	if in.CategoryID == 0 {
		return nil, missing("category_id")
	}
	sl := slug.Generate(in.Slug)
	if sl == "" {
		sl = slug.Generate(name)
	}
	if sl == "" {
		return nil, missing("slug")
	}

	if err := s.requireCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	if err := s.checkSubcategorySlug(ctx, in.CategoryID, sl, 0); err != nil {
		return nil, err
	}

	sc := &models.Subcategory{
		CategoryID:  in.CategoryID,
		Name:        name,
		Slug:        sl,
		Description: in.Description,
		OrderIndex:  intOr(in.OrderIndex, 0),
		Active:      boolOr(in.Active, true),
	}
	created, err := s.subcategories.Create(ctx, sc)
	if err != nil {
		return nil, s.subcategoryWriteError(in.CategoryID, sl, err)
	}
	slog.Info("subcategory created", "id", created.ID, "category_id", created.CategoryID, "slug", created.Slug)
	return created, nil
}

// UpdateSubcategory merges the supplied fields. A new CategoryID re-parents
// the subcategory; the target must exist and must not already hold the slug.
func (s *TaxonomyService) UpdateSubcategory(ctx context.Context, id int64, p models.SubcategoryPatch) (*models.Subcategory, error) {
	sc, err := s.subcategories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, ErrNotFound
	}

	if err := normalizeName(p.Name); err != nil {
		return nil, err
	}
	if err := normalizeSlug(p.Slug); err != nil {
		return nil, err
	}

	reparented := p.CategoryID != nil && *p.CategoryID != sc.CategoryID
	if reparented {
		if err := s.requireCategory(ctx, *p.CategoryID); err != nil {
			return nil, err
		}
	}
	p.Apply(sc)

	if reparented || p.Slug != nil {
		if err := s.checkSubcategorySlug(ctx, sc.CategoryID, sc.Slug, sc.ID); err != nil {
			return nil, err
		}
	}

	updated, err := s.subcategories.Update(ctx, sc)
	if err != nil {
		return nil, s.subcategoryWriteError(sc.CategoryID, sc.Slug, err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// DeleteSubcategory removes a subcategory. Content items that referenced it
// survive with the reference cleared. It returns the detached item count.
func (s *TaxonomyService) DeleteSubcategory(ctx context.Context, id int64) (int64, error) {
	sc, err := s.subcategories.FindByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if sc == nil {
		return 0, ErrNotFound
	}
	detached, err := s.subcategories.Delete(ctx, id)
	if err != nil {
		return 0, err
	}
	slog.Info("subcategory deleted", "id", id, "slug", sc.Slug, "items_detached", detached)
	return detached, nil
}

// ReorderSubcategories applies new order indexes in one transaction.
func (s *TaxonomyService) ReorderSubcategories(ctx context.Context, items []models.ReorderItem) error {
	return reorderError(s.subcategories.Reorder(ctx, items))
}

// reorderError reports an unknown id in a reorder batch as ErrNotFound.
func reorderError(err error) error {
	if errors.Is(err, models.ErrNoRows) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}

func (s *TaxonomyService) requireCategory(ctx context.Context, id int64) error {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("category %d: %w", id, ErrInvalidParent)
	}
	return nil
}

func (s *TaxonomyService) checkCategorySlug(ctx context.Context, sl string, excludeID int64) error {
	taken, err := s.categories.SlugExists(ctx, sl, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return &DuplicateSlugError{
			Entity:     "category",
			Slug:       sl,
			Suggestion: suggest(ctx, sl, func(c string) (bool, error) { return s.categories.SlugExists(ctx, c, 0) }),
		}
	}
	return nil
}

func (s *TaxonomyService) checkSubcategorySlug(ctx context.Context, categoryID int64, sl string, excludeID int64) error {
	taken, err := s.subcategories.SlugExists(ctx, categoryID, sl, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return &DuplicateSlugError{
			Entity: "subcategory",
			Slug:   sl,
			Suggestion: suggest(ctx, sl, func(c string) (bool, error) {
				return s.subcategories.SlugExists(ctx, categoryID, c, 0)
			}),
		}
	}
	return nil
}

// categoryWriteError maps a unique violation that slipped past the
// pre-check into DuplicateSlug.
func (s *TaxonomyService) categoryWriteError(sl string, err error) error {
	if errors.Is(err, models.ErrDuplicateKey) {
		return &DuplicateSlugError{Entity: "category", Slug: sl, Suggestion: slug.Suggest(sl)}
	}
	return err
}

func (s *TaxonomyService) subcategoryWriteError(categoryID int64, sl string, err error) error {
	switch {
	case errors.Is(err, models.ErrDuplicateKey):
		return &DuplicateSlugError{Entity: "subcategory", Slug: sl, Suggestion: slug.Suggest(sl)}
	case errors.Is(err, models.ErrMissingReference):
		return fmt.Errorf("category %d: %w", categoryID, ErrInvalidParent)
	}
	return err
}

// suggestAttempts bounds how many random suffixes are tried.
const suggestAttempts = 5

// suggest returns a variant of sl that taken reports as free. If every
// attempt collides or the lookup fails, the last candidate is returned
// unverified.
func suggest(ctx context.Context, sl string, taken func(string) (bool, error)) string {
	var candidate string
	for i := 0; i < suggestAttempts; i++ {
		candidate = slug.Suggest(sl)
		used, err := taken(candidate)
		if err != nil {
			slog.WarnContext(ctx, "slug suggestion lookup failed", "slug", sl, "error", err)
			return candidate
		}
		if !used {
			return candidate
		}
	}
	return candidate
}

// normalizeName trims a patched name in place and rejects an empty one.
func normalizeName(name *string) error {
	if name == nil {
		return nil
	}
	*name = strings.TrimSpace(*name)
	if *name == "" {
		return missing("name")
	}
	return nil
}

// normalizeSlug canonicalizes a patched slug in place and rejects one that
// normalizes to nothing.
func normalizeSlug(sl *string) error {
	if sl == nil {
		return nil
	}
	*sl = slug.Generate(*sl)
	if *sl == "" {
		return missing("slug")
	}
	return nil
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
