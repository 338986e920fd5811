// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package service holds the taxonomy and content rules that sit between
// the HTTP handlers and the stores: slug scoping, parent checks, cascade
// reporting and publish stamping. Services depend on the repository
// interfaces below; internal/store provides the PostgreSQL implementations
// and internal/mocks the in-memory ones used in tests.
package service

import (
	"context"

	"biocms/internal/models"
)

// Find methods return (nil, nil) when the row does not exist.

// CategoryRepository persists categories.
type CategoryRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.Category, error)
	FindByID(ctx context.Context, id int64) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
	Update(ctx context.Context, c *models.Category) (*models.Category, error)
	// Delete removes the category and its subcategories and clears content
	// references to either, in one transaction.
	Delete(ctx context.Context, id int64) (models.CategoryDeletion, error)
	Reorder(ctx context.Context, items []models.ReorderItem) error
	CountItems(ctx context.Context, id int64, publishedOnly bool) (int, error)
	Count(ctx context.Context) (int, error)
}

// SubcategoryRepository persists subcategories.
type SubcategoryRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.Subcategory, error)
	ListByCategory(ctx context.Context, categoryID int64, activeOnly bool) ([]models.Subcategory, error)
	FindByID(ctx context.Context, id int64) (*models.Subcategory, error)
	FindBySlug(ctx context.Context, categoryID int64, slug string) (*models.Subcategory, error)
	SlugExists(ctx context.Context, categoryID int64, slug string, excludeID int64) (bool, error)
	Create(ctx context.Context, s *models.Subcategory) (*models.Subcategory, error)
	Update(ctx context.Context, s *models.Subcategory) (*models.Subcategory, error)
	// Delete removes the subcategory and clears content references to it.
	// It returns the number of detached items.
	Delete(ctx context.Context, id int64) (int64, error)
	Reorder(ctx context.Context, items []models.ReorderItem) error
	CountItems(ctx context.Context, id int64, publishedOnly bool) (int, error)
	Count(ctx context.Context) (int, error)
}

// BlogRepository persists flat blog posts.
type BlogRepository interface {
	List(ctx context.Context, f models.ContentFilter) ([]models.Blog, error)
	FindByID(ctx context.Context, id int64) (*models.Blog, error)
	FindBySlug(ctx context.Context, slug string) (*models.Blog, error)
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
	Create(ctx context.Context, b *models.Blog) (*models.Blog, error)
	Update(ctx context.Context, b *models.Blog) (*models.Blog, error)
	Delete(ctx context.Context, id int64) error
	IncrementViews(ctx context.Context, slug string) error
	Stats(ctx context.Context) (models.ContentStats, error)
}

// NewsBlogRepository persists taxonomy-bound news blogs.
type NewsBlogRepository interface {
	List(ctx context.Context, f models.ContentFilter) ([]models.NewsBlog, error)
	FindByID(ctx context.Context, id int64) (*models.NewsBlog, error)
	FindBySlug(ctx context.Context, slug string) (*models.NewsBlog, error)
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
	Create(ctx context.Context, n *models.NewsBlog) (*models.NewsBlog, error)
	Update(ctx context.Context, n *models.NewsBlog) (*models.NewsBlog, error)
	Delete(ctx context.Context, id int64) error
	IncrementViews(ctx context.Context, slug string) error
	Stats(ctx context.Context) (models.ContentStats, error)
}

// SettingRepository persists site settings.
type SettingRepository interface {
	List(ctx context.Context) ([]models.SiteSetting, error)
	Find(ctx context.Context, key string) (*models.SiteSetting, error)
	Upsert(ctx context.Context, s *models.SiteSetting) (*models.SiteSetting, error)
	Delete(ctx context.Context, key string) (bool, error)
}

// PageContentRepository persists page content sections.
type PageContentRepository interface {
	ListPages(ctx context.Context) ([]string, error)
	ListByPage(ctx context.Context, page string) ([]models.PageContent, error)
	FindByID(ctx context.Context, id int64) (*models.PageContent, error)
	Upsert(ctx context.Context, p *models.PageContent) (*models.PageContent, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// ServicePageRepository persists service pages.
type ServicePageRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.ServicePage, error)
	FindByID(ctx context.Context, id int64) (*models.ServicePage, error)
	FindBySlug(ctx context.Context, slug string) (*models.ServicePage, error)
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
	Create(ctx context.Context, s *models.ServicePage) (*models.ServicePage, error)
	Update(ctx context.Context, s *models.ServicePage) (*models.ServicePage, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int, error)
}
