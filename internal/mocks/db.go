// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package mocks provides in-memory implementations of the repository
// interfaces. All repositories returned by one DB share its tables, so
// cascades and reference clearing behave like the PostgreSQL schema.
package mocks

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"biocms/internal/models"
)

// DB is an in-memory stand-in for the database.
type DB struct {
	mu sync.Mutex

	// Err, when set, is returned by every repository call.
	Err error

	nextID        int64
	categories    map[int64]*models.Category
	subcategories map[int64]*models.Subcategory
	blogs         map[int64]*models.Blog
	news          map[int64]*models.NewsBlog
	settings      map[string]*models.SiteSetting
	pages         map[int64]*models.PageContent
	services      map[int64]*models.ServicePage
	admins        map[uuid.UUID]*models.Admin

	// ViewCalls counts IncrementViews invocations per slug.
	ViewCalls map[string]int
}

// NewDB returns an empty in-memory database.
func NewDB() *DB {
	return &DB{
		categories:    make(map[int64]*models.Category),
		subcategories: make(map[int64]*models.Subcategory),
		blogs:         make(map[int64]*models.Blog),
		news:          make(map[int64]*models.NewsBlog),
		settings:      make(map[string]*models.SiteSetting),
		pages:         make(map[int64]*models.PageContent),
		services:      make(map[int64]*models.ServicePage),
		admins:        make(map[uuid.UUID]*models.Admin),
		ViewCalls:     make(map[string]int),
	}
}

// id hands out increasing ids shared by all tables, like separate
// sequences that never overlap. Callers hold mu.
func (d *DB) id() int64 {
	d.nextID++
	return d.nextID
}

func now() time.Time {
	return time.Now().UTC()
}

// Categories returns the category repository view.
func (d *DB) Categories() *CategoryRepository { return &CategoryRepository{d} }

// Subcategories returns the subcategory repository view.
func (d *DB) Subcategories() *SubcategoryRepository { return &SubcategoryRepository{d} }

// Blogs returns the blog repository view.
func (d *DB) Blogs() *BlogRepository { return &BlogRepository{d} }

// News returns the news blog repository view.
func (d *DB) News() *NewsBlogRepository { return &NewsBlogRepository{d} }

// Settings returns the site setting repository view.
func (d *DB) Settings() *SettingRepository { return &SettingRepository{d} }

// Pages returns the page content repository view.
func (d *DB) Pages() *PageContentRepository { return &PageContentRepository{d} }

// Services returns the service page repository view.
func (d *DB) Services() *ServicePageRepository { return &ServicePageRepository{d} }

// Admins returns the admin repository view.
func (d *DB) Admins() *AdminRepository { return &AdminRepository{d} }

// BlogCount returns the number of stored blogs.
func (d *DB) BlogCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.blogs)
}

// NewsCount returns the number of stored news blogs.
func (d *DB) NewsCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.news)
}

// SubcategoryCount returns the number of stored subcategories.
func (d *DB) SubcategoryCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.subcategories)
}

// Views returns the stored view count of the blog or news blog with slug.
func (d *DB) Views(slug string) int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, b := range d.blogs {
		if b.Slug == slug {
			return b.Views
		}
	}
	for _, n := range d.news {
		if n.Slug == slug {
			return n.Views
		}
	}
	return 0
}
