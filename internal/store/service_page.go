// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"biocms/internal/models"
)

// ServicePageStore manages service pages through gorm.
type ServicePageStore struct {
	db *gorm.DB
}

// NewServicePageStore returns a new ServicePageStore.
func NewServicePageStore(db *gorm.DB) *ServicePageStore {
	return &ServicePageStore{db: db}
}

// List returns service pages ordered by order_index, then id.
func (s *ServicePageStore) List(ctx context.Context, activeOnly bool) ([]models.ServicePage, error) {
	q := s.db.WithContext(ctx).Order("order_index, id")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var items []models.ServicePage
	if err := q.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list service pages: %w", err)
	}
	return items, nil
}

// FindByID returns a service page by ID. Returns nil if not found.
func (s *ServicePageStore) FindByID(ctx context.Context, id int64) (*models.ServicePage, error) {
	var item models.ServicePage
	err := s.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find service page: %w", err)
	}
	return &item, nil
}

// FindBySlug returns a service page by slug. Returns nil if not found.
func (s *ServicePageStore) FindBySlug(ctx context.Context, slug string) (*models.ServicePage, error) {
	var item models.ServicePage
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find service page by slug: %w", err)
	}
	return &item, nil
}

// SlugExists reports whether another service page already uses slug.
func (s *ServicePageStore) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.ServicePage{}).
		Where("slug = ? AND id <> ?", slug, excludeID).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check service page slug: %w", err)
	}
	return n > 0, nil
}

// Create inserts a service page. Zero-valued Active is written as false.
func (s *ServicePageStore) Create(ctx context.Context, item *models.ServicePage) (*models.ServicePage, error) {
	// Select("*") so gorm writes false/0 instead of falling back to column defaults.
	if err := s.db.WithContext(ctx).Select("*").Omit("id").Create(item).Error; err != nil {
		return nil, wrapWriteError("create service page", err)
	}
	return s.FindByID(ctx, item.ID)
}

// Update writes every mutable field. Returns nil if the row is gone.
func (s *ServicePageStore) Update(ctx context.Context, item *models.ServicePage) (*models.ServicePage, error) {
	res := s.db.WithContext(ctx).Model(&models.ServicePage{ID: item.ID}).
		Select("title", "slug", "summary", "content", "icon", "image", "order_index", "active", "updated_at").
		Updates(item)
	if res.Error != nil {
		return nil, wrapWriteError("update service page", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return s.FindByID(ctx, item.ID)
}

// Delete removes a service page. It reports whether a row was deleted.
func (s *ServicePageStore) Delete(ctx context.Context, id int64) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&models.ServicePage{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete service page: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Count returns the number of service pages.
func (s *ServicePageStore) Count(ctx context.Context) (int, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.ServicePage{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count service pages: %w", err)
	}
	return int(n), nil
}
