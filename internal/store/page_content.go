// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"biocms/internal/models"
)

// PageContentStore manages editable page sections through gorm.
type PageContentStore struct {
	db *gorm.DB
}

// NewPageContentStore returns a new PageContentStore.
func NewPageContentStore(db *gorm.DB) *PageContentStore {
	return &PageContentStore{db: db}
}

// ListPages returns the distinct page names that have content.
func (s *PageContentStore) ListPages(ctx context.Context) ([]string, error) {
	var pages []string
	err := s.db.WithContext(ctx).Model(&models.PageContent{}).
		Distinct("page").Order("page").Pluck("page", &pages).Error
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	return pages, nil
}

// ListByPage returns every block of one page ordered by section and key.
func (s *PageContentStore) ListByPage(ctx context.Context, page string) ([]models.PageContent, error) {
	var items []models.PageContent
	err := s.db.WithContext(ctx).Where("page = ?", page).Order("section, key").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list page content: %w", err)
	}
	return items, nil
}

// FindByID returns a block by ID. Returns nil if not found.
func (s *PageContentStore) FindByID(ctx context.Context, id int64) (*models.PageContent, error) {
	var item models.PageContent
	err := s.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find page content: %w", err)
	}
	return &item, nil
}

// Upsert creates the block or replaces the content of the block at the
// same page/section/key address.
func (s *PageContentStore) Upsert(ctx context.Context, item *models.PageContent) (*models.PageContent, error) {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "page"}, {Name: "section"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "type", "updated_at"}),
	}).Create(item).Error
	if err != nil {
		return nil, wrapWriteError("upsert page content", err)
	}

	var stored models.PageContent
	err = s.db.WithContext(ctx).
		Where("page = ? AND section = ? AND key = ?", item.Page, item.Section, item.Key).
		First(&stored).Error
	if err != nil {
		return nil, fmt.Errorf("reload page content: %w", err)
	}
	return &stored, nil
}

// Delete removes a block. It reports whether a row was deleted.
func (s *PageContentStore) Delete(ctx context.Context, id int64) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&models.PageContent{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete page content: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
