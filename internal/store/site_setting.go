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

// SiteSettingStore manages site configuration through gorm.
type SiteSettingStore struct {
	db *gorm.DB
}

// NewSiteSettingStore returns a new SiteSettingStore backed by the given gorm handle.
func NewSiteSettingStore(db *gorm.DB) *SiteSettingStore {
	return &SiteSettingStore{db: db}
}

// List returns every setting ordered by key.
func (s *SiteSettingStore) List(ctx context.Context) ([]models.SiteSetting, error) {
	var items []models.SiteSetting
	if err := s.db.WithContext(ctx).Order("key").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	return items, nil
}

// Find returns a single setting by key. Returns nil if not found.
func (s *SiteSettingStore) Find(ctx context.Context, key string) (*models.SiteSetting, error) {
	var item models.SiteSetting
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find setting: %w", err)
	}
	return &item, nil
}

// Upsert creates the setting or replaces its value, type and description.
func (s *SiteSettingStore) Upsert(ctx context.Context, item *models.SiteSetting) (*models.SiteSetting, error) {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "type", "description", "updated_at"}),
	}).Create(item).Error
	if err != nil {
		return nil, wrapWriteError("upsert setting", err)
	}
	return s.Find(ctx, item.Key)
}

// Delete removes a setting. It reports whether a row was deleted.
func (s *SiteSettingStore) Delete(ctx context.Context, key string) (bool, error) {
	res := s.db.WithContext(ctx).Where("key = ?", key).Delete(&models.SiteSetting{})
	if res.Error != nil {
		return false, fmt.Errorf("delete setting: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
