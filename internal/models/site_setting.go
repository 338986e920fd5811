// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// SettingType tags how a setting value should be interpreted.
type SettingType string

const (
	SettingText    SettingType = "text"
	SettingNumber  SettingType = "number"
	SettingBoolean SettingType = "boolean"
	SettingJSON    SettingType = "json"
)

// Valid reports whether t is a known setting type.
func (t SettingType) Valid() bool {
	switch t {
	case SettingText, SettingNumber, SettingBoolean, SettingJSON:
		return true
	}
	return false
}

// SiteSetting represents a single configuration key-value pair.
type SiteSetting struct {
	ID          int64       `json:"id" gorm:"primaryKey"`
	Key         string      `json:"key" gorm:"uniqueIndex;not null"`
	Value       string      `json:"value" gorm:"not null;default:''"`
	Type        SettingType `json:"type" gorm:"not null;default:text"`
	Description *string     `json:"description"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// TableName pins the gorm table name.
func (SiteSetting) TableName() string { return "site_settings" }

// Typed decodes Value according to Type. Unknown types fall back to the
// raw string.
func (s *SiteSetting) Typed() (any, error) {
	switch s.Type {
	case SettingNumber:
		f, err := strconv.ParseFloat(s.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("setting %s: parse number: %w", s.Key, err)
		}
		return f, nil
	case SettingBoolean:
		b, err := strconv.ParseBool(s.Value)
		if err != nil {
			return nil, fmt.Errorf("setting %s: parse boolean: %w", s.Key, err)
		}
		return b, nil
	case SettingJSON:
		var v any
		if err := json.Unmarshal([]byte(s.Value), &v); err != nil {
			return nil, fmt.Errorf("setting %s: parse json: %w", s.Key, err)
		}
		return v, nil
	default:
		return s.Value, nil
	}
}

// SiteSettings is a convenience map for accessing settings by key.
type SiteSettings map[string]string

// Get returns the value for a key, or the fallback if the key doesn't exist.
func (s SiteSettings) Get(key, fallback string) string {
	if v, ok := s[key]; ok && v != "" {
		return v
	}
	return fallback
}
