// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// PageContentType tags how a page section body is interpreted.
type PageContentType string

const (
	PageContentText PageContentType = "text"
	PageContentHTML PageContentType = "html"
	PageContentJSON PageContentType = "json"
)

// Valid reports whether t is a known page content type.
func (t PageContentType) Valid() bool {
	return t == PageContentText || t == PageContentHTML || t == PageContentJSON
}

// PageContent is one editable block of a marketing page, addressed by
// page, section and key.
type PageContent struct {
	ID        int64           `json:"id" gorm:"primaryKey"`
	Page      string          `json:"page" gorm:"not null;uniqueIndex:idx_page_contents_address"`
	Section   string          `json:"section" gorm:"not null;uniqueIndex:idx_page_contents_address"`
	Key       string          `json:"key" gorm:"not null;uniqueIndex:idx_page_contents_address"`
	Content   string          `json:"content" gorm:"not null;default:''"`
	Type      PageContentType `json:"type" gorm:"not null;default:text"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName pins the gorm table name.
func (PageContent) TableName() string { return "page_contents" }

// PageSections groups a page's blocks as section -> key -> content.
type PageSections map[string]map[string]string

// GroupPageContent folds rows into PageSections.
func GroupPageContent(rows []PageContent) PageSections {
	out := PageSections{}
	for _, r := range rows {
		sec, ok := out[r.Section]
		if !ok {
			sec = map[string]string{}
			out[r.Section] = sec
		}
		sec[r.Key] = r.Content
	}
	return out
}
