// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// BlogCategory is the fixed set of categories a flat blog post may use.
type BlogCategory string

const (
	BlogCategoryResearch       BlogCategory = "research"
	BlogCategoryGenomics       BlogCategory = "genomics"
	BlogCategoryProteomics     BlogCategory = "proteomics"
	BlogCategoryBioinformatics BlogCategory = "bioinformatics"
	BlogCategoryTechnology     BlogCategory = "technology"
	BlogCategoryCompanyNews    BlogCategory = "company-news"
	BlogCategoryEvents         BlogCategory = "events"

	// DefaultBlogCategory is used when a blog is created without a category.
	DefaultBlogCategory = BlogCategoryResearch
)

// BlogCategories lists the allowed blog categories in display order.
var BlogCategories = []BlogCategory{
	BlogCategoryResearch,
	BlogCategoryGenomics,
	BlogCategoryProteomics,
	BlogCategoryBioinformatics,
	BlogCategoryTechnology,
	BlogCategoryCompanyNews,
	BlogCategoryEvents,
}

// Valid reports whether c is one of the allowed blog categories.
func (c BlogCategory) Valid() bool {
	for _, allowed := range BlogCategories {
		if c == allowed {
			return true
		}
	}
	return false
}

// Blog is a flat blog post categorized by a fixed enum value.
type Blog struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Slug        string       `json:"slug"`
	Excerpt     string       `json:"excerpt"`
	Content     string       `json:"content"`
	Author      string       `json:"author"`
	AuthorRole  *string      `json:"author_role"`
	Image       *string      `json:"image"`
	Tags        StringList   `json:"tags"`
	ReadTime    string       `json:"read_time"`
	Category    BlogCategory `json:"category"`
	Featured    bool         `json:"featured"`
	Published   bool         `json:"published"`
	Views       int64        `json:"views"`
	PublishedAt *time.Time   `json:"published_at"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewsBlog is a news entry bound to the category/subcategory taxonomy by
// nullable foreign keys. Images are ordered; the first one is canonical.
type NewsBlog struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       string     `json:"excerpt"`
	Content       string     `json:"content"`
	Author        string     `json:"author"`
	AuthorRole    *string    `json:"author_role"`
	Images        StringList `json:"images"`
	Tags          StringList `json:"tags"`
	ReadTime      string     `json:"read_time"`
	CategoryID    *int64     `json:"category_id"`
	SubcategoryID *int64     `json:"subcategory_id"`
	Featured      bool       `json:"featured"`
	Published     bool       `json:"published"`
	Views         int64      `json:"views"`
	PublishedAt   *time.Time `json:"published_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Virtual fields resolved by joining the taxonomy on read.
	CategorySlug    *string `json:"category_slug,omitempty"`
	SubcategorySlug *string `json:"subcategory_slug,omitempty"`
}

// Image returns the canonical (first) image, or "" if there is none.
func (n *NewsBlog) Image() string {
	if len(n.Images) == 0 {
		return ""
	}
	return n.Images[0]
}

// BlogPatch carries the fields of a partial blog update.
type BlogPatch struct {
	Title      *string       `json:"title"`
	Slug       *string       `json:"slug"`
	Excerpt    *string       `json:"excerpt"`
	Content    *string       `json:"content"`
	Author     *string       `json:"author"`
	AuthorRole *string       `json:"author_role"`
	Image      *string       `json:"image"`
	Tags       *StringList   `json:"tags"`
	ReadTime   *string       `json:"read_time"`
	Category   *BlogCategory `json:"category"`
	Featured   *bool         `json:"featured"`
	Published  *bool         `json:"published"`
}

// NewsBlogPatch carries the fields of a partial news blog update.
// CategoryID and SubcategoryID distinguish "absent" from an explicit null,
// which clears the reference.
type NewsBlogPatch struct {
	Title         *string     `json:"title"`
	Slug          *string     `json:"slug"`
	Excerpt       *string     `json:"excerpt"`
	Content       *string     `json:"content"`
	Author        *string     `json:"author"`
	AuthorRole    *string     `json:"author_role"`
	Images        *StringList `json:"images"`
	Tags          *StringList `json:"tags"`
	ReadTime      *string     `json:"read_time"`
	CategoryID    NullableID  `json:"category_id"`
	SubcategoryID NullableID  `json:"subcategory_id"`
	Featured      *bool       `json:"featured"`
	Published     *bool       `json:"published"`
}

// ContentFilter narrows content listings.
type ContentFilter struct {
	PublishedOnly   bool
	FeaturedOnly    bool
	Category        string // blog enum value or news category slug
	SubcategorySlug string
	CategoryID      *int64
	SubcategoryID   *int64
	Tag             string
	Limit           int
	Offset          int
}

// StringList is an ordered list of strings persisted as a JSONB array.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan string list: unsupported type %T", src)
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("scan string list: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*l = out
	return nil
}

// NullableID is an optional foreign key in a JSON patch. Set is true when
// the key was present in the payload, even if its value was null.
type NullableID struct {
	Set bool
	ID  *int64
}

// UnmarshalJSON records presence and decodes the id or null.
func (n *NullableID) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.ID = nil
		return nil
	}
	var id int64
	if err := json.Unmarshal(b, &id); err != nil {
		return err
	}
	n.ID = &id
	return nil
}

// MarshalJSON encodes the id or null.
func (n NullableID) MarshalJSON() ([]byte, error) {
	if n.ID == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.ID)
}
