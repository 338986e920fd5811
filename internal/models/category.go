// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Category is a top-level taxonomy node. Its slug is unique across all
// categories.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	OrderIndex  int       `json:"order_index"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Virtual fields populated by list operations.
	Subcategories []Subcategory `json:"subcategories,omitempty"`
	ItemCount     *int          `json:"item_count,omitempty"`
}

// Subcategory is a second-level taxonomy node owned by exactly one
// Category. Its slug is unique among its siblings only.
type Subcategory struct {
	ID          int64     `json:"id"`
	CategoryID  int64     `json:"category_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	OrderIndex  int       `json:"order_index"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	ItemCount *int `json:"item_count,omitempty"`
}

// CategoryPatch carries the fields of a partial category update. Nil
// fields keep their stored value.
type CategoryPatch struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	OrderIndex  *int    `json:"order_index"`
	Active      *bool   `json:"active"`
}

// SubcategoryPatch carries the fields of a partial subcategory update.
// Setting CategoryID re-parents the subcategory.
type SubcategoryPatch struct {
	CategoryID  *int64  `json:"category_id"`
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	OrderIndex  *int    `json:"order_index"`
	Active      *bool   `json:"active"`
}

// Apply merges the patch into c.
func (p *CategoryPatch) Apply(c *Category) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Slug != nil {
		c.Slug = *p.Slug
	}
	if p.Description != nil {
		c.Description = p.Description
	}
	if p.OrderIndex != nil {
		c.OrderIndex = *p.OrderIndex
	}
	if p.Active != nil {
		c.Active = *p.Active
	}
}

// Apply merges the patch into s.
func (p *SubcategoryPatch) Apply(s *Subcategory) {
	if p.CategoryID != nil {
		s.CategoryID = *p.CategoryID
	}
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Slug != nil {
		s.Slug = *p.Slug
	}
	if p.Description != nil {
		s.Description = p.Description
	}
	if p.OrderIndex != nil {
		s.OrderIndex = *p.OrderIndex
	}
	if p.Active != nil {
		s.Active = *p.Active
	}
}

// CategoryDeletion reports what a category delete removed or detached.
type CategoryDeletion struct {
	SubcategoriesDeleted int64 `json:"subcategories_deleted"`
	ItemsDetached        int64 `json:"items_detached"`
}

// ReorderItem is a single entry of a reorder request.
type ReorderItem struct {
	ID         int64 `json:"id"`
	OrderIndex int   `json:"order_index"`
}
