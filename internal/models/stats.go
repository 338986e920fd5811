// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "errors"

// Persistence-level conflicts. Stores wrap these so that callers can map
// them with errors.Is without importing a driver.
var (
	// ErrDuplicateKey is a unique constraint violation.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrMissingReference is a foreign key violation.
	ErrMissingReference = errors.New("missing reference")
	// ErrValueTooLong is a value wider than its column.
	ErrValueTooLong = errors.New("value too long")
	// ErrNoRows is a write that addressed a row that does not exist.
	ErrNoRows = errors.New("no such row")
)

// ContentStats summarizes one content table.
type ContentStats struct {
	Total     int   `json:"total"`
	Published int   `json:"published"`
	Featured  int   `json:"featured"`
	Views     int64 `json:"views"`
}

// DashboardStats is the admin overview.
type DashboardStats struct {
	Blogs         ContentStats `json:"blogs"`
	News          ContentStats `json:"news"`
	Categories    int          `json:"categories"`
	Subcategories int          `json:"subcategories"`
	ServicePages  int          `json:"service_pages"`
	TotalViews    int64        `json:"total_views"`
}
