// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// ServicePage describes one of the company's service offerings.
type ServicePage struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	Title      string    `json:"title" gorm:"not null"`
	Slug       string    `json:"slug" gorm:"uniqueIndex;not null"`
	Summary    string    `json:"summary" gorm:"not null;default:''"`
	Content    string    `json:"content" gorm:"not null;default:''"`
	Icon       *string   `json:"icon"`
	Image      *string   `json:"image"`
	OrderIndex int       `json:"order_index" gorm:"not null;default:0"`
	Active     bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName pins the gorm table name.
func (ServicePage) TableName() string { return "service_pages" }

// ServicePagePatch carries the fields of a partial service page update.
type ServicePagePatch struct {
	Title      *string `json:"title"`
	Slug       *string `json:"slug"`
	Summary    *string `json:"summary"`
	Content    *string `json:"content"`
	Icon       *string `json:"icon"`
	Image      *string `json:"image"`
	OrderIndex *int    `json:"order_index"`
	Active     *bool   `json:"active"`
}

// Apply merges the patch into s.
func (p *ServicePagePatch) Apply(s *ServicePage) {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Slug != nil {
		s.Slug = *p.Slug
	}
	if p.Summary != nil {
		s.Summary = *p.Summary
	}
	if p.Content != nil {
		s.Content = *p.Content
	}
	if p.Icon != nil {
		s.Icon = p.Icon
	}
	if p.Image != nil {
		s.Image = p.Image
	}
	if p.OrderIndex != nil {
		s.OrderIndex = *p.OrderIndex
	}
	if p.Active != nil {
		s.Active = *p.Active
	}
}
