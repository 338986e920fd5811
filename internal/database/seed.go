// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"biocms/internal/slug"
)

//go:embed seeddata/seed.yaml
var seedYAML []byte

// Default development credentials created by SeedAdmin.
const (
	DevAdminEmail    = "admin@biocms.local"
	DevAdminPassword = "admin"
)

// SeedData is the shape of the embedded seed file.
type SeedData struct {
	Categories []SeedCategory `yaml:"categories"`
	Settings   []SeedSetting  `yaml:"settings"`
	Pages      []SeedPage     `yaml:"pages"`
	Services   []SeedService  `yaml:"services"`
}

// SeedCategory is a category with its subcategories.
type SeedCategory struct {
	Name          string            `yaml:"name"`
	Slug          string            `yaml:"slug"`
	Description   string            `yaml:"description"`
	Subcategories []SeedSubcategory `yaml:"subcategories"`
}

// SeedSubcategory is a subcategory entry.
type SeedSubcategory struct {
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
}

// SeedSetting is a site setting entry.
type SeedSetting struct {
	Key         string `yaml:"key"`
	Value       string `yaml:"value"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
}

// SeedPage is a page content block.
type SeedPage struct {
	Page    string `yaml:"page"`
	Section string `yaml:"section"`
	Key     string `yaml:"key"`
	Type    string `yaml:"type"`
	Content string `yaml:"content"`
}

// SeedService is a service page.
type SeedService struct {
	Title   string `yaml:"title"`
	Slug    string `yaml:"slug"`
	Summary string `yaml:"summary"`
	Icon    string `yaml:"icon"`
}

// LoadSeedData parses the embedded seed file.
func LoadSeedData() (*SeedData, error) {
	var data SeedData
	if err := yaml.Unmarshal(seedYAML, &data); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	return &data, nil
}

// Seed populates an empty database with the embedded taxonomy, settings,
// page copy and service pages. Each group is skipped when its table
// already holds rows, so Seed is safe to run repeatedly.
func Seed(ctx context.Context, db *sql.DB) error {
	data, err := LoadSeedData()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := seedTaxonomy(ctx, tx, data.Categories); err != nil {
		return err
	}

	for _, s := range data.Settings {
		typ := s.Type
		if typ == "" {
			typ = "text"
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO site_settings (key, value, type, description)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (key) DO NOTHING`,
			s.Key, s.Value, typ, nullIfEmpty(s.Description),
		)
		if err != nil {
			return fmt.Errorf("seed setting %s: %w", s.Key, err)
		}
	}

	for _, p := range data.Pages {
		typ := p.Type
		if typ == "" {
			typ = "text"
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO page_contents (page, section, key, content, type)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (page, section, key) DO NOTHING`,
			p.Page, p.Section, p.Key, p.Content, typ,
		)
		if err != nil {
			return fmt.Errorf("seed page %s/%s/%s: %w", p.Page, p.Section, p.Key, err)
		}
	}

	for i, s := range data.Services {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO service_pages (title, slug, summary, icon, order_index)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (slug) DO NOTHING`,
			s.Title, slugOr(s.Slug, s.Title), s.Summary, nullIfEmpty(s.Icon), i,
		)
		if err != nil {
			return fmt.Errorf("seed service %s: %w", s.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("seed data applied",
		"categories", len(data.Categories),
		"settings", len(data.Settings),
		"services", len(data.Services),
	)
	return nil
}

// seedTaxonomy inserts the seed categories only into an empty table.
func seedTaxonomy(ctx context.Context, tx *sql.Tx, cats []SeedCategory) error {
	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}
	if count > 0 {
		slog.Info("taxonomy already seeded, skipping")
		return nil
	}

	for i, c := range cats {
		var categoryID int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO categories (name, slug, description, order_index)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			c.Name, slugOr(c.Slug, c.Name), nullIfEmpty(c.Description), i,
		).Scan(&categoryID)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", c.Name, err)
		}

		for j, sc := range c.Subcategories {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO subcategories (category_id, name, slug, description, order_index)
				VALUES ($1, $2, $3, $4, $5)`,
				categoryID, sc.Name, slugOr(sc.Slug, sc.Name), nullIfEmpty(sc.Description), j,
			)
			if err != nil {
				return fmt.Errorf("seed subcategory %s/%s: %w", c.Name, sc.Name, err)
			}
		}
	}
	return nil
}

// SeedAdmin creates a super admin with the given credentials if no admin
// account exists yet.
func SeedAdmin(ctx context.Context, db *sql.DB, email, password string) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM admins").Scan(&count); err != nil {
		return fmt.Errorf("seed check admins: %w", err)
	}

	if count > 0 {
		slog.Info("admin already present, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO admins (email, password_hash, name, role)
		VALUES ($1, $2, $3, $4)
	`, strings.ToLower(email), string(hash), "Admin", "super_admin")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with super admin", "email", email)
	return nil
}

func slugOr(s, name string) string {
	if s != "" {
		return s
	}
	return slug.Generate(name)
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
