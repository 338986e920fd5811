// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"biocms/internal/models"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, order_index, active, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description,
		&c.OrderIndex, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns categories ordered by order_index, then insertion order.
func (s *CategoryStore) List(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	q := `SELECT ` + categoryColumns + ` FROM categories`
	if activeOnly {
		q += ` WHERE active = TRUE`
	}
	q += ` ORDER BY order_index, id`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a category by slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// SlugExists reports whether another category already uses slug.
// Pass excludeID 0 when creating.
func (s *CategoryStore) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE slug = $1 AND id <> $2)`,
		slug, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check category slug: %w", err)
	}
	return exists, nil
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, slug, description, order_index, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.OrderIndex, c.Active,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, wrapWriteError("create category", err)
	}
	return result, nil
}

// Update writes every mutable field of c and returns the stored row.
// Returns nil if the category no longer exists.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE categories SET
			name = $1, slug = $2, description = $3, order_index = $4,
			active = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.OrderIndex, c.Active, c.ID,
	)
	result, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapWriteError("update category", err)
	}
	return result, nil
}

// Delete removes a category. Its subcategories are removed with it and
// news blogs pointing at either lose the reference but are kept.
func (s *CategoryStore) Delete(ctx context.Context, id int64) (models.CategoryDeletion, error) {
	var res models.CategoryDeletion

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	detached, err := tx.ExecContext(ctx, `
		UPDATE news_blogs SET
			category_id = CASE WHEN category_id = $1 THEN NULL ELSE category_id END,
			subcategory_id = CASE WHEN subcategory_id IN (SELECT id FROM subcategories WHERE category_id = $1)
			                      THEN NULL ELSE subcategory_id END,
			updated_at = NOW()
		WHERE category_id = $1
		   OR subcategory_id IN (SELECT id FROM subcategories WHERE category_id = $1)`, id)
	if err != nil {
		return res, fmt.Errorf("detach news blogs: %w", err)
	}

	subs, err := tx.ExecContext(ctx, `DELETE FROM subcategories WHERE category_id = $1`, id)
	if err != nil {
		return res, fmt.Errorf("delete subcategories: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
		return res, fmt.Errorf("delete category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return res, fmt.Errorf("commit delete category: %w", err)
	}

	res.SubcategoriesDeleted, _ = subs.RowsAffected()
	res.ItemsDetached, _ = detached.RowsAffected()
	return res, nil
}

// Reorder updates order_index for multiple categories in a transaction.
func (s *CategoryStore) Reorder(ctx context.Context, items []models.ReorderItem) error {
	return reorder(ctx, s.db, "categories", items)
}

// CountItems returns the number of news blogs that reference the category.
func (s *CategoryStore) CountItems(ctx context.Context, id int64, publishedOnly bool) (int, error) {
	q := `SELECT COUNT(*) FROM news_blogs WHERE category_id = $1`
	if publishedOnly {
		q += ` AND published = TRUE`
	}
	var n int
	if err := s.db.QueryRowContext(ctx, q, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("count category items: %w", err)
	}
	return n, nil
}

// Count returns the total number of categories.
func (s *CategoryStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}

// reorder applies order indexes to rows of table in one transaction.
// An unknown id rolls back the whole batch. table is never user input.
func reorder(ctx context.Context, db *sql.DB, table string, items []models.ReorderItem) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `UPDATE `+table+` SET order_index = $1, updated_at = $2 WHERE id = $3`)
	if err != nil {
		return fmt.Errorf("prepare reorder: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, item := range items {
		res, err := stmt.ExecContext(ctx, item.OrderIndex, now, item.ID)
		if err != nil {
			return fmt.Errorf("reorder %s %d: %w", table, item.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("reorder %s %d: %w", table, item.ID, models.ErrNoRows)
		}
	}

	return tx.Commit()
}
