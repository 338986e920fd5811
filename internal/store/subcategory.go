// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"biocms/internal/models"
)

// SubcategoryStore manages subcategories in the database.
type SubcategoryStore struct {
	db *sql.DB
}

// NewSubcategoryStore returns a new SubcategoryStore.
func NewSubcategoryStore(db *sql.DB) *SubcategoryStore {
	return &SubcategoryStore{db: db}
}

const subcategoryColumns = `id, category_id, name, slug, description, order_index, active, created_at, updated_at`

func scanSubcategory(scanner interface{ Scan(...any) error }) (*models.Subcategory, error) {
	var sc models.Subcategory
	err := scanner.Scan(
		&sc.ID, &sc.CategoryID, &sc.Name, &sc.Slug, &sc.Description,
		&sc.OrderIndex, &sc.Active, &sc.CreatedAt, &sc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sc, nil
}

func (s *SubcategoryStore) query(ctx context.Context, q string, args ...any) ([]models.Subcategory, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	defer rows.Close()

	var items []models.Subcategory
	for rows.Next() {
		sc, err := scanSubcategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subcategory: %w", err)
		}
		items = append(items, *sc)
	}
	return items, rows.Err()
}

// List returns every subcategory ordered by parent, order_index and id.
func (s *SubcategoryStore) List(ctx context.Context, activeOnly bool) ([]models.Subcategory, error) {
	q := `SELECT ` + subcategoryColumns + ` FROM subcategories`
	if activeOnly {
		q += ` WHERE active = TRUE`
	}
	q += ` ORDER BY category_id, order_index, id`
	return s.query(ctx, q)
}

// ListByCategory returns the subcategories owned by one category.
func (s *SubcategoryStore) ListByCategory(ctx context.Context, categoryID int64, activeOnly bool) ([]models.Subcategory, error) {
	q := `SELECT ` + subcategoryColumns + ` FROM subcategories WHERE category_id = $1`
	if activeOnly {
		q += ` AND active = TRUE`
	}
	q += ` ORDER BY order_index, id`
	return s.query(ctx, q, categoryID)
}

// FindByID retrieves a subcategory by ID. Returns nil if not found.
func (s *SubcategoryStore) FindByID(ctx context.Context, id int64) (*models.Subcategory, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+subcategoryColumns+` FROM subcategories WHERE id = $1`, id)
	sc, err := scanSubcategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find subcategory by id: %w", err)
	}
	return sc, nil
}

// FindBySlug retrieves a subcategory by its slug within a category.
func (s *SubcategoryStore) FindBySlug(ctx context.Context, categoryID int64, slug string) (*models.Subcategory, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+subcategoryColumns+` FROM subcategories WHERE category_id = $1 AND slug = $2`,
		categoryID, slug,
	)
	sc, err := scanSubcategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find subcategory by slug: %w", err)
	}
	return sc, nil
}

// SlugExists reports whether a sibling under categoryID already uses slug.
func (s *SubcategoryStore) SlugExists(ctx context.Context, categoryID int64, slug string, excludeID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM subcategories
			WHERE category_id = $1 AND slug = $2 AND id <> $3
		)`, categoryID, slug, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check subcategory slug: %w", err)
	}
	return exists, nil
}

// Create inserts a new subcategory and returns it.
func (s *SubcategoryStore) Create(ctx context.Context, sc *models.Subcategory) (*models.Subcategory, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO subcategories (category_id, name, slug, description, order_index, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+subcategoryColumns,
		sc.CategoryID, sc.Name, sc.Slug, sc.Description, sc.OrderIndex, sc.Active,
	)
	result, err := scanSubcategory(row)
	if err != nil {
		return nil, wrapWriteError("create subcategory", err)
	}
	return result, nil
}

// Update writes every mutable field, including the parent. Moving the
// subcategory to another category moves its news blogs with it. Returns nil
// if the subcategory no longer exists.
func (s *SubcategoryStore) Update(ctx context.Context, sc *models.Subcategory) (*models.Subcategory, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		UPDATE subcategories SET
			category_id = $1, name = $2, slug = $3, description = $4,
			order_index = $5, active = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING `+subcategoryColumns,
		sc.CategoryID, sc.Name, sc.Slug, sc.Description, sc.OrderIndex, sc.Active, sc.ID,
	)
	result, err := scanSubcategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapWriteError("update subcategory", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE news_blogs SET category_id = $1, updated_at = NOW()
		WHERE subcategory_id = $2 AND category_id IS DISTINCT FROM $1`,
		result.CategoryID, result.ID,
	); err != nil {
		return nil, fmt.Errorf("move news blogs: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update subcategory: %w", err)
	}
	return result, nil
}

// Delete removes a subcategory and clears news blog references to it.
func (s *SubcategoryStore) Delete(ctx context.Context, id int64) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE news_blogs SET subcategory_id = NULL, updated_at = NOW() WHERE subcategory_id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("detach news blogs: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM subcategories WHERE id = $1`, id); err != nil {
		return 0, fmt.Errorf("delete subcategory: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit delete subcategory: %w", err)
	}

	detached, _ := res.RowsAffected()
	return detached, nil
}

// Reorder updates order_index for multiple subcategories in a transaction.
func (s *SubcategoryStore) Reorder(ctx context.Context, items []models.ReorderItem) error {
	return reorder(ctx, s.db, "subcategories", items)
}

// CountItems returns the number of news blogs that reference the subcategory.
func (s *SubcategoryStore) CountItems(ctx context.Context, id int64, publishedOnly bool) (int, error) {
	q := `SELECT COUNT(*) FROM news_blogs WHERE subcategory_id = $1`
	if publishedOnly {
		q += ` AND published = TRUE`
	}
	var n int
	if err := s.db.QueryRowContext(ctx, q, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("count subcategory items: %w", err)
	}
	return n, nil
}

// Count returns the total number of subcategories.
func (s *SubcategoryStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM subcategories`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count subcategories: %w", err)
	}
	return n, nil
}
