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

// NewsBlogStore manages news blogs and their taxonomy references.
type NewsBlogStore struct {
	db *sql.DB
}

// NewNewsBlogStore returns a new NewsBlogStore.
func NewNewsBlogStore(db *sql.DB) *NewsBlogStore {
	return &NewsBlogStore{db: db}
}

// newsSelect joins the taxonomy so that reads carry the category and
// subcategory slugs.
const newsSelect = `
	SELECT n.id, n.title, n.slug, n.excerpt, n.content, n.author, n.author_role,
	       n.images, n.tags, n.read_time, n.category_id, n.subcategory_id,
	       n.featured, n.published, n.views, n.published_at, n.created_at, n.updated_at,
	       c.slug, sc.slug
	FROM news_blogs n
	LEFT JOIN categories c ON c.id = n.category_id
	LEFT JOIN subcategories sc ON sc.id = n.subcategory_id`

func scanNewsBlog(scanner interface{ Scan(...any) error }) (*models.NewsBlog, error) {
	var n models.NewsBlog
	err := scanner.Scan(
		&n.ID, &n.Title, &n.Slug, &n.Excerpt, &n.Content, &n.Author, &n.AuthorRole,
		&n.Images, &n.Tags, &n.ReadTime, &n.CategoryID, &n.SubcategoryID,
		&n.Featured, &n.Published, &n.Views, &n.PublishedAt, &n.CreatedAt, &n.UpdatedAt,
		&n.CategorySlug, &n.SubcategorySlug,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// List returns news blogs matching f, newest publication first.
// f.Category is matched against the category slug.
func (s *NewsBlogStore) List(ctx context.Context, f models.ContentFilter) ([]models.NewsBlog, error) {
	var w where
	if f.PublishedOnly {
		w.add("n.published = TRUE")
	}
	if f.FeaturedOnly {
		w.add("n.featured = TRUE")
	}
	if f.CategoryID != nil {
		w.add("n.category_id = ?", *f.CategoryID)
	}
	if f.SubcategoryID != nil {
		w.add("n.subcategory_id = ?", *f.SubcategoryID)
	}
	if f.Category != "" {
		w.add("c.slug = ?", f.Category)
	}
	if f.SubcategorySlug != "" {
		w.add("sc.slug = ?", f.SubcategorySlug)
	}
	if f.Tag != "" {
		w.add("n.tags @> jsonb_build_array(?::text)", f.Tag)
	}

	q := newsSelect + w.sql() +
		` ORDER BY n.published_at DESC NULLS LAST, n.created_at DESC, n.id DESC`
	q += w.page(f.Limit, f.Offset)

	rows, err := s.db.QueryContext(ctx, q, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list news blogs: %w", err)
	}
	defer rows.Close()

	var items []models.NewsBlog
	for rows.Next() {
		n, err := scanNewsBlog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan news blog: %w", err)
		}
		items = append(items, *n)
	}
	return items, rows.Err()
}

// FindByID retrieves a news blog by ID. Returns nil if not found.
func (s *NewsBlogStore) FindByID(ctx context.Context, id int64) (*models.NewsBlog, error) {
	n, err := scanNewsBlog(s.db.QueryRowContext(ctx, newsSelect+` WHERE n.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find news blog by id: %w", err)
	}
	return n, nil
}

// FindBySlug retrieves a news blog by slug. Returns nil if not found.
func (s *NewsBlogStore) FindBySlug(ctx context.Context, slug string) (*models.NewsBlog, error) {
	n, err := scanNewsBlog(s.db.QueryRowContext(ctx, newsSelect+` WHERE n.slug = $1`, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find news blog by slug: %w", err)
	}
	return n, nil
}

// SlugExists reports whether another news blog already uses slug.
func (s *NewsBlogStore) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM news_blogs WHERE slug = $1 AND id <> $2)`, slug, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check news blog slug: %w", err)
	}
	return exists, nil
}

// Create inserts a new news blog and returns it with its taxonomy slugs.
func (s *NewsBlogStore) Create(ctx context.Context, n *models.NewsBlog) (*models.NewsBlog, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO news_blogs (title, slug, excerpt, content, author, author_role, images, tags,
		                        read_time, category_id, subcategory_id, featured, published, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`,
		n.Title, n.Slug, n.Excerpt, n.Content, n.Author, n.AuthorRole, n.Images, n.Tags,
		n.ReadTime, n.CategoryID, n.SubcategoryID, n.Featured, n.Published, n.PublishedAt,
	).Scan(&id)
	if err != nil {
		return nil, wrapWriteError("create news blog", err)
	}
	return s.FindByID(ctx, id)
}

// Update writes every mutable field of n. Returns nil if the row is gone.
func (s *NewsBlogStore) Update(ctx context.Context, n *models.NewsBlog) (*models.NewsBlog, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE news_blogs SET
			title = $1, slug = $2, excerpt = $3, content = $4, author = $5,
			author_role = $6, images = $7, tags = $8, read_time = $9,
			category_id = $10, subcategory_id = $11, featured = $12, published = $13,
			published_at = $14, updated_at = NOW()
		WHERE id = $15`,
		n.Title, n.Slug, n.Excerpt, n.Content, n.Author,
		n.AuthorRole, n.Images, n.Tags, n.ReadTime,
		n.CategoryID, n.SubcategoryID, n.Featured, n.Published,
		n.PublishedAt, n.ID,
	)
	if err != nil {
		return nil, wrapWriteError("update news blog", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, nil
	}
	return s.FindByID(ctx, n.ID)
}

// Delete permanently removes a news blog.
func (s *NewsBlogStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM news_blogs WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete news blog: %w", err)
	}
	return nil
}

// IncrementViews bumps the view counter of a published news blog.
func (s *NewsBlogStore) IncrementViews(ctx context.Context, slug string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE news_blogs SET views = views + 1 WHERE slug = $1 AND published = TRUE`, slug)
	if err != nil {
		return fmt.Errorf("increment news blog views: %w", err)
	}
	return nil
}

// Stats summarizes the news_blogs table.
func (s *NewsBlogStore) Stats(ctx context.Context) (models.ContentStats, error) {
	return contentStats(ctx, s.db, "news_blogs")
}
