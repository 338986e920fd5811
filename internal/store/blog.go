// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"biocms/internal/models"
)

// BlogStore manages flat blog posts.
type BlogStore struct {
	db *sql.DB
}

// NewBlogStore returns a new BlogStore.
func NewBlogStore(db *sql.DB) *BlogStore {
	return &BlogStore{db: db}
}

const blogColumns = `id, title, slug, excerpt, content, author, author_role, image, tags,
	read_time, category, featured, published, views, published_at, created_at, updated_at`

func scanBlog(scanner interface{ Scan(...any) error }) (*models.Blog, error) {
	var b models.Blog
	err := scanner.Scan(
		&b.ID, &b.Title, &b.Slug, &b.Excerpt, &b.Content, &b.Author, &b.AuthorRole,
		&b.Image, &b.Tags, &b.ReadTime, &b.Category, &b.Featured, &b.Published,
		&b.Views, &b.PublishedAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// where accumulates SQL predicates with positional arguments.
type where struct {
	clauses []string
	args    []any
}

// add appends a predicate; each "?" in clause becomes the next $n.
func (w *where) add(clause string, args ...any) {
	for _, a := range args {
		w.args = append(w.args, a)
		clause = strings.Replace(clause, "?", "$"+strconv.Itoa(len(w.args)), 1)
	}
	w.clauses = append(w.clauses, clause)
}

func (w *where) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// page appends LIMIT/OFFSET when set.
func (w *where) page(limit, offset int) string {
	var b strings.Builder
	if limit > 0 {
		w.args = append(w.args, limit)
		b.WriteString(" LIMIT $" + strconv.Itoa(len(w.args)))
	}
	if offset > 0 {
		w.args = append(w.args, offset)
		b.WriteString(" OFFSET $" + strconv.Itoa(len(w.args)))
	}
	return b.String()
}

// List returns blogs matching f, newest publication first.
func (s *BlogStore) List(ctx context.Context, f models.ContentFilter) ([]models.Blog, error) {
	var w where
	if f.PublishedOnly {
		w.add("published = TRUE")
	}
	if f.FeaturedOnly {
		w.add("featured = TRUE")
	}
	if f.Category != "" {
		w.add("category = ?", f.Category)
	}
	if f.Tag != "" {
		w.add("tags @> jsonb_build_array(?::text)", f.Tag)
	}

	q := `SELECT ` + blogColumns + ` FROM blogs` + w.sql() +
		` ORDER BY published_at DESC NULLS LAST, created_at DESC, id DESC`
	q += w.page(f.Limit, f.Offset)

	rows, err := s.db.QueryContext(ctx, q, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}
	defer rows.Close()

	var items []models.Blog
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blog: %w", err)
		}
		items = append(items, *b)
	}
	return items, rows.Err()
}

// FindByID retrieves a blog by ID. Returns nil if not found.
func (s *BlogStore) FindByID(ctx context.Context, id int64) (*models.Blog, error) {
	b, err := scanBlog(s.db.QueryRowContext(ctx, `SELECT `+blogColumns+` FROM blogs WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find blog by id: %w", err)
	}
	return b, nil
}

// FindBySlug retrieves a blog by slug. Returns nil if not found.
func (s *BlogStore) FindBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	b, err := scanBlog(s.db.QueryRowContext(ctx, `SELECT `+blogColumns+` FROM blogs WHERE slug = $1`, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find blog by slug: %w", err)
	}
	return b, nil
}

// SlugExists reports whether another blog already uses slug.
func (s *BlogStore) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM blogs WHERE slug = $1 AND id <> $2)`, slug, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check blog slug: %w", err)
	}
	return exists, nil
}

// Create inserts a new blog and returns it.
func (s *BlogStore) Create(ctx context.Context, b *models.Blog) (*models.Blog, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO blogs (title, slug, excerpt, content, author, author_role, image, tags,
		                   read_time, category, featured, published, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+blogColumns,
		b.Title, b.Slug, b.Excerpt, b.Content, b.Author, b.AuthorRole, b.Image, b.Tags,
		b.ReadTime, b.Category, b.Featured, b.Published, b.PublishedAt,
	)
	result, err := scanBlog(row)
	if err != nil {
		return nil, wrapWriteError("create blog", err)
	}
	return result, nil
}

// Update writes every mutable field of b. Returns nil if the row is gone.
func (s *BlogStore) Update(ctx context.Context, b *models.Blog) (*models.Blog, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE blogs SET
			title = $1, slug = $2, excerpt = $3, content = $4, author = $5,
			author_role = $6, image = $7, tags = $8, read_time = $9, category = $10,
			featured = $11, published = $12, published_at = $13, updated_at = NOW()
		WHERE id = $14
		RETURNING `+blogColumns,
		b.Title, b.Slug, b.Excerpt, b.Content, b.Author,
		b.AuthorRole, b.Image, b.Tags, b.ReadTime, b.Category,
		b.Featured, b.Published, b.PublishedAt, b.ID,
	)
	result, err := scanBlog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapWriteError("update blog", err)
	}
	return result, nil
}

// Delete permanently removes a blog.
func (s *BlogStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	return nil
}

// IncrementViews bumps the view counter of a published blog.
func (s *BlogStore) IncrementViews(ctx context.Context, slug string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE blogs SET views = views + 1 WHERE slug = $1 AND published = TRUE`, slug)
	if err != nil {
		return fmt.Errorf("increment blog views: %w", err)
	}
	return nil
}

// Stats summarizes the blogs table.
func (s *BlogStore) Stats(ctx context.Context) (models.ContentStats, error) {
	return contentStats(ctx, s.db, "blogs")
}

// contentStats aggregates one content table. table is never user input.
func contentStats(ctx context.Context, db *sql.DB, table string) (models.ContentStats, error) {
	var st models.ContentStats
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE published),
		       COUNT(*) FILTER (WHERE featured),
		       COALESCE(SUM(views), 0)
		FROM `+table).Scan(&st.Total, &st.Published, &st.Featured, &st.Views)
	if err != nil {
		return st, fmt.Errorf("%s stats: %w", table, err)
	}
	return st, nil
}
