// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"biocms/internal/models"
	"biocms/internal/slug"
)

// ViewTimeout bounds a detached view-count update.
const ViewTimeout = 5 * time.Second

// ContentService manages blogs and news blogs.
type ContentService struct {
	blogs         BlogRepository
	news          NewsBlogRepository
	categories    CategoryRepository
	subcategories SubcategoryRepository

	now   func() time.Time
	views sync.WaitGroup
}

// NewContentService wires the content rules over the given repositories.
func NewContentService(blogs BlogRepository, news NewsBlogRepository, categories CategoryRepository, subcategories SubcategoryRepository) *ContentService {
	return &ContentService{
		blogs:         blogs,
		news:          news,
		categories:    categories,
		subcategories: subcategories,
		now:           time.Now,
	}
}

// BlogInput is the payload for creating a blog. Category defaults to
// research when empty.
type BlogInput struct {
	Title      string            `json:"title"`
	Slug       string            `json:"slug"`
	Excerpt    string            `json:"excerpt"`
	Content    string            `json:"content"`
	Author     string            `json:"author"`
	AuthorRole *string           `json:"author_role"`
	Image      *string           `json:"image"`
	Tags       models.StringList `json:"tags"`
	ReadTime   string            `json:"read_time"`
	Category   string            `json:"category"`
	Featured   bool              `json:"featured"`
	Published  bool              `json:"published"`
}

// NewsBlogInput is the payload for creating a news blog.
type NewsBlogInput struct {
	Title         string            `json:"title"`
	Slug          string            `json:"slug"`
	Excerpt       string            `json:"excerpt"`
	Content       string            `json:"content"`
	Author        string            `json:"author"`
	AuthorRole    *string           `json:"author_role"`
	Images        models.StringList `json:"images"`
	Tags          models.StringList `json:"tags"`
	ReadTime      string            `json:"read_time"`
	CategoryID    *int64            `json:"category_id"`
	SubcategoryID *int64            `json:"subcategory_id"`
	Featured      bool              `json:"featured"`
	Published     bool              `json:"published"`
}

// --- Blogs ---

// ListBlogs returns blogs matching f. A non-empty f.Category must be one of
// the allowed blog categories.
func (s *ContentService) ListBlogs(ctx context.Context, f models.ContentFilter) ([]models.Blog, error) {
	if f.Category != "" && !models.BlogCategory(f.Category).Valid() {
		return nil, invalidCategory(f.Category)
	}
	items, err := s.blogs.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Blog{}
	}
	return items, nil
}

// GetBlog returns any blog by id.
func (s *ContentService) GetBlog(ctx context.Context, id int64) (*models.Blog, error) {
	b, err := s.blogs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}
	return b, nil
}

// GetPublishedBlog returns a published blog by slug and records a view in
// the background. Drafts are reported as not found.
func (s *ContentService) GetPublishedBlog(ctx context.Context, sl string) (*models.Blog, error) {
	b, err := s.blogs.FindBySlug(ctx, sl)
	if err != nil {
		return nil, err
	}
	if b == nil || !b.Published {
		return nil, ErrNotFound
	}
	s.trackView("blog", sl, s.blogs.IncrementViews)
	return b, nil
}

// CreateBlog validates and inserts a blog.
func (s *ContentService) CreateBlog(ctx context.Context, in BlogInput) (*models.Blog, error) {
	title, sl, err := requireContentFields(in.Title, in.Slug, in.Content)
	if err != nil {
		return nil, err
	}

	cat := models.BlogCategory(strings.TrimSpace(in.Category))
	if cat == "" {
		cat = models.DefaultBlogCategory
	}
	if !cat.Valid() {
		return nil, invalidCategory(string(cat))
	}

	taken, err := s.blogs.SlugExists(ctx, sl, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, s.blogSlugTaken(ctx, sl)
	}

	b := &models.Blog{
		Title:      title,
		Slug:       sl,
		Excerpt:    in.Excerpt,
		Content:    in.Content,
		Author:     in.Author,
		AuthorRole: in.AuthorRole,
		Image:      in.Image,
		Tags:       cleanList(in.Tags),
		ReadTime:   readTimeOr(in.ReadTime, in.Content),
		Category:   cat,
		Featured:   in.Featured,
		Published:  in.Published,
	}
	if b.Published {
		now := s.now()
		b.PublishedAt = &now
	}

	created, err := s.blogs.Create(ctx, b)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateKey) {
			return nil, &DuplicateSlugError{Entity: "blog", Slug: sl, Suggestion: slug.Suggest(sl)}
		}
		return nil, err
	}
	slog.Info("blog created", "id", created.ID, "slug", created.Slug, "published", created.Published)
	return created, nil
}

// UpdateBlog merges the supplied fields. Publishing for the first time
// stamps published_at; later unpublish/publish cycles keep the original.
func (s *ContentService) UpdateBlog(ctx context.Context, id int64, p models.BlogPatch) (*models.Blog, error) {
	b, err := s.blogs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}

	if p.Title != nil {
		b.Title = strings.TrimSpace(*p.Title)
		if b.Title == "" {
			return nil, missing("title")
		}
	}
	if p.Slug != nil {
		if err := normalizeSlug(p.Slug); err != nil {
			return nil, err
		}
		if *p.Slug != b.Slug {
			taken, err := s.blogs.SlugExists(ctx, *p.Slug, b.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, s.blogSlugTaken(ctx, *p.Slug)
			}
		}
		b.Slug = *p.Slug
	}
	if p.Content != nil {
		if strings.TrimSpace(*p.Content) == "" {
			return nil, missing("content")
		}
		b.Content = *p.Content
	}
	if p.Category != nil {
		if !p.Category.Valid() {
			return nil, invalidCategory(string(*p.Category))
		}
		b.Category = *p.Category
	}
	if p.Excerpt != nil {
		b.Excerpt = *p.Excerpt
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.AuthorRole != nil {
		b.AuthorRole = p.AuthorRole
	}
	if p.Image != nil {
		b.Image = p.Image
	}
	if p.Tags != nil {
		b.Tags = cleanList(*p.Tags)
	}
	if p.ReadTime != nil {
		b.ReadTime = *p.ReadTime
	}
	b.ReadTime = readTimeOr(b.ReadTime, b.Content)
	if p.Featured != nil {
		b.Featured = *p.Featured
	}
	if p.Published != nil {
		b.Published = *p.Published
		b.PublishedAt = s.stampPublished(b.Published, b.PublishedAt)
	}

	updated, err := s.blogs.Update(ctx, b)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateKey) {
			return nil, &DuplicateSlugError{Entity: "blog", Slug: b.Slug, Suggestion: slug.Suggest(b.Slug)}
		}
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// DeleteBlog hard-deletes a blog; its slug is immediately reusable.
func (s *ContentService) DeleteBlog(ctx context.Context, id int64) error {
	b, err := s.blogs.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if b == nil {
		return ErrNotFound
	}
	if err := s.blogs.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("blog deleted", "id", id, "slug", b.Slug)
	return nil
}

func (s *ContentService) blogSlugTaken(ctx context.Context, sl string) error {
	return &DuplicateSlugError{
		Entity:     "blog",
		Slug:       sl,
		Suggestion: suggest(ctx, sl, func(c string) (bool, error) { return s.blogs.SlugExists(ctx, c, 0) }),
	}
}

// --- News blogs ---

// ListNews returns news blogs matching f.
func (s *ContentService) ListNews(ctx context.Context, f models.ContentFilter) ([]models.NewsBlog, error) {
	items, err := s.news.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.NewsBlog{}
	}
	return items, nil
}

// GetNews returns any news blog by id.
func (s *ContentService) GetNews(ctx context.Context, id int64) (*models.NewsBlog, error) {
	n, err := s.news.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, ErrNotFound
	}
	return n, nil
}

// GetPublishedNews returns a published news blog by slug and records a view
// in the background.
func (s *ContentService) GetPublishedNews(ctx context.Context, sl string) (*models.NewsBlog, error) {
	n, err := s.news.FindBySlug(ctx, sl)
	if err != nil {
		return nil, err
	}
	if n == nil || !n.Published {
		return nil, ErrNotFound
	}
	s.trackView("news", sl, s.news.IncrementViews)
	return n, nil
}

// CreateNews validates and inserts a news blog. Taxonomy references must
// exist; a subcategory given without a category implies its parent.
func (s *ContentService) CreateNews(ctx context.Context, in NewsBlogInput) (*models.NewsBlog, error) {
	title, sl, err := requireContentFields(in.Title, in.Slug, in.Content)
	if err != nil {
		return nil, err
	}

	categoryID, err := s.resolveRefs(ctx, in.CategoryID, in.SubcategoryID)
	if err != nil {
		return nil, err
	}

	taken, err := s.news.SlugExists(ctx, sl, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, s.newsSlugTaken(ctx, sl)
	}

	n := &models.NewsBlog{
		Title:         title,
		Slug:          sl,
		Excerpt:       in.Excerpt,
		Content:       in.Content,
		Author:        in.Author,
		AuthorRole:    in.AuthorRole,
		Images:        cleanList(in.Images),
		Tags:          cleanList(in.Tags),
		ReadTime:      readTimeOr(in.ReadTime, in.Content),
		CategoryID:    categoryID,
		SubcategoryID: in.SubcategoryID,
		Featured:      in.Featured,
		Published:     in.Published,
	}
	if n.Published {
		now := s.now()
		n.PublishedAt = &now
	}

	created, err := s.news.Create(ctx, n)
	if err != nil {
		return nil, s.newsWriteError(sl, err)
	}
	slog.Info("news blog created", "id", created.ID, "slug", created.Slug, "published", created.Published)
	return created, nil
}

// UpdateNews merges the supplied fields. category_id and subcategory_id
// may be cleared with an explicit null; the merged pair is re-validated.
func (s *ContentService) UpdateNews(ctx context.Context, id int64, p models.NewsBlogPatch) (*models.NewsBlog, error) {
	n, err := s.news.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, ErrNotFound
	}

	if p.Title != nil {
		n.Title = strings.TrimSpace(*p.Title)
		if n.Title == "" {
			return nil, missing("title")
		}
	}
	if p.Slug != nil {
		if err := normalizeSlug(p.Slug); err != nil {
			return nil, err
		}
		if *p.Slug != n.Slug {
			taken, err := s.news.SlugExists(ctx, *p.Slug, n.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, s.newsSlugTaken(ctx, *p.Slug)
			}
		}
		n.Slug = *p.Slug
	}
	if p.Content != nil {
		if strings.TrimSpace(*p.Content) == "" {
			return nil, missing("content")
		}
		n.Content = *p.Content
	}

	if p.CategoryID.Set || p.SubcategoryID.Set {
		categoryID, subcategoryID := n.CategoryID, n.SubcategoryID
		if p.CategoryID.Set {
			categoryID = p.CategoryID.ID
		}
		if p.SubcategoryID.Set {
			subcategoryID = p.SubcategoryID.ID
		}
		resolved, err := s.resolveRefs(ctx, categoryID, subcategoryID)
		if err != nil {
			return nil, err
		}
		n.CategoryID, n.SubcategoryID = resolved, subcategoryID
	}

	if p.Excerpt != nil {
		n.Excerpt = *p.Excerpt
	}
	if p.Author != nil {
		n.Author = *p.Author
	}
	if p.AuthorRole != nil {
		n.AuthorRole = p.AuthorRole
	}
	if p.Images != nil {
		n.Images = cleanList(*p.Images)
	}
	if p.Tags != nil {
		n.Tags = cleanList(*p.Tags)
	}
	if p.ReadTime != nil {
		n.ReadTime = *p.ReadTime
	}
	n.ReadTime = readTimeOr(n.ReadTime, n.Content)
	if p.Featured != nil {
		n.Featured = *p.Featured
	}
	if p.Published != nil {
		n.Published = *p.Published
		n.PublishedAt = s.stampPublished(n.Published, n.PublishedAt)
	}

	updated, err := s.news.Update(ctx, n)
	if err != nil {
		return nil, s.newsWriteError(n.Slug, err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// DeleteNews hard-deletes a news blog; its slug is immediately reusable.
func (s *ContentService) DeleteNews(ctx context.Context, id int64) error {
	n, err := s.news.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if n == nil {
		return ErrNotFound
	}
	if err := s.news.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("news blog deleted", "id", id, "slug", n.Slug)
	return nil
}

// resolveRefs checks that the referenced taxonomy rows exist and agree. It
// returns the category id to store, which is inferred from the
// subcategory when only the latter is given.
func (s *ContentService) resolveRefs(ctx context.Context, categoryID, subcategoryID *int64) (*int64, error) {
	if categoryID != nil {
		c, err := s.categories.FindByID(ctx, *categoryID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, fmt.Errorf("category %d: %w", *categoryID, ErrInvalidParent)
		}
	}
	if subcategoryID == nil {
		return categoryID, nil
	}

	sc, err := s.subcategories.FindByID(ctx, *subcategoryID)
	if err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, fmt.Errorf("subcategory %d: %w", *subcategoryID, ErrInvalidParent)
	}
	if categoryID == nil {
		parent := sc.CategoryID
		return &parent, nil
	}
	if sc.CategoryID != *categoryID {
		return nil, fmt.Errorf("subcategory %d does not belong to category %d: %w",
			*subcategoryID, *categoryID, ErrInvalidParent)
	}
	return categoryID, nil
}

func (s *ContentService) newsSlugTaken(ctx context.Context, sl string) error {
	return &DuplicateSlugError{
		Entity:     "news",
		Slug:       sl,
		Suggestion: suggest(ctx, sl, func(c string) (bool, error) { return s.news.SlugExists(ctx, c, 0) }),
	}
}

func (s *ContentService) newsWriteError(sl string, err error) error {
	switch {
	case errors.Is(err, models.ErrDuplicateKey):
		return &DuplicateSlugError{Entity: "news", Slug: sl, Suggestion: slug.Suggest(sl)}
	case errors.Is(err, models.ErrMissingReference):
		return fmt.Errorf("news %s: %w", sl, ErrInvalidParent)
	}
	return err
}

// --- Shared ---

// stampPublished returns the published_at value after a publish toggle.
// The first publish stamps the current time; the stamp is never cleared.
func (s *ContentService) stampPublished(published bool, current *time.Time) *time.Time {
	if published && current == nil {
		now := s.now()
		return &now
	}
	return current
}

// trackView increments a view counter without blocking the caller. The
// update gets its own timeout since the request context ends with the
// response.
func (s *ContentService) trackView(kind, sl string, inc func(context.Context, string) error) {
	s.views.Add(1)
	go func() {
		defer s.views.Done()
		ctx, cancel := context.WithTimeout(context.Background(), ViewTimeout)
		defer cancel()
		if err := inc(ctx, sl); err != nil {
			slog.Warn("view increment failed", "kind", kind, "slug", sl, "error", err)
		}
	}()
}

// Wait blocks until pending view increments have finished. Call it during
// shutdown before closing the database.
func (s *ContentService) Wait() {
	s.views.Wait()
}

// requireContentFields trims and checks title, slug and body.
func requireContentFields(title, rawSlug, content string) (string, string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", "", missing("title")
	}
	sl := slug.Generate(rawSlug)
	if sl == "" {
		return "", "", missing("slug")
	}
	if strings.TrimSpace(content) == "" {
		return "", "", missing("content")
	}
	return title, sl, nil
}

// cleanList trims entries and drops empty ones, preserving order.
func cleanList(in models.StringList) models.StringList {
	out := make(models.StringList, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func invalidCategory(v string) error {
	return &InvalidCategoryError{Value: v, Allowed: models.BlogCategories}
}
