// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"biocms/internal/models"
	"biocms/internal/slug"
)

// settingKey is the accepted shape of a setting key.
var settingKey = regexp.MustCompile(`^[a-z][a-z0-9_.]*$`)

// SiteService manages site settings, page content and service pages.
type SiteService struct {
	settings SettingRepository
	pages    PageContentRepository
	services ServicePageRepository
}

// NewSiteService wires the site content rules over the given repositories.
func NewSiteService(settings SettingRepository, pages PageContentRepository, services ServicePageRepository) *SiteService {
	return &SiteService{settings: settings, pages: pages, services: services}
}

// SettingInput is the payload for writing a setting.
type SettingInput struct {
	Value       string             `json:"value"`
	Type        models.SettingType `json:"type"`
	Description *string            `json:"description"`
}

// ListSettings returns every setting with its raw value.
func (s *SiteService) ListSettings(ctx context.Context) ([]models.SiteSetting, error) {
	items, err := s.settings.List(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.SiteSetting{}
	}
	return items, nil
}

// PublicSettings returns settings keyed by name with values decoded by
// their type. A value that fails to decode is served raw.
func (s *SiteService) PublicSettings(ctx context.Context) (map[string]any, error) {
	items, err := s.settings.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(items))
	for i := range items {
		v, err := items[i].Typed()
		if err != nil {
			slog.WarnContext(ctx, "setting value does not match its type", "key", items[i].Key, "error", err)
			v = items[i].Value
		}
		out[items[i].Key] = v
	}
	return out, nil
}

// PutSetting creates or replaces a setting after checking that the value
// parses as its declared type.
func (s *SiteService) PutSetting(ctx context.Context, key string, in SettingInput) (*models.SiteSetting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, missing("key")
	}
	if !settingKey.MatchString(key) {
		return nil, invalid("key", "must be lowercase letters, digits, dots or underscores")
	}
	if in.Type == "" {
		in.Type = models.SettingText
	}
	if !in.Type.Valid() {
		return nil, invalid("type", "must be one of text, number, boolean, json")
	}

	item := &models.SiteSetting{Key: key, Value: in.Value, Type: in.Type, Description: in.Description}
	if _, err := item.Typed(); err != nil {
		return nil, invalid("value", err.Error())
	}
	saved, err := s.settings.Upsert(ctx, item)
	if err != nil {
		return nil, err
	}
	slog.Info("setting saved", "key", key, "type", in.Type)
	return saved, nil
}

// DeleteSetting removes a setting by key.
func (s *SiteService) DeleteSetting(ctx context.Context, key string) error {
	ok, err := s.settings.Delete(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// ListPages returns the names of pages that have content.
func (s *SiteService) ListPages(ctx context.Context) ([]string, error) {
	pages, err := s.pages.ListPages(ctx)
	if err != nil {
		return nil, err
	}
	if pages == nil {
		pages = []string{}
	}
	return pages, nil
}

// PageContent returns the raw blocks of one page.
func (s *SiteService) PageContent(ctx context.Context, page string) ([]models.PageContent, error) {
	rows, err := s.pages.ListByPage(ctx, page)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.PageContent{}
	}
	return rows, nil
}

// PageSections returns one page grouped as section -> key -> content.
// A page without blocks is not found.
func (s *SiteService) PageSections(ctx context.Context, page string) (models.PageSections, error) {
	rows, err := s.pages.ListByPage(ctx, page)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return models.GroupPageContent(rows), nil
}

// PutPageContent creates or replaces the block at page/section/key.
func (s *SiteService) PutPageContent(ctx context.Context, in models.PageContent) (*models.PageContent, error) {
	in.Page = strings.TrimSpace(in.Page)
	in.Section = strings.TrimSpace(in.Section)
	in.Key = strings.TrimSpace(in.Key)
	switch {
	case in.Page == "":
		return nil, missing("page")
	case in.Section == "":
		return nil, missing("section")
	case in.Key == "":
		return nil, missing("key")
	}
	if in.Type == "" {
		in.Type = models.PageContentText
	}
	if !in.Type.Valid() {
		return nil, invalid("type", "must be one of text, html, json")
	}
	in.ID = 0
	return s.pages.Upsert(ctx, &in)
}

// DeletePageContent removes a block by id.
func (s *SiteService) DeletePageContent(ctx context.Context, id int64) error {
	ok, err := s.pages.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// ListServicePages returns service pages in display order.
func (s *SiteService) ListServicePages(ctx context.Context, activeOnly bool) ([]models.ServicePage, error) {
	items, err := s.services.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.ServicePage{}
	}
	return items, nil
}

// GetServicePage returns a service page by id.
func (s *SiteService) GetServicePage(ctx context.Context, id int64) (*models.ServicePage, error) {
	sp, err := s.services.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return nil, ErrNotFound
	}
	return sp, nil
}

// GetServicePageBySlug resolves a service page; with activeOnly an inactive
// page is not found.
func (s *SiteService) GetServicePageBySlug(ctx context.Context, sl string, activeOnly bool) (*models.ServicePage, error) {
	sp, err := s.services.FindBySlug(ctx, sl)
	if err != nil {
		return nil, err
	}
	if sp == nil || (activeOnly && !sp.Active) {
		return nil, ErrNotFound
	}
	return sp, nil
}

// CreateServicePage inserts a service page. An empty slug is derived from
// the title.
func (s *SiteService) CreateServicePage(ctx context.Context, in models.ServicePage) (*models.ServicePage, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, missing("title")
	}
	in.Slug = slug.Generate(in.Slug)
	if in.Slug == "" {
		in.Slug = slug.Generate(in.Title)
	}
	if in.Slug == "" {
		return nil, missing("slug")
	}
	if err := s.checkServiceSlug(ctx, in.Slug, 0); err != nil {
		return nil, err
	}

	in.ID = 0
	created, err := s.services.Create(ctx, &in)
	if err != nil {
		return nil, serviceWriteError(in.Slug, err)
	}
	slog.Info("service page created", "id", created.ID, "slug", created.Slug)
	return created, nil
}

// UpdateServicePage merges the supplied fields.
func (s *SiteService) UpdateServicePage(ctx context.Context, id int64, p models.ServicePagePatch) (*models.ServicePage, error) {
	sp, err := s.services.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return nil, ErrNotFound
	}
	if p.Title != nil {
		*p.Title = strings.TrimSpace(*p.Title)
		if *p.Title == "" {
			return nil, missing("title")
		}
	}
	if err := normalizeSlug(p.Slug); err != nil {
		return nil, err
	}
	p.Apply(sp)
	if p.Slug != nil {
		if err := s.checkServiceSlug(ctx, sp.Slug, sp.ID); err != nil {
			return nil, err
		}
	}

	updated, err := s.services.Update(ctx, sp)
	if err != nil {
		return nil, serviceWriteError(sp.Slug, err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// DeleteServicePage removes a service page.
func (s *SiteService) DeleteServicePage(ctx context.Context, id int64) error {
	ok, err := s.services.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *SiteService) checkServiceSlug(ctx context.Context, sl string, excludeID int64) error {
	taken, err := s.services.SlugExists(ctx, sl, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return &DuplicateSlugError{
			Entity:     "service",
			Slug:       sl,
			Suggestion: suggest(ctx, sl, func(c string) (bool, error) { return s.services.SlugExists(ctx, c, 0) }),
		}
	}
	return nil
}

func serviceWriteError(sl string, err error) error {
	if errors.Is(err, models.ErrDuplicateKey) {
		return &DuplicateSlugError{Entity: "service", Slug: sl, Suggestion: slug.Suggest(sl)}
	}
	return err
}
