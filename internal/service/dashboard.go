// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"biocms/internal/models"
)

// DashboardService aggregates admin overview numbers.
type DashboardService struct {
	blogs         BlogRepository
	news          NewsBlogRepository
	categories    CategoryRepository
	subcategories SubcategoryRepository
	services      ServicePageRepository
}

// NewDashboardService returns a DashboardService over the given repositories.
func NewDashboardService(blogs BlogRepository, news NewsBlogRepository, categories CategoryRepository,
	subcategories SubcategoryRepository, services ServicePageRepository) *DashboardService {
	return &DashboardService{
		blogs:         blogs,
		news:          news,
		categories:    categories,
		subcategories: subcategories,
		services:      services,
	}
}

// Stats runs the independent count queries concurrently. The first failure
// cancels the rest.
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var st models.DashboardStats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		st.Blogs, err = s.blogs.Stats(ctx)
		return err
	})
	g.Go(func() (err error) {
		st.News, err = s.news.Stats(ctx)
		return err
	})
	g.Go(func() (err error) {
		st.Categories, err = s.categories.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		st.Subcategories, err = s.subcategories.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		st.ServicePages, err = s.services.Count(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	st.TotalViews = st.Blogs.Views + st.News.Views
	return &st, nil
}
