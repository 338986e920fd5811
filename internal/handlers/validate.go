// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"unicode/utf8"

	"biocms/internal/models"
	"biocms/internal/service"
)

// Validation limits for content and taxonomy fields. Required-field checks
// live in the services; these only bound sizes.
const (
	maxTitleLen       = 300
	maxSlugLen        = 300
	maxNameLen        = 200
	maxExcerptLen     = 1_000
	maxDescriptionLen = 2_000
	maxContentLen     = 1_000_000
	maxTags           = 50
	maxImages         = 20

	// Taxonomy nodes and service pages are stored in narrower columns.
	maxShortTitleLen = 255
	maxShortSlugLen  = 255
)

type lengthCheck struct {
	field string
	value *string
	max   int
}

// checkLengths returns a ValidationError for the first value over its limit.
// Nil values are skipped so patches can be checked with the same helper.
func checkLengths(checks ...lengthCheck) error {
	for _, c := range checks {
		if c.value == nil {
			continue
		}
		if utf8.RuneCountInString(*c.value) > c.max {
			return &service.ValidationError{
				Field:   c.field,
				Message: fmt.Sprintf("is too long (max %d characters)", c.max),
			}
		}
	}
	return nil
}

func checkList(field string, l *models.StringList, max int) error {
	if l != nil && len(*l) > max {
		return &service.ValidationError{Field: field, Message: fmt.Sprintf("has too many entries (max %d)", max)}
	}
	return nil
}

func validateBlogInput(in *service.BlogInput) error {
	if err := checkLengths(
		lengthCheck{"title", &in.Title, maxTitleLen},
		lengthCheck{"slug", &in.Slug, maxSlugLen},
		lengthCheck{"excerpt", &in.Excerpt, maxExcerptLen},
		lengthCheck{"content", &in.Content, maxContentLen},
	); err != nil {
		return err
	}
	return checkList("tags", &in.Tags, maxTags)
}

func validateBlogPatch(p *models.BlogPatch) error {
	if err := checkLengths(
		lengthCheck{"title", p.Title, maxTitleLen},
		lengthCheck{"slug", p.Slug, maxSlugLen},
		lengthCheck{"excerpt", p.Excerpt, maxExcerptLen},
		lengthCheck{"content", p.Content, maxContentLen},
	); err != nil {
		return err
	}
	return checkList("tags", p.Tags, maxTags)
}

func validateNewsInput(in *service.NewsBlogInput) error {
	if err := checkLengths(
		lengthCheck{"title", &in.Title, maxTitleLen},
		lengthCheck{"slug", &in.Slug, maxSlugLen},
		lengthCheck{"excerpt", &in.Excerpt, maxExcerptLen},
		lengthCheck{"content", &in.Content, maxContentLen},
	); err != nil {
		return err
	}
	if err := checkList("tags", &in.Tags, maxTags); err != nil {
		return err
	}
	return checkList("images", &in.Images, maxImages)
}

func validateNewsPatch(p *models.NewsBlogPatch) error {
	if err := checkLengths(
		lengthCheck{"title", p.Title, maxTitleLen},
		lengthCheck{"slug", p.Slug, maxSlugLen},
		lengthCheck{"excerpt", p.Excerpt, maxExcerptLen},
		lengthCheck{"content", p.Content, maxContentLen},
	); err != nil {
		return err
	}
	if err := checkList("tags", p.Tags, maxTags); err != nil {
		return err
	}
	return checkList("images", p.Images, maxImages)
}

func validateNode(name, sl, description *string) error {
	return checkLengths(
		lengthCheck{"name", name, maxNameLen},
		lengthCheck{"slug", sl, maxShortSlugLen},
		lengthCheck{"description", description, maxDescriptionLen},
	)
}
