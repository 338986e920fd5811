package handlers

import (
	"errors"
	"strings"
	"testing"

	"biocms/internal/models"
	"biocms/internal/service"
)

func TestValidateBlogInput(t *testing.T) {
	tests := []struct {
		name      string
		in        service.BlogInput
		wantField string
	}{
		{name: "valid", in: service.BlogInput{Title: "Intro to NGS", Slug: "intro-ngs", Content: "<p>body</p>"}},
		{name: "empty fields allowed here", in: service.BlogInput{}},
		{name: "title too long", in: service.BlogInput{Title: strings.Repeat("a", maxTitleLen+1)}, wantField: "title"},
		{name: "slug too long", in: service.BlogInput{Slug: strings.Repeat("a", maxSlugLen+1)}, wantField: "slug"},
		{name: "excerpt too long", in: service.BlogInput{Excerpt: strings.Repeat("a", maxExcerptLen+1)}, wantField: "excerpt"},
		{name: "title at limit", in: service.BlogInput{Title: strings.Repeat("é", maxTitleLen)}},
		{name: "too many tags", in: service.BlogInput{Tags: make(models.StringList, maxTags+1)}, wantField: "tags"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateBlogInput(&tt.in)
			assertValidationField(t, err, tt.wantField)
		})
	}
}

func TestValidateNewsPatch(t *testing.T) {
	long := strings.Repeat("x", maxTitleLen+1)
	images := make(models.StringList, maxImages+1)

	assertValidationField(t, validateNewsPatch(&models.NewsBlogPatch{}), "")
	assertValidationField(t, validateNewsPatch(&models.NewsBlogPatch{Title: &long}), "title")
	assertValidationField(t, validateNewsPatch(&models.NewsBlogPatch{Images: &images}), "images")
}

func TestValidateNode(t *testing.T) {
	name := strings.Repeat("n", maxNameLen+1)
	desc := strings.Repeat("d", maxDescriptionLen+1)
	ok := "Genomics"

	assertValidationField(t, validateNode(&ok, nil, nil), "")
	assertValidationField(t, validateNode(&name, nil, nil), "name")
	assertValidationField(t, validateNode(&ok, &ok, &desc), "description")

	atLimit := strings.Repeat("s", maxShortSlugLen)
	overLimit := strings.Repeat("s", maxShortSlugLen+1)
	assertValidationField(t, validateNode(&ok, &atLimit, nil), "")
	assertValidationField(t, validateNode(&ok, &overLimit, nil), "slug")
}

func assertValidationField(t *testing.T, err error, wantField string) {
	t.Helper()
	if wantField == "" {
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		return
	}
	var ve *service.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want ValidationError on %s, got %v", wantField, err)
	}
	if ve.Field != wantField {
		t.Errorf("field = %q, want %q", ve.Field, wantField)
	}
}
