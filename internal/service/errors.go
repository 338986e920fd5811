// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"errors"
	"fmt"

	"biocms/internal/models"
)

var (
	// ErrNotFound means the addressed row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidParent means a referenced category or subcategory does not
	// exist, or a subcategory does not belong to the given category.
	ErrInvalidParent = errors.New("invalid parent")
	// ErrInvalidCategory means a blog category outside the allowed set.
	ErrInvalidCategory = errors.New("invalid category")
)

// DuplicateSlugError is returned when a slug is already taken in its scope.
// Suggestion is an advisory alternative that was free at the time of the
// check.
type DuplicateSlugError struct {
	Entity     string
	Slug       string
	Suggestion string
}

func (e *DuplicateSlugError) Error() string {
	return fmt.Sprintf("%s slug %q already exists", e.Entity, e.Slug)
}

// MissingFieldError names a required input that was absent or empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// InvalidCategoryError carries the rejected blog category and the allowed set.
type InvalidCategoryError struct {
	Value   string
	Allowed []models.BlogCategory
}

func (e *InvalidCategoryError) Error() string {
	return fmt.Sprintf("invalid blog category %q", e.Value)
}

// Is lets errors.Is(err, ErrInvalidCategory) match.
func (e *InvalidCategoryError) Is(target error) bool {
	return target == ErrInvalidCategory
}

// ValidationError is a malformed input that is not a missing field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func missing(field string) error {
	return &MissingFieldError{Field: field}
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}
