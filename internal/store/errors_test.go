// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"biocms/internal/models"
)

func TestWrapWriteError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "unique", err: &pgconn.PgError{Code: "23505", ConstraintName: "categories_slug_key"}, want: models.ErrDuplicateKey},
		{name: "foreign key", err: &pgconn.PgError{Code: "23503"}, want: models.ErrMissingReference},
		{name: "too long", err: &pgconn.PgError{Code: "22001"}, want: models.ErrValueTooLong},
		{name: "gorm duplicate", err: gorm.ErrDuplicatedKey, want: models.ErrDuplicateKey},
		{name: "gorm foreign key", err: gorm.ErrForeignKeyViolated, want: models.ErrMissingReference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapWriteError("create category", tt.err)
			if !errors.Is(got, tt.want) {
				t.Errorf("wrapWriteError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}

	other := errors.New("connection reset")
	got := wrapWriteError("create category", other)
	if !errors.Is(got, other) {
		t.Errorf("unmapped error lost: %v", got)
	}
	for _, sentinel := range []error{models.ErrDuplicateKey, models.ErrMissingReference, models.ErrValueTooLong} {
		if errors.Is(got, sentinel) {
			t.Errorf("unmapped error matched %v", sentinel)
		}
	}
}
