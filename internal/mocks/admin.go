// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package mocks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"biocms/internal/models"
)

// AdminRepository is the in-memory admins table. Passwords are hashed with
// bcrypt.MinCost to keep tests fast.
type AdminRepository struct{ d *DB }

func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return nil, r.d.Err
	}
	email = strings.ToLower(email)
	for _, a := range r.d.admins {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *AdminRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return nil, r.d.Err
	}
	if a, ok := r.d.admins[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (r *AdminRepository) List(ctx context.Context) ([]models.Admin, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return nil, r.d.Err
	}
	var out []models.Admin
	for _, a := range r.d.admins {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *AdminRepository) Create(ctx context.Context, email, password, name string, role models.Role) (*models.Admin, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return nil, r.d.Err
	}
	email = strings.ToLower(email)
	for _, a := range r.d.admins {
		if a.Email == email {
			return nil, fmt.Errorf("create admin: %w", models.ErrDuplicateKey)
		}
	}
	// Nanosecond offsets keep creation order stable for List.
	t := now().Add(time.Duration(len(r.d.admins)))
	a := &models.Admin{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Active:       true,
		CreatedAt:    t,
		UpdatedAt:    t,
	}
	r.d.admins[a.ID] = a
	cp := *a
	return &cp, nil
}

// update applies fn to the admin with id under the lock.
func (r *AdminRepository) update(id uuid.UUID, fn func(a *models.Admin)) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.Err != nil {
		return r.d.Err
	}
	if a, ok := r.d.admins[id]; ok {
		fn(a)
		a.UpdatedAt = now()
	}
	return nil
}

func (r *AdminRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.update(id, func(a *models.Admin) { a.Active = active })
}

func (r *AdminRepository) TouchLogin(ctx context.Context, id uuid.UUID) error {
	return r.update(id, func(a *models.Admin) {
		t := now()
		a.LastLoginAt = &t
	})
}

func (r *AdminRepository) SetTOTPSecret(ctx context.Context, id uuid.UUID, secret string) error {
	return r.update(id, func(a *models.Admin) { a.TOTPSecret = &secret })
}

func (r *AdminRepository) EnableTOTP(ctx context.Context, id uuid.UUID) error {
	return r.update(id, func(a *models.Admin) { a.TOTPEnabled = true })
}

func (r *AdminRepository) ResetTOTP(ctx context.Context, id uuid.UUID) error {
	return r.update(id, func(a *models.Admin) {
		a.TOTPSecret = nil
		a.TOTPEnabled = false
	})
}

// Denylist is an in-memory token denylist.
type Denylist struct {
	mu      sync.Mutex
	revoked map[string]time.Duration

	// Err, when set, is returned by every call.
	Err error
}

// NewDenylist returns an empty denylist.
func NewDenylist() *Denylist {
	return &Denylist{revoked: make(map[string]time.Duration)}
}

func (d *Denylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}
	d.revoked[tokenID] = ttl
	return nil
}

func (d *Denylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return false, d.Err
	}
	_, ok := d.revoked[tokenID]
	return ok, nil
}

// TTL returns the ttl a token was revoked with, or zero.
func (d *Denylist) TTL(tokenID string) time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.revoked[tokenID]
}
