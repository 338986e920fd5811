// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package auth is the admin authentication gate: password and TOTP login,
// signed session tokens, revocation and role checks.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"biocms/internal/models"
	"biocms/internal/service"
)

// MinPasswordLength is the shortest password accepted for a new admin.
const MinPasswordLength = 8

// AdminRepository is the admin account storage the gate depends on.
type AdminRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Admin, error)
	List(ctx context.Context) ([]models.Admin, error)
	Create(ctx context.Context, email, password, name string, role models.Role) (*models.Admin, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	TouchLogin(ctx context.Context, id uuid.UUID) error
	SetTOTPSecret(ctx context.Context, id uuid.UUID, secret string) error
	EnableTOTP(ctx context.Context, id uuid.UUID) error
	ResetTOTP(ctx context.Context, id uuid.UUID) error
}

// Denylist records revoked token ids until they would have expired anyway.
type Denylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Identity is the authenticated admin attached to a request.
type Identity struct {
	AdminID   uuid.UUID
	Email     string
	Name      string
	Role      models.Role
	TokenID   string
	ExpiresAt time.Time
}

// Session is the result of a successful login.
type Session struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	Admin     *models.Admin `json:"admin"`
}

// Service implements login, token authentication and admin account management.
type Service struct {
	admins   AdminRepository
	tokens   *Tokens
	denylist Denylist
	now      func() time.Time
}

// NewService creates the gate. denylist may be nil, in which case logout
// cannot revoke tokens and they live until expiry.
func NewService(admins AdminRepository, tokens *Tokens, denylist Denylist) *Service {
	return &Service{admins: admins, tokens: tokens, denylist: denylist, now: time.Now}
}

// dummyHash is compared against when the email is unknown so that unknown
// and known accounts take similar time.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("biocms-dummy-password"), bcrypt.MinCost)

// Login verifies the credentials and issues a session token. code is the
// TOTP code and is only consulted when the account has 2FA enabled.
func (s *Service) Login(ctx context.Context, email, password, code string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	admin, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if admin == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !admin.Active {
		return nil, ErrAccountInactive
	}
	if admin.Requires2FA() {
		code = strings.TrimSpace(code)
		if code == "" {
			return nil, ErrTOTPRequired
		}
		if !ValidateCode(code, *admin.TOTPSecret, s.now()) {
			return nil, ErrInvalidCredentials
		}
	}

	token, claims, err := s.tokens.Issue(admin)
	if err != nil {
		return nil, err
	}
	if err := s.admins.TouchLogin(ctx, admin.ID); err != nil {
		slog.Warn("record login time failed", "admin_id", admin.ID, "error", err)
	}
	slog.Info("admin logged in", "admin_id", admin.ID, "email", admin.Email)

	return &Session{Token: token, ExpiresAt: claims.ExpiresAt.Time, Admin: admin}, nil
}

// Authenticate resolves a raw token into an Identity. Expiry is checked
// before the account is looked up, so an expired token fails regardless of
// the account's state. The role comes from the stored account, not the
// token, so demotions apply immediately.
func (s *Service) Authenticate(ctx context.Context, raw string) (*Identity, error) {
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return nil, err
	}

	if s.denylist != nil {
		revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check token revocation: %w", err)
		}
		if revoked {
			return nil, ErrUnauthenticated
		}
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	admin, err := s.admins.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if admin == nil {
		return nil, ErrUnauthenticated
	}
	if !admin.Active {
		return nil, ErrAccountInactive
	}

	return &Identity{
		AdminID:   admin.ID,
		Email:     admin.Email,
		Name:      admin.Name,
		Role:      admin.Role,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Logout revokes the identity's token for the rest of its lifetime.
func (s *Service) Logout(ctx context.Context, id *Identity) error {
	if id == nil {
		return ErrUnauthenticated
	}
	if s.denylist == nil {
		return nil
	}
	ttl := id.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.denylist.Revoke(ctx, id.TokenID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// AuthorizeRole returns ErrForbidden unless the identity holds a role
// that satisfies required.
func AuthorizeRole(id *Identity, required models.Role) error {
	if id == nil {
		return ErrUnauthenticated
	}
	if !id.Role.Satisfies(required) {
		return ErrForbidden
	}
	return nil
}

// Me returns the stored account behind an identity.
func (s *Service) Me(ctx context.Context, id *Identity) (*models.Admin, error) {
	if id == nil {
		return nil, ErrUnauthenticated
	}
	admin, err := s.admins.FindByID(ctx, id.AdminID)
	if err != nil {
		return nil, fmt.Errorf("load admin: %w", err)
	}
	if admin == nil {
		return nil, ErrUnauthenticated
	}
	return admin, nil
}

// ListAdmins returns all admin accounts.
func (s *Service) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	admins, err := s.admins.List(ctx)
	if err != nil {
		return nil, err
	}
	if admins == nil {
		admins = []models.Admin{}
	}
	return admins, nil
}

// AdminInput is the payload for creating an admin account.
type AdminInput struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Name     string      `json:"name"`
	Role     models.Role `json:"role"`
}

// CreateAdmin validates and stores a new account. An empty role means admin.
func (s *Service) CreateAdmin(ctx context.Context, in AdminInput) (*models.Admin, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if in.Email == "" {
		return nil, &service.MissingFieldError{Field: "email"}
	}
	if in.Password == "" {
		return nil, &service.MissingFieldError{Field: "password"}
	}
	if in.Name == "" {
		return nil, &service.MissingFieldError{Field: "name"}
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, &service.ValidationError{Field: "email", Message: "must be a valid email address"}
	}
	if len(in.Password) < MinPasswordLength {
		return nil, &service.ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("must be at least %d characters", MinPasswordLength),
		}
	}
	if in.Role == "" {
		in.Role = models.RoleAdmin
	}
	if !in.Role.Valid() {
		return nil, &service.ValidationError{Field: "role", Message: "must be admin or super_admin"}
	}

	existing, err := s.admins.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check admin email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	admin, err := s.admins.Create(ctx, in.Email, in.Password, in.Name, in.Role)
	if errors.Is(err, models.ErrDuplicateKey) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}
	slog.Info("admin created", "admin_id", admin.ID, "email", admin.Email, "role", admin.Role)
	return admin, nil
}

// SetAdminActive enables or disables an account. An admin cannot disable
// their own account.
func (s *Service) SetAdminActive(ctx context.Context, actor *Identity, id uuid.UUID, active bool) (*models.Admin, error) {
	if actor != nil && actor.AdminID == id && !active {
		return nil, ErrForbidden
	}
	admin, err := s.admins.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load admin: %w", err)
	}
	if admin == nil {
		return nil, service.ErrNotFound
	}
	if err := s.admins.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	admin.Active = active
	slog.Info("admin active changed", "admin_id", id, "active", active)
	return admin, nil
}
