package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biocms/internal/mocks"
	"biocms/internal/models"
	"biocms/internal/service"
)

type fixture struct {
	db       *mocks.DB
	denylist *mocks.Denylist
	tokens   *Tokens
	svc      *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := mocks.NewDB()
	dl := mocks.NewDenylist()
	tokens := NewTokens(testSecret, time.Hour)
	return &fixture{db: db, denylist: dl, tokens: tokens, svc: NewService(db.Admins(), tokens, dl)}
}

func (f *fixture) admin(t *testing.T, email, password string, role models.Role) *models.Admin {
	t.Helper()
	a, err := f.db.Admins().Create(context.Background(), email, password, "Test "+string(role), role)
	require.NoError(t, err)
	return a
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.admin(t, "lab@biocms.local", "correct-horse", models.RoleAdmin)

	sess, err := f.svc.Login(ctx, "LAB@biocms.local", "correct-horse", "")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, a.ID, sess.Admin.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), sess.ExpiresAt, 5*time.Second)

	stored, err := f.db.Admins().FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt, "login should record last_login_at")

	claims, err := f.tokens.Parse(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, a.ID.String(), claims.Subject)
}

func TestLoginFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.admin(t, "lab@biocms.local", "correct-horse", models.RoleAdmin)
	off := f.admin(t, "off@biocms.local", "correct-horse", models.RoleAdmin)
	require.NoError(t, f.db.Admins().SetActive(ctx, off.ID, false))

	tests := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{name: "wrong password", email: "lab@biocms.local", password: "battery-staple", want: ErrInvalidCredentials},
		{name: "unknown email", email: "ghost@biocms.local", password: "correct-horse", want: ErrInvalidCredentials},
		{name: "empty email", email: "", password: "correct-horse", want: ErrInvalidCredentials},
		{name: "empty password", email: "lab@biocms.local", password: "", want: ErrInvalidCredentials},
		{name: "inactive account", email: "off@biocms.local", password: "correct-horse", want: ErrAccountInactive},
		{name: "inactive wrong password", email: "off@biocms.local", password: "nope", want: ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, err := f.svc.Login(ctx, tt.email, tt.password, "")
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, sess)
		})
	}
}

func TestLoginRepositoryError(t *testing.T) {
	f := newFixture(t)
	f.db.Err = errors.New("connection refused")
	_, err := f.svc.Login(context.Background(), "lab@biocms.local", "pw", "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginWithTOTP(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.admin(t, "secure@biocms.local", "correct-horse", models.RoleAdmin)
	id := &Identity{AdminID: a.ID}

	setup, err := f.svc.SetupTOTP(ctx, id)
	require.NoError(t, err)
	assert.NotEmpty(t, setup.Secret)
	assert.NotEmpty(t, setup.QRCode)
	assert.Contains(t, setup.URL, "otpauth://totp/")

	// Not enforced until enabled.
	_, err = f.svc.Login(ctx, "secure@biocms.local", "correct-horse", "")
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.EnableTOTP(ctx, id, "000000x"), ErrInvalidCode)

	code, err := totp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, f.svc.EnableTOTP(ctx, id, code))

	_, err = f.svc.Login(ctx, "secure@biocms.local", "correct-horse", "")
	assert.ErrorIs(t, err, ErrTOTPRequired)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, "secure@biocms.local", "correct-horse", "12345x")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	code, err = totp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)
	sess, err := f.svc.Login(ctx, "secure@biocms.local", "correct-horse", code)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
}

func TestEnableTOTPWithoutSetup(t *testing.T) {
	f := newFixture(t)
	a := f.admin(t, "lab@biocms.local", "correct-horse", models.RoleAdmin)
	err := f.svc.EnableTOTP(context.Background(), &Identity{AdminID: a.ID}, "123456")
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.admin(t, "lab@biocms.local", "correct-horse", models.RoleSuperAdmin)
	sess, err := f.svc.Login(ctx, a.Email, "correct-horse", "")
	require.NoError(t, err)

	id, err := f.svc.Authenticate(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, a.ID, id.AdminID)
	assert.Equal(t, models.RoleSuperAdmin, id.Role)
	assert.NotEmpty(t, id.TokenID)
}

func TestAuthenticateFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("no token", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Authenticate(ctx, "")
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("unknown admin", func(t *testing.T) {
		f := newFixture(t)
		raw, _, err := f.tokens.Issue(testAdmin())
		require.NoError(t, err)
		_, err = f.svc.Authenticate(ctx, raw)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("inactive admin", func(t *testing.T) {
		f := newFixture(t)
		a := f.admin(t, "lab@biocms.local", "correct-horse", models.RoleAdmin)
		raw, _, err := f.tokens.Issue(a)
		require.NoError(t, err)
		require.NoError(t, f.db.Admins().SetActive(ctx, a.ID, false))
		_, err = f.svc.Authenticate(ctx, raw)
		assert.ErrorIs(t, err, ErrAccountInactive)
	})

	t.Run("expired token fails regardless of account state", func(t *testing.T) {
		for _, active := range []bool{true, false} {
			f := newFixture(t)
			a := f.admin(t, "lab@biocms.local", "correct-horse", models.RoleAdmin)
			require.NoError(t, f.db.Admins().SetActive(ctx, a.ID, active))

			old := NewTokens(testSecret, time.Hour)
			old.now = func() time.Time { return time.Now().Add(-3 * time.Hour) }
			raw, _, err := old.Issue(a)
			require.NoError(t, err)

			_, err = f.svc.Authenticate(ctx, raw)
			assert.ErrorIs(t, err, ErrTokenExpired, "active=%v", active)
		}
	})

	t.Run("expired token never reaches the repository", func(t *testing.T) {
		f := newFixture(t)
		a := f.admin(t, "lab@biocms.local", "correct-horse", models.RoleAdmin)
		old := NewTokens(testSecret, time.Hour)
		old.now = func() time.Time { return time.Now().Add(-3 * time.Hour) }
		raw, _, err := old.Issue(a)
		require.NoError(t, err)

		f.db.Err = errors.New("database down")
		_, err = f.svc.Authenticate(ctx, raw)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("demoted role applies immediately", func(t *testing.T) {
		f := newFixture(t)
		a := f.admin(t, "lab@biocms.local", "correct-horse", models.RoleAdmin)
		a.Role = models.RoleSuperAdmin
		raw, _, err := f.tokens.Issue(a)
		require.NoError(t, err)
		id, err := f.svc.Authenticate(ctx, raw)
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, id.Role)
	})
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.admin(t, "lab@biocms.local", "correct-horse", models.RoleAdmin)
	sess, err := f.svc.Login(ctx, a.Email, "correct-horse", "")
	require.NoError(t, err)

	id, err := f.svc.Authenticate(ctx, sess.Token)
	require.NoError(t, err)
	require.NoError(t, f.svc.Logout(ctx, id))

	ttl := f.denylist.TTL(id.TokenID)
	assert.Greater(t, ttl, 59*time.Minute)
	assert.LessOrEqual(t, ttl, time.Hour)

	_, err = f.svc.Authenticate(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// A fresh login is unaffected.
	again, err := f.svc.Login(ctx, a.Email, "correct-horse", "")
	require.NoError(t, err)
	_, err = f.svc.Authenticate(ctx, again.Token)
	assert.NoError(t, err)
}

func TestLogoutWithoutDenylist(t *testing.T) {
	db := mocks.NewDB()
	svc := NewService(db.Admins(), NewTokens(testSecret, time.Hour), nil)
	err := svc.Logout(context.Background(), &Identity{TokenID: "x", ExpiresAt: time.Now().Add(time.Hour)})
	assert.NoError(t, err)
	assert.ErrorIs(t, svc.Logout(context.Background(), nil), ErrUnauthenticated)
}

func TestAuthenticateDenylistError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.admin(t, "lab@biocms.local", "correct-horse", models.RoleAdmin)
	raw, _, err := f.tokens.Issue(a)
	require.NoError(t, err)

	f.denylist.Err = errors.New("valkey down")
	_, err = f.svc.Authenticate(ctx, raw)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthorizeRole(t *testing.T) {
	tests := []struct {
		name     string
		id       *Identity
		required models.Role
		want     error
	}{
		{name: "admin as admin", id: &Identity{Role: models.RoleAdmin}, required: models.RoleAdmin},
		{name: "super as admin", id: &Identity{Role: models.RoleSuperAdmin}, required: models.RoleAdmin},
		{name: "super as super", id: &Identity{Role: models.RoleSuperAdmin}, required: models.RoleSuperAdmin},
		{name: "admin as super", id: &Identity{Role: models.RoleAdmin}, required: models.RoleSuperAdmin, want: ErrForbidden},
		{name: "unknown role", id: &Identity{Role: "viewer"}, required: models.RoleAdmin, want: ErrForbidden},
		{name: "no identity", id: nil, required: models.RoleAdmin, want: ErrUnauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AuthorizeRole(tt.id, tt.required)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestCreateAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.svc.CreateAdmin(ctx, AdminInput{
		Email:    "  New@BioCMS.local ",
		Password: "long-enough",
		Name:     "New Editor",
	})
	require.NoError(t, err)
	assert.Equal(t, "new@biocms.local", a.Email)
	assert.Equal(t, models.RoleAdmin, a.Role)
	assert.True(t, a.Active)

	_, err = f.svc.Login(ctx, "new@biocms.local", "long-enough", "")
	assert.NoError(t, err)

	_, err = f.svc.CreateAdmin(ctx, AdminInput{Email: "new@biocms.local", Password: "long-enough", Name: "Dup"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	admins, err := f.svc.ListAdmins(ctx)
	require.NoError(t, err)
	assert.Len(t, admins, 1)
}

func TestCreateAdminValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		in    AdminInput
		field string
	}{
		{name: "missing email", in: AdminInput{Password: "long-enough", Name: "x"}, field: "email"},
		{name: "missing password", in: AdminInput{Email: "a@b.co", Name: "x"}, field: "password"},
		{name: "missing name", in: AdminInput{Email: "a@b.co", Password: "long-enough"}, field: "name"},
		{name: "bad email", in: AdminInput{Email: "not-an-email", Password: "long-enough", Name: "x"}, field: "email"},
		{name: "short password", in: AdminInput{Email: "a@b.co", Password: "short", Name: "x"}, field: "password"},
		{name: "bad role", in: AdminInput{Email: "a@b.co", Password: "long-enough", Name: "x", Role: "owner"}, field: "role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateAdmin(ctx, tt.in)
			require.Error(t, err)
			var missing *service.MissingFieldError
			var invalid *service.ValidationError
			switch {
			case errors.As(err, &missing):
				assert.Equal(t, tt.field, missing.Field)
			case errors.As(err, &invalid):
				assert.Equal(t, tt.field, invalid.Field)
			default:
				t.Fatalf("unexpected error type %T: %v", err, err)
			}
		})
	}
	admins, err := f.svc.ListAdmins(ctx)
	require.NoError(t, err)
	assert.Empty(t, admins)
}

func TestSetAdminActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	boss := f.admin(t, "boss@biocms.local", "correct-horse", models.RoleSuperAdmin)
	editor := f.admin(t, "editor@biocms.local", "correct-horse", models.RoleAdmin)
	actor := &Identity{AdminID: boss.ID, Role: models.RoleSuperAdmin}

	updated, err := f.svc.SetAdminActive(ctx, actor, editor.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.Active)

	_, err = f.svc.Login(ctx, editor.Email, "correct-horse", "")
	assert.ErrorIs(t, err, ErrAccountInactive)

	_, err = f.svc.SetAdminActive(ctx, actor, boss.ID, false)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.SetAdminActive(ctx, actor, uuid.New(), true)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestValidateCode(t *testing.T) {
	key, err := totp.Generate(totp.GenerateOpts{Issuer: TOTPIssuer, AccountName: "x@biocms.local"})
	require.NoError(t, err)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	code, err := totp.GenerateCode(key.Secret(), at)
	require.NoError(t, err)

	assert.True(t, ValidateCode(code, key.Secret(), at))
	assert.True(t, ValidateCode(code, key.Secret(), at.Add(30*time.Second)), "one step of skew")
	assert.False(t, ValidateCode(code, key.Secret(), at.Add(5*time.Minute)))
	assert.False(t, ValidateCode("abc", key.Secret(), at))
}
