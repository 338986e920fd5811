package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biocms/internal/models"
)

const testSecret = "test-secret-at-least-32-bytes-long!!"

func testAdmin() *models.Admin {
	return &models.Admin{
		ID:     uuid.New(),
		Email:  "editor@biocms.local",
		Name:   "Editor",
		Role:   models.RoleAdmin,
		Active: true,
	}
}

func TestTokensIssueAndParse(t *testing.T) {
	tokens := NewTokens(testSecret, 0)
	a := testAdmin()

	raw, issued, err := tokens.Issue(a)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, a.ID.String(), claims.Subject)
	assert.Equal(t, a.Role, claims.Role)
	assert.Equal(t, a.Email, claims.Email)
	assert.Equal(t, Issuer, claims.Issuer)
	assert.Equal(t, issued.ID, claims.ID)
	_, err = uuid.Parse(claims.ID)
	assert.NoError(t, err, "token id should be a uuid")

	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	assert.Equal(t, DefaultTokenTTL, lifetime)
}

func TestTokensUniqueIDs(t *testing.T) {
	tokens := NewTokens(testSecret, time.Hour)
	a := testAdmin()

	_, first, err := tokens.Issue(a)
	require.NoError(t, err)
	_, second, err := tokens.Issue(a)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestTokensParseExpired(t *testing.T) {
	old := NewTokens(testSecret, time.Hour)
	old.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	raw, _, err := old.Issue(testAdmin())
	require.NoError(t, err)

	_, err = NewTokens(testSecret, time.Hour).Parse(raw)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokensParseRejects(t *testing.T) {
	tokens := NewTokens(testSecret, time.Hour)
	a := testAdmin()

	otherKey, _, err := NewTokens("another-secret-entirely-different!!", time.Hour).Issue(a)
	require.NoError(t, err)

	claims := &Claims{
		Role: models.RoleSuperAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   a.ID.String(),
			Issuer:    Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	hs384, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	claims.Issuer = "someone-else"
	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	claims.Issuer = Issuer
	claims.ExpiresAt = nil
	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "garbage", raw: "not.a.token"},
		{name: "wrong secret", raw: otherKey},
		{name: "alg none", raw: none},
		{name: "other hmac alg", raw: hs384},
		{name: "foreign issuer", raw: foreign},
		{name: "no expiry", raw: noExpiry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tokens.Parse(tt.raw)
			assert.ErrorIs(t, err, ErrUnauthenticated)
		})
	}
}
