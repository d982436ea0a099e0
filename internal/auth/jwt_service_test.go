package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterhq/roster/internal/models"
)

func testUser(role models.UserRole) *models.User {
	user := &models.User{Email: "alice@example.com", Role: role}
	user.ID = "11111111-1111-1111-1111-111111111111"
	return user
}

func TestJWTServiceRoundTrip(t *testing.T) {
	service, err := NewJWTService(JWTConfig{Secret: "test-secret", Issuer: "roster"})
	require.NoError(t, err)

	token, err := service.GenerateAccessToken(testUser(models.UserRoleAdmin))
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", claims.UserID)
	assert.Equal(t, models.UserRoleAdmin, claims.Role)
	assert.True(t, claims.IsPlatformAdmin())
	assert.Equal(t, "roster", claims.Issuer)
}

func TestJWTServiceRejectsExpiredToken(t *testing.T) {
	issuedAt := time.Now().Add(-time.Hour)
	issuing, err := NewJWTService(JWTConfig{
		Secret:         "test-secret",
		AccessTokenTTL: time.Minute,
		Clock:          func() time.Time { return issuedAt },
	})
	require.NoError(t, err)

	token, err := issuing.GenerateAccessToken(testUser(models.UserRoleUser))
	require.NoError(t, err)

	validating, err := NewJWTService(JWTConfig{Secret: "test-secret"})
	require.NoError(t, err)

	_, err = validating.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTServiceRejectsWrongSecret(t *testing.T) {
	issuing, err := NewJWTService(JWTConfig{Secret: "secret-a"})
	require.NoError(t, err)
	validating, err := NewJWTService(JWTConfig{Secret: "secret-b"})
	require.NoError(t, err)

	token, err := issuing.GenerateAccessToken(testUser(models.UserRoleUser))
	require.NoError(t, err)

	_, err = validating.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTServiceRejectsWrongIssuer(t *testing.T) {
	issuing, err := NewJWTService(JWTConfig{Secret: "test-secret", Issuer: "someone-else"})
	require.NoError(t, err)
	validating, err := NewJWTService(JWTConfig{Secret: "test-secret", Issuer: "roster"})
	require.NoError(t, err)

	token, err := issuing.GenerateAccessToken(testUser(models.UserRoleUser))
	require.NoError(t, err)

	_, err = validating.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTServiceRequiresSecret(t *testing.T) {
	_, err := NewJWTService(JWTConfig{})
	assert.Error(t, err)
}

func TestJWTServiceRequiresUser(t *testing.T) {
	service, err := NewJWTService(JWTConfig{Secret: "test-secret"})
	require.NoError(t, err)

	_, err = service.GenerateAccessToken(nil)
	assert.Error(t, err)
}
