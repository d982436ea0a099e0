package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rosterhq/roster/internal/database/testutil"
	"github.com/rosterhq/roster/internal/models"
)

func newTestAdminUserService(t *testing.T) (*AdminUserService, *gorm.DB) {
	t.Helper()
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service, err := NewAdminUserService(db, nil)
	require.NoError(t, err)
	return service, db
}

func TestAdminUpdateAppliesOnlyProvidedFields(t *testing.T) {
	service, db := newTestAdminUserService(t)
	user := createTestUser(t, db, "alice@example.com")

	name := "Alice Renamed"
	projection, err := service.Update(context.Background(), user.ID, AdminUserUpdateInput{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "Alice Renamed", projection.Name)
	// Untouched fields keep their values.
	assert.Equal(t, "alice@example.com", projection.Email)
	require.NotNil(t, projection.Username)
	assert.Equal(t, "alice", *projection.Username)
	assert.Equal(t, "Etc/UTC", projection.TimeZone)
	assert.Equal(t, models.UserRoleUser, projection.Role)
}

func TestAdminUpdateAllFields(t *testing.T) {
	service, db := newTestAdminUserService(t)
	user := createTestUser(t, db, "bob@example.com")

	name := "Bob Builder"
	username := "bob-builder"
	email := "bob.builder@example.com"
	tz := "Europe/Paris"
	role := models.UserRoleAdmin
	projection, err := service.Update(context.Background(), user.ID, AdminUserUpdateInput{
		Name:     &name,
		Username: &username,
		Email:    &email,
		TimeZone: &tz,
		Role:     &role,
	})
	require.NoError(t, err)

	assert.Equal(t, name, projection.Name)
	require.NotNil(t, projection.Username)
	assert.Equal(t, username, *projection.Username)
	assert.Equal(t, email, projection.Email)
	assert.Equal(t, tz, projection.TimeZone)
	assert.Equal(t, models.UserRoleAdmin, projection.Role)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, email, reloaded.Email)
	assert.Equal(t, models.UserRoleAdmin, reloaded.Role)
}

func TestAdminUpdateEmptyInputIsNoOp(t *testing.T) {
	service, db := newTestAdminUserService(t)
	user := createTestUser(t, db, "carol@example.com")

	projection, err := service.Update(context.Background(), user.ID, AdminUserUpdateInput{})
	require.NoError(t, err)
	assert.Equal(t, user.Email, projection.Email)
	assert.Equal(t, user.Name, projection.Name)
}

func TestAdminUpdateAppliesExplicitEmptyString(t *testing.T) {
	service, db := newTestAdminUserService(t)
	user := createTestUser(t, db, "dave@example.com")

	// A pointed-to empty string clears the field, unlike a nil pointer.
	empty := ""
	projection, err := service.Update(context.Background(), user.ID, AdminUserUpdateInput{Name: &empty})
	require.NoError(t, err)
	assert.Empty(t, projection.Name)
}

func TestAdminUpdateUserNotFound(t *testing.T) {
	service, _ := newTestAdminUserService(t)

	name := "Ghost"
	_, err := service.Update(context.Background(), "00000000-0000-0000-0000-000000000000", AdminUserUpdateInput{Name: &name})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
