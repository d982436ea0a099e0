package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rosterhq/roster/internal/database/testutil"
	"github.com/rosterhq/roster/internal/models"
)

func newTestMembershipQueries(t *testing.T) (*MembershipQueries, *gorm.DB) {
	t.Helper()
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	queries, err := NewMembershipQueries(db)
	require.NoError(t, err)
	return queries, db
}

func addMembership(t *testing.T, db *gorm.DB, user *models.User, team *models.Team, role models.MembershipRole, accepted bool) *models.Membership {
	t.Helper()
	membership := &models.Membership{
		UserID:   user.ID,
		TeamID:   team.ID,
		Role:     role,
		Accepted: accepted,
	}
	require.NoError(t, db.Create(membership).Error)
	return membership
}

func TestMembershipQueriesFixedRoles(t *testing.T) {
	queries, db := newTestMembershipQueries(t)
	team := createTestTeam(t, db, "Acme")
	owner := createTestUser(t, db, "owner@example.com")
	admin := createTestUser(t, db, "admin@example.com")
	member := createTestUser(t, db, "member@example.com")
	outsider := createTestUser(t, db, "outsider@example.com")

	addMembership(t, db, owner, team, models.MembershipRoleOwner, true)
	addMembership(t, db, admin, team, models.MembershipRoleAdmin, true)
	addMembership(t, db, member, team, models.MembershipRoleMember, true)

	ctx := context.Background()

	for _, tc := range []struct {
		user                       *models.User
		isMember, isAdmin, isOwner bool
	}{
		{owner, true, true, true},
		{admin, true, true, false},
		{member, true, false, false},
		{outsider, false, false, false},
	} {
		isMember, err := queries.IsTeamMember(ctx, tc.user.ID, team.ID)
		require.NoError(t, err)
		assert.Equal(t, tc.isMember, isMember, tc.user.Email)

		isAdmin, err := queries.IsTeamAdmin(ctx, tc.user.ID, team.ID)
		require.NoError(t, err)
		assert.Equal(t, tc.isAdmin, isAdmin, tc.user.Email)

		isOwner, err := queries.IsTeamOwner(ctx, tc.user.ID, team.ID)
		require.NoError(t, err)
		assert.Equal(t, tc.isOwner, isOwner, tc.user.Email)
	}
}

func TestMembershipQueriesIgnorePendingRows(t *testing.T) {
	queries, db := newTestMembershipQueries(t)
	team := createTestTeam(t, db, "Acme")
	invited := createTestUser(t, db, "invited@example.com")
	addMembership(t, db, invited, team, models.MembershipRoleAdmin, false)

	ctx := context.Background()

	isMember, err := queries.IsTeamMember(ctx, invited.ID, team.ID)
	require.NoError(t, err)
	assert.False(t, isMember, "pending invites grant nothing")

	isAdmin, err := queries.IsTeamAdmin(ctx, invited.ID, team.ID)
	require.NoError(t, err)
	assert.False(t, isAdmin)
}

func TestMembershipQueriesCustomRoleCapabilities(t *testing.T) {
	queries, db := newTestMembershipQueries(t)
	team := createTestTeam(t, db, "Acme")
	user := createTestUser(t, db, "custom@example.com")

	role := &models.TeamRole{
		TeamID:       team.ID,
		Name:         "People Lead",
		Capabilities: datatypes.JSON(`["members.manage"]`),
	}
	require.NoError(t, db.Create(role).Error)

	membership := addMembership(t, db, user, team, models.MembershipRoleMember, true)
	require.NoError(t, db.Model(membership).Update("custom_role_id", role.ID).Error)

	ctx := context.Background()

	// The custom role supersedes the fixed MEMBER value.
	isAdmin, err := queries.IsTeamAdmin(ctx, user.ID, team.ID)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	// It grants members.manage but not team.manage.
	isOwner, err := queries.IsTeamOwner(ctx, user.ID, team.ID)
	require.NoError(t, err)
	assert.False(t, isOwner)
}

func TestListMembersPreloadsUsers(t *testing.T) {
	queries, db := newTestMembershipQueries(t)
	team := createTestTeam(t, db, "Acme")
	first := createTestUser(t, db, "first@example.com")
	second := createTestUser(t, db, "second@example.com")
	addMembership(t, db, first, team, models.MembershipRoleOwner, true)
	addMembership(t, db, second, team, models.MembershipRoleMember, false)

	members, err := queries.ListMembers(context.Background(), team.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	for _, m := range members {
		require.NotNil(t, m.User)
	}
}
