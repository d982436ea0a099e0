package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rosterhq/roster/internal/models"
)

// MembershipQueries answers accepted-membership questions for permission gates.
type MembershipQueries struct {
	db *gorm.DB
}

// NewMembershipQueries constructs a MembershipQueries helper.
func NewMembershipQueries(db *gorm.DB) (*MembershipQueries, error) {
	if db == nil {
		return nil, errors.New("membership queries: db is required")
	}
	return &MembershipQueries{db: db}, nil
}

// IsTeamAdmin reports whether the user holds an accepted membership with
// admin rights on the team. Custom roles qualify through their capability set
// rather than the fixed enumeration.
func (q *MembershipQueries) IsTeamAdmin(ctx context.Context, userID, teamID string) (bool, error) {
	membership, err := q.acceptedMembership(ctx, userID, teamID)
	if err != nil || membership == nil {
		return false, err
	}

	if membership.CustomRoleID != nil {
		return membership.CustomRole.HasCapability(models.CapabilityManageMembers), nil
	}
	return membership.Role == models.MembershipRoleAdmin || membership.Role == models.MembershipRoleOwner, nil
}

// IsTeamOwner reports whether the user holds an accepted OWNER membership.
func (q *MembershipQueries) IsTeamOwner(ctx context.Context, userID, teamID string) (bool, error) {
	membership, err := q.acceptedMembership(ctx, userID, teamID)
	if err != nil || membership == nil {
		return false, err
	}
	if membership.CustomRoleID != nil {
		return membership.CustomRole.HasCapability(models.CapabilityManageTeam), nil
	}
	return membership.Role == models.MembershipRoleOwner, nil
}

// IsTeamMember reports whether the user holds any accepted membership on the team.
func (q *MembershipQueries) IsTeamMember(ctx context.Context, userID, teamID string) (bool, error) {
	membership, err := q.acceptedMembership(ctx, userID, teamID)
	if err != nil {
		return false, err
	}
	return membership != nil, nil
}

// ListMembers returns all memberships for a team with their users preloaded.
func (q *MembershipQueries) ListMembers(ctx context.Context, teamID string) ([]models.Membership, error) {
	ctx = ensureContext(ctx)

	var memberships []models.Membership
	err := q.db.WithContext(ctx).
		Preload("User").
		Where("team_id = ?", teamID).
		Order("created_at ASC").
		Find(&memberships).Error
	if err != nil {
		return nil, fmt.Errorf("membership queries: list members: %w", err)
	}
	return memberships, nil
}

func (q *MembershipQueries) acceptedMembership(ctx context.Context, userID, teamID string) (*models.Membership, error) {
	ctx = ensureContext(ctx)

	var membership models.Membership
	err := q.db.WithContext(ctx).
		Preload("CustomRole").
		Where("user_id = ? AND team_id = ? AND accepted = ?", userID, teamID, true).
		First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("membership queries: load membership: %w", err)
	}
	return &membership, nil
}
