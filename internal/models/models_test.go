package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestParseMembershipRole(t *testing.T) {
	for _, valid := range []string{"MEMBER", "ADMIN", "OWNER"} {
		role, ok := ParseMembershipRole(valid)
		assert.True(t, ok)
		assert.Equal(t, MembershipRole(valid), role)
	}

	for _, invalid := range []string{"", "member", "Owner", "SUPERUSER"} {
		_, ok := ParseMembershipRole(invalid)
		assert.False(t, ok, invalid)
	}
}

func TestParseBillingPeriod(t *testing.T) {
	assert.Equal(t, BillingPeriodAnnually, ParseBillingPeriod("ANNUALLY"))
	assert.Equal(t, BillingPeriodMonthly, ParseBillingPeriod("MONTHLY"))
	assert.Equal(t, BillingPeriodMonthly, ParseBillingPeriod(""))
	assert.Equal(t, BillingPeriodMonthly, ParseBillingPeriod("weekly"))
}

func TestUserIsPlatformAdmin(t *testing.T) {
	assert.True(t, (&User{Role: UserRoleAdmin}).IsPlatformAdmin())
	assert.False(t, (&User{Role: UserRoleUser}).IsPlatformAdmin())
}

func TestTeamRoleHasCapability(t *testing.T) {
	role := &TeamRole{Capabilities: datatypes.JSON(`["members.manage","team.manage"]`)}
	assert.True(t, role.HasCapability(CapabilityManageMembers))
	assert.True(t, role.HasCapability(CapabilityManageTeam))
	assert.False(t, role.HasCapability("billing.manage"))

	empty := &TeamRole{}
	assert.False(t, empty.HasCapability(CapabilityManageMembers))

	var nilRole *TeamRole
	assert.False(t, nilRole.HasCapability(CapabilityManageMembers))

	malformed := &TeamRole{Capabilities: datatypes.JSON(`{"not":"a list"}`)}
	assert.False(t, malformed.HasCapability(CapabilityManageMembers))
}

func TestBaseModelBeforeCreateAssignsID(t *testing.T) {
	m := &BaseModel{}
	assert.NoError(t, m.BeforeCreate(nil))
	assert.NotEmpty(t, m.ID)

	fixed := &BaseModel{ID: "keep-me"}
	assert.NoError(t, fixed.BeforeCreate(nil))
	assert.Equal(t, "keep-me", fixed.ID)
}
