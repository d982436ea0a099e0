package models

// MembershipRole enumerates the fixed membership roles.
type MembershipRole string

const (
	MembershipRoleMember MembershipRole = "MEMBER"
	MembershipRoleAdmin  MembershipRole = "ADMIN"
	MembershipRoleOwner  MembershipRole = "OWNER"
)

// ParseMembershipRole validates a raw role value against the fixed enumeration.
func ParseMembershipRole(raw string) (MembershipRole, bool) {
	switch MembershipRole(raw) {
	case MembershipRoleMember, MembershipRoleAdmin, MembershipRoleOwner:
		return MembershipRole(raw), true
	}
	return "", false
}

// Membership links a user to a team. The (user, team) pair is unique; a row
// with Accepted unset denotes a pending invite.
//
// Role is a tagged union: when CustomRoleID is set it supersedes the fixed
// Role value and capability checks must resolve the referenced TeamRole.
type Membership struct {
	BaseModel

	UserID string `gorm:"type:uuid;not null;uniqueIndex:idx_memberships_user_team" json:"user_id"`
	TeamID string `gorm:"type:uuid;not null;uniqueIndex:idx_memberships_user_team" json:"team_id"`

	Role         MembershipRole `gorm:"not null;default:MEMBER" json:"role"`
	CustomRoleID *string        `gorm:"type:uuid" json:"custom_role_id"`
	Accepted     bool           `gorm:"default:false" json:"accepted"`

	User       *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Team       *Team     `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	CustomRole *TeamRole `gorm:"foreignKey:CustomRoleID" json:"custom_role,omitempty"`
}
