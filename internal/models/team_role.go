package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// Team-scoped capabilities granted by custom roles.
const (
	CapabilityManageMembers = "members.manage"
	CapabilityManageTeam    = "team.manage"
)

// TeamRole is a team-defined custom role referenced by memberships in place of
// the fixed MEMBER/ADMIN/OWNER enumeration.
type TeamRole struct {
	BaseModel

	TeamID       string         `gorm:"type:uuid;not null;index" json:"team_id"`
	Name         string         `gorm:"not null" json:"name"`
	Capabilities datatypes.JSON `json:"capabilities"`

	Team *Team `gorm:"foreignKey:TeamID" json:"team,omitempty"`
}

// HasCapability reports whether the role grants the named capability.
func (r *TeamRole) HasCapability(name string) bool {
	if r == nil || len(r.Capabilities) == 0 {
		return false
	}

	var caps []string
	if err := json.Unmarshal(r.Capabilities, &caps); err != nil {
		return false
	}
	for _, c := range caps {
		if c == name {
			return true
		}
	}
	return false
}
