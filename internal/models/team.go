package models

import "gorm.io/datatypes"

// Team represents a collaborative group. Organizations are teams with
// IsOrganization set; sub-teams reference their organization via ParentID.
type Team struct {
	BaseModel

	Name           string         `gorm:"not null" json:"name"`
	Slug           *string        `gorm:"uniqueIndex" json:"slug"`
	IsOrganization bool           `gorm:"default:false" json:"is_organization"`
	ParentID       *string        `gorm:"type:uuid;index" json:"parent_id"`
	Parent         *Team          `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Metadata       datatypes.JSON `json:"metadata"`

	Memberships []Membership `gorm:"foreignKey:TeamID" json:"memberships,omitempty"`
}
