package models

import "time"

// Booking is the minimal booking projection this service needs: an organizer
// assignment target for assignment reasons. Scheduling itself lives elsewhere.
type Booking struct {
	BaseModel

	OrganizerID string    `gorm:"type:uuid;not null;index" json:"organizer_id"`
	TeamID      *string   `gorm:"type:uuid;index" json:"team_id"`
	StartTime   time.Time `json:"start_time"`

	Organizer *User `gorm:"foreignKey:OrganizerID" json:"organizer,omitempty"`
	Team      *Team `gorm:"foreignKey:TeamID" json:"team,omitempty"`
}
