package models

import "gorm.io/datatypes"

// RoutingFormResponse is the denormalized routing-form response record.
// BookingAssignmentReason mirrors the latest AssignmentReason sentence for the
// booking the response routed to; the copy is best-effort.
type RoutingFormResponse struct {
	BaseModel

	FormID    string         `gorm:"index" json:"form_id"`
	BookingID *string        `gorm:"type:uuid;index" json:"booking_id"`
	Response  datatypes.JSON `json:"response"`

	BookingAssignmentReason string `json:"booking_assignment_reason"`
}
