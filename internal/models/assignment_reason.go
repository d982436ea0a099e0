package models

// AssignmentReasonEnum classifies why an organizer was assigned to a booking.
type AssignmentReasonEnum string

const (
	AssignmentReasonRoutingForm         AssignmentReasonEnum = "ROUTING_FORM_ROUTING"
	AssignmentReasonRoutingFormFallback AssignmentReasonEnum = "ROUTING_FORM_ROUTING_FALLBACK"
	AssignmentReasonRerouted            AssignmentReasonEnum = "REROUTED"
	AssignmentReasonSalesforce          AssignmentReasonEnum = "SALESFORCE_ASSIGNMENT"
)

// AssignmentReason is the audited explanation for a booking's organizer
// assignment. Each booking carries at most one row; recording a new reason
// replaces any prior one.
type AssignmentReason struct {
	BaseModel

	BookingID    string               `gorm:"type:uuid;not null;index" json:"booking_id"`
	ReasonEnum   AssignmentReasonEnum `gorm:"not null" json:"reason_enum"`
	ReasonString string               `gorm:"not null" json:"reason_string"`

	Booking *Booking `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"booking,omitempty"`
}
