package models

import "gorm.io/datatypes"

// BillingPeriod enumerates organization billing cadences.
type BillingPeriod string

const (
	BillingPeriodMonthly  BillingPeriod = "MONTHLY"
	BillingPeriodAnnually BillingPeriod = "ANNUALLY"
)

// ParseBillingPeriod validates a raw billing period, defaulting to monthly.
func ParseBillingPeriod(raw string) BillingPeriod {
	if BillingPeriod(raw) == BillingPeriodAnnually {
		return BillingPeriodAnnually
	}
	return BillingPeriodMonthly
}

// OrganizationOnboarding captures organization-creation intent before a
// downstream provisioning flow completes or destroys the draft. At most one
// incomplete draft may exist per owner email and per slug.
type OrganizationOnboarding struct {
	BaseModel

	CreatedByID   string         `gorm:"type:uuid;not null" json:"created_by_id"`
	OrgOwnerEmail string         `gorm:"not null;index" json:"org_owner_email"`
	Name          string         `gorm:"not null" json:"name"`
	Slug          string         `gorm:"not null;index" json:"slug"`
	BillingPeriod BillingPeriod  `gorm:"not null;default:MONTHLY" json:"billing_period"`
	Seats         int            `gorm:"default:0" json:"seats"`
	PricePerSeat  int            `gorm:"default:0" json:"price_per_seat"`
	InvitedMembers datatypes.JSON `json:"invited_members"`
	IsComplete    bool           `gorm:"default:false;index" json:"is_complete"`

	CreatedBy *User `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}
