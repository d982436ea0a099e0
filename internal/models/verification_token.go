package models

import "time"

// VerificationToken is a single-use credential granting redemption rights to
// join one specific team. A nil ExpiresInDays marks the token as non-expiring;
// otherwise ExpiresAt bounds its validity. Tokens are deleted inside the
// redemption transaction so each can be consumed at most once.
type VerificationToken struct {
	BaseModel

	Token      string  `gorm:"uniqueIndex;not null" json:"-"`
	Identifier string  `gorm:"index" json:"identifier"`
	TeamID     *string `gorm:"type:uuid;index" json:"team_id"`

	// InvitedRole preserves the role chosen when the invite was issued so
	// redemption does not silently downgrade it to MEMBER.
	InvitedRole *MembershipRole `json:"invited_role"`

	ExpiresAt     time.Time `gorm:"index" json:"expires_at"`
	ExpiresInDays *int      `json:"expires_in_days"`

	Team *Team `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"team,omitempty"`
}
