package models

// UserRole enumerates platform-level permission levels.
type UserRole string

const (
	UserRoleUser  UserRole = "USER"
	UserRoleAdmin UserRole = "ADMIN"
)

// User describes an account that can hold team memberships and create organizations.
type User struct {
	BaseModel

	Name     string   `json:"name"`
	Username *string  `gorm:"uniqueIndex" json:"username"`
	Email    string   `gorm:"uniqueIndex;not null" json:"email"`
	Password string   `gorm:"not null" json:"-"`
	Role     UserRole `gorm:"not null;default:USER" json:"role"`
	Locked   bool     `gorm:"default:false" json:"locked"`
	TimeZone string   `gorm:"default:Etc/UTC" json:"time_zone"`

	Memberships []Membership `gorm:"foreignKey:UserID" json:"memberships,omitempty"`
}

// IsPlatformAdmin reports whether the user holds the platform ADMIN role.
func (u *User) IsPlatformAdmin() bool {
	return u.Role == UserRoleAdmin
}
