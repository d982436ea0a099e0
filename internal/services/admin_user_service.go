package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rosterhq/roster/internal/models"
)

// ErrUserNotFound indicates the update target does not exist.
var ErrUserNotFound = errors.New("admin user: user not found")

// AdminUserUpdateInput carries the allow-listed fields an administrator may
// change. A nil field is left untouched; a pointed-to empty string is applied.
type AdminUserUpdateInput struct {
	Name     *string
	Username *string
	Email    *string
	TimeZone *string
	Role     *models.UserRole
}

// AdminUserProjection is the caller-facing view of an updated user.
type AdminUserProjection struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Username *string         `json:"username"`
	Email    string          `json:"email"`
	TimeZone string          `json:"time_zone"`
	Role     models.UserRole `json:"role"`
	Locked   bool            `json:"locked"`
}

// AdminUserService performs administrative partial updates on user records.
type AdminUserService struct {
	db    *gorm.DB
	audit *AuditService
}

// NewAdminUserService constructs an AdminUserService.
func NewAdminUserService(db *gorm.DB, audit *AuditService) (*AdminUserService, error) {
	if db == nil {
		return nil, errors.New("admin user service: db is required")
	}
	return &AdminUserService{db: db, audit: audit}, nil
}

// Update applies the provided fields to the user, honouring only the
// allow-listed set. Omitted fields keep their current values.
func (s *AdminUserService) Update(ctx context.Context, userID string, input AdminUserUpdateInput) (*AdminUserProjection, error) {
	ctx = ensureContext(ctx)

	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("admin user service: load user: %w", err)
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Username != nil {
		updates["username"] = *input.Username
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.TimeZone != nil {
		updates["time_zone"] = *input.TimeZone
	}
	if input.Role != nil {
		updates["role"] = *input.Role
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("admin user service: update user: %w", err)
		}
		if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
			return nil, fmt.Errorf("admin user service: reload user: %w", err)
		}
	}

	recordAudit(s.audit, ctx, AuditEntry{
		Action:   "admin.user.update",
		Resource: user.ID,
		Result:   "success",
	})

	return &AdminUserProjection{
		ID:       user.ID,
		Name:     user.Name,
		Username: user.Username,
		Email:    user.Email,
		TimeZone: user.TimeZone,
		Role:     user.Role,
		Locked:   user.Locked,
	}, nil
}
