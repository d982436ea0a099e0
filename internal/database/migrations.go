package database

import (
	"errors"

	"gorm.io/gorm"

	"github.com/rosterhq/roster/internal/models"
	"github.com/rosterhq/roster/pkg/crypto"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.TeamRole{},
		&models.Membership{},
		&models.VerificationToken{},
		&models.OrganizationOnboarding{},
		&models.Booking{},
		&models.RoutingFormResponse{},
		&models.AssignmentReason{},
		&models.AuditLog{},
	)
}

// SeedData ensures a platform administrator exists for fresh installations.
func SeedData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.UserRoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password, err := crypto.GenerateToken(24)
	if err != nil {
		return err
	}
	hashed, err := crypto.HashPassword(password)
	if err != nil {
		return err
	}

	username := "admin"
	admin := models.User{
		Name:     "Administrator",
		Username: &username,
		Email:    "admin@localhost",
		Password: hashed,
		Role:     models.UserRoleAdmin,
	}

	err = db.Where(models.User{Email: admin.Email}).Attrs(admin).FirstOrCreate(&models.User{}).Error
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	return nil
}
