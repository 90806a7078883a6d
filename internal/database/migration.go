package database

import (
	"fmt"

	"github.com/KalaiSelvam31/Fuel-Prediction/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
// The unique indexes on email and username enforce registration
// uniqueness at the store level, closing the concurrent-register race.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
