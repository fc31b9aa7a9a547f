package repositories

import (
	"fmt"

	"github.com/anonto42/pulse/backend/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the PostgreSQL tables.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Profile{},
		&models.ProfileHeart{},
		&models.Comment{},
		&models.CommentUpvote{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
