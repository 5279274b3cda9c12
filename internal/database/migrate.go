package database

import (
	"gorm.io/gorm"

	"github.com/noah-isme/classroom-api/internal/models"
)

// AutoMigrate creates or updates the tables owned by the service.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Organization{},
		&models.Teacher{},
		&models.Student{},
		&models.Group{},
		&models.Task{},
		&models.Submission{},
		&models.ActivityLog{},
	)
}
