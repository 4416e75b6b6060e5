package database

import (
	"log"

	"doctor-manager-backend/internal/config"
	"doctor-manager-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	// TranslateError turns driver-specific unique violations into
	// gorm.ErrDuplicatedKey, which storage relies on for 409 mapping.
	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Could not connect to the database: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	log.Println("Database connection established. Migration complete.")
}

// Migrate is shared with the test setup, which runs it against sqlite.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Dashboard{},
		&models.Shift{},
		&models.ShiftCount{},
	)
}
