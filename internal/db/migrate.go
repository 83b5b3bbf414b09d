package db

import (
	"github.com/diewo77/go-profiles/internal/models"
	"gorm.io/gorm"
)

// Migrate runs AutoMigrate for all models.
// Call this at application startup or as part of a migration step.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Catalogs
		&models.Resource{},
		&models.Module{},
		// Profiles and their bindings
		&models.Profile{},
		&models.ProfileI18n{},
		&models.ProfileResource{},
		&models.ProfileModule{},
		// Administrators
		&models.User{},
	)
}

// Seed initializes the database with required seed data.
// Should be called after Migrate.
func Seed(db *gorm.DB) error {
	if err := SeedResources(db); err != nil {
		return err
	}
	return SeedModules(db)
}
