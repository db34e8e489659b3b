package database

import (
	"fmt"

	"vizinho-http-service/internal/domain/models"
	Logger "vizinho-http-service/pkg/logger"

	"gorm.io/gorm"
)

// allModels lists every table owned by the service, parents first
func allModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Profile{},
		&models.Report{},
		&models.Fine{},
		&models.PanicAlert{},
		&models.LostItem{},
		&models.Announcement{},
		&models.Comment{},
		&models.CommonArea{},
		&models.Reservation{},
	}
}

// AutoMigrate adds missing tables and columns; it never drops anything
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	Logger.Info("database migration completed")
	return nil
}

// DropAndRecreate drops every service table and migrates again. All data is lost.
func DropAndRecreate(db *gorm.DB) error {
	Logger.Warning("dropping and recreating all tables, all data will be lost")

	tables := allModels()
	// children before parents
	for i := len(tables) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(tables[i]); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return AutoMigrate(db)
}

// Migrate runs the migration selected by mode ("auto" or "drop")
func Migrate(db *gorm.DB, mode string) error {
	switch mode {
	case "drop":
		return DropAndRecreate(db)
	case "auto", "":
		return AutoMigrate(db)
	default:
		return fmt.Errorf("unknown migration mode %q", mode)
	}
}
