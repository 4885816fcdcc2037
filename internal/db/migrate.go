package db

import (
	"fmt"

	"evcatalog/internal/models"

	"gorm.io/gorm"
)

// Migrate runs database migrations for the current dialect.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}

	if errAutoMigrate := conn.AutoMigrate(
		&models.AuthUser{},
		&models.VehicleModel{},
	); errAutoMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errAutoMigrate)
	}

	// ddl defines an index statement to apply.
	type ddl struct {
		name string // Human-readable name for error reporting.
		sql  string // SQL to execute.
	}
	ddls := []ddl{
		{
			name: "idx_vehicle_models_name",
			sql: `
				CREATE INDEX IF NOT EXISTS idx_vehicle_models_name
				ON vehicle_models (name)
			`,
		},
		{
			name: "idx_vehicle_models_price",
			sql: `
				CREATE INDEX IF NOT EXISTS idx_vehicle_models_price
				ON vehicle_models (price)
			`,
		},
		{
			name: "idx_vehicle_models_year",
			sql: `
				CREATE INDEX IF NOT EXISTS idx_vehicle_models_year
				ON vehicle_models (year)
			`,
		},
	}
	for _, item := range ddls {
		if errDDL := conn.Exec(item.sql).Error; errDDL != nil {
			return fmt.Errorf("db: create index %s: %w", item.name, errDDL)
		}
	}

	return nil
}
