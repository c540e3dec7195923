package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: registration lookups compare the case-folded copy.
	`CREATE INDEX IF NOT EXISTS idx_bookings_registration_fold
	     ON bookings(car_registration_fold)`,
	// Migration 2: listings sort by date.
	`CREATE INDEX IF NOT EXISTS idx_bookings_date ON bookings(date DESC, id DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_service_images_owner
	     ON service_images(user_id, service_id)`,
}

// Migrate ensures the schema and applies all migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
