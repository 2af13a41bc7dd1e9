package database

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func Connect(dbURL string) (*sqlx.DB, error) {
	log.Println("🔌 Connecting to Postgres...")

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Database connection established")
	return db, nil
}

func Migrate(db *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS companies (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			company_id TEXT REFERENCES companies(id),
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			name TEXT NOT NULL,
			role TEXT NOT NULL CHECK(role IN ('super_admin', 'admin', 'property_manager', 'employee')),
			phone TEXT,
			property_id TEXT,
			is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		`CREATE TABLE IF NOT EXISTS properties (
			id TEXT PRIMARY KEY,
			company_id TEXT NOT NULL REFERENCES companies(id),
			name TEXT NOT NULL,
			address TEXT NOT NULL,
			property_manager_id TEXT REFERENCES users(id),
			is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		`CREATE TABLE IF NOT EXISTS user_properties (
			id SERIAL PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			property_id TEXT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
			UNIQUE(user_id, property_id)
		)`,

		`CREATE TABLE IF NOT EXISTS buildings (
			id TEXT PRIMARY KEY,
			property_id TEXT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			sort_order INT NOT NULL DEFAULT 0,
			address TEXT NOT NULL DEFAULT '',
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		`CREATE TABLE IF NOT EXISTS bin_tags (
			id TEXT PRIMARY KEY,
			company_id TEXT NOT NULL REFERENCES companies(id),
			property_id TEXT NOT NULL REFERENCES properties(id),
			property_name TEXT NOT NULL DEFAULT '',
			property_address TEXT NOT NULL DEFAULT '',
			building_id TEXT REFERENCES buildings(id),
			building_name TEXT,
			unit_number TEXT NOT NULL,
			barcode TEXT NOT NULL,
			qr_image_url TEXT NOT NULL DEFAULT '',
			tag_type TEXT NOT NULL CHECK(tag_type IN ('route_checkpoint', 'unit')),
			status TEXT NOT NULL DEFAULT 'active' CHECK(status IN ('active', 'inactive')),
			scan_count INT NOT NULL DEFAULT 0,
			last_scanned_at BIGINT,
			last_scanned_by TEXT,
			is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
			created_by TEXT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			UNIQUE(company_id, barcode),
			CHECK (scan_count >= 0)
		)`,

		`CREATE TABLE IF NOT EXISTS bin_tag_units (
			id SERIAL PRIMARY KEY,
			bin_tag_id TEXT NOT NULL REFERENCES bin_tags(id) ON DELETE CASCADE,
			unit_number TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS checkpoints (
			id TEXT PRIMARY KEY,
			property_id TEXT NOT NULL REFERENCES properties(id),
			building_id TEXT REFERENCES buildings(id),
			name TEXT NOT NULL,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		`CREATE TABLE IF NOT EXISTS scan_events (
			id TEXT PRIMARY KEY,
			employee_id TEXT NOT NULL,
			property_id TEXT NOT NULL REFERENCES properties(id),
			route_id TEXT,
			checkpoint_id TEXT NOT NULL REFERENCES checkpoints(id),
			activity_type TEXT NOT NULL CHECK(activity_type IN ('violation_reported', 'route_checkpoint', 'service', 'other')),
			volume INT,
			event_type TEXT NOT NULL CHECK(event_type IN ('check_in', 'check_out')),
			scanned_at BIGINT NOT NULL,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		`CREATE TABLE IF NOT EXISTS qr_scan_logs (
			id TEXT PRIMARY KEY,
			company_id TEXT NOT NULL REFERENCES companies(id),
			bin_tag_id TEXT NOT NULL REFERENCES bin_tags(id),
			scanned_by TEXT NOT NULL,
			scanned_by_name TEXT NOT NULL DEFAULT '',
			scanned_by_email TEXT NOT NULL DEFAULT '',
			property_name TEXT NOT NULL DEFAULT '',
			unit_number TEXT NOT NULL DEFAULT '',
			barcode TEXT NOT NULL DEFAULT '',
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			scanned_at BIGINT NOT NULL,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		`CREATE TABLE IF NOT EXISTS recycle_reports (
			id TEXT PRIMARY KEY,
			company_id TEXT NOT NULL REFERENCES companies(id),
			property_id TEXT NOT NULL REFERENCES properties(id),
			property_address TEXT NOT NULL DEFAULT '',
			scan_date BIGINT NOT NULL,
			recycle BOOLEAN NOT NULL DEFAULT FALSE,
			contaminated BOOLEAN NOT NULL DEFAULT FALSE,
			status TEXT NOT NULL CHECK(status IN ('Violation Reported', 'Route Check Point')),
			scanned_by TEXT NOT NULL,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		`CREATE TABLE IF NOT EXISTS violations (
			id TEXT PRIMARY KEY,
			company_id TEXT NOT NULL REFERENCES companies(id),
			property_id TEXT NOT NULL REFERENCES properties(id),
			unit_number TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'open',
			created_by TEXT NOT NULL,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		`CREATE TABLE IF NOT EXISTS service_notes (
			id TEXT PRIMARY KEY,
			company_id TEXT NOT NULL REFERENCES companies(id),
			property_id TEXT NOT NULL REFERENCES properties(id),
			unit_number TEXT NOT NULL DEFAULT '',
			subject TEXT NOT NULL DEFAULT '',
			note TEXT NOT NULL DEFAULT '',
			created_by TEXT NOT NULL,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		`CREATE TABLE IF NOT EXISTS schedules (
			id TEXT PRIMARY KEY,
			company_id TEXT NOT NULL REFERENCES companies(id),
			property_id TEXT NOT NULL REFERENCES properties(id),
			title TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'scheduled' CHECK(status IN ('scheduled', 'completed', 'cancelled')),
			scheduled_for BIGINT NOT NULL,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			company_id TEXT NOT NULL REFERENCES companies(id),
			property_id TEXT NOT NULL REFERENCES properties(id),
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			assigned_to TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			due_date BIGINT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		`CREATE TABLE IF NOT EXISTS task_logs (
			id TEXT PRIMARY KEY,
			task_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
			status TEXT NOT NULL,
			note TEXT NOT NULL DEFAULT '',
			logged_by TEXT NOT NULL,
			logged_at BIGINT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS employee_clock_logs (
			id TEXT PRIMARY KEY,
			company_id TEXT NOT NULL REFERENCES companies(id),
			employee_id TEXT NOT NULL REFERENCES users(id),
			clock_in BIGINT NOT NULL,
			clock_out BIGINT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		`CREATE TABLE IF NOT EXISTS property_check_logs (
			id TEXT PRIMARY KEY,
			company_id TEXT NOT NULL REFERENCES companies(id),
			property_id TEXT NOT NULL REFERENCES properties(id),
			employee_id TEXT NOT NULL REFERENCES users(id),
			barcode TEXT NOT NULL DEFAULT '',
			check_in BIGINT NOT NULL,
			check_out BIGINT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		`CREATE TABLE IF NOT EXISTS fcm_tokens (
			id SERIAL PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			token TEXT NOT NULL UNIQUE,
			device_type TEXT NOT NULL CHECK(device_type IN ('ios', 'android')),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		`CREATE INDEX IF NOT EXISTS idx_bin_tags_company_barcode ON bin_tags(company_id, barcode)`,
		`CREATE INDEX IF NOT EXISTS idx_bin_tags_property ON bin_tags(property_id) WHERE is_deleted = FALSE`,
		`CREATE INDEX IF NOT EXISTS idx_qr_scan_logs_scanned_at ON qr_scan_logs(company_id, scanned_at)`,
		`CREATE INDEX IF NOT EXISTS idx_qr_scan_logs_tag ON qr_scan_logs(bin_tag_id)`,
		`CREATE INDEX IF NOT EXISTS idx_scan_events_property_date ON scan_events(property_id, scanned_at)`,
		`CREATE INDEX IF NOT EXISTS idx_recycle_reports_scan_date ON recycle_reports(company_id, scan_date)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	log.Printf("✅ Ran %d migrations", len(migrations))
	return nil
}
