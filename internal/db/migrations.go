package db

import (
	"fmt"

	"gorm.io/gorm"
)

// Tables this service owns. Detection, device, zone and location tables belong
// to the ingestion platform and are only read here.
var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`CREATE TABLE IF NOT EXISTS reports (
		id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		team_id uuid NOT NULL,
		title text NOT NULL,
		description text NOT NULL DEFAULT '',
		type text NOT NULL,
		formats text NOT NULL DEFAULT 'PDF',
		file_path text NOT NULL DEFAULT '',
		file_size bigint NOT NULL DEFAULT 0,
		pages integer NOT NULL DEFAULT 0,
		parameters jsonb NOT NULL DEFAULT '{}'::jsonb,
		download_count bigint NOT NULL DEFAULT 0,
		generated_on timestamptz NOT NULL DEFAULT now()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_reports_team ON reports (team_id, generated_on DESC);`,
	`CREATE TABLE IF NOT EXISTS report_downloads (
		id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		report_id uuid NOT NULL REFERENCES reports (id),
		user_id uuid NOT NULL,
		format text NOT NULL,
		downloaded_at timestamptz NOT NULL DEFAULT now()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_report_downloads_report ON report_downloads (report_id);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
