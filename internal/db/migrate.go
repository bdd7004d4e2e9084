package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// migrations holds all schema statements in execution order. Each
// statement is idempotent so the whole list can re-run on startup.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS quotations (
		id                  TEXT PRIMARY KEY,
		project_description TEXT NOT NULL,
		location            TEXT NOT NULL DEFAULT '',
		zip_code            TEXT NOT NULL DEFAULT '',
		project_type        TEXT NOT NULL DEFAULT ''
		                    CHECK(project_type IN ('', 'residential', 'commercial', 'renovation', 'new_construction')),
		timeline            TEXT NOT NULL DEFAULT '',
		status              TEXT NOT NULL DEFAULT 'pending'
		                    CHECK(status IN ('pending', 'processing', 'data_collection', 'cost_calculation', 'completed', 'failed')),
		progress            INTEGER NOT NULL DEFAULT 0,
		failure_reason      TEXT NOT NULL DEFAULT '',
		created_at          TEXT NOT NULL,
		updated_at          TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS quotation_data (
		quotation_id     TEXT PRIMARY KEY REFERENCES quotations(id) ON DELETE CASCADE,
		extracted_data   TEXT,
		confidence_score REAL NOT NULL DEFAULT 0,
		cost_breakdown   TEXT,
		total_cost       REAL NOT NULL DEFAULT 0,
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS sessions (
		id           TEXT PRIMARY KEY,
		history      TEXT NOT NULL DEFAULT '[]',
		quotation_id TEXT REFERENCES quotations(id) ON DELETE SET NULL,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_quotations_status ON quotations(status)`,
	`CREATE INDEX IF NOT EXISTS idx_quotations_created_at ON quotations(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_quotation_id ON sessions(quotation_id)`,
}

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate re-running ALTER TABLE statements added later.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
