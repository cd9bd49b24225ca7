package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type migration struct {
	version int
	stmts   []string
}

// migrations are applied in order; PRAGMA user_version records the last one
// applied so older stores and snapshots upgrade in place.
var migrations = []migration{
	{version: 1, stmts: []string{
		`CREATE TABLE IF NOT EXISTS macro_projects (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS projects (
			id               TEXT PRIMARY KEY,
			name             TEXT NOT NULL,
			responsible      TEXT NOT NULL,
			macro_project_id TEXT REFERENCES macro_projects(id) ON DELETE SET NULL
		)`,
		`CREATE TABLE IF NOT EXISTS activities (
			id           TEXT PRIMARY KEY,
			project_id   TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			parent_id    TEXT REFERENCES activities(id) ON DELETE SET NULL,
			name         TEXT NOT NULL,
			kind         TEXT NOT NULL
			             CHECK(kind IN ('continuous','meeting','points')),
			start_date   TEXT NOT NULL,
			end_date     TEXT NOT NULL,
			approved     INTEGER NOT NULL DEFAULT 0,
			progress_pct INTEGER NOT NULL DEFAULT 0
			             CHECK(progress_pct BETWEEN 0 AND 100)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_project ON activities(project_id)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_parent ON activities(parent_id)`,
	}},
	{version: 2, stmts: []string{
		`ALTER TABLE activities ADD COLUMN comment TEXT NOT NULL DEFAULT ''`,
	}},
	{version: 3, stmts: []string{
		`ALTER TABLE activities ADD COLUMN order_index INTEGER NOT NULL DEFAULT 0`,
		`CREATE INDEX IF NOT EXISTS idx_activities_order ON activities(project_id, order_index)`,
		`CREATE INDEX IF NOT EXISTS idx_projects_macro ON projects(macro_project_id)`,
	}},
}

// SchemaVersion is the version a fully migrated store reports.
func SchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// Migrate brings the schema of db up to SchemaVersion. It is idempotent.
func Migrate(db *sql.DB) error {
	return migrateConn(context.Background(), db)
}

func migrateConn(ctx context.Context, conn DBTX) error {
	current, err := userVersion(ctx, conn)
	if err != nil {
		return err
	}
	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		for i, stmt := range m.stmts {
			if _, err := conn.ExecContext(ctx, stmt); err != nil {
				// Tolerate re-adding a column a store already has.
				if strings.Contains(err.Error(), "duplicate column name") {
					continue
				}
				return fmt.Errorf("migration %d.%d: %w", m.version, i, err)
			}
		}
		if _, err := conn.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
			return fmt.Errorf("recording schema version %d: %w", m.version, err)
		}
	}
	return nil
}

func userVersion(ctx context.Context, conn DBTX) (int, error) {
	var v int
	if err := conn.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}
