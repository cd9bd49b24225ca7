package db

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrMalformedSnapshot is returned when imported bytes are not a usable
// snapshot. The live store is left untouched.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

var sqliteHeader = []byte("SQLite format 3\x00")

// tables lists the store's tables parent-first with the columns a snapshot
// carries.
var tables = []struct {
	name    string
	columns string
}{
	{"macro_projects", "id, name, description"},
	{"projects", "id, name, responsible, macro_project_id"},
	{"activities", "id, project_id, parent_id, name, kind, start_date, end_date, approved, progress_pct, comment, order_index"},
}

// ExportSnapshot returns the whole store as a standalone SQLite database file.
func ExportSnapshot(ctx context.Context, db *sql.DB) ([]byte, error) {
	dir, err := os.MkdirTemp("", "avance-export-*")
	if err != nil {
		return nil, fmt.Errorf("creating export dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "snapshot.db")
	if _, err := db.ExecContext(ctx, "VACUUM INTO "+quoteLiteral(path)); err != nil {
		return nil, fmt.Errorf("exporting snapshot: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return data, nil
}

// ImportSnapshot replaces the contents of the store with the snapshot in
// data. The snapshot is integrity-checked and upgraded to the current schema
// in a scratch file first; rows are then copied in one transaction, so any
// failure leaves the store as it was.
func ImportSnapshot(ctx context.Context, db *sql.DB, data []byte) error {
	if !bytes.HasPrefix(data, sqliteHeader) {
		return fmt.Errorf("%w: not a SQLite database", ErrMalformedSnapshot)
	}

	dir, err := os.MkdirTemp("", "avance-import-*")
	if err != nil {
		return fmt.Errorf("creating import dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "snapshot.db")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := prepareSnapshot(ctx, path); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquiring db connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "ATTACH DATABASE "+quoteLiteral(path)+" AS snap"); err != nil {
		return fmt.Errorf("%w: attaching: %v", ErrMalformedSnapshot, err)
	}
	defer func() {
		_, _ = conn.ExecContext(context.Background(), "DETACH DATABASE snap")
	}()

	err = runTx(ctx, conn, nil, func(ctx context.Context, tx DBTX) error {
		if _, err := tx.ExecContext(ctx, "PRAGMA defer_foreign_keys = ON"); err != nil {
			return err
		}
		if err := clearTables(ctx, tx); err != nil {
			return err
		}
		for _, t := range tables {
			q := fmt.Sprintf("INSERT INTO main.%s (%s) SELECT %s FROM snap.%s", t.name, t.columns, t.columns, t.name)
			if _, err := tx.ExecContext(ctx, q); err != nil {
				return fmt.Errorf("copying %s: %w", t.name, err)
			}
		}
		return checkForeignKeys(ctx, tx)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	return nil
}

// Reset empties the store, keeping the schema.
func Reset(ctx context.Context, uow UnitOfWork) error {
	return uow.WithinTx(ctx, clearTables)
}

func clearTables(ctx context.Context, tx DBTX) error {
	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+tables[i].name); err != nil {
			return fmt.Errorf("clearing %s: %w", tables[i].name, err)
		}
	}
	return nil
}

// checkForeignKeys fails when any reference is dangling, so the transaction
// rolls back instead of failing at commit.
func checkForeignKeys(ctx context.Context, tx DBTX) error {
	rows, err := tx.QueryContext(ctx, "PRAGMA main.foreign_key_check")
	if err != nil {
		return fmt.Errorf("checking references: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		return errors.New("dangling references")
	}
	return rows.Err()
}

// prepareSnapshot validates the file at path and migrates it in place.
func prepareSnapshot(ctx context.Context, path string) error {
	snap, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer snap.Close()
	snap.SetMaxOpenConns(1)

	var result string
	if err := snap.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check: %s", result)
	}

	var n int
	if err := snap.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('projects', 'activities')`).Scan(&n); err != nil {
		return fmt.Errorf("inspecting schema: %w", err)
	}
	if n != 2 {
		return errors.New("missing projects or activities table")
	}
	return migrateConn(ctx, snap)
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
