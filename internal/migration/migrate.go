package migration

import (
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// RunMigrations applies the embedded schema migrations in filename order,
// recording each applied file in schema_migrations so reruns are no-ops.
func RunMigrations(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	names, err := migrationFiles()
	if err != nil {
		return err
	}

	for _, name := range names {
		applied, err := isApplied(db, name)
		if err != nil {
			return err
		}
		if applied {
			continue
		}
		if err := apply(db, name); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
	}
	return nil
}

func migrationFiles() ([]string, error) {
	entries, err := fs.ReadDir(embeddedMigrations, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// versionLiteral inlines the migration filename as a SQL literal. Filenames
// are compiled into the binary, so no user input reaches this path; inlining
// keeps the statements portable across the sqlite and postgres placeholder
// dialects.
func versionLiteral(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func isApplied(db *sql.DB, name string) (bool, error) {
	var count int
	query := `SELECT COUNT(1) FROM schema_migrations WHERE version = ` + versionLiteral(name)
	if err := db.QueryRow(query).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func apply(db *sql.DB, name string) error {
	raw, err := fs.ReadFile(embeddedMigrations, migrationsDir+"/"+name)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(string(raw)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES (` + versionLiteral(name) + `)`); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
