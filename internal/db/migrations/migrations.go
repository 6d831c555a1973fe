// Package migrations manages the TimescaleDB schema for track reports and
// link statistics. A Migrator owns an ordered migration list and records
// what it has applied in a schema_migrations bookkeeping table.
package migrations

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration is one reversible schema step, identified by Name.
type Migration struct {
	Name    string
	UpSQL   string
	DownSQL string
}

// Migrator applies its migration list, in order, against one database
type Migrator struct {
	db         *sql.DB
	migrations []*Migration
}

// New creates a Migrator over db for the given ordered migration list
func New(db *sql.DB, migrations []*Migration) *Migrator {
	return &Migrator{db: db, migrations: migrations}
}

// ensureTable creates the bookkeeping table on first use
func (m *Migrator) ensureTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	_, err := m.db.Exec(query)
	return err
}

// Applied returns the set of migration names already recorded
func (m *Migrator) Applied() (map[string]bool, error) {
	rows, err := m.db.Query(`SELECT name FROM schema_migrations ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

// runStep executes one schema step and its bookkeeping statement in a
// single transaction, so a failed step leaves no record behind.
func (m *Migrator) runStep(name, stepSQL, record string) error {
	tx, err := m.db.Begin()
	if err != nil {
		return err
	}
	// Rollback is a no-op after a successful Commit.
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(stepSQL); err != nil {
		return fmt.Errorf("migration %s failed: %w", name, err)
	}
	if _, err := tx.Exec(record, name); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", name, err)
	}
	return tx.Commit()
}

// Apply runs one migration's UpSQL and records it
func (m *Migrator) Apply(migration *Migration) error {
	return m.runStep(migration.Name, migration.UpSQL,
		`INSERT INTO schema_migrations (name) VALUES ($1)`)
}

// Revert runs one migration's DownSQL and deletes its record
func (m *Migrator) Revert(migration *Migration) error {
	return m.runStep(migration.Name, migration.DownSQL,
		`DELETE FROM schema_migrations WHERE name = $1`)
}

// Up applies every pending migration in list order
func (m *Migrator) Up() error {
	if err := m.ensureTable(); err != nil {
		return fmt.Errorf("failed to initialize schema_migrations: %w", err)
	}

	applied, err := m.Applied()
	if err != nil {
		return fmt.Errorf("failed to read applied migrations: %w", err)
	}

	for _, migration := range m.migrations {
		if applied[migration.Name] {
			continue
		}
		if err := m.Apply(migration); err != nil {
			return err
		}
		log.Printf("Applied migration: %s", migration.Name)
	}
	return nil
}

// Down reverts the most recently applied migration
func (m *Migrator) Down() error {
	applied, err := m.Applied()
	if err != nil {
		return fmt.Errorf("failed to read applied migrations: %w", err)
	}

	for i := len(m.migrations) - 1; i >= 0; i-- {
		if !applied[m.migrations[i].Name] {
			continue
		}
		if err := m.Revert(m.migrations[i]); err != nil {
			return err
		}
		log.Printf("Reverted migration: %s", m.migrations[i].Name)
		return nil
	}
	return fmt.Errorf("no migrations to revert")
}
