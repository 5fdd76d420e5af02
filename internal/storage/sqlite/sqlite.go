// Package sqlite provides a SQLite-backed implementation of the storage.Journal interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// Ensure Journal implements storage.Journal
var _ storage.Journal = (*Journal)(nil)

// Journal implements storage.Journal using SQLite.
type Journal struct {
	db *sql.DB
}

// New opens the journal at dbPath.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*Journal, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Writers serialize anyway; one connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Journal{db: db}, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Name identifies the journal in logs and metrics.
func (j *Journal) Name() string {
	return "sqlite"
}

// Record persists one audit entry.
func (j *Journal) Record(ctx context.Context, group string, entry models.Entry) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO journal_entries (id, group_name, seq, kind, text, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), group, entry.Seq, string(entry.Kind), entry.Text, entry.At,
	)
	if err != nil {
		return fmt.Errorf("failed to insert journal entry: %w", err)
	}

	return nil
}

// ListByGroup retrieves all journal entries for a group in insertion order.
func (j *Journal) ListByGroup(ctx context.Context, group string) ([]storage.Record, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, group_name, seq, kind, text, created_at
		 FROM journal_entries WHERE group_name = ? ORDER BY rowid`,
		group,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	var records []storage.Record
	for rows.Next() {
		var (
			r    storage.Record
			kind string
		)
		if err := rows.Scan(&r.ID, &r.Group, &r.Seq, &kind, &r.Text, &r.At); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		r.Kind = models.EntryKind(kind)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate journal entries: %w", err)
	}

	return records, nil
}
