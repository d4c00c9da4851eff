// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/hieudt/debitbot/internal/models"
	"github.com/hieudt/debitbot/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite. Timestamps are
// stored as RFC 3339 strings, matching the JSON-file ledger format.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Get retrieves a debt record with its full history, or (nil, nil) when
// the debtor has none.
func (s *SQLiteStore) Get(ctx context.Context, debtorID string) (*models.DebtRecord, error) {
	rec := &models.DebtRecord{}
	var lastUpdated string
	err := s.db.QueryRowContext(ctx,
		"SELECT debtor_id, creditor_id, total, last_updated FROM debts WHERE debtor_id = ?",
		debtorID,
	).Scan(&rec.DebtorID, &rec.CreditorID, &rec.Total, &lastUpdated)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get debt record: %w", err)
	}

	rec.LastUpdated, err = parseTimestamp(lastUpdated)
	if err != nil {
		return nil, err
	}

	rec.History, err = s.getEntries(ctx, debtorID)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Put inserts or replaces a debt record. The history is replaced
// wholesale, matching the whole-record semantics of the Store interface.
func (s *SQLiteStore) Put(ctx context.Context, rec *models.DebtRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO debts (debtor_id, creditor_id, total, last_updated)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(debtor_id) DO UPDATE SET
		   creditor_id = excluded.creditor_id,
		   total = excluded.total,
		   last_updated = excluded.last_updated`,
		rec.DebtorID, rec.CreditorID, rec.Total, formatTimestamp(rec.LastUpdated),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert debt record: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM debt_entries WHERE debtor_id = ?", rec.DebtorID); err != nil {
		return fmt.Errorf("failed to clear debt history: %w", err)
	}

	for i, entry := range rec.History {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO debt_entries (id, debtor_id, position, amount, amount_text, creditor_id, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), rec.DebtorID, i,
			entry.Amount, entry.AmountText, entry.CreditorID, formatTimestamp(entry.Timestamp),
		)
		if err != nil {
			return fmt.Errorf("failed to insert debt entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Delete removes a debt record and its history. Absent records are a
// no-op.
func (s *SQLiteStore) Delete(ctx context.Context, debtorID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM debts WHERE debtor_id = ?", debtorID)
	if err != nil {
		return fmt.Errorf("failed to delete debt record: %w", err)
	}
	return nil
}

// List returns all debt records ordered by debtor ID, with histories.
func (s *SQLiteStore) List(ctx context.Context) ([]*models.DebtRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT debtor_id, creditor_id, total, last_updated FROM debts ORDER BY debtor_id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list debt records: %w", err)
	}
	defer rows.Close()

	var recs []*models.DebtRecord
	for rows.Next() {
		rec := &models.DebtRecord{}
		var lastUpdated string
		if err := rows.Scan(&rec.DebtorID, &rec.CreditorID, &rec.Total, &lastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan debt record: %w", err)
		}
		if rec.LastUpdated, err = parseTimestamp(lastUpdated); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate debt records: %w", err)
	}

	for _, rec := range recs {
		if rec.History, err = s.getEntries(ctx, rec.DebtorID); err != nil {
			return nil, err
		}
	}
	return recs, nil
}

func (s *SQLiteStore) getEntries(ctx context.Context, debtorID string) ([]models.DebtEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT amount, amount_text, creditor_id, created_at
		 FROM debt_entries WHERE debtor_id = ? ORDER BY position`,
		debtorID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get debt history: %w", err)
	}
	defer rows.Close()

	var entries []models.DebtEntry
	for rows.Next() {
		var entry models.DebtEntry
		var createdAt string
		if err := rows.Scan(&entry.Amount, &entry.AmountText, &entry.CreditorID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan debt entry: %w", err)
		}
		if entry.Timestamp, err = parseTimestamp(createdAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate debt entries: %w", err)
	}
	return entries, nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}
