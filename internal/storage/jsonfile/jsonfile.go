// Package jsonfile provides a storage.Store backed by a single JSON file.
//
// The on-disk format is one JSON object keyed by debtor ID, each value a
// full debt record (creditor, total, ISO-8601 last-updated timestamp and
// per-addition history). The whole file is rewritten on every mutation;
// an absent file reads as an empty ledger.
//
// A file that exists but cannot be read or decoded is an error, never an
// empty ledger: silently treating a failed read as "no debts exist"
// would turn data loss into wrong balances.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/hieudt/debitbot/internal/models"
	"github.com/hieudt/debitbot/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store persists debt records in a single JSON file.
type Store struct {
	path string
}

// New creates a JSON-file store at the given path, creating parent
// directories as needed. The file itself is created on first write.
func New(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{path: path}, nil
}

// Get retrieves a record, or (nil, nil) when the debtor has none.
func (s *Store) Get(_ context.Context, debtorID string) (*models.DebtRecord, error) {
	debts, err := s.load()
	if err != nil {
		return nil, err
	}
	rec, ok := debts[debtorID]
	if !ok {
		return nil, nil
	}
	return rec, nil
}

// Put inserts or replaces a record and rewrites the file.
func (s *Store) Put(_ context.Context, rec *models.DebtRecord) error {
	debts, err := s.load()
	if err != nil {
		return err
	}
	debts[rec.DebtorID] = rec
	return s.save(debts)
}

// Delete removes a record and rewrites the file. Absent records are a
// no-op.
func (s *Store) Delete(_ context.Context, debtorID string) error {
	debts, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := debts[debtorID]; !ok {
		return nil
	}
	delete(debts, debtorID)
	return s.save(debts)
}

// List returns all records ordered by debtor ID.
func (s *Store) List(_ context.Context) ([]*models.DebtRecord, error) {
	debts, err := s.load()
	if err != nil {
		return nil, err
	}
	recs := make([]*models.DebtRecord, 0, len(debts))
	for _, rec := range debts {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].DebtorID < recs[j].DebtorID })
	return recs, nil
}

// Close is a no-op; every mutation already flushes to disk.
func (s *Store) Close() error {
	return nil
}

func (s *Store) load() (map[string]*models.DebtRecord, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]*models.DebtRecord), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger file: %w", err)
	}

	debts := make(map[string]*models.DebtRecord)
	if err := json.Unmarshal(data, &debts); err != nil {
		return nil, fmt.Errorf("failed to decode ledger file %s: %w", s.path, err)
	}
	return debts, nil
}

// save rewrites the whole file through a temp file and rename, so a crash
// mid-write never leaves a truncated ledger behind.
func (s *Store) save(debts map[string]*models.DebtRecord) error {
	data, err := json.MarshalIndent(debts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".debts-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp ledger file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write ledger file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close ledger file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace ledger file: %w", err)
	}
	return nil
}
