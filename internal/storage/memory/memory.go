// Package memory provides an in-memory storage.Store, used in tests and
// as a throwaway backend for local experiments.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/hieudt/debitbot/internal/models"
	"github.com/hieudt/debitbot/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store keeps debt records in a map. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	records map[string]*models.DebtRecord
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{records: make(map[string]*models.DebtRecord)}
}

// Get retrieves a record, or (nil, nil) when the debtor has none.
func (s *Store) Get(_ context.Context, debtorID string) (*models.DebtRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[debtorID]
	if !ok {
		return nil, nil
	}
	return cloneRecord(rec), nil
}

// Put inserts or replaces a record.
func (s *Store) Put(_ context.Context, rec *models.DebtRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[rec.DebtorID] = cloneRecord(rec)
	return nil
}

// Delete removes a record; absent records are a no-op.
func (s *Store) Delete(_ context.Context, debtorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, debtorID)
	return nil
}

// List returns all records ordered by debtor ID.
func (s *Store) List(_ context.Context) ([]*models.DebtRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := make([]*models.DebtRecord, 0, len(s.records))
	for _, rec := range s.records {
		recs = append(recs, cloneRecord(rec))
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].DebtorID < recs[j].DebtorID })
	return recs, nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}

// cloneRecord copies a record so callers cannot mutate stored state
// through shared history slices.
func cloneRecord(rec *models.DebtRecord) *models.DebtRecord {
	out := *rec
	out.History = append([]models.DebtEntry(nil), rec.History...)
	return &out
}
