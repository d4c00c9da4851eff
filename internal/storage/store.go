// Package storage provides abstractions for persistent ledger storage.
package storage

import (
	"context"

	"github.com/hieudt/debitbot/internal/models"
)

// Store is the repository for debt records, keyed by debtor ID.
// This abstraction allows swapping storage backends (JSON file, SQLite,
// in-memory) without changing the ledger.
//
// Absence of a record means the debtor owes nothing: Get returns
// (nil, nil) for unknown debtors, and the ledger deletes records whose
// balance reaches zero rather than keeping zero rows.
type Store interface {
	// Get retrieves the record for one debtor, or (nil, nil) when none
	// exists.
	Get(ctx context.Context, debtorID string) (*models.DebtRecord, error)

	// Put inserts or replaces the record for rec.DebtorID.
	Put(ctx context.Context, rec *models.DebtRecord) error

	// Delete removes the debtor's record. Deleting an absent record is
	// not an error.
	Delete(ctx context.Context, debtorID string) error

	// List returns all records ordered by debtor ID.
	List(ctx context.Context) ([]*models.DebtRecord, error)

	// Close releases any resources held by the store.
	Close() error
}
