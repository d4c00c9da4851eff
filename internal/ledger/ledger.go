// Package ledger owns the authoritative debtor → outstanding-debt mapping.
//
// All operations are read-modify-write cycles against the backing store and
// run under a single mutex: the bot is driven by one inbound event stream,
// but if the surrounding runtime ever delivers two events concurrently, two
// additions to the same debtor must not lose an update.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hieudt/debitbot/internal/models"
	"github.com/hieudt/debitbot/internal/parser"
	"github.com/hieudt/debitbot/internal/storage"
)

// Service performs all debt mutations and queries. Lookups on unknown
// debtors return (nil, nil); only storage failures surface as errors.
type Service struct {
	mu    sync.Mutex
	store storage.Store
	now   func() time.Time
}

// New creates a ledger service on top of the given store.
func New(store storage.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// DebtInfo is a point-in-time view of one debtor's record.
type DebtInfo struct {
	DebtorID   string
	CreditorID string
	Total      float64
	TotalText  string
	History    []models.DebtEntry
}

// AddResult reports a debt addition: the balance before, the amount just
// added, and the balance after, each with its display rendering.
type AddResult struct {
	OldTotal       float64
	AddedTotal     float64
	NewTotal       float64
	OldTotalText   string
	AddedTotalText string
	NewTotalText   string
	// CreditorID is the creditor of record after the addition. When the
	// record already existed this is the original creditor, not the
	// caller of this addition.
	CreditorID string
}

// PayResult reports a partial payment.
type PayResult struct {
	OldTotal           float64
	PaidAmount         float64
	RemainingTotal     float64
	OldTotalText       string
	PaidAmountText     string
	RemainingTotalText string
}

// Get returns the debtor's current record, or (nil, nil) when the debtor
// owes nothing.
func (s *Service) Get(ctx context.Context, debtorID string) (*DebtInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(ctx, debtorID)
}

func (s *Service) get(ctx context.Context, debtorID string) (*DebtInfo, error) {
	rec, err := s.store.Get(ctx, debtorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load debt record: %w", err)
	}
	if rec == nil {
		return nil, nil
	}
	return infoFromRecord(rec), nil
}

// Add canonicalizes each token, adds their sum to the debtor's balance and
// appends one history entry per token. The record-level creditor is sticky:
// it is set on record creation and kept on every later addition, even when
// creditorID differs. Each history entry still records the creditor that
// supplied it.
func (s *Service) Add(ctx context.Context, debtorID string, tokens []string, creditorID string) (*AddResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.store.Get(ctx, debtorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load debt record: %w", err)
	}

	now := s.now()

	var added float64
	entries := make([]models.DebtEntry, 0, len(tokens))
	for _, tok := range tokens {
		amount := parser.Canonicalize(tok)
		added += amount
		entries = append(entries, models.DebtEntry{
			Amount:     amount,
			AmountText: tok,
			Timestamp:  now,
			CreditorID: creditorID,
		})
	}

	var old float64
	if rec == nil {
		rec = &models.DebtRecord{
			DebtorID:   debtorID,
			CreditorID: creditorID,
		}
	} else {
		old = rec.Total
		if rec.CreditorID == "" {
			rec.CreditorID = creditorID
		}
	}

	rec.Total = old + added
	rec.LastUpdated = now
	rec.History = append(rec.History, entries...)

	if err := s.store.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save debt record: %w", err)
	}

	slog.Info("debt added",
		"debtor_id", debtorID,
		"creditor_id", rec.CreditorID,
		"added", added,
		"total", rec.Total,
		"entries", len(entries),
	)

	return &AddResult{
		OldTotal:       old,
		AddedTotal:     added,
		NewTotal:       rec.Total,
		OldTotalText:   parser.Format(old),
		AddedTotalText: parser.Format(added),
		NewTotalText:   parser.Format(rec.Total),
		CreditorID:     rec.CreditorID,
	}, nil
}

// Reduce records a partial payment. amountText is canonicalized the same
// way debt tokens are. Overpayment clamps the balance at zero, and a
// balance that reaches exactly zero deletes the record. Returns (nil, nil)
// when the debtor owes nothing. The payment itself is not appended to the
// history; only additions are logged.
func (s *Service) Reduce(ctx context.Context, debtorID, amountText string) (*PayResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.store.Get(ctx, debtorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load debt record: %w", err)
	}
	if rec == nil {
		return nil, nil
	}

	old := rec.Total
	paid := parser.Canonicalize(amountText)
	remaining := old - paid
	if remaining < 0 {
		remaining = 0
	}

	if remaining == 0 {
		if err := s.store.Delete(ctx, debtorID); err != nil {
			return nil, fmt.Errorf("failed to delete settled record: %w", err)
		}
	} else {
		rec.Total = remaining
		rec.LastUpdated = s.now()
		if err := s.store.Put(ctx, rec); err != nil {
			return nil, fmt.Errorf("failed to save debt record: %w", err)
		}
	}

	slog.Info("payment recorded",
		"debtor_id", debtorID,
		"paid", paid,
		"remaining", remaining,
	)

	return &PayResult{
		OldTotal:           old,
		PaidAmount:         paid,
		RemainingTotal:     remaining,
		OldTotalText:       parser.Format(old),
		PaidAmountText:     parser.Format(paid),
		RemainingTotalText: parser.Format(remaining),
	}, nil
}

// Clear deletes the debtor's record regardless of balance and reports
// whether one existed. Authorization (creditor-of-record only) is the
// caller's responsibility; Clear itself is unconditional.
func (s *Service) Clear(ctx context.Context, debtorID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.store.Get(ctx, debtorID)
	if err != nil {
		return false, fmt.Errorf("failed to load debt record: %w", err)
	}
	if rec == nil {
		return false, nil
	}

	if err := s.store.Delete(ctx, debtorID); err != nil {
		return false, fmt.Errorf("failed to delete debt record: %w", err)
	}

	slog.Info("debt cleared", "debtor_id", debtorID, "total", rec.Total)
	return true, nil
}

// List returns every outstanding record, ordered by debtor ID.
func (s *Service) List(ctx context.Context) ([]*DebtInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list debt records: %w", err)
	}

	infos := make([]*DebtInfo, 0, len(recs))
	for _, rec := range recs {
		infos = append(infos, infoFromRecord(rec))
	}
	return infos, nil
}

func infoFromRecord(rec *models.DebtRecord) *DebtInfo {
	return &DebtInfo{
		DebtorID:   rec.DebtorID,
		CreditorID: rec.CreditorID,
		Total:      rec.Total,
		TotalText:  parser.Format(rec.Total),
		History:    rec.History,
	}
}
