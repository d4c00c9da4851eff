package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hieudt/debitbot/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "debts.json"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func testRecord() *models.DebtRecord {
	ts := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return &models.DebtRecord{
		DebtorID:    "debtor",
		CreditorID:  "creditor",
		Total:       2050000,
		LastUpdated: ts,
		History: []models.DebtEntry{
			{Amount: 50000, AmountText: "50k", Timestamp: ts, CreditorID: "creditor"},
			{Amount: 2000000, AmountText: "2tr", Timestamp: ts, CreditorID: "creditor"},
		},
	}
}

func TestPutGetDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	got, err := store.Get(ctx, "debtor")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected absent record before Put, got %+v", got)
	}

	rec := testRecord()
	if err := store.Put(ctx, rec); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err = store.Get(ctx, "debtor")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected a record")
	}
	if got.CreditorID != "creditor" || got.Total != 2050000 {
		t.Errorf("record = %+v", got)
	}
	if len(got.History) != 2 || got.History[0].AmountText != "50k" || got.History[1].AmountText != "2tr" {
		t.Errorf("history = %+v", got.History)
	}

	if err := store.Delete(ctx, "debtor"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got, _ := store.Get(ctx, "debtor"); got != nil {
		t.Errorf("expected record gone after Delete, got %+v", got)
	}

	// Deleting again is a no-op.
	if err := store.Delete(ctx, "debtor"); err != nil {
		t.Errorf("Delete of absent record failed: %v", err)
	}
}

func TestListOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, id := range []string{"carol", "alice", "bob"} {
		rec := testRecord()
		rec.DebtorID = id
		if err := store.Put(ctx, rec); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	recs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("List length = %d, want 3", len(recs))
	}
	for i, want := range []string{"alice", "bob", "carol"} {
		if recs[i].DebtorID != want {
			t.Errorf("recs[%d] = %s, want %s", i, recs[i].DebtorID, want)
		}
	}
}

// TestWireFormat pins the on-disk JSON shape: one object keyed by debtor
// ID, ISO-8601 timestamps, and the documented field names.
func TestWireFormat(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "debts.json")
	store, err := New(path)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	if err := store.Put(ctx, testRecord()); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read ledger file: %v", err)
	}

	var raw map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("ledger file is not a JSON object of records: %v", err)
	}

	rec, ok := raw["debtor"]
	if !ok {
		t.Fatalf("top-level key should be the debtor ID, got %v", raw)
	}
	for _, field := range []string{"userId", "creditorId", "totalDebt", "lastUpdated", "history"} {
		if _, ok := rec[field]; !ok {
			t.Errorf("record is missing field %q", field)
		}
	}

	var lastUpdated string
	if err := json.Unmarshal(rec["lastUpdated"], &lastUpdated); err != nil {
		t.Fatalf("lastUpdated is not a string: %v", err)
	}
	if _, err := time.Parse(time.RFC3339, lastUpdated); err != nil {
		t.Errorf("lastUpdated %q is not ISO-8601: %v", lastUpdated, err)
	}

	var history []map[string]json.RawMessage
	if err := json.Unmarshal(rec["history"], &history); err != nil {
		t.Fatalf("history is not an array: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	for _, field := range []string{"amount", "amountFormatted", "timestamp", "creditorId"} {
		if _, ok := history[0][field]; !ok {
			t.Errorf("history entry is missing field %q", field)
		}
	}
}

// A corrupt ledger file must fail loudly, not read as an empty ledger.
func TestCorruptFileIsAnError(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "debts.json")
	store, err := New(path)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}

	if _, err := store.Get(ctx, "debtor"); err == nil {
		t.Error("Get on corrupt file should fail")
	}
	if _, err := store.List(ctx); err == nil {
		t.Error("List on corrupt file should fail")
	}
	if err := store.Put(ctx, testRecord()); err == nil {
		t.Error("Put on corrupt file should fail rather than overwrite")
	}
}

func TestAbsentFileIsEmpty(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	recs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("expected empty ledger, got %d records", len(recs))
	}
}
