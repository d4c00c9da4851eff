package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hieudt/debitbot/internal/models"
	"github.com/hieudt/debitbot/internal/storage/memory"
)

func newTestService() *Service {
	svc := New(memory.New())
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh debtor", func(t *testing.T) {
		svc := newTestService()

		res, err := svc.Add(ctx, "debtor", []string{"50k"}, "creditor")
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if res.OldTotal != 0 || res.AddedTotal != 50000 || res.NewTotal != 50000 {
			t.Errorf("totals = %v/%v/%v, want 0/50000/50000", res.OldTotal, res.AddedTotal, res.NewTotal)
		}
		if res.CreditorID != "creditor" {
			t.Errorf("CreditorID = %q, want %q", res.CreditorID, "creditor")
		}

		info, err := svc.Get(ctx, "debtor")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if info == nil {
			t.Fatal("expected a record")
		}
		if len(info.History) != 1 {
			t.Fatalf("history length = %d, want 1", len(info.History))
		}
		if info.History[0].AmountText != "50k" || info.History[0].Amount != 50000 {
			t.Errorf("history entry = %+v, want 50k/50000", info.History[0])
		}
	})

	t.Run("creditor is sticky across additions", func(t *testing.T) {
		svc := newTestService()

		if _, err := svc.Add(ctx, "debtor", []string{"50k"}, "first"); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		res, err := svc.Add(ctx, "debtor", []string{"20k"}, "second")
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if res.NewTotal != 70000 {
			t.Errorf("NewTotal = %v, want 70000", res.NewTotal)
		}
		if res.CreditorID != "first" {
			t.Errorf("creditor of record = %q, want %q", res.CreditorID, "first")
		}

		// The entry itself still records who supplied it.
		info, _ := svc.Get(ctx, "debtor")
		if info.History[1].CreditorID != "second" {
			t.Errorf("entry creditor = %q, want %q", info.History[1].CreditorID, "second")
		}
	})

	t.Run("one history entry per token", func(t *testing.T) {
		svc := newTestService()

		res, err := svc.Add(ctx, "debtor", []string{"50k", "2tr"}, "creditor")
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if res.NewTotal != 2050000 {
			t.Errorf("NewTotal = %v, want 2050000", res.NewTotal)
		}

		info, _ := svc.Get(ctx, "debtor")
		if len(info.History) != 2 {
			t.Fatalf("history length = %d, want 2", len(info.History))
		}
	})

	t.Run("zero-value tokens are still logged", func(t *testing.T) {
		svc := newTestService()

		res, err := svc.Add(ctx, "debtor", []string{"0k"}, "creditor")
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if res.NewTotal != 0 {
			t.Errorf("NewTotal = %v, want 0", res.NewTotal)
		}

		info, _ := svc.Get(ctx, "debtor")
		if info == nil || len(info.History) != 1 {
			t.Fatalf("expected a record with one entry, got %+v", info)
		}
	})
}

func TestReduce(t *testing.T) {
	ctx := context.Background()

	t.Run("partial payment keeps history", func(t *testing.T) {
		svc := newTestService()
		mustAdd(t, svc, "debtor", []string{"50k", "20k"}, "creditor")

		res, err := svc.Reduce(ctx, "debtor", "20k")
		if err != nil {
			t.Fatalf("Reduce failed: %v", err)
		}
		if res == nil {
			t.Fatal("expected a result")
		}
		if res.OldTotal != 70000 || res.PaidAmount != 20000 || res.RemainingTotal != 50000 {
			t.Errorf("result = %v/%v/%v, want 70000/20000/50000", res.OldTotal, res.PaidAmount, res.RemainingTotal)
		}

		info, _ := svc.Get(ctx, "debtor")
		if len(info.History) != 2 {
			t.Errorf("history length = %d, want 2 (payments are not logged)", len(info.History))
		}
	})

	t.Run("full payment deletes the record", func(t *testing.T) {
		svc := newTestService()
		mustAdd(t, svc, "debtor", []string{"50k", "20k"}, "creditor")

		res, err := svc.Reduce(ctx, "debtor", "70k")
		if err != nil {
			t.Fatalf("Reduce failed: %v", err)
		}
		if res.RemainingTotal != 0 {
			t.Errorf("RemainingTotal = %v, want 0", res.RemainingTotal)
		}

		info, err := svc.Get(ctx, "debtor")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if info != nil {
			t.Errorf("expected record to be deleted, got %+v", info)
		}
	})

	t.Run("overpayment clamps at zero", func(t *testing.T) {
		svc := newTestService()
		mustAdd(t, svc, "debtor", []string{"50k"}, "creditor")

		res, err := svc.Reduce(ctx, "debtor", "60k")
		if err != nil {
			t.Fatalf("Reduce failed: %v", err)
		}
		if res.RemainingTotal != 0 {
			t.Errorf("RemainingTotal = %v, want 0 (never negative)", res.RemainingTotal)
		}

		if info, _ := svc.Get(ctx, "debtor"); info != nil {
			t.Errorf("expected record to be deleted, got %+v", info)
		}
	})

	t.Run("unknown debtor is absent", func(t *testing.T) {
		svc := newTestService()

		res, err := svc.Reduce(ctx, "nobody", "50k")
		if err != nil {
			t.Fatalf("Reduce failed: %v", err)
		}
		if res != nil {
			t.Errorf("expected nil result, got %+v", res)
		}
	})
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	existed, err := svc.Clear(ctx, "nobody")
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if existed {
		t.Error("Clear on unknown debtor should report false")
	}

	mustAdd(t, svc, "debtor", []string{"50k"}, "creditor")
	existed, err = svc.Clear(ctx, "debtor")
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if !existed {
		t.Error("Clear on existing debtor should report true")
	}

	if info, _ := svc.Get(ctx, "debtor"); info != nil {
		t.Errorf("expected record to be deleted, got %+v", info)
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	mustAdd(t, svc, "bob", []string{"50k"}, "alice")
	mustAdd(t, svc, "carol", []string{"2tr"}, "alice")

	infos, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("List length = %d, want 2", len(infos))
	}
	if infos[0].DebtorID != "bob" || infos[1].DebtorID != "carol" {
		t.Errorf("List order = %s, %s, want bob, carol", infos[0].DebtorID, infos[1].DebtorID)
	}
}

// TestConcurrentAdditions exercises the read-modify-write serialization:
// two concurrent streams of additions to the same debtor must not lose an
// update.
func TestConcurrentAdditions(t *testing.T) {
	ctx := context.Background()
	svc := New(memory.New())

	const perWorker = 50
	var wg sync.WaitGroup
	for w := 0; w < 2; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if _, err := svc.Add(ctx, "debtor", []string{"1k"}, "creditor"); err != nil {
					t.Errorf("Add failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	info, err := svc.Get(ctx, "debtor")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if want := float64(2 * perWorker * 1000); info.Total != want {
		t.Errorf("Total = %v, want %v (lost update)", info.Total, want)
	}
	if len(info.History) != 2*perWorker {
		t.Errorf("history length = %d, want %d", len(info.History), 2*perWorker)
	}
}

// failingStore reports an error on every operation, standing in for a
// broken persistence layer.
type failingStore struct{}

var errBroken = errors.New("disk on fire")

func (failingStore) Get(context.Context, string) (*models.DebtRecord, error) { return nil, errBroken }
func (failingStore) Put(context.Context, *models.DebtRecord) error           { return errBroken }
func (failingStore) Delete(context.Context, string) error                    { return errBroken }
func (failingStore) List(context.Context) ([]*models.DebtRecord, error)      { return nil, errBroken }
func (failingStore) Close() error                                            { return nil }

// A failed read surfaces as an error instead of being treated as an
// empty ledger.
func TestPersistenceFailureSurfaces(t *testing.T) {
	ctx := context.Background()
	svc := New(failingStore{})

	if _, err := svc.Get(ctx, "debtor"); !errors.Is(err, errBroken) {
		t.Errorf("Get error = %v, want %v", err, errBroken)
	}
	if _, err := svc.Add(ctx, "debtor", []string{"50k"}, "creditor"); !errors.Is(err, errBroken) {
		t.Errorf("Add error = %v, want %v", err, errBroken)
	}
	if _, err := svc.List(ctx); !errors.Is(err, errBroken) {
		t.Errorf("List error = %v, want %v", err, errBroken)
	}
}

func mustAdd(t *testing.T, svc *Service, debtorID string, tokens []string, creditorID string) {
	t.Helper()
	if _, err := svc.Add(context.Background(), debtorID, tokens, creditorID); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
}
