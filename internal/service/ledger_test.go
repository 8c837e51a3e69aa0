package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/DerDob/kleiderkammer/internal/domain"
	"github.com/DerDob/kleiderkammer/internal/repository/jsonfile"
	"github.com/DerDob/kleiderkammer/internal/service"
)

func newTestLedger(t *testing.T) *service.LedgerService {
	ledger, _ := newTestLedgerWithStore(t)
	return ledger
}

func newTestLedgerWithStore(t *testing.T) (*service.LedgerService, *jsonfile.Store) {
	t.Helper()
	dir := t.TempDir()
	store, err := jsonfile.Open(filepath.Join(dir, "clothing.json"), filepath.Join(dir, "lendings.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return service.NewLedgerService(store.Clothing(), store.Lendings()), store
}

func seedItem(t *testing.T, ledger *service.LedgerService, clothing, size string, count int) *domain.ClothingItem {
	t.Helper()
	item, err := ledger.AddItem(context.Background(), clothing, size, count)
	if err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return item
}

func TestLedger_AddItem_Validation(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	if _, err := ledger.AddItem(ctx, "", "M", 1); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("empty name: expected ErrInvalidInput, got %v", err)
	}
	if _, err := ledger.AddItem(ctx, "Jacket", "", 1); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("empty size: expected ErrInvalidInput, got %v", err)
	}
	if _, err := ledger.AddItem(ctx, "Jacket", "M", 0); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("zero count: expected ErrInvalidInput, got %v", err)
	}
	if _, err := ledger.AddItem(ctx, "Jacket", "M", -3); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("negative count: expected ErrInvalidInput, got %v", err)
	}
}

func TestLedger_AddItem_NoMergeOnCollision(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	first := seedItem(t, ledger, "Jacket", "M", 2)
	second := seedItem(t, ledger, "Jacket", "M", 5)

	if first.ID == second.ID {
		t.Fatal("identical name+size must still create distinct rows")
	}

	items, err := ledger.ListItems(ctx)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 distinct rows, got %d", len(items))
	}
}

func TestLedger_Issue_NotFound(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	seedItem(t, ledger, "Jacket", "M", 3)

	_, err := ledger.Issue(ctx, "no-such-id", "a@x.com")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// No state mutation on failure.
	lendings, err := ledger.ListLendings(ctx)
	if err != nil {
		t.Fatalf("ListLendings: %v", err)
	}
	if len(lendings) != 0 {
		t.Fatalf("expected no lendings after failed issue, got %d", len(lendings))
	}
}

func TestLedger_Issue_Unavailable(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	item := seedItem(t, ledger, "Jacket", "M", 1)

	if _, err := ledger.Issue(ctx, item.ID, "a@x.com"); err != nil {
		t.Fatalf("first issue: %v", err)
	}

	_, err := ledger.Issue(ctx, item.ID, "b@x.com")
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}

	got, err := ledger.GetItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.Count != 0 {
		t.Fatalf("failed issue must leave count at 0, got %d", got.Count)
	}
}

func TestLedger_IssueReturnScenario(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	item := seedItem(t, ledger, "Jacket", "M", 3)

	first, err := ledger.Issue(ctx, item.ID, "a@x.com")
	if err != nil {
		t.Fatalf("issue to a@x.com: %v", err)
	}
	assertCount(t, ledger, item.ID, 2)

	open, err := ledger.ListLendingsForUser(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("ListLendingsForUser: %v", err)
	}
	if len(open) != 1 || !open[0].Open() {
		t.Fatalf("expected one open lending for a@x.com, got %+v", open)
	}

	if _, err := ledger.Issue(ctx, item.ID, "b@x.com"); err != nil {
		t.Fatalf("issue to b@x.com: %v", err)
	}
	assertCount(t, ledger, item.ID, 1)

	returned, err := ledger.Return(ctx, first.ID)
	if err != nil {
		t.Fatalf("return: %v", err)
	}
	if returned.ReturnedAt == nil {
		t.Fatal("expected ReturnedAt to be set")
	}
	assertCount(t, ledger, item.ID, 2)

	_, err = ledger.Return(ctx, first.ID)
	if !errors.Is(err, domain.ErrAlreadyReturned) {
		t.Fatalf("second return: expected ErrAlreadyReturned, got %v", err)
	}
	assertCount(t, ledger, item.ID, 2)
}

func TestLedger_Return_NotFound(t *testing.T) {
	ledger := newTestLedger(t)

	_, err := ledger.Return(context.Background(), "no-such-lending")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLedger_Return_ToleratesMissingItem(t *testing.T) {
	ledger, store := newTestLedgerWithStore(t)
	ctx := context.Background()

	// A lending whose clothing item no longer exists. Returning must still
	// succeed, skipping the increment.
	lending := &domain.Lending{ClothingID: "gone", UserEmail: "a@x.com", IssuedAt: time.Now()}
	if err := store.Lendings().Create(ctx, lending); err != nil {
		t.Fatalf("create orphan lending: %v", err)
	}

	got, err := ledger.Return(ctx, lending.ID)
	if err != nil {
		t.Fatalf("return with missing item: %v", err)
	}
	if got.ReturnedAt == nil {
		t.Fatal("expected ReturnedAt to be set")
	}
}

func TestLedger_ConcurrentIssues_CountNeverNegative(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	const stock = 5
	const attempts = 20

	item := seedItem(t, ledger, "Jacket", "M", stock)

	var wg sync.WaitGroup
	issued := make(chan struct{}, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ledger.Issue(ctx, item.ID, "a@x.com"); err == nil {
				issued <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(issued)

	successes := len(issued)
	if successes != stock {
		t.Fatalf("expected exactly %d successful issues, got %d", stock, successes)
	}

	got, err := ledger.GetItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.Count != 0 {
		t.Fatalf("expected count 0 after exhausting stock, got %d", got.Count)
	}

	open, err := ledger.OpenLendingCounts(ctx)
	if err != nil {
		t.Fatalf("OpenLendingCounts: %v", err)
	}
	if open[item.ID] != stock {
		t.Fatalf("open lendings (%d) must not exceed original stock (%d)", open[item.ID], stock)
	}
}

func TestLedger_ConcurrentReturns_IncrementExactlyOnce(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	item := seedItem(t, ledger, "Jacket", "M", 1)
	lending, err := ledger.Issue(ctx, item.ID, "a@x.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var wg sync.WaitGroup
	returned := make(chan struct{}, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ledger.Return(ctx, lending.ID); err == nil {
				returned <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(returned)

	if len(returned) != 1 {
		t.Fatalf("expected exactly 1 successful return, got %d", len(returned))
	}
	assertCount(t, ledger, item.ID, 1)
}

func assertCount(t *testing.T, ledger *service.LedgerService, itemID string, want int) {
	t.Helper()
	item, err := ledger.GetItem(context.Background(), itemID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if item.Count != want {
		t.Fatalf("expected count %d, got %d", want, item.Count)
	}
}
