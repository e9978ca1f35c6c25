package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/morning-sprint/backend/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "journal.db"), "receipts")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func receipt(id, userID string, at time.Time) domain.ImportReceipt {
	return domain.ImportReceipt{
		ID:        id,
		UserID:    userID,
		CreatedAt: at,
		Summary:   domain.ImportSummary{OK: true},
	}
}

func TestAppendAndListByUser(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)

	if err := store.Append(ctx, receipt("r1", "me", base)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := store.Append(ctx, receipt("r2", "me", base.Add(time.Hour))); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := store.Append(ctx, receipt("r3", "someone-else", base)); err != nil {
		t.Fatalf("Append: %v", err)
	}

	receipts, err := store.ListByUser(ctx, "me")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(receipts) != 2 {
		t.Fatalf("got %d receipts, want 2", len(receipts))
	}
	if receipts[0].ID != "r2" || receipts[1].ID != "r1" {
		t.Errorf("receipts not newest first: %s, %s", receipts[0].ID, receipts[1].ID)
	}

	// A user id that happens to be a prefix of another must not leak rows.
	none, err := store.ListByUser(ctx, "m")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("prefix user leaked %d receipts", len(none))
	}
}

func TestAppendRejectsIncompleteReceipts(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Append(ctx, receipt("", "me", time.Now())); err == nil {
		t.Error("receipt without id accepted")
	}
	if err := store.Append(ctx, receipt("r1", "", time.Now())); err == nil {
		t.Error("receipt without user accepted")
	}
}

func TestPruneBefore(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)

	if err := store.Append(ctx, receipt("old", "me", base.AddDate(0, 0, -100))); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := store.Append(ctx, receipt("fresh", "me", base)); err != nil {
		t.Fatalf("Append: %v", err)
	}

	pruned, err := store.PruneBefore(base.AddDate(0, 0, -90))
	if err != nil {
		t.Fatalf("PruneBefore: %v", err)
	}
	if pruned != 1 {
		t.Errorf("pruned %d receipts, want 1", pruned)
	}

	size, err := store.Size()
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size != 1 {
		t.Errorf("size = %d after prune, want 1", size)
	}

	receipts, err := store.ListByUser(ctx, "me")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(receipts) != 1 || receipts[0].ID != "fresh" {
		t.Errorf("wrong survivor: %+v", receipts)
	}
}
