package auditlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndSize(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := store.RecordTaskAction(ctx, "create", "task-1", "user-1"); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	size, err := store.Size()
	if err != nil {
		t.Fatalf("size: %v", err)
	}
	if size != 3 {
		t.Fatalf("size = %d, want 3", size)
	}
}

func TestPruneRemovesOnlyOldEntries(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.RecordTaskAction(ctx, "create", "task-1", "user-1"); err != nil {
		t.Fatalf("record: %v", err)
	}
	cutoff := time.Now().Add(time.Millisecond)
	time.Sleep(2 * time.Millisecond)
	if err := store.RecordTaskAction(ctx, "delete", "task-1", "user-1"); err != nil {
		t.Fatalf("record: %v", err)
	}

	removed, err := store.Prune(cutoff)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}

	size, err := store.Size()
	if err != nil {
		t.Fatalf("size: %v", err)
	}
	if size != 1 {
		t.Fatalf("size after prune = %d, want 1", size)
	}
}
