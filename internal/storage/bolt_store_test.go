package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"prompt-engine/internal/types"
)

func newTestStore(t *testing.T) *BoltPromptStore {
	t.Helper()
	store, err := NewBoltPromptStore(filepath.Join(t.TempDir(), "prompts.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func embedding(v float32) types.Vector {
	vec := make(types.Vector, types.Dimension)
	vec[0] = v
	return vec
}

func TestBoltPromptStoreInsertAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	record, err := store.Insert(ctx, "alice", "hello", "Hello!", embedding(1))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if record.ID == "" {
		t.Fatal("Expected assigned id")
	}
	if record.CreatedAt.IsZero() {
		t.Fatal("Expected assigned timestamp")
	}

	got, err := store.Get(ctx, record.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Owner != "alice" || got.PromptText != "hello" || got.ResponseText != "Hello!" {
		t.Fatalf("Roundtrip mismatch: %+v", got)
	}
	if len(got.Embedding) != types.Dimension {
		t.Fatalf("Embedding not persisted: %d dims", len(got.Embedding))
	}
}

func TestBoltPromptStoreGetUnknown(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "no-such-id")
	if !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestBoltPromptStoreListByOwnerNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, _ := store.Insert(ctx, "alice", "first", "r1", embedding(1))
	second, _ := store.Insert(ctx, "alice", "second", "r2", embedding(2))
	store.Insert(ctx, "bob", "other", "r3", embedding(3))

	records, err := store.ListByOwner(ctx, "alice")
	if err != nil {
		t.Fatalf("ListByOwner failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records for alice, got %d", len(records))
	}
	if records[0].ID != second.ID || records[1].ID != first.ID {
		t.Fatalf("Expected newest-first ordering, got %s then %s", records[0].PromptText, records[1].PromptText)
	}
}

func TestBoltPromptStoreListWithEmbeddingStableOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a, _ := store.Insert(ctx, "alice", "a", "r", embedding(1))
	noEmb, _ := store.Insert(ctx, "alice", "b", "r", nil)
	c, _ := store.Insert(ctx, "bob", "c", "r", embedding(2))

	rows, err := store.ListWithEmbedding(ctx)
	if err != nil {
		t.Fatalf("ListWithEmbedding failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows with embeddings, got %d", len(rows))
	}
	if rows[0].ID != a.ID || rows[1].ID != c.ID {
		t.Fatal("Expected insertion-order iteration")
	}
	for _, row := range rows {
		if row.ID == noEmb.ID {
			t.Fatal("Row without embedding should be excluded")
		}
	}

	// Same store, same call: order must not change.
	again, err := store.ListWithEmbedding(ctx)
	if err != nil {
		t.Fatalf("Second ListWithEmbedding failed: %v", err)
	}
	for i := range rows {
		if again[i].ID != rows[i].ID {
			t.Fatal("Iteration order not stable across calls")
		}
	}
}

func TestBoltPromptStoreFilterByIDsAndOwner(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mine, _ := store.Insert(ctx, "alice", "mine", "r", embedding(1))
	theirs, _ := store.Insert(ctx, "bob", "theirs", "r", embedding(2))

	records, err := store.FilterByIDsAndOwner(ctx, []string{mine.ID, theirs.ID, "ghost"}, "alice")
	if err != nil {
		t.Fatalf("FilterByIDsAndOwner failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0].ID != mine.ID {
		t.Fatalf("Expected alice's record, got %s", records[0].ID)
	}
}

func TestBoltPromptStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.db")
	ctx := context.Background()

	store, err := NewBoltPromptStore(path)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	record, err := store.Insert(ctx, "alice", "hello", "r", embedding(1))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewBoltPromptStore(path)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, record.ID)
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if got.PromptText != "hello" {
		t.Fatalf("Record changed across reopen: %+v", got)
	}
}
