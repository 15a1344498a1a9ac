package kvstore

import (
	"context"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *SQLite {
	t.Helper()

	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func TestSQLiteRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, ok, err := store.Load(ctx, "missing")
	if err != nil {
		t.Errorf("Load returned error for missing key: %v", err)
	}
	if ok {
		t.Error("Expected miss for missing key")
	}

	if err := store.Save(ctx, "cache:cart:u1", []byte(`{"items":[]}`)); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	value, ok, err := store.Load(ctx, "cache:cart:u1")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !ok {
		t.Fatal("Expected hit after Save")
	}
	if string(value) != `{"items":[]}` {
		t.Errorf("Unexpected value: %s", value)
	}

	// Overwrite replaces
	if err := store.Save(ctx, "cache:cart:u1", []byte("v2")); err != nil {
		t.Fatal(err)
	}
	value, _, _ = store.Load(ctx, "cache:cart:u1")
	if string(value) != "v2" {
		t.Errorf("Expected overwritten value, got %s", value)
	}

	if err := store.Remove(ctx, "cache:cart:u1"); err != nil {
		t.Errorf("Remove returned error: %v", err)
	}
	if _, ok, _ := store.Load(ctx, "cache:cart:u1"); ok {
		t.Error("Expected miss after Remove")
	}
}

func TestSQLiteClearAndStats(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	store.Save(ctx, "k1", []byte("v1"))
	store.Save(ctx, "k2", []byte("v2"))

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.TotalEntries != 2 {
		t.Errorf("Expected 2 entries, got %d", stats.TotalEntries)
	}
	if stats.SizeBytes <= 0 {
		t.Errorf("Expected positive database size, got %d", stats.SizeBytes)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}

	stats, _ = store.Stats(ctx)
	if stats.TotalEntries != 0 {
		t.Errorf("Expected 0 entries after clear, got %d", stats.TotalEntries)
	}
}

func TestSQLitePrune(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	store.Save(ctx, "old", []byte("v"))
	store.Save(ctx, "new", []byte("v"))

	// Everything was written just now; a cutoff in the past removes nothing
	removed, err := store.Prune(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("Prune returned error: %v", err)
	}
	if removed != 0 {
		t.Errorf("Expected nothing pruned, got %d", removed)
	}

	// A future cutoff removes everything
	removed, err = store.Prune(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Prune returned error: %v", err)
	}
	if removed != 2 {
		t.Errorf("Expected 2 pruned entries, got %d", removed)
	}
}
