package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"souq/internal/kvstore"
)

const testVersion = "1.2.0"

type payload struct {
	ID int `json:"id"`
}

func newTestManager(t *testing.T, store kvstore.Store, opts ...Option) *Manager {
	t.Helper()
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return New(store, testVersion, opts...)
}

// writeEntry seeds the store with an entry bypassing the manager, so tests
// can fabricate old timestamps and foreign versions.
func writeEntry(t *testing.T, store kvstore.Store, storeKey string, value any, writtenAt time.Time, version string) {
	t.Helper()

	data, err := json.Marshal(value)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := json.Marshal(Entry{
		Data:      data,
		Timestamp: writtenAt.UnixMilli(),
		Version:   version,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save(context.Background(), storeKey, raw); err != nil {
		t.Fatal(err)
	}
}

// waitForWrite polls until the detached write after a fresh fetch lands.
func waitForWrite(t *testing.T, store *kvstore.Memory, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for store.Len() < want {
		if time.Now().After(deadline) {
			t.Fatalf("store never reached %d entries", want)
		}
		time.Sleep(time.Millisecond)
	}
}

func countingFetch(result payload, err error) (func(context.Context) (payload, error), *atomic.Int32) {
	var calls atomic.Int32
	return func(ctx context.Context) (payload, error) {
		calls.Add(1)
		return result, err
	}, &calls
}

func TestLookupHitSkipsFetch(t *testing.T) {
	store := kvstore.NewMemory()
	m := newTestManager(t, store)

	// Entry written 10s ago with the current version is a hit at ttl=5m
	writeEntry(t, store, "cache:products", payload{ID: 7}, time.Now().Add(-10*time.Second), testVersion)

	fetch, calls := countingFetch(payload{ID: 99}, nil)
	value, ok := Lookup(context.Background(), m, "products", fetch, Config{})

	if !ok {
		t.Fatal("Expected a hit")
	}
	if value.ID != 7 {
		t.Errorf("Expected cached value 7, got %d", value.ID)
	}
	if calls.Load() != 0 {
		t.Errorf("Expected fetch never invoked on a hit, got %d calls", calls.Load())
	}
}

func TestLookupMissFetchesThenHits(t *testing.T) {
	store := kvstore.NewMemory()
	m := newTestManager(t, store)

	fetch, calls := countingFetch(payload{ID: 1}, nil)

	value, ok := Lookup(context.Background(), m, "products", fetch, Config{})
	if !ok || value.ID != 1 {
		t.Fatalf("Expected fetched value 1, got %+v ok=%v", value, ok)
	}
	if calls.Load() != 1 {
		t.Fatalf("Expected exactly 1 fetch, got %d", calls.Load())
	}

	// The write after a fresh fetch is detached; wait for it to land
	waitForWrite(t, store, 1)

	value, ok = Lookup(context.Background(), m, "products", fetch, Config{})
	if !ok || value.ID != 1 {
		t.Fatalf("Expected cached value 1 on second call, got %+v ok=%v", value, ok)
	}
	if calls.Load() != 1 {
		t.Errorf("Expected no second fetch, got %d calls", calls.Load())
	}
}

func TestLookupExpiredEntryRefetches(t *testing.T) {
	store := kvstore.NewMemory()
	m := newTestManager(t, store)

	writeEntry(t, store, "cache:products", payload{ID: 1}, time.Now().Add(-time.Hour), testVersion)

	fetch, calls := countingFetch(payload{ID: 2}, nil)
	value, ok := Lookup(context.Background(), m, "products", fetch, Config{TTL: time.Minute})

	if !ok || value.ID != 2 {
		t.Fatalf("Expected fresh value 2, got %+v ok=%v", value, ok)
	}
	if calls.Load() != 1 {
		t.Errorf("Expected 1 fetch for expired entry, got %d", calls.Load())
	}
}

func TestLookupStaleFallbackBeatsFetchError(t *testing.T) {
	store := kvstore.NewMemory()
	m := newTestManager(t, store)

	// Expired entry
	writeEntry(t, store, "cache:products", payload{ID: 5}, time.Now().Add(-time.Hour), testVersion)

	fetch, _ := countingFetch(payload{}, errors.New("backend down"))
	value, ok := Lookup(context.Background(), m, "products", fetch, Config{TTL: time.Minute})

	if !ok {
		t.Fatal("Expected stale fallback, got miss")
	}
	if value.ID != 5 {
		t.Errorf("Expected stale value 5, got %d", value.ID)
	}
}

func TestLookupVersionGatesHitsNotFallback(t *testing.T) {
	store := kvstore.NewMemory()
	m := newTestManager(t, store)

	// Fresh timestamp but written by an older build
	writeEntry(t, store, "cache:products", payload{ID: 5}, time.Now(), "1.0.0")

	// A working fetch wins over the wrong-version entry
	fetch, calls := countingFetch(payload{ID: 6}, nil)
	value, ok := Lookup(context.Background(), m, "products", fetch, Config{})
	if !ok || value.ID != 6 {
		t.Fatalf("Expected fresh value 6, got %+v ok=%v", value, ok)
	}
	if calls.Load() != 1 {
		t.Errorf("Expected wrong-version entry to force a fetch, got %d calls", calls.Load())
	}

	// But the same entry still serves as fallback when the fetch fails
	store2 := kvstore.NewMemory()
	m2 := newTestManager(t, store2)
	writeEntry(t, store2, "cache:products", payload{ID: 5}, time.Now(), "1.0.0")

	failing, _ := countingFetch(payload{}, errors.New("backend down"))
	value, ok = Lookup(context.Background(), m2, "products", failing, Config{})
	if !ok || value.ID != 5 {
		t.Errorf("Expected wrong-version fallback value 5, got %+v ok=%v", value, ok)
	}
}

func TestLookupTotalFailureReturnsMiss(t *testing.T) {
	store := kvstore.NewMemory()
	m := newTestManager(t, store)

	fetch, _ := countingFetch(payload{}, errors.New("backend down"))
	value, ok := Lookup(context.Background(), m, "products", fetch, Config{})

	if ok {
		t.Error("Expected miss when fetch fails and nothing is cached")
	}
	if value.ID != 0 {
		t.Errorf("Expected zero value, got %+v", value)
	}
}

func TestLookupBoundedByFetchTimeout(t *testing.T) {
	store := kvstore.NewMemory()
	m := newTestManager(t, store)

	hanging := func(ctx context.Context) (payload, error) {
		<-ctx.Done()
		return payload{}, ctx.Err()
	}

	start := time.Now()
	_, ok := Lookup(context.Background(), m, "products", hanging, Config{Timeout: 30 * time.Millisecond})
	elapsed := time.Since(start)

	if ok {
		t.Error("Expected miss from hanging fetch with empty store")
	}
	if elapsed > time.Second {
		t.Errorf("Lookup exceeded its latency bound: %v", elapsed)
	}
}

func TestLookupReadErrorTreatedAsMiss(t *testing.T) {
	store := kvstore.NewMemory()
	m := newTestManager(t, store)

	store.FailLoads(errors.New("io error"))

	fetch, calls := countingFetch(payload{ID: 3}, nil)
	value, ok := Lookup(context.Background(), m, "products", fetch, Config{})

	if !ok || value.ID != 3 {
		t.Fatalf("Expected fetch to cover for the broken store, got %+v ok=%v", value, ok)
	}
	if calls.Load() != 1 {
		t.Errorf("Expected 1 fetch, got %d", calls.Load())
	}
}

func TestLookupSlowReadTreatedAsMiss(t *testing.T) {
	oldBound := readBound
	readBound = 20 * time.Millisecond
	defer func() { readBound = oldBound }()

	store := kvstore.NewMemory()
	m := newTestManager(t, store)

	writeEntry(t, store, "cache:products", payload{ID: 1}, time.Now(), testVersion)
	store.SlowLoads(200 * time.Millisecond)

	fetch, calls := countingFetch(payload{ID: 2}, nil)
	value, ok := Lookup(context.Background(), m, "products", fetch, Config{})

	if !ok || value.ID != 2 {
		t.Fatalf("Expected fresh value when the store is slow, got %+v ok=%v", value, ok)
	}
	if calls.Load() != 1 {
		t.Errorf("Expected slow read to count as a miss, got %d fetches", calls.Load())
	}
}

func TestInvalidateForcesRefetch(t *testing.T) {
	store := kvstore.NewMemory()
	m := newTestManager(t, store)
	ctx := context.Background()

	writeEntry(t, store, "cache:products", payload{ID: 1}, time.Now(), testVersion)

	m.Invalidate(ctx, "products", "")

	fetch, calls := countingFetch(payload{ID: 2}, nil)
	value, ok := Lookup(ctx, m, "products", fetch, Config{})

	if !ok || value.ID != 2 {
		t.Fatalf("Expected refetched value 2, got %+v ok=%v", value, ok)
	}
	if calls.Load() != 1 {
		t.Errorf("Expected invalidation to force a fetch, got %d calls", calls.Load())
	}

	// Invalidating an absent key is fine
	m.Invalidate(ctx, "nonexistent", "")
}

// flakyStore fails removes for exactly one key
type flakyStore struct {
	*kvstore.Memory
	failKey string
}

func (f *flakyStore) Remove(ctx context.Context, key string) error {
	if key == f.failKey {
		return fmt.Errorf("remove %s: io error", key)
	}
	return f.Memory.Remove(ctx, key)
}

func TestInvalidateAllPartialFailureIsolation(t *testing.T) {
	mem := kvstore.NewMemory()
	store := &flakyStore{Memory: mem, failKey: "cache:k1"}
	m := newTestManager(t, store)
	ctx := context.Background()

	writeEntry(t, mem, "cache:k1", payload{ID: 1}, time.Now(), testVersion)
	writeEntry(t, mem, "cache:k2", payload{ID: 2}, time.Now(), testVersion)

	m.InvalidateAll(ctx, []string{"k1", "k2"}, "")

	if _, ok, _ := mem.Load(ctx, "cache:k2"); ok {
		t.Error("Expected k2 deleted even though deleting k1 failed")
	}
	if _, ok, _ := mem.Load(ctx, "cache:k1"); !ok {
		t.Error("Expected k1 to survive its failed delete")
	}
}

func TestValid(t *testing.T) {
	store := kvstore.NewMemory()
	m := newTestManager(t, store)
	ctx := context.Background()

	if m.Valid(ctx, "products", time.Minute, "") {
		t.Error("Expected false for missing entry")
	}

	writeEntry(t, store, "cache:products", payload{ID: 1}, time.Now(), testVersion)
	if !m.Valid(ctx, "products", time.Minute, "") {
		t.Error("Expected true for fresh entry")
	}

	writeEntry(t, store, "cache:old", payload{ID: 1}, time.Now().Add(-time.Hour), testVersion)
	if m.Valid(ctx, "old", time.Minute, "") {
		t.Error("Expected false for expired entry")
	}

	writeEntry(t, store, "cache:foreign", payload{ID: 1}, time.Now(), "0.9.0")
	if m.Valid(ctx, "foreign", time.Minute, "") {
		t.Error("Expected false for wrong-version entry")
	}

	store.FailLoads(errors.New("io error"))
	if m.Valid(ctx, "products", time.Minute, "") {
		t.Error("Expected false on read error")
	}
}

func TestWarm(t *testing.T) {
	store := kvstore.NewMemory()
	m := newTestManager(t, store)
	ctx := context.Background()

	fetch, calls := countingFetch(payload{ID: 4}, nil)
	Warm(ctx, m, "products", fetch, Config{})

	if calls.Load() != 1 {
		t.Fatalf("Expected 1 fetch, got %d", calls.Load())
	}
	if !m.Valid(ctx, "products", time.Minute, "") {
		t.Error("Expected warmed entry to be valid")
	}

	// A failing fetch writes nothing and does not panic
	failing, _ := countingFetch(payload{}, errors.New("backend down"))
	Warm(ctx, m, "other", failing, Config{})
	if m.Valid(ctx, "other", time.Minute, "") {
		t.Error("Expected no entry after failed warm")
	}

	// A failing write is swallowed
	store.FailSaves(errors.New("disk full"))
	Warm(ctx, m, "third", fetch, Config{})
}

func TestCoalescingDeduplicatesConcurrentFetches(t *testing.T) {
	store := kvstore.NewMemory()
	m := newTestManager(t, store, WithCoalescing())

	var calls atomic.Int32
	fetch := func(ctx context.Context) (payload, error) {
		calls.Add(1)
		time.Sleep(50 * time.Millisecond)
		return payload{ID: 1}, nil
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, ok := Lookup(context.Background(), m, "products", fetch, Config{})
			if !ok || value.ID != 1 {
				t.Errorf("Expected value 1, got %+v ok=%v", value, ok)
			}
		}()
	}
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("Expected concurrent lookups coalesced into 1 fetch, got %d", calls.Load())
	}
}

func TestCoalescingMismatchedTypesDegradeToMiss(t *testing.T) {
	store := kvstore.NewMemory()
	m := newTestManager(t, store, WithCoalescing())

	started := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		value, ok := Lookup(context.Background(), m, "shared", func(ctx context.Context) (string, error) {
			close(started)
			<-release
			return "text", nil
		}, Config{})
		if !ok || value != "text" {
			t.Errorf("Flight owner should get its own result, got %q ok=%v", value, ok)
		}
	}()

	<-started

	// Same key, different payload type. Joining the in-flight string fetch
	// must degrade to a miss, never panic on the shared result.
	done := make(chan struct{})
	go func() {
		defer close(done)
		value, ok := Lookup(context.Background(), m, "shared", func(ctx context.Context) (int, error) {
			return 0, errors.New("fetch should be coalesced away")
		}, Config{})
		if ok {
			t.Errorf("Mismatched payload type should miss, got %d", value)
		}
	}()

	time.Sleep(50 * time.Millisecond)
	close(release)

	wg.Wait()
	<-done
}

func TestKeyNamespacing(t *testing.T) {
	if got := Key("", "products"); got != "cache:products" {
		t.Errorf("Expected default prefix, got %s", got)
	}
	if got := Key("wishlist", "u1"); got != "wishlist:u1" {
		t.Errorf("Expected wishlist:u1, got %s", got)
	}
}
