package realtime

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"souq/internal/cache"
	"souq/internal/kvstore"
)

func seedEntry(t *testing.T, m *cache.Manager, key string) {
	t.Helper()
	cache.Warm(context.Background(), m, key, func(ctx context.Context) (int, error) {
		return 1, nil
	}, cache.Config{})
	if !m.Valid(context.Background(), key, time.Minute, "") {
		t.Fatalf("seed entry for %s never became valid", key)
	}
}

func TestBindingInvalidatesAndReloadsOnEvent(t *testing.T) {
	store := kvstore.NewMemory()
	m := cache.New(store, "1.2.0", cache.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	broker := NewBroker()

	seedEntry(t, m, "cart:u1")

	var reloads atomic.Int32
	binding := &Binding{
		Feed:  broker,
		Topic: "cart:u1",
		Cache: m,
		Keys:  []string{"cart:u1"},
		Reload: func(ctx context.Context, ev Event) {
			// Invalidation must land before the reload runs
			if m.Valid(ctx, "cart:u1", time.Minute, "") {
				t.Error("Expected cache invalidated before reload")
			}
			reloads.Add(1)
		},
	}

	if !binding.Mount() {
		t.Fatal("Expected Mount to subscribe")
	}
	defer binding.Unmount()

	broker.Publish(Event{Topic: "cart:u1", Op: OpUpdate})
	broker.Publish(Event{Topic: "cart:u1", Op: OpDelete})

	if reloads.Load() != 2 {
		t.Errorf("Expected a reload per event, got %d", reloads.Load())
	}
}

func TestBindingPreconditionGatesMount(t *testing.T) {
	broker := NewBroker()

	signedIn := false
	binding := &Binding{
		Feed:         broker,
		Topic:        "cart:u1",
		Precondition: func() bool { return signedIn },
	}

	if binding.Mount() {
		t.Error("Expected Mount refused while precondition is false")
	}
	if binding.Mounted() {
		t.Error("Expected binding unmounted")
	}
	if broker.SubscriberCount("cart:u1") != 0 {
		t.Error("Expected no subscription while precondition is false")
	}

	// Unmounting an unmounted binding is fine
	binding.Unmount()

	signedIn = true
	if !binding.Mount() {
		t.Error("Expected Mount to succeed once precondition holds")
	}
	binding.Unmount()
}

func TestBindingUnmountStopsDelivery(t *testing.T) {
	broker := NewBroker()

	var reloads atomic.Int32
	binding := &Binding{
		Feed:   broker,
		Topic:  "products",
		Reload: func(ctx context.Context, ev Event) { reloads.Add(1) },
	}

	binding.Mount()
	broker.Publish(Event{Topic: "products"})

	binding.Unmount()
	broker.Publish(Event{Topic: "products"})

	if reloads.Load() != 1 {
		t.Errorf("Expected no reloads after Unmount, got %d total", reloads.Load())
	}
	if broker.SubscriberCount("products") != 0 {
		t.Error("Expected subscription released on Unmount")
	}

	// Unmount is idempotent
	binding.Unmount()
}

func TestBindingMountIsIdempotent(t *testing.T) {
	broker := NewBroker()

	var reloads atomic.Int32
	binding := &Binding{
		Feed:   broker,
		Topic:  "products",
		Reload: func(ctx context.Context, ev Event) { reloads.Add(1) },
	}
	defer binding.Unmount()

	binding.Mount()
	binding.Mount()

	if broker.SubscriberCount("products") != 1 {
		t.Errorf("Expected a single subscription, got %d", broker.SubscriberCount("products"))
	}

	broker.Publish(Event{Topic: "products"})
	if reloads.Load() != 1 {
		t.Errorf("Expected one reload per event, got %d", reloads.Load())
	}
}
