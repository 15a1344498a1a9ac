package realtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"souq/internal/cache"
)

// reloadBound caps the invalidate-plus-reload work triggered by one event
const reloadBound = 30 * time.Second

// Binding ties one screen's cached query to a change feed. While mounted,
// every event on the topic invalidates the bound cache keys and then runs a
// full reload of the query - notifications carry no patch, they only say
// "your data changed".
//
// The lifecycle is a strict acquire/release pair: Mount subscribes (only if
// the precondition holds), Unmount always releases, from any state, no
// matter why the screen is going away.
type Binding struct {
	Feed   Feed
	Topic  string
	Cache  *cache.Manager
	Keys   []string // cache keys invalidated before each reload
	Prefix string

	// Precondition gates mounting, e.g. "a signed-in user is present".
	// Returning false leaves the binding unmounted; that is not an error.
	Precondition func() bool

	// Reload re-runs the dependent query after invalidation
	Reload func(ctx context.Context, ev Event)

	Log *slog.Logger

	mu  sync.Mutex
	sub Subscription
}

// Mount subscribes the binding to its topic. It reports whether the binding
// is now subscribed; a false precondition or a failed subscribe both leave
// it unmounted. Mounting an already-mounted binding is a no-op.
func (b *Binding) Mount() bool {
	if b.Precondition != nil && !b.Precondition() {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sub != nil {
		return true
	}

	sub, err := b.Feed.Subscribe(b.Topic, b.handle)
	if err != nil {
		b.logger().Warn("subscription failed",
			slog.String("topic", b.Topic),
			slog.Any("error", err))
		return false
	}

	b.sub = sub
	return true
}

// Unmount releases the subscription. Idempotent and safe before Mount.
func (b *Binding) Unmount() {
	b.mu.Lock()
	sub := b.sub
	b.sub = nil
	b.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
}

// Mounted reports whether the binding currently holds a subscription
func (b *Binding) Mounted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sub != nil
}

func (b *Binding) handle(ev Event) {
	// Events racing an unmount are dropped
	if !b.Mounted() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), reloadBound)
	defer cancel()

	if b.Cache != nil && len(b.Keys) > 0 {
		b.Cache.InvalidateAll(ctx, b.Keys, b.Prefix)
	}

	if b.Reload != nil {
		b.Reload(ctx, ev)
	}
}

func (b *Binding) logger() *slog.Logger {
	if b.Log != nil {
		return b.Log
	}
	return slog.Default()
}
