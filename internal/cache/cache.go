// Package cache serves the freshest acceptable value for a logical key while
// bounding latency and tolerating backend failures. Every failure path
// degrades to a value-level outcome (fresh data, stale data, or a reported
// miss); no error originating here ever reaches a caller.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"souq/internal/kvstore"
)

// Defaults applied by Config.withDefaults
const (
	DefaultTTL     = 5 * time.Minute
	DefaultPrefix  = "cache"
	DefaultTimeout = 10 * time.Second
)

// Internal bounds on store access. The initial read gets a generous bound;
// the post-failure fallback read a tighter one, since by then the caller has
// already waited out a full fetch timeout.
var (
	readBound         = 2 * time.Second
	fallbackReadBound = 1 * time.Second
	writeBound        = 5 * time.Second
)

var errMiss = errors.New("no entry")

// Config tunes a single lookup. The zero value means defaults; callers pass
// it per call site, there is no global mutable configuration.
type Config struct {
	TTL     time.Duration // max age before an entry stops counting as a hit
	Prefix  string        // key namespace
	Timeout time.Duration // upper bound on one fetch
}

func (c Config) withDefaults() Config {
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	if c.Prefix == "" {
		c.Prefix = DefaultPrefix
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Manager coordinates reads and writes of versioned cache entries in a
// shared persistent store.
type Manager struct {
	store   kvstore.Store
	version string
	log     *slog.Logger
	flight  *singleflight.Group
}

// Option configures a Manager
type Option func(*Manager)

// WithLogger sets the logger used for swallowed failures
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// WithCoalescing collapses concurrent fetches for the same key into one
// backend call. Without it, two concurrent misses on a key may both fetch
// and both write; last write wins. That race is accepted behavior, so
// coalescing is strictly opt-in.
func WithCoalescing() Option {
	return func(m *Manager) {
		m.flight = new(singleflight.Group)
	}
}

// New creates a Manager over store. The version is fixed for the process
// lifetime; entries written under any other version are treated as misses.
func New(store kvstore.Store, version string, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		version: version,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Version returns the data version entries are written under
func (m *Manager) Version() string {
	return m.version
}

// Lookup returns the value for key, preferring a valid cached entry, then a
// fresh fetch, then any stale entry as an offline fallback. The second
// return is false only when all three fail. Lookup never returns an error;
// a caching layer must never be the reason a screen fails to render.
func Lookup[T any](ctx context.Context, m *Manager, key string, fetch func(context.Context) (T, error), cfg Config) (T, bool) {
	var zero T
	cfg = cfg.withDefaults()
	storeKey := Key(cfg.Prefix, key)

	// Read errors and slow reads are treated as a miss, never propagated.
	if entry := m.boundedRead(ctx, storeKey, readBound); entry != nil {
		if entry.Valid(m.version, cfg.TTL, time.Now()) {
			if value, ok := decode[T](m, storeKey, entry); ok {
				return value, true
			}
			// Undecodable payload: fall through to a fresh fetch
		}
	}

	value, err := boundedFetch(ctx, m, storeKey, cfg.Timeout, fetch)
	if err == nil {
		m.persistDetached(storeKey, value)
		return value, true
	}

	m.log.Warn("fetch failed, trying stale cache",
		slog.String("key", storeKey),
		slog.Any("error", err))

	// Offline fallback: any stored entry beats a hard failure, regardless
	// of its age or version.
	if entry := m.boundedRead(ctx, storeKey, fallbackReadBound); entry != nil {
		if value, ok := decode[T](m, storeKey, entry); ok {
			return value, true
		}
	}

	return zero, false
}

// Warm fetches key unconditionally and persists the result, without any
// timeout bound on the fetch. Failures are logged and swallowed; Warm exists
// to heat the cache, not to gate a caller waiting on data.
func Warm[T any](ctx context.Context, m *Manager, key string, fetch func(context.Context) (T, error), cfg Config) {
	cfg = cfg.withDefaults()
	storeKey := Key(cfg.Prefix, key)

	value, err := fetch(ctx)
	if err != nil {
		m.log.Warn("cache warm fetch failed",
			slog.String("key", storeKey),
			slog.Any("error", err))
		return
	}

	if err := m.persist(context.Background(), storeKey, value); err != nil {
		m.log.Warn("cache warm write failed",
			slog.String("key", storeKey),
			slog.Any("error", err))
	}
}

// Invalidate deletes the entry for key. Idempotent; a missing entry or a
// failed delete is logged and swallowed.
func (m *Manager) Invalidate(ctx context.Context, key, prefix string) {
	storeKey := Key(prefix, key)
	if err := m.store.Remove(ctx, storeKey); err != nil {
		m.log.Warn("cache invalidation failed",
			slog.String("key", storeKey),
			slog.Any("error", err))
	}
}

// InvalidateAll invalidates keys concurrently. Deletions are independent; a
// failure on one key never blocks the others.
func (m *Manager) InvalidateAll(ctx context.Context, keys []string, prefix string) {
	g := new(errgroup.Group)
	for _, key := range keys {
		g.Go(func() error {
			m.Invalidate(ctx, key, prefix)
			return nil
		})
	}
	g.Wait()
}

// Valid reports whether the stored entry for key would count as a hit right
// now. Any read or decode problem reports false rather than an error. The
// store read is deliberately unbounded; a slow store simply delays the call.
func (m *Manager) Valid(ctx context.Context, key string, ttl time.Duration, prefix string) bool {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	raw, ok, err := m.store.Load(ctx, Key(prefix, key))
	if err != nil || !ok {
		return false
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return false
	}

	return entry.Valid(m.version, ttl, time.Now())
}

// boundedRead loads and decodes the entry under storeKey, giving the store
// at most bound to answer. Misses, errors, timeouts, and corrupt envelopes
// all come back as nil.
func (m *Manager) boundedRead(ctx context.Context, storeKey string, bound time.Duration) *Entry {
	raw, err := runBounded(ctx, bound, func(ctx context.Context) ([]byte, error) {
		value, ok, err := m.store.Load(ctx, storeKey)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errMiss
		}
		return value, nil
	})
	if err != nil {
		if !errors.Is(err, errMiss) {
			m.log.Warn("cache read failed, treating as miss",
				slog.String("key", storeKey),
				slog.Any("error", err))
		}
		return nil
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		m.log.Warn("cache entry corrupt, treating as miss",
			slog.String("key", storeKey),
			slog.Any("error", err))
		return nil
	}

	return &entry
}

// boundedFetch runs fetch with an upper bound on latency, optionally
// coalescing concurrent callers for the same key. Methods cannot take type
// parameters, so this and its siblings are package-level functions.
func boundedFetch[T any](ctx context.Context, m *Manager, storeKey string, timeout time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	if m.flight == nil {
		return runBounded(ctx, timeout, fetch)
	}

	result, err, _ := m.flight.Do(storeKey, func() (any, error) {
		return runBounded(ctx, timeout, fetch)
	})
	if err != nil {
		var zero T
		return zero, err
	}

	// Callers coalesced onto a flight started under a different payload
	// type get a fetch failure, not a panic; Lookup then degrades through
	// its normal fallback path.
	value, ok := result.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("coalesced fetch for %s returned %T", storeKey, result)
	}
	return value, nil
}

// decode unmarshals an entry payload, logging and reporting failure so the
// caller can treat the entry as absent.
func decode[T any](m *Manager, storeKey string, entry *Entry) (T, bool) {
	var value T
	if err := json.Unmarshal(entry.Data, &value); err != nil {
		m.log.Warn("cache payload undecodable",
			slog.String("key", storeKey),
			slog.Any("error", err))
		return value, false
	}
	return value, true
}

// persist writes value under storeKey stamped with the current version.
func (m *Manager) persist(ctx context.Context, storeKey string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(Entry{
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
		Version:   m.version,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, writeBound)
	defer cancel()

	return m.store.Save(ctx, storeKey, raw)
}

// persistDetached starts a fire-and-forget write. The caller returns fresh
// data immediately; the write result is intentionally discarded except for
// logging. The background context keeps caller cancellation from aborting
// an already-committed write.
func (m *Manager) persistDetached(storeKey string, value any) {
	go func() {
		if err := m.persist(context.Background(), storeKey, value); err != nil {
			m.log.Warn("cache write failed",
				slog.String("key", storeKey),
				slog.Any("error", err))
		}
	}()
}

// runBounded races fn against a timer. Whichever settles first wins; the
// loser's eventual result is delivered into a buffered channel and dropped,
// since the underlying store or network primitive may not support
// cancellation.
func runBounded[T any](ctx context.Context, bound time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, bound)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}

	done := make(chan outcome, 1)
	go func() {
		value, err := fn(ctx)
		done <- outcome{value, err}
	}()

	select {
	case result := <-done:
		return result.value, result.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
