package cache

import (
	"encoding/json"
	"time"
)

// Entry is the envelope persisted for every cached value. The payload is
// kept as raw JSON so the store never needs to know the concrete type.
type Entry struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"` // epoch milliseconds
	Version   string          `json:"version"`
}

// Valid reports whether the entry counts as a cache hit: it must carry the
// current data version and be younger than ttl. Entries failing either check
// are misses, but stay eligible as a degraded fallback when a refetch fails.
func (e *Entry) Valid(version string, ttl time.Duration, now time.Time) bool {
	return e.Version == version && e.Age(now) < ttl
}

// Age returns how long ago the entry was written
func (e *Entry) Age(now time.Time) time.Duration {
	return time.Duration(now.UnixMilli()-e.Timestamp) * time.Millisecond
}

// Key builds the namespaced store key for a logical cache key. Prefixes keep
// independent cache consumers from colliding in the shared store.
func Key(prefix, key string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return prefix + ":" + key
}
