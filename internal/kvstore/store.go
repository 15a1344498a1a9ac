// Package kvstore provides the persistent key-value storage backing the
// cache layer. Values are opaque byte blobs; expiry and versioning policy
// belong to the caller.
package kvstore

import "context"

// Store is a minimal byte store. Load reports a missing key as (nil, false,
// nil); an error means an unexpected I/O failure, never plain absence.
// Implementations must be safe for concurrent use.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Close() error
}
