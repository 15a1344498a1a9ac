package utils

import (
	"log/slog"

	"souq/internal/cache"
	"souq/internal/config"
	"souq/internal/errors"
	"souq/internal/kvstore"
)

// OpenStore opens the default persistent store
func OpenStore(dataDir string) (*kvstore.SQLite, error) {
	store, err := kvstore.Open(dataDir)
	if err != nil {
		return nil, errors.WrapCacheError(err, "open")
	}
	return store, nil
}

// NewCacheManager creates a cache manager over store with the build's data
// version
func NewCacheManager(store kvstore.Store, log *slog.Logger) *cache.Manager {
	opts := []cache.Option{}
	if log != nil {
		opts = append(opts, cache.WithLogger(log))
	}
	return cache.New(store, config.DataVersion, opts...)
}
