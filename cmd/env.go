package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"souq/internal/cache"
	"souq/internal/config"
	"souq/internal/kvstore"
	"souq/internal/storefront"
	"souq/internal/utils"
)

// appEnv bundles the wiring every command needs: config, store, cache
// manager, and the storefront client.
type appEnv struct {
	cfg    *config.File
	store  *kvstore.SQLite
	cache  *cache.Manager
	client *storefront.Client
	log    *slog.Logger
}

// newAppEnv loads config and opens the local store. Callers must Close.
func newAppEnv() (*appEnv, error) {
	path, err := config.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	store, err := utils.OpenStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	manager := utils.NewCacheManager(store, log)
	backend := storefront.NewREST(cfg.BackendURL, storefront.WithToken(os.Getenv("SOUQ_TOKEN")))
	client := storefront.NewClient(backend, manager, log)

	return &appEnv{
		cfg:    cfg,
		store:  store,
		cache:  manager,
		client: client,
		log:    log,
	}, nil
}

func (e *appEnv) Close() {
	e.store.Close()
}
