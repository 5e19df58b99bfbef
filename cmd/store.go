package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/slot-reserve/internal/config"
	"github.com/example/slot-reserve/internal/store"
)

// openStore builds the configured backend wrapped in the bounded-retry
// decorator. The returned func releases backend resources.
func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (store.SlotStore, func(), error) {
	var (
		st      store.SlotStore
		cleanup = func() {}
	)

	switch cfg.StoreBackend {
	case config.BackendSheets:
		st = store.NewSheets(store.SheetsConfig{
			Document:        cfg.StoreDocument,
			Identity:        cfg.StoreAccountIdentity,
			Key:             cfg.StoreAccountKey,
			DefaultCapacity: cfg.DefaultCapacity,
		})
	case config.BackendPostgres:
		pg, err := store.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := pg.Ping(ctx); err != nil {
			pg.Close()
			return nil, nil, err
		}
		st = pg
		cleanup = pg.Close
	case config.BackendMemory:
		st = store.NewMemory(nil)
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	return store.NewRetrying(st, cfg.RetryAttempts, cfg.RetryBackoff, log), cleanup, nil
}
