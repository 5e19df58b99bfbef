package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/slot-reserve/internal/config"
	"github.com/example/slot-reserve/internal/migrate"
	"github.com/example/slot-reserve/internal/store"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations (postgres backend)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if cfg.StoreBackend != config.BackendPostgres {
				return fmt.Errorf("migrate only applies to the postgres backend (STORE_BACKEND=%s)", cfg.StoreBackend)
			}

			ctx := context.Background()
			pg, err := store.OpenPostgres(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pg.Close()

			if err := pg.Ping(ctx); err != nil {
				return err
			}
			return migrate.Up(ctx, pg.Pool())
		},
	}
}
