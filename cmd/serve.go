package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/slot-reserve/internal/app"
	"github.com/example/slot-reserve/internal/clock"
	"github.com/example/slot-reserve/internal/config"
	"github.com/example/slot-reserve/internal/logging"
	"github.com/example/slot-reserve/internal/web"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the reservation API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			log := logging.New(cfg.LogLevel, cfg.LogFormat)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			st, closeStore, err := openStore(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer closeStore()

			engine := app.NewEngine(st, clock.NewSystem(), log)
			srv := &web.Server{Svc: engine, Log: log}

			log.Info("listening", "addr", cfg.ListenAddr, "backend", cfg.StoreBackend)
			if err := web.Start(ctx, cfg.ListenAddr, srv.Routes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}
