package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/slot-reserve/internal/app"
	"github.com/example/slot-reserve/internal/clock"
	"github.com/example/slot-reserve/internal/config"
	"github.com/example/slot-reserve/internal/domain"
	"github.com/example/slot-reserve/internal/logging"
)

func newSlotsCmd() *cobra.Command {
	var dayFlag string

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Print slots that still have open capacity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			log := logging.New(cfg.LogLevel, cfg.LogFormat)

			var day *domain.Day
			if dayFlag != "" {
				d, err := domain.ParseDay(dayFlag)
				if err != nil {
					return err
				}
				day = &d
			}

			ctx := context.Background()
			st, closeStore, err := openStore(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer closeStore()

			engine := app.NewEngine(st, clock.NewSystem(), log)
			slots, err := engine.AvailableSlots(ctx, day)
			if err != nil {
				return err
			}

			for _, s := range slots {
				fmt.Printf("%-10s %-14s %d/%d\n", s.Day, s.Label, s.Occupancy, s.Capacity)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dayFlag, "day", "", "filter by day (Saturday, Sunday, Pickup)")
	return cmd
}
