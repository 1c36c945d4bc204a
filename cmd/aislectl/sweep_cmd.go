package main

import (
	"github.com/spf13/cobra"

	staffingservices "github.com/aisleworks/aisle/modules/staffing/services"
	"github.com/aisleworks/aisle/pkg/composables"
)

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run a single drop-request escalation pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := connectDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			app, err := loadApp(pool)
			if err != nil {
				return err
			}

			sweeper := app.Service(staffingservices.EscalationSweeper{}).(*staffingservices.EscalationSweeper)
			sweeper.Sweep(composables.WithPool(cmd.Context(), pool))
			return nil
		},
	}
}
