package main

import (
	"github.com/spf13/cobra"

	"github.com/aisleworks/aisle/modules/core/seed"
	"github.com/aisleworks/aisle/pkg/composables"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the default tenant and demo users",
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

			ctx := composables.WithPool(cmd.Context(), pool)
			if err := seed.CreateDefaultTenant(ctx, app); err != nil {
				return err
			}
			return seed.CreateDemoUsers(ctx, app)
		},
	}
}
