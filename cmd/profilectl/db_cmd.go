package main

import (
	"github.com/spf13/cobra"

	"github.com/diewo77/go-profiles/internal/db"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the profile tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, func(a *app) (any, error) {
				if err := db.Migrate(a.db); err != nil {
					return nil, err
				}
				a.logger.Info("migrations completed")
				return nil, nil
			})
		},
	}
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the resource and module catalogs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, func(a *app) (any, error) {
				if err := db.Seed(a.db); err != nil {
					return nil, err
				}
				a.logger.Info("seeding completed")
				return nil, nil
			})
		},
	}
}
