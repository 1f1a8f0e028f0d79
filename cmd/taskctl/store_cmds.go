package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-task-keeper/internal/service"
)

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the SQL schema migrations to the configured database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			storages, err := c.storages(ctx, true)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			defer storages.Close(ctx)

			fmt.Fprintln(c.out, "migrations applied")
			return nil
		},
	}
}

func (c *cli) seedCmd() *cobra.Command {
	var password, secretKey string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the store content with the sample admin and employees",
		Long: `Replace every user in the store with one admin and five employees
that carry sample tasks. All seeded accounts share the same password and
recovery secret.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			storages, err := c.storages(ctx, false)
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			defer storages.Close(ctx)

			seeder := service.NewSeedService(storages.SeedRepository, c.cfg.App.PasswordHashCost, c.log)
			users, err := seeder.Seed(c.log.WithContext(ctx), password, secretKey)
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}

			w := c.table()
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tTASKS")
			for _, u := range users {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", u.ID, u.Name, u.Email, u.Role, len(u.Tasks))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&password, "password", c.cfg.Seed.Password, "password of every seeded account (SEED_PASSWORD)")
	cmd.Flags().StringVar(&secretKey, "secret-key", c.cfg.Seed.SecretKey, "recovery secret of every seeded account (SEED_SECRET_KEY)")

	return cmd
}
