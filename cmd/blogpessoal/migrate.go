package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"blogpessoal/internal/adapter/postgres"
	"blogpessoal/internal/config"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the PostgreSQL schema",
	}
	cmd.PersistentFlags().String("db-url", "", "PostgreSQL URL (postgres://...)")

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: withMigrator(func(cmd *cobra.Command, m *postgres.Migrator) error {
			if err := m.Up(); err != nil {
				return err
			}
			cmd.Println("Migrations applied")
			return nil
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back every migration (drops all data)",
		RunE: withMigrator(func(cmd *cobra.Command, m *postgres.Migrator) error {
			if err := m.Down(); err != nil {
				return err
			}
			cmd.Println("Migrations rolled back")
			return nil
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		RunE: withMigrator(func(cmd *cobra.Command, m *postgres.Migrator) error {
			v, dirty, err := m.Version()
			if err != nil {
				return err
			}
			cmd.Printf("version %d (dirty: %t)\n", v, dirty)
			return nil
		}),
	})

	return cmd
}

func withMigrator(fn func(*cobra.Command, *postgres.Migrator) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		url, err := migrationURL(cmd)
		if err != nil {
			return err
		}

		m, err := postgres.NewMigrator(url)
		if err != nil {
			return err
		}
		defer func() { _ = m.Close() }()

		return fn(cmd, m)
	}
}

func migrationURL(cmd *cobra.Command) (string, error) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return "", err
	}
	if cfg.Database.Driver == "memory" {
		return "", oops.Code("CONFIG_INVALID").Errorf("the memory driver has no schema to migrate")
	}
	if cfg.Database.URL == "" {
		return "", oops.Code("CONFIG_INVALID").Errorf("database.url is required (--db-url or BLOG_DATABASE_URL)")
	}
	return cfg.Database.URL, nil
}
