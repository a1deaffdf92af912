package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the blogpessoal CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blogpessoal",
		Short: "Personal blog REST API",
		Long: `blogpessoal serves a REST API for user accounts and blog posts,
backed by PostgreSQL or an in-memory store.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (YAML)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
