package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the CampusEvent CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "campusevent",
		Short: "CampusEvent API - campus event management service",
		Long: `CampusEvent serves the campus event API: account registration and
login, JWT-protected event management and API-key protected deletes.
Configuration is read from the environment.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewIndexesCmd())

	return cmd
}
