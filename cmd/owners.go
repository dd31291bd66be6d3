package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/zjrosen/domainmesh/internal/presentation"
	"github.com/zjrosen/domainmesh/internal/registry/application"
)

var ownersCmd = &cobra.Command{
	Use:   "owners <domain>",
	Short: "List the services that own a domain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withController(cmd, func(c *application.Controller) error {
			return runOwners(commandContext(cmd), cmd.OutOrStdout(), c, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(ownersCmd)
}

func runOwners(ctx context.Context, w io.Writer, c *application.Controller, domain string) error {
	return presentation.NewFormatter(w).FormatOwners(domain, c.ServicesWithDomain(ctx, domain))
}
