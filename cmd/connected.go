package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zjrosen/domainmesh/internal/presentation"
	"github.com/zjrosen/domainmesh/internal/registry/application"
)

var connectedCmd = &cobra.Command{
	Use:   "connected <service>",
	Short: "Show the domains a service reaches",
	Long: `Show the domains a service owns followed by the domains of every service
linked to it, in link order, as JSON. Repeated domains are kept.

Examples:
  domainmesh connected payments
  domainmesh connected payments | jq -r '.domains[]'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withController(cmd, func(c *application.Controller) error {
			return runConnected(commandContext(cmd), cmd.OutOrStdout(), c, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(connectedCmd)
}

func runConnected(ctx context.Context, w io.Writer, c *application.Controller, name string) error {
	if !c.HasService(name) {
		return fmt.Errorf("unknown service %q", name)
	}
	return runConnectedUnchecked(ctx, w, c, name)
}

func runConnectedUnchecked(ctx context.Context, w io.Writer, c *application.Controller, name string) error {
	domains := c.ConnectedDomains(ctx, application.NewService(name))
	return presentation.NewFormatter(w).FormatConnected(name, domains)
}
