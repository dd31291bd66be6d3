package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zjrosen/domainmesh/internal/presentation"
	"github.com/zjrosen/domainmesh/internal/registry/application"
)

var linksCmd = &cobra.Command{
	Use:   "links <service>",
	Short: "List the services linked to a service",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withController(cmd, func(c *application.Controller) error {
			return runLinks(commandContext(cmd), cmd.OutOrStdout(), c, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(linksCmd)
}

func runLinks(ctx context.Context, w io.Writer, c *application.Controller, name string) error {
	if !c.HasService(name) {
		return fmt.Errorf("unknown service %q", name)
	}
	return presentation.NewFormatter(w).FormatLinks(name, c.Links(ctx, name))
}
