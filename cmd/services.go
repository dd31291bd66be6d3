package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/zjrosen/domainmesh/internal/presentation"
	"github.com/zjrosen/domainmesh/internal/registry/application"
)

var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "List registered services and the domains they own",
	Long: `List every service in the manifest, in manifest order, with the domains it
owns directly, as JSON.

Examples:
  domainmesh services
  domainmesh services --manifest ./registry.yaml | jq '.[].name'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withController(cmd, func(c *application.Controller) error {
			return runServices(cmd.OutOrStdout(), c)
		})
	},
}

func init() {
	rootCmd.AddCommand(servicesCmd)
}

func runServices(w io.Writer, c *application.Controller) error {
	return presentation.NewFormatter(w).FormatServices(presentation.FromServices(c.Services()))
}
