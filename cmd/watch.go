package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zjrosen/domainmesh/internal/config"
	"github.com/zjrosen/domainmesh/internal/log"
	"github.com/zjrosen/domainmesh/internal/registry/application"
	"github.com/zjrosen/domainmesh/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch <service>",
	Short: "Print a service's connected domains whenever the manifest changes",
	Long: `Print the connected domains of a service, then reload the manifest and print
them again every time the file changes. A manifest that fails to load is
reported and the previous registry is kept. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(commandContext(cmd), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, args[0])
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(ctx context.Context, out, errOut io.Writer, cfg config.Config, name string) error {
	rt, err := newRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { rt.Close() }()

	if err := printConnected(ctx, out, rt.controller, name); err != nil {
		return err
	}

	w, err := watcher.New(watcher.Config{Path: cfg.Manifest, DebounceDur: cfg.Watch.Debounce})
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			next, err := newRuntime(ctx, cfg)
			if err != nil {
				log.ErrorErr(log.CatWatcher, "Reload failed, keeping previous registry", err, "manifest", cfg.Manifest)
				_, _ = fmt.Fprintf(errOut, "reload failed: %v\n", err)
				continue
			}
			rt.Close()
			rt = next

			log.Info(log.CatWatcher, "Manifest reloaded", "manifest", cfg.Manifest)
			if err := printConnected(ctx, out, rt.controller, name); err != nil {
				return err
			}
		}
	}
}

// printConnected does not require name to be registered, so the watch
// survives a manifest edit that drops or renames the service.
func printConnected(ctx context.Context, w io.Writer, c *application.Controller, name string) error {
	return runConnectedUnchecked(ctx, w, c, name)
}
