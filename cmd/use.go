package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zjrosen/domainmesh/internal/config"
	"github.com/zjrosen/domainmesh/internal/log"
	"github.com/zjrosen/domainmesh/internal/registry/application"
)

var useStore string

var useCmd = &cobra.Command{
	Use:   "use <manifest>",
	Short: "Set the manifest (and optionally the store) in the config file",
	Long: `Validate a manifest and record it as the default in the config file in use.
Other settings and comments in the file are left untouched.

Examples:
  domainmesh use ./registry.yaml
  domainmesh use ./registry.yaml --set-store sqlite`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUse(configFilePath(), args[0], useStore)
	},
}

func init() {
	useCmd.Flags().StringVar(&useStore, "set-store", "", "also set the store backend (memory or sqlite)")
	rootCmd.AddCommand(useCmd)
}

func runUse(configPath, manifest, store string) error {
	// Reject a bad store before touching the file
	if store != "" {
		if err := config.ValidateStore(store); err != nil {
			return err
		}
	}

	abs, err := filepath.Abs(manifest)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", manifest, err)
	}
	if _, err := application.LoadManifestFile(abs); err != nil {
		return err
	}

	if err := config.SaveManifest(configPath, abs); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	if store != "" {
		if err := config.SaveStore(configPath, store); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
	}

	log.Info(log.CatCLI, "Manifest selected", "manifest", abs, "config", configPath)
	return nil
}
