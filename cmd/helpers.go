package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/zjrosen/domainmesh/internal/registry/application"
)

// withController loads the configured manifest and runs fn against it.
func withController(cmd *cobra.Command, fn func(*application.Controller) error) error {
	rt, err := newRuntime(commandContext(cmd), cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	return fn(rt.controller)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
