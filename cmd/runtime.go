package cmd

import (
	"context"
	"fmt"

	"github.com/zjrosen/domainmesh/internal/cachemanager"
	"github.com/zjrosen/domainmesh/internal/config"
	"github.com/zjrosen/domainmesh/internal/domain/registry"
	"github.com/zjrosen/domainmesh/internal/infrastructure/sqlite"
	"github.com/zjrosen/domainmesh/internal/log"
	"github.com/zjrosen/domainmesh/internal/registry/application"
	"github.com/zjrosen/domainmesh/internal/tracing"
)

// runtime is a controller loaded from the configured manifest together with
// the resources it holds.
type runtime struct {
	controller *application.Controller
	closers    []func()
}

// newRuntime builds the store, tracing and cache from cfg, then applies the
// manifest. Callers must Close the runtime.
func newRuntime(ctx context.Context, cfg config.Config) (*runtime, error) {
	rt := &runtime{}

	store, err := newStore(cfg.Store, rt)
	if err != nil {
		return nil, err
	}

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("creating tracing provider: %w", err)
	}
	rt.closers = append(rt.closers, func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			log.ErrorErr(log.CatTrace, "Failed to shut down tracing", err)
		}
	})

	opts := []application.Option{application.WithTracer(provider.Tracer())}
	if cfg.Cache.Enabled {
		cache := cachemanager.NewInMemoryCacheManager[string, []string](
			"connected-domains", cfg.Cache.TTL, cachemanager.DefaultCleanupInterval)
		opts = append(opts, application.WithCache(cache, cfg.Cache.TTL))
	}

	rt.controller = application.NewController(store, opts...)
	rt.closers = append(rt.closers, rt.controller.Close)

	manifest, err := application.LoadManifestFile(cfg.Manifest)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("loading manifest: %w", err)
	}
	if err := rt.controller.Apply(ctx, manifest); err != nil {
		rt.Close()
		return nil, fmt.Errorf("applying manifest %s: %w", cfg.Manifest, err)
	}

	return rt, nil
}

func newStore(kind string, rt *runtime) (registry.Store, error) {
	switch kind {
	case "", config.StoreMemory:
		return registry.NewRepository(), nil
	case config.StoreSQLite:
		db, err := sqlite.NewDB()
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		rt.closers = append(rt.closers, func() {
			if err := db.Close(); err != nil {
				log.ErrorErr(log.CatDB, "Failed to close sqlite store", err)
			}
		})
		return db.RegistryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store %q", kind)
	}
}

// Close releases resources in reverse order of acquisition.
func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
	rt.closers = nil
}
