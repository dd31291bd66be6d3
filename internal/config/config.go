// Package config provides configuration types and defaults for domainmesh.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/domainmesh/internal/log"
	"github.com/zjrosen/domainmesh/internal/tracing"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config holds all configuration options for domainmesh.
type Config struct {
	Manifest string         `mapstructure:"manifest"` // registry manifest YAML
	Store    string         `mapstructure:"store"`    // "memory" (default) or "sqlite"
	Cache    CacheConfig    `mapstructure:"cache"`
	Tracing  tracing.Config `mapstructure:"tracing"`
	Watch    WatchConfig    `mapstructure:"watch"`
	Debug    bool           `mapstructure:"debug"`
	LogFile  string         `mapstructure:"log_file"`
}

// CacheConfig controls the connected-domain cache.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// WatchConfig controls manifest watching.
type WatchConfig struct {
	// Debounce coalesces bursts of file events (editors often write twice).
	Debounce time.Duration `mapstructure:"debounce"`
}

// DefaultTracesFilePath returns ~/.config/domainmesh/traces/traces.jsonl, or
// an empty string if the home directory is unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "domainmesh", "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Manifest: "registry.yaml",
		Store:    StoreMemory,
		Cache: CacheConfig{
			Enabled: true,
			TTL:     5 * time.Minute,
		},
		Tracing: tracing.DefaultConfig(),
		Watch: WatchConfig{
			Debounce: 100 * time.Millisecond,
		},
		Debug:   false,
		LogFile: "debug.log",
	}
}

// Validate checks the configuration for errors. Empty values fall back to
// defaults and are valid.
func (c Config) Validate() error {
	if c.Store != "" {
		if err := ValidateStore(c.Store); err != nil {
			return err
		}
	}

	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %s", c.Cache.TTL)
	}

	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}

	return ValidateTracing(c.Tracing)
}

// ValidateStore checks that store names a known backend.
func ValidateStore(store string) error {
	switch store {
	case StoreMemory, StoreSQLite:
		return nil
	default:
		return fmt.Errorf("store must be %q or %q, got %q", StoreMemory, StoreSQLite, store)
	}
}

// ValidateTracing checks tracing configuration for errors.
func ValidateTracing(tc tracing.Config) error {
	if tc.SampleRate < 0.0 || tc.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tc.SampleRate)
	}

	if tc.Exporter != "" {
		switch tc.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tc.Exporter)
		}
	}

	// Path requirements only matter once tracing is on
	if tc.Enabled {
		if tc.Exporter == "file" && tc.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tc.Exporter == "otlp" && tc.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# domainmesh configuration

# Registry manifest: services with their domains, and links between services
manifest: registry.yaml

# Registry backend: "memory" (default) or "sqlite" (private in-memory database)
store: memory

# Connected-domain cache, flushed on every registry write
cache:
  enabled: true
  ttl: 5m

# Manifest watching (domainmesh watch)
watch:
  debounce: 100ms

# Debug logging
# debug: false
# log_file: debug.log

# Tracing
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/domainmesh/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
#   service_name: domainmesh
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
