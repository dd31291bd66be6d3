package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/domainmesh/internal/tracing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.Equal(t, "registry.yaml", cfg.Manifest)
	require.Equal(t, StoreMemory, cfg.Store)
	require.True(t, cfg.Cache.Enabled)
	require.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	require.Equal(t, 100*time.Millisecond, cfg.Watch.Debounce)
	require.False(t, cfg.Tracing.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestValidate_Store(t *testing.T) {
	for _, store := range []string{"", StoreMemory, StoreSQLite} {
		cfg := Defaults()
		cfg.Store = store
		require.NoError(t, cfg.Validate(), "store %q", store)
	}

	cfg := Defaults()
	cfg.Store = "postgres"
	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), `got "postgres"`)
}

func TestValidate_NegativeDurations(t *testing.T) {
	cfg := Defaults()
	cfg.Cache.TTL = -time.Second
	require.ErrorContains(t, cfg.Validate(), "cache.ttl")

	cfg = Defaults()
	cfg.Watch.Debounce = -time.Second
	require.ErrorContains(t, cfg.Validate(), "watch.debounce")
}

func TestValidateTracing(t *testing.T) {
	tests := []struct {
		name    string
		cfg     tracing.Config
		wantErr string
	}{
		{name: "defaults", cfg: tracing.DefaultConfig()},
		{name: "sample rate too high", cfg: tracing.Config{SampleRate: 1.5}, wantErr: "sample_rate"},
		{name: "sample rate negative", cfg: tracing.Config{SampleRate: -0.1}, wantErr: "sample_rate"},
		{name: "unknown exporter", cfg: tracing.Config{Exporter: "zipkin"}, wantErr: "tracing.exporter"},
		{name: "file without path", cfg: tracing.Config{Enabled: true, Exporter: "file"}, wantErr: "file_path"},
		{name: "file disabled without path", cfg: tracing.Config{Enabled: false, Exporter: "file"}},
		{name: "otlp without endpoint", cfg: tracing.Config{Enabled: true, Exporter: "otlp"}, wantErr: "otlp_endpoint"},
		{name: "stdout", cfg: tracing.Config{Enabled: true, Exporter: "stdout", SampleRate: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTracing(tt.cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDefaultTracesFilePath(t *testing.T) {
	path := DefaultTracesFilePath()
	if path == "" {
		t.Skip("no home directory")
	}
	require.True(t, strings.HasSuffix(path, filepath.Join("domainmesh", "traces", "traces.jsonl")))
}

func TestDefaultConfigTemplate_MatchesDefaults(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(DefaultConfigTemplate())))

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	want := Defaults()
	require.Equal(t, want.Manifest, cfg.Manifest)
	require.Equal(t, want.Store, cfg.Store)
	require.Equal(t, want.Cache, cfg.Cache)
	require.Equal(t, want.Watch, cfg.Watch)
}

func TestWriteDefaultConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, WriteDefaultConfig(configPath))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))
}

func TestValidateStore(t *testing.T) {
	require.NoError(t, ValidateStore(StoreMemory))
	require.NoError(t, ValidateStore(StoreSQLite))
	require.EqualError(t, ValidateStore(""), `store must be "memory" or "sqlite", got ""`)
	require.Error(t, ValidateStore("postgres"))
}
