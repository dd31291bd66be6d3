package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveManifest_CreatesNewFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, SaveManifest(configPath, "services.yaml"))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, "manifest: services.yaml\n", string(data))
}

func TestSaveManifest_PreservesOtherConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	initial := `# domainmesh configuration
manifest: old.yaml # the registry
store: sqlite
cache:
  enabled: false
`
	require.NoError(t, os.WriteFile(configPath, []byte(initial), 0o600))

	require.NoError(t, SaveManifest(configPath, "new.yaml"))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "# domainmesh configuration")
	assert.Contains(t, content, "# the registry")
	assert.NotContains(t, content, "old.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)
	require.NoError(t, v.ReadInConfig())
	assert.Equal(t, "new.yaml", v.GetString("manifest"))
	assert.Equal(t, "sqlite", v.GetString("store"))
	assert.False(t, v.GetBool("cache.enabled"))
}

func TestSaveManifest_AppendsMissingKey(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("store: memory\n"), 0o600))

	require.NoError(t, SaveManifest(configPath, "registry.yaml"))

	v := viper.New()
	v.SetConfigFile(configPath)
	require.NoError(t, v.ReadInConfig())
	assert.Equal(t, "registry.yaml", v.GetString("manifest"))
	assert.Equal(t, "memory", v.GetString("store"))
}

func TestSaveManifest_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("manifest: [unclosed"), 0o600))

	err := SaveManifest(configPath, "registry.yaml")
	require.Error(t, err)
	require.Contains(t, err.Error(), "parsing config")
}

func TestSaveManifest_NonMappingRoot(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("- a\n- b\n"), 0o600))

	err := SaveManifest(configPath, "registry.yaml")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not a mapping")
}

func TestSaveStore(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, SaveStore(configPath, StoreSQLite))

	v := viper.New()
	v.SetConfigFile(configPath)
	require.NoError(t, v.ReadInConfig())
	assert.Equal(t, "sqlite", v.GetString("store"))

	err := SaveStore(configPath, "postgres")
	require.Error(t, err)
	require.Contains(t, err.Error(), `got "postgres"`)
}

func TestSaveManifest_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	require.NoError(t, SaveManifest(configPath, "registry.yaml"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "config.yaml", entries[0].Name())
}
