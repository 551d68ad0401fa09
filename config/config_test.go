package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/grovetools/hostsync/errors"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadFromBytes(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(`
version: "1"
thread_checks: true
watch:
  debounce_ms: 250
  ignore:
    - ".git"
    - "node_modules"
extensions:
  logging:
    level: debug
`))
	require.NoError(t, err)
	require.Equal(t, "1", cfg.Version)
	require.True(t, cfg.ThreadChecks)
	require.Equal(t, 250, cfg.Watch.DebounceMs)
	require.Equal(t, []string{".git", "node_modules"}, cfg.Watch.Ignore)

	var logCfg struct {
		Level string `yaml:"level"`
	}
	require.NoError(t, cfg.UnmarshalExtension("logging", &logCfg))
	require.Equal(t, "debug", logCfg.Level)
}

func TestUnmarshalExtensionMissingKey(t *testing.T) {
	cfg := &Config{}
	var target struct {
		Level string `yaml:"level"`
	}
	require.NoError(t, cfg.UnmarshalExtension("logging", &target))
	require.Empty(t, target.Level)
}

func TestEnvVarExpansion(t *testing.T) {
	t.Setenv("HOSTSYNC_TEST_VERSION", "42")
	cfg, err := LoadFromBytes([]byte(`version: "${HOSTSYNC_TEST_VERSION}"`))
	require.NoError(t, err)
	require.Equal(t, "42", cfg.Version)

	// Unset variables are left untouched rather than blanked.
	cfg, err = LoadFromBytes([]byte(`version: "${HOSTSYNC_TEST_UNSET_VAR}"`))
	require.NoError(t, err)
	require.Equal(t, "${HOSTSYNC_TEST_UNSET_VAR}", cfg.Version)
}

func TestFindConfigFileWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ConfigFileName), "version: \"1\"\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	found, err := FindConfigFile(nested)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, ConfigFileName), found)
}

func TestFindConfigFileNotFound(t *testing.T) {
	_, err := FindConfigFile(t.TempDir())
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))
}

func TestLoadFromMergesOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir()) // keep any real global config out
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ConfigFileName), `
version: "1"
watch:
  debounce_ms: 100
`)
	writeFile(t, filepath.Join(root, OverrideFileName), `
thread_checks = true

[watch]
debounce_ms = 500
`)

	cfg, err := LoadFrom(root)
	require.NoError(t, err)
	require.Equal(t, "1", cfg.Version)
	require.True(t, cfg.ThreadChecks)
	require.Equal(t, 500, cfg.Watch.DebounceMs)
}

func TestMergeConfigsDoesNotMutateBase(t *testing.T) {
	base := &Config{Extensions: map[string]interface{}{"a": 1}}
	overlay := &Config{Extensions: map[string]interface{}{"b": 2}}
	merged := mergeConfigs(base, overlay)

	require.Len(t, merged.Extensions, 2)
	require.Len(t, base.Extensions, 1)
}
