package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

//go:generate go run ../tools/schema-generator/

// Config is the root of the hostsync.yml configuration.
type Config struct {
	// Version of the config format.
	Version string `yaml:"version,omitempty" toml:"version,omitempty" jsonschema:"description=Config format version"`

	// ThreadChecks enables fail-fast assertions that guarded components are
	// only used from their coordinating goroutine. Can also be enabled with
	// HOSTSYNC_THREAD_CHECKS=1.
	ThreadChecks bool `yaml:"thread_checks,omitempty" toml:"thread_checks,omitempty" jsonschema:"description=Enable coordinating-goroutine assertions"`

	// Watch configures the workspace project watcher.
	Watch WatchConfig `yaml:"watch,omitempty" toml:"watch,omitempty" jsonschema:"description=Workspace project watcher settings"`

	// Extensions holds tool-specific configuration sections that are not part
	// of the core schema (e.g. "logging"). Use UnmarshalExtension to decode.
	Extensions map[string]interface{} `yaml:"extensions,omitempty" toml:"extensions,omitempty" jsonschema:"description=Tool-specific configuration sections"`
}

// WatchConfig configures the workspace project watcher.
type WatchConfig struct {
	// DebounceMs controls how long to wait before processing rapid file changes.
	DebounceMs int `yaml:"debounce_ms,omitempty" toml:"debounce_ms,omitempty" jsonschema:"description=Debounce interval in milliseconds for file events"`

	// Ignore lists dockerignore-style patterns for paths the watcher skips.
	Ignore []string `yaml:"ignore,omitempty" toml:"ignore,omitempty" jsonschema:"description=Ignore patterns for watched paths"`
}

// UnmarshalExtension decodes a specific extension's configuration from the
// loaded hostsync.yml into the provided target struct. The target must be a
// pointer. This provides a type-safe way for extensions to access their
// custom configuration sections.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		// It's not an error if the key doesn't exist.
		// The target struct will simply remain zero-valued.
		return nil
	}

	// Use mapstructure to decode the generic map[string]interface{}
	// into the strongly-typed target struct. We configure it to use
	// `yaml` tags for consistency.
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: "yaml",
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}
