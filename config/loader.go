package config

import (
	"os"
	"path/filepath"
	"regexp"

	"github.com/grovetools/hostsync/errors"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the per-workspace configuration file.
	ConfigFileName = "hostsync.yml"

	// OverrideFileName is an optional local override layer, highest precedence.
	OverrideFileName = "hostsync.override.toml"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// Load reads and parses a hostsync configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes parses config data with environment variable expansion.
func LoadFromBytes(data []byte) (*Config, error) {
	expanded := expandEnvVars(string(data))
	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse config")
	}
	return &cfg, nil
}

// LoadDefault finds and loads the configuration with hierarchical merging:
// 1. Global config (~/.config/hostsync/hostsync.yml) - base layer
// 2. Workspace config (hostsync.yml) - overrides global
// 3. Local override (hostsync.override.toml) - overrides all
func LoadDefault() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to get current directory")
	}

	return LoadFrom(cwd)
}

// LoadFrom loads configuration with hierarchical merging starting from the given directory
func LoadFrom(startDir string) (*Config, error) {
	return LoadFromWithLogger(startDir, logrus.New())
}

// LoadFromWithLogger loads configuration with hierarchical merging and logging
func LoadFromWithLogger(startDir string, logger *logrus.Logger) (*Config, error) {
	// Find workspace config file first (it's required)
	workspacePath, err := FindConfigFile(startDir)
	if err != nil {
		return nil, err
	}

	logger.WithField("path", workspacePath).Debug("Loading workspace configuration")

	var finalConfig *Config

	// 1. Load global config if it exists (optional)
	globalPath := getXDGConfigPath()
	if globalPath != "" {
		if _, err := os.Stat(globalPath); err == nil {
			logger.WithField("path", globalPath).Debug("Loading global configuration")
			globalData, err := os.ReadFile(globalPath)
			if err == nil {
				var globalConfig Config
				if err := yaml.Unmarshal([]byte(expandEnvVars(string(globalData))), &globalConfig); err == nil {
					finalConfig = &globalConfig
				} else {
					logger.WithError(err).Warn("Failed to parse global configuration, continuing without it")
				}
			} else {
				logger.WithError(err).Warn("Failed to read global configuration, continuing without it")
			}
		}
	}

	// 2. Load and merge workspace config (required)
	workspaceConfig, err := Load(workspacePath)
	if err != nil {
		return nil, err
	}
	if finalConfig == nil {
		finalConfig = workspaceConfig
	} else {
		finalConfig = mergeConfigs(finalConfig, workspaceConfig)
	}

	// 3. Apply local toml override if present (optional)
	overridePath := filepath.Join(filepath.Dir(workspacePath), OverrideFileName)
	if data, err := os.ReadFile(overridePath); err == nil {
		logger.WithField("path", overridePath).Debug("Applying local override configuration")
		var override Config
		if err := toml.Unmarshal([]byte(expandEnvVars(string(data))), &override); err == nil {
			finalConfig = mergeConfigs(finalConfig, &override)
		} else {
			logger.WithError(err).Warn("Failed to parse override configuration, continuing without it")
		}
	}

	return finalConfig, nil
}

// FindConfigFile walks up from startDir looking for hostsync.yml.
func FindConfigFile(startDir string) (string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.ConfigNotFound(filepath.Join(startDir, ConfigFileName))
		}
		dir = parent
	}
}

// mergeConfigs overlays non-zero fields of overlay on top of base.
func mergeConfigs(base, overlay *Config) *Config {
	merged := *base

	if overlay.Version != "" {
		merged.Version = overlay.Version
	}
	if overlay.ThreadChecks {
		merged.ThreadChecks = true
	}
	if overlay.Watch.DebounceMs != 0 {
		merged.Watch.DebounceMs = overlay.Watch.DebounceMs
	}
	if len(overlay.Watch.Ignore) > 0 {
		merged.Watch.Ignore = overlay.Watch.Ignore
	}
	if len(overlay.Extensions) > 0 {
		if merged.Extensions == nil {
			merged.Extensions = make(map[string]interface{}, len(overlay.Extensions))
		} else {
			// Copy so the base config is not mutated.
			copied := make(map[string]interface{}, len(merged.Extensions)+len(overlay.Extensions))
			for k, v := range merged.Extensions {
				copied[k] = v
			}
			merged.Extensions = copied
		}
		for k, v := range overlay.Extensions {
			merged.Extensions[k] = v
		}
	}

	return &merged
}

// expandEnvVars replaces ${VAR} references with their environment values.
func expandEnvVars(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		name := envVarRegex.FindStringSubmatch(match)[1]
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return match
	})
}

// getXDGConfigPath returns the global config path, honoring XDG_CONFIG_HOME.
func getXDGConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "hostsync", ConfigFileName)
}
