package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// GenerateSchema generates the JSON Schema for the hostsync configuration.
// It reflects the Config struct from types.go but excludes the 'Extensions'
// field, which is free-form by design.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		// Extensions are excluded, so unknown top-level fields are rejected.
		AllowAdditionalProperties: false,
		// Expand struct references instead of using $ref for a cleaner schema.
		ExpandedStruct: true,
		// Use YAML field names for property names
		FieldNameTag: "yaml",
	}

	// A temporary struct with Extensions widened to a free-form object so
	// tool-specific sections pass validation without being specified here.
	type BaseConfig struct {
		Version      string                 `yaml:"version,omitempty" jsonschema:"description=Config format version"`
		ThreadChecks bool                   `yaml:"thread_checks,omitempty" jsonschema:"description=Enable coordinating-goroutine assertions"`
		Watch        WatchConfig            `yaml:"watch,omitempty" jsonschema:"description=Workspace project watcher settings"`
		Extensions   map[string]interface{} `yaml:"extensions,omitempty" jsonschema:"description=Tool-specific configuration sections"`
	}

	schema := r.Reflect(&BaseConfig{})
	schema.Title = "Hostsync Configuration"
	schema.Description = "Schema for core hostsync.yml properties."
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return json.MarshalIndent(schema, "", "  ")
}
