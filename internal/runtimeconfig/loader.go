package runtimeconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the project configuration file written by `jsweb new`.
const ConfigFileName = "jsweb.yaml"

// ConfigJSONSchema documents the shape expected of jsweb.yaml. Unknown
// top-level sections are rejected so typos fail loudly at startup.
const ConfigJSONSchema = `
{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "JswebConfig",
  "type": "object",
  "properties": {
    "app": {
      "type": "object",
      "properties": {
        "name": {"type": "string"},
        "version": {"type": "string"},
        "debug": {"type": "boolean"},
        "secret": {"type": "string"}
      },
      "additionalProperties": false
    },
    "server": {
      "type": "object",
      "properties": {
        "host": {"type": "string"},
        "port": {"type": "integer", "minimum": 1, "maximum": 65535},
        "shutdown_grace_seconds": {"type": "integer", "minimum": 0}
      },
      "additionalProperties": false
    },
    "static": {
      "type": "object",
      "properties": {
        "url": {"type": "string"},
        "dir": {"type": "string"}
      },
      "additionalProperties": false
    },
    "templates": {
      "type": "object",
      "properties": {
        "dir": {"type": "string"}
      },
      "additionalProperties": false
    },
    "database": {
      "type": "object",
      "properties": {
        "enabled": {"type": "boolean"},
        "driver": {"type": "string", "enum": ["sqlite3", "postgres"]},
        "dsn": {"type": "string"},
        "echo": {"type": "boolean"},
        "migrations_dir": {"type": "string"}
      },
      "additionalProperties": false
    },
    "session": {
      "type": "object",
      "properties": {
        "cookie_name": {"type": "string"},
        "max_age_seconds": {"type": "integer", "minimum": 0},
        "secure": {"type": "boolean"},
        "store": {"type": "string", "enum": ["memory", "database"]}
      },
      "additionalProperties": false
    },
    "admin": {
      "type": "object",
      "properties": {
        "base_path": {"type": "string"}
      },
      "additionalProperties": false
    },
    "logging": {
      "type": "object",
      "properties": {
        "provider": {"type": "string"},
        "level": {"type": "string"},
        "format": {"type": "string"},
        "add_source": {"type": "boolean"},
        "focus": {"type": "array", "items": {"type": "string"}}
      },
      "additionalProperties": false
    },
    "features": {
      "type": "object",
      "properties": {
        "sessions": {"type": "boolean"},
        "csrf": {"type": "boolean"},
        "admin": {"type": "boolean"},
        "logger": {"type": "boolean"}
      },
      "additionalProperties": false
    }
  },
  "additionalProperties": false
}
`

// Load reads, schema-validates, and decodes a jsweb.yaml file. Values omitted
// from the file keep their DefaultConfig settings.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("runtimeconfig: read %s: %w", filepath.Base(path), err)
	}

	if err := validateAgainstSchema(raw); err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("runtimeconfig: decode %s: %w", filepath.Base(path), err)
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Environment variables consulted by applyEnvOverrides. They let supervisors
// such as `jsweb run` adjust the listen address without editing jsweb.yaml.
const (
	EnvServerHost = "JSWEB_SERVER_HOST"
	EnvServerPort = "JSWEB_SERVER_PORT"
	EnvDebug      = "JSWEB_DEBUG"
)

func applyEnvOverrides(cfg *Config) {
	if host := os.Getenv(EnvServerHost); host != "" {
		cfg.Server.Host = host
	}
	if port := os.Getenv(EnvServerPort); port != "" {
		if n, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = n
		}
	}
	if debug := os.Getenv(EnvDebug); debug != "" {
		if v, err := strconv.ParseBool(debug); err == nil {
			cfg.App.Debug = v
		}
	}
}

// LoadDir loads the configuration file rooted in a project directory.
func LoadDir(dir string) (Config, error) {
	return Load(filepath.Join(dir, ConfigFileName))
}

func validateAgainstSchema(raw []byte) error {
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("runtimeconfig: parse yaml: %w", err)
	}
	if doc == nil {
		return nil
	}

	// Round-trip through JSON so the validator sees canonical value types.
	encoded, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("runtimeconfig: normalize config: %w", err)
	}
	var normalized any
	if err := json.Unmarshal(encoded, &normalized); err != nil {
		return fmt.Errorf("runtimeconfig: normalize config: %w", err)
	}

	schema, err := compileSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(normalized); err != nil {
		return fmt.Errorf("runtimeconfig: %s does not match schema: %w", ConfigFileName, err)
	}
	return nil
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("jsweb.schema.json", bytes.NewReader([]byte(ConfigJSONSchema))); err != nil {
		return nil, err
	}
	return compiler.Compile("jsweb.schema.json")
}
