// Package config loads the typeweave.yaml project file.
//
// The file describes where the schema comes from, where generated sources
// go, and which generators run:
//
//	database:
//	  dialect: postgres
//	  dsn: postgres://localhost/app?sslmode=disable
//	  exclude: [schema_migrations]
//	output:
//	  dir: ./src/generated
//	format:
//	  command: npx prettier --write
//	generate:
//	  plugins: [models, validators, client, queries, index]
//	plugins:
//	  validators:
//	    coerceDates: true
//
// Unknown keys are rejected so that typos surface as load errors instead of
// silently ignored settings. Per-plugin blocks are kept as raw maps; each
// plugin decodes and validates its own block.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file name looked up when none is given.
const DefaultPath = "typeweave.yaml"

// Config is the root of the project file.
type Config struct {
	Database Database                  `yaml:"database"`
	Output   Output                    `yaml:"output"`
	Format   Format                    `yaml:"format"`
	Generate Generate                  `yaml:"generate"`
	Plugins  map[string]map[string]any `yaml:"plugins"`
}

// Database says which database to introspect.
type Database struct {
	// Dialect is one of postgres, mysql, or sqlite.
	Dialect string `yaml:"dialect"`

	// DSN is the connection string, in the driver's native format.
	DSN string `yaml:"dsn"`

	// Schema overrides the dialect's default namespace.
	Schema string `yaml:"schema"`

	// Include restricts introspection to the listed tables.
	Include []string `yaml:"include"`

	// Exclude drops the listed tables.
	Exclude []string `yaml:"exclude"`
}

// Output controls the generated file tree.
type Output struct {
	// Dir is the directory generated files are written into.
	Dir string `yaml:"dir"`

	// Header overrides the comment at the top of each generated file.
	Header string `yaml:"header"`

	// DefaultFile collects symbols no naming rule claims.
	DefaultFile string `yaml:"defaultFile"`

	// ImportExtension is appended to relative import paths. Node-style
	// ESM resolution wants ".js"; the default is extensionless.
	ImportExtension string `yaml:"importExtension"`
}

// Format configures the post-write formatter.
type Format struct {
	// Command is split on whitespace and invoked once with all written
	// file paths appended. Empty disables formatting.
	Command string `yaml:"command"`
}

// Generate selects the generators to run.
type Generate struct {
	// Plugins lists generator names in the order they register. Empty
	// selects the bundled defaults.
	Plugins []string `yaml:"plugins"`
}

// Default returns a Config carrying the default output settings.
func Default() *Config {
	return &Config{
		Output: Output{
			Dir:         "./generated",
			DefaultFile: "index.ts",
		},
	}
}

// Load reads and parses the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("typeweave: read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return cfg, nil
}

// Parse decodes YAML data into a Config on top of the defaults. Unknown
// keys are an error.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("typeweave: parse config: %w", err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

// applyDefaults backfills settings an explicit empty value would otherwise
// blank out.
func applyDefaults(cfg *Config) {
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "./generated"
	}
	if cfg.Output.DefaultFile == "" {
		cfg.Output.DefaultFile = "index.ts"
	}
}
