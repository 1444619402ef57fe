package gen

import "go.uber.org/zap"

// defaultHeader is prepended to generated source files unless overridden.
const defaultHeader = "// Code generated by typeweave. DO NOT EDIT."

const (
	// DefaultFileName collects symbols no naming rule claims.
	DefaultFileName = "index.ts"

	// DefaultSourceExt is the canonical extension of generated source files.
	DefaultSourceExt = ".ts"
)

// Config is the configuration of a generation run. Build one with NewConfig
// and options; the zero value is usable but has no plugins and no defaults.
type Config struct {
	// Plugins are the registered plugins, in registration order.
	// Registration order breaks ties between independent plugins in the
	// execution plan.
	Plugins []Plugin

	// PluginConfigs carries per-plugin configuration blobs keyed by
	// plugin name. Each blob reaches its plugin's Configure untouched;
	// decoding and validation belong to the plugin.
	PluginConfigs map[string]map[string]any

	// Header is written at the top of every generated file carrying the
	// source extension. Empty disables the header.
	Header string

	// DefaultFile receives symbols no naming rule claims.
	DefaultFile string

	// SourceExt is the canonical extension of generated source files.
	// Files with other extensions never receive the header.
	SourceExt string

	// ImportExt replaces SourceExt in synthesized import paths. The
	// default is extensionless imports.
	ImportExt string

	// Rules are the global file naming rules. A plugin's own rules take
	// precedence over them.
	Rules []FileRule

	// Logger receives progress and diagnostics.
	Logger *zap.SugaredLogger
}

// DefaultConfig returns a Config with the default output settings and a nop
// logger.
func DefaultConfig() *Config {
	return &Config{
		Header:      defaultHeader,
		DefaultFile: DefaultFileName,
		SourceExt:   DefaultSourceExt,
		Logger:      zap.NewNop().Sugar(),
	}
}

// PluginConfig returns the configuration blob registered for the plugin, or
// nil when none was provided.
func (c *Config) PluginConfig(name string) map[string]any {
	return c.PluginConfigs[name]
}

// HasPlugin reports whether a plugin with the given name is registered.
func (c *Config) HasPlugin(name string) bool {
	for _, p := range c.Plugins {
		if p.Name() == name {
			return true
		}
	}
	return false
}

// logger returns the configured logger, falling back to a nop logger so
// callers never need a nil check.
func (c *Config) logger() *zap.SugaredLogger {
	if c.Logger == nil {
		return zap.NewNop().Sugar()
	}
	return c.Logger
}
