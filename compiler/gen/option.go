package gen

import (
	"errors"
	"strings"

	"go.uber.org/zap"
)

// Option configures code generation.
type Option func(*Config) error

// WithPlugins registers plugins in the given order.
// Registration order breaks scheduling ties between independent plugins.
func WithPlugins(plugins ...Plugin) Option {
	return func(c *Config) error {
		for _, p := range plugins {
			if p == nil {
				return NewConfigError("Plugins", nil, "plugin cannot be nil")
			}
			c.Plugins = append(c.Plugins, p)
		}
		return nil
	}
}

// WithPluginConfig sets the configuration blob for the named plugin.
// The blob is handed to the plugin's Configure during the validating phase.
func WithPluginConfig(name string, options map[string]any) Option {
	return func(c *Config) error {
		if name == "" {
			return NewConfigError("PluginConfig", nil, "plugin name cannot be empty")
		}
		if c.PluginConfigs == nil {
			c.PluginConfigs = make(map[string]map[string]any)
		}
		c.PluginConfigs[name] = options
		return nil
	}
}

// WithHeader sets the file header comment.
// The header is added at the top of each generated source file; an empty
// header disables it.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithDefaultFile sets the file that collects symbols no naming rule claims.
func WithDefaultFile(name string) Option {
	return func(c *Config) error {
		if name == "" {
			return NewConfigError("DefaultFile", nil, "default file cannot be empty")
		}
		c.DefaultFile = name
		return nil
	}
}

// WithSourceExtension sets the canonical extension of generated source
// files. Only files carrying this extension receive the header, and import
// paths normalize it away.
func WithSourceExtension(ext string) Option {
	return func(c *Config) error {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			return NewConfigError("SourceExtension", ext, "extension must start with a dot")
		}
		c.SourceExt = ext
		return nil
	}
}

// WithImportExtension sets the extension synthesized import paths carry.
// Node-style ESM resolution wants ".js" here; the default is extensionless.
func WithImportExtension(ext string) Option {
	return func(c *Config) error {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			return NewConfigError("ImportExtension", ext, "extension must start with a dot")
		}
		c.ImportExt = ext
		return nil
	}
}

// WithFileRules appends global file naming rules.
// Rules are matched by capability prefix, longest prefix first; a plugin's
// own rules take precedence over global ones.
func WithFileRules(rules ...FileRule) Option {
	return func(c *Config) error {
		for _, r := range rules {
			if err := r.Prefix.Validate(); err != nil {
				return NewConfigError("FileRules", string(r.Prefix), err.Error())
			}
			if r.Name == nil {
				return NewConfigError("FileRules", string(r.Prefix), "naming function cannot be nil")
			}
			c.Rules = append(c.Rules, r)
		}
		return nil
	}
}

// WithFileRule appends a single global file naming rule.
func WithFileRule(prefix Capability, name NameFunc) Option {
	return WithFileRules(FileRule{Prefix: prefix, Name: name})
}

// WithLogger sets the logger used during generation.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *Config) error {
		if logger == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = logger
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the given options applied on top of
// the defaults.
func NewConfig(opts ...Option) (*Config, error) {
	c := DefaultConfig()
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
