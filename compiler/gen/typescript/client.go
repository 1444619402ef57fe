package typescript

import (
	"fmt"
	"strings"

	"github.com/typeweave/typeweave/compiler/gen"
	"github.com/typeweave/typeweave/schema"
)

const clientFile = "client.ts"

// clientPlugin generates client.ts: a knex handle configured for the
// introspected dialect, exported as the file's default, plus a Database
// alias over the knex instance type.
type clientPlugin struct {
	env     string
	poolMin int
	poolMax int
}

// NewClient returns the client generator.
func NewClient() gen.Plugin {
	return &clientPlugin{env: "DATABASE_URL", poolMin: 2, poolMax: 10}
}

func (p *clientPlugin) Name() string               { return "client" }
func (p *clientPlugin) Provides() []gen.Capability { return []gen.Capability{CapClient} }
func (p *clientPlugin) Requires() []gen.Capability { return nil }

// Configure implements gen.Configurable.
func (p *clientPlugin) Configure(options map[string]any) error {
	for key, value := range options {
		switch key {
		case "env":
			v, ok := value.(string)
			if !ok {
				return fmt.Errorf("option %q: expected string, got %T", key, value)
			}
			p.env = v
		case "pool_min", "pool_max":
			n, ok := toInt(value)
			if !ok || n < 0 {
				return fmt.Errorf("option %q: expected non-negative integer, got %v", key, value)
			}
			if key == "pool_min" {
				p.poolMin = n
			} else {
				p.poolMax = n
			}
		default:
			return fmt.Errorf("unknown option %q", key)
		}
	}
	return nil
}

func (p *clientPlugin) Declare(m *schema.Model) ([]gen.Declaration, error) {
	return []gen.Declaration{
		{
			Capability: CapClient,
			Name:       "db",
			Kind:       gen.KindValue,
			Export:     gen.ExportDefault,
			File:       clientFile,
		},
		{
			Capability: sub(CapClient, "database"),
			Name:       "Database",
			Kind:       gen.KindType,
			Export:     gen.ExportNamed,
			File:       clientFile,
		},
	}, nil
}

func (p *clientPlugin) Render(m *schema.Model, reg *gen.Registry) ([]gen.Rendered, error) {
	return []gen.Rendered{
		{
			Capability: CapClient,
			Fragment:   p.genHandle(m),
			Imports:    []gen.ImportSpec{{Path: "knex", Default: "knex"}},
		},
		{
			Capability: sub(CapClient, "database"),
			Fragment: &Alias{
				Name:   "Database",
				Export: true,
				Doc:    "The knex instance type the generated queries run on.",
				Type:   "Knex",
			},
			Imports: []gen.ImportSpec{{Path: "knex", Types: []string{"Knex"}}},
		},
	}, nil
}

// genHandle generates the knex handle for the model's dialect. sqlite needs
// a filename connection object and useNullAsDefault; the server dialects
// take the connection string straight from the environment.
func (p *clientPlugin) genHandle(m *schema.Model) *Const {
	var b strings.Builder
	b.WriteString("knex({\n")
	fmt.Fprintf(&b, "%sclient: %s,\n", indent, Quote(dialectClient(m.Dialect)))
	if m.Dialect == "sqlite" {
		fmt.Fprintf(&b, "%sconnection: { filename: process.env.%s ?? ':memory:' },\n", indent, p.env)
		fmt.Fprintf(&b, "%suseNullAsDefault: true,\n", indent)
	} else {
		fmt.Fprintf(&b, "%sconnection: process.env.%s,\n", indent, p.env)
		fmt.Fprintf(&b, "%spool: { min: %d, max: %d },\n", indent, p.poolMin, p.poolMax)
	}
	b.WriteString("})")
	return &Const{
		Name:    "db",
		Default: true,
		Doc:     fmt.Sprintf("The shared database handle, configured through %s.", p.env),
		Value:   b.String(),
	}
}

// dialectClient maps an introspected dialect to its knex client name.
func dialectClient(dialect string) string {
	switch dialect {
	case "mysql":
		return "mysql2"
	case "sqlite":
		return "better-sqlite3"
	default:
		return "pg"
	}
}

// toInt folds the integer representations a YAML or JSON decoder may hand
// over into an int.
func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	}
	return 0, false
}

var (
	_ gen.Plugin       = (*clientPlugin)(nil)
	_ gen.Configurable = (*clientPlugin)(nil)
)
