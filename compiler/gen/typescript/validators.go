package typescript

import (
	"fmt"
	"strings"

	"github.com/typeweave/typeweave/compiler/gen"
	"github.com/typeweave/typeweave/schema"
)

// validatorsPlugin generates zod validation schemas under schemas/: a row
// schema mirroring each entity interface and an insert schema for create
// payloads. It also exposes a SchemaBuilder service so downstream plugins
// can locate the schema for an entity without hardcoding capability keys.
type validatorsPlugin struct {
	insert bool
}

// NewValidators returns the validators generator.
func NewValidators() gen.Plugin {
	return &validatorsPlugin{insert: true}
}

func (p *validatorsPlugin) Name() string               { return "validators" }
func (p *validatorsPlugin) Provides() []gen.Capability { return []gen.Capability{CapValidator} }
func (p *validatorsPlugin) Requires() []gen.Capability { return []gen.Capability{CapTypes} }

// Configure implements gen.Configurable.
func (p *validatorsPlugin) Configure(options map[string]any) error {
	for key, value := range options {
		switch key {
		case "insert_schemas":
			v, ok := value.(bool)
			if !ok {
				return fmt.Errorf("option %q: expected bool, got %T", key, value)
			}
			p.insert = v
		default:
			return fmt.Errorf("unknown option %q", key)
		}
	}
	return nil
}

// FileRules implements gen.FileNamer.
func (p *validatorsPlugin) FileRules() []gen.FileRule {
	return []gen.FileRule{
		{Prefix: CapValidator, Name: func(ctx *gen.NameContext) string {
			if ctx.Entity == "" {
				return ""
			}
			return "schemas/" + ctx.Entity + ".ts"
		}},
	}
}

func (p *validatorsPlugin) Declare(m *schema.Model) ([]gen.Declaration, error) {
	decls := []gen.Declaration{{
		Capability: CapSchemaBuilder,
		Name:       "SchemaBuilder",
		Virtual:    true,
		Service:    &SchemaBuilder{insert: p.insert},
	}}
	for _, ent := range m.Entities {
		decls = append(decls, gen.Declaration{
			Capability: sub(CapValidator, ent.Name),
			Name:       ent.Name + "Schema",
			Kind:       gen.KindValue,
			Export:     gen.ExportNamed,
			DependsOn:  []gen.Capability{sub(CapTypes, ent.Name)},
		})
		if p.insert {
			decls = append(decls, gen.Declaration{
				Capability: sub(CapValidator, ent.Name, "insert"),
				Name:       ent.Name + "InsertSchema",
				Kind:       gen.KindValue,
				Export:     gen.ExportNamed,
				DependsOn:  []gen.Capability{sub(CapTypes, ent.Name, "new")},
			})
		}
	}
	return decls, nil
}

func (p *validatorsPlugin) Render(m *schema.Model, reg *gen.Registry) ([]gen.Rendered, error) {
	var out []gen.Rendered
	for _, ent := range m.Entities {
		row, ok := reg.Resolve(sub(CapTypes, ent.Name))
		if !ok {
			return nil, gen.NewNotFoundError(sub(CapTypes, ent.Name), p.Name())
		}
		out = append(out, gen.Rendered{
			Capability: sub(CapValidator, ent.Name),
			Fragment:   genRowSchema(m, ent, row.Name),
			Imports:    []gen.ImportSpec{{Path: "zod", Named: []string{"z"}}},
		})
		if p.insert {
			payload, ok := reg.Resolve(sub(CapTypes, ent.Name, "new"))
			if !ok {
				return nil, gen.NewNotFoundError(sub(CapTypes, ent.Name, "new"), p.Name())
			}
			out = append(out, gen.Rendered{
				Capability: sub(CapValidator, ent.Name, "insert"),
				Fragment:   genInsertSchema(m, ent, payload.Name),
				Imports:    []gen.ImportSpec{{Path: "zod", Named: []string{"z"}}},
			})
		}
	}
	return out, nil
}

// genRowSchema generates the zod schema validating a full row. The satisfies
// clause pins the schema output to the row interface, so drift between the
// two generators fails the TypeScript build instead of production traffic.
func genRowSchema(m *schema.Model, ent *schema.Entity, rowType string) *Const {
	var b strings.Builder
	b.WriteString("z.object({\n")
	for _, f := range ent.Fields {
		b.WriteString(indent)
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(zodType(m, f))
		b.WriteString(",\n")
	}
	b.WriteString("}) satisfies z.ZodType<")
	b.WriteString(rowType)
	b.WriteString(">")
	return &Const{
		Name:   ent.Name + "Schema",
		Export: true,
		Doc:    fmt.Sprintf("Validates a %s row.", ent.Table),
		Value:  b.String(),
	}
}

// genInsertSchema generates the zod schema validating a create payload,
// mirroring the entity's insert interface: defaultable and nullable columns
// become optional.
func genInsertSchema(m *schema.Model, ent *schema.Entity, payloadType string) *Const {
	var b strings.Builder
	b.WriteString("z.object({\n")
	for _, f := range ent.Fields {
		b.WriteString(indent)
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(insertZodType(m, f))
		b.WriteString(",\n")
	}
	b.WriteString("}) satisfies z.ZodType<")
	b.WriteString(payloadType)
	b.WriteString(">")
	return &Const{
		Name:   ent.Name + "InsertSchema",
		Export: true,
		Doc:    fmt.Sprintf("Validates an insert payload for the %s table.", ent.Table),
		Value:  b.String(),
	}
}

// SchemaBuilder maps entity names to the validator capabilities declared for
// them. Downstream plugins obtain it through Registry.Import on
// CapSchemaBuilder and its Service accessor.
type SchemaBuilder struct {
	insert bool
}

// Schema returns the capability of the row schema for an entity.
func (b *SchemaBuilder) Schema(entity string) gen.Capability {
	return sub(CapValidator, entity)
}

// InsertSchema returns the capability of the insert schema for an entity.
// The second return reports whether insert schemas were generated.
func (b *SchemaBuilder) InsertSchema(entity string) (gen.Capability, bool) {
	if !b.insert {
		return "", false
	}
	return sub(CapValidator, entity, "insert"), true
}

var (
	_ gen.Plugin       = (*validatorsPlugin)(nil)
	_ gen.Configurable = (*validatorsPlugin)(nil)
	_ gen.FileNamer    = (*validatorsPlugin)(nil)
)
