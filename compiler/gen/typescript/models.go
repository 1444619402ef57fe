package typescript

import (
	"fmt"

	"github.com/typeweave/typeweave/compiler/gen"
	"github.com/typeweave/typeweave/schema"
)

// modelsPlugin generates the row interfaces: one exported interface per
// entity under types/, an id alias per single-column primary key, and a
// union alias per database enum collected in types/enums.ts.
type modelsPlugin struct {
	idAliases bool
	relations bool
}

// NewModels returns the models generator.
func NewModels() gen.Plugin {
	return &modelsPlugin{idAliases: true, relations: true}
}

func (p *modelsPlugin) Name() string               { return "models" }
func (p *modelsPlugin) Provides() []gen.Capability { return []gen.Capability{CapTypes} }
func (p *modelsPlugin) Requires() []gen.Capability { return nil }

// Configure implements gen.Configurable.
func (p *modelsPlugin) Configure(options map[string]any) error {
	for key, value := range options {
		v, ok := value.(bool)
		if !ok {
			return fmt.Errorf("option %q: expected bool, got %T", key, value)
		}
		switch key {
		case "id_aliases":
			p.idAliases = v
		case "relations":
			p.relations = v
		default:
			return fmt.Errorf("unknown option %q", key)
		}
	}
	return nil
}

// FileRules implements gen.FileNamer. Enum aliases share one file; every
// entity gets its own.
func (p *modelsPlugin) FileRules() []gen.FileRule {
	return []gen.FileRule{
		{Prefix: CapTypesEnums, Name: func(*gen.NameContext) string { return "types/enums.ts" }},
		{Prefix: CapTypes, Name: func(ctx *gen.NameContext) string {
			if ctx.Entity == "" {
				return ""
			}
			return "types/" + ctx.Entity + ".ts"
		}},
	}
}

func (p *modelsPlugin) Declare(m *schema.Model) ([]gen.Declaration, error) {
	var decls []gen.Declaration
	for _, e := range m.Enums {
		decls = append(decls, gen.Declaration{
			Capability: sub(CapTypesEnums, e.Name),
			Name:       schema.Pascal(e.Name),
			Kind:       gen.KindType,
			Export:     gen.ExportNamed,
		})
	}
	for _, ent := range m.Entities {
		decls = append(decls, gen.Declaration{
			Capability: sub(CapTypes, ent.Name),
			Name:       ent.Name,
			Kind:       gen.KindType,
			Export:     gen.ExportNamed,
			DependsOn:  p.interfaceDeps(m, ent),
		})
		decls = append(decls, gen.Declaration{
			Capability: sub(CapTypes, ent.Name, "new"),
			Name:       "New" + ent.Name,
			Kind:       gen.KindType,
			Export:     gen.ExportNamed,
			DependsOn:  enumDeps(ent),
		})
		if _, ok := ent.SinglePK(); ok && p.idAliases {
			decls = append(decls, gen.Declaration{
				Capability: sub(CapTypes, ent.Name, "id"),
				Name:       ent.Name + "Id",
				Kind:       gen.KindType,
				Export:     gen.ExportNamed,
			})
		}
	}
	return decls, nil
}

func (p *modelsPlugin) Render(m *schema.Model, reg *gen.Registry) ([]gen.Rendered, error) {
	var out []gen.Rendered
	for _, e := range m.Enums {
		out = append(out, gen.Rendered{
			Capability: sub(CapTypesEnums, e.Name),
			Fragment:   genEnumAlias(e),
		})
	}
	for _, ent := range m.Entities {
		out = append(out, gen.Rendered{
			Capability: sub(CapTypes, ent.Name),
			Fragment:   p.genRowInterface(m, ent),
		})
		out = append(out, gen.Rendered{
			Capability: sub(CapTypes, ent.Name, "new"),
			Fragment:   genNewInterface(ent),
		})
		if pk, ok := ent.SinglePK(); ok && p.idAliases {
			out = append(out, gen.Rendered{
				Capability: sub(CapTypes, ent.Name, "id"),
				Fragment:   genIDAlias(ent, pk),
			})
		}
	}
	return out, nil
}

// interfaceDeps collects the capabilities an entity interface references:
// enum aliases for enum columns and row interfaces for related entities.
func (p *modelsPlugin) interfaceDeps(m *schema.Model, ent *schema.Entity) []gen.Capability {
	var deps []gen.Capability
	seen := make(map[gen.Capability]struct{})
	add := func(c gen.Capability) {
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}
		deps = append(deps, c)
	}
	for _, c := range enumDeps(ent) {
		add(c)
	}
	if p.relations {
		for _, rel := range ent.Relations {
			add(sub(CapTypes, rel.RefEntity))
		}
		for _, other := range m.Entities {
			for _, rel := range other.Relations {
				if rel.RefEntity == ent.Name {
					add(sub(CapTypes, other.Name))
				}
			}
		}
	}
	return deps
}

// genEnumAlias generates the union alias for a database enum.
func genEnumAlias(e *schema.Enum) *Alias {
	members := make([]string, len(e.Values))
	for i, v := range e.Values {
		members[i] = Quote(v)
	}
	doc := e.Comment
	if doc == "" {
		doc = fmt.Sprintf("Values of the %s database enum.", e.Name)
	}
	return &Alias{
		Name:   schema.Pascal(e.Name),
		Export: true,
		Doc:    doc,
		Type:   Union(members...),
	}
}

// genRowInterface generates the row interface for an entity: one property
// per column, then the relation properties, all optional since they are only
// present when the caller joined them in.
func (p *modelsPlugin) genRowInterface(m *schema.Model, ent *schema.Entity) *Interface {
	doc := ent.Comment
	if doc == "" {
		doc = fmt.Sprintf("A row of the %s table.", ent.Table)
	}
	iface := &Interface{
		Name:   ent.Name,
		Export: true,
		Doc:    doc,
	}
	for _, f := range ent.Fields {
		iface.Props = append(iface.Props, Property{
			Name: f.Name,
			Type: fieldType(f),
			Doc:  f.Comment,
		})
	}
	if p.relations {
		iface.Props = append(iface.Props, relationProps(m, ent)...)
	}
	return iface
}

// enumDeps collects the enum alias capabilities an entity's columns use.
func enumDeps(ent *schema.Entity) []gen.Capability {
	var deps []gen.Capability
	seen := make(map[string]struct{})
	for _, f := range ent.Fields {
		if f.Type != schema.TypeEnum || f.Enum == "" {
			continue
		}
		if _, ok := seen[f.Enum]; ok {
			continue
		}
		seen[f.Enum] = struct{}{}
		deps = append(deps, sub(CapTypesEnums, f.Enum))
	}
	return deps
}

// genNewInterface generates the insert-payload interface for an entity.
// Columns the database can fill on its own become optional, so callers only
// spell out what they actually provide.
func genNewInterface(ent *schema.Entity) *Interface {
	iface := &Interface{
		Name:   "New" + ent.Name,
		Export: true,
		Doc:    fmt.Sprintf("An insert payload for the %s table.", ent.Table),
	}
	for _, f := range ent.Fields {
		iface.Props = append(iface.Props, Property{
			Name:     f.Name,
			Type:     fieldType(f),
			Optional: f.Nullable || f.HasDefault,
		})
	}
	return iface
}

// genIDAlias generates the primary-key alias for an entity.
func genIDAlias(ent *schema.Entity, pk *schema.Field) *Alias {
	return &Alias{
		Name:   ent.Name + "Id",
		Export: true,
		Doc:    fmt.Sprintf("Primary key of %s.", ent.Name),
		Type:   scalarType(pk),
	}
}

// relationProps derives the optional relation properties of an entity:
// belongs-to properties for its own foreign keys and has-many lists for
// foreign keys pointing back at it.
func relationProps(m *schema.Model, ent *schema.Entity) []Property {
	var props []Property
	for _, rel := range ent.Relations {
		props = append(props, Property{
			Name:     relationProp(rel),
			Type:     rel.RefEntity,
			Optional: true,
			Doc:      fmt.Sprintf("Joined %s row, when loaded.", rel.RefEntity),
		})
	}
	for _, in := range inboundRelations(m, ent) {
		props = append(props, Property{
			Name:     in.name,
			Type:     in.entity.Name + "[]",
			Optional: true,
			Doc:      fmt.Sprintf("Joined %s rows, when loaded.", in.entity.Table),
		})
	}
	return props
}

// inboundRel is one foreign key pointing at an entity, paired with the
// property name generated for the reverse list.
type inboundRel struct {
	name   string
	entity *schema.Entity
}

// inboundRelations finds every foreign key in the model referencing ent.
// The reverse property is named after the owning table; when one entity
// holds several keys to ent, the foreign key's property disambiguates them
// ("postsByAuthor", "postsByReviewer").
func inboundRelations(m *schema.Model, ent *schema.Entity) []inboundRel {
	var rels []inboundRel
	for _, other := range m.Entities {
		inbound := make([]*schema.Relation, 0, len(other.Relations))
		for _, rel := range other.Relations {
			if rel.RefEntity == ent.Name {
				inbound = append(inbound, rel)
			}
		}
		for _, rel := range inbound {
			name := schema.Camel(other.Table)
			if len(inbound) > 1 {
				name += "By" + schema.Pascal(relationProp(rel))
			}
			rels = append(rels, inboundRel{name: name, entity: other})
		}
	}
	return rels
}

// relationProp derives the property name for a foreign key: the column with
// its id suffix dropped ("author_id" -> "author"), falling back to the
// referenced entity.
func relationProp(rel *schema.Relation) string {
	if len(rel.Columns) == 1 {
		col := rel.Columns[0]
		switch {
		case len(col) > 3 && col[len(col)-3:] == "_id":
			return schema.Camel(col[:len(col)-3])
		case col != "id":
			return schema.Camel(col)
		}
	}
	return schema.Camel(rel.RefEntity)
}

var (
	_ gen.Plugin       = (*modelsPlugin)(nil)
	_ gen.Configurable = (*modelsPlugin)(nil)
	_ gen.FileNamer    = (*modelsPlugin)(nil)
)
