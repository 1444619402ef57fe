package typescript

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"

	"github.com/typeweave/typeweave/compiler/gen"
	"github.com/typeweave/typeweave/schema"
)

const sdlFile = "schema.graphql"

// graphqlPlugin generates schema.graphql: an SDL document mirroring the
// introspected model, with an object type per entity, an enum per database
// enum, and a Query root. The file is raw text, so it stays clear of the
// TypeScript import machinery.
type graphqlPlugin struct{}

// NewGraphQL returns the GraphQL schema generator.
func NewGraphQL() gen.Plugin {
	return graphqlPlugin{}
}

func (graphqlPlugin) Name() string               { return "graphql" }
func (graphqlPlugin) Provides() []gen.Capability { return []gen.Capability{CapGraphQL} }
func (graphqlPlugin) Requires() []gen.Capability { return nil }

func (graphqlPlugin) Declare(m *schema.Model) ([]gen.Declaration, error) {
	// The SDL document is a free-standing emission with no symbols.
	return nil, nil
}

func (graphqlPlugin) Render(m *schema.Model, reg *gen.Registry) ([]gen.Rendered, error) {
	doc := &ast.SchemaDocument{}
	for _, name := range scalarDefs(m) {
		doc.Definitions = append(doc.Definitions, &ast.Definition{
			Kind: ast.Scalar,
			Name: name,
		})
	}
	for _, e := range m.Enums {
		doc.Definitions = append(doc.Definitions, genEnumDef(e))
	}
	for _, ent := range m.Entities {
		doc.Definitions = append(doc.Definitions, genObjectDef(m, ent))
	}
	doc.Definitions = append(doc.Definitions, genQueryDef(m))

	var buf bytes.Buffer
	formatter.NewFormatter(&buf, formatter.WithIndent(indent)).FormatSchemaDocument(doc)

	return []gen.Rendered{{
		File:     sdlFile,
		Header:   "# Code generated by typeweave. DO NOT EDIT.",
		Fragment: gen.Text(buf.String()),
	}}, nil
}

// scalarDefs lists the custom scalars the model's columns require.
func scalarDefs(m *schema.Model) []string {
	var dates, json bool
	for _, ent := range m.Entities {
		for _, f := range ent.Fields {
			switch {
			case f.Type.Temporal():
				dates = true
			case f.Type == schema.TypeJSON:
				json = true
			}
		}
	}
	var defs []string
	if dates {
		defs = append(defs, "DateTime")
	}
	if json {
		defs = append(defs, "JSON")
	}
	return defs
}

// genEnumDef generates the enum definition for a database enum. Labels are
// folded to conventional SCREAMING_CASE members.
func genEnumDef(e *schema.Enum) *ast.Definition {
	def := &ast.Definition{
		Kind:        ast.Enum,
		Name:        schema.Pascal(e.Name),
		Description: e.Comment,
	}
	for _, v := range e.Values {
		def.EnumValues = append(def.EnumValues, &ast.EnumValueDefinition{
			Name: sdlEnumValue(v),
		})
	}
	return def
}

// sdlEnumValue folds an enum label into a SCREAMING_CASE member name
// ("in-progress" -> "IN_PROGRESS"). A leading digit is prefixed with an
// underscore to stay a valid SDL name.
func sdlEnumValue(label string) string {
	words := strings.FieldsFunc(label, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return "EMPTY"
	}
	out := strings.ToUpper(strings.Join(words, "_"))
	if unicode.IsDigit(rune(out[0])) {
		out = "_" + out
	}
	return out
}

// genObjectDef generates the object type for an entity: one field per
// column, then the relation fields.
func genObjectDef(m *schema.Model, ent *schema.Entity) *ast.Definition {
	def := &ast.Definition{
		Kind:        ast.Object,
		Name:        ent.Name,
		Description: ent.Comment,
	}
	for _, f := range ent.Fields {
		def.Fields = append(def.Fields, &ast.FieldDefinition{
			Name:        f.Name,
			Description: f.Comment,
			Type:        gqlFieldType(f),
		})
	}
	for _, rel := range ent.Relations {
		typ := ast.NamedType(rel.RefEntity, nil)
		if !nullableFK(ent, rel) {
			typ = ast.NonNullNamedType(rel.RefEntity, nil)
		}
		def.Fields = append(def.Fields, &ast.FieldDefinition{
			Name: relationProp(rel),
			Type: typ,
		})
	}
	for _, in := range inboundRelations(m, ent) {
		def.Fields = append(def.Fields, &ast.FieldDefinition{
			Name: in.name,
			Type: ast.NonNullListType(ast.NonNullNamedType(in.entity.Name, nil), nil),
		})
	}
	return def
}

// genQueryDef generates the Query root with a fetch and a list field per
// entity.
func genQueryDef(m *schema.Model) *ast.Definition {
	def := &ast.Definition{
		Kind: ast.Object,
		Name: "Query",
	}
	for _, ent := range m.Entities {
		if _, single := ent.SinglePK(); single {
			def.Fields = append(def.Fields, &ast.FieldDefinition{
				Name: schema.Camel(ent.Name),
				Arguments: ast.ArgumentDefinitionList{{
					Name: "id",
					Type: ast.NonNullNamedType("ID", nil),
				}},
				Type: ast.NamedType(ent.Name, nil),
			})
		}
		def.Fields = append(def.Fields, &ast.FieldDefinition{
			Name: schema.Camel(schema.Plural(ent.Name)),
			Type: ast.NonNullListType(ast.NonNullNamedType(ent.Name, nil), nil),
		})
	}
	return def
}

// gqlFieldType maps a column to its SDL type. 64-bit integers and bytes fall
// back to String, matching the row interfaces.
func gqlFieldType(f *schema.Field) *ast.Type {
	var name string
	switch {
	case f.IsPrimary:
		name = "ID"
	case f.Type == schema.TypeString, f.Type == schema.TypeUUID,
		f.Type == schema.TypeBigInt, f.Type == schema.TypeBytes:
		name = "String"
	case f.Type == schema.TypeInt:
		name = "Int"
	case f.Type == schema.TypeFloat:
		name = "Float"
	case f.Type == schema.TypeBool:
		name = "Boolean"
	case f.Type.Temporal():
		name = "DateTime"
	case f.Type == schema.TypeJSON:
		name = "JSON"
	case f.Type == schema.TypeEnum:
		name = schema.Pascal(f.Enum)
	default:
		name = "String"
	}
	typ := ast.NamedType(name, nil)
	if f.Array {
		typ = ast.ListType(ast.NonNullNamedType(name, nil), nil)
	}
	if !f.Nullable {
		typ.NonNull = true
	}
	return typ
}

// nullableFK reports whether any column of the foreign key is nullable, in
// which case the relation field stays optional.
func nullableFK(ent *schema.Entity, rel *schema.Relation) bool {
	for _, col := range rel.Columns {
		if f, ok := ent.Field(col); ok && f.Nullable {
			return true
		}
	}
	return false
}

var _ gen.Plugin = graphqlPlugin{}
