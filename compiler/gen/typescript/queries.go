package typescript

import (
	"fmt"
	"strings"

	"github.com/typeweave/typeweave/compiler/gen"
	"github.com/typeweave/typeweave/schema"
)

// queriesPlugin generates db/: one exported object per entity bundling the
// typed knex queries for its table. The object depends on the client plugin
// for the shared handle and on the models plugin for the row types.
type queriesPlugin struct{}

// NewQueries returns the queries generator.
func NewQueries() gen.Plugin {
	return queriesPlugin{}
}

func (queriesPlugin) Name() string               { return "queries" }
func (queriesPlugin) Provides() []gen.Capability { return []gen.Capability{CapQuery} }
func (queriesPlugin) Requires() []gen.Capability { return []gen.Capability{CapTypes, CapClient} }

// FileRules implements gen.FileNamer.
func (queriesPlugin) FileRules() []gen.FileRule {
	return []gen.FileRule{
		{Prefix: CapQuery, Name: func(ctx *gen.NameContext) string {
			if ctx.Entity == "" {
				return ""
			}
			return "db/" + ctx.Entity + ".ts"
		}},
	}
}

func (queriesPlugin) Declare(m *schema.Model) ([]gen.Declaration, error) {
	decls := make([]gen.Declaration, 0, len(m.Entities))
	for _, ent := range m.Entities {
		decls = append(decls, gen.Declaration{
			Capability: sub(CapQuery, ent.Name),
			Name:       schema.Camel(ent.Name) + "Queries",
			Kind:       gen.KindValue,
			Export:     gen.ExportNamed,
		})
	}
	return decls, nil
}

func (p queriesPlugin) Render(m *schema.Model, reg *gen.Registry) ([]gen.Rendered, error) {
	client, ok := reg.Resolve(CapClient)
	if !ok {
		return nil, gen.NewNotFoundError(CapClient, p.Name())
	}
	var out []gen.Rendered
	for _, ent := range m.Entities {
		row, ok := reg.Resolve(sub(CapTypes, ent.Name))
		if !ok {
			return nil, gen.NewNotFoundError(sub(CapTypes, ent.Name), p.Name())
		}
		uses := []gen.Capability{sub(CapTypes, ent.Name), CapClient}

		// Prefer the id alias when the models plugin declared one.
		idType := ""
		if pk, single := ent.SinglePK(); single {
			idType = scalarType(pk)
			if alias, ok := reg.Resolve(sub(CapTypes, ent.Name, "id")); ok {
				idType = alias.Name
				uses = append(uses, sub(CapTypes, ent.Name, "id"))
			}
		}
		payload := row.Name
		if sym, ok := reg.Resolve(sub(CapTypes, ent.Name, "new")); ok {
			payload = sym.Name
			uses = append(uses, sub(CapTypes, ent.Name, "new"))
		}

		out = append(out, gen.Rendered{
			Capability: sub(CapQuery, ent.Name),
			Fragment:   genQueries(m, ent, row.Name, client.Name, idType, payload),
			Uses:       uses,
		})
	}
	return out, nil
}

// genQueries generates the query object for one entity. byId and remove are
// only generated for single-column primary keys; composite keys keep the
// list and insert helpers.
func genQueries(m *schema.Model, ent *schema.Entity, rowType, db, idType, payload string) *Const {
	table := Quote(ent.Table)
	from := fmt.Sprintf("%s<%s>(%s)", db, rowType, table)

	var b strings.Builder
	b.WriteString("{\n")
	fmt.Fprintf(&b, "%sasync all(): Promise<%s[]> {\n", indent, rowType)
	fmt.Fprintf(&b, "%s%sreturn %s.select('*');\n", indent, indent, from)
	fmt.Fprintf(&b, "%s},\n", indent)

	if pk, single := ent.SinglePK(); single {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%sasync byId(id: %s): Promise<%s | undefined> {\n", indent, idType, rowType)
		fmt.Fprintf(&b, "%s%sreturn %s.where(%s, id).first();\n", indent, indent, from, Quote(pk.Column))
		fmt.Fprintf(&b, "%s},\n", indent)
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "%sasync insert(row: %s): Promise<%s> {\n", indent, payload, insertResult(m, rowType))
	fmt.Fprintf(&b, "%s%sreturn %s.insert(row)%s;\n", indent, indent, from, returningClause(m))
	fmt.Fprintf(&b, "%s},\n", indent)

	if pk, single := ent.SinglePK(); single {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%sasync remove(id: %s): Promise<number> {\n", indent, idType)
		fmt.Fprintf(&b, "%s%sreturn %s.where(%s, id).del();\n", indent, indent, from, Quote(pk.Column))
		fmt.Fprintf(&b, "%s},\n", indent)
	}
	b.WriteString("}")

	return &Const{
		Name:   schema.Camel(ent.Name) + "Queries",
		Export: true,
		Doc:    fmt.Sprintf("Typed queries for the %s table.", ent.Table),
		Value:  b.String(),
	}
}

// insertResult is the insert return type. Only postgres and sqlite support
// returning rows from an insert; mysql yields the inserted ids.
func insertResult(m *schema.Model, rowType string) string {
	if supportsReturning(m.Dialect) {
		return rowType + "[]"
	}
	return "number[]"
}

func returningClause(m *schema.Model) string {
	if supportsReturning(m.Dialect) {
		return ".returning('*')"
	}
	return ""
}

func supportsReturning(dialect string) bool {
	return dialect == "postgres" || dialect == "sqlite"
}

var (
	_ gen.Plugin    = queriesPlugin{}
	_ gen.FileNamer = queriesPlugin{}
)
