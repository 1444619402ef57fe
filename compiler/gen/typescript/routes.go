package typescript

import (
	"fmt"
	"strings"

	"github.com/typeweave/typeweave/compiler/gen"
	"github.com/typeweave/typeweave/schema"
)

const routerFile = "routes/index.ts"

// routesPlugin generates routes/: an express router per entity with list,
// fetch, and zod-validated create endpoints, plus an aggregate router
// mounting them under their table paths.
type routesPlugin struct{}

// NewRoutes returns the routes generator.
func NewRoutes() gen.Plugin {
	return routesPlugin{}
}

func (routesPlugin) Name() string               { return "routes" }
func (routesPlugin) Provides() []gen.Capability { return []gen.Capability{CapRoute} }
func (routesPlugin) Requires() []gen.Capability {
	return []gen.Capability{CapQuery, CapValidator}
}

// FileRules implements gen.FileNamer.
func (routesPlugin) FileRules() []gen.FileRule {
	return []gen.FileRule{
		{Prefix: CapRoute, Name: func(ctx *gen.NameContext) string {
			if ctx.Entity == "" {
				return ""
			}
			return "routes/" + ctx.Entity + ".ts"
		}},
	}
}

func (routesPlugin) Declare(m *schema.Model) ([]gen.Declaration, error) {
	var decls []gen.Declaration
	mounts := make([]gen.Capability, 0, len(m.Entities))
	for _, ent := range m.Entities {
		decls = append(decls, gen.Declaration{
			Capability: sub(CapRoute, ent.Name),
			Name:       schema.Camel(ent.Name) + "Router",
			Kind:       gen.KindValue,
			Export:     gen.ExportNamed,
			DependsOn:  []gen.Capability{sub(CapQuery, ent.Name)},
		})
		mounts = append(mounts, sub(CapRoute, ent.Name))
	}
	decls = append(decls, gen.Declaration{
		Capability: CapRoute,
		Name:       "apiRouter",
		Kind:       gen.KindValue,
		Export:     gen.ExportNamed,
		File:       routerFile,
		DependsOn:  mounts,
	})
	return decls, nil
}

func (p routesPlugin) Render(m *schema.Model, reg *gen.Registry) ([]gen.Rendered, error) {
	ref, err := reg.Import(CapSchemaBuilder)
	if err != nil {
		return nil, err
	}
	builder, ok := ref.Service().(*SchemaBuilder)
	if !ok {
		return nil, fmt.Errorf("typeweave: capability %q carries no schema builder service", CapSchemaBuilder)
	}

	express := gen.ImportSpec{Path: "express", Named: []string{"Router"}}
	var out []gen.Rendered
	for _, ent := range m.Entities {
		queries, ok := reg.Resolve(sub(CapQuery, ent.Name))
		if !ok {
			return nil, gen.NewNotFoundError(sub(CapQuery, ent.Name), p.Name())
		}
		uses := []gen.Capability{sub(CapQuery, ent.Name)}

		schemaIdent := ""
		if insertCap, ok := builder.InsertSchema(ent.Name); ok {
			sym, found := reg.Resolve(insertCap)
			if !found {
				return nil, gen.NewNotFoundError(insertCap, p.Name())
			}
			schemaIdent = sym.Name
			uses = append(uses, insertCap)
		}

		out = append(out, gen.Rendered{
			Capability: sub(CapRoute, ent.Name),
			Fragment:   genRouter(ent, queries.Name, schemaIdent),
			Uses:       uses,
			Imports:    []gen.ImportSpec{express},
		})
	}

	out = append(out, gen.Rendered{
		Capability: CapRoute,
		Fragment:   genMounts(m, reg),
		Imports:    []gen.ImportSpec{express},
	})
	return out, nil
}

// genRouter generates the express router for one entity. The create endpoint
// is only generated when an insert schema exists to validate the body.
func genRouter(ent *schema.Entity, queries, insertSchema string) *Block {
	name := schema.Camel(ent.Name) + "Router"
	lines := []string{
		fmt.Sprintf("export const %s = Router();", name),
		"",
		fmt.Sprintf("%s.get('/', async (_req, res) => {", name),
		fmt.Sprintf("%sres.json(await %s.all());", indent, queries),
		"});",
	}

	if pk, single := ent.SinglePK(); single {
		lines = append(lines,
			"",
			fmt.Sprintf("%s.get('/:id', async (req, res) => {", name),
			fmt.Sprintf("%sconst row = await %s.byId(%s);", indent, queries, paramExpr(pk)),
			fmt.Sprintf("%sif (row === undefined) {", indent),
			fmt.Sprintf("%s%sres.status(404).end();", indent, indent),
			fmt.Sprintf("%s%sreturn;", indent, indent),
			fmt.Sprintf("%s}", indent),
			fmt.Sprintf("%sres.json(row);", indent),
			"});",
		)
	}

	if insertSchema != "" {
		lines = append(lines,
			"",
			fmt.Sprintf("%s.post('/', async (req, res) => {", name),
			fmt.Sprintf("%sconst parsed = %s.safeParse(req.body);", indent, insertSchema),
			fmt.Sprintf("%sif (!parsed.success) {", indent),
			fmt.Sprintf("%s%sres.status(400).json(parsed.error.flatten());", indent, indent),
			fmt.Sprintf("%s%sreturn;", indent, indent),
			fmt.Sprintf("%s}", indent),
			fmt.Sprintf("%sres.status(201).json(await %s.insert(parsed.data));", indent, queries),
			"});",
		)
	}
	return &Block{
		Doc:   fmt.Sprintf("Routes for the %s table.", ent.Table),
		Lines: lines,
	}
}

// genMounts generates the aggregate router mounting every entity router
// under its table path.
func genMounts(m *schema.Model, reg *gen.Registry) *Block {
	lines := []string{"export const apiRouter = Router();"}
	if len(m.Entities) > 0 {
		lines = append(lines, "")
	}
	for _, ent := range m.Entities {
		ident := schema.Camel(ent.Name) + "Router"
		if sym, ok := reg.Resolve(sub(CapRoute, ent.Name)); ok {
			ident = sym.Name
		}
		lines = append(lines, fmt.Sprintf("apiRouter.use(%s, %s);", Quote(mountPath(ent)), ident))
	}
	return &Block{
		Doc:   "The aggregate router exposing every generated entity route.",
		Lines: lines,
	}
}

// paramExpr coerces the :id path parameter to the primary key's runtime
// type. Path parameters arrive as strings; only numeric keys need casting.
func paramExpr(pk *schema.Field) string {
	if scalarType(pk) == "number" {
		return "Number(req.params.id)"
	}
	return "req.params.id"
}

// mountPath derives the URL prefix for an entity from its table name.
func mountPath(ent *schema.Entity) string {
	return "/" + strings.ReplaceAll(ent.Table, "_", "-")
}

var (
	_ gen.Plugin    = routesPlugin{}
	_ gen.FileNamer = routesPlugin{}
)
