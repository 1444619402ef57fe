package typescript

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/typeweave/typeweave/compiler/gen"
	"github.com/typeweave/typeweave/schema"
)

// blogModel returns the fixture model the suite tests generate from: a
// users table with an enum column and a posts table holding a foreign key
// to it.
func blogModel() *schema.Model {
	return &schema.Model{
		Name:    "blog",
		Dialect: "postgres",
		Enums: []*schema.Enum{
			{Name: "user_status", Values: []string{"active", "banned"}},
		},
		Entities: []*schema.Entity{
			{
				Name:  "User",
				Table: "users",
				Fields: []*schema.Field{
					{Name: "id", Column: "id", Type: schema.TypeInt, IsPrimary: true, HasDefault: true},
					{Name: "email", Column: "email", Type: schema.TypeString, MaxLen: 255},
					{Name: "status", Column: "status", Type: schema.TypeEnum, Enum: "user_status", HasDefault: true},
					{Name: "createdAt", Column: "created_at", Type: schema.TypeTime, HasDefault: true},
				},
				PrimaryKey: []string{"id"},
			},
			{
				Name:  "Post",
				Table: "posts",
				Fields: []*schema.Field{
					{Name: "id", Column: "id", Type: schema.TypeInt, IsPrimary: true, HasDefault: true},
					{Name: "authorId", Column: "author_id", Type: schema.TypeInt},
					{Name: "title", Column: "title", Type: schema.TypeString},
					{Name: "published", Column: "published", Type: schema.TypeBool, HasDefault: true},
				},
				Relations: []*schema.Relation{
					{Name: "posts_author_id_fkey", Columns: []string{"author_id"}, RefEntity: "User", RefColumns: []string{"id"}},
				},
				PrimaryKey: []string{"id"},
			},
		},
	}
}

// generate runs a full generation over the model with the given plugins.
func generate(t *testing.T, m *schema.Model, plugins ...gen.Plugin) *gen.Result {
	t.Helper()
	cfg, err := gen.NewConfig(gen.WithPlugins(plugins...))
	require.NoError(t, err)
	res, err := gen.Generate(context.Background(), m, cfg)
	require.NoError(t, err)
	return res
}

// mustFile returns the content of one output file of a result.
func mustFile(t *testing.T, res *gen.Result, path string) string {
	t.Helper()
	for _, f := range res.Files {
		if f.Path == path {
			return string(f.Content)
		}
	}
	t.Fatalf("file %q not in result (have %v)", path, filePaths(res))
	return ""
}

func filePaths(res *gen.Result) []string {
	paths := make([]string, len(res.Files))
	for i, f := range res.Files {
		paths[i] = f.Path
	}
	return paths
}

// source renders a fragment to a string.
func source(f gen.Fragment) string {
	var b strings.Builder
	f.WriteSource(&b)
	return b.String()
}

// declarationFor finds the declaration with the given capability.
func declarationFor(t *testing.T, decls []gen.Declaration, c gen.Capability) gen.Declaration {
	t.Helper()
	for _, d := range decls {
		if d.Capability == c {
			return d
		}
	}
	t.Fatalf("no declaration for capability %q", c)
	return gen.Declaration{}
}

// renderedFor finds the rendered fragment attached to the given capability.
func renderedFor(t *testing.T, rendered []gen.Rendered, c gen.Capability) gen.Rendered {
	t.Helper()
	for _, r := range rendered {
		if r.Capability == c {
			return r
		}
	}
	t.Fatalf("no rendered fragment for capability %q", c)
	return gen.Rendered{}
}
