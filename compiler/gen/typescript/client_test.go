package typescript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typeweave/typeweave/compiler/gen"
	"github.com/typeweave/typeweave/schema"
)

func TestClientOutput(t *testing.T) {
	res := generate(t, blogModel(), NewClient())

	client := mustFile(t, res, "client.ts")
	assert.Contains(t, client, "import knex from 'knex';")
	assert.Contains(t, client, "import type { Knex } from 'knex';")
	assert.Contains(t, client, "const db = knex({")
	assert.Contains(t, client, "  client: 'pg',")
	assert.Contains(t, client, "  connection: process.env.DATABASE_URL,")
	assert.Contains(t, client, "  pool: { min: 2, max: 10 },")
	assert.Contains(t, client, "export default db;")
	assert.Contains(t, client, "export type Database = Knex;")
}

func TestClientDialects(t *testing.T) {
	t.Run("mysql", func(t *testing.T) {
		m := blogModel()
		m.Dialect = "mysql"
		client := mustFile(t, generate(t, m, NewClient()), "client.ts")
		assert.Contains(t, client, "client: 'mysql2',")
		assert.Contains(t, client, "connection: process.env.DATABASE_URL,")
	})

	t.Run("sqlite", func(t *testing.T) {
		m := blogModel()
		m.Dialect = "sqlite"
		client := mustFile(t, generate(t, m, NewClient()), "client.ts")
		assert.Contains(t, client, "client: 'better-sqlite3',")
		assert.Contains(t, client, "connection: { filename: process.env.DATABASE_URL ?? ':memory:' },")
		assert.Contains(t, client, "useNullAsDefault: true,")
		assert.NotContains(t, client, "pool:")
	})
}

func TestClientConfigure(t *testing.T) {
	t.Run("Custom environment variable and pool", func(t *testing.T) {
		p := NewClient()
		require.NoError(t, p.(gen.Configurable).Configure(map[string]any{
			"env":      "BLOG_DSN",
			"pool_min": 0,
			"pool_max": 4,
		}))
		client := mustFile(t, generate(t, blogModel(), p), "client.ts")
		assert.Contains(t, client, "connection: process.env.BLOG_DSN,")
		assert.Contains(t, client, "pool: { min: 0, max: 4 },")
	})

	t.Run("Accepts decoded float counts", func(t *testing.T) {
		p := NewClient().(gen.Configurable)
		require.NoError(t, p.Configure(map[string]any{"pool_max": float64(8)}))
	})

	t.Run("Rejects bad values", func(t *testing.T) {
		p := NewClient().(gen.Configurable)
		assert.Error(t, p.Configure(map[string]any{"env": 7}))
		assert.Error(t, p.Configure(map[string]any{"pool_min": -1}))
		assert.Error(t, p.Configure(map[string]any{"pool_max": 2.5}))
		assert.Error(t, p.Configure(map[string]any{"driver": "pg"}))
	})
}

func TestClientDeclaresDefaultExport(t *testing.T) {
	decls, err := NewClient().Declare(&schema.Model{Name: "x", Dialect: "postgres"})
	require.NoError(t, err)
	require.Len(t, decls, 2)

	db := declarationFor(t, decls, "client")
	assert.Equal(t, "db", db.Name)
	assert.Equal(t, gen.ExportDefault, db.Export)
	assert.Equal(t, "client.ts", db.File)

	database := declarationFor(t, decls, "client:database")
	assert.Equal(t, gen.KindType, database.Kind)
	assert.Equal(t, "client.ts", database.File)
}
