package typescript

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typeweave/typeweave/compiler/gen"
	"github.com/typeweave/typeweave/schema"
)

func queryPlugins() []gen.Plugin {
	return []gen.Plugin{NewModels(), NewClient(), NewQueries()}
}

func TestQueriesOutput(t *testing.T) {
	res := generate(t, blogModel(), queryPlugins()...)

	queries := mustFile(t, res, "db/User.ts")
	assert.Contains(t, queries, "import db from '../client';")
	assert.Contains(t, queries, "import type { NewUser, User, UserId } from '../types/User';")

	assert.Contains(t, queries, "export const userQueries = {")
	assert.Contains(t, queries, "  async all(): Promise<User[]> {")
	assert.Contains(t, queries, "    return db<User>('users').select('*');")
	assert.Contains(t, queries, "  async byId(id: UserId): Promise<User | undefined> {")
	assert.Contains(t, queries, "    return db<User>('users').where('id', id).first();")
	assert.Contains(t, queries, "  async insert(row: NewUser): Promise<User[]> {")
	assert.Contains(t, queries, "    return db<User>('users').insert(row).returning('*');")
	assert.Contains(t, queries, "  async remove(id: UserId): Promise<number> {")
	assert.Contains(t, queries, "    return db<User>('users').where('id', id).del();")
}

func TestQueriesMySQLInsert(t *testing.T) {
	m := blogModel()
	m.Dialect = "mysql"
	res := generate(t, m, queryPlugins()...)

	queries := mustFile(t, res, "db/User.ts")
	assert.Contains(t, queries, "async insert(row: NewUser): Promise<number[]> {")
	assert.Contains(t, queries, "return db<User>('users').insert(row);")
	assert.NotContains(t, queries, "returning")
}

func TestQueriesCompositeKey(t *testing.T) {
	m := &schema.Model{
		Name:    "join",
		Dialect: "postgres",
		Entities: []*schema.Entity{{
			Name:  "PostTag",
			Table: "post_tags",
			Fields: []*schema.Field{
				{Name: "postId", Column: "post_id", Type: schema.TypeInt, IsPrimary: true},
				{Name: "tagId", Column: "tag_id", Type: schema.TypeInt, IsPrimary: true},
			},
			PrimaryKey: []string{"post_id", "tag_id"},
		}},
	}
	res := generate(t, m, queryPlugins()...)

	queries := mustFile(t, res, "db/PostTag.ts")
	assert.Contains(t, queries, "async all()")
	assert.Contains(t, queries, "async insert(row: NewPostTag)")
	assert.NotContains(t, queries, "byId", "composite keys have no single-column lookup")
	assert.NotContains(t, queries, "remove")
}

func TestQueriesColumnNames(t *testing.T) {
	m := &schema.Model{
		Name:    "inventory",
		Dialect: "postgres",
		Entities: []*schema.Entity{{
			Name:  "Item",
			Table: "items",
			Fields: []*schema.Field{
				{Name: "itemKey", Column: "item_key", Type: schema.TypeString, IsPrimary: true},
			},
			PrimaryKey: []string{"item_key"},
		}},
	}
	res := generate(t, m, queryPlugins()...)

	queries := mustFile(t, res, "db/Item.ts")
	assert.Contains(t, queries, ".where('item_key', id)", "lookups use the column name, not the property name")
	assert.Contains(t, queries, "async byId(id: ItemId)")
}

func TestQueriesRequireClient(t *testing.T) {
	cfg, err := gen.NewConfig(gen.WithPlugins(NewModels(), NewQueries()))
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), blogModel(), cfg)
	require.Error(t, err)
	assert.True(t, gen.IsUnsatisfiedError(err))
	assert.Contains(t, err.Error(), `capability "client"`)
}
