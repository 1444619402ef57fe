package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testModel() *Model {
	return &Model{
		Name:    "public",
		Dialect: "postgres",
		Entities: []*Entity{
			{
				Name:  "User",
				Table: "users",
				Fields: []*Field{
					{Name: "id", Column: "id", Type: TypeInt, IsPrimary: true, HasDefault: true},
					{Name: "email", Column: "email", Type: TypeString},
					{Name: "bio", Column: "bio", Type: TypeString, Nullable: true},
					{Name: "status", Column: "status", Type: TypeEnum, Enum: "user_status", HasDefault: true},
				},
				PrimaryKey: []string{"id"},
			},
			{
				Name:  "Membership",
				Table: "memberships",
				Fields: []*Field{
					{Name: "userId", Column: "user_id", Type: TypeInt, IsPrimary: true},
					{Name: "groupId", Column: "group_id", Type: TypeInt, IsPrimary: true},
				},
				PrimaryKey: []string{"user_id", "group_id"},
				Relations: []*Relation{
					{Name: "memberships_user_id_fkey", Columns: []string{"user_id"}, RefEntity: "User", RefColumns: []string{"id"}},
				},
			},
		},
		Enums: []*Enum{
			{Name: "user_status", Values: []string{"active", "suspended"}},
		},
	}
}

func TestModelLookups(t *testing.T) {
	m := testModel()

	t.Run("entity by name", func(t *testing.T) {
		e, ok := m.Entity("User")
		require.True(t, ok)
		assert.Equal(t, "users", e.Table)

		_, ok = m.Entity("Missing")
		assert.False(t, ok)
	})

	t.Run("entity by table", func(t *testing.T) {
		e, ok := m.EntityByTable("memberships")
		require.True(t, ok)
		assert.Equal(t, "Membership", e.Name)
	})

	t.Run("enum by name", func(t *testing.T) {
		en, ok := m.Enum("user_status")
		require.True(t, ok)
		assert.Equal(t, []string{"active", "suspended"}, en.Values)

		_, ok = m.Enum("order_status")
		assert.False(t, ok)
	})

	t.Run("field by column", func(t *testing.T) {
		e, _ := m.Entity("User")
		f, ok := e.Field("email")
		require.True(t, ok)
		assert.Equal(t, TypeString, f.Type)

		_, ok = e.Field("missing")
		assert.False(t, ok)
	})
}

func TestPrimaryKeys(t *testing.T) {
	m := testModel()

	t.Run("single column key", func(t *testing.T) {
		e, _ := m.Entity("User")
		pk, ok := e.SinglePK()
		require.True(t, ok)
		assert.Equal(t, "id", pk.Column)
		assert.Len(t, e.PKFields(), 1)
	})

	t.Run("composite key has no single pk", func(t *testing.T) {
		e, _ := m.Entity("Membership")
		_, ok := e.SinglePK()
		assert.False(t, ok)
		assert.Len(t, e.PKFields(), 2)
	})
}

func TestFieldOptional(t *testing.T) {
	e, _ := testModel().Entity("User")

	email, _ := e.Field("email")
	assert.False(t, email.Optional())

	bio, _ := e.Field("bio")
	assert.True(t, bio.Optional(), "nullable columns are optional")

	id, _ := e.Field("id")
	assert.True(t, id.Optional(), "defaulted columns are optional")
}

func TestSchemaTypeString(t *testing.T) {
	assert.Equal(t, "string", TypeString.String())
	assert.Equal(t, "enum", TypeEnum.String())
	assert.Equal(t, "invalid", TypeInvalid.String())
	assert.Equal(t, "invalid(99)", Type(99).String())
}

func TestSchemaTypePredicates(t *testing.T) {
	assert.True(t, TypeInt.Numeric())
	assert.True(t, TypeBigInt.Numeric())
	assert.True(t, TypeFloat.Numeric())
	assert.False(t, TypeString.Numeric())

	assert.True(t, TypeTime.Temporal())
	assert.True(t, TypeDate.Temporal())
	assert.False(t, TypeBool.Temporal())

	assert.True(t, TypeUUID.Valid())
	assert.False(t, TypeInvalid.Valid())
	assert.False(t, Type(99).Valid())
}
