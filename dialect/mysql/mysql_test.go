package mysql

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typeweave/typeweave/dialect"
	"github.com/typeweave/typeweave/schema"
)

const testDSN = "root:secret@tcp(localhost:3306)/shop?parseTime=true"

func TestInspectModel(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM information_schema.TABLES").WithArgs("shop").WillReturnRows(
		sqlmock.NewRows([]string{"TABLE_NAME", "TABLE_COMMENT"}).
			AddRow("orders", "Customer orders.").
			AddRow("users", ""))

	mock.ExpectQuery("FROM information_schema.COLUMNS").WithArgs("shop", "orders").WillReturnRows(
		sqlmock.NewRows([]string{"COLUMN_NAME", "DATA_TYPE", "COLUMN_TYPE", "nullable", "has_default", "default", "max_len", "COLUMN_COMMENT"}).
			AddRow("id", "bigint", "bigint unsigned", false, true, "", 0, "").
			AddRow("user_id", "bigint", "bigint", false, false, "", 0, "").
			AddRow("status", "enum", "enum('new','paid','shipped')", false, true, "new", 0, "").
			AddRow("total", "decimal", "decimal(10,2)", false, false, "", 0, "").
			AddRow("placed_at", "datetime", "datetime", false, true, "CURRENT_TIMESTAMP", 0, ""))
	mock.ExpectQuery("CONSTRAINT_NAME = 'PRIMARY'").WithArgs("shop", "orders").WillReturnRows(
		sqlmock.NewRows([]string{"COLUMN_NAME"}).AddRow("id"))
	mock.ExpectQuery("REFERENTIAL_CONSTRAINTS").WithArgs("shop", "orders").WillReturnRows(
		sqlmock.NewRows([]string{"CONSTRAINT_NAME", "COLUMN_NAME", "REF_TABLE", "REF_COLUMN", "DELETE_RULE", "UPDATE_RULE"}).
			AddRow("orders_ibfk_1", "user_id", "users", "id", "CASCADE", "RESTRICT"))

	mock.ExpectQuery("FROM information_schema.COLUMNS").WithArgs("shop", "users").WillReturnRows(
		sqlmock.NewRows([]string{"COLUMN_NAME", "DATA_TYPE", "COLUMN_TYPE", "nullable", "has_default", "default", "max_len", "COLUMN_COMMENT"}).
			AddRow("id", "bigint", "bigint unsigned", false, true, "", 0, "").
			AddRow("active", "tinyint", "tinyint(1)", false, true, "1", 0, "").
			AddRow("nickname", "varchar", "varchar(32)", true, false, "", 32, ""))
	mock.ExpectQuery("CONSTRAINT_NAME = 'PRIMARY'").WithArgs("shop", "users").WillReturnRows(
		sqlmock.NewRows([]string{"COLUMN_NAME"}).AddRow("id"))
	mock.ExpectQuery("REFERENTIAL_CONSTRAINTS").WithArgs("shop", "users").WillReturnRows(
		sqlmock.NewRows([]string{"CONSTRAINT_NAME", "COLUMN_NAME", "REF_TABLE", "REF_COLUMN", "DELETE_RULE", "UPDATE_RULE"}))

	m, err := New(db, testDSN, dialect.Options{}).InspectModel(context.Background())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, "shop", m.Name)
	assert.Equal(t, dialect.MySQL, m.Dialect)

	require.Len(t, m.Enums, 1)
	assert.Equal(t, "orders_status", m.Enums[0].Name)
	assert.Equal(t, []string{"new", "paid", "shipped"}, m.Enums[0].Values)

	require.Len(t, m.Entities, 2)
	orders, users := m.Entities[0], m.Entities[1]

	assert.Equal(t, "Order", orders.Name)
	assert.Equal(t, "Customer orders.", orders.Comment)
	assert.Equal(t, []string{"id"}, orders.PrimaryKey)
	status, ok := orders.Field("status")
	require.True(t, ok)
	assert.Equal(t, schema.TypeEnum, status.Type)
	assert.Equal(t, "orders_status", status.Enum)
	assert.Equal(t, "enum('new','paid','shipped')", status.Raw)
	total, ok := orders.Field("total")
	require.True(t, ok)
	assert.Equal(t, schema.TypeFloat, total.Type)
	require.Len(t, orders.Relations, 1)
	rel := orders.Relations[0]
	assert.Equal(t, []string{"user_id"}, rel.Columns)
	assert.Equal(t, "User", rel.RefEntity)
	assert.Equal(t, "CASCADE", rel.OnDelete)
	assert.Equal(t, "RESTRICT", rel.OnUpdate)

	active, ok := users.Field("active")
	require.True(t, ok)
	assert.Equal(t, schema.TypeBool, active.Type)
	assert.True(t, active.HasDefault)
	nickname, ok := users.Field("nickname")
	require.True(t, ok)
	assert.Equal(t, schema.TypeString, nickname.Type)
	assert.Equal(t, int64(32), nickname.MaxLen)
	assert.True(t, nickname.Nullable)
}

func TestSchemaName(t *testing.T) {
	name, err := New(nil, testDSN, dialect.Options{}).schemaName()
	require.NoError(t, err)
	assert.Equal(t, "shop", name)

	name, err = New(nil, testDSN, dialect.Options{Schema: "forced"}).schemaName()
	require.NoError(t, err)
	assert.Equal(t, "forced", name)

	_, err = New(nil, "root@tcp(localhost:3306)/", dialect.Options{}).schemaName()
	assert.ErrorContains(t, err, "names no database")

	_, err = New(nil, "not a dsn", dialect.Options{}).schemaName()
	assert.ErrorContains(t, err, "typeweave: parse mysql dsn")
}

func TestParseEnumLabels(t *testing.T) {
	tests := []struct {
		columnType string
		want       []string
	}{
		{"enum('a','b')", []string{"a", "b"}},
		{"enum('one')", []string{"one"}},
		{"enum('it''s','ok')", []string{"it's", "ok"}},
		{"enum('x,y','z')", []string{"x,y", "z"}},
		{"varchar(5)", nil},
		{"enum()", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseEnumLabels(tt.columnType), "columnType %s", tt.columnType)
	}
}

func TestFoldType(t *testing.T) {
	tests := []struct {
		dataType   string
		columnType string
		want       schema.Type
	}{
		{"tinyint", "tinyint(1)", schema.TypeBool},
		{"tinyint", "tinyint(4)", schema.TypeInt},
		{"smallint", "smallint", schema.TypeInt},
		{"bigint", "bigint unsigned", schema.TypeBigInt},
		{"decimal", "decimal(10,2)", schema.TypeFloat},
		{"double", "double", schema.TypeFloat},
		{"datetime", "datetime", schema.TypeTime},
		{"timestamp", "timestamp", schema.TypeTime},
		{"year", "year", schema.TypeDate},
		{"varbinary", "varbinary(16)", schema.TypeBytes},
		{"json", "json", schema.TypeJSON},
		{"varchar", "varchar(255)", schema.TypeString},
		{"set", "set('a','b')", schema.TypeString},
	}
	for _, tt := range tests {
		var f schema.Field
		foldType(&f, tt.dataType, tt.columnType)
		assert.Equal(t, tt.want, f.Type, "type %s", tt.columnType)
	}
}
