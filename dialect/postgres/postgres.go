// Package postgres inspects PostgreSQL databases through information_schema
// and the pg_catalog. Importing it registers the "postgres" dialect.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/typeweave/typeweave/dialect"
	"github.com/typeweave/typeweave/schema"
)

func init() {
	dialect.Register(&dialect.Driver{
		Name:      dialect.Postgres,
		SQLDriver: "postgres",
		New: func(db *sql.DB, _ string, opts dialect.Options) dialect.Inspector {
			return New(db, opts)
		},
	})
}

const (
	tablesQuery = `SELECT t.table_name, COALESCE(obj_description(format('%I.%I', t.table_schema, t.table_name)::regclass, 'pg_class'), '')
FROM information_schema.tables t
WHERE t.table_schema = $1 AND t.table_type = 'BASE TABLE'
ORDER BY t.table_name`

	columnsQuery = `SELECT c.column_name, c.udt_name, c.data_type = 'ARRAY', c.is_nullable = 'YES',
c.column_default IS NOT NULL OR c.is_identity = 'YES', COALESCE(c.column_default, ''),
COALESCE(c.character_maximum_length, 0),
COALESCE(col_description(format('%I.%I', c.table_schema, c.table_name)::regclass, c.ordinal_position), '')
FROM information_schema.columns c
WHERE c.table_schema = $1 AND c.table_name = $2
ORDER BY c.ordinal_position`

	primaryKeyQuery = `SELECT a.attname
FROM pg_index i
JOIN pg_attribute a ON a.attrelid = i.indrelid AND a.attnum = ANY (i.indkey)
WHERE i.indrelid = format('%I.%I', $1, $2)::regclass AND i.indisprimary
ORDER BY array_position(i.indkey, a.attnum)`

	foreignKeysQuery = `SELECT tc.constraint_name, kcu.column_name, ccu.table_name, ccu.column_name, rc.delete_rule, rc.update_rule
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu
  ON kcu.constraint_name = tc.constraint_name AND kcu.constraint_schema = tc.constraint_schema
JOIN information_schema.constraint_column_usage ccu
  ON ccu.constraint_name = tc.constraint_name AND ccu.constraint_schema = tc.constraint_schema
JOIN information_schema.referential_constraints rc
  ON rc.constraint_name = tc.constraint_name AND rc.constraint_schema = tc.constraint_schema
WHERE tc.table_schema = $1 AND tc.table_name = $2 AND tc.constraint_type = 'FOREIGN KEY'
ORDER BY tc.constraint_name, kcu.ordinal_position`

	enumsQuery = `SELECT t.typname, array_agg(e.enumlabel ORDER BY e.enumsortorder), COALESCE(obj_description(t.oid, 'pg_type'), '')
FROM pg_type t
JOIN pg_enum e ON e.enumtypid = t.oid
JOIN pg_namespace n ON n.oid = t.typnamespace
WHERE n.nspname = $1
GROUP BY t.typname, t.oid
ORDER BY t.typname`
)

// Inspector reads a PostgreSQL schema.
type Inspector struct {
	db   *sql.DB
	opts dialect.Options
}

// New returns an inspector over an open connection.
func New(db *sql.DB, opts dialect.Options) *Inspector {
	return &Inspector{db: db, opts: opts}
}

// Dialect implements dialect.Inspector.
func (i *Inspector) Dialect() string { return dialect.Postgres }

// Close implements dialect.Inspector.
func (i *Inspector) Close() error { return i.db.Close() }

// InspectModel implements dialect.Inspector.
func (i *Inspector) InspectModel(ctx context.Context) (*schema.Model, error) {
	m := &schema.Model{Name: i.schemaName(), Dialect: dialect.Postgres}
	enums, err := i.enums(ctx)
	if err != nil {
		return nil, err
	}
	m.Enums = enums
	byName := make(map[string]*schema.Enum, len(enums))
	for _, e := range enums {
		byName[e.Name] = e
	}
	tables, err := i.tables(ctx)
	if err != nil {
		return nil, err
	}
	log := i.opts.Log()
	for _, t := range tables {
		if !i.opts.Match(t.name) {
			continue
		}
		ent, err := i.entity(ctx, t, byName)
		if err != nil {
			return nil, err
		}
		log.Debugw("inspected table", "table", t.name, "columns", len(ent.Fields))
		m.Entities = append(m.Entities, ent)
	}
	return m, nil
}

type table struct {
	name    string
	comment string
}

func (i *Inspector) tables(ctx context.Context) ([]table, error) {
	rows, err := i.db.QueryContext(ctx, tablesQuery, i.schemaName())
	if err != nil {
		return nil, fmt.Errorf("typeweave: inspect tables: %w", err)
	}
	defer rows.Close()
	var tables []table
	for rows.Next() {
		var t table
		if err := rows.Scan(&t.name, &t.comment); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (i *Inspector) entity(ctx context.Context, t table, enums map[string]*schema.Enum) (*schema.Entity, error) {
	ent := &schema.Entity{
		Name:    schema.EntityName(t.name),
		Table:   t.name,
		Comment: t.comment,
	}
	if err := i.columns(ctx, ent, enums); err != nil {
		return nil, fmt.Errorf("typeweave: inspect %s columns: %w", t.name, err)
	}
	if err := i.primaryKey(ctx, ent); err != nil {
		return nil, fmt.Errorf("typeweave: inspect %s primary key: %w", t.name, err)
	}
	if err := i.foreignKeys(ctx, ent); err != nil {
		return nil, fmt.Errorf("typeweave: inspect %s foreign keys: %w", t.name, err)
	}
	return ent, nil
}

func (i *Inspector) columns(ctx context.Context, ent *schema.Entity, enums map[string]*schema.Enum) error {
	rows, err := i.db.QueryContext(ctx, columnsQuery, i.schemaName(), ent.Table)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			f   schema.Field
			udt string
		)
		if err := rows.Scan(&f.Column, &udt, &f.Array, &f.Nullable, &f.HasDefault, &f.Default, &f.MaxLen, &f.Comment); err != nil {
			return err
		}
		f.Name = schema.Camel(f.Column)
		f.Raw = udt
		foldType(&f, udt, enums)
		ent.Fields = append(ent.Fields, &f)
	}
	return rows.Err()
}

func (i *Inspector) primaryKey(ctx context.Context, ent *schema.Entity) error {
	rows, err := i.db.QueryContext(ctx, primaryKeyQuery, i.schemaName(), ent.Table)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var col string
		if err := rows.Scan(&col); err != nil {
			return err
		}
		ent.PrimaryKey = append(ent.PrimaryKey, col)
		if f, ok := ent.Field(col); ok {
			f.IsPrimary = true
		}
	}
	return rows.Err()
}

func (i *Inspector) foreignKeys(ctx context.Context, ent *schema.Entity) error {
	rows, err := i.db.QueryContext(ctx, foreignKeysQuery, i.schemaName(), ent.Table)
	if err != nil {
		return err
	}
	defer rows.Close()
	byName := make(map[string]*schema.Relation)
	for rows.Next() {
		var name, column, refTable, refColumn, onDelete, onUpdate string
		if err := rows.Scan(&name, &column, &refTable, &refColumn, &onDelete, &onUpdate); err != nil {
			return err
		}
		rel, ok := byName[name]
		if !ok {
			rel = &schema.Relation{
				Name:      name,
				RefEntity: schema.EntityName(refTable),
				OnDelete:  onDelete,
				OnUpdate:  onUpdate,
			}
			byName[name] = rel
			ent.Relations = append(ent.Relations, rel)
		}
		rel.Columns = append(rel.Columns, column)
		rel.RefColumns = append(rel.RefColumns, refColumn)
	}
	return rows.Err()
}

func (i *Inspector) enums(ctx context.Context) ([]*schema.Enum, error) {
	rows, err := i.db.QueryContext(ctx, enumsQuery, i.schemaName())
	if err != nil {
		return nil, fmt.Errorf("typeweave: inspect enums: %w", err)
	}
	defer rows.Close()
	var enums []*schema.Enum
	for rows.Next() {
		var (
			e      schema.Enum
			labels pq.StringArray
		)
		if err := rows.Scan(&e.Name, &labels, &e.Comment); err != nil {
			return nil, err
		}
		e.Values = labels
		enums = append(enums, &e)
	}
	return enums, rows.Err()
}

func (i *Inspector) schemaName() string {
	if i.opts.Schema != "" {
		return i.opts.Schema
	}
	return "public"
}

// foldType folds a postgres type name into the model vocabulary. Array
// columns report the element type prefixed with an underscore.
func foldType(f *schema.Field, udt string, enums map[string]*schema.Enum) {
	if f.Array {
		udt = strings.TrimPrefix(udt, "_")
	}
	if e, ok := enums[udt]; ok {
		f.Type = schema.TypeEnum
		f.Enum = e.Name
		return
	}
	switch udt {
	case "uuid":
		f.Type = schema.TypeUUID
	case "int2", "int4":
		f.Type = schema.TypeInt
	case "int8":
		f.Type = schema.TypeBigInt
	case "float4", "float8", "numeric", "money":
		f.Type = schema.TypeFloat
	case "bool":
		f.Type = schema.TypeBool
	case "date":
		f.Type = schema.TypeDate
	case "timestamp", "timestamptz", "time", "timetz":
		f.Type = schema.TypeTime
	case "bytea":
		f.Type = schema.TypeBytes
	case "json", "jsonb":
		f.Type = schema.TypeJSON
	default:
		// text, varchar, and the exotic types (inet, interval, ...)
		// all reach the driver as strings.
		f.Type = schema.TypeString
	}
}

var _ dialect.Inspector = (*Inspector)(nil)
