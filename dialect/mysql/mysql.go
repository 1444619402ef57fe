// Package mysql inspects MySQL and MariaDB databases through
// information_schema. Importing it registers the "mysql" dialect.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/typeweave/typeweave/dialect"
	"github.com/typeweave/typeweave/schema"
)

func init() {
	dialect.Register(&dialect.Driver{
		Name:      dialect.MySQL,
		SQLDriver: "mysql",
		New: func(db *sql.DB, dsn string, opts dialect.Options) dialect.Inspector {
			return New(db, dsn, opts)
		},
	})
}

const (
	tablesQuery = `SELECT TABLE_NAME, TABLE_COMMENT
FROM information_schema.TABLES
WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE'
ORDER BY TABLE_NAME`

	columnsQuery = `SELECT COLUMN_NAME, DATA_TYPE, COLUMN_TYPE, IS_NULLABLE = 'YES',
COLUMN_DEFAULT IS NOT NULL OR EXTRA LIKE '%auto_increment%', COALESCE(COLUMN_DEFAULT, ''),
COALESCE(CHARACTER_MAXIMUM_LENGTH, 0), COLUMN_COMMENT
FROM information_schema.COLUMNS
WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
ORDER BY ORDINAL_POSITION`

	primaryKeyQuery = `SELECT COLUMN_NAME
FROM information_schema.KEY_COLUMN_USAGE
WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? AND CONSTRAINT_NAME = 'PRIMARY'
ORDER BY ORDINAL_POSITION`

	foreignKeysQuery = `SELECT k.CONSTRAINT_NAME, k.COLUMN_NAME, k.REFERENCED_TABLE_NAME, k.REFERENCED_COLUMN_NAME, r.DELETE_RULE, r.UPDATE_RULE
FROM information_schema.KEY_COLUMN_USAGE k
JOIN information_schema.REFERENTIAL_CONSTRAINTS r
  ON r.CONSTRAINT_NAME = k.CONSTRAINT_NAME AND r.CONSTRAINT_SCHEMA = k.CONSTRAINT_SCHEMA
WHERE k.TABLE_SCHEMA = ? AND k.TABLE_NAME = ? AND k.REFERENCED_TABLE_NAME IS NOT NULL
ORDER BY k.CONSTRAINT_NAME, k.ORDINAL_POSITION`
)

// Inspector reads a MySQL schema. Enum columns are inline in MySQL, so each
// one mints a model enum named after its table and column.
type Inspector struct {
	db   *sql.DB
	dsn  string
	opts dialect.Options
}

// New returns an inspector over an open connection. The DSN supplies the
// database name when Options.Schema is empty.
func New(db *sql.DB, dsn string, opts dialect.Options) *Inspector {
	return &Inspector{db: db, dsn: dsn, opts: opts}
}

// Dialect implements dialect.Inspector.
func (i *Inspector) Dialect() string { return dialect.MySQL }

// Close implements dialect.Inspector.
func (i *Inspector) Close() error { return i.db.Close() }

// InspectModel implements dialect.Inspector.
func (i *Inspector) InspectModel(ctx context.Context) (*schema.Model, error) {
	name, err := i.schemaName()
	if err != nil {
		return nil, err
	}
	m := &schema.Model{Name: name, Dialect: dialect.MySQL}
	tables, err := i.tables(ctx, name)
	if err != nil {
		return nil, err
	}
	log := i.opts.Log()
	for _, t := range tables {
		if !i.opts.Match(t.name) {
			continue
		}
		ent, enums, err := i.entity(ctx, name, t)
		if err != nil {
			return nil, err
		}
		log.Debugw("inspected table", "table", t.name, "columns", len(ent.Fields))
		m.Entities = append(m.Entities, ent)
		m.Enums = append(m.Enums, enums...)
	}
	return m, nil
}

type table struct {
	name    string
	comment string
}

func (i *Inspector) tables(ctx context.Context, schemaName string) ([]table, error) {
	rows, err := i.db.QueryContext(ctx, tablesQuery, schemaName)
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

func (i *Inspector) entity(ctx context.Context, schemaName string, t table) (*schema.Entity, []*schema.Enum, error) {
	ent := &schema.Entity{
		Name:    schema.EntityName(t.name),
		Table:   t.name,
		Comment: t.comment,
	}
	enums, err := i.columns(ctx, schemaName, ent)
	if err != nil {
		return nil, nil, fmt.Errorf("typeweave: inspect %s columns: %w", t.name, err)
	}
	if err := i.primaryKey(ctx, schemaName, ent); err != nil {
		return nil, nil, fmt.Errorf("typeweave: inspect %s primary key: %w", t.name, err)
	}
	if err := i.foreignKeys(ctx, schemaName, ent); err != nil {
		return nil, nil, fmt.Errorf("typeweave: inspect %s foreign keys: %w", t.name, err)
	}
	return ent, enums, nil
}

func (i *Inspector) columns(ctx context.Context, schemaName string, ent *schema.Entity) ([]*schema.Enum, error) {
	rows, err := i.db.QueryContext(ctx, columnsQuery, schemaName, ent.Table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var enums []*schema.Enum
	for rows.Next() {
		var (
			f          schema.Field
			dataType   string
			columnType string
		)
		if err := rows.Scan(&f.Column, &dataType, &columnType, &f.Nullable, &f.HasDefault, &f.Default, &f.MaxLen, &f.Comment); err != nil {
			return nil, err
		}
		f.Name = schema.Camel(f.Column)
		f.Raw = columnType
		if dataType == "enum" {
			e := &schema.Enum{
				Name:   ent.Table + "_" + f.Column,
				Values: parseEnumLabels(columnType),
			}
			f.Type = schema.TypeEnum
			f.Enum = e.Name
			enums = append(enums, e)
		} else {
			foldType(&f, dataType, columnType)
		}
		ent.Fields = append(ent.Fields, &f)
	}
	return enums, rows.Err()
}

func (i *Inspector) primaryKey(ctx context.Context, schemaName string, ent *schema.Entity) error {
	rows, err := i.db.QueryContext(ctx, primaryKeyQuery, schemaName, ent.Table)
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

func (i *Inspector) foreignKeys(ctx context.Context, schemaName string, ent *schema.Entity) error {
	rows, err := i.db.QueryContext(ctx, foreignKeysQuery, schemaName, ent.Table)
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

// schemaName resolves the database to inspect: the configured schema, or the
// database named in the DSN.
func (i *Inspector) schemaName() (string, error) {
	if i.opts.Schema != "" {
		return i.opts.Schema, nil
	}
	cfg, err := mysql.ParseDSN(i.dsn)
	if err != nil {
		return "", fmt.Errorf("typeweave: parse mysql dsn: %w", err)
	}
	if cfg.DBName == "" {
		return "", errors.New("typeweave: mysql dsn names no database")
	}
	return cfg.DBName, nil
}

// foldType folds a mysql column type into the model vocabulary. tinyint(1)
// is the conventional boolean.
func foldType(f *schema.Field, dataType, columnType string) {
	switch dataType {
	case "tinyint":
		if strings.HasPrefix(columnType, "tinyint(1)") {
			f.Type = schema.TypeBool
		} else {
			f.Type = schema.TypeInt
		}
	case "smallint", "mediumint", "int":
		f.Type = schema.TypeInt
	case "bigint":
		f.Type = schema.TypeBigInt
	case "decimal", "float", "double":
		f.Type = schema.TypeFloat
	case "datetime", "timestamp", "time":
		f.Type = schema.TypeTime
	case "date", "year":
		f.Type = schema.TypeDate
	case "blob", "tinyblob", "mediumblob", "longblob", "binary", "varbinary":
		f.Type = schema.TypeBytes
	case "json":
		f.Type = schema.TypeJSON
	default:
		// char, varchar, the text family, and set all ride as strings.
		f.Type = schema.TypeString
	}
}

// parseEnumLabels extracts the labels from an inline enum column type such
// as enum('a','b'). Quotes inside labels arrive doubled.
func parseEnumLabels(columnType string) []string {
	body, ok := strings.CutPrefix(columnType, "enum(")
	if !ok {
		return nil
	}
	body = strings.TrimSuffix(body, ")")
	var (
		labels []string
		cur    strings.Builder
		in     bool
	)
	for j := 0; j < len(body); j++ {
		c := body[j]
		switch {
		case c == '\'' && !in:
			in = true
		case c == '\'' && in:
			if j+1 < len(body) && body[j+1] == '\'' {
				cur.WriteByte('\'')
				j++
				continue
			}
			in = false
			labels = append(labels, cur.String())
			cur.Reset()
		case in:
			cur.WriteByte(c)
		}
	}
	return labels
}

var _ dialect.Inspector = (*Inspector)(nil)
