// Package sqlite inspects SQLite databases through sqlite_master and the
// pragma table-valued functions. Importing it registers the "sqlite"
// dialect with its CGO-free driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/typeweave/typeweave/dialect"
	"github.com/typeweave/typeweave/schema"
)

func init() {
	dialect.Register(&dialect.Driver{
		Name:      dialect.SQLite,
		SQLDriver: "sqlite",
		New: func(db *sql.DB, _ string, opts dialect.Options) dialect.Inspector {
			return New(db, opts)
		},
	})
}

const (
	tablesQuery = `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`

	columnsQuery = `SELECT name, type, "notnull", COALESCE(dflt_value, ''), dflt_value IS NOT NULL, pk
FROM pragma_table_info(?) ORDER BY cid`

	foreignKeysQuery = `SELECT id, "table", "from", COALESCE("to", 'id'), on_delete, on_update
FROM pragma_foreign_key_list(?) ORDER BY id, seq`
)

// Inspector reads a SQLite database. SQLite has no enums and no comments;
// the model carries neither.
type Inspector struct {
	db   *sql.DB
	opts dialect.Options
}

// New returns an inspector over an open connection.
func New(db *sql.DB, opts dialect.Options) *Inspector {
	return &Inspector{db: db, opts: opts}
}

// Dialect implements dialect.Inspector.
func (i *Inspector) Dialect() string { return dialect.SQLite }

// Close implements dialect.Inspector.
func (i *Inspector) Close() error { return i.db.Close() }

// InspectModel implements dialect.Inspector.
func (i *Inspector) InspectModel(ctx context.Context) (*schema.Model, error) {
	name := i.opts.Schema
	if name == "" {
		name = "main"
	}
	m := &schema.Model{Name: name, Dialect: dialect.SQLite}
	tables, err := i.tables(ctx)
	if err != nil {
		return nil, err
	}
	log := i.opts.Log()
	for _, tbl := range tables {
		if !i.opts.Match(tbl) {
			continue
		}
		ent, err := i.entity(ctx, tbl)
		if err != nil {
			return nil, err
		}
		log.Debugw("inspected table", "table", tbl, "columns", len(ent.Fields))
		m.Entities = append(m.Entities, ent)
	}
	return m, nil
}

func (i *Inspector) tables(ctx context.Context) ([]string, error) {
	rows, err := i.db.QueryContext(ctx, tablesQuery)
	if err != nil {
		return nil, fmt.Errorf("typeweave: inspect tables: %w", err)
	}
	defer rows.Close()
	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func (i *Inspector) entity(ctx context.Context, tbl string) (*schema.Entity, error) {
	ent := &schema.Entity{
		Name:  schema.EntityName(tbl),
		Table: tbl,
	}
	if err := i.columns(ctx, ent); err != nil {
		return nil, fmt.Errorf("typeweave: inspect %s columns: %w", tbl, err)
	}
	if err := i.foreignKeys(ctx, ent); err != nil {
		return nil, fmt.Errorf("typeweave: inspect %s foreign keys: %w", tbl, err)
	}
	return ent, nil
}

func (i *Inspector) columns(ctx context.Context, ent *schema.Entity) error {
	rows, err := i.db.QueryContext(ctx, columnsQuery, ent.Table)
	if err != nil {
		return err
	}
	defer rows.Close()
	type pkCol struct {
		pos int
		col string
	}
	var pks []pkCol
	for rows.Next() {
		var (
			f       schema.Field
			notNull bool
			pk      int
		)
		if err := rows.Scan(&f.Column, &f.Raw, &notNull, &f.Default, &f.HasDefault, &pk); err != nil {
			return err
		}
		f.Name = schema.Camel(f.Column)
		f.Nullable = !notNull
		f.IsPrimary = pk > 0
		foldType(&f, f.Raw)
		if pk > 0 {
			pks = append(pks, pkCol{pos: pk, col: f.Column})
		}
		ent.Fields = append(ent.Fields, &f)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	sort.Slice(pks, func(a, b int) bool { return pks[a].pos < pks[b].pos })
	for _, pk := range pks {
		ent.PrimaryKey = append(ent.PrimaryKey, pk.col)
	}
	// A single INTEGER primary key aliases the rowid, so the database
	// fills it on insert.
	if f, ok := ent.SinglePK(); ok && strings.EqualFold(f.Raw, "integer") {
		f.HasDefault = true
	}
	return nil
}

func (i *Inspector) foreignKeys(ctx context.Context, ent *schema.Entity) error {
	rows, err := i.db.QueryContext(ctx, foreignKeysQuery, ent.Table)
	if err != nil {
		return err
	}
	defer rows.Close()
	byID := make(map[int]*schema.Relation)
	for rows.Next() {
		var (
			id                 int
			refTable, from, to string
			onDelete, onUpdate string
		)
		if err := rows.Scan(&id, &refTable, &from, &to, &onDelete, &onUpdate); err != nil {
			return err
		}
		rel, ok := byID[id]
		if !ok {
			rel = &schema.Relation{
				Name:      fmt.Sprintf("%s_fk_%d", ent.Table, id),
				RefEntity: schema.EntityName(refTable),
				OnDelete:  onDelete,
				OnUpdate:  onUpdate,
			}
			byID[id] = rel
			ent.Relations = append(ent.Relations, rel)
		}
		rel.Columns = append(rel.Columns, from)
		rel.RefColumns = append(rel.RefColumns, to)
	}
	return rows.Err()
}

// foldType folds a declared sqlite column type into the model vocabulary,
// following sqlite's own affinity rules: INT anywhere means integer, then
// CHAR/CLOB/TEXT, then BLOB, then the floating family.
func foldType(f *schema.Field, declared string) {
	base := strings.ToUpper(strings.TrimSpace(declared))
	if idx := strings.IndexByte(base, '('); idx >= 0 {
		if n, err := strconv.ParseInt(strings.TrimRight(base[idx+1:], ")"), 10, 64); err == nil {
			f.MaxLen = n
		}
		base = strings.TrimSpace(base[:idx])
	}
	switch {
	case base == "":
		f.Type = schema.TypeBytes
	case base == "BOOLEAN" || base == "BOOL":
		f.Type = schema.TypeBool
	case strings.Contains(base, "BIGINT"):
		f.Type = schema.TypeBigInt
	case strings.Contains(base, "INT"):
		f.Type = schema.TypeInt
	case strings.Contains(base, "CHAR"), strings.Contains(base, "CLOB"), strings.Contains(base, "TEXT"):
		f.Type = schema.TypeString
	case base == "BLOB":
		f.Type = schema.TypeBytes
	case strings.Contains(base, "REAL"), strings.Contains(base, "FLOA"), strings.Contains(base, "DOUB"),
		strings.Contains(base, "NUMERIC"), strings.Contains(base, "DECIMAL"):
		f.Type = schema.TypeFloat
	case base == "DATETIME" || base == "TIMESTAMP":
		f.Type = schema.TypeTime
	case base == "DATE":
		f.Type = schema.TypeDate
	case base == "JSON":
		f.Type = schema.TypeJSON
	case base == "UUID":
		f.Type = schema.TypeUUID
	default:
		f.Type = schema.TypeString
	}
}

var _ dialect.Inspector = (*Inspector)(nil)
