package schema

// Model is the root of the introspected schema description. It is built once
// by a dialect inspector (or decoded from a snapshot) and consumed read-only
// by every plugin; nothing in the generation pipeline mutates it.
type Model struct {
	// Name is the database schema name (e.g. "public" for Postgres,
	// the database name for MySQL, "main" for SQLite).
	Name     string    `json:"name" msgpack:"name"`
	Dialect  string    `json:"dialect" msgpack:"dialect"`
	Entities []*Entity `json:"entities,omitempty" msgpack:"entities"`
	Enums    []*Enum   `json:"enums,omitempty" msgpack:"enums"`
}

// Entity describes one table of the source schema.
type Entity struct {
	// Name is the PascalCase singular identifier derived from the table
	// name (e.g. "user_accounts" -> "UserAccount").
	Name       string      `json:"name" msgpack:"name"`
	Table      string      `json:"table" msgpack:"table"`
	Comment    string      `json:"comment,omitempty" msgpack:"comment"`
	Fields     []*Field    `json:"fields,omitempty" msgpack:"fields"`
	Relations  []*Relation `json:"relations,omitempty" msgpack:"relations"`
	PrimaryKey []string    `json:"primary_key,omitempty" msgpack:"primary_key"`
}

// Field describes one column of an entity.
type Field struct {
	// Name is the camelCase identifier derived from the column name.
	Name       string `json:"name" msgpack:"name"`
	Column     string `json:"column" msgpack:"column"`
	Type       Type   `json:"type" msgpack:"type"`
	Raw        string `json:"raw,omitempty" msgpack:"raw"`
	Nullable   bool   `json:"nullable,omitempty" msgpack:"nullable"`
	HasDefault bool   `json:"has_default,omitempty" msgpack:"has_default"`
	Default    string `json:"default,omitempty" msgpack:"default"`
	Array      bool   `json:"array,omitempty" msgpack:"array"`
	// Enum holds the database enum type name when Type is TypeEnum.
	Enum      string `json:"enum,omitempty" msgpack:"enum"`
	Comment   string `json:"comment,omitempty" msgpack:"comment"`
	IsPrimary bool   `json:"is_primary,omitempty" msgpack:"is_primary"`
	MaxLen    int64  `json:"max_len,omitempty" msgpack:"max_len"`
}

// Relation describes a foreign-key constraint from this entity to another.
type Relation struct {
	Name       string   `json:"name,omitempty" msgpack:"name"`
	Columns    []string `json:"columns" msgpack:"columns"`
	RefEntity  string   `json:"ref_entity" msgpack:"ref_entity"`
	RefColumns []string `json:"ref_columns" msgpack:"ref_columns"`
	OnDelete   string   `json:"on_delete,omitempty" msgpack:"on_delete"`
	OnUpdate   string   `json:"on_update,omitempty" msgpack:"on_update"`
}

// Enum describes a database enumeration type.
type Enum struct {
	// Name is the database type name (e.g. "user_status").
	Name    string   `json:"name" msgpack:"name"`
	Values  []string `json:"values" msgpack:"values"`
	Comment string   `json:"comment,omitempty" msgpack:"comment"`
}

// Entity returns the entity with the given name.
func (m *Model) Entity(name string) (*Entity, bool) {
	for _, e := range m.Entities {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

// EntityByTable returns the entity backed by the given table name.
func (m *Model) EntityByTable(table string) (*Entity, bool) {
	for _, e := range m.Entities {
		if e.Table == table {
			return e, true
		}
	}
	return nil, false
}

// Enum returns the enum with the given database type name.
func (m *Model) Enum(name string) (*Enum, bool) {
	for _, e := range m.Enums {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

// Field returns the field backed by the given column name.
func (e *Entity) Field(column string) (*Field, bool) {
	for _, f := range e.Fields {
		if f.Column == column {
			return f, true
		}
	}
	return nil, false
}

// PKFields returns the primary-key fields in key order.
func (e *Entity) PKFields() []*Field {
	pks := make([]*Field, 0, len(e.PrimaryKey))
	for _, col := range e.PrimaryKey {
		if f, ok := e.Field(col); ok {
			pks = append(pks, f)
		}
	}
	return pks
}

// SinglePK returns the primary-key field if the entity has exactly one.
func (e *Entity) SinglePK() (*Field, bool) {
	if len(e.PrimaryKey) != 1 {
		return nil, false
	}
	return e.Field(e.PrimaryKey[0])
}

// Optional reports whether the field may be omitted on insert, either
// because the column is nullable or because the database fills a default.
func (f *Field) Optional() bool {
	return f.Nullable || f.HasDefault
}
