// Package dialect connects typeweave to the supported databases and turns
// their catalogs into the schema model the generator consumes.
//
// # Supported Dialects
//
// Each dialect is identified by a constant string:
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//
// # Inspector Interface
//
// The package defines the Inspector interface for schema introspection:
//
//	type Inspector interface {
//	    Dialect() string
//	    InspectModel(ctx context.Context) (*schema.Model, error)
//	    Close() error
//	}
//
// Inspectors are deterministic: entities are ordered by table name and
// fields by column ordinal, so repeated runs over an unchanged database
// produce identical models.
//
// # Drivers
//
// Dialect drivers register themselves on import, mirroring database/sql.
// Programs using Open link the drivers they need with blank imports:
//
//	import (
//	    "github.com/typeweave/typeweave/dialect"
//
//	    _ "github.com/typeweave/typeweave/dialect/postgres"
//	)
//
//	insp, err := dialect.Open(dialect.Postgres, "postgres://...", dialect.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer insp.Close()
//	model, err := insp.InspectModel(ctx)
//
// # Sub-packages
//
//   - dialect/postgres: information_schema + pg_catalog introspection (lib/pq)
//   - dialect/mysql: information_schema introspection (go-sql-driver/mysql)
//   - dialect/sqlite: sqlite_master + PRAGMA introspection (modernc.org/sqlite)
package dialect
