package dialect

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/typeweave/typeweave/schema"
)

// Dialect names understood by Open and the configuration file.
const (
	// Postgres is the PostgreSQL dialect.
	Postgres = "postgres"

	// MySQL is the MySQL/MariaDB dialect.
	MySQL = "mysql"

	// SQLite is the SQLite dialect.
	SQLite = "sqlite"
)

// An Inspector reads a live database's structure into a schema model.
type Inspector interface {
	// Dialect returns the dialect name of the inspected database.
	Dialect() string

	// InspectModel reads tables, columns, keys, and enums into a model.
	// Entities arrive sorted by table name, fields in column order.
	InspectModel(ctx context.Context) (*schema.Model, error)

	// Close releases the underlying connection.
	Close() error
}

// Options configure an inspection run.
type Options struct {
	// Schema is the namespace to inspect. Empty selects the dialect's
	// default: "public" on postgres, the DSN database on mysql, "main"
	// on sqlite.
	Schema string

	// Include restricts inspection to the listed tables when non-empty.
	Include []string

	// Exclude drops the listed tables.
	Exclude []string

	// Logger receives inspection progress at debug level.
	Logger *zap.SugaredLogger
}

// Match reports whether a table passes the include/exclude filters.
func (o Options) Match(table string) bool {
	if len(o.Include) > 0 && !slices.Contains(o.Include, table) {
		return false
	}
	return !slices.Contains(o.Exclude, table)
}

// Log returns the configured logger, or a nop logger.
func (o Options) Log() *zap.SugaredLogger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop().Sugar()
}

// A Driver describes one registered dialect: the database/sql driver it
// rides on and the constructor for its inspector.
type Driver struct {
	// Name is the dialect name, as referenced by Open.
	Name string

	// SQLDriver is the database/sql driver name connections open with.
	SQLDriver string

	// New wraps an open connection in the dialect's inspector. The raw
	// DSN is passed along for dialects that derive the default schema
	// from it.
	New func(db *sql.DB, dsn string, opts Options) Inspector
}

var drivers = make(map[string]*Driver)

// Register makes a dialect driver available to Open. It is called from the
// init function of each driver package and panics on duplicates, mirroring
// database/sql.Register.
func Register(d *Driver) {
	if d == nil || d.Name == "" || d.New == nil {
		panic("dialect: Register called with an incomplete driver")
	}
	if _, dup := drivers[d.Name]; dup {
		panic("dialect: Register called twice for driver " + d.Name)
	}
	drivers[d.Name] = d
}

// Drivers returns the sorted names of the registered dialects.
func Drivers() []string {
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open connects to the database and returns the inspector for the named
// dialect. The dialect's driver package must be linked into the binary,
// usually through a blank import.
func Open(name, dsn string, opts Options) (Inspector, error) {
	d, ok := drivers[name]
	if !ok {
		return nil, fmt.Errorf("typeweave: unknown dialect %q (registered: %s)", name, strings.Join(Drivers(), ", "))
	}
	db, err := sql.Open(d.SQLDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("typeweave: open %s: %w", name, err)
	}
	return d.New(db, dsn, opts), nil
}
