// Package typeweave turns a live database schema into TypeScript sources.
//
// A run inspects the database (or reads a snapshot), hands the schema model
// to a set of generator plugins scheduled by the capabilities they provide
// and require, and writes the assembled file tree:
//
//	cfg, err := config.Load("typeweave.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	result, report, err := typeweave.Run(ctx, cfg, typeweave.Options{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("wrote %d files in %s\n", len(report.Written), result.Stats.Elapsed)
//
// The pieces compose: use Inspect for the schema model alone, Generate to
// render without touching disk, or the compiler/gen package directly for
// custom plugins and file rules.
package typeweave

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/typeweave/typeweave/compiler/gen"
	"github.com/typeweave/typeweave/compiler/gen/typescript"
	"github.com/typeweave/typeweave/config"
	"github.com/typeweave/typeweave/dialect"
	_ "github.com/typeweave/typeweave/dialect/mysql"
	_ "github.com/typeweave/typeweave/dialect/postgres"
	_ "github.com/typeweave/typeweave/dialect/sqlite"
	"github.com/typeweave/typeweave/schema"
)

// ErrNoDatabase is returned when the config names no database and no
// snapshot was given to generate from.
var ErrNoDatabase = errors.New("typeweave: config names no database and no snapshot was given")

// Options adjust a single run beyond what the config file carries.
type Options struct {
	// DryRun reports the files a run would write without touching disk.
	DryRun bool

	// OutputDir overrides the configured output directory.
	OutputDir string

	// Snapshot is the path of a model snapshot to generate from instead
	// of a live database.
	Snapshot string

	// Logger receives progress from every stage. Nil means silent.
	Logger *zap.SugaredLogger
}

// Run loads the schema model, runs the generators, and writes the output
// tree. It is the programmatic equivalent of "typeweave generate".
func Run(ctx context.Context, cfg *config.Config, opts Options) (*gen.Result, *gen.WriteReport, error) {
	model, err := LoadModel(ctx, cfg, opts)
	if err != nil {
		return nil, nil, err
	}
	result, err := Generate(ctx, model, cfg, opts)
	if err != nil {
		return nil, nil, err
	}
	dir := cfg.Output.Dir
	if opts.OutputDir != "" {
		dir = opts.OutputDir
	}
	w := gen.NewWriter(dir).
		WithDryRun(opts.DryRun).
		WithFormatter(cfg.Format.Command).
		WithLogger(opts.Logger)
	report, err := w.Write(ctx, result.Files)
	if err != nil {
		return result, nil, err
	}
	return result, report, nil
}

// LoadModel produces the schema model a run generates from: the snapshot
// when one is given, a live introspection otherwise.
func LoadModel(ctx context.Context, cfg *config.Config, opts Options) (*schema.Model, error) {
	if opts.Snapshot != "" {
		return schema.ReadSnapshotFile(opts.Snapshot)
	}
	return Inspect(ctx, cfg, opts.Logger)
}

// Inspect opens the configured database and reads its schema model. The
// postgres, mysql, and sqlite drivers are linked in by this package.
func Inspect(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*schema.Model, error) {
	if cfg.Database.Dialect == "" {
		return nil, ErrNoDatabase
	}
	insp, err := dialect.Open(cfg.Database.Dialect, cfg.Database.DSN, dialect.Options{
		Schema:  cfg.Database.Schema,
		Include: cfg.Database.Include,
		Exclude: cfg.Database.Exclude,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	defer insp.Close()
	return insp.InspectModel(ctx)
}

// Generate runs the configured generators over an already-loaded model and
// returns the assembled files without writing them.
func Generate(ctx context.Context, model *schema.Model, cfg *config.Config, opts Options) (*gen.Result, error) {
	plugins, err := suitePlugins(cfg)
	if err != nil {
		return nil, err
	}
	genOpts := []gen.Option{gen.WithPlugins(plugins...)}
	if cfg.Output.Header != "" {
		genOpts = append(genOpts, gen.WithHeader(cfg.Output.Header))
	}
	if cfg.Output.DefaultFile != "" {
		genOpts = append(genOpts, gen.WithDefaultFile(cfg.Output.DefaultFile))
	}
	if cfg.Output.ImportExtension != "" {
		genOpts = append(genOpts, gen.WithImportExtension(cfg.Output.ImportExtension))
	}
	for name, blob := range cfg.Plugins {
		genOpts = append(genOpts, gen.WithPluginConfig(name, blob))
	}
	if opts.Logger != nil {
		genOpts = append(genOpts, gen.WithLogger(opts.Logger))
	}
	gcfg, err := gen.NewConfig(genOpts...)
	if err != nil {
		return nil, err
	}
	return gen.Generate(ctx, model, gcfg)
}

func suitePlugins(cfg *config.Config) ([]gen.Plugin, error) {
	if len(cfg.Generate.Plugins) == 0 {
		return typescript.DefaultPlugins(), nil
	}
	return typescript.Plugins(cfg.Generate.Plugins...)
}
