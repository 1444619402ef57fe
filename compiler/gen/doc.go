// Package gen is the plugin orchestration core of typeweave.
//
// This package turns an introspected database schema into TypeScript source
// files. It does not know what any particular file looks like; plugins do.
// The package schedules plugins by the capabilities they provide and
// require, lets them cross-reference each other's output symbols, and
// assembles conflict-free files with computed import statements.
//
// # Architecture
//
// A generation run moves through four phases:
//
//	Plugins + Config
//	        ↓
//	   Validating (duplicate names, plugin config, capability graph)
//	        ↓
//	   Declaring (symbols into the Registry, file assignment)
//	        ↓
//	   Rendering (fragments into the emission buffer, cross-references)
//	        ↓
//	   Assembling (import synthesis, conflict checks, final bytes)
//
// Execution is strictly sequential, in topological capability order.
// The first error from any phase aborts the run; a failed run produces no
// files at all.
//
// # Key Types
//
// The package provides several key types:
//
//   - Capability: hierarchical colon-delimited key ("schema:validator:User")
//   - Plugin: the declare/render contract every generator implements
//   - ExecutionPlan: validated, topologically ordered plugin schedule
//   - Registry: declared symbols, cross-references, import path algebra
//   - Generator: drives one run through its phases
//   - Writer: persists the assembled files
//
// # Capabilities
//
// A capability names a kind of output. Providing a capability implicitly
// provides all its prefixes: a plugin providing "schema:validator:User"
// satisfies consumers of "schema:validator" and "schema". Two plugins
// landing on the identical expanded capability string conflict, a
// requirement with no provider fails the run, and cyclic requirements are
// rejected with the cycle's plugin names in order.
//
// # Error Handling
//
// The package uses structured error types for better error handling:
//
//   - DuplicatePluginError: plugin name registered twice
//   - PluginConfigError: plugin configuration rejected
//   - ConflictError: capability claimed by two plugins
//   - UnsatisfiedError: required capability has no provider
//   - CycleError: cyclic plugin requirements
//   - CollisionError: symbol (name, file) claimed twice
//   - NotFoundError: lookup of an undeclared capability
//   - EmitConflictError: irreconcilable exports in one file
//   - PluginError: plugin declare/render failure
//
// Example error handling:
//
//	result, err := gen.Generate(ctx, model, cfg)
//	if err != nil {
//	    if gen.IsCycleError(err) {
//	        // Report the cycle to the user
//	    }
//	    return err
//	}
//
// # Configuration
//
// Configuration is done via the functional options pattern:
//
//	cfg, err := gen.NewConfig(
//	    gen.WithPlugins(typescript.Suite()...),
//	    gen.WithHeader("// Generated. Do not edit."),
//	    gen.WithDefaultFile("index.ts"),
//	)
//
// Per-plugin configuration travels as opaque blobs; each plugin decodes and
// validates its own:
//
//	cfg, err := gen.NewConfig(
//	    gen.WithPlugins(typescript.Suite()...),
//	    gen.WithPluginConfig("models", map[string]any{"brandedIds": false}),
//	)
//
// # Usage
//
// The typical flow introspects a database, runs the generator, and writes
// the result:
//
//	model, err := inspector.InspectModel(ctx)
//	result, err := gen.Generate(ctx, model, cfg)
//	report, err := gen.NewWriter("./generated").Write(ctx, result.Files)
//
// # Code Organization
//
// The package is organized into several files:
//
//   - capability.go: Capability key type and prefix algebra
//   - config.go: Config type and defaults
//   - emit.go: emission buffer, import synthesis, serialization
//   - errors.go: structured error types
//   - generate.go: Generator and the phase state machine
//   - graph.go: ExecutionPlan, conflict/cycle detection, topological order
//   - option.go: functional option pattern for configuration
//   - plugin.go: Plugin contract, declarations, fragments
//   - registry.go: symbol registry and import path computation
//   - writer.go: parallel file writer with formatter hook
package gen
