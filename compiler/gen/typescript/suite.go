package typescript

import (
	"fmt"
	"strings"

	"github.com/typeweave/typeweave/compiler/gen"
)

// Capability roots of the built-in generators. Downstream plugins require
// these to order themselves after the suite's output.
const (
	// CapTypes covers the row interfaces, enum aliases, and id aliases.
	CapTypes gen.Capability = "types"

	// CapTypesEnums covers the enum aliases collected in types/enums.ts.
	CapTypesEnums gen.Capability = "types:enums"

	// CapValidator covers the zod schemas.
	CapValidator gen.Capability = "schema:validator"

	// CapSchemaBuilder is the virtual service handle the validators
	// plugin exposes for schema lookups.
	CapSchemaBuilder gen.Capability = "schema:validator:builder"

	// CapClient is the shared knex database handle.
	CapClient gen.Capability = "client"

	// CapQuery covers the per-entity query helpers.
	CapQuery gen.Capability = "db:query"

	// CapRoute covers the express routers.
	CapRoute gen.Capability = "api:route"

	// CapGraphQL is the GraphQL schema document.
	CapGraphQL gen.Capability = "graphql:sdl"

	// CapIndex is the root barrel file.
	CapIndex gen.Capability = "index"
)

// FeatureStage describes the maturity of a suite generator.
type FeatureStage int

const (
	_ FeatureStage = iota

	// Experimental generators are in development and their output may
	// change shape between releases.
	Experimental

	// Beta generators are settled but still collecting feedback.
	Beta

	// Stable generators keep their output shape across minor releases.
	Stable
)

// A Feature describes one generator of the TypeScript suite.
type Feature struct {
	// Name of the feature, as referenced by configuration.
	Name string

	// Stage of the feature.
	Stage FeatureStage

	// Default indicates whether the generator is enabled by default.
	Default bool

	// A Description of this feature.
	Description string

	// New constructs a fresh plugin instance for a run.
	New func() gen.Plugin
}

var (
	// FeatureModels generates the row interfaces and enum aliases every
	// other generator builds on.
	FeatureModels = Feature{
		Name:        "models",
		Stage:       Stable,
		Default:     true,
		Description: "Generates a TypeScript interface per table and a union alias per database enum",
		New:         func() gen.Plugin { return NewModels() },
	}

	// FeatureValidators generates zod schemas mirroring the row
	// interfaces, plus insert-payload variants.
	FeatureValidators = Feature{
		Name:        "validators",
		Stage:       Stable,
		Default:     true,
		Description: "Generates zod row and insert schemas for runtime validation",
		New:         func() gen.Plugin { return NewValidators() },
	}

	// FeatureClient generates the shared knex database handle.
	FeatureClient = Feature{
		Name:        "client",
		Stage:       Stable,
		Default:     true,
		Description: "Generates the knex client wired to the introspected dialect",
		New:         func() gen.Plugin { return NewClient() },
	}

	// FeatureQueries generates typed query helpers on top of the client.
	FeatureQueries = Feature{
		Name:        "queries",
		Stage:       Stable,
		Default:     true,
		Description: "Generates typed knex query helpers per table",
		New:         func() gen.Plugin { return NewQueries() },
	}

	// FeatureRoutes generates express routers validating request bodies
	// with the zod schemas.
	FeatureRoutes = Feature{
		Name:        "routes",
		Stage:       Beta,
		Default:     false,
		Description: "Generates an express router per table with zod-validated create endpoints",
		New:         func() gen.Plugin { return NewRoutes() },
	}

	// FeatureGraphQL generates a GraphQL schema document for the model.
	FeatureGraphQL = Feature{
		Name:        "graphql",
		Stage:       Experimental,
		Default:     false,
		Description: "Generates a GraphQL SDL document mirroring the introspected schema",
		New:         func() gen.Plugin { return NewGraphQL() },
	}

	// FeatureIndex generates the root barrel re-exporting every public
	// symbol of the run.
	FeatureIndex = Feature{
		Name:        "index",
		Stage:       Stable,
		Default:     true,
		Description: "Generates an index.ts barrel re-exporting the generated symbols",
		New:         func() gen.Plugin { return NewIndex() },
	}

	// AllFeatures holds a list of all suite generators.
	AllFeatures = []Feature{
		FeatureModels,
		FeatureValidators,
		FeatureClient,
		FeatureQueries,
		FeatureRoutes,
		FeatureGraphQL,
		FeatureIndex,
	}
)

// Plugins resolves feature names to fresh plugin instances, preserving the
// given order. Unknown names fail with the list of known features.
func Plugins(names ...string) ([]gen.Plugin, error) {
	plugins := make([]gen.Plugin, 0, len(names))
	for _, name := range names {
		feat, ok := lookup(name)
		if !ok {
			return nil, fmt.Errorf("typeweave: unknown generator %q (known: %s)", name, strings.Join(featureNames(), ", "))
		}
		plugins = append(plugins, feat.New())
	}
	return plugins, nil
}

// DefaultPlugins returns fresh instances of every generator enabled by
// default, in catalog order.
func DefaultPlugins() []gen.Plugin {
	var plugins []gen.Plugin
	for _, feat := range AllFeatures {
		if feat.Default {
			plugins = append(plugins, feat.New())
		}
	}
	return plugins
}

func lookup(name string) (Feature, bool) {
	for _, feat := range AllFeatures {
		if feat.Name == name {
			return feat, true
		}
	}
	return Feature{}, false
}

func featureNames() []string {
	names := make([]string, len(AllFeatures))
	for i, feat := range AllFeatures {
		names[i] = feat.Name
	}
	return names
}

// sub appends segments to a capability root.
func sub(c gen.Capability, segments ...string) gen.Capability {
	return gen.Capability(string(c) + ":" + strings.Join(segments, ":"))
}
