// Package typescript implements the built-in TypeScript generator suite.
//
// Each generator is a gen.Plugin wired into the capability graph, so
// enabling a subset still yields a consistent run: a generator that consumes
// another's output requires its capability and the orchestrator orders and
// verifies the set.
//
// # Generators
//
// The suite ships seven generators, cataloged in AllFeatures:
//
//   - models ("types"): a row interface per table, an insert-payload
//     interface, an id alias per single-column primary key, and a union
//     alias per database enum
//   - validators ("schema:validator"): zod row and insert schemas pinned to
//     the interfaces with satisfies clauses
//   - client ("client"): the shared knex handle for the introspected dialect
//   - queries ("db:query"): typed knex query helpers per table
//   - routes ("api:route"): express routers with zod-validated create
//     endpoints
//   - graphql ("graphql:sdl"): a GraphQL SDL document mirroring the model
//   - index ("index"): the root barrel re-exporting the run's public symbols
//
// # Generated Output Structure
//
// With every generator enabled, a run produces:
//
//	{output}/
//	├── index.ts              # Barrel re-exports
//	├── client.ts             # knex handle (default export) + Database alias
//	├── schema.graphql        # GraphQL SDL document
//	├── types/
//	│   ├── enums.ts          # Union aliases for database enums
//	│   └── {Entity}.ts       # Row, insert payload, and id alias
//	├── schemas/
//	│   └── {Entity}.ts       # zod row and insert schemas
//	├── db/
//	│   └── {Entity}.ts       # Typed query helpers
//	└── routes/
//	    ├── index.ts          # Aggregate express router
//	    └── {Entity}.ts       # Entity router
//
// Cross-file imports are never written by the generators themselves: each
// declaration names the capabilities it depends on and the emission buffer
// synthesizes the import blocks from the recorded references.
package typescript
