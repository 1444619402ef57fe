// Package schema defines the introspected database model consumed by the
// generation pipeline.
//
// A Model is produced by one of the dialect inspectors (see the dialect
// packages) or decoded from a snapshot file, and is then handed read-only to
// every plugin's declare and render call. The model deliberately stays close
// to relational vocabulary: entities wrap tables, fields wrap columns with
// their native types folded into the Type enum, relations wrap foreign keys,
// and enums wrap native enumeration types.
//
// # Naming
//
// The package also carries the identifier helpers shared by the inspectors
// and the bundled plugins:
//
//	schema.EntityName("user_accounts")  // "UserAccount"
//	schema.Pascal("api_keys")           // "ApiKeys"
//	schema.Camel("user_id")             // "userId"
//	schema.Plural("Entry")              // "Entries"
//	schema.EnumMember("in-progress")    // "InProgress"
//
// They follow TypeScript conventions: acronyms are treated as plain words,
// so "api_keys" maps to "ApiKeys" rather than "APIKeys".
//
// # Snapshots
//
// EncodeSnapshot and DecodeSnapshot serialize a model with msgpack under a
// version header:
//
//	model, err := dialect.Open(dialect.Postgres, dsn, opts).InspectModel(ctx)
//	...
//	err = schema.WriteSnapshotFile("schema.snapshot", model)
//
// The CLI's inspect command writes snapshots so generation can later run
// without a database connection.
package schema
