package gen

import (
	"strings"

	"github.com/typeweave/typeweave/schema"
)

// Plugin is the unit of code generation. A plugin declares the symbols it
// will produce, then renders content for them; the two phases are driven by
// the Generator in capability order (see ExecutionPlan).
type Plugin interface {
	// Name returns the unique plugin name (e.g. "models")
	Name() string
	// Provides returns the capability roots this plugin claims
	Provides() []Capability
	// Requires returns the capabilities this plugin consumes from others
	Requires() []Capability
	// Declare announces the symbols this plugin will render for the model
	Declare(m *schema.Model) ([]Declaration, error)
	// Render produces content for the declared symbols; the registry is
	// frozen and queryable at this point
	Render(m *schema.Model, reg *Registry) ([]Rendered, error)
}

// Configurable is an optional plugin interface for plugins that accept
// configuration. Configure is called once during the validating phase with
// the plugin's own configuration blob; decoding and validation are the
// plugin's responsibility.
type Configurable interface {
	Configure(options map[string]any) error
}

// FileNamer is an optional plugin interface for plugins that assign their
// symbols to files. Rules are matched by capability prefix, longest prefix
// first; they take precedence over the global rules configured on the run.
type FileNamer interface {
	FileRules() []FileRule
}

// SymbolKind distinguishes the namespace a symbol occupies. TypeScript keeps
// value and type declarations in separate namespaces, so a value and a type
// may share a name in one file without colliding.
type SymbolKind uint8

const (
	// KindValue is a runtime value (const, function, class).
	KindValue SymbolKind = iota

	// KindType is a type-level declaration (interface, type alias).
	KindType
)

// String returns the kind name.
func (k SymbolKind) String() string {
	if k == KindType {
		return "type"
	}
	return "value"
}

// Export describes how a symbol is exported from its file.
type Export uint8

const (
	// ExportNone keeps the symbol file-local.
	ExportNone Export = iota

	// ExportNamed exports the symbol under its declared name.
	ExportNamed

	// ExportDefault exports the symbol as the file's default export.
	ExportDefault
)

// String returns the export mode name.
func (e Export) String() string {
	switch e {
	case ExportNamed:
		return "named"
	case ExportDefault:
		return "default"
	default:
		return "none"
	}
}

// Declaration announces one output symbol during the declare phase. The
// (Name, Capability) pair is the symbol's identity; the capability key must
// be unique across the whole run.
type Declaration struct {
	// Capability is the unique capability key for this symbol. It must
	// fall under one of the owning plugin's provided capabilities.
	Capability Capability

	// Name is the identifier the symbol is declared under in its file.
	Name string

	// Kind selects the value or type namespace.
	Kind SymbolKind

	// Export selects how the symbol is exported from its file.
	Export Export

	// File optionally pins the symbol to an explicit output path,
	// bypassing naming rules.
	File string

	// DependsOn lists capabilities whose symbols this one references.
	// They become import edges during assembly.
	DependsOn []Capability

	// Virtual marks a symbol that is never emitted. Virtual symbols
	// expose a Service handle to other plugins and are skipped by file
	// assignment and import synthesis.
	Virtual bool

	// Service is an opaque handle other plugins can obtain through
	// Registry.Import. Typically set on virtual symbols.
	Service any
}

// Rendered carries one rendered fragment out of the render phase. A Rendered
// with a capability attaches content to that declared symbol; one with an
// empty capability and a File is a free-standing emission.
type Rendered struct {
	// Capability names the declared symbol this fragment renders. Empty
	// for free-standing emissions.
	Capability Capability

	// File is the target path for free-standing emissions. Ignored when
	// Capability is set; the symbol's assigned file wins.
	File string

	// Header is an optional comment banner written immediately before
	// the fragment.
	Header string

	// Fragment is the content. Text fragments are raw; fragments
	// implementing SyntaxFragment are structured. The two modes cannot
	// mix within one file.
	Fragment Fragment

	// Uses lists capabilities whose symbols the fragment references,
	// for import synthesis into the fragment's file.
	Uses []Capability

	// Imports lists external package imports the fragment needs
	// (e.g. { z } from "zod").
	Imports []ImportSpec
}

// Fragment is opaque rendered content.
type Fragment interface {
	// WriteSource appends the fragment's source text to b
	WriteSource(b *strings.Builder)
}

// SyntaxFragment marks structured fragments. Structured fragments may share
// a file with other structured fragments and receive a synthesized import
// block; raw Text fragments are written verbatim and receive neither.
type SyntaxFragment interface {
	Fragment
	// Syntax is a marker method with no behavior
	Syntax()
}

// Text is a raw text fragment. Files assembled from Text receive their
// content as written, with no synthesized imports.
type Text string

// WriteSource implements Fragment.
func (t Text) WriteSource(b *strings.Builder) {
	b.WriteString(string(t))
}

// ImportSpec describes one import statement of a generated file. Path is a
// bare package specifier ("zod") or a relative module path ("../types/User").
type ImportSpec struct {
	// Path is the import specifier.
	Path string

	// Default is the default-import binding, if any.
	Default string

	// Named holds value bindings for the import clause.
	Named []string

	// Types holds type-only bindings, rendered as an import type clause.
	Types []string
}

// NameFunc computes the output path for a symbol. Returning an empty string
// passes the symbol to the next matching rule.
type NameFunc func(ctx *NameContext) string

// FileRule binds a capability prefix to a file naming function. Among the
// rules whose prefix matches a declared capability, the longest prefix wins;
// ties resolve to the earliest rule.
type FileRule struct {
	// Prefix is matched segment-wise against declared capabilities.
	Prefix Capability

	// Name computes the output path for a matched symbol.
	Name NameFunc
}

// NameContext carries what a NameFunc may inspect when computing the output
// path for a symbol.
type NameContext struct {
	// Model is the schema model the run generates from.
	Model *schema.Model

	// Symbol is the symbol being assigned a file.
	Symbol *Symbol

	// Capability is the symbol's declared capability.
	Capability Capability

	// Entity is the first capability segment after the matched rule
	// prefix, when present. For the rule prefix "types" and the
	// capability "types:User:id" it is "User".
	Entity string
}

// Compile-time checks that the fragment kinds satisfy their contracts.
var _ Fragment = Text("")
