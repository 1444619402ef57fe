package gen

import (
	"path"
	"slices"
	"strings"
)

// Symbol is one declared output symbol, keyed by its capability.
type Symbol struct {
	// Name is the identifier the symbol is declared under.
	Name string

	// Capability is the symbol's unique capability key.
	Capability Capability

	// Kind is the namespace the symbol occupies.
	Kind SymbolKind

	// Export is how the symbol leaves its file.
	Export Export

	// File is the assigned output path. Empty for virtual symbols.
	File string

	// Plugin is the name of the owning plugin.
	Plugin string

	// Virtual marks service-only symbols that are never emitted.
	Virtual bool

	// Service is the opaque handle exposed through Registry.Import.
	Service any

	// DependsOn lists referenced capabilities from the declaration.
	DependsOn []Capability

	seq int
}

// SymbolRef is the handle Registry.Import returns. It exposes the target
// symbol and the identifier rendering plugins reference it by.
type SymbolRef struct {
	sym *Symbol
}

// Ident returns the identifier to reference the symbol by.
func (r *SymbolRef) Ident() string {
	return r.sym.Name
}

// Symbol returns the referenced symbol.
func (r *SymbolRef) Symbol() *Symbol {
	return r.sym
}

// Service returns the opaque service handle the symbol carries, if any.
func (r *SymbolRef) Service() any {
	return r.sym.Service
}

// Registry tracks every symbol declared during a run. It is populated during
// the declare phase, frozen afterwards, and queried by plugins during the
// render phase. Cross-references recorded through Import drive the import
// synthesis of the emission buffer.
type Registry struct {
	cfg   *Config
	syms  map[Capability]*Symbol
	order []*Symbol

	// refs holds reference edges, source capability to target capability.
	refs map[Capability]map[Capability]struct{}

	// current is the capability set of the plugin whose render call is in
	// flight; Import records edges from every member of this set.
	current map[Capability]struct{}
	plugin  string
}

func newRegistry(cfg *Config) *Registry {
	return &Registry{
		cfg:  cfg,
		syms: make(map[Capability]*Symbol),
		refs: make(map[Capability]map[Capability]struct{}),
	}
}

// register inserts a symbol. A symbol with the same capability key already
// present is a collision.
func (r *Registry) register(sym *Symbol) error {
	if prev, ok := r.syms[sym.Capability]; ok {
		return NewCollisionError(sym.Name, sym.Capability, sym.File, prev.Plugin, sym.Plugin)
	}
	sym.seq = len(r.order)
	r.syms[sym.Capability] = sym
	r.order = append(r.order, sym)
	return nil
}

// Resolve returns the symbol declared for the capability, if any. Resolve is
// a pure lookup; it records no cross-reference.
func (r *Registry) Resolve(capability Capability) (*Symbol, bool) {
	sym, ok := r.syms[capability]
	return sym, ok
}

// Import returns a handle to the symbol declared for the capability and
// records a cross-reference from every capability the calling plugin is
// currently rendering to the target. The recorded edges become import
// statements during assembly. Importing an undeclared capability fails.
func (r *Registry) Import(capability Capability) (*SymbolRef, error) {
	sym, ok := r.syms[capability]
	if !ok {
		return nil, NewNotFoundError(capability, r.plugin)
	}
	for from := range r.current {
		if from == capability {
			continue
		}
		edges, ok := r.refs[from]
		if !ok {
			edges = make(map[Capability]struct{})
			r.refs[from] = edges
		}
		edges[capability] = struct{}{}
	}
	return &SymbolRef{sym: sym}, nil
}

// ImportFor computes the import statement fromFile needs to reference sym.
// The path is relative to fromFile's directory: same directory becomes
// "./name", each ancestor level becomes one "../", descendants keep their
// intermediate segments. The canonical source extension is replaced by the
// configured import extension. The symbol's kind and export mode decide
// whether its name lands in Named, Types, or Default.
func (r *Registry) ImportFor(sym *Symbol, fromFile string) ImportSpec {
	spec := ImportSpec{Path: r.relPath(fromFile, sym.File)}
	switch {
	case sym.Export == ExportDefault:
		spec.Default = sym.Name
	case sym.Export == ExportNamed && sym.Kind == KindType:
		spec.Types = []string{sym.Name}
	case sym.Export == ExportNamed:
		spec.Named = []string{sym.Name}
	}
	return spec
}

// Symbols returns all registered symbols in registration order.
func (r *Registry) Symbols() []*Symbol {
	out := make([]*Symbol, len(r.order))
	copy(out, r.order)
	return out
}

// beginRender marks the capability set the plugin is about to render so that
// Import can attribute cross-references to it.
func (r *Registry) beginRender(plugin string, caps []Capability) {
	r.plugin = plugin
	r.current = make(map[Capability]struct{}, len(caps))
	for _, c := range caps {
		r.current[c] = struct{}{}
	}
}

func (r *Registry) endRender() {
	r.plugin = ""
	r.current = nil
}

// references returns the symbols the given capability refers to, sorted by
// capability for deterministic import order.
func (r *Registry) references(from Capability) []*Symbol {
	edges := r.refs[from]
	if len(edges) == 0 {
		return nil
	}
	caps := make([]Capability, 0, len(edges))
	for c := range edges {
		caps = append(caps, c)
	}
	slices.Sort(caps)
	syms := make([]*Symbol, len(caps))
	for i, c := range caps {
		syms[i] = r.syms[c]
	}
	return syms
}

// validate scans all registered symbols and reports every exported
// (name, file) pair claimed by two different plugins within one namespace.
// A value and a type sharing a name do not collide, and duplicates within a
// single plugin are that plugin's own concern.
func (r *Registry) validate() []*CollisionError {
	type key struct {
		file string
		name string
		kind SymbolKind
	}
	claimed := make(map[key]*Symbol, len(r.order))
	var collisions []*CollisionError
	for _, sym := range r.order {
		if sym.Virtual || sym.Export == ExportNone {
			continue
		}
		k := key{file: sym.File, name: sym.Name, kind: sym.Kind}
		prev, ok := claimed[k]
		if !ok {
			claimed[k] = sym
			continue
		}
		if prev.Plugin == sym.Plugin {
			continue
		}
		collisions = append(collisions, NewCollisionError(sym.Name, sym.Capability, sym.File, prev.Plugin, sym.Plugin))
	}
	return collisions
}

// relPath computes the relative module path from fromFile's directory to
// toFile, normalizing the source extension to the configured import
// extension.
func (r *Registry) relPath(fromFile, toFile string) string {
	base := path.Base(toFile)
	if ext := r.cfg.SourceExt; ext != "" && strings.HasSuffix(base, ext) {
		base = strings.TrimSuffix(base, ext) + r.cfg.ImportExt
	}
	from := splitDir(fromFile)
	to := splitDir(toFile)
	common := 0
	for common < len(from) && common < len(to) && from[common] == to[common] {
		common++
	}
	var b strings.Builder
	if ups := len(from) - common; ups > 0 {
		for i := 0; i < ups; i++ {
			b.WriteString("../")
		}
	} else {
		b.WriteString("./")
	}
	for _, seg := range to[common:] {
		b.WriteString(seg)
		b.WriteString("/")
	}
	b.WriteString(base)
	return b.String()
}

// splitDir returns the directory segments of a slash-separated file path.
func splitDir(file string) []string {
	dir := path.Dir(file)
	if dir == "." || dir == "/" {
		return nil
	}
	return strings.Split(dir, "/")
}
