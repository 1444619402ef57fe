package gen

import (
	"slices"
	"sort"
	"strings"
)

// File is one assembled output file.
type File struct {
	// Path is the output path relative to the output directory, always
	// slash-separated.
	Path string

	// Content is the final file bytes.
	Content []byte
}

// emission is one buffered fragment with its provenance.
type emission struct {
	owner   string
	seq     int
	sym     *Symbol // nil for free-standing emissions
	header  string
	frag    Fragment
	uses    []Capability
	imports []ImportSpec
}

// fileBuffer accumulates the emissions of one output file. A file is either
// raw or structured, fixed by its first emission.
type fileBuffer struct {
	path      string
	raw       bool
	emissions []*emission
}

// emitter buffers rendered fragments per target file and assembles them into
// final file bytes: canonical fragment order, synthesized imports, configured
// header, and per-file export conflict checks.
type emitter struct {
	cfg   *Config
	reg   *Registry
	files map[string]*fileBuffer
	seq   int
}

func newEmitter(cfg *Config, reg *Registry) *emitter {
	return &emitter{
		cfg:   cfg,
		reg:   reg,
		files: make(map[string]*fileBuffer),
	}
}

// add buffers one rendered fragment. For symbol-attached fragments the
// symbol's assigned file wins; free-standing fragments carry their own path.
// Mixing raw text and structured fragments in one file fails immediately.
func (e *emitter) add(owner string, sym *Symbol, r Rendered) error {
	path := r.File
	if sym != nil {
		path = sym.File
	}
	_, structured := r.Fragment.(SyntaxFragment)
	buf, ok := e.files[path]
	if !ok {
		buf = &fileBuffer{path: path, raw: !structured}
		e.files[path] = buf
	} else if buf.raw == structured {
		prev := buf.emissions[len(buf.emissions)-1].owner
		return NewEmitConflictError(path, "", prev, owner,
			"cannot mix raw text and structured fragments in one file")
	}
	e.seq++
	buf.emissions = append(buf.emissions, &emission{
		owner:   owner,
		seq:     e.seq,
		sym:     sym,
		header:  r.Header,
		frag:    r.Fragment,
		uses:    r.Uses,
		imports: r.Imports,
	})
	return nil
}

// validate reports the first pair of emissions that claim the identical
// exported name in one file within one namespace. Default exports contend
// for the single default slot of their file regardless of their local names.
func (e *emitter) validate() error {
	for _, path := range e.paths() {
		buf := e.files[path]
		type key struct {
			name string
			kind SymbolKind
		}
		claimed := make(map[key]*emission)
		var deflt *emission
		for _, em := range buf.emissions {
			if em.sym == nil || em.sym.Export == ExportNone {
				continue
			}
			if em.sym.Export == ExportDefault {
				if deflt != nil {
					return NewEmitConflictError(path, "default", deflt.owner, em.owner,
						"a file can have at most one default export")
				}
				deflt = em
			}
			k := key{name: em.sym.Name, kind: em.sym.Kind}
			if prev, ok := claimed[k]; ok {
				return NewEmitConflictError(path, em.sym.Name, prev.owner, em.owner,
					"exported "+em.sym.Kind.String()+" already declared in this file")
			}
			claimed[k] = em
		}
	}
	return nil
}

// assemble validates the buffer and serializes every file, sorted by path.
func (e *emitter) assemble() ([]File, error) {
	if err := e.validate(); err != nil {
		return nil, err
	}
	paths := e.paths()
	files := make([]File, 0, len(paths))
	for _, p := range paths {
		content, err := e.render(e.files[p])
		if err != nil {
			return nil, err
		}
		files = append(files, File{Path: p, Content: content})
	}
	return files, nil
}

// render serializes one file: header, synthesized imports for structured
// files, then the fragments in canonical order.
func (e *emitter) render(buf *fileBuffer) ([]byte, error) {
	orderEmissions(buf.emissions)
	var b strings.Builder
	if h := e.cfg.Header; h != "" && e.cfg.SourceExt != "" && strings.HasSuffix(buf.path, e.cfg.SourceExt) {
		writeChunk(&b, h)
		b.WriteString("\n")
	}
	if !buf.raw {
		imports, err := e.synthesize(buf)
		if err != nil {
			return nil, err
		}
		if imports != "" {
			b.WriteString(imports)
			b.WriteString("\n")
		}
	}
	for i, em := range buf.emissions {
		if i > 0 && !buf.raw {
			b.WriteString("\n")
		}
		if em.header != "" {
			writeChunk(&b, em.header)
		}
		var fb strings.Builder
		em.frag.WriteSource(&fb)
		writeChunk(&b, fb.String())
	}
	return []byte(b.String()), nil
}

// orderEmissions sorts a file's emissions into canonical order: fragments
// attached to symbols first, sorted by capability, then free-standing
// emissions by owner and arrival order. Canonical ordering keeps assembled
// bytes stable across permitted plugin registration permutations.
func orderEmissions(ems []*emission) {
	sort.SliceStable(ems, func(i, j int) bool {
		ei, ej := ems[i], ems[j]
		switch {
		case ei.sym != nil && ej.sym != nil:
			return ei.sym.Capability < ej.sym.Capability
		case ei.sym != nil:
			return true
		case ej.sym != nil:
			return false
		case ei.owner != ej.owner:
			return ei.owner < ej.owner
		default:
			return ei.seq < ej.seq
		}
	})
}

// importGroup collects the bindings of one import path within one file.
type importGroup struct {
	path  string
	def   string
	named map[string]struct{}
	types map[string]struct{}
}

// synthesize builds the import block of a structured file from the recorded
// cross-references, the declared DependsOn edges, the per-fragment Uses
// lists, and the external ImportSpecs. References to virtual symbols, to
// unexported symbols, and to symbols living in this very file are omitted.
func (e *emitter) synthesize(buf *fileBuffer) (string, error) {
	groups := make(map[string]*importGroup)
	group := func(p string) *importGroup {
		g, ok := groups[p]
		if !ok {
			g = &importGroup{
				path:  p,
				named: make(map[string]struct{}),
				types: make(map[string]struct{}),
			}
			groups[p] = g
		}
		return g
	}
	addSymbol := func(target *Symbol) {
		if target.Virtual || target.Export == ExportNone || target.File == buf.path {
			return
		}
		spec := e.reg.ImportFor(target, buf.path)
		mergeImport(group(spec.Path), spec)
	}
	for _, em := range buf.emissions {
		if em.sym != nil {
			for _, target := range e.reg.references(em.sym.Capability) {
				addSymbol(target)
			}
			for _, c := range em.sym.DependsOn {
				target, ok := e.reg.Resolve(c)
				if !ok {
					return "", NewNotFoundError(c, em.sym.Plugin)
				}
				addSymbol(target)
			}
		}
		for _, c := range em.uses {
			target, ok := e.reg.Resolve(c)
			if !ok {
				return "", NewNotFoundError(c, em.owner)
			}
			addSymbol(target)
		}
		for _, spec := range em.imports {
			mergeImport(group(spec.Path), spec)
		}
	}
	paths := make([]string, 0, len(groups))
	for p := range groups {
		paths = append(paths, p)
	}
	// Bare package specifiers sort before relative paths.
	sort.Slice(paths, func(i, j int) bool {
		bi, bj := bareSpecifier(paths[i]), bareSpecifier(paths[j])
		if bi != bj {
			return bi
		}
		return paths[i] < paths[j]
	})
	var b strings.Builder
	for _, p := range paths {
		g := groups[p]
		for n := range g.named {
			delete(g.types, n)
		}
		named := setList(g.named)
		types := setList(g.types)
		switch {
		case g.def != "" || len(named) > 0:
			b.WriteString("import ")
			if g.def != "" {
				b.WriteString(g.def)
				if len(named) > 0 {
					b.WriteString(", ")
				}
			}
			if len(named) > 0 {
				b.WriteString("{ ")
				b.WriteString(strings.Join(named, ", "))
				b.WriteString(" }")
			}
			b.WriteString(" from '")
			b.WriteString(p)
			b.WriteString("';\n")
		case len(types) == 0:
			// A path with no bindings at all is a side-effect import.
			b.WriteString("import '")
			b.WriteString(p)
			b.WriteString("';\n")
		}
		if len(types) > 0 {
			b.WriteString("import type { ")
			b.WriteString(strings.Join(types, ", "))
			b.WriteString(" } from '")
			b.WriteString(p)
			b.WriteString("';\n")
		}
	}
	return b.String(), nil
}

func (e *emitter) paths() []string {
	paths := make([]string, 0, len(e.files))
	for p := range e.files {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

func mergeImport(g *importGroup, spec ImportSpec) {
	if spec.Default != "" {
		g.def = spec.Default
	}
	for _, n := range spec.Named {
		g.named[n] = struct{}{}
	}
	for _, n := range spec.Types {
		g.types[n] = struct{}{}
	}
}

func bareSpecifier(p string) bool {
	return !strings.HasPrefix(p, ".")
}

func setList(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// writeChunk appends text and guarantees it ends with a newline.
func writeChunk(b *strings.Builder, text string) {
	b.WriteString(text)
	if !strings.HasSuffix(text, "\n") {
		b.WriteString("\n")
	}
}
