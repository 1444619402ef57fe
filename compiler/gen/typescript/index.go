package typescript

import (
	"fmt"
	"sort"
	"strings"

	"github.com/typeweave/typeweave/compiler/gen"
	"github.com/typeweave/typeweave/schema"
)

const indexFile = "index.ts"

// indexPlugin generates index.ts: a barrel re-exporting every public symbol
// the run produced, grouped per source file. Only the first claimant of a
// name makes it into the barrel; a second symbol with the same name in
// another file would turn the re-exports into a collision.
type indexPlugin struct{}

// NewIndex returns the barrel generator.
func NewIndex() gen.Plugin {
	return indexPlugin{}
}

func (indexPlugin) Name() string               { return "index" }
func (indexPlugin) Provides() []gen.Capability { return []gen.Capability{CapIndex} }
func (indexPlugin) Requires() []gen.Capability { return []gen.Capability{CapTypes} }

func (indexPlugin) Declare(m *schema.Model) ([]gen.Declaration, error) {
	// The barrel is a free-standing emission; it declares no symbols of
	// its own so re-exported names stay owned by their source files.
	return nil, nil
}

func (indexPlugin) Render(m *schema.Model, reg *gen.Registry) ([]gen.Rendered, error) {
	type group struct {
		path  string
		deflt string
		named []string
		types []string
	}
	groups := make(map[string]*group)
	var order []string
	type claim struct {
		name string
		kind gen.SymbolKind
	}
	seen := make(map[claim]struct{})

	for _, sym := range reg.Symbols() {
		if sym.Virtual || sym.Export == gen.ExportNone || sym.File == "" || sym.File == indexFile {
			continue
		}
		if _, dup := seen[claim{sym.Name, sym.Kind}]; dup {
			continue
		}
		seen[claim{sym.Name, sym.Kind}] = struct{}{}

		g, ok := groups[sym.File]
		if !ok {
			g = &group{path: reg.ImportFor(sym, indexFile).Path}
			groups[sym.File] = g
			order = append(order, sym.File)
		}
		switch {
		case sym.Export == gen.ExportDefault:
			g.deflt = sym.Name
		case sym.Kind == gen.KindType:
			g.types = append(g.types, sym.Name)
		default:
			g.named = append(g.named, sym.Name)
		}
	}
	if len(order) == 0 {
		return nil, nil
	}
	sort.Strings(order)

	var lines []string
	for _, file := range order {
		g := groups[file]
		if g.deflt != "" {
			lines = append(lines, fmt.Sprintf("export { default as %s } from %s;", g.deflt, Quote(g.path)))
		}
		if len(g.named) > 0 {
			sort.Strings(g.named)
			lines = append(lines, fmt.Sprintf("export { %s } from %s;", strings.Join(g.named, ", "), Quote(g.path)))
		}
		if len(g.types) > 0 {
			sort.Strings(g.types)
			lines = append(lines, fmt.Sprintf("export type { %s } from %s;", strings.Join(g.types, ", "), Quote(g.path)))
		}
	}

	return []gen.Rendered{{
		File:     indexFile,
		Fragment: &Block{Lines: lines},
	}}, nil
}

var _ gen.Plugin = indexPlugin{}
