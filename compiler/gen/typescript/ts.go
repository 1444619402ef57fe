package typescript

import (
	"strings"

	"github.com/typeweave/typeweave/compiler/gen"
)

// The fragment nodes below render TypeScript source with the suite's house
// style: two-space indentation, single quotes, trailing semicolons. Each node
// implements gen.SyntaxFragment so the emitter treats its file as structured
// and synthesizes the import block.

// Property is one member of an Interface.
type Property struct {
	Name     string
	Type     string
	Optional bool
	Readonly bool
	Doc      string
}

// Interface renders a TypeScript interface declaration.
type Interface struct {
	Name    string
	Export  bool
	Doc     string
	Extends []string
	Props   []Property
}

// WriteSource implements gen.Fragment.
func (i *Interface) WriteSource(b *strings.Builder) {
	writeDoc(b, i.Doc, "")
	if i.Export {
		b.WriteString("export ")
	}
	b.WriteString("interface ")
	b.WriteString(i.Name)
	if len(i.Extends) > 0 {
		b.WriteString(" extends ")
		b.WriteString(strings.Join(i.Extends, ", "))
	}
	if len(i.Props) == 0 {
		b.WriteString(" {}")
		return
	}
	b.WriteString(" {\n")
	for _, p := range i.Props {
		writeDoc(b, p.Doc, indent)
		b.WriteString(indent)
		if p.Readonly {
			b.WriteString("readonly ")
		}
		b.WriteString(p.Name)
		if p.Optional {
			b.WriteString("?")
		}
		b.WriteString(": ")
		b.WriteString(p.Type)
		b.WriteString(";\n")
	}
	b.WriteString("}")
}

// Syntax implements gen.SyntaxFragment.
func (*Interface) Syntax() {}

// Alias renders a type alias declaration.
type Alias struct {
	Name   string
	Export bool
	Doc    string
	Type   string
}

// WriteSource implements gen.Fragment.
func (a *Alias) WriteSource(b *strings.Builder) {
	writeDoc(b, a.Doc, "")
	if a.Export {
		b.WriteString("export ")
	}
	b.WriteString("type ")
	b.WriteString(a.Name)
	b.WriteString(" = ")
	b.WriteString(a.Type)
	b.WriteString(";")
}

// Syntax implements gen.SyntaxFragment.
func (*Alias) Syntax() {}

// Const renders a const declaration. Default additionally re-exports the
// binding as the file's default export, matching a gen.ExportDefault symbol.
type Const struct {
	Name    string
	Export  bool
	Default bool
	Doc     string
	Type    string
	Value   string
}

// WriteSource implements gen.Fragment.
func (c *Const) WriteSource(b *strings.Builder) {
	writeDoc(b, c.Doc, "")
	if c.Export && !c.Default {
		b.WriteString("export ")
	}
	b.WriteString("const ")
	b.WriteString(c.Name)
	if c.Type != "" {
		b.WriteString(": ")
		b.WriteString(c.Type)
	}
	b.WriteString(" = ")
	b.WriteString(c.Value)
	b.WriteString(";")
	if c.Default {
		b.WriteString("\n\nexport default ")
		b.WriteString(c.Name)
		b.WriteString(";")
	}
}

// Syntax implements gen.SyntaxFragment.
func (*Const) Syntax() {}

// Block renders verbatim statement lines as a structured fragment. Unlike
// gen.Text it shares its file with other structured fragments and keeps the
// synthesized import block.
type Block struct {
	Doc   string
	Lines []string
}

// WriteSource implements gen.Fragment.
func (bl *Block) WriteSource(b *strings.Builder) {
	writeDoc(b, bl.Doc, "")
	b.WriteString(strings.Join(bl.Lines, "\n"))
}

// Syntax implements gen.SyntaxFragment.
func (*Block) Syntax() {}

const indent = "  "

// writeDoc emits a JSDoc comment above a declaration. Single-line docs
// collapse to one line; anything longer becomes a block.
func writeDoc(b *strings.Builder, doc, prefix string) {
	if doc == "" {
		return
	}
	lines := strings.Split(strings.TrimRight(doc, "\n"), "\n")
	if len(lines) == 1 {
		b.WriteString(prefix)
		b.WriteString("/** ")
		b.WriteString(lines[0])
		b.WriteString(" */\n")
		return
	}
	b.WriteString(prefix)
	b.WriteString("/**\n")
	for _, line := range lines {
		b.WriteString(prefix)
		b.WriteString(" *")
		if line != "" {
			b.WriteString(" ")
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	b.WriteString(prefix)
	b.WriteString(" */\n")
}

// Quote renders s as a single-quoted TypeScript string literal.
func Quote(s string) string {
	var b strings.Builder
	b.WriteString("'")
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteString("'")
	return b.String()
}

// Union joins members into a union type.
func Union(members ...string) string {
	return strings.Join(members, " | ")
}

// Compile-time checks that every node is a structured fragment.
var (
	_ gen.SyntaxFragment = (*Interface)(nil)
	_ gen.SyntaxFragment = (*Alias)(nil)
	_ gen.SyntaxFragment = (*Const)(nil)
	_ gen.SyntaxFragment = (*Block)(nil)
)
