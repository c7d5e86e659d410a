package omakase

import (
	"bytes"
	"io"
	"strings"

	"github.com/AdamWorthington/omakase/ast"
)

// Mode controls the whitespace written by a Printer.
type Mode int

const (
	// Inline writes each rule on a single line.
	Inline Mode = iota
	// Compressed writes no optional whitespace at all.
	Compressed
	// Verbose writes each declaration on its own indented line.
	Verbose
)

// String returns the name of the mode.
func (m Mode) String() string {
	switch m {
	case Compressed:
		return "compressed"
	case Verbose:
		return "verbose"
	}
	return "inline"
}

// ParseMode returns the mode with the given name.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inline", "":
		return Inline, true
	case "compressed":
		return Compressed, true
	case "verbose":
		return Verbose, true
	}
	return Inline, false
}

// Printer writes a syntax tree back out as CSS. Nodes that have not been
// refined are written from their raw content.
type Printer struct {
	Mode Mode
}

// Print writes n to w.
func (p *Printer) Print(w io.Writer, n ast.Node) error {
	if n == nil {
		return nil
	}
	pw := &printer{w: w, mode: p.Mode}
	pw.node(n)
	return pw.err
}

// Sprint returns n printed as a string.
func (p *Printer) Sprint(n ast.Node) string {
	var buf bytes.Buffer
	_ = p.Print(&buf, n)
	return buf.String()
}

// printer holds the state of a single Print call. The first write error is
// kept and later writes are skipped.
type printer struct {
	w     io.Writer
	mode  Mode
	depth int
	err   error
}

func (p *printer) write(s string) {
	if p.err != nil || s == "" {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

// pick returns the string for the current mode.
func (p *printer) pick(inline, compressed, verbose string) string {
	switch p.mode {
	case Compressed:
		return compressed
	case Verbose:
		return verbose
	}
	return inline
}

func (p *printer) indent() {
	if p.mode == Verbose {
		p.write(strings.Repeat("  ", p.depth))
	}
}

func (p *printer) node(n ast.Node) {
	switch n.Kind() {
	case ast.KindStylesheet:
		p.statements(n.(*ast.Stylesheet).Statements())

	case ast.KindRule:
		r := n.(*ast.Rule)
		p.indent()
		first := true
		for sel := range r.Selectors().All() {
			if !first {
				p.write(p.pick(", ", ",", ", "))
			}
			first = false
			p.node(sel)
		}
		p.write(p.pick(" {", "{", " {\n"))
		p.declarations(r.Declarations())
		p.indent()
		p.write("}")

	case ast.KindAtRule:
		p.atRule(n.(*ast.AtRule))

	case ast.KindSelector:
		sel := n.(*ast.Selector)
		if !sel.IsRefined() {
			p.write(sel.Raw().String())
			return
		}
		for part := range sel.Parts().All() {
			p.node(part)
		}

	case ast.KindDeclaration:
		d := n.(*ast.Declaration)
		p.write(d.PropertyName().String())
		p.write(p.pick(":", ":", ": "))
		if d.IsRefined() && d.Value() != nil {
			p.node(d.Value())
		} else {
			p.write(strings.TrimSpace(d.RawValue().String()))
		}
		if d.Important() {
			p.write(p.pick(" !important", "!important", " !important"))
		}

	case ast.KindClassSelector:
		p.write("." + n.(*ast.ClassSelector).Name)
	case ast.KindIDSelector:
		p.write("#" + n.(*ast.IDSelector).Name)
	case ast.KindTypeSelector:
		p.write(n.(*ast.TypeSelector).Name)
	case ast.KindUniversalSelector:
		p.write("*")
	case ast.KindPseudoClassSelector:
		s := n.(*ast.PseudoClassSelector)
		p.write(":" + s.Name)
		if s.HasArgs {
			p.write("(" + s.Args + ")")
		}
	case ast.KindPseudoElementSelector:
		p.write("::" + n.(*ast.PseudoElementSelector).Name)
	case ast.KindAttributeSelector:
		s := n.(*ast.AttributeSelector)
		p.write("[" + s.Name)
		if s.Match != ast.MatchNone {
			p.write(string(s.Match) + s.Quote.Char() + s.Value + s.Quote.Char())
		}
		p.write("]")
	case ast.KindCombinator:
		c := n.(*ast.Combinator)
		if c.Type == ast.Descendant {
			p.write(" ")
		} else {
			p.write(p.pick(" "+c.Type.Symbol()+" ", c.Type.Symbol(), " "+c.Type.Symbol()+" "))
		}
	case ast.KindKeyframeSelector:
		p.write(n.(*ast.KeyframeSelector).Value)

	case ast.KindPropertyValue:
		p.terms(n.(*ast.PropertyValue).Terms())
	case ast.KindKeywordValue:
		p.write(n.(*ast.KeywordValue).Keyword)
	case ast.KindNumericalValue:
		v := n.(*ast.NumericalValue)
		p.write(v.Number + v.Unit)
	case ast.KindStringValue:
		v := n.(*ast.StringValue)
		p.write(v.Quote.Char() + v.Content + v.Quote.Char())
	case ast.KindHexColorValue:
		p.write("#" + n.(*ast.HexColorValue).Color)
	case ast.KindURLValue:
		v := n.(*ast.URLValue)
		p.write("url(" + v.Quote.Char() + v.URL + v.Quote.Char() + ")")
	case ast.KindFunctionValue:
		f := n.(*ast.FunctionValue)
		p.write(f.Name + "(")
		if f.IsRefined() {
			p.terms(f.Args())
		} else {
			p.write(f.RawArgs().String())
		}
		p.write(")")
	case ast.KindOperator:
		switch op := n.(*ast.Operator); op.Type {
		case ast.Space, ast.Comma, ast.Slash:
			p.write(op.Type.Symbol())
		default:
			p.write(" " + op.Type.Symbol() + " ")
		}
	}
}

func (p *printer) statements(g *ast.Group[ast.Statement]) {
	first := true
	for s := range g.All() {
		if !first && p.depth > 0 {
			p.write(p.pick(" ", "", "\n"))
		} else if !first {
			p.write(p.pick("\n", "", "\n\n"))
		}
		first = false
		p.node(s)
	}
}

func (p *printer) declarations(g *ast.Group[*ast.Declaration]) {
	p.depth++
	first := true
	for d := range g.All() {
		if !first && p.mode != Verbose {
			p.write(p.pick("; ", ";", ""))
		}
		first = false
		p.indent()
		p.node(d)
		if p.mode == Verbose {
			p.write(";\n")
		}
	}
	p.depth--
}

func (p *printer) terms(g *ast.Group[ast.Term]) {
	for t := range g.All() {
		p.node(t)
	}
}

func (p *printer) atRule(a *ast.AtRule) {
	p.indent()
	p.write("@" + a.Name())
	expr := a.Expression()
	if !a.IsRefined() {
		expr = a.RawExpression().String()
	}
	if expr != "" {
		p.write(" " + expr)
	}
	if !a.HasBlock() {
		p.write(";")
		return
	}

	p.write(p.pick(" {", "{", " {\n"))
	switch {
	case !a.IsRefined() || (a.Statements().IsEmpty() && a.Declarations().IsEmpty()):
		p.write(strings.TrimSpace(a.RawBlock().String()))
		if p.mode == Verbose {
			p.write("\n")
		}
	case !a.Declarations().IsEmpty():
		p.declarations(a.Declarations())
	default:
		p.depth++
		if p.mode == Verbose {
			p.statements(a.Statements())
			p.write("\n")
		} else {
			p.statements(a.Statements())
		}
		p.depth--
	}
	p.indent()
	p.write("}")
}
