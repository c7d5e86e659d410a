package prefixer

import (
	"strconv"
	"strings"

	"github.com/AdamWorthington/omakase/ast"
	"github.com/AdamWorthington/omakase/data"
)

// prefixedEquivalents returns the siblings of d with the same property name
// and a vendor prefix, keyed by prefix. The first one of each prefix wins.
func prefixedEquivalents(d *ast.Declaration) map[data.Prefix]*ast.Declaration {
	m := make(map[data.Prefix]*ast.Declaration)
	for s := range d.Siblings().All() {
		name := s.PropertyName()
		if s == d || !name.IsPrefixed() || name.Name != d.PropertyName().Name {
			continue
		}
		if _, ok := m[data.Prefix(name.Prefix)]; !ok {
			m[data.Prefix(name.Prefix)] = s
		}
	}
	return m
}

// functionEquivalents returns the unprefixed siblings of d with the same
// property whose value contains a prefixed version of one of d's functions.
func functionEquivalents(d *ast.Declaration) map[data.Prefix]*ast.Declaration {
	names := make(map[string]bool)
	for t := range d.Value().Terms().All() {
		if f, ok := t.(*ast.FunctionValue); ok {
			names[ast.Lower(f.Name)] = true
		}
	}

	m := make(map[data.Prefix]*ast.Declaration)
	for s := range d.Siblings().All() {
		if s == d || s.PropertyName() != d.PropertyName() || s.Value() == nil {
			continue
		}
		for t := range s.Value().Terms().All() {
			f, ok := t.(*ast.FunctionValue)
			if !ok {
				continue
			}
			prefix, name := ast.SplitPrefix(f.Name)
			if prefix == "" || !names[ast.Lower(name)] {
				continue
			}
			if _, ok := m[data.Prefix(prefix)]; !ok {
				m[data.Prefix(prefix)] = s
			}
		}
	}
	return m
}

// keywordPrefixes returns the prefixes needed by the properties named as
// keywords in the value of d, such as "transform" in a transition.
func keywordPrefixes(d *ast.Declaration, m *data.SupportMatrix) []data.Prefix {
	var a []data.Prefix
	for t := range d.Value().Terms().All() {
		if k, ok := t.(*ast.KeywordValue); ok {
			a = merge(a, m.PrefixesForProperty(ast.Lower(k.Keyword)))
		}
	}
	return a
}

// pseudoElements returns the unprefixed pseudo element names of sel that are
// ever prefixed.
func pseudoElements(sel *ast.Selector) []string {
	var a []string
	for part := range sel.Parts().All() {
		if pe, ok := part.(*ast.PseudoElementSelector); ok && !pe.IsPrefixed() && data.HasSelector(ast.Lower(pe.Name)) {
			a = append(a, ast.Lower(pe.Name))
		}
	}
	return a
}

// merge returns the union of a and b in output order.
func merge(a, b []data.Prefix) []data.Prefix {
	if len(b) == 0 {
		return a
	}
	var out []data.Prefix
	for _, p := range data.Prefixes {
		if contains(a, p) || contains(b, p) {
			out = append(out, p)
		}
	}
	return out
}

func contains(a []data.Prefix, p data.Prefix) bool {
	for _, q := range a {
		if q == p {
			return true
		}
	}
	return false
}

func isGradient(name string) bool {
	return strings.HasSuffix(ast.Lower(name), "linear-gradient")
}

// opposites maps a side to the side a legacy gradient starts from.
var opposites = map[string]string{
	"top":    "bottom",
	"bottom": "top",
	"left":   "right",
	"right":  "left",
}

// legacyGradient rewrites the direction of a refined gradient into the
// syntax of the prefixed functions. Those name the starting side instead of
// "to" the ending side, and measure angles clockwise from east rather than
// north.
func legacyGradient(f *ast.FunctionValue) {
	first, ok := f.Args().First()
	if !ok {
		return
	}

	switch t := first.(type) {
	case *ast.KeywordValue:
		if ast.Lower(t.Keyword) != "to" {
			return
		}
		run := f.Args().Adjoining(t)
		f.Args().Remove(t)
		if len(run) > 1 {
			if op, ok := run[1].(*ast.Operator); ok && op.Type == ast.Space {
				f.Args().Remove(op)
			}
		}
		for _, m := range run[1:] {
			if k, ok := m.(*ast.KeywordValue); ok {
				if side, ok := opposites[ast.Lower(k.Keyword)]; ok {
					k.Keyword = side
				}
			}
		}
	case *ast.NumericalValue:
		if ast.Lower(t.Unit) != "deg" {
			return
		}
		deg, err := strconv.ParseFloat(t.Number, 64)
		if err != nil {
			return
		}
		legacy := 90 - deg
		for legacy < 0 {
			legacy += 360
		}
		for legacy >= 360 {
			legacy -= 360
		}
		t.Number = strconv.FormatFloat(legacy, 'f', -1, 64)
	}
}
