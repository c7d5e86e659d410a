package ast_test

import (
	"strings"
	"testing"

	"github.com/AdamWorthington/omakase/ast"
)

// names returns a compact description of the parts of a selector.
func names(parts []ast.SelectorPart) string {
	var a []string
	for _, p := range parts {
		switch p := p.(type) {
		case *ast.ClassSelector:
			a = append(a, "."+p.Name)
		case *ast.IDSelector:
			a = append(a, "#"+p.Name)
		case *ast.TypeSelector:
			a = append(a, p.Name)
		case *ast.Combinator:
			a = append(a, "("+strings.TrimSpace(p.Type.Symbol())+")")
		default:
			a = append(a, p.Kind().String())
		}
	}
	return strings.Join(a, " ")
}

func newParts() (*ast.Selector, []ast.SelectorPart) {
	parts := []ast.SelectorPart{
		ast.NewClassSelector(1, 1, "a"),
		ast.NewClassSelector(1, 3, "b"),
		ast.NewCombinator(1, 5, ast.Descendant),
		ast.NewTypeSelector(1, 6, "P"),
		ast.NewIDSelector(1, 7, "c"),
	}
	return ast.NewSelectorFromParts(parts...), parts
}

// Ensure that members keep insertion order and know their group.
func TestGroup_Append(t *testing.T) {
	s, parts := newParts()
	g := s.Parts()
	if g.Len() != 5 || names(g.Slice()) != ".a .b () p #c" {
		t.Fatalf("unexpected group: %d %s", g.Len(), names(g.Slice()))
	}
	for i, p := range parts {
		if !p.Attached() || p.Parent() != ast.Node(s) || !g.Contains(p) {
			t.Errorf("%d. member not linked to its group", i)
		}
	}
	if first, _ := g.First(); first != parts[0] {
		t.Fatal("unexpected first")
	}
	if last, _ := g.Last(); last != parts[4] {
		t.Fatal("unexpected last")
	}
}

// Ensure that removal relinks only the two neighbors and clears the member.
func TestGroup_Remove(t *testing.T) {
	s, parts := newParts()
	g := s.Parts()

	if !g.Remove(parts[2]) {
		t.Fatal("expected removal")
	}
	if parts[2].Attached() || parts[2].Parent() != nil {
		t.Fatal("removed member still linked")
	}
	if next, _ := g.Next(parts[1]); next != parts[3] {
		t.Fatal("previous neighbor not relinked")
	}
	if prev, _ := g.Prev(parts[3]); prev != parts[1] {
		t.Fatal("next neighbor not relinked")
	}
	if got := names(g.Slice()); got != ".a .b p #c" {
		t.Fatalf("unexpected order: %s", got)
	}
	if g.Remove(parts[2]) {
		t.Fatal("removing twice should fail")
	}

	parts[0].Detach()
	parts[4].Detach()
	if first, _ := g.First(); first != parts[1] {
		t.Fatal("head not updated")
	}
	if last, _ := g.Last(); last != parts[3] {
		t.Fatal("tail not updated")
	}
	if g.Len() != 2 {
		t.Fatalf("unexpected length %d", g.Len())
	}
}

// Ensure that insertion places members relative to an anchor and that
// freed slots are reused without disturbing order.
func TestGroup_Insert(t *testing.T) {
	s, parts := newParts()
	g := s.Parts()
	parts[1].Detach()

	x := ast.NewClassSelector(0, 0, "x")
	y := ast.NewClassSelector(0, 0, "y")
	z := ast.NewClassSelector(0, 0, "z")
	if !g.InsertBefore(parts[0], x) || !g.InsertAfter(parts[3], y) {
		t.Fatal("expected insertion")
	}
	g.Prepend(z)
	if got := names(g.Slice()); got != ".z .x .a () p .y #c" {
		t.Fatalf("unexpected order: %s", got)
	}

	orphan := ast.NewClassSelector(0, 0, "o")
	if g.InsertBefore(orphan, ast.NewClassSelector(0, 0, "n")) {
		t.Fatal("inserting relative to a non-member should fail")
	}
	if g.InsertAfter(x, x) {
		t.Fatal("inserting relative to itself should fail")
	}
}

// Ensure that membership is exclusive.
func TestGroup_Exclusive(t *testing.T) {
	s1, parts := newParts()
	s2 := ast.NewSelectorFromParts()

	s2.Parts().Append(parts[0])
	if s1.Parts().Contains(parts[0]) || !s2.Parts().Contains(parts[0]) {
		t.Fatal("member should have moved")
	}
	if s1.Parts().Len() != 4 || s2.Parts().Len() != 1 {
		t.Fatal("unexpected lengths")
	}
	if parts[0].Parent() != ast.Node(s2) {
		t.Fatal("unexpected parent")
	}

	// Moving within the same group reorders.
	s1.Parts().InsertAfter(parts[4], parts[1])
	if got := names(s1.Parts().Slice()); got != "() p #c .b" {
		t.Fatalf("unexpected order: %s", got)
	}
}

// Ensure that replace swaps a member in place.
func TestGroup_Replace(t *testing.T) {
	s, parts := newParts()
	r := ast.NewClassSelector(0, 0, "r")
	if !s.Parts().Replace(parts[3], r) {
		t.Fatal("expected replacement")
	}
	if got := names(s.Parts().Slice()); got != ".a .b () .r #c" || parts[3].Attached() {
		t.Fatalf("unexpected order: %s", got)
	}
}

// Ensure that the adjoining run stops at separators.
func TestGroup_Adjoining(t *testing.T) {
	s, parts := newParts()
	g := s.Parts()

	var tests = []struct {
		m   ast.SelectorPart
		exp string
	}{
		{m: parts[0], exp: ".a .b"},
		{m: parts[1], exp: ".a .b"},
		{m: parts[2], exp: "()"},
		{m: parts[3], exp: "p #c"},
		{m: parts[4], exp: "p #c"},
	}
	for i, tt := range tests {
		if got := names(g.Adjoining(tt.m)); got != tt.exp {
			t.Errorf("%d. exp=%q, got=%q", i, tt.exp, got)
		}
	}

	if g.Adjoining(ast.NewClassSelector(0, 0, "x")) != nil {
		t.Fatal("non-member should have no run")
	}
}

// Ensure that the visited member may be removed during iteration.
func TestGroup_All_Remove(t *testing.T) {
	s, _ := newParts()
	g := s.Parts()
	var seen int
	for p := range g.All() {
		seen++
		if _, ok := p.(*ast.ClassSelector); ok {
			p.Detach()
		}
	}
	if seen != 5 || names(g.Slice()) != "() p #c" {
		t.Fatalf("unexpected iteration: %d %s", seen, names(g.Slice()))
	}
}

// Ensure that an empty group behaves.
func TestGroup_Empty(t *testing.T) {
	g := ast.NewSelectorFromParts().Parts()
	if !g.IsEmpty() || len(g.Slice()) != 0 {
		t.Fatal("expected empty group")
	}
	if _, ok := g.First(); ok {
		t.Fatal("unexpected first")
	}
	if _, ok := g.Next(ast.NewClassSelector(0, 0, "x")); ok {
		t.Fatal("unexpected next")
	}
}
