package ast

import (
	"errors"
	"strings"
	"testing"
)

// Ensure that every kind has an exemplar reporting that kind.
func TestExemplar(t *testing.T) {
	for _, k := range Kinds() {
		n := Exemplar(k)
		if n == nil {
			t.Fatalf("no exemplar for %s", k)
		}
		n.node()
		if n.Kind() != k {
			t.Errorf("%s exemplar reports %s", k, n.Kind())
		}
		if k.String() == "Unknown" {
			t.Errorf("kind %d has no name", k)
		}
	}
	if Exemplar(numKinds) != nil || numKinds.String() != "Unknown" {
		t.Fatal("unexpected exemplar for an invalid kind")
	}
}

// Ensure that the capability traits are implemented by the right variants.
func TestCapabilities(t *testing.T) {
	var refinable []Refinable
	refinable = append(refinable, &Selector{}, &Declaration{}, &AtRule{}, &FunctionValue{})

	var statements []Statement
	statements = append(statements, &Rule{}, &AtRule{})

	var parts []SelectorPart
	parts = append(parts, &ClassSelector{}, &IDSelector{}, &TypeSelector{}, &UniversalSelector{},
		&PseudoClassSelector{}, &PseudoElementSelector{}, &AttributeSelector{}, &Combinator{}, &KeyframeSelector{})
	for _, p := range parts {
		p.selectorPart()
		if CopySelectorPart(p).Kind() != p.Kind() {
			t.Errorf("copy of %s changed kind", p.Kind())
		}
	}

	var terms []Term
	terms = append(terms, &KeywordValue{}, &NumericalValue{}, &StringValue{}, &HexColorValue{},
		&URLValue{}, &Operator{}, NewFunctionValue(0, 0, "f", nil, nil))
	for _, v := range terms {
		v.term()
		if CopyTerm(v).Kind() != v.Kind() {
			t.Errorf("copy of %s changed kind", v.Kind())
		}
	}
	_, _ = refinable, statements
}

// Ensure that positions are only recorded when valid.
func TestPosition(t *testing.T) {
	var tests = []struct {
		in     Node
		line   int
		column int
		has    bool
	}{
		{in: NewClassSelector(3, 4, "a"), line: 3, column: 4, has: true},
		{in: NewRule(1, 1), line: 1, column: 1, has: true},
		{in: NewClassSelector(0, 4, "a")},
		{in: NewKeywordValue(2, 0, "a")},
		{in: NewDeclaration(NewRawSyntax(5, 6, "color"), NewRawSyntax(5, 13, "red"), nil), line: 5, column: 6, has: true},
	}

	for i, tt := range tests {
		if tt.in.Line() != tt.line || tt.in.Column() != tt.column || tt.in.HasPosition() != tt.has {
			t.Errorf("%d. exp=%d:%d/%v, got=%d:%d/%v", i, tt.line, tt.column, tt.has,
				tt.in.Line(), tt.in.Column(), tt.in.HasPosition())
		}
	}
}

// countingRefiner records refinement calls and produces fixed content.
type countingRefiner struct {
	selectors int
	err       error
}

func (r *countingRefiner) RefineSelector(s *Selector) error {
	r.selectors++
	if r.err != nil {
		return r.err
	}
	// Refining again from inside refinement must be a no-op.
	if err := s.Refine(); err != nil {
		return err
	}
	s.Parts().Append(NewTypeSelector(1, 1, "p"))
	return nil
}
func (r *countingRefiner) RefineDeclaration(d *Declaration) error { return nil }
func (r *countingRefiner) RefineAtRule(a *AtRule) error           { return nil }
func (r *countingRefiner) RefineFunction(f *FunctionValue) error  { return nil }

// Ensure that refinement only happens once.
func TestSelector_Refine(t *testing.T) {
	r := &countingRefiner{}
	s := NewSelector(NewRawSyntax(1, 1, "p"), r)
	if s.IsRefined() {
		t.Fatal("should start unrefined")
	}
	for i := 0; i < 3; i++ {
		if err := s.Refine(); err != nil {
			t.Fatal(err)
		}
	}
	if r.selectors != 1 || !s.IsRefined() || s.Parts().Len() != 1 {
		t.Fatalf("unexpected refinement: calls=%d parts=%d", r.selectors, s.Parts().Len())
	}
}

// Ensure that a failed refinement leaves the node unrefined.
func TestSelector_Refine_Error(t *testing.T) {
	r := &countingRefiner{err: errors.New("marker")}
	s := NewSelector(NewRawSyntax(1, 1, "p"), r)
	if err := s.Refine(); err == nil || err.Error() != "marker" {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.IsRefined() {
		t.Fatal("should not be refined")
	}
	if err := NewSelector(NewRawSyntax(1, 1, "p"), nil).Refine(); err != ErrNoRefiner {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Ensure that property names are split and normalized.
func TestParsePropertyName(t *testing.T) {
	var tests = []struct {
		s      string
		prefix string
		name   string
	}{
		{s: "color", name: "color"},
		{s: " Border-Radius ", name: "border-radius"},
		{s: "-moz-border-radius", prefix: "-moz-", name: "border-radius"},
		{s: "-WEBKIT-transition", prefix: "-webkit-", name: "transition"},
		{s: "-ms-", name: "-ms-"},
		{s: "*zoom", name: "*zoom"},
	}
	for i, tt := range tests {
		p := ParsePropertyName(tt.s)
		if p.Prefix != tt.prefix || p.Name != tt.name {
			t.Errorf("%d. <%q> exp=%q/%q, got=%q/%q", i, tt.s, tt.prefix, tt.name, p.Prefix, p.Name)
		}
		if p.String() != tt.prefix+tt.name || p.IsPrefixed() != (tt.prefix != "") {
			t.Errorf("%d. <%q> unexpected string %q", i, tt.s, p.String())
		}
	}
}

// Ensure that copies are deep and detached.
func TestDeclaration_Copy(t *testing.T) {
	fn := NewFunctionValueOf("calc", NewNumericalValue(1, 1, "100", "%"), NewOperator(0, 0, Space))
	d := NewDeclarationFrom(ParsePropertyName("width"), NewPropertyValueOf(fn, NewKeywordValue(0, 0, "auto")))
	d.SetImportant(true)
	r := NewRule(1, 1)
	r.Declarations().Append(d)

	c := d.Copy()
	if c.Attached() || !c.IsRefined() || !c.Important() || c.PropertyName() != d.PropertyName() {
		t.Fatal("unexpected copy")
	}
	if c.Value().Declaration() != c || c.Value().Terms().Len() != 2 {
		t.Fatal("copied value not owned by the copy")
	}
	cf, _ := c.Value().Terms().First()
	cf.(*FunctionValue).Name = "-moz-calc"
	if fn.Name != "calc" || cf.(*FunctionValue).Args().Len() != 2 {
		t.Fatal("copy shares state with the original")
	}
}

// Ensure that walking visits refined content in document order.
func TestWalk(t *testing.T) {
	sheet := NewStylesheet()
	rule := NewRule(1, 1)
	sheet.Statements().Append(rule)
	rule.Selectors().Append(NewSelectorFromParts(NewClassSelector(1, 1, "a")))
	rule.Declarations().Append(NewDeclarationFrom(ParsePropertyName("color"),
		NewPropertyValueOf(NewKeywordValue(1, 1, "red"))))
	unrefined := NewAtRule(2, 1, "media", NewRawSyntax(2, 8, "print"), NewRawSyntax(2, 15, ".b{}"), nil)
	sheet.Statements().Append(unrefined)

	var kinds []string
	err := Walk(sheet, func(n Node) error {
		kinds = append(kinds, n.Kind().String())
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	exp := "Stylesheet Rule Selector ClassSelector Declaration PropertyValue KeywordValue AtRule"
	if got := strings.Join(kinds, " "); got != exp {
		t.Fatalf("\n\nexp: %s\n\ngot: %s", exp, got)
	}

	stop := errors.New("stop")
	var n int
	if err := Walk(sheet, func(Node) error { n++; return stop }); err != stop || n != 1 {
		t.Fatalf("walk did not stop: %v %d", err, n)
	}
}

// Ensure that keyframe detection follows the tree.
func TestSelector_InKeyframes(t *testing.T) {
	a := NewAtRuleFrom("-webkit-keyframes", "spin", true)
	rule := NewRule(0, 0)
	a.Statements().Append(rule)
	s := NewSelector(NewRawSyntax(1, 1, "from"), nil)
	rule.Selectors().Append(s)
	if !s.InKeyframes() || !a.IsKeyframes() || !a.IsPrefixed() {
		t.Fatal("expected keyframes")
	}
	if NewSelector(nil, nil).InKeyframes() {
		t.Fatal("detached selector is not in keyframes")
	}
}
