package parser

import (
	"fmt"
	"strings"

	"github.com/AdamWorthington/omakase/ast"
	"github.com/AdamWorthington/omakase/broadcast"
	"github.com/AdamWorthington/omakase/scanner"
	"github.com/AdamWorthington/omakase/token"
)

// SelectorStrategy may take over the refinement of selectors.
//
// A strategy returns true when it has refined the selector, which must then
// have at least one part, or false to let the next strategy try.
type SelectorStrategy interface {
	RefineSelector(sel *ast.Selector, b broadcast.Broadcaster, r *Refiner) (bool, error)
}

// DeclarationStrategy may take over the refinement of declarations. A
// declaration it handles must end up with a non-empty value.
type DeclarationStrategy interface {
	RefineDeclaration(d *ast.Declaration, b broadcast.Broadcaster, r *Refiner) (bool, error)
}

// AtRuleStrategy may take over the refinement of at-rules. An at-rule it
// handles must end up with an expression or block content.
type AtRuleStrategy interface {
	RefineAtRule(a *ast.AtRule, b broadcast.Broadcaster, r *Refiner) (bool, error)
}

// FunctionStrategy may take over the refinement of function arguments. A
// function it handles must end up with at least one argument.
type FunctionStrategy interface {
	RefineFunction(f *ast.FunctionValue, b broadcast.Broadcaster, r *Refiner) (bool, error)
}

// Refiner expands the raw content of selectors, declarations, at-rules and
// functions. Registered strategies are consulted in order before the
// standard grammar for each category.
//
// Every node created during refinement is broadcast to the refiner's
// broadcaster, exactly as if it had been parsed from the top level.
type Refiner struct {
	broadcaster  broadcast.Broadcaster
	selectors    []SelectorStrategy
	declarations []DeclarationStrategy
	atRules      []AtRuleStrategy
	functions    []FunctionStrategy
}

// NewRefiner returns a refiner broadcasting to b. Each strategy is added
// with AddStrategy.
func NewRefiner(b broadcast.Broadcaster, strategies ...any) *Refiner {
	if b == nil {
		b = broadcast.Discard
	}
	r := &Refiner{broadcaster: b}
	for _, s := range strategies {
		r.AddStrategy(s)
	}
	return r
}

// AddStrategy registers s for every strategy interface it implements. It
// returns false if s implements none of them.
func (r *Refiner) AddStrategy(s any) bool {
	var ok bool
	if v, is := s.(SelectorStrategy); is {
		r.selectors, ok = append(r.selectors, v), true
	}
	if v, is := s.(DeclarationStrategy); is {
		r.declarations, ok = append(r.declarations, v), true
	}
	if v, is := s.(AtRuleStrategy); is {
		r.atRules, ok = append(r.atRules, v), true
	}
	if v, is := s.(FunctionStrategy); is {
		r.functions, ok = append(r.functions, v), true
	}
	return ok
}

// Broadcaster returns the broadcaster receiving refined nodes.
func (r *Refiner) Broadcaster() broadcast.Broadcaster { return r.broadcaster }

// asRefiner returns r as an ast.Refiner, keeping nil as a nil interface.
func (r *Refiner) asRefiner() ast.Refiner {
	if r == nil {
		return nil
	}
	return r
}

// contractError reports a strategy that claimed a node but left it empty.
func contractError(strategy any, n ast.Node) error {
	return &scanner.Error{
		Message: fmt.Sprintf("refiner strategy %T handled %s but produced no content", strategy, n.Kind()),
		Pos:     n.Pos(),
	}
}

// truncateOnError removes the members appended to g after its first n when
// *err is set, so a failed refinement leaves no partial children behind.
func truncateOnError[T ast.Member](g *ast.Group[T], n int, err *error) {
	if *err == nil || g.Len() <= n {
		return
	}
	for _, m := range g.Slice()[n:] {
		g.Remove(m)
	}
}

// RefineSelector refines sel. It is called by sel.Refine and should not be
// called directly.
func (r *Refiner) RefineSelector(sel *ast.Selector) (err error) {
	defer truncateOnError(sel.Parts(), sel.Parts().Len(), &err)

	for _, st := range r.selectors {
		if ok, err := st.RefineSelector(sel, r.broadcaster, r); err != nil {
			return err
		} else if ok {
			if sel.Parts().IsEmpty() {
				return contractError(st, sel)
			}
			return nil
		}
	}

	raw := sel.Raw()
	if raw == nil {
		return nil
	}
	s := scanner.NewAnchored(raw.Content, raw.Line, raw.Column)
	b := collect(sel.Parts(), r.broadcaster)

	grammar, msg := ComplexSelector, errUnparsable
	if sel.InKeyframes() {
		grammar, msg = KeyframeSelector, errKeyframe
	}
	ok, err := grammar.Parse(s, b, r)
	if err != nil {
		return err
	}
	s.SkipWhitespace()
	if !ok || !s.EOF() {
		return s.Errorf("%s %q", msg, s.Remaining())
	}

	log().Debugf("refined selector %q into %d parts", raw.Content, sel.Parts().Len())
	return nil
}

// RefineDeclaration refines d. It is called by d.Refine and should not be
// called directly.
func (r *Refiner) RefineDeclaration(d *ast.Declaration) error {
	for _, st := range r.declarations {
		if ok, err := st.RefineDeclaration(d, r.broadcaster, r); err != nil {
			return err
		} else if ok {
			if d.Value() == nil || d.Value().Terms().IsEmpty() {
				return contractError(st, d)
			}
			return nil
		}
	}

	raw := d.RawValue()
	if raw == nil {
		return nil
	}
	s := scanner.NewAnchored(raw.Content, raw.Line, raw.Column)

	// The value is attached first so terms can see their declaration.
	v := ast.NewPropertyValue(raw.Line, raw.Column)
	d.SetValue(v)
	if err := r.refineValue(s, d, v); err != nil {
		d.SetValue(nil)
		return err
	}
	return r.broadcaster.Broadcast(v)
}

func (r *Refiner) refineValue(s *scanner.Scanner, d *ast.Declaration, v *ast.PropertyValue) error {
	ok, err := TermList.Parse(s, collect(v.Terms(), r.broadcaster), r)
	if err != nil {
		return err
	} else if !ok {
		return s.Errorf("Unable to parse the value of %q", d.PropertyName().String())
	}

	// Check for the important flag.
	s.SkipWhitespace()
	if s.OptionallyPresent(token.Bang) {
		s.SkipWhitespace()
		if !s.ReadConstantFold("important") {
			return s.Errorf("Expected to find 'important' after '!'")
		}
		d.SetImportant(true)
	}

	if err := s.CollectComments(true); err != nil {
		return err
	} else if !s.EOF() {
		return s.Errorf("Unparsable declaration value content %q", s.Remaining())
	}
	v.AddComments(s.FlushComments()...)
	return nil
}

// statementBlocks lists at-rules whose blocks contain rules and at-rules.
var statementBlocks = map[string]bool{
	"media":     true,
	"supports":  true,
	"document":  true,
	"keyframes": true,
}

// RefineAtRule refines a. It is called by a.Refine and should not be called
// directly.
//
// The expression is kept as text. Blocks of known at-rules are parsed as
// declarations or statements; blocks of other at-rules stay raw.
func (r *Refiner) RefineAtRule(a *ast.AtRule) (err error) {
	defer truncateOnError(a.Statements(), a.Statements().Len(), &err)
	defer truncateOnError(a.Declarations(), a.Declarations().Len(), &err)
	defer func(expr string) {
		if err != nil {
			a.SetExpression(expr)
		}
	}(a.Expression())

	for _, st := range r.atRules {
		if ok, err := st.RefineAtRule(a, r.broadcaster, r); err != nil {
			return err
		} else if ok {
			if a.Expression() == "" && a.Statements().IsEmpty() && a.Declarations().IsEmpty() {
				return contractError(st, a)
			}
			return nil
		}
	}

	if raw := a.RawExpression(); raw != nil {
		a.SetExpression(strings.TrimSpace(raw.Content))
	}

	raw := a.RawBlock()
	if raw == nil {
		return nil
	}
	s := scanner.NewAnchored(raw.Content, raw.Line, raw.Column)

	switch {
	case a.HasDeclarationBlock():
		orphaned, err := parseDeclarations(s, collect(a.Declarations(), r.broadcaster), r)
		if err != nil {
			return err
		} else if !s.EOF() {
			return s.Errorf("Unable to parse declaration at %q", excerpt(s))
		}
		a.AddComments(orphaned...)
	case statementBlocks[a.UnprefixedName()]:
		orphaned, err := parseStatements(s, collect(a.Statements(), r.broadcaster), r)
		if err != nil {
			return err
		}
		a.AddComments(orphaned...)
	}

	log().Debugf("refined at-rule @%s", a.Name())
	return nil
}

// RefineFunction refines f. It is called by f.Refine and should not be
// called directly.
func (r *Refiner) RefineFunction(f *ast.FunctionValue) (err error) {
	defer truncateOnError(f.Args(), f.Args().Len(), &err)

	for _, st := range r.functions {
		if ok, err := st.RefineFunction(f, r.broadcaster, r); err != nil {
			return err
		} else if ok {
			if f.Args().IsEmpty() {
				return contractError(st, f)
			}
			return nil
		}
	}

	raw := f.RawArgs()
	if raw == nil {
		return nil
	}
	s := scanner.NewAnchored(raw.Content, raw.Line, raw.Column)
	if _, err := TermList.Parse(s, collect(f.Args(), r.broadcaster), r); err != nil {
		return err
	}
	if err := s.CollectComments(true); err != nil {
		return err
	} else if !s.EOF() {
		return s.Errorf("Unparsable arguments for %s() %q", f.Name, s.Remaining())
	}
	return nil
}
