package parser

import (
	"strings"

	"github.com/AdamWorthington/omakase/ast"
	"github.com/AdamWorthington/omakase/broadcast"
	"github.com/AdamWorthington/omakase/scanner"
	"github.com/AdamWorthington/omakase/token"
)

// Refined selector grammars. Each broadcasts the selector parts it reads.
var (
	// ComplexSelector parses compound selectors joined by combinators.
	ComplexSelector Parser = Func(parseComplexSelector)

	// ClassSelector parses ".name".
	ClassSelector Parser = Func(parseClassSelector)

	// IDSelector parses "#name".
	IDSelector Parser = Func(parseIDSelector)

	// TypeSelector parses an element name.
	TypeSelector Parser = Func(parseTypeSelector)

	// UniversalSelector parses "*".
	UniversalSelector Parser = Func(parseUniversalSelector)

	// PseudoSelector parses ":name", ":name(args)" and "::name".
	PseudoSelector Parser = Func(parsePseudoSelector)

	// AttributeSelector parses "[name]" and "[name op value]".
	AttributeSelector Parser = Func(parseAttributeSelector)

	// Combinator parses whitespace, ">", "+" or "~" between compound selectors.
	Combinator Parser = Func(parseCombinator)

	// KeyframeSelector parses "from", "to" or a percentage.
	KeyframeSelector Parser = Func(parseKeyframeSelector)
)

// Selector error messages.
const (
	errClassName        = "expected to find a valid class name"
	errIDName           = "expected to find a valid id name"
	errPseudoName       = "expected to find a valid pseudo selector name"
	errAttributeName    = "expected to find a valid attribute name"
	errAttributeMatcher = "expected to find a valid attribute matcher"
	errNameFirst        = "name selectors must come first"
	errComments         = "comments are not allowed in selectors"
	errUnparsable       = "unparsable selector content"
	errAfterCombinator  = "expected to find a selector after the combinator"
	errKeyframe         = "expected to find a keyframe selector (from, to or a percentage)"
)

func parseComplexSelector(s *scanner.Scanner, b broadcast.Broadcaster, r *Refiner) (bool, error) {
	s.SkipWhitespace()

	matched := false
	for {
		// Consume a compound selector.
		ok, err := parseCompoundSelector(s, b, r)
		if err != nil {
			return false, err
		} else if !ok {
			if matched {
				return false, s.Errorf(errAfterCombinator)
			}
			return false, nil
		}
		matched = true

		if startsComment(s) {
			return false, s.Errorf(errComments)
		}

		// A combinator means another compound selector follows.
		if ok, err := Combinator.Parse(s, b, r); err != nil {
			return false, err
		} else if !ok {
			break
		}
	}

	if startsComment(s) {
		return false, s.Errorf(errComments)
	}
	return true, nil
}

// parseCompoundSelector parses an optional type or universal selector
// followed by any number of class, id, attribute and pseudo selectors.
func parseCompoundSelector(s *scanner.Scanner, b broadcast.Broadcaster, r *Refiner) (bool, error) {
	matched := false
	for _, p := range []Parser{TypeSelector, UniversalSelector} {
		ok, err := p.Parse(s, b, r)
		if err != nil {
			return false, err
		} else if ok {
			matched = true
			break
		}
	}

	for {
		if startsComment(s) {
			return false, s.Errorf(errComments)
		}

		ok, err := parseSimpleSelector(s, b, r)
		if err != nil {
			return false, err
		} else if !ok {
			break
		}
		matched = true
	}

	// Type and universal selectors may only lead the compound selector.
	if matched && (s.Current() == '*' || startsIdent(s)) {
		return false, s.Errorf(errNameFirst)
	}
	return matched, nil
}

func parseSimpleSelector(s *scanner.Scanner, b broadcast.Broadcaster, r *Refiner) (bool, error) {
	switch s.Current() {
	case '.':
		return ClassSelector.Parse(s, b, r)
	case '#':
		return IDSelector.Parse(s, b, r)
	case '[':
		return AttributeSelector.Parse(s, b, r)
	case ':':
		return PseudoSelector.Parse(s, b, r)
	}
	return false, nil
}

func startsComment(s *scanner.Scanner) bool {
	return s.Current() == '/' && s.Peek(1) == '*'
}

func startsIdent(s *scanner.Scanner) bool {
	snap := s.Snapshot()
	defer s.Rollback(snap)
	_, ok := s.ReadIdent()
	return ok
}

// startsSimpleSelector returns true if the cursor is at the start of a type,
// universal, class, id, attribute or pseudo selector.
func startsSimpleSelector(s *scanner.Scanner) bool {
	switch s.Current() {
	case '.', '#', '*', '[', ':':
		return true
	}
	return startsIdent(s)
}

func parseClassSelector(s *scanner.Scanner, b broadcast.Broadcaster, r *Refiner) (bool, error) {
	if s.Current() != '.' {
		return false, nil
	}
	pos := s.Pos()
	s.Next()

	name, ok := s.ReadIdent()
	if !ok {
		return false, s.Errorf(errClassName)
	}
	return true, b.Broadcast(ast.NewClassSelector(pos.Line, pos.Column, name))
}

func parseIDSelector(s *scanner.Scanner, b broadcast.Broadcaster, r *Refiner) (bool, error) {
	if s.Current() != '#' {
		return false, nil
	}
	pos := s.Pos()
	s.Next()

	name, ok := s.ReadIdent()
	if !ok {
		return false, s.Errorf(errIDName)
	}
	return true, b.Broadcast(ast.NewIDSelector(pos.Line, pos.Column, name))
}

func parseTypeSelector(s *scanner.Scanner, b broadcast.Broadcaster, r *Refiner) (bool, error) {
	pos := s.Pos()
	name, ok := s.ReadIdent()
	if !ok {
		return false, nil
	}
	return true, b.Broadcast(ast.NewTypeSelector(pos.Line, pos.Column, name))
}

func parseUniversalSelector(s *scanner.Scanner, b broadcast.Broadcaster, r *Refiner) (bool, error) {
	pos := s.Pos()
	if !s.OptionallyPresent(token.Star) {
		return false, nil
	}
	return true, b.Broadcast(ast.NewUniversalSelector(pos.Line, pos.Column))
}

func parsePseudoSelector(s *scanner.Scanner, b broadcast.Broadcaster, r *Refiner) (bool, error) {
	if s.Current() != ':' {
		return false, nil
	}
	pos := s.Pos()
	s.Next()
	double := s.OptionallyPresent(token.Colon)

	name, ok := s.ReadIdent()
	if !ok {
		return false, s.Errorf(errPseudoName)
	}

	// Legacy pseudo elements may be written with a single colon.
	if double || ast.LegacyPseudoElements[ast.Lower(name)] {
		return true, b.Broadcast(ast.NewPseudoElementSelector(pos.Line, pos.Column, name))
	}

	p := ast.NewPseudoClassSelector(pos.Line, pos.Column, name)
	if s.Current() == '(' {
		args, err := s.ChompEnclosedValue(token.OpenParen, token.CloseParen)
		if err != nil {
			return false, err
		}
		p.Args, p.HasArgs = strings.TrimSpace(args), true
	}
	return true, b.Broadcast(p)
}

// attributeMatchers lists the matchers, longest first.
var attributeMatchers = []ast.AttributeMatch{
	ast.MatchIncludes,
	ast.MatchDash,
	ast.MatchPrefix,
	ast.MatchSuffix,
	ast.MatchSubstring,
	ast.MatchEquals,
}

func parseAttributeSelector(s *scanner.Scanner, b broadcast.Broadcaster, r *Refiner) (bool, error) {
	if s.Current() != '[' {
		return false, nil
	}
	pos := s.Pos()
	content, err := s.ChompEnclosedValue(token.OpenBracket, token.CloseBracket)
	if err != nil {
		return false, err
	}

	// The content is read with its own scanner, anchored after the bracket.
	in := scanner.NewAnchored(content, pos.Line, pos.Column+1)
	in.SkipWhitespace()
	name, ok := in.ReadIdent()
	if !ok {
		return false, in.Errorf(errAttributeName)
	}
	a := ast.NewAttributeSelector(pos.Line, pos.Column, name)

	in.SkipWhitespace()
	if !in.EOF() {
		for _, m := range attributeMatchers {
			if in.ReadConstant(string(m)) {
				a.Match = m
				break
			}
		}
		if a.Match == ast.MatchNone {
			return false, in.Errorf(errAttributeMatcher)
		}

		in.SkipWhitespace()
		q := in.Current()
		if str, ok, err := in.ReadString(); err != nil {
			return false, err
		} else if ok {
			a.Value, a.Quote = str, ast.QuoteModeOf(q)
		} else if ident, ok := in.ReadIdent(); ok {
			a.Value = ident
		} else {
			return false, in.Errorf("expected to find a valid attribute value")
		}

		in.SkipWhitespace()
		if !in.EOF() {
			return false, in.Errorf(errUnparsable)
		}
	}
	return true, b.Broadcast(a)
}

func parseCombinator(s *scanner.Scanner, b broadcast.Broadcaster, r *Refiner) (bool, error) {
	snap := s.Snapshot()
	pos := s.Pos()
	ws := s.Chomp(token.Whitespace) != ""

	// A symbol may be surrounded by whitespace.
	spos := s.Pos()
	if ch, ok := s.Optional(token.CombinatorSymbol); ok {
		s.SkipWhitespace()
		var typ ast.CombinatorType
		switch ch {
		case '>':
			typ = ast.Child
		case '+':
			typ = ast.AdjacentSibling
		case '~':
			typ = ast.GeneralSibling
		}
		return true, b.Broadcast(ast.NewCombinator(spos.Line, spos.Column, typ))
	}

	// Whitespace only counts when a selector follows it.
	if ws && startsSimpleSelector(s) {
		return true, b.Broadcast(ast.NewCombinator(pos.Line, pos.Column, ast.Descendant))
	}

	s.Rollback(snap)
	return false, nil
}

func parseKeyframeSelector(s *scanner.Scanner, b broadcast.Broadcaster, r *Refiner) (bool, error) {
	s.SkipWhitespace()
	pos := s.Pos()
	snap := s.Snapshot()

	var value string
	if s.ReadConstantFold("from") {
		value = "from"
	} else if s.ReadConstantFold("to") {
		value = "to"
	} else {
		num := s.Chomp(token.Digit)
		if s.Current() == '.' {
			s.Next()
			num += "." + s.Chomp(token.Digit)
		}
		if num == "" || num == "." || !s.OptionallyPresent(token.Percent) {
			s.Rollback(snap)
			return false, nil
		}
		value = num + "%"
	}

	// Keywords must not be the start of a longer name.
	if token.IsName(s.Current()) {
		s.Rollback(snap)
		return false, nil
	}
	return true, b.Broadcast(ast.NewKeyframeSelector(pos.Line, pos.Column, value))
}
