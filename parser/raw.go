package parser

import (
	"strings"

	"github.com/AdamWorthington/omakase/ast"
	"github.com/AdamWorthington/omakase/broadcast"
	"github.com/AdamWorthington/omakase/scanner"
	"github.com/AdamWorthington/omakase/token"
)

// Raw grammars. These split the source into rules, at-rules, selectors and
// declarations without looking inside of them. The content is refined later.
var (
	// Statement parses a single at-rule or rule.
	Statement Parser = Either(AtRule, Rule)

	// Rule parses selectors followed by a declaration block.
	Rule Parser = Func(parseRule)

	// AtRule parses "@name expression;" or "@name expression { block }".
	AtRule Parser = Func(parseAtRule)

	// RawSelector parses the text of one selector up to "," or "{".
	RawSelector Parser = Func(parseRawSelector)

	// RawDeclaration parses "property: value" up to ";" or "}".
	RawDeclaration Parser = Func(parseRawDeclaration)
)

// StylesheetParser parses an entire stylesheet.
type StylesheetParser struct {
	// Sheet receives the parsed statements. A new stylesheet is created
	// when nil.
	Sheet *ast.Stylesheet
}

// Parse parses statements until the end of input and then broadcasts the
// stylesheet. It always matches.
func (p *StylesheetParser) Parse(s *scanner.Scanner, b broadcast.Broadcaster, r *Refiner) (bool, error) {
	if p.Sheet == nil {
		p.Sheet = ast.NewStylesheet()
	}
	orphaned, err := parseStatements(s, collect(p.Sheet.Statements(), b), r)
	if err != nil {
		return false, err
	}
	p.Sheet.AddOrphanedComments(orphaned...)
	return true, b.Broadcast(p.Sheet)
}

// ParseStylesheet parses text into a stylesheet, broadcasting every node as
// it is created.
func ParseStylesheet(s *scanner.Scanner, b broadcast.Broadcaster, r *Refiner) (*ast.Stylesheet, error) {
	p := &StylesheetParser{}
	if _, err := p.Parse(s, b, r); err != nil {
		return nil, err
	}
	return p.Sheet, nil
}

// parseStatements parses statements until the end of input. Comments after
// the last statement are returned.
func parseStatements(s *scanner.Scanner, b broadcast.Broadcaster, r *Refiner) ([]string, error) {
	for {
		// Skip over whitespace and comments.
		if err := s.CollectComments(true); err != nil {
			return nil, err
		} else if s.EOF() {
			return s.FlushComments(), nil
		}

		// Every remaining piece of content must be a rule or at-rule.
		if ok, err := Statement.Parse(s, b, r); err != nil {
			return nil, err
		} else if !ok {
			return nil, s.Errorf("Unable to parse remaining content %q", excerpt(s))
		}
	}
}

func parseRule(s *scanner.Scanner, b broadcast.Broadcaster, r *Refiner) (bool, error) {
	// Skip over whitespace and comments.
	if err := s.CollectComments(true); err != nil {
		return false, err
	}
	if !token.SelectorBegin.Matches(s.Current()) {
		return false, nil
	}

	pos := s.Pos()
	rule := ast.NewRule(pos.Line, pos.Column)
	adopt(b, rule)

	// Consume one or more comma separated selectors.
	sb := collect(rule.Selectors(), b)
	for {
		if ok, err := RawSelector.Parse(s, sb, r); err != nil {
			return false, err
		} else if !ok {
			return false, s.Errorf("Expected to find a selector at %q", excerpt(s))
		}
		if !s.OptionallyPresent(token.Comma) {
			break
		}
	}

	// Consume the declaration block.
	if err := s.Expect(token.OpenBrace); err != nil {
		return false, err
	}
	orphaned, err := parseDeclarations(s, collect(rule.Declarations(), b), r)
	if err != nil {
		return false, err
	}
	rule.AddOrphanedComments(orphaned...)
	if err := s.Expect(token.CloseBrace); err != nil {
		return false, err
	}

	return true, b.Broadcast(rule)
}

// parseDeclarations parses declarations until "}" or the end of input.
// Comments after the last declaration are returned.
func parseDeclarations(s *scanner.Scanner, b broadcast.Broadcaster, r *Refiner) ([]string, error) {
	for {
		if err := s.CollectComments(true); err != nil {
			return nil, err
		} else if s.EOF() || s.Current() == '}' {
			return s.FlushComments(), nil
		}

		ok, err := RawDeclaration.Parse(s, b, r)
		if err != nil {
			return nil, err
		} else if !ok && !s.OptionallyPresent(token.Semicolon) {
			return nil, s.Errorf("Unable to parse declaration at %q", excerpt(s))
		}
		s.OptionallyPresent(token.Semicolon)
	}
}

func parseAtRule(s *scanner.Scanner, b broadcast.Broadcaster, r *Refiner) (bool, error) {
	// Skip over whitespace and comments.
	if err := s.CollectComments(true); err != nil {
		return false, err
	}
	if s.Current() != '@' {
		return false, nil
	}
	pos := s.Pos()
	s.Next()

	name, ok := s.ReadIdent()
	if !ok {
		return false, s.Errorf("Expected to find a valid at-rule name")
	}

	// Everything up to ";" or "{" is the expression.
	s.SkipWhitespace()
	var expr *ast.RawSyntax
	epos := s.Pos()
	if content := strings.TrimSpace(s.Until(token.AtRuleEnd)); content != "" {
		expr = ast.NewRawSyntax(epos.Line, epos.Column, content)
	}

	// The block is kept raw, including its braces' content.
	var block *ast.RawSyntax
	if s.Current() == '{' {
		bpos := s.Pos()
		content, err := s.ChompEnclosedValue(token.OpenBrace, token.CloseBrace)
		if err != nil {
			return false, err
		}
		block = ast.NewRawSyntax(bpos.Line, bpos.Column+1, content)
	} else {
		s.OptionallyPresent(token.Semicolon)
	}

	if expr == nil && block == nil {
		return false, &scanner.Error{Message: "Expected to find an expression or block for at-rule @" + name, Pos: pos}
	}

	a := ast.NewAtRule(pos.Line, pos.Column, name, expr, block, r.asRefiner())
	a.AddComments(s.FlushComments()...)
	return true, b.Broadcast(a)
}

func parseRawSelector(s *scanner.Scanner, b broadcast.Broadcaster, r *Refiner) (bool, error) {
	// Skip over whitespace and comments.
	if err := s.CollectComments(true); err != nil {
		return false, err
	}
	if !token.SelectorBegin.Matches(s.Current()) {
		return false, nil
	}

	pos := s.Pos()
	content := strings.TrimSpace(s.Until(token.SelectorEnd))
	sel := ast.NewSelector(ast.NewRawSyntax(pos.Line, pos.Column, content), r.asRefiner())
	sel.AddComments(s.FlushComments()...)
	return true, b.Broadcast(sel)
}

// propertyName matches the characters of a raw property name.
var propertyName = token.Not(token.Any(token.Colon, token.DeclarationEnd, token.Whitespace))

func parseRawDeclaration(s *scanner.Scanner, b broadcast.Broadcaster, r *Refiner) (bool, error) {
	// Skip over whitespace and comments.
	if err := s.CollectComments(true); err != nil {
		return false, err
	}
	if !token.DeclarationBegin.Matches(s.Current()) {
		return false, nil
	}

	// Read the property name and the colon.
	pos := s.Pos()
	property := s.Chomp(propertyName)
	s.SkipWhitespace()
	if err := s.Expect(token.Colon); err != nil {
		return false, err
	}

	// The value runs to the end of the declaration.
	s.SkipWhitespace()
	vpos := s.Pos()
	value := strings.TrimSpace(s.Until(token.DeclarationEnd))
	if value == "" {
		return false, s.Errorf("Expected to find a value for property %q", property)
	}

	d := ast.NewDeclaration(
		ast.NewRawSyntax(pos.Line, pos.Column, property),
		ast.NewRawSyntax(vpos.Line, vpos.Column, value),
		r.asRefiner(),
	)
	d.AddComments(s.FlushComments()...)
	return true, b.Broadcast(d)
}
