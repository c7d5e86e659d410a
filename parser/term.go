package parser

import (
	"strings"

	"github.com/AdamWorthington/omakase/ast"
	"github.com/AdamWorthington/omakase/broadcast"
	"github.com/AdamWorthington/omakase/scanner"
	"github.com/AdamWorthington/omakase/token"
)

// Refined value grammars. Each broadcasts the terms it reads.
var (
	// TermList parses terms separated by operators. It stops before "!".
	TermList Parser = Func(parseTermList)

	// Term parses a single term.
	Term Parser = Either(HexColorValue, NumericalValue, StringValue, URLValue, FunctionValue, KeywordValue)

	// HexColorValue parses "#fff" or "#ffffff".
	HexColorValue Parser = Func(parseHexColor)

	// NumericalValue parses a number with an optional unit.
	NumericalValue Parser = Func(parseNumerical)

	// StringValue parses a quoted string.
	StringValue Parser = Func(parseString)

	// URLValue parses "url(...)".
	URLValue Parser = Func(parseURL)

	// FunctionValue parses "name(...)". The arguments are refined later.
	FunctionValue Parser = Func(parseFunction)

	// KeywordValue parses an identifier.
	KeywordValue Parser = Func(parseKeyword)
)

func parseTermList(s *scanner.Scanner, b broadcast.Broadcaster, r *Refiner) (bool, error) {
	matched := false
	for {
		// Consume a term. One is required after an operator.
		if err := s.CollectComments(true); err != nil {
			return false, err
		}
		ok, err := Term.Parse(s, b, r)
		if err != nil {
			return false, err
		} else if !ok {
			if matched {
				return false, s.Errorf("Expected to find a value after the operator at %q", excerpt(s))
			}
			return false, nil
		}
		matched = true

		// Consume an operator, or stop.
		pos := s.Pos()
		snap := s.Snapshot()
		ws := s.Chomp(token.Whitespace) != ""
		if err := s.CollectComments(true); err != nil {
			return false, err
		}
		opos := s.Pos()

		var op *ast.Operator
		switch ch := s.Current(); {
		case ch == scanner.EOF || ch == '!' || ch == ')' || ch == ';':
		case ch == ',':
			op = ast.NewOperator(opos.Line, opos.Column, ast.Comma)
		case ch == '/':
			op = ast.NewOperator(opos.Line, opos.Column, ast.Slash)
		case ws && token.IsWhitespace(s.Peek(1)) && (ch == '+' || ch == '-' || ch == '*'):
			op = ast.NewOperator(opos.Line, opos.Column, arithmetic(ch))
		case ws:
			op = ast.NewOperator(pos.Line, pos.Column, ast.Space)
		}
		if op == nil {
			s.Rollback(snap)
			return true, nil
		}
		if op.Type != ast.Space {
			s.Next()
		}
		if err := b.Broadcast(op); err != nil {
			return false, err
		}
	}
}

func arithmetic(ch rune) ast.OperatorType {
	switch ch {
	case '+':
		return ast.Add
	case '-':
		return ast.Subtract
	}
	return ast.Multiply
}

func parseHexColor(s *scanner.Scanner, b broadcast.Broadcaster, r *Refiner) (bool, error) {
	if s.Current() != '#' {
		return false, nil
	}
	pos := s.Pos()
	s.Next()

	color := s.Chomp(token.HexDigit)
	if n := len(color); (n != 3 && n != 4 && n != 6 && n != 8) || token.IsName(s.Current()) {
		return false, s.Errorf("Expected to find a valid hex color")
	}
	return true, b.Broadcast(ast.NewHexColorValue(pos.Line, pos.Column, color))
}

func parseNumerical(s *scanner.Scanner, b broadcast.Broadcaster, r *Refiner) (bool, error) {
	pos := s.Pos()
	snap := s.Snapshot()

	var sb strings.Builder
	if ch, ok := s.Optional(token.Any(token.Plus, token.Minus)); ok {
		sb.WriteRune(ch)
	}
	sb.WriteString(s.Chomp(token.Digit))
	if s.Current() == '.' && token.IsDigit(s.Peek(1)) {
		s.Next()
		sb.WriteString("." + s.Chomp(token.Digit))
	}

	// There must be at least one digit.
	number := sb.String()
	if strings.TrimLeft(number, "+-.") == "" {
		s.Rollback(snap)
		return false, nil
	}

	var unit string
	if s.OptionallyPresent(token.Percent) {
		unit = "%"
	} else if ident, ok := s.ReadIdent(); ok {
		unit = ident
	}
	return true, b.Broadcast(ast.NewNumericalValue(pos.Line, pos.Column, number, unit))
}

func parseString(s *scanner.Scanner, b broadcast.Broadcaster, r *Refiner) (bool, error) {
	pos := s.Pos()
	q := s.Current()
	content, ok, err := s.ReadString()
	if err != nil || !ok {
		return false, err
	}
	return true, b.Broadcast(ast.NewStringValue(pos.Line, pos.Column, ast.QuoteModeOf(q), content))
}

func parseURL(s *scanner.Scanner, b broadcast.Broadcaster, r *Refiner) (bool, error) {
	pos := s.Pos()
	snap := s.Snapshot()
	if !s.ReadConstantFold("url") || s.Current() != '(' {
		s.Rollback(snap)
		return false, nil
	}

	content, err := s.ChompEnclosedValue(token.OpenParen, token.CloseParen)
	if err != nil {
		return false, err
	}

	// Remove the quotes, remembering which were used.
	url, quote := strings.TrimSpace(content), ast.QuoteNone
	if n := len(url); n >= 2 && (url[0] == '"' || url[0] == '\'') && url[n-1] == url[0] {
		url, quote = url[1:n-1], ast.QuoteModeOf(rune(url[0]))
	}
	return true, b.Broadcast(ast.NewURLValue(pos.Line, pos.Column, url, quote))
}

func parseFunction(s *scanner.Scanner, b broadcast.Broadcaster, r *Refiner) (bool, error) {
	pos := s.Pos()
	snap := s.Snapshot()
	name, ok := s.ReadIdent()
	if !ok || s.Current() != '(' {
		s.Rollback(snap)
		return false, nil
	}

	apos := s.Pos()
	args, err := s.ChompEnclosedValue(token.OpenParen, token.CloseParen)
	if err != nil {
		return false, err
	}
	raw := ast.NewRawSyntax(apos.Line, apos.Column+1, args)
	return true, b.Broadcast(ast.NewFunctionValue(pos.Line, pos.Column, name, raw, r.asRefiner()))
}

func parseKeyword(s *scanner.Scanner, b broadcast.Broadcaster, r *Refiner) (bool, error) {
	pos := s.Pos()
	keyword, ok := s.ReadIdent()
	if !ok {
		return false, nil
	}
	return true, b.Broadcast(ast.NewKeywordValue(pos.Line, pos.Column, keyword))
}
