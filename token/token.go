package token

import (
	"fmt"
	"strings"
)

// Token represents a matcher over a single code point.
//
// Tokens are stateless and shared. The description is used in error messages
// when a token was expected but not found.
type Token interface {
	Matches(ch rune) bool
	Description() string
}

// EOF is the sentinel returned when reading past either end of the input.
const EOF rune = -1

// Char matches exactly one code point.
type Char struct {
	Value rune
	Desc  string
}

// Matches returns true if ch equals the token's value.
func (t Char) Matches(ch rune) bool { return ch == t.Value }

// Description returns the human-readable name of the token.
func (t Char) Description() string {
	if t.Desc == "" {
		return fmt.Sprintf("'%c'", t.Value)
	}
	return t.Desc
}

// Class matches any code point accepted by a classification function.
type Class struct {
	Fn   func(ch rune) bool
	Desc string
}

// Matches returns true if the classification function accepts ch.
func (t Class) Matches(ch rune) bool { return ch != EOF && t.Fn(ch) }

// Description returns the human-readable name of the token.
func (t Class) Description() string { return t.Desc }

// anyOf matches when any of its members match.
type anyOf []Token

func (a anyOf) Matches(ch rune) bool {
	for _, t := range a {
		if t.Matches(ch) {
			return true
		}
	}
	return false
}

func (a anyOf) Description() string {
	descs := make([]string, len(a))
	for i, t := range a {
		descs[i] = t.Description()
	}
	return strings.Join(descs, " or ")
}

// Any returns a token that matches if any of the given tokens match.
func Any(tokens ...Token) Token { return anyOf(tokens) }

type not struct{ t Token }

func (n not) Matches(ch rune) bool { return ch != EOF && !n.t.Matches(ch) }
func (n not) Description() string  { return "anything but " + n.t.Description() }

// Not returns a token that matches any code point the given token does not.
func Not(t Token) Token { return not{t} }

// Single character tokens.
var (
	OpenParen    = Char{'(', "opening parenthesis '('"}
	CloseParen   = Char{')', "parenthesis ')'"}
	OpenBrace    = Char{'{', "opening brace '{'"}
	CloseBrace   = Char{'}', "brace '}'"}
	OpenBracket  = Char{'[', "opening bracket '['"}
	CloseBracket = Char{']', "bracket ']'"}
	Colon        = Char{':', "colon ':'"}
	Semicolon    = Char{';', "semicolon ';'"}
	Comma        = Char{',', "comma ','"}
	Dot          = Char{'.', "dot '.'"}
	Hash         = Char{'#', "hash '#'"}
	Star         = Char{'*', "star '*'"}
	At           = Char{'@', "at sign '@'"}
	Plus         = Char{'+', "plus '+'"}
	Minus        = Char{'-', "minus '-'"}
	Greater      = Char{'>', "greater than '>'"}
	Tilde        = Char{'~', "tilde '~'"}
	Slash        = Char{'/', "forward slash '/'"}
	Bang         = Char{'!', "exclamation mark '!'"}
	Percent      = Char{'%', "percent '%'"}
	Equals       = Char{'=', "equals '='"}
	Backslash    = Char{'\\', "backslash '\\'"}
	DoubleQuote  = Char{'"', "double quote '\"'"}
	SingleQuote  = Char{'\'', "single quote \"'\""}
)

// Classification tokens.
var (
	Whitespace = Class{IsWhitespace, "whitespace"}
	Digit      = Class{IsDigit, "digit"}
	HexDigit   = Class{IsHexDigit, "hex digit"}
	Letter     = Class{IsLetter, "letter"}
	NameStart  = Class{IsNameStart, "name start character"}
	Name       = Class{IsName, "name character"}
)

// Composite tokens used by the grammars.
var (
	Quote            = Any(DoubleQuote, SingleQuote)
	SelectorEnd      = Any(Comma, OpenBrace)
	DeclarationEnd   = Any(Semicolon, CloseBrace)
	AtRuleEnd        = Any(Semicolon, OpenBrace)
	CombinatorSymbol = Any(Greater, Plus, Tilde)
	Operator         = Any(Comma, Slash)

	// SelectorBegin matches any character that can start a selector.
	SelectorBegin = Class{func(ch rune) bool {
		return IsNameStart(ch) || strings.ContainsRune(".#*:[-\\>+~%", ch) || IsDigit(ch)
	}, "selector"}

	// DeclarationBegin matches any character that can start a property name.
	DeclarationBegin = Class{func(ch rune) bool {
		return IsNameStart(ch) || ch == '-' || ch == '*' || ch == '\\'
	}, "property name"}
)

// IsWhitespace returns true if the rune is a space, tab, carriage return or newline.
func IsWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f'
}

// IsLetter returns true if the rune is an ASCII letter.
func IsLetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// IsDigit returns true if the rune is a digit.
func IsDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9')
}

// IsHexDigit returns true if the rune is a hex digit.
func IsHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// IsNonASCII returns true if the rune is greater than U+0080.
func IsNonASCII(ch rune) bool {
	return ch >= '\u0080'
}

// IsNameStart returns true if the rune can start a name.
func IsNameStart(ch rune) bool {
	return IsLetter(ch) || IsNonASCII(ch) || ch == '_'
}

// IsName returns true if the character is a name code point.
func IsName(ch rune) bool {
	return IsNameStart(ch) || IsDigit(ch) || ch == '-'
}

// Pos specifies the line and column in the source document. Both are 1-based.
type Pos struct {
	Line   int
	Column int
}

// IsValid returns true if the position refers to a real source location.
func (p Pos) IsValid() bool { return p.Line > 0 && p.Column > 0 }

// String returns "line:column".
func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
