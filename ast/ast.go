package ast

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AdamWorthington/omakase/token"
)

// Node represents a node in the CSS syntax tree.
//
// The set of nodes is closed. Code that needs to branch on the kind of a node
// should switch on Kind().
type Node interface {
	Kind() Kind
	Line() int
	Column() int
	Pos() token.Pos
	HasPosition() bool
	Comments() []string
	AddComments(comments ...string)
	node()
}

func (_ *Stylesheet) node()            {}
func (_ *Rule) node()                  {}
func (_ *AtRule) node()                {}
func (_ *Selector) node()              {}
func (_ *Declaration) node()           {}
func (_ *ClassSelector) node()         {}
func (_ *IDSelector) node()            {}
func (_ *TypeSelector) node()          {}
func (_ *UniversalSelector) node()     {}
func (_ *PseudoClassSelector) node()   {}
func (_ *PseudoElementSelector) node() {}
func (_ *AttributeSelector) node()     {}
func (_ *Combinator) node()            {}
func (_ *KeyframeSelector) node()      {}
func (_ *PropertyValue) node()         {}
func (_ *KeywordValue) node()          {}
func (_ *NumericalValue) node()        {}
func (_ *StringValue) node()           {}
func (_ *HexColorValue) node()         {}
func (_ *FunctionValue) node()         {}
func (_ *URLValue) node()              {}
func (_ *Operator) node()              {}

// Refinable is implemented by nodes that hold raw content which can be
// expanded into a structured sub-tree on demand.
type Refinable interface {
	Node
	IsRefined() bool
	Refine() error
}

// Refiner expands the raw content of refinable nodes.
//
// Implementations populate the node's children through the node's exported
// mutators. The node itself takes care of idempotence.
type Refiner interface {
	RefineSelector(s *Selector) error
	RefineDeclaration(d *Declaration) error
	RefineAtRule(r *AtRule) error
	RefineFunction(f *FunctionValue) error
}

// ErrNoRefiner is returned when refining a raw node that was created
// without a refiner.
var ErrNoRefiner = errors.New("ast: node has raw content but no refiner")

// RawSyntax is an unparsed fragment of source text together with the
// position of its first character in the enclosing document.
type RawSyntax struct {
	Line    int
	Column  int
	Content string
}

// NewRawSyntax returns a new raw fragment.
func NewRawSyntax(line, column int, content string) *RawSyntax {
	return &RawSyntax{Line: line, Column: column, Content: content}
}

// String returns the raw content.
func (r *RawSyntax) String() string {
	if r == nil {
		return ""
	}
	return r.Content
}

// syntax holds the fields shared by every node.
type syntax struct {
	line     int
	column   int
	comments []string
}

func at(line, column int) syntax {
	if line < 1 || column < 1 {
		return syntax{}
	}
	return syntax{line: line, column: column}
}

// Line returns the 1-based line where the node starts, or 0 when the node
// was not created from source text.
func (s *syntax) Line() int { return s.line }

// Column returns the 1-based column where the node starts, or 0 when the
// node was not created from source text.
func (s *syntax) Column() int { return s.column }

// Pos returns the position of the node.
func (s *syntax) Pos() token.Pos { return token.Pos{Line: s.line, Column: s.column} }

// HasPosition returns true if the node was created from source text.
func (s *syntax) HasPosition() bool { return s.line > 0 }

// Comments returns the comments preceding the node.
func (s *syntax) Comments() []string { return s.comments }

// AddComments appends comments to the node.
func (s *syntax) AddComments(comments ...string) {
	s.comments = append(s.comments, comments...)
}

// Lower returns s in lower case.
func Lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// Prefixes lists the vendor prefixes recognized in names.
var Prefixes = []string{"-webkit-", "-moz-", "-ms-", "-o-"}

// SplitPrefix splits a leading vendor prefix from name.
func SplitPrefix(name string) (prefix, unprefixed string) {
	for _, p := range Prefixes {
		if len(name) > len(p) && strings.EqualFold(name[:len(p)], p) {
			return Lower(p), name[len(p):]
		}
	}
	return "", name
}

// QuoteMode describes how a string or url was quoted in the source.
type QuoteMode int

const (
	QuoteNone QuoteMode = iota
	QuoteSingle
	QuoteDouble
)

// QuoteModeOf returns the quote mode for a quote character.
func QuoteModeOf(ch rune) QuoteMode {
	switch ch {
	case '\'':
		return QuoteSingle
	case '"':
		return QuoteDouble
	}
	return QuoteNone
}

// Char returns the quote character, or zero for QuoteNone.
func (q QuoteMode) Char() string {
	switch q {
	case QuoteSingle:
		return "'"
	case QuoteDouble:
		return `"`
	}
	return ""
}
