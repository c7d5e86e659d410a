package parser

import (
	"github.com/tliron/commonlog"

	"github.com/AdamWorthington/omakase/ast"
	"github.com/AdamWorthington/omakase/broadcast"
	"github.com/AdamWorthington/omakase/scanner"
)

// log returns the package logger. It is looked up on use so that a backend
// configured after initialization applies.
func log() commonlog.Logger { return commonlog.GetLogger("omakase.parser") }

// Parser is a unit of grammar.
//
// Parse either matches, broadcasting the nodes it creates and returning
// true, or does not match and returns false. A parser that does not match
// must leave the scanner where it found it, apart from skipped whitespace and
// comments. An error means the input is malformed and the parse must stop.
type Parser interface {
	Parse(s *scanner.Scanner, b broadcast.Broadcaster, r *Refiner) (bool, error)
}

// Func adapts a function to the Parser interface.
type Func func(s *scanner.Scanner, b broadcast.Broadcaster, r *Refiner) (bool, error)

// Parse calls f(s, b, r).
func (f Func) Parse(s *scanner.Scanner, b broadcast.Broadcaster, r *Refiner) (bool, error) {
	return f(s, b, r)
}

// Sequence returns a parser running each parser in order.
//
// If the first parser does not match the sequence does not match. Once it
// has matched the input is committed to the sequence and any later parser
// that does not match is an error.
func Sequence(parsers ...Parser) Parser {
	return Func(func(s *scanner.Scanner, b broadcast.Broadcaster, r *Refiner) (bool, error) {
		for i, p := range parsers {
			ok, err := p.Parse(s, b, r)
			if err != nil {
				return false, err
			} else if !ok && i == 0 {
				return false, nil
			} else if !ok {
				return false, s.Errorf("Unexpected content in sequence at %q", excerpt(s))
			}
		}
		return true, nil
	})
}

// Either returns a parser trying each parser in order and stopping at the
// first that matches. The scanner is restored before each attempt, and when
// nothing matches or an attempt fails with an error.
func Either(parsers ...Parser) Parser {
	return Func(func(s *scanner.Scanner, b broadcast.Broadcaster, r *Refiner) (matched bool, err error) {
		snap := s.Snapshot()
		defer func() {
			if !matched {
				s.Rollback(snap)
			}
		}()

		for _, p := range parsers {
			if matched, err = p.Parse(s, b, r); err != nil || matched {
				return matched, err
			}
			s.Rollback(snap)
		}
		return false, nil
	})
}

// Optional returns a parser that always matches, whether or not p does.
func Optional(p Parser) Parser {
	return Func(func(s *scanner.Scanner, b broadcast.Broadcaster, r *Refiner) (bool, error) {
		if _, err := p.Parse(s, b, r); err != nil {
			return false, err
		}
		return true, nil
	})
}

// excerpt returns a short piece of the remaining input for error messages.
func excerpt(s *scanner.Scanner) string {
	rem := []rune(s.Remaining())
	if len(rem) > 20 {
		return string(rem[:20]) + "..."
	}
	return string(rem)
}

// collector attaches nodes of type T to a group before relaying them.
// Nodes already in the group are relayed as-is.
type collector[T ast.Member] struct {
	group *ast.Group[T]
	relay broadcast.Broadcaster
}

// collect returns a broadcaster appending nodes of type T to g.
func collect[T ast.Member](g *ast.Group[T], relay broadcast.Broadcaster) *collector[T] {
	return &collector[T]{group: g, relay: relay}
}

func (c *collector[T]) Broadcast(n ast.Node) error {
	c.adopt(n)
	return c.relay.Broadcast(n)
}

func (c *collector[T]) adopt(n ast.Node) {
	if m, ok := n.(T); ok && !c.group.Contains(m) {
		c.group.Append(m)
	}
}

// adopter is implemented by broadcasters that attach nodes to the tree.
type adopter interface {
	adopt(n ast.Node)
}

// adopt attaches n to the tree without broadcasting it. Parsers use it for
// containers whose children are broadcast before the container itself, so
// that the children see their full ancestry.
func adopt(b broadcast.Broadcaster, n ast.Node) {
	if a, ok := b.(adopter); ok {
		a.adopt(n)
	}
}
