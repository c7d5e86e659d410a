package plugin

import (
	"github.com/AdamWorthington/omakase/ast"
	"github.com/AdamWorthington/omakase/broadcast"
)

// AutoRefiner refines nodes as soon as they are broadcast, so that plugins
// subscribed to later phases see their full structure.
type AutoRefiner struct {
	all   bool
	kinds map[ast.Kind]bool
}

// NewAutoRefiner returns an AutoRefiner that refines nothing until told to.
func NewAutoRefiner() *AutoRefiner {
	return &AutoRefiner{kinds: make(map[ast.Kind]bool)}
}

// All refines every refinable node.
func (a *AutoRefiner) All() *AutoRefiner {
	a.all = true
	return a
}

// Selectors refines selectors.
func (a *AutoRefiner) Selectors() *AutoRefiner { return a.Include(ast.KindSelector) }

// Declarations refines declarations.
func (a *AutoRefiner) Declarations() *AutoRefiner { return a.Include(ast.KindDeclaration) }

// AtRules refines at-rules.
func (a *AutoRefiner) AtRules() *AutoRefiner { return a.Include(ast.KindAtRule) }

// Functions refines function arguments.
func (a *AutoRefiner) Functions() *AutoRefiner { return a.Include(ast.KindFunctionValue) }

// Include refines nodes of kind k.
func (a *AutoRefiner) Include(k ast.Kind) *AutoRefiner {
	a.kinds[k] = true
	return a
}

// Refines returns true if nodes of kind k are refined.
func (a *AutoRefiner) Refines(k ast.Kind) bool {
	return a.all || a.kinds[k]
}

// Subscribe implements Plugin.
func (a *AutoRefiner) Subscribe(e *broadcast.Emitter) {
	broadcast.On(e, broadcast.PhaseRefine, a, "AutoRefiner.refine", a.refine)
}

func (a *AutoRefiner) refine(n ast.Refinable) error {
	if !a.Refines(n.Kind()) {
		return nil
	}
	return n.Refine()
}
