package prefixer

import (
	"github.com/AdamWorthington/omakase/ast"
	"github.com/AdamWorthington/omakase/broadcast"
	"github.com/AdamWorthington/omakase/data"
	"github.com/AdamWorthington/omakase/plugin"
)

// PrefixCleaner removes prefixed declarations that are not needed.
//
// Inside of a prefixed at-rule, such as "@-webkit-keyframes", declarations
// with a different prefix are removed. When a Prefixer is registered,
// prefixed declarations in rules are also removed if the Prefixer's browser
// support does not need them and the unprefixed declaration is present.
//
// It must be registered after the Prefixer.
type PrefixCleaner struct {
	support *data.SupportMatrix
}

// NewPrefixCleaner returns a new PrefixCleaner.
func NewPrefixCleaner() *PrefixCleaner { return &PrefixCleaner{} }

// Dependencies implements plugin.DependentPlugin.
func (c *PrefixCleaner) Dependencies(r *plugin.Registry) error {
	if p, ok := plugin.Retrieve[*Prefixer](r); ok {
		c.support = p.Support()
	}
	ar, err := plugin.Require(r, plugin.NewAutoRefiner)
	if err != nil {
		return err
	}
	ar.Declarations().AtRules()
	return nil
}

// Subscribe implements plugin.Plugin.
func (c *PrefixCleaner) Subscribe(e *broadcast.Emitter) {
	broadcast.On(e, broadcast.PhaseRework, c, "PrefixCleaner.rule", c.rule)
	broadcast.On(e, broadcast.PhaseRework, c, "PrefixCleaner.atRule", c.atRule)
}

func (c *PrefixCleaner) rule(r *ast.Rule) error {
	if c.support == nil {
		return nil
	}

	unprefixed := make(map[string]bool)
	for d := range r.Declarations().All() {
		if d.IsRefined() && !d.IsPrefixed() {
			unprefixed[d.PropertyName().Name] = true
		}
	}
	for d := range r.Declarations().All() {
		name := d.PropertyName()
		if !d.IsPrefixed() || !unprefixed[name.Name] || !data.HasProperty(name.Name) {
			continue
		}
		if !c.support.RequiresPrefix(name.Name, data.Prefix(name.Prefix)) {
			log().Debugf("removed unneeded %s", name)
			d.Detach()
		}
	}
	return nil
}

// atRule cleans a prefixed at-rule along with its prefixed siblings of the
// same name, which the Prefixer may have inserted before it.
func (c *PrefixCleaner) atRule(a *ast.AtRule) error {
	if !a.IsRefined() {
		return nil
	}
	cleanAtRule(a)
	if g := ast.GroupOf[ast.Statement](a); g != nil {
		for s := range g.All() {
			if o, ok := s.(*ast.AtRule); ok && o != a && o.IsRefined() && o.UnprefixedName() == a.UnprefixedName() {
				cleanAtRule(o)
			}
		}
	}
	return nil
}

// cleanAtRule removes the declarations nested in a whose prefix differs from
// the at-rule's.
func cleanAtRule(a *ast.AtRule) {
	prefix, _ := ast.SplitPrefix(a.Name())
	if prefix == "" {
		return
	}
	_ = ast.Walk(a, func(n ast.Node) error {
		if d, ok := n.(*ast.Declaration); ok && d.IsPrefixed() && d.PropertyName().Prefix != prefix {
			d.Detach()
		}
		return nil
	})
}
