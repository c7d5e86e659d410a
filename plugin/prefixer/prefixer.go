// Package prefixer adds the vendor-prefixed equivalents of properties,
// functions, at-rules and pseudo elements required by a set of browsers.
package prefixer

import (
	"fmt"

	"github.com/AdamWorthington/omakase/ast"
	"github.com/AdamWorthington/omakase/broadcast"
	"github.com/AdamWorthington/omakase/data"
	"github.com/AdamWorthington/omakase/plugin"
	"github.com/tliron/commonlog"
)

// log returns the package logger. It is looked up on use so that a backend
// configured after initialization applies.
func log() commonlog.Logger { return commonlog.GetLogger("omakase.prefixer") }

// Prefixer inserts prefixed copies of nodes before the unprefixed original
// during the rework phase. Only refined nodes without a prefix are
// considered. It requires an AutoRefiner and registers one when needed.
type Prefixer struct {
	support *data.SupportMatrix

	// Rearrange moves existing prefixed equivalents before the unprefixed
	// original instead of leaving them where they are.
	Rearrange bool

	// Prune removes existing prefixed equivalents whose prefix is not
	// required by the supported browsers.
	Prune bool
}

// Default returns a Prefixer supporting IE 7 and later, the latest versions
// of Safari, IE Mobile and Opera Mini, the last 5 versions of Firefox and
// Chrome, the last 4 versions of iOS Safari and the last 3 versions of the
// Android browser.
func Default() *Prefixer {
	m := data.NewSupportMatrix().
		Last(data.IOSSafari, 4).
		Last(data.Firefox, 5).
		Last(data.Android, 3).
		Last(data.Chrome, 5).
		Browser(data.IE, "7").
		Browser(data.IE, "8").
		Browser(data.IE, "9").
		Browser(data.IE, "10").
		Browser(data.IE, "11").
		Latest(data.Safari).
		Latest(data.IEMobile).
		Latest(data.OperaMini)
	return Custom(m)
}

// Custom returns a Prefixer supporting the browsers of m. A nil matrix
// supports nothing until versions are added through Support.
func Custom(m *data.SupportMatrix) *Prefixer {
	if m == nil {
		m = data.NewSupportMatrix()
	}
	return &Prefixer{support: m}
}

// Support returns the supported browsers.
func (p *Prefixer) Support() *data.SupportMatrix { return p.support }

// Dependencies implements plugin.DependentPlugin.
func (p *Prefixer) Dependencies(r *plugin.Registry) error {
	if _, ok := plugin.Retrieve[*PrefixCleaner](r); ok {
		return &plugin.ConfigurationError{Message: "The PrefixCleaner plugin should be registered AFTER the Prefixer plugin"}
	}
	if err := p.support.Err(); err != nil {
		return &plugin.ConfigurationError{Message: fmt.Sprintf("Prefixer browser support: %s", err)}
	}

	ar, err := plugin.Require(r, plugin.NewAutoRefiner)
	if err != nil {
		return err
	}
	ar.Selectors().Declarations().AtRules().Functions()
	return nil
}

// Subscribe implements plugin.Plugin.
func (p *Prefixer) Subscribe(e *broadcast.Emitter) {
	broadcast.On(e, broadcast.PhaseRework, p, "Prefixer.rule", p.rule)
	broadcast.On(e, broadcast.PhaseRework, p, "Prefixer.atRule", p.atRule)
}

// declarations prefixes each declaration of g. It runs once the whole block
// has been parsed so that prefixed equivalents written after the unprefixed
// declaration are found.
func (p *Prefixer) declarations(g *ast.Group[*ast.Declaration]) {
	for _, d := range g.Slice() {
		p.declaration(d)
	}
}

// declaration runs the declaration handlers in order until one of them
// claims the declaration.
func (p *Prefixer) declaration(d *ast.Declaration) {
	if !d.IsRefined() || d.IsPrefixed() || d.Value() == nil || !d.Attached() {
		return
	}
	for _, h := range []func(*ast.Declaration) bool{p.transition, p.property, p.functions} {
		if h(d) {
			return
		}
	}
}

// property handles declarations whose property name needs a prefix.
func (p *Prefixer) property(d *ast.Declaration) bool {
	name := d.PropertyName().Name
	if !data.HasProperty(name) {
		return false
	}

	g := d.Siblings()
	equivalents := prefixedEquivalents(d)
	required := p.support.PrefixesForProperty(name)
	for _, prefix := range required {
		if eq := equivalents[prefix]; eq != nil {
			if p.Rearrange {
				g.InsertBefore(d, eq)
			}
			continue
		}
		c := d.Copy()
		c.SetPropertyName(d.PropertyName().WithPrefix(string(prefix)))
		g.InsertBefore(d, c)
		log().Debugf("added %s", c.PropertyName())
	}
	prune(p.Prune, equivalents, required)
	return true
}

// transition handles transition declarations, whose value may name
// properties that need a prefix themselves.
func (p *Prefixer) transition(d *ast.Declaration) bool {
	name := d.PropertyName().Name
	if name != "transition" && name != "transition-property" {
		return false
	}

	g := d.Siblings()
	equivalents := prefixedEquivalents(d)
	own := p.support.PrefixesForProperty(name)
	required := merge(own, keywordPrefixes(d, p.support))
	for _, prefix := range required {
		prefixProperty := contains(own, prefix)
		if eq := equivalents[prefix]; eq != nil && prefixProperty {
			if p.Rearrange {
				g.InsertBefore(d, eq)
			}
			continue
		}

		c := d.Copy()
		if prefixProperty {
			c.SetPropertyName(d.PropertyName().WithPrefix(string(prefix)))
		}
		for t := range c.Value().Terms().All() {
			if k, ok := t.(*ast.KeywordValue); ok && p.support.RequiresPrefix(ast.Lower(k.Keyword), prefix) {
				k.Keyword = string(prefix) + k.Keyword
			}
		}
		g.InsertBefore(d, c)
	}
	prune(p.Prune, equivalents, own)
	return true
}

// functions handles declarations whose value contains functions that need
// a prefix, such as calc() or linear-gradient().
func (p *Prefixer) functions(d *ast.Declaration) bool {
	var required []data.Prefix
	for t := range d.Value().Terms().All() {
		if f, ok := t.(*ast.FunctionValue); ok && !f.IsPrefixed() && data.HasFunction(ast.Lower(f.Name)) {
			required = merge(required, p.support.PrefixesForFunction(ast.Lower(f.Name)))
		}
	}
	if required == nil {
		return false
	}

	g := d.Siblings()
	equivalents := functionEquivalents(d)
	for _, prefix := range required {
		if eq := equivalents[prefix]; eq != nil {
			if p.Rearrange {
				g.InsertBefore(d, eq)
			}
			continue
		}

		c := d.Copy()
		for t := range c.Value().Terms().All() {
			f, ok := t.(*ast.FunctionValue)
			if !ok || f.IsPrefixed() || !contains(p.support.PrefixesForFunction(ast.Lower(f.Name)), prefix) {
				continue
			}
			if isGradient(f.Name) {
				legacyGradient(f)
			}
			f.Name = string(prefix) + f.Name
		}
		g.InsertBefore(d, c)
	}
	prune(p.Prune, equivalents, required)
	return true
}

// atRule handles the declarations of at-rules such as "@page" and the
// at-rules that are prefixed themselves, such as "@keyframes".
func (p *Prefixer) atRule(a *ast.AtRule) error {
	if !a.IsRefined() {
		return nil
	}
	p.declarations(a.Declarations())
	if a.IsPrefixed() || !data.HasAtRule(ast.Lower(a.Name())) {
		return nil
	}
	g := ast.GroupOf[ast.Statement](a)
	if g == nil {
		return nil
	}

	equivalents := make(map[data.Prefix]ast.Statement)
	for s := range g.All() {
		if o, ok := s.(*ast.AtRule); ok && o.IsPrefixed() && o.UnprefixedName() == a.Name() && o.Expression() == a.Expression() {
			prefix, _ := ast.SplitPrefix(o.Name())
			equivalents[data.Prefix(prefix)] = o
		}
	}

	required := p.support.PrefixesForAtRule(a.Name())
	for _, prefix := range required {
		if eq := equivalents[prefix]; eq != nil {
			if p.Rearrange {
				g.InsertBefore(a, eq)
			}
			continue
		}
		c := a.Copy()
		c.SetName(string(prefix) + a.Name())
		g.InsertBefore(a, c)
	}
	prune(p.Prune, equivalents, required)
	return nil
}

// rule handles the declarations of r, then its pseudo element selectors. A
// browser drops a whole rule when it does not understand one of its
// selectors, so each prefix of a pseudo element gets a rule of its own.
func (p *Prefixer) rule(r *ast.Rule) error {
	p.declarations(r.Declarations())

	g := ast.GroupOf[ast.Statement](r)
	if g == nil {
		return nil
	}

	var required []data.Prefix
	for sel := range r.Selectors().All() {
		for _, name := range pseudoElements(sel) {
			required = merge(required, p.support.PrefixesForSelector(name))
		}
	}

	for _, prefix := range required {
		c := r.Copy()
		for sel := range c.Selectors().All() {
			changed := false
			for part := range sel.Parts().All() {
				if pe, ok := part.(*ast.PseudoElementSelector); ok && !pe.IsPrefixed() && contains(p.support.PrefixesForSelector(ast.Lower(pe.Name)), prefix) {
					pe.Name = string(prefix) + pe.Name
					changed = true
				}
			}
			if !changed {
				c.Selectors().Remove(sel)
			}
		}
		g.InsertBefore(r, c)
	}
	return nil
}

// prune removes the equivalents whose prefix is not required, when enabled.
func prune[T ast.Member](enabled bool, equivalents map[data.Prefix]T, required []data.Prefix) {
	if !enabled {
		return
	}
	for prefix, m := range equivalents {
		if !contains(required, prefix) {
			log().Debugf("pruned %s equivalent", prefix)
			m.Detach()
		}
	}
}
