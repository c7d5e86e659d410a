package plugin

import (
	"github.com/AdamWorthington/omakase/ast"
	"github.com/AdamWorthington/omakase/broadcast"
)

// StandardValidation enables the standard validators.
type StandardValidation struct{}

// Subscribe implements Plugin. The validators subscribe themselves.
func (StandardValidation) Subscribe(e *broadcast.Emitter) {}

// Dependencies implements DependentPlugin.
func (StandardValidation) Dependencies(r *Registry) error {
	if _, err := Require(r, func() *PseudoElementValidator { return &PseudoElementValidator{} }); err != nil {
		return err
	}
	_, err := Require(r, func() *DuplicatePropertyValidator { return &DuplicatePropertyValidator{} })
	return err
}

// PseudoElementValidator reports pseudo element selectors that are not the
// last part of their compound selector, as in "p::before.class".
type PseudoElementValidator struct{}

// Dependencies implements DependentPlugin. Selectors must be refined for
// their parts to be validated.
func (v *PseudoElementValidator) Dependencies(r *Registry) error {
	ar, err := Require(r, NewAutoRefiner)
	if err != nil {
		return err
	}
	ar.Selectors()
	return nil
}

// Subscribe implements Plugin.
func (v *PseudoElementValidator) Subscribe(e *broadcast.Emitter) {
	broadcast.OnValidate(e, v, "PseudoElementValidator.validate", v.validate)
}

func (v *PseudoElementValidator) validate(p *ast.PseudoElementSelector, em *broadcast.ErrorManager) error {
	g := ast.GroupOf[ast.SelectorPart](p)
	if g == nil {
		return nil
	}
	if run := g.Adjoining(p); len(run) > 0 && run[len(run)-1] != ast.SelectorPart(p) {
		em.Report(p, "pseudo element ::%s must be the last part of the compound selector", p.Name)
	}
	return nil
}

// DuplicatePropertyValidator warns about declarations repeated verbatim
// within a rule. Repeating a property with a different value is a common
// fallback technique and is not reported.
type DuplicatePropertyValidator struct{}

// Subscribe implements Plugin.
func (v *DuplicatePropertyValidator) Subscribe(e *broadcast.Emitter) {
	broadcast.OnValidate(e, v, "DuplicatePropertyValidator.validate", v.validate)
}

func (v *DuplicatePropertyValidator) validate(r *ast.Rule, em *broadcast.ErrorManager) error {
	type key struct{ property, value string }
	seen := make(map[key]bool)
	for d := range r.Declarations().All() {
		raw := d.RawValue()
		if raw == nil {
			continue
		}
		k := key{d.PropertyName().String(), raw.Content}
		if seen[k] {
			em.Warn(d, "duplicate declaration %s:%s", k.property, k.value)
		}
		seen[k] = true
	}
	return nil
}
