package broadcast

import (
	"errors"
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/AdamWorthington/omakase/ast"
)

// log returns the package logger. It is looked up on use so that a backend
// configured after initialization applies.
func log() commonlog.Logger { return commonlog.GetLogger("omakase.broadcast") }

// Phase is a stage of processing that subscriptions attach to.
type Phase uint8

const (
	// PhaseRefine is for subscribers that refine nodes as soon as they are
	// created, ahead of all other subscribers.
	PhaseRefine Phase = iota
	// PhaseCreate is for subscribers observing newly created nodes.
	PhaseCreate
	// PhaseRework is for subscribers changing the tree.
	PhaseRework
	// PhaseValidate is for subscribers reporting problems through an
	// ErrorManager. It runs over the finished tree.
	PhaseValidate

	numPhases
)

// ParsePhases are the phases delivered, in order, while parsing.
var ParsePhases = []Phase{PhaseRefine, PhaseCreate, PhaseRework}

// String returns the name of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseRefine:
		return "refine"
	case PhaseCreate:
		return "create"
	case PhaseRework:
		return "rework"
	case PhaseValidate:
		return "validate"
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

// Subscription binds a subscriber's callback to a phase and to the node
// kinds it accepts.
type Subscription struct {
	Phase Phase
	Seq   uint64
	Name  string

	subscriber any
	kinds      []ast.Kind
	call       func(n ast.Node, em *ErrorManager) error
}

// Kinds returns the node kinds the subscription accepts.
func (s *Subscription) Kinds() []ast.Kind { return s.kinds }

// same returns true if s was registered by the same subscriber for the same
// callback and phase.
func (s *Subscription) same(subscriber any, name string, phase Phase) bool {
	return s.subscriber == subscriber && s.Name == name && s.Phase == phase
}

func (s *Subscription) invoke(n ast.Node, em *ErrorManager) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &SubscriptionError{Name: s.Name, Phase: s.Phase, Kind: n.Kind(), Line: n.Line(), Column: n.Column(), Cause: r}
			log().Errorf("%s", err)
		}
	}()
	return s.call(n, em)
}

// Emitter holds subscriptions and delivers nodes to them.
//
// Subscriptions are resolved against every node kind when registered, so
// delivery is a table lookup. Registration happens before processing; once
// the emitter is sealed the table is read-only.
type Emitter struct {
	seq    uint64
	subs   []*Subscription
	table  [numPhases][][]*Subscription
	sealed bool
	err    error
}

// NewEmitter returns a new instance of Emitter.
func NewEmitter() *Emitter {
	e := &Emitter{}
	for p := range e.table {
		e.table[p] = make([][]*Subscription, len(ast.Kinds()))
	}
	return e
}

// On subscribes fn to nodes assignable to T during phase.
//
// T may be a concrete node type or an interface such as ast.Refinable. The
// subscriber identifies the owner of the callback and must be comparable,
// typically a pointer. Registering the same subscriber, name and phase again
// does nothing.
func On[T ast.Node](e *Emitter, phase Phase, subscriber any, name string, fn func(T) error) {
	register[T](e, phase, subscriber, name, func(n ast.Node, _ *ErrorManager) error {
		return fn(n.(T))
	})
}

// OnValidate subscribes fn to nodes assignable to T during the validation
// phase. Problems should be reported to the error manager.
func OnValidate[T ast.Node](e *Emitter, subscriber any, name string, fn func(T, *ErrorManager) error) {
	register[T](e, PhaseValidate, subscriber, name, func(n ast.Node, em *ErrorManager) error {
		return fn(n.(T), em)
	})
}

func register[T ast.Node](e *Emitter, phase Phase, subscriber any, name string, call func(ast.Node, *ErrorManager) error) {
	if e.sealed {
		e.err = errors.Join(e.err, fmt.Errorf("broadcast: %s subscribed to %s after registration was sealed", name, phase))
		return
	}
	if phase >= numPhases {
		e.err = errors.Join(e.err, fmt.Errorf("broadcast: %s subscribed to unknown %s", name, phase))
		return
	}
	for _, s := range e.subs {
		if s.same(subscriber, name, phase) {
			return
		}
	}

	var kinds []ast.Kind
	for _, k := range ast.Kinds() {
		if _, ok := ast.Exemplar(k).(T); ok {
			kinds = append(kinds, k)
		}
	}

	e.seq++
	s := &Subscription{Phase: phase, Seq: e.seq, Name: name, subscriber: subscriber, kinds: kinds, call: call}
	e.subs = append(e.subs, s)
	for _, k := range kinds {
		e.table[phase][k] = append(e.table[phase][k], s)
	}
	log().Debugf("subscribed %s to %s for %d kinds (seq %d)", name, phase, len(kinds), s.Seq)
}

// Seal ends registration.
func (e *Emitter) Seal() { e.sealed = true }

// Err returns any error recorded during registration.
func (e *Emitter) Err() error { return e.err }

// Subscriptions returns all subscriptions in registration order.
func (e *Emitter) Subscriptions() []*Subscription { return e.subs }

// Subscribers returns the subscriptions that receive n during phase, in
// delivery order.
func (e *Emitter) Subscribers(phase Phase, k ast.Kind) []*Subscription {
	if phase >= numPhases || int(k) >= len(e.table[phase]) {
		return nil
	}
	return e.table[phase][k]
}

// Emit delivers n to every subscription of phase that accepts it, in
// ascending sequence order. It stops at the first error.
func (e *Emitter) Emit(phase Phase, n ast.Node, em *ErrorManager) error {
	for _, s := range e.Subscribers(phase, n.Kind()) {
		if err := s.invoke(n, em); err != nil {
			return err
		}
	}
	return nil
}
