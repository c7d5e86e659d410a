package broadcast

import (
	"github.com/AdamWorthington/omakase/ast"
)

// Broadcaster receives newly created nodes.
//
// Broadcast is synchronous. It does not return until every subscriber, and
// every broadcast those subscribers cause, has finished.
type Broadcaster interface {
	Broadcast(n ast.Node) error
}

// Func adapts a function to the Broadcaster interface.
type Func func(n ast.Node) error

// Broadcast calls f(n).
func (f Func) Broadcast(n ast.Node) error { return f(n) }

// Discard is a Broadcaster that drops every node.
var Discard Broadcaster = Func(func(ast.Node) error { return nil })

// EmittingBroadcaster delivers nodes to an emitter's subscriptions for a
// fixed list of phases.
type EmittingBroadcaster struct {
	emitter *Emitter
	phases  []Phase
	errors  *ErrorManager
}

// NewEmittingBroadcaster returns a broadcaster delivering the given phases in
// order. With no phases the parse phases are used.
func NewEmittingBroadcaster(e *Emitter, phases ...Phase) *EmittingBroadcaster {
	if len(phases) == 0 {
		phases = ParsePhases
	}
	return &EmittingBroadcaster{emitter: e, phases: phases}
}

// WithErrorManager sets the error manager passed to validation callbacks.
func (b *EmittingBroadcaster) WithErrorManager(em *ErrorManager) *EmittingBroadcaster {
	b.errors = em
	return b
}

// Phases returns the phases delivered by b.
func (b *EmittingBroadcaster) Phases() []Phase { return b.phases }

// Broadcast delivers n to each active phase in turn.
func (b *EmittingBroadcaster) Broadcast(n ast.Node) error {
	for _, p := range b.phases {
		if err := b.emitter.Emit(p, n, b.errors); err != nil {
			return err
		}
	}
	return nil
}

// QueryableBroadcaster records every node it receives and optionally relays
// them to another broadcaster.
type QueryableBroadcaster struct {
	relay Broadcaster
	nodes []ast.Node
}

// NewQueryableBroadcaster returns a recording broadcaster. relay may be nil.
func NewQueryableBroadcaster(relay Broadcaster) *QueryableBroadcaster {
	return &QueryableBroadcaster{relay: relay}
}

// Broadcast records n and relays it.
func (b *QueryableBroadcaster) Broadcast(n ast.Node) error {
	b.nodes = append(b.nodes, n)
	if b.relay != nil {
		return b.relay.Broadcast(n)
	}
	return nil
}

// All returns the recorded nodes in broadcast order.
func (b *QueryableBroadcaster) All() []ast.Node { return b.nodes }

// Len returns the number of recorded nodes.
func (b *QueryableBroadcaster) Len() int { return len(b.nodes) }

// Reset forgets the recorded nodes.
func (b *QueryableBroadcaster) Reset() { b.nodes = nil }

// Filter returns the recorded nodes assignable to T.
func Filter[T ast.Node](b *QueryableBroadcaster) []T {
	var a []T
	for _, n := range b.nodes {
		if v, ok := n.(T); ok {
			a = append(a, v)
		}
	}
	return a
}

// CountingBroadcaster counts nodes by kind and relays them.
type CountingBroadcaster struct {
	relay  Broadcaster
	counts map[ast.Kind]int
	total  int
}

// NewCountingBroadcaster returns a counting broadcaster. relay may be nil.
func NewCountingBroadcaster(relay Broadcaster) *CountingBroadcaster {
	return &CountingBroadcaster{relay: relay, counts: make(map[ast.Kind]int)}
}

// Broadcast counts n and relays it.
func (b *CountingBroadcaster) Broadcast(n ast.Node) error {
	b.counts[n.Kind()]++
	b.total++
	if b.relay != nil {
		return b.relay.Broadcast(n)
	}
	return nil
}

// Count returns the number of nodes of kind k.
func (b *CountingBroadcaster) Count(k ast.Kind) int { return b.counts[k] }

// Total returns the number of nodes received.
func (b *CountingBroadcaster) Total() int { return b.total }
