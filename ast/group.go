package ast

import (
	"fmt"
	"iter"

	"fortio.org/safecast"
)

const none int32 = -1

// Member is implemented by nodes that can belong to a Group.
//
// A member belongs to at most one group at a time.
type Member interface {
	Node
	Attached() bool
	Detach()
	Parent() Node
	groupLink() *membership
}

// owner is implemented by groups so that members can reach back to them
// without knowing the group's element type.
type owner interface {
	unlink(slot int32)
	parent() Node
}

// membership is embedded by every node that can be a group member.
type membership struct {
	group owner
	slot  int32
}

func (m *membership) groupLink() *membership { return m }

// Attached returns true if the node currently belongs to a group.
func (m *membership) Attached() bool { return m.group != nil }

// Detach removes the node from its group, if any.
func (m *membership) Detach() {
	if m.group != nil {
		m.group.unlink(m.slot)
	}
}

// Parent returns the node owning the group this node belongs to, or nil.
func (m *membership) Parent() Node {
	if m.group == nil {
		return nil
	}
	return m.group.parent()
}

type slot[T Member] struct {
	node T
	prev int32
	next int32
	live bool
}

// Group is an ordered collection of sibling nodes.
//
// Members are stored in an arena of slots linked by index. Insertion and
// removal are constant time, removed slots are reused, and members refer to
// their group by slot index only.
type Group[T Member] struct {
	owner     Node
	slots     []slot[T]
	free      []int32
	head      int32
	tail      int32
	n         int
	separator func(T) bool
}

// NewGroup returns an empty group owned by the given node.
func NewGroup[T Member](owner Node) *Group[T] {
	return &Group[T]{owner: owner, head: none, tail: none}
}

// NewSeparatedGroup returns an empty group where sep identifies the members
// that separate runs of adjoining members.
func NewSeparatedGroup[T Member](owner Node, sep func(T) bool) *Group[T] {
	g := NewGroup[T](owner)
	g.separator = sep
	return g
}

// GroupOf returns the group m belongs to, or nil.
func GroupOf[T Member](m T) *Group[T] {
	g, _ := m.groupLink().group.(*Group[T])
	return g
}

func (g *Group[T]) parent() Node { return g.owner }

// Owner returns the node owning the group.
func (g *Group[T]) Owner() Node { return g.owner }

// Len returns the number of members.
func (g *Group[T]) Len() int { return g.n }

// IsEmpty returns true if the group has no members.
func (g *Group[T]) IsEmpty() bool { return g.n == 0 }

// Contains returns true if m is a member of this group.
func (g *Group[T]) Contains(m T) bool {
	l := m.groupLink()
	return l.group != nil && l.group == owner(g)
}

// First returns the first member.
func (g *Group[T]) First() (T, bool) { return g.at(g.head) }

// Last returns the last member.
func (g *Group[T]) Last() (T, bool) { return g.at(g.tail) }

// Prev returns the member before m.
func (g *Group[T]) Prev(m T) (T, bool) {
	if !g.Contains(m) {
		var zero T
		return zero, false
	}
	return g.at(g.slots[m.groupLink().slot].prev)
}

// Next returns the member after m.
func (g *Group[T]) Next(m T) (T, bool) {
	if !g.Contains(m) {
		var zero T
		return zero, false
	}
	return g.at(g.slots[m.groupLink().slot].next)
}

func (g *Group[T]) at(i int32) (T, bool) {
	if i == none {
		var zero T
		return zero, false
	}
	return g.slots[i].node, true
}

// Append adds m to the end of the group. A member of another group is moved.
func (g *Group[T]) Append(m T) {
	m.Detach()
	g.link(m, g.tail, none)
}

// Prepend adds m to the start of the group. A member of another group is moved.
func (g *Group[T]) Prepend(m T) {
	m.Detach()
	g.link(m, none, g.head)
}

// InsertBefore places m immediately before anchor. If anchor is not a member
// of the group, or is m itself, nothing happens and false is returned.
// When m is already a member of any group it is moved.
func (g *Group[T]) InsertBefore(anchor, m T) bool {
	if !g.Contains(anchor) || Node(anchor) == Node(m) {
		return false
	}
	m.Detach()
	i := anchor.groupLink().slot
	g.link(m, g.slots[i].prev, i)
	return true
}

// InsertAfter places m immediately after anchor. If anchor is not a member of
// the group, or is m itself, nothing happens and false is returned.
// When m is already a member of any group it is moved.
func (g *Group[T]) InsertAfter(anchor, m T) bool {
	if !g.Contains(anchor) || Node(anchor) == Node(m) {
		return false
	}
	m.Detach()
	i := anchor.groupLink().slot
	g.link(m, i, g.slots[i].next)
	return true
}

// Replace puts m in place of old.
func (g *Group[T]) Replace(old, m T) bool {
	if !g.InsertBefore(old, m) {
		return false
	}
	g.Remove(old)
	return true
}

// Remove detaches m from the group. It returns false if m is not a member.
func (g *Group[T]) Remove(m T) bool {
	if !g.Contains(m) {
		return false
	}
	g.unlink(m.groupLink().slot)
	return true
}

// All returns an iterator over the members in order. The group may be
// edited during iteration: members added are not visited and members removed
// before being reached are skipped.
func (g *Group[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, m := range g.Slice() {
			if !g.Contains(m) {
				continue
			}
			if !yield(m) {
				return
			}
		}
	}
}

// Slice returns the members in order.
func (g *Group[T]) Slice() []T {
	a := make([]T, 0, g.n)
	for i := g.head; i != none; i = g.slots[i].next {
		a = append(a, g.slots[i].node)
	}
	return a
}

// Adjoining returns the run of non-separator members around m, bounded by
// the nearest separator on each side. A separator is returned on its own.
// In a group without separators this is every member.
func (g *Group[T]) Adjoining(m T) []T {
	if !g.Contains(m) {
		return nil
	}
	if g.isSeparator(m) {
		return []T{m}
	}
	start := m.groupLink().slot
	for p := g.slots[start].prev; p != none && !g.isSeparator(g.slots[p].node); p = g.slots[p].prev {
		start = p
	}
	var run []T
	for i := start; i != none && !g.isSeparator(g.slots[i].node); i = g.slots[i].next {
		run = append(run, g.slots[i].node)
	}
	return run
}

func (g *Group[T]) isSeparator(m T) bool {
	return g.separator != nil && g.separator(m)
}

// link stores m in a slot between prev and next.
func (g *Group[T]) link(m T, prev, next int32) {
	var i int32
	if n := len(g.free); n > 0 {
		i = g.free[n-1]
		g.free = g.free[:n-1]
	} else {
		idx, err := safecast.Conv[int32](len(g.slots))
		if err != nil {
			panic(fmt.Sprintf("ast: group slot index overflow: %v", err))
		}
		g.slots = append(g.slots, slot[T]{})
		i = idx
	}
	g.slots[i] = slot[T]{node: m, prev: prev, next: next, live: true}

	if prev == none {
		g.head = i
	} else {
		g.slots[prev].next = i
	}
	if next == none {
		g.tail = i
	} else {
		g.slots[next].prev = i
	}

	l := m.groupLink()
	l.group, l.slot = g, i
	g.n++
}

// unlink removes the member at slot i, relinking only its two neighbors.
func (g *Group[T]) unlink(i int32) {
	s := &g.slots[i]
	if !s.live {
		return
	}
	if s.prev == none {
		g.head = s.next
	} else {
		g.slots[s.prev].next = s.next
	}
	if s.next == none {
		g.tail = s.prev
	} else {
		g.slots[s.next].prev = s.prev
	}

	l := s.node.groupLink()
	l.group, l.slot = nil, none

	var zero T
	*s = slot[T]{node: zero, prev: none, next: none}
	g.free = append(g.free, i)
	g.n--
}
