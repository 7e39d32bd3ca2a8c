// Package tatami implements the positional tree used to schedule matches
// onto competition mats: tatami -> concurrent group -> sequential group ->
// block. Every level is addressed through a stable Handle so that deleting
// and later undoing a deletion restores a node to its original slot without
// renumbering its siblings.
package tatami

import "github.com/svendcsvendsen/judoassistant/internal/ids"

// MatchType distinguishes the two kinds of block a category can schedule.
// Defined here (rather than in the store package) because a block's type is
// fundamentally a scheduling concept: it is the unit tatami layout moves
// around.
type MatchType int

const (
	Knockout MatchType = iota
	Final
)

func (t MatchType) String() string {
	if t == Final {
		return "FINAL"
	}
	return "KNOCKOUT"
}

// Block identifies one category's matches of a given type, the unit of
// placement on a tatami.
type Block struct {
	Category ids.ID
	Type     MatchType
}

// Handle is a stable logical id plus the index it was last known to occupy.
// Lookups try the id first; on miss during undo the holder reinserts the
// handle at its remembered index, clamped to the current size, so deleted
// nodes return to their original slot without shifting siblings.
type Handle struct {
	ID    ids.ID
	Index int
}

// Zero reports whether h is the unset handle.
func (h Handle) Zero() bool { return h.ID == ids.Nil }

// BlockLocation pins a block to a concrete tatami/concurrent-group/
// sequential-group triple plus the index within that sequential group.
type BlockLocation struct {
	Tatami          Handle
	ConcurrentGroup Handle
	SequentialGroup Handle
	Index           int
}

// PositionManager is an ordered list of ids paired with arbitrary element
// data, addressed by stable Handle. It is the Go analogue of the original
// project's template PositionManager<T>.
type PositionManager[T any] struct {
	order    []ids.ID
	elements map[ids.ID]T
}

// NewPositionManager returns an empty manager.
func NewPositionManager[T any]() *PositionManager[T] {
	return &PositionManager[T]{elements: make(map[ids.ID]T)}
}

// Get looks up h.ID. If present, it returns the stored element regardless of
// h.Index. If absent, it reinserts h.ID at min(h.Index, Size()) and stores
// (and returns) the zero value of T — the caller is expected to overwrite it
// with Set immediately if this is meant to create a new element.
func (m *PositionManager[T]) Get(h Handle) T {
	if v, ok := m.elements[h.ID]; ok {
		return v
	}
	idx := h.Index
	if idx > len(m.order) {
		idx = len(m.order)
	}
	if idx < 0 {
		idx = 0
	}
	m.order = append(m.order, ids.Nil)
	copy(m.order[idx+1:], m.order[idx:])
	m.order[idx] = h.ID
	var zero T
	m.elements[h.ID] = zero
	return zero
}

// Set overwrites the element stored for h.ID. The id must already be known
// to the manager (via Get or Insert); Set never changes ordering.
func (m *PositionManager[T]) Set(id ids.ID, v T) {
	m.elements[id] = v
}

// Insert adds a brand new id at the given index, returning its handle.
func (m *PositionManager[T]) Insert(id ids.ID, index int, v T) Handle {
	if index > len(m.order) {
		index = len(m.order)
	}
	if index < 0 {
		index = 0
	}
	m.order = append(m.order, ids.Nil)
	copy(m.order[index+1:], m.order[index:])
	m.order[index] = id
	m.elements[id] = v
	return Handle{ID: id, Index: index}
}

// Erase removes id from the manager. It is a plain removal: surviving
// siblings keep their relative order but their Index within a freshly
// queried Handle shifts down, exactly as the original PositionManager did
// (only undo-driven Get reinsertion restores an original index).
func (m *PositionManager[T]) Erase(id ids.ID) {
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	delete(m.elements, id)
}

// HandleAt returns the handle currently occupying index i.
func (m *PositionManager[T]) HandleAt(i int) Handle {
	return Handle{ID: m.order[i], Index: i}
}

// IndexOf returns the current index of id, or -1 if absent.
func (m *PositionManager[T]) IndexOf(id ids.ID) int {
	for i, existing := range m.order {
		if existing == id {
			return i
		}
	}
	return -1
}

// Size returns the number of elements currently tracked.
func (m *PositionManager[T]) Size() int { return len(m.order) }

// Contains reports whether id is currently tracked.
func (m *PositionManager[T]) Contains(id ids.ID) bool {
	_, ok := m.elements[id]
	return ok
}

// Ordered returns the ids in their current order.
func (m *PositionManager[T]) Ordered() []ids.ID {
	out := make([]ids.ID, len(m.order))
	copy(out, m.order)
	return out
}

// Value returns the element for id and whether it is present.
func (m *PositionManager[T]) Value(id ids.ID) (T, bool) {
	v, ok := m.elements[id]
	return v, ok
}
