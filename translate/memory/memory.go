// Package memory implements the Memory component (spec.md §4.3): an
// ordered vector of slots, each tagged with the sync value it currently
// holds, plus the aliasing operations that keep two slots resolving to the
// same underlying sync object after a move/copy/borrow or an aggregate
// construction.
package memory

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/syncverify/petridock/diag"
	"github.com/syncverify/petridock/translate/primitive"
)

// Memory is one function activation's slot table (spec.md §4.3). The zero
// value is ready to use; slots are created on first Link/LinkAlias/
// HandleAggregate access to any given index, Go-map style.
type Memory struct {
	slots map[int]primitive.Value
}

// New returns an empty Memory.
func New() *Memory {
	return &Memory{slots: make(map[int]primitive.Value)}
}

// Get returns the value currently at slot, or the zero (KindNone) Value if
// the slot has never been written.
func (m *Memory) Get(slot int) primitive.Value {
	return m.slots[slot]
}

// Link installs v at slot directly, overwriting whatever was there. It
// reports whether a non-None value was overwritten, so callers can emit
// the aliasing-overwrite debug notice spec.md §4.3 describes (this package
// does no logging itself; translate.Driver owns the logger).
func (m *Memory) Link(slot int, v primitive.Value) (overwrote bool) {
	if m.slots == nil {
		m.slots = make(map[int]primitive.Value)
	}
	old, ok := m.slots[slot]
	overwrote = ok && !old.None()
	m.slots[slot] = v
	return overwrote
}

// LinkAlias copies whatever value source currently holds into dest,
// modeling a move/copy/borrow statement (spec.md §4.3, §4.7 step 3,
// StatementAlias). It is projection-insensitive: dest resolves to the same
// root object source does, regardless of any field projection the IR's
// Source slot performed on, since aliasing is tracked at slot granularity.
//
// The walker only calls LinkAlias once it has already established that
// source holds a sync value (spec.md §4.7 step 3, "assignments that alias
// sync values"); a None source at that point is a translator bug, not a
// normal program shape, so it panics via diag.Bug rather than silently
// aliasing nothing.
func (m *Memory) LinkAlias(dest, source int) (overwrote bool) {
	v := m.Get(source)
	if v.None() {
		diag.Bug("memory: LinkAlias(%d, %d): source slot is empty", dest, source)
	}
	return m.Link(dest, v)
}

// HandleAggregate builds an aggregate Value out of operand slots'
// current contents, positionally, and installs it at dest (spec.md §4.3,
// §4.7 step 3, StatementAggregate) — modeling a struct/tuple/closure
// environment literal being constructed from already-resolved fields.
func (m *Memory) HandleAggregate(dest int, operands []int) (overwrote bool) {
	elems := make([]primitive.Value, len(operands))
	for i, slot := range operands {
		elems[i] = m.Get(slot)
	}
	return m.Link(dest, primitive.FromAggregate(elems))
}

// GetMutex resolves slot to a *primitive.Mutex, reporting false if the
// slot does not currently hold one.
func (m *Memory) GetMutex(slot int) (*primitive.Mutex, bool) {
	v := m.Get(slot)
	if v.Kind != primitive.KindMutex {
		return nil, false
	}
	return v.Mutex, true
}

// GetGuard resolves slot to a *primitive.Guard.
func (m *Memory) GetGuard(slot int) (*primitive.Guard, bool) {
	v := m.Get(slot)
	if v.Kind != primitive.KindGuard {
		return nil, false
	}
	return v.Guard, true
}

// GetThread resolves slot to a *primitive.Thread (a join handle).
func (m *Memory) GetThread(slot int) (*primitive.Thread, bool) {
	v := m.Get(slot)
	if v.Kind != primitive.KindJoinHandle {
		return nil, false
	}
	return v.Thread, true
}

// GetCondvar resolves slot to a *primitive.Condvar.
func (m *Memory) GetCondvar(slot int) (*primitive.Condvar, bool) {
	v := m.Get(slot)
	if v.Kind != primitive.KindCondvar {
		return nil, false
	}
	return v.Condvar, true
}

// IsGuard reports whether slot currently holds a MutexGuard, used by the
// drop-terminator handler to decide whether a drop is sync-relevant
// (spec.md §4.7, `drop`).
func (m *Memory) IsGuard(slot int) bool {
	_, ok := m.GetGuard(slot)
	return ok
}

// FindSyncValues returns every non-None terminal sync value reachable from
// slot's current contents, depth first (spec.md §4.3's projection-
// insensitive root search). Used by the ThreadSpawn handler to capture a
// closure argument's full set of sync values regardless of how deeply
// they're nested inside the captured aggregate (spec.md §4.6).
func (m *Memory) FindSyncValues(slot int) []primitive.Value {
	return m.Get(slot).Flatten()
}

// Dump returns a stable snapshot of every non-None slot, sorted by slot
// index, for debug logging and test assertions (SPEC_FULL.md "Supplemented
// features", point 2). It is purely diagnostic: no part of the translator's
// correctness depends on its output.
func (m *Memory) Dump() []SlotValue {
	slots := maps.Keys(m.slots)
	slices.Sort(slots)

	out := make([]SlotValue, 0, len(slots))
	for _, slot := range slots {
		v := m.slots[slot]
		if v.None() {
			continue
		}
		out = append(out, SlotValue{Slot: slot, Kind: v.Kind})
	}
	return out
}

// SlotValue is one entry of a Memory.Dump snapshot.
type SlotValue struct {
	Slot int
	Kind primitive.Kind
}
