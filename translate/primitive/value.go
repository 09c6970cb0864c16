// Package primitive implements the SyncObjects component (spec.md §4.4):
// the sub-net fragments for mutexes, mutex guards, condition variables and
// threads, plus the tagged Value union Memory stores them as (spec.md
// §4.3). Value lives alongside the objects it tags because a Thread's
// captured environment is itself built from Values — keeping both in one
// package avoids a Memory <-> SyncObjects import cycle while preserving
// spec.md's "Memory -> SyncObject is the only direction" ownership
// invariant (spec.md §9).
package primitive

// Kind tags which alternative a Value currently holds.
type Kind int

const (
	KindNone Kind = iota
	KindMutex
	KindGuard
	KindJoinHandle
	KindCondvar
	KindAggregate
)

func (k Kind) String() string {
	switch k {
	case KindMutex:
		return "mutex"
	case KindGuard:
		return "guard"
	case KindJoinHandle:
		return "join_handle"
	case KindCondvar:
		return "condvar"
	case KindAggregate:
		return "aggregate"
	default:
		return "none"
	}
}

// Value is the tagged sync value a Memory slot holds (spec.md §3, "Memory").
// The zero Value is KindNone.
type Value struct {
	Kind Kind

	Mutex     *Mutex
	Guard     *Guard
	Thread    *Thread
	Condvar   *Condvar
	Aggregate []Value
}

// None reports whether v holds no sync value.
func (v Value) None() bool { return v.Kind == KindNone }

// FromMutex wraps m as a Value.
func FromMutex(m *Mutex) Value { return Value{Kind: KindMutex, Mutex: m} }

// FromGuard wraps g as a Value.
func FromGuard(g *Guard) Value { return Value{Kind: KindGuard, Guard: g} }

// FromThread wraps t (a join handle) as a Value.
func FromThread(t *Thread) Value { return Value{Kind: KindJoinHandle, Thread: t} }

// FromCondvar wraps c as a Value.
func FromCondvar(c *Condvar) Value { return Value{Kind: KindCondvar, Condvar: c} }

// FromAggregate wraps elems as an aggregate Value, positionally indexed by
// field number (spec.md §4.3, "handle_aggregate").
func FromAggregate(elems []Value) Value { return Value{Kind: KindAggregate, Aggregate: elems} }

// Flatten recursively collects every non-None, non-aggregate terminal value
// reachable from v, depth first, in field order. It is what Memory's
// projection-insensitive "find every sync value whose slot shares the given
// slot's root index" (spec.md §4.3) reduces to once slots are flat integer
// indices and nested state lives in Aggregate: gathering every sync value
// nested under one slot is exactly gathering every terminal value reachable
// from that slot's Value. Used by the ThreadSpawn handler to capture the
// closure environment (spec.md §4.6).
func (v Value) Flatten() []Value {
	switch v.Kind {
	case KindNone:
		return nil
	case KindAggregate:
		var out []Value
		for _, e := range v.Aggregate {
			out = append(out, e.Flatten()...)
		}
		return out
	default:
		return []Value{v}
	}
}
