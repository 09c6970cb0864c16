package primitive

import "github.com/syncverify/petridock/petrinet"
import "github.com/syncverify/petridock/petrinet/naming"

// Mutex is the sub-net fragment for one mutex: a single place, initially
// marked with one token (spec.md §4.4). Its place is materialized lazily,
// by Materialize, rather than at construction — spec.md §4.6 defers the
// MutexNew handler's place creation to a priority-2 Postprocessor task, so
// that a mutex's place exists exactly once regardless of how many call
// sites reference it while it's still only a Memory-level alias. Lock and
// unlock arcs requested before materialization are buffered and flushed
// once the place exists.
type Mutex struct {
	index int

	placed bool
	place  petrinet.PlaceRef

	pendingIn  []petrinet.TransitionRef // buffered ArcIn (lock) targets
	pendingOut []petrinet.TransitionRef // buffered ArcOut (unlock) sources
}

// NewMutex allocates a Mutex identified by index. Its place is not yet
// added to the net; call Materialize to do that.
func NewMutex(index int) *Mutex {
	return &Mutex{index: index}
}

// Index returns the mutex's creation-order index, used for its place label.
func (m *Mutex) Index() int { return m.index }

// Place returns the mutex's place reference. It panics if called before
// Materialize, since no valid reference exists yet; callers that only need
// to add lock/unlock arcs should use AddLockArc/AddUnlockArc instead, which
// tolerate a not-yet-materialized mutex.
func (m *Mutex) Place() petrinet.PlaceRef {
	if !m.placed {
		panic("BUG: primitive: Mutex.Place called before Materialize")
	}
	return m.place
}

// AddLockArc adds a place -> t arc: t consumes the mutex's token when it
// fires, modeling a lock call. Safe to call before Materialize.
func (m *Mutex) AddLockArc(b *petrinet.Builder, t petrinet.TransitionRef) {
	if m.placed {
		b.ArcIn(m.place, t)
		return
	}
	m.pendingIn = append(m.pendingIn, t)
}

// AddUnlockArc adds a t -> place arc: t produces the mutex's token when it
// fires, modeling a guard drop (or a condvar wait start, for the linked
// mutex). Safe to call before Materialize.
func (m *Mutex) AddUnlockArc(b *petrinet.Builder, t petrinet.TransitionRef) {
	if m.placed {
		b.ArcOut(t, m.place)
		return
	}
	m.pendingOut = append(m.pendingOut, t)
}

// Materialize adds the mutex's place to the net, with its initial token,
// and flushes every arc buffered by AddLockArc/AddUnlockArc so far. It is
// idempotent: calling it twice is a no-op after the first call.
func (m *Mutex) Materialize(b *petrinet.Builder) petrinet.PlaceRef {
	if m.placed {
		return m.place
	}
	m.place = b.Place(naming.MutexPlace(m.index))
	b.Token(m.place, 1)
	for _, t := range m.pendingIn {
		b.ArcIn(m.place, t)
	}
	for _, t := range m.pendingOut {
		b.ArcOut(t, m.place)
	}
	m.pendingIn = nil
	m.pendingOut = nil
	m.placed = true
	return m.place
}
