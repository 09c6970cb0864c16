package primitive

import (
	"github.com/syncverify/petridock/ir"
	"github.com/syncverify/petridock/petrinet"
	"github.com/syncverify/petridock/petrinet/naming"
)

// Thread is the sub-net fragment for one spawned thread: two places, a
// reference to the transition that spawned it, and an optional join
// transition (spec.md §4.4). Its places, like a Mutex's, are materialized
// lazily — by Prepare — since thread bodies are translated only once the
// Interprocedural Driver dequeues them from its pending FIFO (spec.md
// §4.8), after the spawning function's own walk has finished.
type Thread struct {
	index int

	spawn     petrinet.TransitionRef
	entryFnID ir.FunctionID
	aggregate Value // captured closure environment, installed at slot 1

	join    *petrinet.TransitionRef
	start   petrinet.PlaceRef
	end     petrinet.PlaceRef
	started bool
}

// NewThread allocates a Thread spawned by the transition t, whose body is
// entryFnID, capturing aggregate as its closure environment, identified by
// index.
func NewThread(spawn petrinet.TransitionRef, entryFnID ir.FunctionID, aggregate Value, index int) *Thread {
	return &Thread{index: index, spawn: spawn, entryFnID: entryFnID, aggregate: aggregate}
}

// Index returns the thread's creation-order index.
func (t *Thread) Index() int { return t.index }

// Start returns the thread's START place. Panics if called before Prepare.
func (t *Thread) Start() petrinet.PlaceRef {
	if !t.started {
		panic("BUG: primitive: Thread.Start called before Prepare")
	}
	return t.start
}

// End returns the thread's END place. Panics if called before Prepare.
func (t *Thread) End() petrinet.PlaceRef {
	if !t.started {
		panic("BUG: primitive: Thread.End called before Prepare")
	}
	return t.end
}

// SetJoin records the transition that consumes the thread's END token,
// modeling a join call. It may be called at most once per thread; a second
// call reports false and keeps the first join rather than overwriting it.
// The ThreadJoin handler does not act on that report, so a second join
// transition gets no arc from END.
func (t *Thread) SetJoin(jt petrinet.TransitionRef) bool {
	if t.join != nil {
		return false
	}
	t.join = &jt
	return true
}

// Prepare materializes the thread's START/END places, wires spawn -> START
// and (if a join was recorded) END -> join, and returns the entry function
// id plus the places the Driver should use as the thread body's frame
// start/end (spec.md §4.8 step 3). If no join was ever recorded, END keeps
// out-degree zero: a detached thread (spec.md §8, testable property 5).
func (t *Thread) Prepare(b *petrinet.Builder) (ir.FunctionID, petrinet.PlaceRef, petrinet.PlaceRef) {
	if t.started {
		return t.entryFnID, t.start, t.end
	}
	t.start = b.Place(naming.ThreadStart(t.index))
	t.end = b.Place(naming.ThreadEnd(t.index))
	b.ArcOut(t.spawn, t.start)
	if t.join != nil {
		b.ArcIn(t.end, *t.join)
	}
	t.started = true
	return t.entryFnID, t.start, t.end
}

// MoveSyncVariables installs the thread's captured closure environment at
// slot 1 of the child's memory (spec.md §4.4, §4.9 "Ownership across
// threads being modeled": the child's slot holds the same reference as the
// parent's, copied in by the child's own initialization).
func (t *Thread) MoveSyncVariables(link func(slot int, v Value)) {
	link(1, t.aggregate)
}
