package translate

import (
	"github.com/syncverify/petridock/petrinet"
	"github.com/syncverify/petridock/translate/primitive"
)

// DeadlockFormula is the reachability property the external model checker
// evaluates against the emitted net (spec.md §6): a reachable total-
// deadlock state that is neither the normal end nor a panic end. It is
// exposed as a constant (SPEC_FULL.md "Supplemented features", point 4) so
// a downstream model-checker collaborator has a single source of truth
// for the formula text instead of re-deriving it.
const DeadlockFormula = `EF (DEADLOCK AND PROGRAM_END = 0 AND PROGRAM_PANIC = 0)`

// MutexRef is one entry of a Result's mutex manifest.
type MutexRef struct {
	Index int
	Place petrinet.PlaceRef
}

// CondvarRef is one entry of a Result's condvar manifest.
type CondvarRef struct {
	Index          int
	WaitEnabled    petrinet.PlaceRef
	Notify         petrinet.PlaceRef
	WaitStart      petrinet.TransitionRef
	LostSignal     petrinet.TransitionRef
	NotifyReceived petrinet.TransitionRef
}

// ThreadRef is one entry of a Result's thread manifest.
type ThreadRef struct {
	Index int
	Start petrinet.PlaceRef
	End   petrinet.PlaceRef
}

// Result is translate.Run's success output: the closed net plus the
// manifest of sync-object -> place/transition references (spec.md §2,
// SPEC_FULL.md "Supplemented features", point 3) a downstream deadlock-
// trace reporter needs to name which object a trace blocked on.
type Result struct {
	Net      *petrinet.Net
	Mutexes  []MutexRef
	Condvars []CondvarRef
	Threads  []ThreadRef
}

func mutexManifest(mutexes []*primitive.Mutex) []MutexRef {
	out := make([]MutexRef, len(mutexes))
	for i, m := range mutexes {
		out[i] = MutexRef{Index: m.Index(), Place: m.Place()}
	}
	return out
}

func condvarManifest(condvars []*primitive.Condvar) []CondvarRef {
	out := make([]CondvarRef, len(condvars))
	for i, c := range condvars {
		out[i] = CondvarRef{
			Index:          c.Index(),
			WaitEnabled:    c.WaitEnabled(),
			Notify:         c.Notify(),
			WaitStart:      c.WaitStart(),
			LostSignal:     c.LostSignal(),
			NotifyReceived: c.NotifyReceived(),
		}
	}
	return out
}

func threadManifest(threads []*primitive.Thread) []ThreadRef {
	out := make([]ThreadRef, len(threads))
	for i, t := range threads {
		out[i] = ThreadRef{Index: t.Index(), Start: t.Start(), End: t.End()}
	}
	return out
}
