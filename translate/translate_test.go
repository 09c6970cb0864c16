package translate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/syncverify/petridock/ir"
	"github.com/syncverify/petridock/petrinet"
	"github.com/syncverify/petridock/petrinet/naming"
)

func callBlock(callee ir.CalleeRef, args []ir.Operand, dest, target int) ir.BasicBlock {
	return ir.BasicBlock{
		Terminator: ir.Terminator{
			Kind: ir.TermCall,
			Call: &ir.Call{Callee: callee, Args: args, Dest: dest, Target: target},
		},
	}
}

func returnBlock() ir.BasicBlock {
	return ir.BasicBlock{Terminator: ir.Terminator{Kind: ir.TermReturn}}
}

func mustRun(t *testing.T, prog ir.Program) *Result {
	t.Helper()
	res, err := Run(prog, Options{})
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

// hasTransitionLabel reports whether a transition with the given label
// exists in the net.
func hasTransitionLabel(n *petrinet.Net, label string) bool {
	for _, tr := range n.Transitions() {
		if tr.Label == label {
			return true
		}
	}
	return false
}

func placeByLabel(t *testing.T, n *petrinet.Net, label string) petrinet.PlaceRef {
	t.Helper()
	for _, p := range n.Places() {
		if p.Label == label {
			return p.Ref
		}
	}
	t.Fatalf("no place labeled %q", label)
	return petrinet.PlaceRef{}
}

// S1: entry is an empty body (a single block that returns immediately).
func TestS1Hello(t *testing.T) {
	tbl := ir.NewTable("main")
	tbl.Add(&ir.Function{ID: "main", Name: "main", Blocks: []ir.BasicBlock{returnBlock()}})

	res := mustRun(t, tbl)
	require.Empty(t, res.Mutexes)
	require.Empty(t, res.Condvars)
	require.Empty(t, res.Threads)

	n := res.Net
	require.Equal(t, 1, n.Marking(placeByLabel(t, n, "PROGRAM_START")))
	mainInstance := naming.FunctionInstance("main", 0)
	require.True(t, hasTransitionLabel(n, naming.FunctionReturnTransition(mainInstance, 0)))
}

// S2: entry locks mutex M, then locks M again without dropping the first
// guard. Two lock arcs both compete for the mutex's single token, so no
// firing sequence can satisfy both transitions' input requirements at once
// without an intervening unlock: after the first lock fires, the second
// lock's input mutex place is unmarked, so it can never fire, the
// model-checker's definition of this scenario's deadlock (spec.md §8, S2).
func TestS2SingleThreadDoubleLock(t *testing.T) {
	tbl := ir.NewTable("main")
	tbl.Add(&ir.Function{
		ID:   "main",
		Name: "main",
		Blocks: []ir.BasicBlock{
			callBlock(ir.CalleeRef{Name: "sync.Mutex.New"}, nil, 0, 1),
			callBlock(ir.CalleeRef{Name: "sync.Mutex.Lock"}, []ir.Operand{{Slot: 0}}, 1, 2),
			callBlock(ir.CalleeRef{Name: "sync.Mutex.Lock"}, []ir.Operand{{Slot: 0}}, 2, 3),
			returnBlock(),
		},
	})

	res := mustRun(t, tbl)
	require.Len(t, res.Mutexes, 1)

	n := res.Net
	lockArcs := 0
	for _, a := range n.Arcs() {
		if a.Place == res.Mutexes[0].Place && a.Direction == petrinet.In {
			lockArcs++
		}
	}
	require.Equal(t, 2, lockArcs, "both lock calls must compete for the same mutex place")
	require.Equal(t, 1, n.Marking(res.Mutexes[0].Place))
}

// S3: entry locks M, drops the guard explicitly, then re-locks.
func TestS3GuardDroppedBeforeRelock(t *testing.T) {
	tbl := ir.NewTable("main")
	tbl.Add(&ir.Function{
		ID:   "main",
		Name: "main",
		Blocks: []ir.BasicBlock{
			callBlock(ir.CalleeRef{Name: "sync.Mutex.New"}, nil, 0, 1),
			callBlock(ir.CalleeRef{Name: "sync.Mutex.Lock"}, []ir.Operand{{Slot: 0}}, 1, 2),
			{
				Terminator: ir.Terminator{
					Kind: ir.TermDrop,
					Drop: &ir.Drop{Slot: 1, Target: 3, Unwind: ir.UnwindAction{Kind: ir.UnwindContinue}},
				},
			},
			callBlock(ir.CalleeRef{Name: "sync.Mutex.Lock"}, []ir.Operand{{Slot: 0}}, 2, 4),
			returnBlock(),
		},
	})

	res := mustRun(t, tbl)
	require.Len(t, res.Mutexes, 1)

	n := res.Net
	var lockArcs, unlockArcs int
	for _, a := range n.Arcs() {
		if a.Place != res.Mutexes[0].Place {
			continue
		}
		if a.Direction == petrinet.In {
			lockArcs++
		} else {
			unlockArcs++
		}
	}
	require.Equal(t, 2, lockArcs)
	require.Equal(t, 1, unlockArcs, "the drop must produce exactly one unlock arc back to the mutex")
}

// S4: entry spawns one child thread; both main and child lock and drop M.
func TestS4TwoThreadsSharingOneMutex(t *testing.T) {
	tbl := ir.NewTable("main")
	tbl.Add(&ir.Function{
		ID:   "main",
		Name: "main",
		Blocks: []ir.BasicBlock{
			callBlock(ir.CalleeRef{Name: "sync.Mutex.New"}, nil, 0, 1),
			callBlock(ir.CalleeRef{Name: "thread.Spawn", Function: "child", HasBody: true}, []ir.Operand{{Slot: 0}}, 1, 2),
			callBlock(ir.CalleeRef{Name: "sync.Mutex.Lock"}, []ir.Operand{{Slot: 0}}, 2, 3),
			{
				Terminator: ir.Terminator{
					Kind: ir.TermDrop,
					Drop: &ir.Drop{Slot: 2, Target: 4, Unwind: ir.UnwindAction{Kind: ir.UnwindContinue}},
				},
			},
			returnBlock(),
		},
	})
	tbl.Add(&ir.Function{
		ID:   "child",
		Name: "child",
		Blocks: []ir.BasicBlock{
			callBlock(ir.CalleeRef{Name: "sync.Mutex.Lock"}, []ir.Operand{{Slot: 1}}, 0, 1),
			{
				Terminator: ir.Terminator{
					Kind: ir.TermDrop,
					Drop: &ir.Drop{Slot: 0, Target: 2, Unwind: ir.UnwindAction{Kind: ir.UnwindContinue}},
				},
			},
			returnBlock(),
		},
	})

	res := mustRun(t, tbl)
	require.Len(t, res.Mutexes, 1)
	require.Len(t, res.Threads, 1)

	n := res.Net
	var lockArcs int
	for _, a := range n.Arcs() {
		if a.Place == res.Mutexes[0].Place && a.Direction == petrinet.In {
			lockArcs++
		}
	}
	require.Equal(t, 2, lockArcs, "both the parent and the child must lock the shared mutex")
}

// S6: main creates condvar C, locks mutex M, calls notify_one on C before
// any wait exists anywhere. The net must contain lost_signal, and the
// notify_one transition must feed the notify place even though no wait has
// ever linked.
func TestS6LostSignal(t *testing.T) {
	tbl := ir.NewTable("main")
	tbl.Add(&ir.Function{
		ID:   "main",
		Name: "main",
		Blocks: []ir.BasicBlock{
			callBlock(ir.CalleeRef{Name: "sync.Cond.New"}, nil, 0, 1),
			callBlock(ir.CalleeRef{Name: "sync.Mutex.New"}, nil, 1, 2),
			callBlock(ir.CalleeRef{Name: "sync.Mutex.Lock"}, []ir.Operand{{Slot: 1}}, 2, 3),
			callBlock(ir.CalleeRef{Name: "sync.Cond.NotifyOne"}, []ir.Operand{{Slot: 0}}, 3, 4),
			returnBlock(),
		},
	})

	res := mustRun(t, tbl)
	require.Len(t, res.Condvars, 1)
	cv := res.Condvars[0]

	n := res.Net
	require.True(t, hasTransitionLabel(n, "CONDVAR_0_LOST_SIGNAL"))
	var notifyInArcs int
	for _, a := range n.Arcs() {
		if a.Place == cv.Notify && a.Direction == petrinet.Out {
			notifyInArcs++
		}
	}
	require.Equal(t, 1, notifyInArcs, "notify_one always wires into the notify place, win or lose the race with a wait")
}

// Multiple waits against the same condvar is a hard failure, not a
// translator bug (spec.md §7).
func TestMultiWaitIsUnsupportedIR(t *testing.T) {
	tbl := ir.NewTable("main")
	tbl.Add(&ir.Function{
		ID:   "main",
		Name: "main",
		Blocks: []ir.BasicBlock{
			callBlock(ir.CalleeRef{Name: "sync.Cond.New"}, nil, 0, 1),
			callBlock(ir.CalleeRef{Name: "sync.Mutex.New"}, nil, 1, 2),
			callBlock(ir.CalleeRef{Name: "sync.Mutex.Lock"}, []ir.Operand{{Slot: 1}}, 2, 3),
			callBlock(ir.CalleeRef{Name: "sync.Cond.Wait"}, []ir.Operand{{Slot: 0}, {Slot: 2}}, 3, 4),
			callBlock(ir.CalleeRef{Name: "sync.Mutex.Lock"}, []ir.Operand{{Slot: 1}}, 4, 5),
			callBlock(ir.CalleeRef{Name: "sync.Cond.Wait"}, []ir.Operand{{Slot: 0}, {Slot: 4}}, 5, 6),
			returnBlock(),
		},
	})

	_, err := Run(tbl, Options{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "multi-wait")
}

// A nil ir.Program is a programmer error, not a translator invariant
// violation: it must panic rather than return an error (matching the
// corpus's config-validation-panic idiom), so diag.Recover must not catch
// it.
func TestRunPanicsOnNilProgram(t *testing.T) {
	require.Panics(t, func() {
		_, _ = Run(nil, Options{})
	})
}

func TestRunReportsNoEntryFunction(t *testing.T) {
	tbl := ir.NewTable("")
	_, err := Run(tbl, Options{})
	require.Error(t, err)
}

// Boundary: a switch_int with more than two targets wires one transition
// per distinct target (spec.md §8, boundary behavior).
func TestSwitchIntWithManyTargets(t *testing.T) {
	tbl := ir.NewTable("main")
	tbl.Add(&ir.Function{
		ID:   "main",
		Name: "main",
		Blocks: []ir.BasicBlock{
			{Terminator: ir.Terminator{Kind: ir.TermSwitchInt, SwitchTargets: []int{1, 2, 3}}},
			returnBlock(),
			returnBlock(),
			returnBlock(),
		},
	})

	res := mustRun(t, tbl)
	n := res.Net
	mainInstance := naming.FunctionInstance("main", 0)
	require.True(t, hasTransitionLabel(n, naming.SwitchTransition(mainInstance, 0, 0, 1)))
	require.True(t, hasTransitionLabel(n, naming.SwitchTransition(mainInstance, 0, 1, 2)))
	require.True(t, hasTransitionLabel(n, naming.SwitchTransition(mainInstance, 0, 2, 3)))
}

// A function reached from two call sites is retranslated once per site
// (spec.md §4.8, "translated once per call site, not once per definition"),
// so its body's block/statement/terminator labels must be kept apart by a
// per-call-instance index rather than colliding on the bare function name
// (the failure scenario from the labeling-collision bug: two calls to the
// same helper used to panic via petrinet.Builder.reserveLabel).
func TestRepeatedCallSitesDoNotCollide(t *testing.T) {
	tbl := ir.NewTable("main")
	tbl.Add(&ir.Function{
		ID:   "main",
		Name: "main",
		Blocks: []ir.BasicBlock{
			callBlock(ir.CalleeRef{Name: "helper", Function: "helper", HasBody: true}, nil, 0, 1),
			callBlock(ir.CalleeRef{Name: "helper", Function: "helper", HasBody: true}, nil, 1, 2),
			returnBlock(),
		},
	})
	tbl.Add(&ir.Function{ID: "helper", Name: "helper", Blocks: []ir.BasicBlock{returnBlock()}})

	require.NotPanics(t, func() {
		res := mustRun(t, tbl)
		require.NotNil(t, res.Net)
	})
}

// A callee's frame, translated under its own per-call-instance label, must
// not collide with its caller's frame. (A function that calls itself is
// retranslated at every self-call without any depth bound, so such a
// fixture would never finish translating.)
func TestCalleeFrameDoesNotCollideWithCaller(t *testing.T) {
	tbl := ir.NewTable("main")
	tbl.Add(&ir.Function{
		ID:   "main",
		Name: "main",
		Blocks: []ir.BasicBlock{
			callBlock(ir.CalleeRef{Name: "count", Function: "count", HasBody: true}, nil, 0, 1),
			returnBlock(),
		},
	})
	tbl.Add(&ir.Function{
		ID:   "count",
		Name: "count",
		Blocks: []ir.BasicBlock{
			returnBlock(),
		},
	})

	require.NotPanics(t, func() {
		res := mustRun(t, tbl)
		require.NotNil(t, res.Net)
	})
}

// Translating the same IR twice must produce isomorphic nets (spec.md §8,
// testable property 6, determinism): since Builder assigns PlaceRef/
// TransitionRef ids purely by creation order, and naming is pure, two
// independent Run calls over an identical *ir.Table must produce byte-for-
// byte identical place/transition/arc slices and the same initial marking.
func TestTranslationIsDeterministic(t *testing.T) {
	build := func() ir.Program {
		tbl := ir.NewTable("main")
		tbl.Add(&ir.Function{
			ID:   "main",
			Name: "main",
			Blocks: []ir.BasicBlock{
				callBlock(ir.CalleeRef{Name: "sync.Cond.New"}, nil, 0, 1),
				callBlock(ir.CalleeRef{Name: "sync.Mutex.New"}, nil, 1, 2),
				callBlock(ir.CalleeRef{Name: "thread.Spawn", Function: "worker", HasBody: true}, []ir.Operand{{Slot: 0}, {Slot: 1}}, 2, 3),
				callBlock(ir.CalleeRef{Name: "sync.Mutex.Lock"}, []ir.Operand{{Slot: 1}}, 3, 4),
				callBlock(ir.CalleeRef{Name: "sync.Cond.Wait"}, []ir.Operand{{Slot: 0}, {Slot: 3}}, 4, 5),
				returnBlock(),
			},
		})
		tbl.Add(&ir.Function{
			ID:   "worker",
			Name: "worker",
			Blocks: []ir.BasicBlock{
				// The spawn captures only the condvar, installed at slot 1.
				callBlock(ir.CalleeRef{Name: "sync.Cond.NotifyOne"}, []ir.Operand{{Slot: 1}}, 0, 1),
				returnBlock(),
			},
		})
		return tbl
	}

	res1 := mustRun(t, build())
	res2 := mustRun(t, build())

	opts := cmp.AllowUnexported(petrinet.PlaceRef{}, petrinet.TransitionRef{})
	require.Empty(t, cmp.Diff(res1.Net.Places(), res2.Net.Places(), opts), "place sets must be isomorphic across runs")
	require.Empty(t, cmp.Diff(res1.Net.Transitions(), res2.Net.Transitions(), opts), "transition sets must be isomorphic across runs")
	require.Empty(t, cmp.Diff(res1.Net.Arcs(), res2.Net.Arcs(), opts), "arc sets must be isomorphic across runs")

	for _, p := range res1.Net.Places() {
		require.Equal(t, res1.Net.Marking(p.Ref), res2.Net.Marking(p.Ref), "marking of %q must match across runs", p.Label)
	}
}

// Boundary: a mutex that is constructed but never locked still gets a
// materialized place with its initial token (spec.md §8, boundary
// behavior) -- the Postprocessor's NewMutex task runs unconditionally.
func TestMutexNeverLockedStillMaterializes(t *testing.T) {
	tbl := ir.NewTable("main")
	tbl.Add(&ir.Function{
		ID:   "main",
		Name: "main",
		Blocks: []ir.BasicBlock{
			callBlock(ir.CalleeRef{Name: "sync.Mutex.New"}, nil, 0, 1),
			returnBlock(),
		},
	})

	res := mustRun(t, tbl)
	require.Len(t, res.Mutexes, 1)
	require.Equal(t, 1, res.Net.Marking(res.Mutexes[0].Place))
}
