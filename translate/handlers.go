package translate

import (
	"github.com/syncverify/petridock/diag"
	"github.com/syncverify/petridock/ir"
	"github.com/syncverify/petridock/petrinet"
	"github.com/syncverify/petridock/petrinet/naming"
	"github.com/syncverify/petridock/translate/classify"
	"github.com/syncverify/petridock/translate/memory"
	"github.com/syncverify/petridock/translate/primitive"
)

// CallSite is the bridging-place triple a CallHandler wires its abridged
// sub-net to (spec.md §4.6).
type CallSite struct {
	Start   petrinet.PlaceRef
	End     petrinet.PlaceRef
	Cleanup *petrinet.PlaceRef // nil if the call cannot unwind
}

// dispatchCall routes a classified call to its handler (spec.md §4.6).
// block is the enclosing block index, used only by handlePanic's naming.
func (d *Driver) dispatchCall(f *frame, block int, kind classify.Kind, call *ir.Call, site CallSite) error {
	switch kind {
	case classify.KindForeign:
		d.handleForeign(call, site)
	case classify.KindPanic:
		d.handlePanic(f, block, site)
	case classify.KindDiverging:
		d.handleDiverging(call, site)
	case classify.KindOrdinaryFunction:
		return d.handleOrdinaryFunction(call, site)
	case classify.KindMutexNew:
		d.handleMutexNew(f, call, site)
	case classify.KindMutexLock:
		d.handleMutexLock(f, call, site)
	case classify.KindCondvarNew:
		d.handleCondvarNew(f, call, site)
	case classify.KindCondvarNotifyOne:
		d.handleCondvarNotifyOne(f, call, site)
	case classify.KindCondvarWait:
		return d.handleCondvarWait(f, call, site)
	case classify.KindThreadSpawn:
		d.handleThreadSpawn(f, call, site)
	case classify.KindThreadJoin:
		d.handleThreadJoin(f, call, site)
	case classify.KindSharedWrapper:
		d.handleSharedWrapper(f, call, site)
	default:
		diag.Bug("translate: unrecognized call kind %d", kind)
	}
	return nil
}

// handleForeign implements the Foreign (abridged) handler.
func (d *Driver) handleForeign(call *ir.Call, site CallSite) {
	name := call.Callee.Name
	idx := d.nextCallIndex(name)
	t := d.b.Transition(naming.ForeignCallTransition(name, idx))
	d.b.ArcIn(site.Start, t)
	d.b.ArcOut(t, site.End)

	if site.Cleanup != nil {
		tu := d.b.Transition(naming.ForeignCallUnwindTransition(name, idx))
		d.b.ArcIn(site.Start, tu)
		d.b.ArcOut(tu, *site.Cleanup)
	}
}

// handlePanic implements the Panic handler: a transition to PROGRAM_PANIC,
// with end left untouched (spec.md §4.6). The transition is named from the
// enclosing frame's own per-call-instance label, not the callee's name:
// the callee name alone is not unique across two call sites (or two
// instances of a recursive function) that both happen to panic from the
// same block index.
func (d *Driver) handlePanic(f *frame, block int, site CallSite) {
	t := d.b.Transition(naming.FunctionPanicTransition(f.label, block))
	d.b.ArcIn(site.Start, t)
	d.b.ArcOut(t, d.programPanic)
}

// handleDiverging implements the Diverging handler: a transition with no
// output arc, an intentional token sink.
func (d *Driver) handleDiverging(call *ir.Call, site CallSite) {
	name := call.Callee.Name
	idx := d.nextCallIndex(name)
	t := d.b.Transition(naming.FunctionDivergingCallTransition(name, idx))
	d.b.ArcIn(site.Start, t)
}

// handleOrdinaryFunction implements the OrdinaryFunction handler: push a
// callee frame whose start/end reuse this call site's bridging places, and
// translate it immediately by recursing (spec.md §4.8).
func (d *Driver) handleOrdinaryFunction(call *ir.Call, site CallSite) error {
	fn, ok := d.prog.Function(call.Callee.Function)
	if !ok {
		return diag.SourceNotAvailable(call.Callee.Name)
	}
	callee := &frame{
		fn:     call.Callee.Function,
		name:   fn.Name,
		label:  d.nextFrameLabel(fn.Name),
		start:  site.Start,
		end:    site.End,
		mem:    memory.New(),
		blocks: make(map[int]*blockRecord),
	}
	return d.walkFunction(callee)
}

// handleMutexNew implements the MutexNew handler (spec.md §4.6). The
// mutex's place is not created here — it's enqueued as a priority-2
// NewMutex Postprocessor task, so it exists exactly once however many call
// sites (or call-graph paths) construct one.
func (d *Driver) handleMutexNew(f *frame, call *ir.Call, site CallSite) {
	name := call.Callee.Name
	idx := d.nextCallIndex(name)
	t := d.b.Transition(naming.ForeignCallTransition(name, idx))
	d.b.ArcIn(site.Start, t)
	d.b.ArcOut(t, site.End)

	mu := primitive.NewMutex(d.mutexSeq)
	d.mutexSeq++
	d.mutexManifest = append(d.mutexManifest, mu)
	d.enqueueTask(deferredTask{kind: taskNewMutex, priority: priorityNewMutex, mutex: mu})

	f.mem.Link(call.Dest, primitive.FromMutex(mu))
}

// handleMutexLock implements the MutexLock handler.
func (d *Driver) handleMutexLock(f *frame, call *ir.Call, site CallSite) {
	name := call.Callee.Name
	idx := d.nextCallIndex(name)
	t := d.b.Transition(naming.ForeignCallTransition(name, idx))
	d.b.ArcIn(site.Start, t)
	d.b.ArcOut(t, site.End)

	mu, ok := f.mem.GetMutex(call.Args[0].Slot)
	if !ok {
		diag.Bug("translate: %s: lock call's receiver slot %d does not hold a mutex", f.name, call.Args[0].Slot)
	}
	mu.AddLockArc(d.b, t)

	guard := primitive.NewGuard(mu)
	f.mem.Link(call.Dest, primitive.FromGuard(guard))
}

// handleCondvarNew implements the CondvarNew handler.
func (d *Driver) handleCondvarNew(f *frame, call *ir.Call, site CallSite) {
	name := call.Callee.Name
	idx := d.nextCallIndex(name)
	t := d.b.Transition(naming.ForeignCallTransition(name, idx))
	d.b.ArcIn(site.Start, t)
	d.b.ArcOut(t, site.End)

	cv := primitive.NewCondvar(d.b, d.condvarSeq)
	d.condvars[d.condvarSeq] = cv
	d.condvarManifest = append(d.condvarManifest, cv)
	d.condvarSeq++

	f.mem.Link(call.Dest, primitive.FromCondvar(cv))
}

// handleCondvarNotifyOne implements the CondvarNotifyOne handler. The
// cleanup path is deliberately ignored (spec.md §7, "benign policy
// choices").
func (d *Driver) handleCondvarNotifyOne(f *frame, call *ir.Call, site CallSite) {
	name := call.Callee.Name
	idx := d.nextCallIndex(name)
	t := d.b.Transition(naming.ForeignCallTransition(name, idx))
	d.b.ArcIn(site.Start, t)
	d.b.ArcOut(t, site.End)

	cv, ok := f.mem.GetCondvar(call.Args[0].Slot)
	if !ok {
		diag.Bug("translate: %s: notify_one call's receiver slot %d does not hold a condvar", f.name, call.Args[0].Slot)
	}
	cv.LinkToNotify(d.b, t)
}

// handleCondvarWait implements the CondvarWait handler. Unlike the other
// abridged handlers, it adds no transition of its own: the condvar's own
// wait_start/notify_received transitions (built at CondvarNew time) bridge
// start to end directly, once Condvar.LinkToWait wires them in (spec.md
// §4.4, mirroring original_source's link_to_wait_call, which connects the
// call site straight to the condvar's existing transitions).
func (d *Driver) handleCondvarWait(f *frame, call *ir.Call, site CallSite) error {
	cv, ok := f.mem.GetCondvar(call.Args[0].Slot)
	if !ok {
		diag.Bug("translate: %s: wait call's receiver slot %d does not hold a condvar", f.name, call.Args[0].Slot)
	}
	guard, ok := f.mem.GetGuard(call.Args[1].Slot)
	if !ok {
		diag.Bug("translate: %s: wait call's guard slot %d does not hold a mutex guard", f.name, call.Args[1].Slot)
	}

	// A second wait/wait_while against the same condvar is a hard failure,
	// not a translator bug (spec.md §7, "multi-wait").
	if !cv.LinkToWait(d.b, site.Start, site.End, guard) {
		return diag.UnsupportedIR("multi-wait")
	}
	f.mem.Link(call.Dest, primitive.FromGuard(guard))

	d.enqueueTask(deferredTask{
		kind:       taskLinkMutexToCondvar,
		priority:   priorityLinkMutexToCondvar,
		condvarIdx: cv.Index(),
	})
	return nil
}

// handleThreadSpawn implements the ThreadSpawn handler.
func (d *Driver) handleThreadSpawn(f *frame, call *ir.Call, site CallSite) {
	idx := d.threadSeq
	spawn := d.b.Transition(naming.ThreadSpawnTransition(idx))
	d.b.ArcIn(site.Start, spawn)
	d.b.ArcOut(spawn, site.End)

	// A single captured sync value is installed directly rather than
	// wrapped in a one-element aggregate, since the callee has no
	// field-projection statement to unwrap it again (spec.md §4.3 only
	// defines whole-value aliasing and aggregate construction, not
	// projection): this keeps the common case of a closure capturing one
	// mutex/condvar/join-handle immediately usable by the thread body's own
	// first lock/wait/join call. A closure capturing more than one sync
	// value lands as a flat aggregate of the captured values in depth-first
	// order: None fields are dropped and nested aggregates are flattened, so
	// its positions need not match the closure's own field positions
	// (DESIGN.md, Open Question 3, "Closure-capture unpacking").
	captured := f.mem.FindSyncValues(call.Args[0].Slot)
	var aggregate primitive.Value
	if len(captured) == 1 {
		aggregate = captured[0]
	} else {
		aggregate = primitive.FromAggregate(captured)
	}

	entryFnID := call.Callee.Function
	if entryFnID == "" && len(call.Args) > 0 {
		// No resolved callee (a value closure passed by operand rather than
		// a direct call): fall back to the argument operand's type text,
		// which an upstream resolver may encode as the closure's definition
		// id when it cannot supply CalleeRef.Function directly.
		entryFnID = ir.FunctionID(call.Args[0].TypeText)
	}

	th := primitive.NewThread(spawn, entryFnID, aggregate, idx)
	d.threadSeq++
	d.threadManifest = append(d.threadManifest, th)
	d.threadFIFO = append(d.threadFIFO, th)

	f.mem.Link(call.Dest, primitive.FromThread(th))
}

// handleThreadJoin implements the ThreadJoin handler.
func (d *Driver) handleThreadJoin(f *frame, call *ir.Call, site CallSite) {
	th, ok := f.mem.GetThread(call.Args[0].Slot)
	if !ok {
		diag.Bug("translate: %s: join call's receiver slot %d does not hold a join handle", f.name, call.Args[0].Slot)
	}
	jt := d.b.Transition(naming.ThreadJoinTransition(th.Index()))
	d.b.ArcIn(site.Start, jt)
	d.b.ArcOut(jt, site.End)
	th.SetJoin(jt)
}

// handleSharedWrapper implements the SharedWrapper (passthrough) handler.
func (d *Driver) handleSharedWrapper(f *frame, call *ir.Call, site CallSite) {
	name := call.Callee.Name
	idx := d.nextCallIndex(name)
	t := d.b.Transition(naming.SharedWrapperTransition(name, idx))
	d.b.ArcIn(site.Start, t)
	d.b.ArcOut(t, site.End)

	if len(call.Args) == 0 {
		return
	}
	if v := f.mem.Get(call.Args[0].Slot); !v.None() {
		f.mem.Link(call.Dest, v)
	}
}
