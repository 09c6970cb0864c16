package translate

import (
	"github.com/syncverify/petridock/diag"
	"github.com/syncverify/petridock/internal/obslog"
	"github.com/syncverify/petridock/ir"
	"github.com/syncverify/petridock/petrinet"
	"github.com/syncverify/petridock/petrinet/naming"
)

// walkFunction implements the FunctionWalker (spec.md §4.7) for one call-
// stack record, plus the relevant half of the Interprocedural Driver
// (spec.md §4.8): when it dispatches an OrdinaryFunction call it recurses
// directly, using Go's own call stack as the LIFO the spec describes.
func (d *Driver) walkFunction(f *frame) error {
	fn, ok := d.prog.Function(f.fn)
	if !ok {
		return diag.SourceNotAvailable(f.name)
	}

	d.frameStack = append(d.frameStack, f)
	defer func() { d.frameStack = d.frameStack[:len(d.frameStack)-1] }()

	queue := []int{0}
	queued := map[int]bool{0: true}
	enqueue := func(idx int) {
		if !queued[idx] {
			queued[idx] = true
			queue = append(queue, idx)
		}
	}

	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]

		if idx < 0 || idx >= len(fn.Blocks) {
			diag.Bug("translate: %s: block index %d out of range", f.name, idx)
		}
		blk := d.getOrCreateBlock(f, idx)
		bb := fn.Blocks[idx]

		for i, stmt := range bb.Statements {
			transLabel := naming.StatementTransition(f.label, idx, i)
			endLabel := naming.StatementEndPlace(f.label, idx, i)
			newEnd := d.b.Place(endLabel)
			d.b.Connect(blk.end, newEnd, transLabel)
			blk.end = newEnd

			switch stmt.Kind {
			case ir.StatementAlias:
				if src := f.mem.Get(stmt.Source); !src.None() {
					if f.mem.LinkAlias(stmt.Dest, stmt.Source) {
						obslog.AliasOverwrite(d.logger, stmt.Dest, src.Kind.String())
					}
				}
			case ir.StatementAggregate:
				if f.mem.HandleAggregate(stmt.Dest, stmt.Operands) {
					obslog.AliasOverwrite(d.logger, stmt.Dest, "aggregate")
				}
			}
		}

		if err := d.walkTerminator(f, idx, blk, bb.Terminator, enqueue); err != nil {
			return err
		}
	}

	return nil
}

func (d *Driver) getOrCreateBlock(f *frame, idx int) *blockRecord {
	if blk, ok := f.blocks[idx]; ok {
		return blk
	}
	var start petrinet.PlaceRef
	if idx == 0 {
		start = f.start
	} else {
		start = d.b.Place(naming.BlockStart(f.label, idx))
	}
	blk := &blockRecord{start: start, end: start}
	f.blocks[idx] = blk
	return blk
}

func (d *Driver) walkTerminator(f *frame, idx int, blk *blockRecord, term ir.Terminator, enqueue func(int)) error {
	switch term.Kind {
	case ir.TermGoto:
		target := d.getOrCreateBlock(f, term.Goto)
		d.b.Connect(blk.end, target.start, naming.GotoTransition(f.label, idx, term.Goto))
		enqueue(term.Goto)
		return nil

	case ir.TermSwitchInt:
		for ti, toBlock := range term.SwitchTargets {
			target := d.getOrCreateBlock(f, toBlock)
			d.b.Connect(blk.end, target.start, naming.SwitchTransition(f.label, idx, ti, toBlock))
			enqueue(toBlock)
		}
		return nil

	case ir.TermReturn:
		d.b.Connect(blk.end, f.end, naming.FunctionReturnTransition(f.label, idx))
		return nil

	case ir.TermUnreachable:
		d.b.Connect(blk.end, d.programEnd, naming.UnreachableTransition(f.label, idx))
		return nil

	case ir.TermResume, ir.TermTerminate:
		d.b.Connect(blk.end, d.programPanic, naming.UnwindTransition(f.label, idx))
		return nil

	case ir.TermDrop:
		return d.walkDrop(f, idx, blk, term.Drop, enqueue)

	case ir.TermAssert:
		return d.walkAssert(f, idx, blk, term.Assert, enqueue)

	case ir.TermCall:
		return d.walkCall(f, idx, blk, term.Call, enqueue)

	case ir.TermUnsupported:
		return diag.UnsupportedIR(term.Shape)

	default:
		diag.Bug("translate: %s: unrecognized terminator kind %d", f.name, term.Kind)
		return nil
	}
}

func (d *Driver) walkDrop(f *frame, idx int, blk *blockRecord, drop *ir.Drop, enqueue func(int)) error {
	if drop == nil {
		diag.Bug("translate: %s: drop terminator missing its payload", f.name)
	}
	target := d.getOrCreateBlock(f, drop.Target)
	mainT := d.b.Connect(blk.end, target.start, naming.DropTransition(f.label, idx))
	enqueue(drop.Target)

	if guard, ok := f.mem.GetGuard(drop.Slot); ok {
		guard.Mutex().AddUnlockArc(d.b, mainT)
	}

	switch drop.Unwind.Kind {
	case ir.UnwindCleanup:
		cleanup := d.getOrCreateBlock(f, drop.Unwind.Cleanup)
		cbT := d.b.Connect(blk.end, cleanup.start, naming.DropUnwindTransition(f.label, idx))
		enqueue(drop.Unwind.Cleanup)
		if guard, ok := f.mem.GetGuard(drop.Slot); ok {
			guard.Mutex().AddUnlockArc(d.b, cbT)
		}
	case ir.UnwindUnreachable:
		d.b.Connect(blk.end, d.programEnd, naming.DropUnwindTransition(f.label, idx))
	}
	return nil
}

func (d *Driver) walkAssert(f *frame, idx int, blk *blockRecord, assert *ir.Assert, enqueue func(int)) error {
	if assert == nil {
		diag.Bug("translate: %s: assert terminator missing its payload", f.name)
	}
	target := d.getOrCreateBlock(f, assert.Target)
	d.b.Connect(blk.end, target.start, naming.AssertTransition(f.label, idx))
	enqueue(assert.Target)

	switch assert.Unwind.Kind {
	case ir.UnwindCleanup:
		cleanup := d.getOrCreateBlock(f, assert.Unwind.Cleanup)
		d.b.Connect(blk.end, cleanup.start, naming.AssertUnwindTransition(f.label, idx))
		enqueue(assert.Unwind.Cleanup)
	case ir.UnwindUnreachable:
		d.b.Connect(blk.end, d.programEnd, naming.AssertUnwindTransition(f.label, idx))
	}
	return nil
}

func (d *Driver) walkCall(f *frame, idx int, blk *blockRecord, call *ir.Call, enqueue func(int)) error {
	if call == nil {
		diag.Bug("translate: %s: call terminator missing its payload", f.name)
	}
	target := d.getOrCreateBlock(f, call.Target)

	var cleanup *petrinet.PlaceRef
	if call.Unwind != nil {
		cb := d.getOrCreateBlock(f, *call.Unwind)
		cp := cb.start
		cleanup = &cp
		enqueue(*call.Unwind)
	}

	site := CallSite{Start: blk.end, End: target.start, Cleanup: cleanup}
	kind := d.classifier.Classify(call.Callee.Name, call.Callee.ReceiverType, call.Callee.HasBody)

	if err := d.dispatchCall(f, idx, kind, call, site); err != nil {
		return err
	}
	enqueue(call.Target)
	return nil
}
