package translate

import (
	"github.com/syncverify/petridock/diag"
	"github.com/syncverify/petridock/internal/obslog"
	"github.com/syncverify/petridock/ir"
	"github.com/syncverify/petridock/petrinet"
	"github.com/syncverify/petridock/petrinet/naming"
	"github.com/syncverify/petridock/translate/classify"
	"github.com/syncverify/petridock/translate/memory"
	"github.com/syncverify/petridock/translate/primitive"
)

// frame is one call-stack record (spec.md §3, "Call-stack record"): a
// function activation's identity, its bridging places, its own Memory and
// its own, never-memoized, basic-block map (spec.md §4.8, "Cycle
// handling").
type frame struct {
	fn   ir.FunctionID
	name string // the function's plain name, for diagnostics only

	// label is the per-call-instance identifier (naming.FunctionInstance)
	// every BB/statement/terminator label is keyed on, instead of name:
	// name alone is not unique across the multiple, independent
	// translations a repeatedly- or recursively-called function gets, one
	// per call site (spec.md §4.8, §8 testable property 1).
	label string

	start, end petrinet.PlaceRef

	mem    *memory.Memory
	blocks map[int]*blockRecord
}

// blockRecord is one basic block's translation state (spec.md §3, "Basic
// block"). end equals start until the block's first statement transition
// is added.
type blockRecord struct {
	start, end petrinet.PlaceRef
}

// Driver implements the Interprocedural Driver (spec.md §4.8): it owns the
// NetBuilder, the classifier, the program's three distinguished places,
// every counter and registry CallHandlers need, the deferred-task list the
// Postprocessor consumes, and the FIFO of pending thread bodies.
type Driver struct {
	prog       ir.Program
	b          *petrinet.Builder
	classifier *classify.Classifier
	logger     *obslog.Logger

	programStart petrinet.PlaceRef
	programEnd   petrinet.PlaceRef
	programPanic petrinet.PlaceRef

	mutexSeq   int
	condvarSeq int
	threadSeq  int
	callSeq    map[string]int // per-callee-name counter (spec.md §4.6, "The i index is per-name")

	condvars map[int]*primitive.Condvar // index -> condvar, for LinkMutexToCondvar lookup

	tasks []deferredTask // append order preserved; Postprocessor stable-sorts by priority

	threadFIFO []*primitive.Thread

	// manifest accumulators, in creation order (SPEC_FULL.md "Supplemented
	// features", point 3).
	mutexManifest   []*primitive.Mutex
	condvarManifest []*primitive.Condvar
	threadManifest  []*primitive.Thread

	// frameStack mirrors the Go call stack's active frames, kept purely for
	// diagnostics (spec.md §4.8, "Driver owns ... a LIFO call stack of
	// records"): the real suspension/resumption is Go's own native
	// recursion through walkFunction, which already behaves as a LIFO
	// stack. The slice is only written; no diagnostic reads it.
	frameStack []*frame
}

func newDriver(prog ir.Program, opts Options) *Driver {
	classifier := opts.Classifier
	if classifier == nil {
		classifier = classify.DefaultClassifier()
	}
	return &Driver{
		prog:       prog,
		b:          petrinet.NewBuilder(),
		classifier: classifier,
		logger:     opts.Logger,
		callSeq:    make(map[string]int),
		condvars:   make(map[int]*primitive.Condvar),
	}
}

func (d *Driver) nextCallIndex(name string) int {
	idx := d.callSeq[name]
	d.callSeq[name] = idx + 1
	return idx
}

// nextFrameLabel returns the per-call-instance label a new frame for the
// function named name should translate under (spec.md §4.8). It reuses the
// same Driver-wide per-name counter nextCallIndex draws from, since nothing
// requires a dedicated sequence just for this.
func (d *Driver) nextFrameLabel(name string) string {
	return naming.FunctionInstance(name, d.nextCallIndex(name))
}

// run executes the full control loop described in spec.md §4.8.
func (d *Driver) run() (*Result, error) {
	entry, ok := d.prog.EntryFunction()
	if !ok {
		return nil, diag.NoEntryFunction()
	}

	d.programStart = d.b.Place(naming.ProgramStart)
	d.programEnd = d.b.Place(naming.ProgramEnd)
	d.programPanic = d.b.Place(naming.ProgramPanic)
	d.b.Token(d.programStart, 1)

	entryFn, ok := d.prog.Function(entry)
	if !ok {
		return nil, diag.SourceNotAvailable(string(entry))
	}

	root := &frame{
		fn:     entry,
		name:   entryFn.Name,
		label:  d.nextFrameLabel(entryFn.Name),
		start:  d.programStart,
		end:    d.programEnd,
		mem:    memory.New(),
		blocks: make(map[int]*blockRecord),
	}
	if err := d.walkFunction(root); err != nil {
		return nil, err
	}

	for len(d.threadFIFO) > 0 {
		th := d.threadFIFO[0]
		d.threadFIFO = d.threadFIFO[1:]

		entryFnID, start, end := th.Prepare(d.b)
		fn, ok := d.prog.Function(entryFnID)
		if !ok {
			return nil, diag.SourceNotAvailable(string(entryFnID))
		}

		mem := memory.New()
		th.MoveSyncVariables(func(slot int, v primitive.Value) { mem.Link(slot, v) })

		f := &frame{
			fn:     entryFnID,
			name:   fn.Name,
			label:  d.nextFrameLabel(fn.Name),
			start:  start,
			end:    end,
			mem:    mem,
			blocks: make(map[int]*blockRecord),
		}
		if err := d.walkFunction(f); err != nil {
			return nil, err
		}
	}

	d.runPostprocessor()

	return &Result{
		Net:      d.b.Net(),
		Mutexes:  mutexManifest(d.mutexManifest),
		Condvars: condvarManifest(d.condvarManifest),
		Threads:  threadManifest(d.threadManifest),
	}, nil
}
