// Package ir defines the typed control-flow IR contract the translator
// consumes (spec.md §6, "Inputs the core consumes"). Producing this IR from
// source text is the job of an upstream compiler collaborator, explicitly
// out of scope for this module (spec.md §1); this package only fixes the
// shape that collaborator must hand over.
package ir

// FunctionID identifies a function or closure definition. It is the value
// an upstream compiler's resolver maps a call operand to (spec.md §6,
// "A facility to resolve an operand to the definition id of a callee").
type FunctionID string

// Program is the whole-program view the translator walks. A concrete
// implementation is ordinarily a thin adapter over a real compiler's query
// system; tests in this module use the in-memory Table implementation.
type Program interface {
	// EntryFunction returns the program's entry point, if one exists.
	EntryFunction() (FunctionID, bool)
	// Function resolves a FunctionID to its body.
	Function(id FunctionID) (*Function, bool)
}

// Function is one compiled function or closure body: an ordered list of
// basic blocks, the first of which is always the entry block (spec.md
// §4.7, "the first block of a function reuses the function's start-place").
type Function struct {
	ID     FunctionID
	Name   string // canonical dotted name, used when this function is itself a callee
	Blocks []BasicBlock
}

// BasicBlock is a sequence of statements followed by exactly one terminator
// (spec.md §3).
type BasicBlock struct {
	Statements []Statement
	Terminator Terminator
}

// StatementKind distinguishes the statement shapes the translator inspects
// for aliasing effects from every other (ignored) statement kind (spec.md
// §4.7, step 3).
type StatementKind int

const (
	// StatementOther covers any statement with no aliasing effect on
	// Memory: numeric assignments, storage markers, and the like.
	StatementOther StatementKind = iota
	// StatementAlias is an assignment whose right-hand side is a move,
	// copy, or borrow of a single other slot (Source).
	StatementAlias
	// StatementAggregate is an assignment constructing an aggregate value
	// (a struct/tuple/closure-environment literal) from Operands.
	StatementAggregate
)

// Statement is one non-terminating instruction within a basic block.
type Statement struct {
	Kind StatementKind
	// Dest is the assigned slot; meaningful for StatementAlias and
	// StatementAggregate.
	Dest int
	// Source is the aliased slot, for StatementAlias.
	Source int
	// Operands are the aggregate's field slots, for StatementAggregate,
	// positionally ordered.
	Operands []int
}

// TerminatorKind enumerates every terminator shape named in spec.md §4.7.
type TerminatorKind int

const (
	TermGoto TerminatorKind = iota
	TermSwitchInt
	TermReturn
	TermUnreachable
	TermResume
	TermTerminate
	TermDrop
	TermCall
	TermAssert
	// TermUnsupported covers generator/yield/inline-asm/false-edge/
	// false-unwind and any other shape the translator does not model; Shape
	// names the offending construct for the resulting diag.UnsupportedIR.
	TermUnsupported
)

// UnwindKind enumerates how a terminator's cleanup edge behaves (spec.md
// §4.7, `drop`).
type UnwindKind int

const (
	// UnwindContinue means there is no distinct cleanup edge.
	UnwindContinue UnwindKind = iota
	// UnwindCleanup means control may transfer to Cleanup on unwind.
	UnwindCleanup
	// UnwindTerminate means unwinding terminates the thread; modeled the
	// same as UnwindContinue (only the main edge is added).
	UnwindTerminate
	// UnwindUnreachable means reaching this unwind path is itself a bug in
	// the source program; an extra edge to the sink is added.
	UnwindUnreachable
)

// UnwindAction is the cleanup behavior attached to drop/assert/call
// terminators.
type UnwindAction struct {
	Kind    UnwindKind
	Cleanup int // target block index, meaningful for UnwindCleanup
}

// CalleeRef identifies a call's target, resolved as far as the upstream
// collaborator is able (spec.md §6).
type CalleeRef struct {
	// Name is the canonical dotted name used for CallClassifier matching
	// (spec.md §4.5), e.g. "sync.Mutex.Lock".
	Name string
	// ReceiverType is the type text of the call's self/receiver operand,
	// used for substring matching to recognize wrapper types like
	// JoinHandle[T] (spec.md §6, "sufficient to type-check an operand's
	// carrier for substring matching on its text").
	ReceiverType string
	// Function is the resolved definition id, set whenever HasBody is
	// true.
	Function FunctionID
	// HasBody reports whether this callee has an IR body in this
	// compilation unit (spec.md §4.5).
	HasBody bool
}

// Operand is an argument to a call: the slot it reads, plus that slot's
// type text (the ThreadSpawn handler reads it as the entry function id when
// CalleeRef.Function is empty; wrapper/JoinHandle recognition uses
// CalleeRef.ReceiverType instead).
type Operand struct {
	Slot     int
	TypeText string
}

// Call is a `call` terminator's payload.
type Call struct {
	Callee  CalleeRef
	Args    []Operand
	Dest    int
	Target  int // block index taken on normal return
	Unwind  *int
}

// Drop is a `drop` terminator's payload.
type Drop struct {
	Slot   int
	Target int
	Unwind UnwindAction
}

// Assert is an `assert` terminator's payload.
type Assert struct {
	Target int
	Unwind UnwindAction
}

// Terminator is the single control-flow-ending instruction of a basic
// block (spec.md §4.7).
type Terminator struct {
	Kind TerminatorKind

	Goto          int   // TermGoto
	SwitchTargets []int // TermSwitchInt, one block index per distinct target

	Call  *Call  // TermCall
	Drop  *Drop  // TermDrop
	Assert *Assert // TermAssert

	// Shape names the offending construct, for TermUnsupported.
	Shape string
}
