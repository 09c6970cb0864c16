// Package naming builds every place and transition label used by the
// translator (spec.md §4.2). Every function here is pure: given the same
// arguments it returns the same label, which is what makes translation
// deterministic (spec.md §8, testable property 6).
package naming

import (
	"fmt"
	"regexp"
)

// The three distinguished places that always exist (spec.md §3).
const (
	ProgramStart = "PROGRAM_START"
	ProgramEnd   = "PROGRAM_END"
	ProgramPanic = "PROGRAM_PANIC"
)

var reserved = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// Sanitize replaces every run of characters outside [A-Za-z0-9_] with a
// single underscore, guaranteeing the result matches the label character
// set required by spec.md §6 ("[A-Za-z0-9_]+"). It is idempotent:
// Sanitize(Sanitize(x)) == Sanitize(x), since the replacement character
// itself is never subject to further replacement.
func Sanitize(s string) string {
	if s == "" {
		return "_"
	}
	return reserved.ReplaceAllString(s, "_")
}

// FunctionInstance builds the per-call-instance identifier every other
// naming function in this file should be given as its fn argument, instead
// of a function's bare name: spec.md §4.8 requires a function's body to be
// retranslated from scratch for every call site (and for every recursive
// self-call), so the bare name alone is not unique across those copies —
// the second translation of any repeatedly-called function would otherwise
// reuse the first copy's BB/statement/terminator labels, violating the
// unique-label invariant (spec.md §8, testable property 1). instance is a
// Driver-wide sequence number, one per distinct function name (grounded on
// original_source/src/naming/function.rs's indexed_mir_function_name and
// original_source/src/translator/function_counter.rs).
func FunctionInstance(name string, instance int) string {
	return fmt.Sprintf("%s_%d", name, instance)
}

// FunctionReturnTransition names the transition a `return` terminator wires
// from its block straight into the enclosing call site's end place
// (spec.md §4.7).
func FunctionReturnTransition(fn string, index int) string {
	return fmt.Sprintf("%s_%d_RETURN", Sanitize(fn), index)
}

// FunctionPanicTransition names a transition from a block to PROGRAM_PANIC.
func FunctionPanicTransition(fn string, block int) string {
	return fmt.Sprintf("%s_BB%d_PANIC", Sanitize(fn), block)
}

// FunctionDivergingCallTransition names a diverging foreign call.
func FunctionDivergingCallTransition(fn string, index int) string {
	return fmt.Sprintf("%s_%d_DIVERGING", Sanitize(fn), index)
}

// BlockStart names the start place of a (non-entry) basic block.
func BlockStart(fn string, block int) string {
	return fmt.Sprintf("%s_BB%d_START", Sanitize(fn), block)
}

// BlockEnd names the end place of a basic block once it has at least one
// statement; before that, the block's end place is its start place.
func BlockEnd(fn string, block int) string {
	return fmt.Sprintf("%s_BB%d_END", Sanitize(fn), block)
}

// GotoTransition names the transition for a `goto` terminator.
func GotoTransition(fn string, fromBlock, toBlock int) string {
	return fmt.Sprintf("%s_BB%d_GOTO_BB%d", Sanitize(fn), fromBlock, toBlock)
}

// SwitchTransition names one transition of a `switch_int` terminator, one
// per distinct target index.
func SwitchTransition(fn string, fromBlock, targetIndex, toBlock int) string {
	return fmt.Sprintf("%s_BB%d_SWITCH%d_BB%d", Sanitize(fn), fromBlock, targetIndex, toBlock)
}

// DropTransition names the main edge of a `drop` terminator.
func DropTransition(fn string, block int) string {
	return fmt.Sprintf("%s_BB%d_DROP", Sanitize(fn), block)
}

// DropUnwindTransition names the parallel cleanup edge of a `drop`
// terminator whose unwind action is Cleanup.
func DropUnwindTransition(fn string, block int) string {
	return fmt.Sprintf("%s_BB%d_DROP_UNWIND", Sanitize(fn), block)
}

// AssertTransition names the main edge of an `assert` terminator.
func AssertTransition(fn string, block int) string {
	return fmt.Sprintf("%s_BB%d_ASSERT", Sanitize(fn), block)
}

// AssertUnwindTransition names the parallel cleanup edge of an `assert`
// terminator whose unwind action is Cleanup.
func AssertUnwindTransition(fn string, block int) string {
	return fmt.Sprintf("%s_BB%d_ASSERT_UNWIND", Sanitize(fn), block)
}

// UnreachableTransition names the edge from an `unreachable` terminator to
// the designated sink (PROGRAM_END).
func UnreachableTransition(fn string, block int) string {
	return fmt.Sprintf("%s_BB%d_UNREACHABLE", Sanitize(fn), block)
}

// UnwindTransition names the edge from a `resume`/`terminate` terminator to
// PROGRAM_PANIC.
func UnwindTransition(fn string, block int) string {
	return fmt.Sprintf("%s_BB%d_UNWIND", Sanitize(fn), block)
}

// StatementTransition names the transition added for one statement.
func StatementTransition(fn string, block, stmt int) string {
	return fmt.Sprintf("%s_BB%d_STMT%d", Sanitize(fn), block, stmt)
}

// StatementEndPlace names the place after one statement's transition.
func StatementEndPlace(fn string, block, stmt int) string {
	return fmt.Sprintf("%s_BB%d_STMT%d_END", Sanitize(fn), block, stmt)
}

// ForeignCallTransition names an abridged foreign-call transition. index is
// per-callee-name, per spec.md §4.6.
func ForeignCallTransition(name string, index int) string {
	return fmt.Sprintf("%s_%d_CALL", Sanitize(name), index)
}

// ForeignCallUnwindTransition names the unwind sibling of an abridged
// foreign-call transition.
func ForeignCallUnwindTransition(name string, index int) string {
	return fmt.Sprintf("%s_%d_CALL_UNWIND", Sanitize(name), index)
}

// SharedWrapperTransition names an abridged shared-ownership wrapper call
// (Arc::new/clone/deref/deref_mut/unwrap and analogues).
func SharedWrapperTransition(name string, index int) string {
	return fmt.Sprintf("%s_%d_SHARED", Sanitize(name), index)
}

// MutexPlace names a mutex's single place.
func MutexPlace(index int) string {
	return fmt.Sprintf("MUTEX_%d", index)
}

// CondvarPlaces names a condvar's two own places: wait_enabled and notify.
func CondvarPlaces(index int) (waitEnabled, notify string) {
	return fmt.Sprintf("CONDVAR_%d_WAIT_ENABLED", index), fmt.Sprintf("CONDVAR_%d_NOTIFY", index)
}

// CondvarTransitions names a condvar's three transitions.
func CondvarTransitions(index int) (waitStart, lostSignal, notifyReceived string) {
	return fmt.Sprintf("CONDVAR_%d_WAIT_START", index),
		fmt.Sprintf("CONDVAR_%d_LOST_SIGNAL", index),
		fmt.Sprintf("CONDVAR_%d_NOTIFY_RECEIVED", index)
}

// ThreadStart names a thread's start place.
func ThreadStart(index int) string { return fmt.Sprintf("THREAD_%d_START", index) }

// ThreadEnd names a thread's end place.
func ThreadEnd(index int) string { return fmt.Sprintf("THREAD_%d_END", index) }

// ThreadSpawnTransition names the transition that produces the token into
// a thread's start place.
func ThreadSpawnTransition(index int) string { return fmt.Sprintf("THREAD_%d_SPAWN", index) }

// ThreadJoinTransition names the transition that consumes the token from a
// thread's end place.
func ThreadJoinTransition(index int) string { return fmt.Sprintf("THREAD_%d_JOIN", index) }
