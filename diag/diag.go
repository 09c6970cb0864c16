// Package diag provides the translator's structured error taxonomy
// (spec.md §6-7). The core never logs, prints, or terminates the process on
// failure: every failure, including an internal invariant violation, is
// returned to the caller as a *diag.Error.
package diag

import (
	"fmt"
	"strings"
)

// Kind enumerates the exit conditions from the translator's entry point
// (spec.md §6).
type Kind string

const (
	// KindSourceNotAvailable means the upstream compiler collaborator could
	// not supply IR for a function the translator needed to descend into.
	KindSourceNotAvailable Kind = "source_not_available"
	// KindUnsupportedIR means a terminator or statement shape the
	// translator does not model was encountered (spec.md §7).
	KindUnsupportedIR Kind = "unsupported_ir"
	// KindNoEntryFunction means the IR's program entry function is missing.
	KindNoEntryFunction Kind = "no_entry_function"
	// InvariantViolation means a translator-internal bug fired; these
	// should never occur on valid inputs (spec.md §7).
	InvariantViolation Kind = "invariant_violation"
)

// Error is the single structured error type returned across the
// translator's boundary.
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// New constructs an *Error of the given kind.
func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// Newf is New with fmt.Sprintf-style formatting of detail.
func Newf(kind Kind, format string, args ...any) *Error {
	return New(kind, fmt.Sprintf(format, args...))
}

// UnsupportedIR builds an UnsupportedIR error naming the offending shape.
func UnsupportedIR(shape string) *Error {
	return New(KindUnsupportedIR, fmt.Sprintf("unsupported IR shape: %s", shape))
}

// NoEntryFunction builds the fixed NoEntryFunction error.
func NoEntryFunction() *Error {
	return New(KindNoEntryFunction, "no program entry function was found")
}

// SourceNotAvailable builds a SourceNotAvailable error naming the callee.
func SourceNotAvailable(callee string) *Error {
	return Newf(KindSourceNotAvailable, "no IR body available for %q", callee)
}

// bugPanic is the sentinel type recovered at the translator's boundary and
// converted into an InvariantViolation error. It is never returned to a
// caller directly; only Recover (deferred in translate.Run) produces the
// *Error a caller observes.
type bugPanic struct{ msg string }

// Bug panics with a BUG-prefixed message, for translator-internal
// invariants that should never fire on valid input (spec.md §7). It is the
// Go analogue of the teacher corpus's config-validation panics (e.g.
// microbatch.NewBatcher), except the translator's boundary always recovers
// it — see Recover.
func Bug(format string, args ...any) {
	panic(bugPanic{msg: "BUG: " + fmt.Sprintf(format, args...)})
}

// Recover must be deferred at the translator's single entry point. If the
// recovered value is a Bug panic, or a string panic carrying the same
// "BUG: " prefix (as petrinet.Builder and the primitive sync objects raise),
// *errp is set to the corresponding InvariantViolation error and the panic
// is suppressed; any other recovered value is re-panicked unchanged, since
// it is not a translator invariant violation and is not something the
// translator's contract promises to convert.
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	var msg string
	switch v := r.(type) {
	case bugPanic:
		msg = v.msg
	case string:
		if !strings.HasPrefix(v, "BUG: ") {
			panic(r)
		}
		msg = v
	default:
		panic(r)
	}
	*errp = New(InvariantViolation, msg)
}
