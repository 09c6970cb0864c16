// Package obslog wraps the teacher corpus's structured logging stack
// (github.com/joeycumines/logiface, with github.com/joeycumines/stumpy as
// its concrete JSON event/writer) for the translator's two debug-level
// notices: Memory's aliasing-overwrite notice and the Postprocessor's
// deferred-task run order (SPEC_FULL.md "Ambient Stack", Logging). Neither
// notice is something a caller needs to branch on — those always travel
// as *diag.Error — so this package exists purely to make the translator's
// internals observable, the way the teacher's own packages log.
package obslog

import (
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the concrete logger type translate.Driver logs through.
type Logger = logiface.Logger[*stumpy.Event]

// Default returns a Logger writing newline-delimited JSON to os.Stderr, the
// same default stumpy.L.New gives callers that pass no WithWriter option
// (logiface-stumpy's own example_test.go usage).
func Default() *Logger {
	return stumpy.L.New(stumpy.L.WithStumpy())
}

// AliasOverwrite logs Memory's aliasing-overwrite notice (spec.md §4.3):
// slot already held a sync value when a new one was linked into it.
func AliasOverwrite(l *Logger, slot int, newKind string) {
	if l == nil {
		return
	}
	l.Debug().
		Int(`slot`, slot).
		Str(`new_kind`, newKind).
		Log(`memory slot aliased over a live sync value`)
}

// PostprocessTaskRan logs one deferred Postprocessor task's execution
// order (spec.md §4.9), after priority/enqueue-order sorting.
func PostprocessTaskRan(l *Logger, sequence int, kind string, priority int) {
	if l == nil {
		return
	}
	l.Debug().
		Int(`sequence`, sequence).
		Str(`task_kind`, kind).
		Int(`priority`, priority).
		Log(`postprocessor task ran`)
}
