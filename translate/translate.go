// Package translate implements the Interprocedural Driver, FunctionWalker,
// CallHandlers and Postprocessor components (spec.md §4.6-§4.9): the parts
// that turn an ir.Program into a closed petrinet.Net plus a manifest of
// sync-object references.
package translate

import (
	"github.com/syncverify/petridock/diag"
	"github.com/syncverify/petridock/internal/obslog"
	"github.com/syncverify/petridock/ir"
	"github.com/syncverify/petridock/translate/classify"
)

// Options configures a translation run. The zero Options is valid: a nil
// Classifier installs classify.DefaultClassifier, and a nil Logger
// disables debug logging (obslog.AliasOverwrite/PostprocessTaskRan both
// tolerate a nil *obslog.Logger).
type Options struct {
	// Classifier overrides the default CallClassifier name tables. Nil
	// installs classify.DefaultClassifier().
	Classifier *classify.Classifier
	// Logger receives the translator's two debug-level notices (alias
	// overwrite, postprocessor task order). Nil disables logging.
	Logger *obslog.Logger
}

// Run translates prog's whole program into a Result, from its entry
// function through every transitively spawned thread. A nil prog is a
// programmer error and panics out of Run. Translator-invariant panics
// (diag.Bug, and the BUG-prefixed panics of petrinet and primitive) never
// escape: Run recovers them at this boundary and returns the equivalent
// *diag.Error, per spec.md §7 ("the core does not log, print, or terminate
// the process").
func Run(prog ir.Program, opts Options) (result *Result, err error) {
	defer diag.Recover(&err)

	if prog == nil {
		panic(`translate: nil ir.Program`)
	}

	d := newDriver(prog, opts)
	return d.run()
}
