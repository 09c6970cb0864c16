// Package classify implements the CallClassifier component (spec.md §4.5):
// mapping a call's canonical callee name (plus its receiver type text, for
// wrapper recognition) to one of the closed set of call kinds the
// translator's CallHandlers dispatch on.
package classify

import "strings"

// Kind enumerates every call kind spec.md §3/§4.5 names.
type Kind int

const (
	KindMutexNew Kind = iota
	KindMutexLock
	KindCondvarNew
	KindCondvarNotifyOne
	KindCondvarWait
	KindThreadSpawn
	KindThreadJoin
	KindSharedWrapper
	KindPanic
	KindDiverging
	KindOrdinaryFunction
	KindForeign
)

func (k Kind) String() string {
	switch k {
	case KindMutexNew:
		return "mutex_new"
	case KindMutexLock:
		return "mutex_lock"
	case KindCondvarNew:
		return "condvar_new"
	case KindCondvarNotifyOne:
		return "condvar_notify_one"
	case KindCondvarWait:
		return "condvar_wait"
	case KindThreadSpawn:
		return "thread_spawn"
	case KindThreadJoin:
		return "thread_join"
	case KindSharedWrapper:
		return "shared_wrapper"
	case KindPanic:
		return "panic"
	case KindDiverging:
		return "diverging"
	case KindOrdinaryFunction:
		return "ordinary_function"
	default:
		return "foreign"
	}
}

// Classifier holds the configurable name tables CallClassifier matches
// against (SPEC_FULL.md "Supplemented features", point 1): spec.md fixes
// these sets as part of the external interface, but a caller translating
// IR from a front-end with different canonical names needs to be able to
// retarget them without forking this package.
type Classifier struct {
	MutexNew          []string
	MutexLock         []string
	CondvarNew        []string
	CondvarNotifyOne  []string
	CondvarWait       []string
	ThreadSpawn       []string
	ThreadJoin        []string
	SharedWrapper     []string
	Panic             []string
	Diverging         []string
}

// DefaultClassifier returns the name tables grounded on original_source's
// special_function.rs and sync/{mutex,condvar,thread}.rs canonical names,
// adapted to this module's dotted Go-style ir.CalleeRef.Name convention.
func DefaultClassifier() *Classifier {
	return &Classifier{
		MutexNew:  []string{"sync.Mutex.New", "sync.NewMutex"},
		MutexLock: []string{"sync.Mutex.Lock"},

		CondvarNew:       []string{"sync.Cond.New", "sync.NewCond"},
		CondvarNotifyOne: []string{"sync.Cond.Signal", "sync.Cond.NotifyOne"},
		CondvarWait:      []string{"sync.Cond.Wait", "sync.Cond.WaitWhile"},

		ThreadSpawn: []string{"thread.Spawn", "go.Spawn"},
		ThreadJoin:  []string{"thread.JoinHandle.Join"},

		SharedWrapper: []string{
			"sync.Arc.New", "sync.Arc.Clone", "sync.Arc.Deref", "sync.Arc.DerefMut", "sync.Arc.Unwrap",
		},

		Panic: []string{
			"runtime.panicking.AssertFailed",
			"runtime.panicking.Panic",
			"runtime.panicking.PanicFmt",
			"runtime.BeginPanic",
			"runtime.BeginPanicFmt",
		},

		Diverging: []string{
			"process.Exit",
			"runtime.Abort",
		},
	}
}

// Classify applies spec.md §4.5's ordered, first-match table. hasBody
// reports whether the callee has an IR body in this compilation unit
// (ir.CalleeRef.HasBody); receiverType is the callee's receiver/self
// operand's type text, used for substring matching to recognize wrapper
// types such as JoinHandle[T] regardless of their type parameter.
func (c *Classifier) Classify(name, receiverType string, hasBody bool) Kind {
	switch {
	case contains(c.MutexNew, name):
		return KindMutexNew
	case contains(c.MutexLock, name):
		return KindMutexLock
	case contains(c.CondvarNew, name):
		return KindCondvarNew
	case contains(c.CondvarNotifyOne, name):
		return KindCondvarNotifyOne
	case contains(c.CondvarWait, name):
		return KindCondvarWait
	case contains(c.ThreadSpawn, name):
		return KindThreadSpawn
	case matchesJoin(c.ThreadJoin, name, receiverType):
		return KindThreadJoin
	case contains(c.SharedWrapper, name):
		return KindSharedWrapper
	case contains(c.Panic, name):
		return KindPanic
	case contains(c.Diverging, name):
		return KindDiverging
	case hasBody:
		return KindOrdinaryFunction
	default:
		return KindForeign
	}
}

func contains(set []string, name string) bool {
	for _, s := range set {
		if s == name {
			return true
		}
	}
	return false
}

// matchesJoin additionally accepts any call whose receiver type text
// contains "JoinHandle", covering generic instantiations like
// JoinHandle[int] whose canonical name may carry a type-parameter suffix
// the fixed name table does not enumerate (spec.md §6, "sufficient to
// type-check an operand's carrier for substring matching on its text").
func matchesJoin(set []string, name, receiverType string) bool {
	if contains(set, name) {
		return true
	}
	return strings.Contains(receiverType, "JoinHandle")
}
