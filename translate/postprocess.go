package translate

import (
	"sort"

	"github.com/syncverify/petridock/diag"
	"github.com/syncverify/petridock/internal/obslog"
	"github.com/syncverify/petridock/translate/primitive"
)

// taskKind distinguishes the two deferred-task variants spec.md §3/§4.9
// names.
type taskKind int

const (
	taskLinkMutexToCondvar taskKind = iota
	taskNewMutex
)

func (k taskKind) String() string {
	if k == taskNewMutex {
		return "new_mutex"
	}
	return "link_mutex_to_condvar"
}

// Postprocessor priorities (spec.md §4.9): ascending, ties broken by
// enqueue order.
const (
	priorityLinkMutexToCondvar = 1
	priorityNewMutex           = 2
)

// deferredTask is one entry of the Postprocessor's work list (spec.md §3,
// "Deferred task").
type deferredTask struct {
	kind     taskKind
	priority int
	sequence int // enqueue order, for the stable tie-break

	// taskNewMutex
	mutex *primitive.Mutex

	// taskLinkMutexToCondvar
	condvarIdx int
}

func (d *Driver) enqueueTask(t deferredTask) {
	t.sequence = len(d.tasks)
	d.tasks = append(d.tasks, t)
}

// runPostprocessor runs every deferred task in ascending-priority order,
// ties broken by enqueue order (spec.md §4.9).
func (d *Driver) runPostprocessor() {
	sort.SliceStable(d.tasks, func(i, j int) bool {
		if d.tasks[i].priority != d.tasks[j].priority {
			return d.tasks[i].priority < d.tasks[j].priority
		}
		return d.tasks[i].sequence < d.tasks[j].sequence
	})

	for i, t := range d.tasks {
		switch t.kind {
		case taskLinkMutexToCondvar:
			d.runLinkMutexToCondvar(t)
		case taskNewMutex:
			t.mutex.Materialize(d.b)
		default:
			diag.Bug("translate: postprocessor: unrecognized task kind %d", t.kind)
		}
		obslog.PostprocessTaskRan(d.logger, i, t.kind.String(), t.priority)
	}
}

// runLinkMutexToCondvar pairs the guard's mutex, recorded by Condvar.
// LinkToWait, with wait_start/notify_received: the mutex unlocks exactly
// when wait_start fires and re-locks at notify_received (spec.md §4.4,
// §4.9).
func (d *Driver) runLinkMutexToCondvar(t deferredTask) {
	cv, ok := d.condvars[t.condvarIdx]
	if !ok {
		diag.Bug("translate: postprocessor: no condvar registered at index %d", t.condvarIdx)
	}
	guard := cv.Guard()
	if guard == nil {
		diag.Bug("translate: postprocessor: condvar %d has no guard recorded for its linked wait", t.condvarIdx)
	}
	mu := guard.Mutex()
	mu.AddUnlockArc(d.b, cv.WaitStart())
	mu.AddLockArc(d.b, cv.NotifyReceived())
}
