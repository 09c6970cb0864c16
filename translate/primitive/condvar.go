package primitive

import (
	"github.com/syncverify/petridock/petrinet"
	"github.com/syncverify/petridock/petrinet/naming"
)

// Condvar is the sub-net fragment for one condition variable (spec.md §4.4,
// §3). Its two places (wait_enabled and notify; no auxiliary places are
// built) and three transitions are built eagerly at construction — unlike
// Mutex, a condvar's model never needs to be deferred, since nothing about
// it depends on a call site's arguments:
//
//	wait_enabled (1 token) ── wait_start ◄── (caller start, linked on wait)
//	                       \── lost_signal ◄── notify (no initial token)
//	notify ─── notify_received ──► wait_enabled  (regenerate)
//	                            ──► (linked to caller end on wait, reverse)
type Condvar struct {
	index int

	waitEnabled petrinet.PlaceRef
	notify      petrinet.PlaceRef

	waitStart      petrinet.TransitionRef
	lostSignal     petrinet.TransitionRef
	notifyReceived petrinet.TransitionRef

	linked bool   // set once a wait call has been linked
	guard  *Guard // the guard passed to the linked wait call, if any
}

// NewCondvar builds a new condvar's sub-net fragment and registers it with
// b, identified by index.
func NewCondvar(b *petrinet.Builder, index int) *Condvar {
	waitEnabledLabel, notifyLabel := naming.CondvarPlaces(index)
	waitEnabled := b.Place(waitEnabledLabel)
	notify := b.Place(notifyLabel)
	b.Token(waitEnabled, 1)

	waitStartLabel, lostSignalLabel, notifyReceivedLabel := naming.CondvarTransitions(index)
	waitStart := b.Transition(waitStartLabel)
	lostSignal := b.Transition(lostSignalLabel)
	notifyReceived := b.Transition(notifyReceivedLabel)

	// Loop that consumes a notify token arriving before any wait.
	b.ArcIn(waitEnabled, lostSignal)
	b.ArcIn(notify, lostSignal)
	b.ArcOut(lostSignal, waitEnabled)
	// A wait may only start while enabled.
	b.ArcIn(waitEnabled, waitStart)
	// A wait only ends once its matching notify arrives.
	b.ArcIn(notify, notifyReceived)
	// Exiting the wait regenerates wait_enabled for the next wait.
	b.ArcOut(notifyReceived, waitEnabled)

	return &Condvar{
		index:          index,
		waitEnabled:    waitEnabled,
		notify:         notify,
		waitStart:      waitStart,
		lostSignal:     lostSignal,
		notifyReceived: notifyReceived,
	}
}

// Index returns the condvar's creation-order index.
func (c *Condvar) Index() int { return c.index }

// WaitEnabled returns the wait_enabled place.
func (c *Condvar) WaitEnabled() petrinet.PlaceRef { return c.waitEnabled }

// Notify returns the notify place.
func (c *Condvar) Notify() petrinet.PlaceRef { return c.notify }

// WaitStart returns the wait_start transition.
func (c *Condvar) WaitStart() petrinet.TransitionRef { return c.waitStart }

// NotifyReceived returns the notify_received transition.
func (c *Condvar) NotifyReceived() petrinet.TransitionRef { return c.notifyReceived }

// LostSignal returns the lost_signal transition.
func (c *Condvar) LostSignal() petrinet.TransitionRef { return c.lostSignal }

// Linked reports whether a wait call has already been linked.
func (c *Condvar) Linked() bool { return c.linked }

// Guard returns the guard passed to the linked wait call, or nil if none
// has been linked yet.
func (c *Condvar) Guard() *Guard { return c.guard }

// LinkToWait wires the condition variable's own transitions to the call
// site of a wait/wait_while call: start -> wait_start, notify_received ->
// end (spec.md §4.4). The mutex lock/unlock arcs that pair the guard's
// mutex with wait_start/notify_received are added separately, by the
// Postprocessor's LinkMutexToCondvar task (spec.md §4.6, §4.9) — by the
// time that task runs, guard is already recorded here for it to find.
//
// At most one wait may be linked per condvar; a second call reports that
// via the bool return, leaving the net untouched, so the caller can turn it
// into the fixed diag.UnsupportedIR(multi-wait) failure (spec.md §7).
func (c *Condvar) LinkToWait(b *petrinet.Builder, start, end petrinet.PlaceRef, guard *Guard) bool {
	if c.linked {
		return false
	}
	b.ArcIn(start, c.waitStart)
	b.ArcOut(c.notifyReceived, end)
	c.linked = true
	c.guard = guard
	return true
}

// LinkToNotify wires a notify_one call's transition to the notify place.
// May be called any number of times.
func (c *Condvar) LinkToNotify(b *petrinet.Builder, t petrinet.TransitionRef) {
	b.ArcOut(t, c.notify)
}
