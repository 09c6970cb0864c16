package primitive

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syncverify/petridock/petrinet"
)

func TestNewCondvarStartsWithWaitEnabledMarked(t *testing.T) {
	b := petrinet.NewBuilder()
	cv := NewCondvar(b, 0)

	net := b.Net()
	require.Equal(t, 1, net.Marking(cv.WaitEnabled()))
	require.Equal(t, 0, net.Marking(cv.Notify()))
}

func TestLinkToWaitIsSetOnce(t *testing.T) {
	b := petrinet.NewBuilder()
	cv := NewCondvar(b, 0)
	mu := NewMutex(0)
	mu.Materialize(b)
	guard := NewGuard(mu)

	start := b.Place("CALL_START")
	end := b.Place("CALL_END")
	require.True(t, cv.LinkToWait(b, start, end, guard))
	require.False(t, cv.Linked() == false)

	start2 := b.Place("CALL2_START")
	end2 := b.Place("CALL2_END")
	require.False(t, cv.LinkToWait(b, start2, end2, guard), "a second wait link must be rejected")
	require.Same(t, guard, cv.Guard())
}

func TestLinkToNotifyMayBeCalledMultipleTimes(t *testing.T) {
	b := petrinet.NewBuilder()
	cv := NewCondvar(b, 0)
	t1 := b.Transition("NOTIFY_1")
	t2 := b.Transition("NOTIFY_2")

	cv.LinkToNotify(b, t1)
	cv.LinkToNotify(b, t2)

	net := b.Net()
	count := 0
	for _, a := range net.Arcs() {
		if a.Place == cv.Notify() && a.Direction == petrinet.Out {
			count++
		}
	}
	require.Equal(t, 2, count)
}

func TestLostSignalConsumesNotifyBeforeAnyWait(t *testing.T) {
	b := petrinet.NewBuilder()
	cv := NewCondvar(b, 0)

	net := b.Net()
	var lostIn, lostOut []petrinet.PlaceRef
	for _, a := range net.Arcs() {
		if a.Transition != cv.LostSignal() {
			continue
		}
		if a.Direction == petrinet.In {
			lostIn = append(lostIn, a.Place)
		} else {
			lostOut = append(lostOut, a.Place)
		}
	}
	require.ElementsMatch(t, []petrinet.PlaceRef{cv.WaitEnabled(), cv.Notify()}, lostIn)
	require.Equal(t, []petrinet.PlaceRef{cv.WaitEnabled()}, lostOut)
}
