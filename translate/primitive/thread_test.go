package primitive

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syncverify/petridock/ir"
	"github.com/syncverify/petridock/petrinet"
)

func TestThreadStartEndPanicBeforePrepare(t *testing.T) {
	th := NewThread(petrinet.TransitionRef{}, "fn", Value{}, 0)
	require.Panics(t, func() { th.Start() })
	require.Panics(t, func() { th.End() })
}

func TestThreadPrepareWiresSpawnAndIsIdempotent(t *testing.T) {
	b := petrinet.NewBuilder()
	spawn := b.Transition("SPAWN")
	th := NewThread(spawn, "fn", Value{}, 0)

	fn, start, end := th.Prepare(b)
	require.Equal(t, ir.FunctionID("fn"), fn)
	require.Equal(t, start, th.Start())
	require.Equal(t, end, th.End())

	fn2, start2, end2 := th.Prepare(b)
	require.Equal(t, fn, fn2)
	require.Equal(t, start, start2)
	require.Equal(t, end, end2)
	require.Len(t, b.Net().Places(), 2, "Prepare must not re-create places on a second call")
}

func TestThreadSetJoinIsSetOnce(t *testing.T) {
	b := petrinet.NewBuilder()
	spawn := b.Transition("SPAWN")
	th := NewThread(spawn, "fn", Value{}, 0)
	th.Prepare(b)

	join := b.Transition("JOIN")
	require.True(t, th.SetJoin(join))
	require.False(t, th.SetJoin(join), "a second SetJoin must report false")
}

func TestMoveSyncVariablesInstallsAggregateAtSlotOne(t *testing.T) {
	mu := NewMutex(0)
	aggregate := FromAggregate([]Value{FromMutex(mu)})
	th := NewThread(petrinet.TransitionRef{}, "fn", aggregate, 0)

	var gotSlot int
	var gotVal Value
	th.MoveSyncVariables(func(slot int, v Value) { gotSlot, gotVal = slot, v })

	require.Equal(t, 1, gotSlot)
	require.Equal(t, aggregate, gotVal)
}
