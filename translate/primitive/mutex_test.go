package primitive

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syncverify/petridock/petrinet"
)

func TestMutexPlaceStartsWithOneToken(t *testing.T) {
	b := petrinet.NewBuilder()
	mu := NewMutex(0)
	place := mu.Materialize(b)

	net := b.Net()
	require.Equal(t, 1, net.Marking(place))
	require.Equal(t, "MUTEX_0", net.PlaceLabel(place))
}

func TestMutexPlacePanicsBeforeMaterialize(t *testing.T) {
	mu := NewMutex(0)
	require.Panics(t, func() { mu.Place() })
}

func TestMutexMaterializeIsIdempotent(t *testing.T) {
	b := petrinet.NewBuilder()
	mu := NewMutex(0)
	first := mu.Materialize(b)
	second := mu.Materialize(b)
	require.Equal(t, first, second)
	require.Len(t, b.Net().Places(), 1)
}

func TestMutexBuffersArcsBeforeMaterialize(t *testing.T) {
	b := petrinet.NewBuilder()
	mu := NewMutex(0)
	lock := b.Transition("LOCK")
	unlock := b.Transition("UNLOCK")

	mu.AddLockArc(b, lock)
	mu.AddUnlockArc(b, unlock)
	require.Empty(t, b.Net().Arcs(), "arcs must stay buffered until Materialize")

	place := mu.Materialize(b)
	arcs := b.Net().Arcs()
	require.Len(t, arcs, 2)
	for _, a := range arcs {
		require.Equal(t, place, a.Place)
	}
}

func TestMutexArcsAfterMaterializeApplyImmediately(t *testing.T) {
	b := petrinet.NewBuilder()
	mu := NewMutex(0)
	mu.Materialize(b)

	lock := b.Transition("LOCK")
	mu.AddLockArc(b, lock)
	require.Len(t, b.Net().Arcs(), 1)
}
