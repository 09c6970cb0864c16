package memory

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syncverify/petridock/petrinet"
	"github.com/syncverify/petridock/translate/primitive"
)

func TestLinkAliasFollowsCurrentValue(t *testing.T) {
	m := New()
	mu := primitive.NewMutex(0)
	m.Link(1, primitive.FromMutex(mu))

	overwrote := m.LinkAlias(2, 1)
	require.False(t, overwrote)

	got, ok := m.GetMutex(2)
	require.True(t, ok)
	require.Same(t, mu, got)
}

func TestLinkReportsOverwrite(t *testing.T) {
	m := New()
	m.Link(1, primitive.FromMutex(primitive.NewMutex(0)))

	overwrote := m.Link(1, primitive.FromMutex(primitive.NewMutex(1)))
	require.True(t, overwrote, "overwriting a non-None slot must be reported")

	overwrote = m.Link(2, primitive.FromMutex(primitive.NewMutex(2)))
	require.False(t, overwrote, "an empty slot's first write is not an overwrite")
}

func TestHandleAggregateAndFindSyncValues(t *testing.T) {
	m := New()
	mu := primitive.NewMutex(0)
	cv := primitive.NewCondvar(petrinet.NewBuilder(), 0)
	m.Link(1, primitive.FromMutex(mu))
	m.Link(2, primitive.FromCondvar(cv))
	m.Link(3, primitive.Value{})

	m.HandleAggregate(10, []int{1, 2, 3})

	vals := m.FindSyncValues(10)
	require.Len(t, vals, 2)
	require.Equal(t, primitive.KindMutex, vals[0].Kind)
	require.Equal(t, primitive.KindCondvar, vals[1].Kind)
}

func TestIsGuard(t *testing.T) {
	m := New()
	mu := primitive.NewMutex(0)
	m.Link(1, primitive.FromGuard(primitive.NewGuard(mu)))
	m.Link(2, primitive.FromMutex(mu))

	require.True(t, m.IsGuard(1))
	require.False(t, m.IsGuard(2))
	require.False(t, m.IsGuard(99))
}

func TestDumpIsSortedAndExcludesNone(t *testing.T) {
	m := New()
	m.Link(5, primitive.FromMutex(primitive.NewMutex(0)))
	m.Link(1, primitive.FromMutex(primitive.NewMutex(1)))
	m.Link(3, primitive.Value{})

	dump := m.Dump()
	require.Len(t, dump, 2)
	require.Equal(t, 1, dump[0].Slot)
	require.Equal(t, 5, dump[1].Slot)
}
