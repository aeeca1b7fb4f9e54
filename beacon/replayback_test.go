package beacon

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSlotBatchIterBoundaryLaw(t *testing.T) {
	_, ok := NewSlotBatchIter(3, 10, 0)
	require.False(t, ok, "batch size 0 must not yield an iterator")

	_, ok = NewSlotBatchIter(3, 10, 1)
	require.False(t, ok, "batch size 1 must not yield an iterator")

	_, ok = NewSlotBatchIter(3, 3, 2)
	require.False(t, ok, "slot_start == slot_end must not yield an iterator")

	_, ok = NewSlotBatchIter(10, 3, 2)
	require.False(t, ok, "slot_start > slot_end must not yield an iterator")

	_, ok = NewSlotBatchIter(10, 3, 0)
	require.False(t, ok, "slot_start > slot_end and batch size 0 must not yield an iterator")

	_, ok = NewSlotBatchIter(3, 10, 2)
	require.True(t, ok, "a valid range and batch size must yield an iterator")
}

func TestSlotBatchIterScenarioOne(t *testing.T) {
	it, ok := NewSlotBatchIter(3, 10, 3)
	require.True(t, ok)

	type batch struct{ start, end uint64 }
	var got []batch
	for {
		start, end, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, batch{start, end})
	}

	require.Equal(t, []batch{
		{8, 10},
		{6, 8},
		{4, 6},
		{3, 4},
	}, got)
}

func TestSlotBatchIterBatchSizeTwo(t *testing.T) {
	it, ok := NewSlotBatchIter(3, 10, 2)
	require.True(t, ok)

	start, end, ok := it.Next()
	require.True(t, ok)
	require.Equal(t, uint64(9), start)
	require.Equal(t, uint64(10), end)

	start, end, ok = it.Next()
	require.True(t, ok)
	require.Equal(t, uint64(7), start)
	require.Equal(t, uint64(8), end)

	start, end, ok = it.Next()
	require.True(t, ok)
	require.Equal(t, uint64(5), start)
	require.Equal(t, uint64(6), end)

	start, end, ok = it.Next()
	require.True(t, ok)
	require.Equal(t, uint64(3), start)
	require.Equal(t, uint64(4), end)

	_, _, ok = it.Next()
	require.False(t, ok, "the iterator must terminate once slot_start is reached")
}
