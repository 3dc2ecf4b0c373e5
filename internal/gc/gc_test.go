package gc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollectorTracksRequestCount(t *testing.T) {
	c := New()
	require.Equal(t, uint64(0), c.Requested())

	c.Collect()
	c.Collect()
	require.Equal(t, uint64(2), c.Requested())
}

func TestSnapshotReportsNonZeroHeap(t *testing.T) {
	s := Snapshot()
	require.Greater(t, s.HeapAlloc, uint64(0))
}
