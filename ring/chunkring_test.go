// File: ring/chunkring_test.go
// Author: momentics <momentics@gmail.com>
package ring

import (
	"testing"

	"github.com/momentics/rivermedia/api"
	"github.com/momentics/rivermedia/memsub"
	"github.com/stretchr/testify/require"
)

func TestNewChunkRingPreallocates(t *testing.T) {
	alloc := memsub.New(nil)
	header := api.SubBlockParams{EntrySize: 20}
	payload := api.SubBlockParams{EntrySize: 1400}

	cr, err := New(alloc, 8, 4, header, payload)
	require.NoError(t, err)
	require.Equal(t, 8, cr.Cap())

	idx, ok := cr.Acquire()
	require.True(t, ok)
	slot := cr.Slot(idx)
	require.Len(t, slot.Header, 4)
	require.Len(t, slot.Payload, 4)
	require.Equal(t, 20, len(slot.Header[0].Data))
	require.Equal(t, 1400, len(slot.Payload[0].Data))
}

func TestChunkRingAcquireCommitRelease(t *testing.T) {
	alloc := memsub.New(nil)
	cr, err := New(alloc, 2, 1, api.SubBlockParams{}, api.SubBlockParams{EntrySize: 64})
	require.NoError(t, err)

	idx1, ok := cr.Acquire()
	require.True(t, ok)
	idx2, ok := cr.Acquire()
	require.True(t, ok)
	_, ok = cr.Acquire()
	require.False(t, ok, "NoFreeChunk once slots exhausted")

	require.True(t, cr.Commit(idx1))
	next, ok := cr.NextReady()
	require.True(t, ok)
	require.Equal(t, idx1, next)

	require.True(t, cr.Release(idx1))
	idx3, ok := cr.Acquire()
	require.True(t, ok)
	require.Equal(t, idx1, idx3)

	require.True(t, cr.Commit(idx2))
}
