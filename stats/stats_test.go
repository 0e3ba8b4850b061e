// File: stats/stats_test.go
package stats_test

import (
	"testing"

	"github.com/momentics/rivermedia/api"
	"github.com/momentics/rivermedia/stats"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestCountersSnapshot(t *testing.T) {
	c := stats.New(api.StreamId(7))
	c.AddReceived(100)
	c.AddReceived(200)
	c.AddDropped(3)
	c.AddChecksumMismatch()
	c.SetLastSequence(42)

	snap := c.Snapshot()
	require.Equal(t, api.StreamId(7), snap.StreamId)
	require.Equal(t, uint64(2), snap.ReceivedPackets)
	require.Equal(t, uint64(300), snap.ReceivedBytes)
	require.Equal(t, uint64(3), snap.DroppedPackets)
	require.Equal(t, uint64(1), snap.ChecksumMismatch)
	require.Equal(t, uint64(42), snap.LastSequence)
}

func TestRegistryForStreamCreatesOnce(t *testing.T) {
	r := stats.NewRegistry()
	a := r.ForStream(1)
	b := r.ForStream(1)
	require.Same(t, a, b)

	a.AddReceived(10)
	require.Len(t, r.Snapshot(), 1)

	r.Remove(1)
	require.Len(t, r.Snapshot(), 0)
}

func TestRegistryRecordErrorOnlyTracksChecksumIssue(t *testing.T) {
	r := stats.NewRegistry()
	r.RecordError(1, api.ErrKindChecksumIssue)
	r.RecordError(1, api.ErrKindBusy)

	snap := r.ForStream(1).Snapshot()
	require.Equal(t, uint64(1), snap.ChecksumMismatch)
}

func TestPrometheusMirrorRefreshIsMonotonic(t *testing.T) {
	r := stats.NewRegistry()
	c := r.ForStream(2)
	c.AddReceived(5)

	reg := prometheus.NewRegistry()
	mirror := stats.NewPrometheusMirror(r, reg)
	mirror.Refresh()

	c.AddReceived(7)
	mirror.Refresh()

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)

	var bytesTotal float64
	for _, mf := range families {
		if mf.GetName() == "rivermedia_received_bytes_total" {
			bytesTotal = mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	require.Equal(t, float64(12), bytesTotal)
}
