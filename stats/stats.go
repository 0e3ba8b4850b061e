// File: stats/stats.go
// Package stats implements the per-stream counters of C9: writer-owned
// relaxed atomics, reader-observed snapshots, mirrored into Prometheus
// collectors for external scraping.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package stats

import (
	"sync/atomic"

	"github.com/momentics/rivermedia/api"
)

// Counters is one stream's writer-owned counter set (§4.9, §5). Every
// field is a sync/atomic.Uint64, which the Go runtime guarantees is
// always 8-byte aligned regardless of GOARCH — the manual double-read
// workaround for torn 64-bit reads on 32-bit platforms that older C/C++
// cores need is therefore unnecessary here; Load already returns a
// consistent value on every platform Go supports.
type Counters struct {
	id api.StreamId

	receivedPackets  atomic.Uint64
	receivedBytes    atomic.Uint64
	droppedPackets   atomic.Uint64
	checksumMismatch atomic.Uint64
	redundantPackets atomic.Uint64
	uniquePackets    atomic.Uint64
	lateDrops        atomic.Uint64
	lostAfterWindow  atomic.Uint64
	lastSequence     atomic.Uint64
}

// New creates a zeroed counter set for the given stream.
func New(id api.StreamId) *Counters {
	return &Counters{id: id}
}

// AddReceived records one arriving packet of n bytes.
func (c *Counters) AddReceived(n int) {
	c.receivedPackets.Add(1)
	c.receivedBytes.Add(uint64(n))
}

// AddDropped records gap-inferred drops (path-level or end-to-end).
func (c *Counters) AddDropped(n uint64) { c.droppedPackets.Add(n) }

// AddChecksumMismatch records one synthetic-checksum-header failure.
func (c *Counters) AddChecksumMismatch() { c.checksumMismatch.Add(1) }

// AddRedundant records one IPO duplicate arrival collapsed away.
func (c *Counters) AddRedundant() { c.redundantPackets.Add(1) }

// AddUnique records one IPO first-seen arrival.
func (c *Counters) AddUnique() { c.uniquePackets.Add(1) }

// AddLateDrop records one IPO stale arrival dropped behind the release cursor.
func (c *Counters) AddLateDrop() { c.lateDrops.Add(1) }

// AddLostAfterWindow records one IPO gap skipped after the path
// differential window elapsed.
func (c *Counters) AddLostAfterWindow() { c.lostAfterWindow.Add(1) }

// SetLastSequence resets the last-sequence counter to an explicit value
// (not monotonic: §4.9 marks this one reset-to-value).
func (c *Counters) SetLastSequence(v uint64) { c.lastSequence.Store(v) }

// Snapshot reads every counter into a point-in-time api.StreamStats value.
func (c *Counters) Snapshot() api.StreamStats {
	return api.StreamStats{
		StreamId:         c.id,
		ReceivedPackets:  c.receivedPackets.Load(),
		ReceivedBytes:    c.receivedBytes.Load(),
		DroppedPackets:   c.droppedPackets.Load(),
		ChecksumMismatch: c.checksumMismatch.Load(),
		RedundantPackets: c.redundantPackets.Load(),
		UniquePackets:    c.uniquePackets.Load(),
		LateDrops:        c.lateDrops.Load(),
		LostAfterWindow:  c.lostAfterWindow.Load(),
		LastSequence:     c.lastSequence.Load(),
	}
}

// IngestIPOStats folds an ipo.Stats-shaped counter set in, for callers
// that track redundancy counters separately from the per-packet path
// (cmd/mediarx calls this once per released packet).
func (c *Counters) IngestIPOStats(unique, redundant, lateDrops, lostAfterWindow uint64) {
	c.uniquePackets.Store(unique)
	c.redundantPackets.Store(redundant)
	c.lateDrops.Store(lateDrops)
	c.lostAfterWindow.Store(lostAfterWindow)
}

// SetChecksumMismatch stores the cumulative synthetic-checksum-header
// failure count, for callers (e.g. ipo.PathStats summed across paths) that
// already track the running total themselves rather than reporting deltas.
func (c *Counters) SetChecksumMismatch(v uint64) { c.checksumMismatch.Store(v) }
