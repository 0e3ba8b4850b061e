// File: api/stats.go
// Package api
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Stats snapshot contract (C9). Concrete counters live in package stats;
// this is the read-only view exposed to Control.Stats()/debug probes.

package api

// StreamStats is a point-in-time snapshot of one stream's counters (§4.9).
type StreamStats struct {
	StreamId          StreamId
	ReceivedPackets   uint64
	ReceivedBytes     uint64
	DroppedPackets    uint64
	ChecksumMismatch  uint64
	RedundantPackets  uint64
	UniquePackets     uint64
	LateDrops         uint64
	LostAfterWindow   uint64
	LastSequence      uint64
}
