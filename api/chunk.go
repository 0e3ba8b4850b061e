// File: api/chunk.go
// Package api
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Chunk (§3): a contiguous slice of the ring, the unit of commit (TX) and
// completion (RX). Exactly one owner at a time.

package api

// ChunkSlot is a TX chunk acquired from the transport, ready to be written
// into and then committed.
type ChunkSlot struct {
	StreamId StreamId
	Index    uint64 // monotonically increasing chunk sequence within the stream
	Header   []Buffer // one Buffer view per packet's header sub-block entry, or nil if !HDS
	Payload  []Buffer // one Buffer view per packet's payload sub-block entry
}

// PacketCount returns the number of packets in this chunk.
func (c ChunkSlot) PacketCount() int { return len(c.Payload) }

// Completion is an RX chunk handed back from the transport after the NIC
// has filled it.
type Completion struct {
	StreamId    StreamId
	Index       uint64
	Header      []Buffer
	Payload     []Buffer
	ArrivalNs   []uint64 // per-packet arrival timestamp
	FlowTags    []FlowTag
	ChecksumBad []bool // per-packet soft checksum-mismatch flag
}

// PacketCount returns the number of packets in this completion.
func (c Completion) PacketCount() int { return len(c.Payload) }
