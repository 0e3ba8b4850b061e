// File: api/stream.go
// Package api
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Stream data model (§3): a long-lived entity bound to a NIC interface
// address, with a fixed packet layout and ring capacity, and a TX or RX role.

package api

// StreamId identifies a stream handle returned by Transport.CreateTX/CreateRX.
type StreamId uint64

// Role distinguishes a TX stream (application produces chunks) from an RX
// stream (the NIC produces completions).
type Role int

const (
	RoleTX Role = iota
	RoleRX
)

// SubBlockParams describes one sub-block (header or payload) of a stream's
// packet layout (§3). When StrideBytes is zero the ring layer uses the
// cache-line-aligned ceiling of EntrySize; the computed stride is not
// written back into these params.
type SubBlockParams struct {
	EntrySize   int
	StrideBytes int
	MemKey      MemKey
}

// StreamParams configures stream creation. HDS (header-data split) is
// selected by providing a non-zero Header.EntrySize.
type StreamParams struct {
	Role            Role
	DeviceInterface string
	PacketsPerChunk int
	NumChunks       int
	Header          SubBlockParams // zero value => no HDS
	Payload         SubBlockParams
	// CompletionMinChunk/MaxChunk/WaitTimeoutNs configure RX completion
	// moderation (§4.3).
	CompletionMinChunk  int
	CompletionMaxChunk  int
	CompletionTimeoutNs uint64
	// ChecksumHeader synthesizes a sequence+checksum header (§4.9,
	// --checksum-header) around every packet written to the wire, verified
	// on receive to detect loss/corruption independent of the transport's
	// own framing.
	ChecksumHeader bool
	// DSCP is the IP DSCP code point (0-63) applied to this stream's UDP
	// socket via IP_TOS (§4.5.3); 0 leaves the socket unmarked.
	DSCP int
}

// HDS reports whether this stream splits header and payload sub-blocks.
func (p StreamParams) HDS() bool { return p.Header.EntrySize > 0 }
