// File: api/transport.go
// Package api
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Transport abstraction (C3): stream create/destroy, chunk acquire/commit,
// flow attach, and event-driven wait, generalized from the teacher's
// api.Transport / api.NetConn Send/Recv contract into the chunk-ring model
// of §4.3.

package api

// NetConn abstracts a full-duplex network connection object that may or may
// not be backed by Go's net.Conn, for transports that expose a raw fd
// (§DOMAIN STACK netfd wiring).
type NetConn interface {
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
	Close() error
	RawFD() uintptr
}

// TransportFeatures advertises capability flags of a Transport backend.
type TransportFeatures struct {
	ZeroCopy  bool
	Batch     bool
	NUMAAware bool
	HDS       bool
	OS        []string
}

// Transport is the per-process handle to the NIC offload primitive. All
// per-stream operations below take a StreamId obtained from CreateTX/CreateRX.
//
// Ordering: within one stream, commits are strictly FIFO and completions are
// strictly FIFO; across streams no ordering is guaranteed (§4.3).
type Transport interface {
	// CreateTX / CreateRX create a stream from StreamParams, returning a
	// handle. Fails InvalidArgument on an invalid topology, NotInitialized
	// when the stream's device interface cannot be opened, Unsupported if
	// HDS is requested but the backend cannot do it.
	CreateTX(params StreamParams) (StreamId, error)
	CreateRX(params StreamParams) (StreamId, error)

	// Destroy tears a stream down, retrying internally while Busy.
	Destroy(id StreamId) error

	// GetNextChunk acquires the next TX chunk, or returns NoFreeChunk if the
	// producer index would overrun the HW consumer, or Signal on shutdown.
	GetNextChunk(id StreamId) (ChunkSlot, error)

	// CommitChunk submits a previously acquired TX chunk for transmission at
	// timestampNs (0 meaning "send as soon as possible after the previous
	// commit", per the scheduler's mid-frame convention). Returns QueueFull
	// (retryable), HwCompletionIssue (fatal to this stream), or Signal.
	CommitChunk(id StreamId, slot ChunkSlot, timestampNs uint64) error

	// GetNextCompletion retrieves the next RX completion, or ChecksumIssue
	// (soft, per-packet — the completion is still returned) or Signal.
	GetNextCompletion(id StreamId) (Completion, error)

	// AttachFlow / DetachFlow manage flow matching on an RX stream.
	// DetachFlow is idempotent, returning NotAttached is not an error for
	// callers that treat detach as best-effort.
	AttachFlow(id StreamId, flow Flow) error
	DetachFlow(id StreamId, tag FlowTag) error

	// RequestNotification blocks on the stream's event channel
	// (epoll/IOCP/io_uring completion wait) and returns when the HW has
	// advanced, or when Signal is observed.
	RequestNotification(id StreamId) error

	// Features reports this backend's capabilities.
	Features() TransportFeatures

	// Close releases the process-wide transport context. Idempotent.
	Close() error
}
