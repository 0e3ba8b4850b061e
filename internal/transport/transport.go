// File: internal/transport/transport.go
// Package transport implements the NIC offload abstraction (C3): stream
// lifecycle, chunk acquire/commit/completion, and flow attach, generalized
// from the teacher's api.Transport Send/Recv socket wrapper into the
// chunk-ring model of §4.3.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package transport

import (
	"net"
	"sync"
	"sync/atomic"

	"github.com/momentics/rivermedia/api"
	"github.com/momentics/rivermedia/internal/ringbuf"
	"github.com/momentics/rivermedia/ring"
	"github.com/rs/xid"
)

const completionQueueCapacity = 4096

// stream holds everything one TX or RX stream needs: its chunk ring, its
// socket, its attached flows, and the completion queue the device-facing
// loop feeds.
type stream struct {
	id     api.StreamId
	params api.StreamParams
	ring   *ring.ChunkRing
	conn   *net.UDPConn

	mu    sync.RWMutex
	flows map[api.FlowTag]api.Flow

	completions *ringbuf.LockFree[api.Completion]
	notify      chan struct{}

	nextIndex   atomic.Uint64
	checksumSeq atomic.Uint32
	closed      atomic.Bool
	stopCh      chan struct{}
	wg          sync.WaitGroup

	pendingMu sync.Mutex
	pending   map[uint64]int // chunk sequence index -> ring position, live between acquire and commit
}

// Transport is the process-wide handle managing every TX/RX stream.
type Transport struct {
	alloc api.Allocator

	mu      sync.RWMutex
	streams map[api.StreamId]*stream
	closed  atomic.Bool
}

var _ api.Transport = (*Transport)(nil)

// New constructs a Transport backed by alloc for chunk-slot storage.
func New(alloc api.Allocator) *Transport {
	return &Transport{alloc: alloc, streams: make(map[api.StreamId]*stream)}
}

func newStreamID() api.StreamId {
	id := xid.New()
	b := id.Bytes()
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return api.StreamId(v)
}

func (t *Transport) createStream(params api.StreamParams) (*stream, error) {
	if params.NumChunks <= 0 || params.PacketsPerChunk <= 0 {
		return nil, api.NewError(api.ErrKindInvalidArgument, "transport: NumChunks and PacketsPerChunk must be positive")
	}
	cr, err := ring.New(t.alloc, params.NumChunks, params.PacketsPerChunk, params.Header, params.Payload)
	if err != nil {
		return nil, err
	}
	conn, err := bindUDP(params)
	if err != nil {
		return nil, err
	}
	s := &stream{
		id:          newStreamID(),
		params:      params,
		ring:        cr,
		conn:        conn,
		flows:       make(map[api.FlowTag]api.Flow),
		completions: ringbuf.NewLockFree[api.Completion](completionQueueCapacity),
		notify:      make(chan struct{}, 1),
		stopCh:      make(chan struct{}),
		pending:     make(map[uint64]int),
	}

	t.mu.Lock()
	t.streams[s.id] = s
	t.mu.Unlock()

	switch params.Role {
	case api.RoleTX:
		s.wg.Add(1)
		go s.sendLoop()
	case api.RoleRX:
		s.wg.Add(1)
		go s.recvLoop()
	}
	return s, nil
}

// CreateTX creates a send stream.
func (t *Transport) CreateTX(params api.StreamParams) (api.StreamId, error) {
	params.Role = api.RoleTX
	s, err := t.createStream(params)
	if err != nil {
		return 0, err
	}
	return s.id, nil
}

// CreateRX creates a receive stream.
func (t *Transport) CreateRX(params api.StreamParams) (api.StreamId, error) {
	params.Role = api.RoleRX
	s, err := t.createStream(params)
	if err != nil {
		return 0, err
	}
	return s.id, nil
}

func (t *Transport) lookup(id api.StreamId) (*stream, error) {
	t.mu.RLock()
	s, ok := t.streams[id]
	t.mu.RUnlock()
	if !ok {
		return nil, api.NewError(api.ErrKindNotInitialized, "transport: unknown stream")
	}
	return s, nil
}

// Destroy stops a stream's loop, closes its socket and removes the stream.
// The chunk ring's buffers are not handed back to the allocator through
// Free; they are left to the garbage collector.
func (t *Transport) Destroy(id api.StreamId) error {
	s, err := t.lookup(id)
	if err != nil {
		return err
	}
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(s.stopCh)
	_ = s.conn.Close()
	s.wg.Wait()

	t.mu.Lock()
	delete(t.streams, id)
	t.mu.Unlock()
	return nil
}

// GetNextChunk acquires the next free TX chunk slot.
func (t *Transport) GetNextChunk(id api.StreamId) (api.ChunkSlot, error) {
	s, err := t.lookup(id)
	if err != nil {
		return api.ChunkSlot{}, err
	}
	idx, ok := s.ring.Acquire()
	if !ok {
		return api.ChunkSlot{}, api.NewError(api.ErrKindNoFreeChunk, "transport: TX ring exhausted")
	}
	slot := s.ring.Slot(idx)
	slot.StreamId = id
	seq := s.nextIndex.Add(1) - 1
	slot.Index = seq

	s.pendingMu.Lock()
	s.pending[seq] = idx
	s.pendingMu.Unlock()
	return slot, nil
}

// CommitChunk queues slot on the ready ring for the send loop. timestampNs
// is not used: the send loop transmits committed chunks in FIFO order as
// soon as it drains them, without waiting for a send time.
func (t *Transport) CommitChunk(id api.StreamId, slot api.ChunkSlot, timestampNs uint64) error {
	s, err := t.lookup(id)
	if err != nil {
		return err
	}
	s.pendingMu.Lock()
	idx, ok := s.pending[slot.Index]
	delete(s.pending, slot.Index)
	s.pendingMu.Unlock()
	if !ok {
		return api.NewError(api.ErrKindInvalidArgument, "transport: commit of unacquired chunk")
	}
	if !s.ring.Commit(idx) {
		return api.NewError(api.ErrKindQueueFull, "transport: TX ready ring full")
	}
	return nil
}

// GetNextCompletion retrieves the next RX completion, or Busy when none is
// queued. Checksum failures are not returned as ChecksumIssue; they are
// flagged per packet in Completion.ChecksumBad.
func (t *Transport) GetNextCompletion(id api.StreamId) (api.Completion, error) {
	s, err := t.lookup(id)
	if err != nil {
		return api.Completion{}, err
	}
	c, ok := s.completions.Dequeue()
	if !ok {
		return api.Completion{}, api.NewError(api.ErrKindBusy, "transport: no completion ready")
	}
	return c, nil
}

// AttachFlow registers a 4-tuple match rule on an RX stream and joins its
// multicast group if DstIP is a multicast address.
func (t *Transport) AttachFlow(id api.StreamId, flow api.Flow) error {
	s, err := t.lookup(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	if _, exists := s.flows[flow.Tag]; exists {
		s.mu.Unlock()
		return api.NewError(api.ErrKindAlreadyAttached, "transport: flow tag already attached")
	}
	s.flows[flow.Tag] = flow
	s.mu.Unlock()

	if err := joinMulticastIfNeeded(s.conn, flow.DstIP); err != nil {
		s.mu.Lock()
		delete(s.flows, flow.Tag)
		s.mu.Unlock()
		return err
	}
	return nil
}

// DetachFlow removes a previously attached flow. Idempotent.
func (t *Transport) DetachFlow(id api.StreamId, tag api.FlowTag) error {
	s, err := t.lookup(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	flow, ok := s.flows[tag]
	delete(s.flows, tag)
	s.mu.Unlock()
	if !ok {
		return nil
	}
	return leaveMulticastIfNeeded(s.conn, flow.DstIP)
}

// RequestNotification blocks until the stream's background loop reports
// progress, or the stream is closed (observed as Signal).
func (t *Transport) RequestNotification(id api.StreamId) error {
	s, err := t.lookup(id)
	if err != nil {
		return err
	}
	select {
	case <-s.notify:
		return nil
	case <-s.stopCh:
		return api.Signal
	}
}

// Features reports this backend's capabilities.
func (t *Transport) Features() api.TransportFeatures {
	return detectFeatures()
}

// Close releases every remaining stream.
func (t *Transport) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}
	t.mu.RLock()
	ids := make([]api.StreamId, 0, len(t.streams))
	for id := range t.streams {
		ids = append(ids, id)
	}
	t.mu.RUnlock()
	for _, id := range ids {
		_ = t.Destroy(id)
	}
	return nil
}
