// File: pipeline/queue.go
// Package pipeline implements the TX media stage graph (C7): Reader ->
// Converter/Encoder -> Framer+Sender, connected by bounded single-producer
// single-consumer queues, each stage owned by a goroutine that can be
// pinned to a configured CPU via affinity (C1).
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package pipeline

// Frame is one unit of work moving through the pipeline: a decoded
// video/audio frame's raw bytes, or the in-band EOF sentinel that
// propagates through every queue in the chain (§4.7).
type Frame struct {
	Data []byte
	EOF  bool
}

// FrameQueue is a bounded single-producer single-consumer queue between
// two pipeline stages: a fixed-capacity buffered channel, the same
// blocking-producer-on-full discipline protocol.WSConnection's
// inbox/outbox channels use, generalized from WebSocket frames to media
// frames. try_enqueue's "block the producer on the consumer's condition"
// back-pressure rule (§4.7) is exactly a buffered channel send blocking
// once the buffer is full.
type FrameQueue struct {
	ch chan Frame
}

// NewFrameQueue builds a queue with room for capacity frames.
func NewFrameQueue(capacity int) *FrameQueue {
	return &FrameQueue{ch: make(chan Frame, capacity)}
}

// Push enqueues f, blocking until space is available.
func (q *FrameQueue) Push(f Frame) { q.ch <- f }

// Pop dequeues the next frame, blocking until one is available.
func (q *FrameQueue) Pop() Frame { return <-q.ch }
