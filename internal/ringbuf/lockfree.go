// File: internal/ringbuf/lockfree.go
// Package ringbuf provides the bounded MPMC queue shared by the memory
// substrate's recycle pools and the transport's per-stream completion
// queues.
//
// Based on the Dmitry Vyukov MPMC bounded-queue pattern.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package ringbuf

import "sync/atomic"

const cacheLinePad = 64

type cell[T any] struct {
	sequence atomic.Uint64
	data     T
}

// LockFree is a fixed-capacity multi-producer/multi-consumer queue.
type LockFree[T any] struct {
	head uint64
	_    [cacheLinePad]byte
	tail uint64
	_    [cacheLinePad]byte
	mask uint64
	cells []cell[T]
}

// NewLockFree creates a queue whose capacity is rounded up to a power of two.
func NewLockFree[T any](capacity int) *LockFree[T] {
	if capacity < 2 {
		capacity = 2
	}
	size := 1
	for size < capacity {
		size <<= 1
	}
	q := &LockFree[T]{mask: uint64(size - 1), cells: make([]cell[T], size)}
	for i := range q.cells {
		q.cells[i].sequence.Store(uint64(i))
	}
	return q
}

// Enqueue adds val; returns false if the queue is full.
func (q *LockFree[T]) Enqueue(val T) bool {
	for {
		tail := atomic.LoadUint64(&q.tail)
		index := tail & q.mask
		c := &q.cells[index]
		seq := c.sequence.Load()
		diff := int64(seq) - int64(tail)
		switch {
		case diff == 0:
			if atomic.CompareAndSwapUint64(&q.tail, tail, tail+1) {
				c.data = val
				c.sequence.Store(tail + 1)
				return true
			}
		case diff < 0:
			return false
		}
	}
}

// Dequeue removes and returns the oldest item; ok is false if empty.
func (q *LockFree[T]) Dequeue() (item T, ok bool) {
	for {
		head := atomic.LoadUint64(&q.head)
		index := head & q.mask
		c := &q.cells[index]
		seq := c.sequence.Load()
		diff := int64(seq) - int64(head+1)
		switch {
		case diff == 0:
			if atomic.CompareAndSwapUint64(&q.head, head, head+1) {
				item = c.data
				c.sequence.Store(head + q.mask + 1)
				return item, true
			}
		case diff < 0:
			var zero T
			return zero, false
		}
	}
}

// Len returns an instantaneous (racy) occupancy estimate.
func (q *LockFree[T]) Len() int {
	tail := atomic.LoadUint64(&q.tail)
	head := atomic.LoadUint64(&q.head)
	if tail < head {
		return 0
	}
	return int(tail - head)
}

// Cap returns the queue's fixed capacity.
func (q *LockFree[T]) Cap() int { return int(q.mask + 1) }
