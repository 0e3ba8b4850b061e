// File: schedule/heap.go
// Package schedule implements the send scheduler (C6): a min-heap timer
// queue completing the teacher's unfinished Scheduler sketch, plus the
// TRO/T0 send-time math and the loop-mode EOF synchroniser.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package schedule

import "container/heap"

// task is one scheduled callback, ordered by deadline in the min-heap.
type task struct {
	deadlineNs int64
	fn         func()
	index      int  // heap index, maintained by container/heap for O(log n) cancel
	canceled   bool
}

// taskHeap is a container/heap.Interface min-heap ordered by deadline,
// completing the teacher's internal/concurrency/scheduler.go sketch (which
// declared a bare `timerQ taskHeap` field with no heap methods).
type taskHeap []*task

func (h taskHeap) Len() int            { return len(h) }
func (h taskHeap) Less(i, j int) bool  { return h[i].deadlineNs < h[j].deadlineNs }
func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *taskHeap) Push(x any) {
	t := x.(*task)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

var _ heap.Interface = (*taskHeap)(nil)
