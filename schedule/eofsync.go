// File: schedule/eofsync.go
// Author: momentics <momentics@gmail.com>
package schedule

import "sync"

// LoopRealignGapNs is the gap added after the slowest stream's next send
// time when realigning every stream at a loop-mode EOF rendezvous (§4.6).
const LoopRealignGapNs = 100_000_000 // 100ms

// EOFSynchroniser rendezvouses N streams of one logical program (video,
// audio, ancillary) at end-of-loop-iteration, releasing them together at
// a common re-aligned send time so per-stream drift never accumulates
// across loop iterations.
type EOFSynchroniser struct {
	mu       sync.Mutex
	expected int
	arrived  int
	maxNext  int64
	release  chan int64
	waiters  []chan int64
}

// NewEOFSynchroniser builds a rendezvous point for the given number of
// streams (e.g. 3 for video+audio+ancillary).
func NewEOFSynchroniser(expected int) *EOFSynchroniser {
	return &EOFSynchroniser{expected: expected}
}

// ArriveAndWait blocks until every expected stream has called it for the
// current loop iteration, then returns the common re-aligned next send
// time: max(all streams' nextSendNs) + LoopRealignGapNs.
func (s *EOFSynchroniser) ArriveAndWait(nextSendNs int64) int64 {
	s.mu.Lock()
	if nextSendNs > s.maxNext {
		s.maxNext = nextSendNs
	}
	ch := make(chan int64, 1)
	s.waiters = append(s.waiters, ch)
	s.arrived++

	if s.arrived == s.expected {
		result := s.maxNext + LoopRealignGapNs
		for _, w := range s.waiters {
			w <- result
		}
		s.arrived = 0
		s.maxNext = 0
		s.waiters = nil
		s.mu.Unlock()
		return <-ch
	}
	s.mu.Unlock()
	return <-ch
}
