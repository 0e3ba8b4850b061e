// File: schedule/scheduler.go
// Author: momentics <momentics@gmail.com>
package schedule

import (
	"container/heap"
	"sync"
	"time"

	"github.com/momentics/rivermedia/api"
)

// Scheduler is a single-goroutine min-heap timer queue implementing
// api.Scheduler, completing the teacher's stubbed-out run loop
// (internal/concurrency/scheduler.go) with the taskHeap operations and a
// wake-on-new-earliest-deadline notify channel.
type Scheduler struct {
	clock api.Clock

	mu     sync.Mutex
	timerQ taskHeap
	notify chan struct{}
	stop   chan struct{}
	wg     sync.WaitGroup
}

// New starts a Scheduler backed by clock (NowNs is used for Now()); pass a
// nil clock to use the wall clock.
func New(clock api.Clock) *Scheduler {
	s := &Scheduler{
		clock:  clock,
		notify: make(chan struct{}, 1),
		stop:   make(chan struct{}),
	}
	s.wg.Add(1)
	go s.run()
	return s
}

// Now returns monotonic time in nanoseconds, delegating to the configured
// clock or the wall clock if none was supplied.
func (s *Scheduler) Now() int64 {
	if s.clock != nil {
		return int64(s.clock.NowNs())
	}
	return time.Now().UnixNano()
}

// scheduledTask adapts *task to api.Cancelable.
type scheduledTask struct {
	t    *task
	s    *Scheduler
	done chan struct{}
	mu   sync.Mutex
	err  error
}

func (c *scheduledTask) Cancel() error {
	c.s.mu.Lock()
	already := c.t.canceled || c.t.index < 0
	if !already {
		c.t.canceled = true
		heap.Remove(&c.s.timerQ, c.t.index)
	}
	c.s.mu.Unlock()
	c.mu.Lock()
	if c.err == nil {
		c.err = api.Signal
	}
	c.mu.Unlock()
	select {
	case <-c.done:
	default:
		close(c.done)
	}
	return nil
}

func (c *scheduledTask) Done() <-chan struct{} { return c.done }

func (c *scheduledTask) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

var _ api.Cancelable = (*scheduledTask)(nil)

// Schedule enqueues fn to run after delayNanos, returning a handle that can
// cancel it before it fires. Negative delays run at the next opportunity.
func (s *Scheduler) Schedule(delayNanos int64, fn func()) (api.Cancelable, error) {
	if fn == nil {
		return nil, api.NewError(api.ErrKindInvalidArgument, "schedule: nil callback")
	}
	deadline := s.Now() + delayNanos

	sc := &scheduledTask{done: make(chan struct{})}
	t := &task{deadlineNs: deadline}
	t.fn = func() {
		fn()
		select {
		case <-sc.done:
		default:
			close(sc.done)
		}
	}
	sc.t = t
	sc.s = s

	s.mu.Lock()
	wasEarliest := s.timerQ.Len() == 0 || deadline < s.timerQ[0].deadlineNs
	heap.Push(&s.timerQ, t)
	s.mu.Unlock()

	if wasEarliest {
		s.wake()
	}
	return sc, nil
}

// Cancel cancels a previously scheduled callback via its Cancelable handle.
func (s *Scheduler) Cancel(c api.Cancelable) error { return c.Cancel() }

func (s *Scheduler) wake() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Close stops the scheduler's run loop; pending tasks never fire.
func (s *Scheduler) Close() error {
	close(s.stop)
	s.wg.Wait()
	return nil
}

func (s *Scheduler) run() {
	defer s.wg.Done()
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		s.mu.Lock()
		if s.timerQ.Len() == 0 {
			s.mu.Unlock()
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			select {
			case <-s.notify:
				continue
			case <-s.stop:
				return
			}
		}

		next := s.timerQ[0]
		wait := time.Duration(next.deadlineNs - s.Now())
		s.mu.Unlock()

		if wait <= 0 {
			s.fireReady()
			continue
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(wait)

		select {
		case <-timer.C:
			s.fireReady()
		case <-s.notify:
		case <-s.stop:
			return
		}
	}
}

// fireReady pops and runs every task whose deadline has passed.
func (s *Scheduler) fireReady() {
	now := s.Now()
	for {
		s.mu.Lock()
		if s.timerQ.Len() == 0 || s.timerQ[0].deadlineNs > now {
			s.mu.Unlock()
			return
		}
		t := heap.Pop(&s.timerQ).(*task)
		s.mu.Unlock()
		if t.canceled {
			continue
		}
		t.fn()
	}
}

var _ api.Scheduler = (*Scheduler)(nil)
