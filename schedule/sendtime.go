// File: schedule/sendtime.go
// Author: momentics <momentics@gmail.com>
package schedule

import (
	"time"

	"github.com/momentics/rivermedia/api"
	"github.com/momentics/rivermedia/rational"
)

// CommitGuardNs is the literal 600ns guard some scheduler paths add before
// a commit-timeout: below this guard the commit is issued with timeout=0
// rather than a near-zero sleep (§9 Open Questions — preserved verbatim).
const CommitGuardNs = 600

// DefaultSafetyNs is the default lead time NextSendTimeNs waits past
// clock.now_ns() before aligning to the next frame boundary (§4.6).
const DefaultSafetyNs = 1_000_000 // 1ms

// SendScheduler computes each TX stream's per-frame send time, advancing
// exactly via rational/ so millions of 30000/1001-style frame periods never
// accumulate floating-point drift (§5 "Rational arithmetic").
type SendScheduler struct {
	clock    api.Clock
	scan     api.ScanType
	safetyNs int64
	troNs    int64

	tFrame  rational.Rational // exact frame period, in nanoseconds
	current rational.Rational // exact N*T_frame accumulator, in nanoseconds (TRO applied separately)
	started bool
}

// NewSendScheduler constructs a scheduler for one TX stream's frame rate
// and TRO, using clock for time.Now() queries (nil uses the wall clock via
// the Scheduler's own fallback).
func NewSendScheduler(clock api.Clock, fr api.FrameRate, scan api.ScanType, troNs int64, safetyNs int64) (*SendScheduler, error) {
	if fr.Num == 0 {
		return nil, api.NewError(api.ErrKindInvalidArgument, "schedule: frame rate numerator must be positive")
	}
	if safetyNs <= 0 {
		safetyNs = DefaultSafetyNs
	}
	tFrame := rational.FromFraction(1_000_000_000*fr.Den, fr.Num)
	return &SendScheduler{clock: clock, scan: scan, safetyNs: safetyNs, troNs: troNs, tFrame: tFrame}, nil
}

func (s *SendScheduler) nowNs() int64 {
	if s.clock != nil {
		return int64(s.clock.NowNs())
	}
	return time.Now().UnixNano()
}

// fieldAdvance is the per-iteration frame-period advance: a full T_frame
// for progressive, T_frame/2 for each interlaced field.
func (s *SendScheduler) fieldAdvance() rational.Rational {
	if s.scan == api.ScanInterlaced {
		return s.tFrame.DivInt(2)
	}
	return s.tFrame
}

// NextSendTimeNs returns the absolute send time (ns, same domain as the
// configured clock) for the next frame or field, computing T0 on first
// call and advancing exactly by fieldAdvance() on every subsequent call.
func (s *SendScheduler) NextSendTimeNs() int64 {
	if !s.started {
		s.started = true
		now := s.nowNs() + s.safetyNs
		tFrameApprox := rational.Cast[int64](s.tFrame)
		if tFrameApprox <= 0 {
			tFrameApprox = 1
		}
		n := now/tFrameApprox + 1
		s.current = rational.FromInt(uint64(n)).Mul(s.tFrame)
	} else {
		s.current = s.current.Add(s.fieldAdvance())
	}
	return rational.Cast[int64](s.current) + s.troNs
}

// CommitTimeoutNs returns the timeout the transport should be given for a
// chunk commit: the full lead time on the first chunk of a frame, 0 for
// mid-frame chunks, and 0 whenever the remaining lead time is under the
// 600ns commit guard.
func CommitTimeoutNs(isFirstChunkOfFrame bool, sendTimeNs int64, now int64) int64 {
	if !isFirstChunkOfFrame {
		return 0
	}
	remaining := sendTimeNs - now
	if remaining < CommitGuardNs {
		return 0
	}
	return remaining
}
