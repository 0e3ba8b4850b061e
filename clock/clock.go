// Package clock implements C1's now_ns() time source over three selectable
// domains: system wall clock shifted by leap seconds (TAI approximation), an
// opaque library-provided clock, and a NIC-bound PTP hardware clock.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package clock

import (
	"time"

	"github.com/momentics/rivermedia/api"
)

// SystemTAI approximates TAI by shifting the system wall clock by
// +leapSeconds (§4.1, §GLOSSARY).
type SystemTAI struct {
	leapSeconds int64
}

var _ api.Clock = (*SystemTAI)(nil)

// NewSystemTAI constructs a SystemTAI clock with the given leap-second
// offset. Pass api.DefaultLeapSeconds for the conventional 37s offset.
func NewSystemTAI(leapSeconds int64) *SystemTAI {
	return &SystemTAI{leapSeconds: leapSeconds}
}

func (c *SystemTAI) NowNs() uint64 {
	return uint64(time.Now().UnixNano() + c.leapSeconds*int64(time.Second))
}

func (c *SystemTAI) Source() api.ClockSource { return api.ClockSystemTAI }

// LeapSeconds reports the configured TAI-UTC offset.
func (c *SystemTAI) LeapSeconds() int64 { return c.leapSeconds }

// Library wraps an externally supplied opaque clock function (§4.1).
type Library struct {
	nowFn func() uint64
}

var _ api.Clock = (*Library)(nil)

// NewLibrary wraps nowFn as a Clock.
func NewLibrary(nowFn func() uint64) *Library {
	return &Library{nowFn: nowFn}
}

func (c *Library) NowNs() uint64       { return c.nowFn() }
func (c *Library) Source() api.ClockSource { return api.ClockLibrary }

// AlignToTransportClock converts a TAI-domain timestamp to transport UTC by
// subtracting the configured leap-second offset (§4.1 rationale: mixing
// clock domains silently produces 1-frame systematic error).
func AlignToTransportClock(taiNs uint64, leapSeconds int64) uint64 {
	return uint64(int64(taiNs) - leapSeconds*int64(time.Second))
}
