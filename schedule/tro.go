// File: schedule/tro.go
// Author: momentics <momentics@gmail.com>
package schedule

import (
	"github.com/momentics/rivermedia/api"
)

// DefaultTROModification is the default value of M in the TRO formula
// (§4.6) when a stream doesn't override it.
const DefaultTROModification = 4

// TROParams is everything ComputeTRO needs to compute one stream's
// time-to-rendering-offset.
type TROParams struct {
	Scan             api.ScanType
	Height           int // active lines
	FrameRate        api.FrameRate
	PacketsPerFrame  int
	TROModification  int // M; 0 means DefaultTROModification
}

// lineBucket resolves (activeLines, totalLines) for the TRO formula's
// per-format fraction, matching the standard blanking-interval line
// counts SMPTE ST 2110-21 examples assume (1920x1080 -> 1125 total,
// 1280x720 -> 750 total, 720x576 -> 625 total, 720x480 -> 525 total).
func lineBucket(scan api.ScanType, height int) (fracNum, fracDen, totalLines int) {
	interlaced := scan == api.ScanInterlaced
	switch {
	case height >= 1080:
		if interlaced {
			return 22, 1125, 1125
		}
		return 43, 1125, 1125
	case interlaced && height == 576:
		return 26, 625, 625
	case interlaced && height < 576:
		return 20, 525, 525
	default: // progressive, height < 1080
		return 28, 750, 750
	}
}

func frameIntervalNs(fr api.FrameRate) float64 {
	if fr.Num == 0 {
		return 0
	}
	return 1e9 * float64(fr.Den) / float64(fr.Num)
}

// ComputeTRO returns the time-to-rendering-offset in nanoseconds for one
// stream, per the per-scan/height formula table in §4.6.
func ComputeTRO(p TROParams) (int64, error) {
	if p.Height <= 0 || p.PacketsPerFrame <= 0 {
		return 0, api.NewError(api.ErrKindInvalidArgument, "schedule: TRO height and packets-per-frame must be positive")
	}
	m := p.TROModification
	if m == 0 {
		m = DefaultTROModification
	}
	tFrame := frameIntervalNs(p.FrameRate)
	fracNum, fracDen, totalLines := lineBucket(p.Scan, p.Height)

	rActive := float64(p.Height) / float64(totalLines)
	trs := tFrame * rActive / float64(p.PacketsPerFrame)
	tro := (float64(fracNum)/float64(fracDen))*tFrame - float64(m)*trs
	return int64(tro), nil
}
