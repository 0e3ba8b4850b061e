// File: clock/clock_test.go
// Author: momentics <momentics@gmail.com>
package clock

import (
	"testing"
	"time"

	"github.com/momentics/rivermedia/api"
	"github.com/stretchr/testify/require"
)

func TestSystemTAISource(t *testing.T) {
	c := NewSystemTAI(api.DefaultLeapSeconds)
	require.Equal(t, api.ClockSystemTAI, c.Source())
	require.Equal(t, int64(api.DefaultLeapSeconds), c.LeapSeconds())
}

func TestSystemTAIAheadOfWallClock(t *testing.T) {
	c := NewSystemTAI(37)
	before := uint64(time.Now().UnixNano())
	taiNow := c.NowNs()
	require.Greater(t, taiNow, before)
	require.InDelta(t, float64(37*time.Second), float64(taiNow-before), float64(5*time.Second))
}

func TestAlignToTransportClockRoundTrip(t *testing.T) {
	const leap = int64(37)
	wall := uint64(time.Now().UnixNano())
	tai := wall + uint64(leap*int64(time.Second))
	require.Equal(t, wall, AlignToTransportClock(tai, leap))
}

func TestLibraryClock(t *testing.T) {
	var fake uint64 = 123456789
	c := NewLibrary(func() uint64 { return fake })
	require.Equal(t, api.ClockLibrary, c.Source())
	require.Equal(t, fake, c.NowNs())
	fake = 42
	require.Equal(t, uint64(42), c.NowNs())
}

func TestPTPHardwareUnsupportedPath(t *testing.T) {
	_, err := NewPTPHardware("/dev/ptp-nonexistent-for-test")
	require.Error(t, err)
	var coreErr *api.CoreError
	require.ErrorAs(t, err, &coreErr)
	require.Equal(t, api.ErrKindUnsupported, coreErr.Kind)
}
