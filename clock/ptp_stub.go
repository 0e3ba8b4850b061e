//go:build !linux
// +build !linux

// File: clock/ptp_stub.go
// Author: momentics <momentics@gmail.com>

package clock

import "github.com/momentics/rivermedia/api"

// PTPHardware is unavailable outside Linux; construction always fails
// Unsupported, matching §4.1's "fails Unsupported when the NIC lacks PTP
// capability".
type PTPHardware struct{}

var _ api.Clock = (*PTPHardware)(nil)

func NewPTPHardware(devicePath string) (*PTPHardware, error) {
	return nil, api.NewError(api.ErrKindUnsupported, "clock: PTP hardware clock not supported on this platform").
		WithContext("device", devicePath)
}

func (c *PTPHardware) NowNs() uint64       { return 0 }
func (c *PTPHardware) Source() api.ClockSource { return api.ClockPTPHardware }
func (c *PTPHardware) Close() error        { return nil }
