//go:build linux
// +build linux

// File: clock/ptp_linux.go
// Author: momentics <momentics@gmail.com>
//
// PTP hardware clock binding. Opens a NIC's /dev/ptpN PHC device and reads
// it through the dynamic clockid trick (FD_TO_CLOCKID), the same raw-syscall
// style the teacher uses for io_uring setup.

package clock

import (
	"fmt"
	"os"

	"github.com/momentics/rivermedia/api"
	"golang.org/x/sys/unix"
)

// dynamicClockIDBits is the kernel's FD_TO_CLOCKID encoding: clockid =
// (~fd << 3) | 3.
const dynamicClockIDBits = 3

// PTPHardware binds to a NIC's hardware PTP clock via its /dev/ptpN device.
type PTPHardware struct {
	f *os.File
	clockID int32
}

var _ api.Clock = (*PTPHardware)(nil)

// NewPTPHardware opens devicePath (e.g. "/dev/ptp0"). Returns Unsupported
// if the device cannot be opened, matching §4.1's "fails Unsupported when
// the NIC lacks PTP capability".
func NewPTPHardware(devicePath string) (*PTPHardware, error) {
	f, err := os.OpenFile(devicePath, os.O_RDWR, 0)
	if err != nil {
		return nil, api.NewError(api.ErrKindUnsupported, fmt.Sprintf("clock: cannot open PTP device %s: %v", devicePath, err)).
			WithContext("device", devicePath)
	}
	fd := int32(f.Fd())
	clockID := (^fd << dynamicClockIDBits) | dynamicClockIDBits
	return &PTPHardware{f: f, clockID: clockID}, nil
}

func (c *PTPHardware) NowNs() uint64 {
	var ts unix.Timespec
	if err := unix.ClockGettime(c.clockID, &ts); err != nil {
		return 0
	}
	return uint64(ts.Sec)*1_000_000_000 + uint64(ts.Nsec)
}

func (c *PTPHardware) Source() api.ClockSource { return api.ClockPTPHardware }

// Close releases the underlying PHC device file.
func (c *PTPHardware) Close() error { return c.f.Close() }
