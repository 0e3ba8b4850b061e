//go:build linux
// +build linux

// File: affinity/priority_linux.go
// Author: momentics <momentics@gmail.com>
//
// Best-effort real-time scheduling priority, grounded on the original
// util/rt_threads.{h,cpp} helper (SPEC_FULL §4 supplement).

package affinity

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

const schedFIFO = 1

type schedParam struct {
	priority int32
}

// SetRealtimePriority requests SCHED_FIFO at the given priority (1-99) for
// the calling thread. Best-effort: returns an error rather than panicking
// when the process lacks CAP_SYS_NICE.
func SetRealtimePriority(priority int) error {
	param := schedParam{priority: int32(priority)}
	_, _, errno := unix.Syscall(unix.SYS_SCHED_SETSCHEDULER, 0, uintptr(schedFIFO), uintptr(unsafe.Pointer(&param)))
	if errno != 0 {
		return fmt.Errorf("affinity: sched_setscheduler failed: %w", errno)
	}
	return nil
}
