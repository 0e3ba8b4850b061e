//go:build windows
// +build windows

// File: affinity/affinity_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows-specific implementation for setting thread CPU affinity. Windows'
// SetThreadAffinityMask already takes a bitmask, so the CPUMask's low word
// maps directly (processor groups beyond 64 CPUs are not modeled; see
// DESIGN.md).

package affinity

import (
	"syscall"

	"github.com/momentics/rivermedia/api"
)

func pinMaskPlatform(mask api.CPUMask) error {
	kernel32 := syscall.NewLazyDLL("kernel32.dll")
	procSetThreadAffinityMask := kernel32.NewProc("SetThreadAffinityMask")
	procGetCurrentThread := kernel32.NewProc("GetCurrentThread")
	hThread, _, _ := procGetCurrentThread.Call()

	var word uint64
	if len(mask) > 0 {
		word = mask[0]
	}
	ret, _, err := procSetThreadAffinityMask.Call(hThread, uintptr(word))
	if ret == 0 {
		return err
	}
	return nil
}

func numCPUsPlatform() int { return fallbackNumCPU() }
