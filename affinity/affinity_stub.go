//go:build !linux && !windows
// +build !linux,!windows

// File: affinity/affinity_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for unsupported platforms.

package affinity

import "github.com/momentics/rivermedia/api"

func pinMaskPlatform(mask api.CPUMask) error {
	return api.NewError(api.ErrKindUnsupported, "affinity: pinning not supported on this platform")
}

func numCPUsPlatform() int { return fallbackNumCPU() }
