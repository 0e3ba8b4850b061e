//go:build linux
// +build linux

// File: affinity/affinity_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux-specific implementation for setting thread CPU affinity over an
// arbitrary CPU-mask via pthread_setaffinity_np, and CPU topology discovery
// via gopsutil (SPEC_FULL DOMAIN STACK).

package affinity

/*
#define _GNU_SOURCE
#include <sched.h>
#include <pthread.h>
#include <errno.h>
#include <stdlib.h>

// Set calling thread's affinity to the CPUs listed in cpus[0..n).
int go_setaffinity_many(int *cpus, int n) {
	cpu_set_t set;
	CPU_ZERO(&set);
	for (int i = 0; i < n; i++) {
		CPU_SET(cpus[i], &set);
	}
	return pthread_setaffinity_np(pthread_self(), sizeof(set), &set);
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/momentics/rivermedia/api"
	"github.com/shirou/gopsutil/v3/cpu"
)

// pinMaskPlatform pins the calling thread to every CPU set in mask.
func pinMaskPlatform(mask api.CPUMask) error {
	cpus := make([]C.int, 0, mask.Count())
	for w, word := range mask {
		for bit := 0; bit < 64; bit++ {
			if word&(1<<uint(bit)) != 0 {
				cpus = append(cpus, C.int(w*64+bit))
			}
		}
	}
	if len(cpus) == 0 {
		return api.NewError(api.ErrKindInvalidArgument, "affinity: mask has no bits set")
	}
	ret := C.go_setaffinity_many((*C.int)(unsafe.Pointer(&cpus[0])), C.int(len(cpus)))
	if ret != 0 {
		return fmt.Errorf("affinity: pthread_setaffinity_np failed, code %d", ret)
	}
	return nil
}

// numCPUsPlatform discovers the logical CPU count via gopsutil, falling
// back to runtime.NumCPU()'s value when the procfs probe fails (e.g. in a
// restricted container).
func numCPUsPlatform() int {
	counts, err := cpu.Counts(true)
	if err != nil || counts == 0 {
		return fallbackNumCPU()
	}
	return counts
}
