// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral CPU affinity (C1). Platform-specific pinning lives in
// affinity_linux.go / affinity_windows.go / affinity_stub.go behind build
// tags, generalizing the teacher's single-CPU SetAffinity into the
// bitset-mask pinning required by spec.md §4.1.

package affinity

import (
	"runtime"

	"github.com/momentics/rivermedia/api"
)

// PinCurrentToCPUs pins the calling OS thread to every CPU set in mask. A
// mask with zero bits set fails InvalidArgument (§4.1).
func PinCurrentToCPUs(mask api.CPUMask) error {
	if mask.Count() == 0 {
		return api.NewError(api.ErrKindInvalidArgument, "affinity: mask has no bits set")
	}
	runtime.LockOSThread()
	return pinMaskPlatform(mask)
}

// NumCPUs reports the number of logical CPUs discovered from the OS. On
// platforms with more than 64 CPUs the mask is processor-group-aware
// (multiple uint64 words); this count still reflects the flat total.
func NumCPUs() int {
	return numCPUsPlatform()
}

// Pinner implements api.Affinity.
type Pinner struct{}

var _ api.Affinity = Pinner{}

func (Pinner) PinCurrentToCPUs(mask api.CPUMask) error { return PinCurrentToCPUs(mask) }
func (Pinner) NumCPUs() int                            { return NumCPUs() }

// MaskBuilder is a fluent bitset builder, grounded on the original
// rivermax_affinity.{h,cpp} helper that builds a CPU-set from CLI core
// lists (SPEC_FULL §4 supplement).
type MaskBuilder struct {
	mask api.CPUMask
}

// NewMaskBuilder starts a builder sized for the OS-discovered CPU count.
func NewMaskBuilder() *MaskBuilder {
	return &MaskBuilder{mask: api.NewCPUMask(NumCPUs())}
}

// Add marks a single CPU.
func (b *MaskBuilder) Add(cpu int) *MaskBuilder {
	b.mask.Set(cpu)
	return b
}

// Range marks every CPU in [lo, hi] inclusive.
func (b *MaskBuilder) Range(lo, hi int) *MaskBuilder {
	for c := lo; c <= hi; c++ {
		b.mask.Set(c)
	}
	return b
}

// Build returns the constructed mask.
func (b *MaskBuilder) Build() api.CPUMask { return b.mask }

// fallbackNumCPU is used by platform-specific topology probes when the
// OS-specific discovery path is unavailable (e.g. gopsutil procfs read
// fails inside a restricted container).
func fallbackNumCPU() int { return runtime.NumCPU() }
