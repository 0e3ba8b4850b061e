// File: memsub/gpu.go
// Author: momentics <momentics@gmail.com>
//
// GPU allocation backend. The example corpus carries no CUDA binding, so
// device memory is modeled as host memory drawn against a per-device BAR1
// budget -- the same check a real CUDA/GPUDirect backend performs before
// handing out device pointers (§4.2, §9 InsufficientBar1).
package memsub

import (
	"sync"
	"unsafe"

	"github.com/momentics/rivermedia/api"
)

type gpuBackend interface {
	alloc(device, size int) ([]byte, error)
	free(buf []byte) error
	memsetAsync(dst api.Buffer, value byte) error
	memcpyAsync(dst, src api.Buffer) (int, error)
}

// SimulatedGpu tracks a BAR1 budget per device ordinal and rejects
// allocations that would exceed it with ErrKindInsufficientBar1.
type SimulatedGpu struct {
	mu        sync.Mutex
	bar1Bytes map[int]int64
	inUse     map[int]int64
	owner     map[uintptr]int // backing-array pointer -> device ordinal
}

// NewSimulatedGpu configures bar1BudgetBytes per device; a device absent
// from the map is treated as having zero BAR1 budget.
func NewSimulatedGpu(bar1BudgetBytes map[int]int64) *SimulatedGpu {
	budget := make(map[int]int64, len(bar1BudgetBytes))
	for k, v := range bar1BudgetBytes {
		budget[k] = v
	}
	return &SimulatedGpu{bar1Bytes: budget, inUse: make(map[int]int64), owner: make(map[uintptr]int)}
}

var _ gpuBackend = (*SimulatedGpu)(nil)

func (g *SimulatedGpu) alloc(device, size int) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	budget := g.bar1Bytes[device]
	if g.inUse[device]+int64(size) > budget {
		return nil, api.NewError(api.ErrKindInsufficientBar1, "memsub: BAR1 budget exceeded").
			WithContext("device", device).WithContext("requested", size).WithContext("budget", budget)
	}
	g.inUse[device] += int64(size)
	buf := make([]byte, size)
	if size > 0 {
		g.owner[uintptr(unsafe.Pointer(&buf[0]))] = device
	}
	return buf, nil
}

func (g *SimulatedGpu) free(buf []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(buf) == 0 {
		return nil
	}
	ptr := uintptr(unsafe.Pointer(&buf[0]))
	device, ok := g.owner[ptr]
	if !ok {
		return nil
	}
	delete(g.owner, ptr)
	g.inUse[device] -= int64(len(buf))
	if g.inUse[device] < 0 {
		g.inUse[device] = 0
	}
	return nil
}

func (g *SimulatedGpu) memsetAsync(dst api.Buffer, value byte) error {
	for i := range dst.Data {
		dst.Data[i] = value
	}
	return nil
}

func (g *SimulatedGpu) memcpyAsync(dst, src api.Buffer) (int, error) {
	return copy(dst.Data, src.Data), nil
}
