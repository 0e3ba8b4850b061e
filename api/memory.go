// File: api/memory.go
// Package api
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Memory substrate contracts (C2): allocation kinds, zero-copy buffers, and
// NIC memory-key registration. Converted to a struct (not an interface) to
// avoid interface boxing on the fast path, following the teacher's
// api.Buffer convention.

package api

// MemoryKind is a tagged variant selecting the allocation backend, mapped
// 1:1 onto §4.2/§9's {Malloc, HugePages, Gpu} dynamic-dispatch model.
type MemoryKind int

const (
	MemoryMalloc MemoryKind = iota
	MemoryHugePages
	MemoryGpu
)

func (k MemoryKind) String() string {
	switch k {
	case MemoryHugePages:
		return "HugePages"
	case MemoryGpu:
		return "Gpu"
	default:
		return "Malloc"
	}
}

// HugePageSize enumerates the selectable huge-page sizes (§4.2 policy).
type HugePageSize int

const (
	HugePage2MiB HugePageSize = 2 << 20
	HugePage512MiB HugePageSize = 512 << 20
	HugePage1GiB HugePageSize = 1 << 30
)

// AllocRequest parametrizes Allocator.Allocate.
type AllocRequest struct {
	Size  int
	Align int
	Kind  MemoryKind
	// GpuDevice selects the CUDA-style device ordinal when Kind==MemoryGpu.
	GpuDevice int
	// HugePageSize overrides auto page-size selection when Kind==MemoryHugePages.
	HugePageSize HugePageSize
	// AllowMallocFallback permits a one-shot fallback to MemoryMalloc if the
	// requested kind fails to allocate (§4.2, §SPEC_FULL §4 supplement).
	AllowMallocFallback bool
}

// MemKey is the opaque NIC registration handle returned by Allocator.Register.
type MemKey uint64

// Releaser decouples Buffer from a concrete pool implementation.
type Releaser interface {
	Put(Buffer)
}

// Buffer is a zero-copy memory region view, possibly backed by a pool.
type Buffer struct {
	Data  []byte
	NUMA  int
	Kind  MemoryKind
	Pool  Releaser
	Class int
	// Key is set once the backing region has been registered with a device.
	Key MemKey
}

// Bytes returns the full byte slice backing this Buffer.
func (b Buffer) Bytes() []byte { return b.Data }

// NUMANode returns the NUMA node where this buffer was allocated.
func (b Buffer) NUMANode() int { return b.NUMA }

// Slice returns a new Buffer view sharing the same underlying memory.
func (b Buffer) Slice(from, to int) Buffer {
	if from < 0 || to > len(b.Data) || from > to {
		return Buffer{NUMA: b.NUMA, Class: b.Class, Pool: b.Pool, Kind: b.Kind, Key: b.Key}
	}
	return Buffer{Data: b.Data[from:to], NUMA: b.NUMA, Pool: b.Pool, Class: b.Class, Kind: b.Kind, Key: b.Key}
}

// Release returns the buffer to its pool, if any.
func (b Buffer) Release() {
	if b.Pool != nil {
		b.Pool.Put(b)
	}
}

// Capacity returns the capacity of the underlying slice.
func (b Buffer) Capacity() int { return cap(b.Data) }

// BufferPool provides NUMA-aware buffer allocation for a single size class,
// matching the teacher's pool.BufferPoolManager granularity.
type BufferPool interface {
	Get(size int, numaPreferred int) Buffer
	Put(b Buffer)
	Stats() BufferPoolStats
}

// BufferPoolStats summarizes pool usage.
type BufferPoolStats struct {
	TotalAlloc int64
	TotalFree  int64
	InUse      int64
	NUMAStats  map[int]int64
}

// Allocator is the capability trait of §9's tagged MemoryKind variant:
// {allocate, free, register, set, copy} per kind, with no inheritance.
type Allocator interface {
	// Allocate reserves a region per req. If req.AllowMallocFallback is set
	// and a non-Malloc allocation fails, the Allocator retries once with
	// MemoryMalloc and reports the substitution via Buffer.Kind.
	Allocate(req AllocRequest) (Buffer, error)

	// Free releases a region obtained from Allocate.
	Free(b Buffer) error

	// Register binds a previously allocated buffer to a NIC device,
	// returning an opaque MemKey. Idempotent registration is not assumed;
	// callers must track key lifetime themselves (§3 lifecycle rules).
	Register(b Buffer, device string) (MemKey, error)

	// Deregister releases a MemKey. Must run after every stream referring
	// to it has been destroyed (§3 lifecycle rules, §8 invariant 6).
	Deregister(key MemKey) error

	// Memset fills dst with value. GPU-backed buffers dispatch
	// asynchronously and return before completion (§4.2).
	Memset(dst Buffer, value byte) error

	// Memcpy copies src into dst, truncating to the shorter length. GPU
	// paths dispatch asynchronously without blocking the caller.
	Memcpy(dst, src Buffer) (int, error)
}
