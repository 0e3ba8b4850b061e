// File: memsub/memsub.go
// Package memsub implements C2, the tagged-variant memory substrate over
// Malloc, HugePages and Gpu allocation kinds, including NIC memory-key
// registration and one-shot malloc fallback (§4.2, §9).
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package memsub

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/momentics/rivermedia/api"
	"github.com/momentics/rivermedia/internal/ringbuf"
)

const defaultSlabCapacity = 4096

// sizeClass buckets allocation sizes the way the teacher's slab pool does,
// one lock-free queue of recycled buffers per (kind, numaNode, class).
type sizeClass struct {
	size  int
	queue *ringbuf.LockFree[api.Buffer]
}

func newSizeClass(size int) *sizeClass {
	return &sizeClass{size: size, queue: ringbuf.NewLockFree[api.Buffer](defaultSlabCapacity)}
}

type classKey struct {
	kind api.MemoryKind
	numa int
	size int
}

// region tracks a live allocation so Free and Register/Deregister can find
// its backing store without a type switch on every call.
type region struct {
	raw     rawAlloc
	numa    int
	kind    api.MemoryKind
	class   int
}

// Substrate is the Allocator implementation backing every stream's chunk
// storage. One Substrate is normally shared process-wide.
type Substrate struct {
	mu      sync.Mutex
	classes map[classKey]*sizeClass
	regions map[uintptr]*region

	registry *registry
	gpu      gpuBackend

	totalAlloc atomic.Int64
	totalFree  atomic.Int64
}

var _ api.Allocator = (*Substrate)(nil)

// New constructs a Substrate. gpu may be nil, in which case MemoryGpu
// requests fail Unsupported unless AllowMallocFallback is set.
func New(gpu gpuBackend) *Substrate {
	return &Substrate{
		classes:  make(map[classKey]*sizeClass),
		regions:  make(map[uintptr]*region),
		registry: newRegistry(),
		gpu:      gpu,
	}
}

func (s *Substrate) classFor(kind api.MemoryKind, numa, size int) *sizeClass {
	key := classKey{kind: kind, numa: numa, size: size}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.classes[key]
	if !ok {
		c = newSizeClass(size)
		s.classes[key] = c
	}
	return c
}

// Allocate reserves a region per req, following the one-shot malloc
// fallback rule: a failed HugePages or Gpu allocation retries once as
// MemoryMalloc when req.AllowMallocFallback is set.
func (s *Substrate) Allocate(req api.AllocRequest) (api.Buffer, error) {
	if req.Size <= 0 {
		return api.Buffer{}, api.NewError(api.ErrKindInvalidArgument, "memsub: size must be positive")
	}

	numa := -1
	class := s.classFor(req.Kind, numa, req.Size)
	if buf, ok := class.queue.Dequeue(); ok && len(buf.Data) >= req.Size {
		buf.Data = buf.Data[:req.Size]
		return buf, nil
	}

	raw, err := s.rawAllocate(req)
	if err != nil {
		if req.AllowMallocFallback && req.Kind != api.MemoryMalloc {
			fallback := req
			fallback.Kind = api.MemoryMalloc
			raw, err = s.rawAllocate(fallback)
			if err != nil {
				return api.Buffer{}, err
			}
			req = fallback
		} else {
			return api.Buffer{}, err
		}
	}

	buf := api.Buffer{Data: raw.bytes, NUMA: raw.numa, Kind: req.Kind, Pool: s, Class: req.Size}

	s.mu.Lock()
	s.regions[raw.ptr] = &region{raw: raw, numa: raw.numa, kind: req.Kind, class: req.Size}
	s.mu.Unlock()

	s.totalAlloc.Add(1)
	return buf, nil
}

// Free releases a region obtained from Allocate, bypassing the recycle
// pool: callers wanting pooling should use Put (via Buffer.Release)
// instead.
func (s *Substrate) Free(b api.Buffer) error {
	ptr := bufferPtr(b)
	s.mu.Lock()
	r, ok := s.regions[ptr]
	if ok {
		delete(s.regions, ptr)
	}
	s.mu.Unlock()
	if !ok {
		return api.NewError(api.ErrKindInvalidArgument, "memsub: free of unknown region")
	}
	s.totalFree.Add(1)
	return s.rawFree(r)
}

// Put implements api.Releaser so Buffer.Release recycles into the
// matching size class instead of returning memory to the OS.
func (s *Substrate) Put(b api.Buffer) {
	class := s.classFor(b.Kind, b.NUMA, b.Class)
	full := b
	full.Data = full.Data[:cap(full.Data)]
	class.queue.Enqueue(full)
}

// Register binds buf to device, returning an opaque MemKey (§3 lifecycle).
func (s *Substrate) Register(b api.Buffer, device string) (api.MemKey, error) {
	if len(b.Data) == 0 {
		return 0, api.NewError(api.ErrKindInvalidArgument, "memsub: cannot register empty buffer")
	}
	return s.registry.register(device, b), nil
}

// Deregister releases key; callers must have destroyed every stream
// referencing it first (§8 invariant 6).
func (s *Substrate) Deregister(key api.MemKey) error {
	if !s.registry.deregister(key) {
		return api.NewError(api.ErrKindNotAttached, fmt.Sprintf("memsub: unknown memory key %d", key))
	}
	return nil
}

// Memset fills dst with value, dispatching asynchronously for GPU buffers.
func (s *Substrate) Memset(dst api.Buffer, value byte) error {
	if dst.Kind == api.MemoryGpu && s.gpu != nil {
		return s.gpu.memsetAsync(dst, value)
	}
	for i := range dst.Data {
		dst.Data[i] = value
	}
	return nil
}

// Memcpy copies src into dst, truncating to the shorter length.
func (s *Substrate) Memcpy(dst, src api.Buffer) (int, error) {
	if dst.Kind == api.MemoryGpu && s.gpu != nil {
		return s.gpu.memcpyAsync(dst, src)
	}
	return copy(dst.Data, src.Data), nil
}

// Stats reports aggregate allocation counters across all size classes.
func (s *Substrate) Stats() api.BufferPoolStats {
	return api.BufferPoolStats{
		TotalAlloc: s.totalAlloc.Load(),
		TotalFree:  s.totalFree.Load(),
		InUse:      s.totalAlloc.Load() - s.totalFree.Load(),
	}
}
