// File: memsub/raw.go
// Author: momentics <momentics@gmail.com>
package memsub

import (
	"unsafe"

	"github.com/momentics/rivermedia/api"
)

// rawAlloc is the low-level allocation result before it is wrapped as an
// api.Buffer and tracked in Substrate.regions.
type rawAlloc struct {
	bytes []byte
	numa  int
	ptr   uintptr
}

func bufferPtr(b api.Buffer) uintptr {
	if len(b.Data) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b.Data[:1][0]))
}

func (s *Substrate) rawAllocate(req api.AllocRequest) (rawAlloc, error) {
	switch req.Kind {
	case api.MemoryMalloc:
		buf := make([]byte, req.Size)
		return rawAlloc{bytes: buf, numa: -1, ptr: bufferPtr(api.Buffer{Data: buf})}, nil
	case api.MemoryHugePages:
		return hugePageAlloc(req.Size, req.HugePageSize)
	case api.MemoryGpu:
		if s.gpu == nil {
			return rawAlloc{}, api.NewError(api.ErrKindUnsupported, "memsub: no GPU backend configured")
		}
		buf, err := s.gpu.alloc(req.GpuDevice, req.Size)
		if err != nil {
			return rawAlloc{}, err
		}
		return rawAlloc{bytes: buf, numa: -1, ptr: bufferPtr(api.Buffer{Data: buf})}, nil
	default:
		return rawAlloc{}, api.NewError(api.ErrKindInvalidArgument, "memsub: unknown allocation kind")
	}
}

func (s *Substrate) rawFree(r *region) error {
	switch r.kind {
	case api.MemoryGpu:
		if s.gpu != nil {
			return s.gpu.free(r.raw.bytes)
		}
		return nil
	case api.MemoryHugePages:
		return hugePageFree(r.raw)
	default:
		// Malloc regions are released to the GC; nothing further to do.
		return nil
	}
}
