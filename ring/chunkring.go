// File: ring/chunkring.go
// Author: momentics <momentics@gmail.com>
//
// ChunkRing pre-allocates every chunk slot for one stream up front and
// cycles slot indices through two SPSC rings: free (producer: completion
// handler, consumer: the application acquiring a fresh chunk) and ready
// (producer: the application committing a chunk, consumer: the transport's
// send/receive loop). This is the zero-copy core of §4.3/§4.4: no slot
// memory is ever allocated or copied on the steady-state chunk path.
package ring

import (
	"github.com/momentics/rivermedia/api"
)

// ChunkRing holds NumChunks pre-allocated slots for a single stream.
type ChunkRing struct {
	slots []api.ChunkSlot
	free  *SPSC[int]
	ready *SPSC[int]
}

// New allocates a ChunkRing of numChunks slots, each built from
// params.Header/params.Payload sub-block layouts via alloc. Header or
// Payload sub-blocks with EntrySize==0 are skipped (e.g. non-HDS streams
// carry no separate header region).
func New(alloc api.Allocator, numChunks int, packetsPerChunk int, header, payload api.SubBlockParams) (*ChunkRing, error) {
	if numChunks <= 0 {
		return nil, api.NewError(api.ErrKindInvalidArgument, "ring: numChunks must be positive")
	}
	r := &ChunkRing{
		slots: make([]api.ChunkSlot, numChunks),
		free:  NewSPSC[int](numChunks),
		ready: NewSPSC[int](numChunks),
	}
	for i := 0; i < numChunks; i++ {
		var slot api.ChunkSlot
		if header.EntrySize > 0 {
			bufs, err := allocSubBlock(alloc, header, packetsPerChunk)
			if err != nil {
				return nil, err
			}
			slot.Header = bufs
		}
		if payload.EntrySize > 0 {
			bufs, err := allocSubBlock(alloc, payload, packetsPerChunk)
			if err != nil {
				return nil, err
			}
			slot.Payload = bufs
		}
		r.slots[i] = slot
		r.free.Push(i)
	}
	return r, nil
}

func allocSubBlock(alloc api.Allocator, params api.SubBlockParams, packetsPerChunk int) ([]api.Buffer, error) {
	stride := params.StrideBytes
	if stride == 0 {
		stride = CeilToCacheLine(params.EntrySize)
	}
	bufs := make([]api.Buffer, packetsPerChunk)
	for i := range bufs {
		buf, err := alloc.Allocate(api.AllocRequest{Size: stride, AllowMallocFallback: true})
		if err != nil {
			return nil, err
		}
		buf.Data = buf.Data[:params.EntrySize]
		buf.Key = params.MemKey
		bufs[i] = buf
	}
	return bufs, nil
}

// Acquire returns the next free slot index for the producer side
// (api.Transport.GetNextChunk). Returns ok=false when exhausted, which
// callers surface as ErrKindNoFreeChunk (§4.3, §7).
func (r *ChunkRing) Acquire() (int, bool) {
	return r.free.Pop()
}

// Slot returns the chunk slot view at idx for the caller to fill.
func (r *ChunkRing) Slot(idx int) api.ChunkSlot { return r.slots[idx] }

// Commit pushes idx onto the ready ring for the transport's send/receive
// loop to drain. Returns false (ErrKindQueueFull) if the ready ring is
// saturated, i.e. the device side is not draining fast enough.
func (r *ChunkRing) Commit(idx int) bool {
	return r.ready.Push(idx)
}

// NextReady pops the next committed slot index for the device-facing
// consumer loop.
func (r *ChunkRing) NextReady() (int, bool) {
	return r.ready.Pop()
}

// Release returns idx to the free ring once the device has confirmed
// completion, making it available for a future Acquire.
func (r *ChunkRing) Release(idx int) bool {
	return r.free.Push(idx)
}

// Len returns the number of chunks currently awaiting consumption.
func (r *ChunkRing) Len() int { return r.ready.Len() }

// Cap returns the ring's total slot count.
func (r *ChunkRing) Cap() int { return len(r.slots) }
