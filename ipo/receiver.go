// File: ipo/receiver.go
// Author: momentics <momentics@gmail.com>
package ipo

import (
	"sync"
	"time"

	"github.com/momentics/rivermedia/api"
)

// PathSource is one redundant network path's transport binding: the
// stream to poll completions from, and whether extended sequence numbers
// are in use for this program.
type PathSource struct {
	Transport      api.Transport
	StreamId       api.StreamId
	ExtendedSeqNum bool
}

// Receiver runs N redundant paths' completions through a shared reorder
// Buffer, emitting one ordered, duplicate-free packet stream (§4.8).
type Receiver struct {
	paths  []PathSource
	buf    *Buffer
	width  SequenceWidth
	clock  api.Clock
	stop   chan struct{}
	wg     sync.WaitGroup

	mu        sync.Mutex
	pathStats []PathStats
}

// NewReceiver builds a Receiver polling every path in sources, reordering
// through a buffer sized for windowNs/packetIntervalNs.
func NewReceiver(sources []PathSource, windowNs, packetIntervalNs uint64, width SequenceWidth, clock api.Clock) *Receiver {
	return &Receiver{
		paths:     sources,
		buf:       NewBuffer(windowNs, packetIntervalNs, width),
		width:     width,
		clock:     clock,
		stop:      make(chan struct{}),
		pathStats: make([]PathStats, len(sources)),
	}
}

func (r *Receiver) nowNs() uint64 {
	if r.clock != nil {
		return r.clock.NowNs()
	}
	return uint64(time.Now().UnixNano())
}

// Start launches one polling goroutine per path plus the release cursor,
// pushing ordered output to out until Stop is called.
func (r *Receiver) Start(out chan<- Released) {
	for i := range r.paths {
		i := i
		r.wg.Add(1)
		go r.pollPath(i, out)
	}
	r.wg.Add(1)
	go r.releaseLoop(out)
}

// Stop halts every path poller and the release cursor, then waits for them
// to exit.
func (r *Receiver) Stop() {
	close(r.stop)
	r.wg.Wait()
}

func (r *Receiver) pollPath(pathID int, out chan<- Released) {
	defer r.wg.Done()
	src := r.paths[pathID]
	for {
		select {
		case <-r.stop:
			return
		default:
		}
		completion, err := src.Transport.GetNextCompletion(src.StreamId)
		if err != nil {
			time.Sleep(time.Millisecond)
			continue
		}
		r.ingestCompletion(pathID, src, completion)
	}
}

func (r *Receiver) ingestCompletion(pathID int, src PathSource, c api.Completion) {
	for i, payload := range c.Payload {
		if i < len(c.ChecksumBad) && c.ChecksumBad[i] {
			// Soft per-packet error (§4.9, §7): counted, never delivered,
			// never raised as an exception.
			r.mu.Lock()
			r.pathStats[pathID].ChecksumMismatches++
			r.mu.Unlock()
			continue
		}
		var hdr api.Buffer
		if i < len(c.Header) {
			hdr = c.Header[i]
		}
		// With header/payload sub-block split (HDS) the RTP header lives
		// in hdr; otherwise it's prefixed onto payload itself. The
		// extended-sequence high word, when present, is always the first
		// two bytes of the payload area (§4.5.1), regardless of HDS.
		hdrSrc, pldArea := payload, payload
		if len(hdr.Data) > 0 {
			hdrSrc = hdr
		} else {
			pldArea = payload.Slice(12, len(payload.Data)) // skip the 12-byte RTP header
		}
		seq := extractSequence(hdrSrc, pldArea, src.ExtendedSeqNum)

		r.mu.Lock()
		r.pathStats[pathID].Observe(seq, r.width)
		r.mu.Unlock()

		arrival := c.ArrivalNs[i]
		var tag api.FlowTag
		if i < len(c.FlowTags) {
			tag = c.FlowTags[i]
		}

		entry := Entry{
			Seq:       seq,
			ArrivalNs: arrival,
			PathID:    pathID,
			FlowTag:   tag,
			Header:    hdr,
			Payload:   payload,
		}
		r.mu.Lock()
		r.buf.Insert(entry, func(b api.Buffer) {
			if b.Pool != nil {
				b.Pool.Put(b)
			}
		})
		r.mu.Unlock()
	}
}

// extractSequence reads the common 12-byte RTP header's sequence number
// (bytes 2-3) from hdr, and, when extended is set, the extended high word
// from the first two bytes of payload (§4.5.1).
func extractSequence(hdr, payload api.Buffer, extended bool) uint64 {
	if len(hdr.Data) < 4 {
		return 0
	}
	wireSeq := uint16(hdr.Data[2])<<8 | uint16(hdr.Data[3])
	if !extended || len(payload.Data) < 2 {
		return uint64(wireSeq)
	}
	extHigh := uint16(payload.Data[0])<<8 | uint16(payload.Data[1])
	return uint64(ExtendSequence(wireSeq, extHigh))
}

func (r *Receiver) releaseLoop(out chan<- Released) {
	defer r.wg.Done()
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.mu.Lock()
			ready := r.buf.ReleaseCursor(r.nowNs())
			r.mu.Unlock()
			for _, rel := range ready {
				select {
				case out <- rel:
				case <-r.stop:
					return
				}
			}
		}
	}
}

// StatsSnapshot returns the shared reorder buffer's counters plus a copy
// of every path's independent drop tracking.
func (r *Receiver) StatsSnapshot() (Stats, []PathStats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	paths := make([]PathStats, len(r.pathStats))
	copy(paths, r.pathStats)
	return r.buf.StatsSnapshot(), paths
}
