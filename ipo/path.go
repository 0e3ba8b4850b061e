// File: ipo/path.go
// Author: momentics <momentics@gmail.com>
package ipo

// PathStats accumulates one redundant path's independent sequence
// tracking and per-path dropped-packet observability (§4.8, last bullet).
type PathStats struct {
	Dropped            uint64
	ChecksumMismatches uint64
	lastSeq            uint64
	seen               bool
}

// Observe records one packet's sequence number arriving on this path,
// inferring gaps (the path's own drops, independent of cross-path
// redundancy resolution) via modular distance from the last-seen sequence.
func (p *PathStats) Observe(seq uint64, width SequenceWidth) {
	if !p.seen {
		p.seen = true
		p.lastSeq = seq
		return
	}
	expected := (p.lastSeq + 1) % modulus(width)
	if seq != expected && !seqBehind(seq, expected, width) {
		p.Dropped += seqDistanceForward(seq, expected, width)
	}
	p.lastSeq = seq
}
