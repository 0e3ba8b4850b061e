// File: rtp/header.go
// Package rtp implements the -20/-30/-40 framers (C5): packing pixel groups,
// audio samples, and ancillary data blocks into RTP packets written directly
// into chunk-ring payload buffers, with no intermediate copy.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package rtp

import (
	pionrtp "github.com/pion/rtp"
)

// HeaderSize is the fixed common RTP header size with no extensions or CSRCs.
const HeaderSize = 12

// Header is the common 12-byte RTP header fields every framer fills in.
type Header struct {
	Marker         bool
	PayloadType    byte
	SequenceNumber uint16
	Timestamp      uint32
	SSRC           uint32
}

// WriteHeader marshals h into dst[0:12] using pion/rtp's wire layout (RFC
// 3550 §5.1), which matches the common header this module specifies byte
// for byte with version=2, padding=0, extension=0, cc=0.
func WriteHeader(dst []byte, h Header) (int, error) {
	ph := pionrtp.Header{
		Version:        2,
		Marker:         h.Marker,
		PayloadType:    h.PayloadType,
		SequenceNumber: h.SequenceNumber,
		Timestamp:      h.Timestamp,
		SSRC:           h.SSRC,
	}
	n, err := ph.MarshalTo(dst)
	return n, err
}

// Sequencer hands out contiguous 16-bit RTP sequence numbers and, when
// extended sequencing is enabled, a parallel 32-bit counter whose high 16
// bits are written into the first two bytes of the payload area per
// RFC 4175 §4.
type Sequencer struct {
	seq uint32 // low 16 bits are the wire sequence number; full value is the extended counter
}

// NewSequencer returns a Sequencer starting at sequence number 0.
func NewSequencer() *Sequencer { return &Sequencer{} }

// Next returns the next (wireSeq16, extendedHigh16) pair and advances state.
func (s *Sequencer) Next() (uint16, uint16) {
	v := s.seq
	s.seq++
	return uint16(v), uint16(v >> 16)
}
