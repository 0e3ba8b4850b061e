// File: rtp/ancillary.go
// Author: momentics <momentics@gmail.com>
package rtp

import (
	"encoding/binary"

	"github.com/momentics/rivermedia/api"
)

// ancHeaderSize is the fixed extended header: rtp(12) + ext_seq(2) +
// length(2) + anc_count(1) + F(2b)+reserved(1) + pad(2) to a 20-byte,
// word-aligned header (§4.5.4).
const ancHeaderSize = 20

// AncillaryPacket describes one DID/SDID-tagged ANC data block to pack.
type AncillaryPacket struct {
	DID      byte
	SDID     byte
	UserData []byte // raw 8-bit words, widened to 10 bits with ST 291-1 parity
}

// AncillaryFramer packs ANC data blocks into -40 packets (§4.5.4). Each
// packet carries exactly one ANC data block, matching the one-block-per-
// packet case the wake-up cadence targets.
type AncillaryFramer struct {
	params api.AncillaryParams
	ssrc   uint32
	seqr   *Sequencer
}

// NewAncillaryFramer constructs a framer for one TX ancillary-data stream.
func NewAncillaryFramer(params api.AncillaryParams, ssrc uint32) *AncillaryFramer {
	return &AncillaryFramer{params: params, ssrc: ssrc, seqr: NewSequencer()}
}

// pack10 widens an 8-bit ANC data word to the 10-bit ST 291-1 layout: bits
// 0-7 are the data byte, bit 8 is even parity over bits 0-7, bit 9 is the
// complement of bit 8.
func pack10(b byte) uint16 {
	parity := evenParity(b)
	return uint16(b) | uint16(parity)<<8 | uint16(parity^1)<<9
}

func evenParity(b byte) uint16 {
	var p byte
	for i := 0; i < 8; i++ {
		p ^= (b >> i) & 1
	}
	return uint16(p)
}

// pack10Words bit-packs a sequence of 10-bit values (only the low 10 bits
// of each uint16 are used) into a byte stream, most-significant-bit first,
// matching the across-byte-boundary packing ST 291-1 ANC words use.
func pack10Words(words []uint16) []byte {
	out := make([]byte, (len(words)*10+7)/8)
	bitPos := 0
	for _, w := range words {
		v := w & 0x3FF
		for b := 9; b >= 0; b-- {
			bit := (v >> uint(b)) & 1
			byteIdx := bitPos / 8
			shift := 7 - (bitPos % 8)
			out[byteIdx] |= byte(bit) << uint(shift)
			bitPos++
		}
	}
	return out
}

// NextPacket packs one AncillaryPacket into dst, returning bytes written.
func (f *AncillaryFramer) NextPacket(pkt AncillaryPacket, field Field, dst []byte) (int, error) {
	seq, extHigh := f.seqr.Next()
	n, err := WriteHeader(dst, Header{
		PayloadType:    f.params.PayloadType,
		SequenceNumber: seq,
		SSRC:           f.ssrc,
	})
	if err != nil {
		return 0, err
	}

	words := make([]uint16, 0, 3+len(pkt.UserData))
	words = append(words, pack10(pkt.DID), pack10(pkt.SDID), pack10(byte(len(pkt.UserData))))
	for _, b := range pkt.UserData {
		words = append(words, pack10(b))
	}
	packed := pack10Words(words)

	binary.BigEndian.PutUint16(dst[n:n+2], extHigh)
	n += 2
	binary.BigEndian.PutUint16(dst[n:n+2], uint16(len(packed)))
	n += 2
	dst[n] = 1 // anc_count: one block per packet
	n++
	dst[n] = byte(field) << 6
	n++
	n += 2 // word-alignment padding to reach ancHeaderSize

	if n != ancHeaderSize {
		return 0, api.NewError(api.ErrKindInvalidArgument, "rtp: ancillary header size mismatch")
	}
	n += copy(dst[n:], packed)
	return n, nil
}
