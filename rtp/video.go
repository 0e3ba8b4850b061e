// File: rtp/video.go
// Author: momentics <momentics@gmail.com>
package rtp

import (
	"encoding/binary"

	"github.com/momentics/rivermedia/api"
)

// clockRateVideo is the RTP clock rate used by every SMPTE ST 2110-20
// payload type (90 kHz, matching every standard video payload type).
const clockRateVideo = 90000

// srdHeaderSize is the 6-byte Sample Row Data header size.
const srdHeaderSize = 6

// extSeqSize is the 2-byte extended-sequence-number field prefixed to the
// payload area. The video framer writes it on every packet, whatever
// VideoParams.ExtendedSeqNum says.
const extSeqSize = 2

// Field identifies which field of an interlaced frame a packet belongs to,
// encoded into the SRD header's 2-bit F value.
type Field uint8

const (
	FieldProgressive Field = 0b00
	FieldFirst       Field = 0b10
	FieldSecond      Field = 0b11
)

func pixelGroupBytes(fmtv api.PixelFormat) int {
	switch fmtv {
	case api.PixYUV422_10:
		return 5
	default: // PixYUV422_8, PixUYVY422
		return 4
	}
}

// VideoFramer packs one raw 4:2:2 frame or field at a time into RTP packets
// following the -20 two-SRD rule (§4.5.2).
type VideoFramer struct {
	params       api.VideoParams
	groupBytes   int
	groupsPerLine int
	lineBytes    int
	ssrc         uint32
	seqr         *Sequencer

	line        int
	offsetGroup int
	linesTotal  int
	field       Field
	timestamp   uint32
	started     bool
}

// NewVideoFramer constructs a framer for one TX video stream.
func NewVideoFramer(params api.VideoParams, ssrc uint32) (*VideoFramer, error) {
	if params.Width <= 0 || params.Height <= 0 {
		return nil, api.NewError(api.ErrKindInvalidArgument, "rtp: video width/height must be positive")
	}
	if params.Width%2 != 0 {
		return nil, api.NewError(api.ErrKindInvalidArgument, "rtp: 4:2:2 width must be even")
	}
	gb := pixelGroupBytes(params.PixelFormat)
	return &VideoFramer{
		params:        params,
		groupBytes:    gb,
		groupsPerLine: params.Width / 2,
		lineBytes:     (params.Width / 2) * gb,
		ssrc:          ssrc,
		seqr:          NewSequencer(),
	}, nil
}

// StartFrameOrField resets packetization state to the top of a new
// frame (progressive) or field (interlaced), and advances the RTP
// timestamp per §4.5.2's interlaced rule.
func (f *VideoFramer) StartFrameOrField(field Field) {
	f.field = field
	f.line = 0
	f.offsetGroup = 0
	if !f.started {
		f.started = true
	} else {
		inc := f.frameTimestampIncrement()
		if f.params.Scan == api.ScanInterlaced {
			inc /= 2
		}
		f.timestamp += inc
	}
	if f.params.Scan == api.ScanInterlaced {
		f.linesTotal = f.params.Height / 2
	} else {
		f.linesTotal = f.params.Height
	}
}

func (f *VideoFramer) frameTimestampIncrement() uint32 {
	if f.params.FrameRate.Num == 0 {
		return 0
	}
	return uint32(clockRateVideo * f.params.FrameRate.Den / f.params.FrameRate.Num)
}

// Done reports whether the current frame/field has been fully packetized.
func (f *VideoFramer) Done() bool { return f.line >= f.linesTotal }

func maxPayloadGroups(mtu, groupBytes int, twoSRD bool) int {
	overhead := 20 + 8 + HeaderSize + extSeqSize + srdHeaderSize
	if twoSRD {
		overhead += srdHeaderSize
	}
	avail := mtu - overhead
	if avail <= 0 {
		return 0
	}
	return avail / groupBytes
}

// NextPacket packs one RTP packet from frameData (one full frame or field's
// worth of raw pixel bytes, row-major) into dst, returning the number of
// bytes written. Call Done() beforehand to detect end of frame/field.
func (f *VideoFramer) NextPacket(frameData []byte, dst []byte) (int, error) {
	if f.Done() {
		return 0, api.NewError(api.ErrKindInvalidArgument, "rtp: NextPacket called after frame/field complete")
	}
	remainInLine := f.groupsPerLine - f.offsetGroup
	singleCap := maxPayloadGroups(f.params.MTU, f.groupBytes, false)
	twoCap := maxPayloadGroups(f.params.MTU, f.groupBytes, true)

	hasNextLine := f.line+1 < f.linesTotal
	twoSRD := remainInLine < singleCap && hasNextLine && (twoCap-remainInLine) >= 1

	off := 0
	off += writeHeaderInto(dst[off:], f)

	if !twoSRD {
		groups := remainInLine
		if groups > singleCap {
			groups = singleCap
		}
		length := groups * f.groupBytes
		off += writeSRD(dst[off:], length, f.field, uint16(f.line), false, uint16(f.offsetGroup))
		srcOff := f.line*f.lineBytes + f.offsetGroup*f.groupBytes
		off += copy(dst[off:], frameData[srcOff:srcOff+length])

		f.offsetGroup += groups
		if f.offsetGroup >= f.groupsPerLine {
			f.line++
			f.offsetGroup = 0
		}
	} else {
		firstGroups := remainInLine
		secondGroups := twoCap - firstGroups
		if secondGroups > f.groupsPerLine {
			secondGroups = f.groupsPerLine
		}
		if secondGroups < 1 {
			secondGroups = 1
		}
		firstLen := firstGroups * f.groupBytes
		secondLen := secondGroups * f.groupBytes

		off += writeSRD(dst[off:], firstLen, f.field, uint16(f.line), true, uint16(f.offsetGroup))
		off += writeSRD(dst[off:], secondLen, f.field, uint16(f.line+1), false, 0)

		srcOff1 := f.line*f.lineBytes + f.offsetGroup*f.groupBytes
		off += copy(dst[off:], frameData[srcOff1:srcOff1+firstLen])
		srcOff2 := (f.line+1)*f.lineBytes + 0
		off += copy(dst[off:], frameData[srcOff2:srcOff2+secondLen])

		f.line++
		f.offsetGroup = secondGroups
	}

	if f.Done() {
		markLastMarker(dst)
	}
	return off, nil
}

func writeHeaderInto(dst []byte, f *VideoFramer) int {
	seq, extHigh := f.seqr.Next()
	_, _ = WriteHeader(dst, Header{
		PayloadType:    f.params.PayloadType,
		SequenceNumber: seq,
		Timestamp:      f.timestamp,
		SSRC:           f.ssrc,
	})
	binary.BigEndian.PutUint16(dst[HeaderSize:HeaderSize+extSeqSize], extHigh)
	return HeaderSize + extSeqSize
}

// markLastMarker flips the marker bit (byte 1, bit 7) on an already-written
// header, since whether this is the frame/field's final packet is only
// known after packing its payload.
func markLastMarker(dst []byte) {
	dst[1] |= 0x80
}

func writeSRD(dst []byte, length int, field Field, line uint16, continuation bool, offset uint16) int {
	binary.BigEndian.PutUint16(dst[0:2], uint16(length))
	word1 := (uint16(field) << 14) | (line & 0x3FFF)
	binary.BigEndian.PutUint16(dst[2:4], word1)
	var c uint16
	if continuation {
		c = 1
	}
	word2 := (c << 15) | (offset & 0x7FFF)
	binary.BigEndian.PutUint16(dst[4:6], word2)
	return srdHeaderSize
}
