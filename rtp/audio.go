// File: rtp/audio.go
// Author: momentics <momentics@gmail.com>
package rtp

import (
	"github.com/momentics/rivermedia/api"
)

// DSCPAudio is the AES67/SMPTE ST 2110-30 recommended DSCP marking (§4.5.3).
const DSCPAudio = 34

// AudioFramer packs linear PCM samples into fixed-size -30 packets: the RTP
// timestamp advances by samples-per-packet on every packet, no marker bit,
// no SRD header.
type AudioFramer struct {
	params          api.AudioParams
	samplesPerPacket int
	bytesPerPacket   int
	ssrc             uint32
	seqr             *Sequencer
	timestamp        uint32
}

// NewAudioFramer constructs a framer for one TX audio stream.
func NewAudioFramer(params api.AudioParams, ssrc uint32) (*AudioFramer, error) {
	if params.SampleRateHz <= 0 || params.Channels <= 0 || params.PtimeUs <= 0 {
		return nil, api.NewError(api.ErrKindInvalidArgument, "rtp: audio sample rate/channels/ptime must be positive")
	}
	samplesPerPacket := params.SampleRateHz * params.PtimeUs / 1_000_000
	if samplesPerPacket <= 0 {
		return nil, api.NewError(api.ErrKindInvalidArgument, "rtp: ptime too small for sample rate")
	}
	bytesPerSample := int(params.Depth) / 8
	return &AudioFramer{
		params:           params,
		samplesPerPacket: samplesPerPacket,
		bytesPerPacket:   samplesPerPacket * params.Channels * bytesPerSample,
		ssrc:             ssrc,
		seqr:             NewSequencer(),
	}, nil
}

// PayloadSize returns the fixed payload size in bytes for every packet this
// framer emits.
func (f *AudioFramer) PayloadSize() int { return f.bytesPerPacket }

// NextPacket packs one packet's worth of interleaved PCM samples from src
// into dst (header + payload), advancing sequence and timestamp state.
func (f *AudioFramer) NextPacket(src []byte, dst []byte) (int, error) {
	if len(src) < f.bytesPerPacket {
		return 0, api.NewError(api.ErrKindInvalidArgument, "rtp: audio source shorter than one packet")
	}
	seq, _ := f.seqr.Next()
	n, err := WriteHeader(dst, Header{
		PayloadType:    f.params.PayloadType,
		SequenceNumber: seq,
		Timestamp:      f.timestamp,
		SSRC:           f.ssrc,
	})
	if err != nil {
		return 0, err
	}
	n += copy(dst[n:], src[:f.bytesPerPacket])
	f.timestamp += uint32(f.samplesPerPacket)
	return n, nil
}
