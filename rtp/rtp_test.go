// File: rtp/rtp_test.go
package rtp

import (
	"testing"

	"github.com/momentics/rivermedia/api"
	"github.com/stretchr/testify/require"
)

func TestVideoFramerFirstPacketFillsMTUWithPartialLine(t *testing.T) {
	params := api.VideoParams{
		Width: 1920, Height: 1080,
		Scan:        api.ScanProgressive,
		PixelFormat: api.PixYUV422_8,
		FrameRate:   api.FrameRate{Num: 30, Den: 1},
		MTU:         1500,
		PayloadType: 96,
	}
	f, err := NewVideoFramer(params, 0xdeadbeef)
	require.NoError(t, err)
	f.StartFrameOrField(FieldProgressive)

	frame := make([]byte, params.Width*params.Height*2) // 4 bytes per 2-pixel group
	dst := make([]byte, 1500)
	n, err := f.NextPacket(frame, dst)
	require.NoError(t, err)
	require.Greater(t, n, HeaderSize+extSeqSize+srdHeaderSize)
	// A 1500-byte MTU leaves 1452 bytes after IP/UDP/RTP/ext-seq/SRD: 363 of
	// the line's 960 four-byte groups, under a single SRD.
	require.Equal(t, HeaderSize+extSeqSize+srdHeaderSize+363*4, n)
	require.False(t, f.Done())
}

func TestVideoFramerMarksLastPacket(t *testing.T) {
	params := api.VideoParams{
		Width: 4, Height: 2,
		Scan:        api.ScanProgressive,
		PixelFormat: api.PixYUV422_8,
		FrameRate:   api.FrameRate{Num: 30, Den: 1},
		MTU:         1500,
		PayloadType: 96,
	}
	f, err := NewVideoFramer(params, 1)
	require.NoError(t, err)
	f.StartFrameOrField(FieldProgressive)

	frame := make([]byte, 4*2*2) // width/2 groups * 4 bytes * height
	dst := make([]byte, 1500)
	for !f.Done() {
		_, err := f.NextPacket(frame, dst)
		require.NoError(t, err)
	}
	require.NotZero(t, dst[1]&0x80, "marker bit should be set on the last packet")
}

func TestAudioFramerFixedPayloadSize(t *testing.T) {
	params := api.AudioParams{SampleRateHz: 48000, Channels: 2, Depth: api.BitDepth24, PtimeUs: 1000, PayloadType: 97}
	f, err := NewAudioFramer(params, 42)
	require.NoError(t, err)
	require.Equal(t, 288, f.PayloadSize()) // 48 samples * 2ch * 3 bytes

	src := make([]byte, f.PayloadSize())
	dst := make([]byte, HeaderSize+f.PayloadSize())
	n, err := f.NextPacket(src, dst)
	require.NoError(t, err)
	require.Equal(t, HeaderSize+f.PayloadSize(), n)
	require.Equal(t, byte(97), dst[1]&0x7F)
}

func TestAncillaryFramerPacksDIDSDID(t *testing.T) {
	f := NewAncillaryFramer(api.AncillaryParams{PayloadType: 100}, 7)
	dst := make([]byte, 64)
	n, err := f.NextPacket(AncillaryPacket{DID: 0x41, SDID: 0x01, UserData: []byte{0x10, 0x20}}, FieldProgressive, dst)
	require.NoError(t, err)
	require.Greater(t, n, ancHeaderSize)
}

func TestPack10EvenParity(t *testing.T) {
	w := pack10(0x00)
	require.Equal(t, uint16(0x200), w) // data=0, parity=0, !parity=1 -> bit9 set
	w = pack10(0x01)
	require.Equal(t, uint16(0x101), w) // data=1, one set bit -> parity=1, !parity=0
}
