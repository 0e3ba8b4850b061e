// File: pipeline/framersender_test.go
// Author: momentics <momentics@gmail.com>
package pipeline

import (
	"testing"
	"time"

	"github.com/momentics/rivermedia/api"
	"github.com/momentics/rivermedia/internal/transport"
	"github.com/momentics/rivermedia/memsub"
	"github.com/momentics/rivermedia/rtp"
	"github.com/stretchr/testify/require"

	"golang.org/x/time/rate"
)

func TestAncillaryFramerSenderRunReturnsAtEOF(t *testing.T) {
	tr := transport.New(memsub.New(nil))
	defer tr.Close()

	id, err := tr.CreateTX(api.StreamParams{
		DeviceInterface: "127.0.0.1:0",
		PacketsPerChunk: 1,
		NumChunks:       8,
		Payload:         api.SubBlockParams{EntrySize: 64},
	})
	require.NoError(t, err)

	framer := rtp.NewAncillaryFramer(api.AncillaryParams{PayloadType: 100}, 0xAABBCCDD)
	sender := &AncillaryFramerSender{
		Config:    StageConfig{PinCPU: -1},
		Transport: tr,
		StreamId:  id,
		Framer:    framer,
		DID:       0x61,
		SDID:      0x01,
		Field:     rtp.FieldProgressive,
		Limiter:   rate.NewLimiter(rate.Every(2*time.Millisecond), 1),
	}

	q := NewFrameQueue(4)
	q.Push(Frame{Data: []byte{1, 2, 3}})
	q.Push(Frame{Data: []byte{4, 5, 6}})
	q.Push(Frame{EOF: true})

	done := make(chan struct{})
	go func() {
		sender.Run(q)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("AncillaryFramerSender.Run did not observe EOF in time")
	}
}

func TestAncillaryFramerSenderDefaultLimiterIsTenMilliseconds(t *testing.T) {
	s := &AncillaryFramerSender{}
	lim := s.limiter()
	require.InDelta(t, float64(rate.Every(DefaultAncillaryCadence)), float64(lim.Limit()), 1e-9)
}
