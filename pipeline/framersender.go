// File: pipeline/framersender.go
// Author: momentics <momentics@gmail.com>
package pipeline

import (
	"context"
	"time"

	"github.com/momentics/rivermedia/api"
	"github.com/momentics/rivermedia/rtp"
	"github.com/momentics/rivermedia/schedule"

	"golang.org/x/time/rate"
)

// VideoFramerSender is the terminal C5+C6+C3 stage for a video stream: it
// pulls converted frames off the pipeline, packetizes them with a
// rtp.VideoFramer, computes each frame's send time with a
// schedule.SendScheduler, and commits chunks to the transport.
type VideoFramerSender struct {
	Config    StageConfig
	Transport api.Transport
	StreamId  api.StreamId
	Framer    *rtp.VideoFramer
	Scheduler *schedule.SendScheduler
	Field     rtp.Field // progressive framers always pass rtp.FieldProgressive
}

// Run drains in until the EOF sentinel, writing one RTP packet into each
// packet entry of every acquired chunk slot and committing the slot with
// the scheduler's timeout.
func (s *VideoFramerSender) Run(in *FrameQueue) {
	pinIfConfigured(s.Config)
	for {
		f := in.Pop()
		if f.EOF {
			return
		}
		s.sendFrame(f.Data)
	}
}

func (s *VideoFramerSender) sendFrame(frameData []byte) {
	s.Framer.StartFrameOrField(s.Field)
	sendTime := s.Scheduler.NextSendTimeNs()
	first := true
	for !s.Framer.Done() {
		slot, err := s.Transport.GetNextChunk(s.StreamId)
		if err != nil {
			continue // NoFreeChunk is retryable: ask again for the same packet
		}
		for _, pkt := range slot.Payload {
			n, err := s.Framer.NextPacket(frameData, pkt.Data)
			if err != nil {
				break
			}
			_ = n
			if s.Framer.Done() {
				break
			}
		}
		now := time.Now().UnixNano()
		timeout := schedule.CommitTimeoutNs(first, sendTime, now)
		first = false
		_ = s.Transport.CommitChunk(s.StreamId, slot, uint64(timeout))
	}
}

// AudioFramerSender is the -30 terminal stage, structurally identical to
// the video one but without frame/field bookkeeping or a marker bit.
type AudioFramerSender struct {
	Config    StageConfig
	Transport api.Transport
	StreamId  api.StreamId
	Framer    *rtp.AudioFramer
}

// Run drains in until the EOF sentinel, packing fixed-size audio packets.
func (s *AudioFramerSender) Run(in *FrameQueue) {
	pinIfConfigured(s.Config)
	for {
		f := in.Pop()
		if f.EOF {
			return
		}
		s.sendSamples(f.Data)
	}
}

func (s *AudioFramerSender) sendSamples(data []byte) {
	payloadSize := s.Framer.PayloadSize()
	for off := 0; off+payloadSize <= len(data); off += payloadSize {
		slot, err := s.Transport.GetNextChunk(s.StreamId)
		if err != nil {
			continue
		}
		if len(slot.Payload) == 0 {
			continue
		}
		if _, err := s.Framer.NextPacket(data[off:off+payloadSize], slot.Payload[0].Data); err != nil {
			continue
		}
		_ = s.Transport.CommitChunk(s.StreamId, slot, 0)
	}
}

// DefaultAncillaryCadence is the wake-up interval an AncillaryFramerSender
// rate-limits its commits to when Limiter is nil (§4.5.4, "wake-up cadence
// is rate-limited (e.g. 10 ms granularity) to avoid flooding the commit
// path").
const DefaultAncillaryCadence = 10 * time.Millisecond

// AncillaryFramerSender is the -40 terminal stage: unlike Video/AudioFramerSender
// it paces its commits through a token-bucket limiter rather than sending as
// fast as frames arrive, since ANC data blocks queue irregularly and a burst
// must not flood the commit path.
type AncillaryFramerSender struct {
	Config    StageConfig
	Transport api.Transport
	StreamId  api.StreamId
	Framer    *rtp.AncillaryFramer
	DID       byte
	SDID      byte
	Field     rtp.Field
	Limiter   *rate.Limiter // nil => rate.NewLimiter(rate.Every(DefaultAncillaryCadence), 1)
}

func (s *AncillaryFramerSender) limiter() *rate.Limiter {
	if s.Limiter != nil {
		return s.Limiter
	}
	return rate.NewLimiter(rate.Every(DefaultAncillaryCadence), 1)
}

// Run drains in until the EOF sentinel, sending at most one ANC packet per
// rate-limited wake-up.
func (s *AncillaryFramerSender) Run(in *FrameQueue) {
	pinIfConfigured(s.Config)
	lim := s.limiter()
	ctx := context.Background()
	for {
		f := in.Pop()
		if f.EOF {
			return
		}
		if err := lim.Wait(ctx); err != nil {
			continue
		}
		s.sendBlock(f.Data)
	}
}

func (s *AncillaryFramerSender) sendBlock(userData []byte) {
	slot, err := s.Transport.GetNextChunk(s.StreamId)
	if err != nil {
		return
	}
	if len(slot.Payload) == 0 {
		return
	}
	pkt := rtp.AncillaryPacket{DID: s.DID, SDID: s.SDID, UserData: userData}
	if _, err := s.Framer.NextPacket(pkt, s.Field, slot.Payload[0].Data); err != nil {
		return
	}
	_ = s.Transport.CommitChunk(s.StreamId, slot, 0)
}
