// File: cmd/mediatx/main.go
// mediatx is the TX demo application: it synthesizes a video frame
// source, runs it through the C7 pipeline's converter and C5/C6
// framer+sender stages, and commits chunks to a C3 transport stream,
// following the teacher's examples/stest/server/main.go shape (flag
// parsing, signal-driven graceful shutdown, periodic stats printing).
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package main

import (
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/momentics/rivermedia/affinity"
	"github.com/momentics/rivermedia/api"
	"github.com/momentics/rivermedia/clock"
	"github.com/momentics/rivermedia/config"
	"github.com/momentics/rivermedia/internal/corelog"
	"github.com/momentics/rivermedia/internal/transport"
	"github.com/momentics/rivermedia/memsub"
	"github.com/momentics/rivermedia/pipeline"
	"github.com/momentics/rivermedia/rtp"
	"github.com/momentics/rivermedia/schedule"
	"github.com/momentics/rivermedia/stats"

	"github.com/prometheus/client_golang/prometheus"
)

// demoVideo is the illustrative 1080p29.97 progressive layout used when
// no SDP-derived MediaParams collaborator is wired in (§6: SDP parsing
// is an external concern this module doesn't implement).
var demoVideo = api.VideoParams{
	Width:                1920,
	Height:               1080,
	Scan:                 api.ScanProgressive,
	PixelFormat:          api.PixYUV422_10,
	PacketsPerFrameField: 4000,
	FrameRate:            api.FrameRate{Num: 30000, Den: 1001},
	MTU:                  1460,
	PayloadType:          96,
}

// demoAudio is the illustrative AES67/-30 layout carried alongside the
// video stream, marked with rtp.DSCPAudio (§4.5.3) rather than sharing the
// video stream's best-effort marking.
var demoAudio = api.AudioParams{
	SampleRateHz: 48000,
	Channels:     2,
	Depth:        api.BitDepth24,
	PtimeUs:      1000,
	PayloadType:  97,
}

// demoAncillary is the illustrative -40 layout, woken at the default
// rate-limited cadence (§4.5.4) rather than a tighter SDP-negotiated period.
var demoAncillary = api.AncillaryParams{
	Scan:           api.ScanProgressive,
	WakeupPeriodNs: uint64(pipeline.DefaultAncillaryCadence.Nanoseconds()),
	PayloadType:    98,
}

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		corelog.Printf("config: %v", err)
		os.Exit(2)
	}

	if cfg.ApplicationCore >= 0 {
		mask := affinity.NewMaskBuilder().Add(cfg.ApplicationCore).Build()
		_ = affinity.PinCurrentToCPUs(mask)
	}

	wallClock := clock.NewSystemTAI(api.DefaultLeapSeconds)
	substrate := memsub.New(nil)

	tr := transport.New(substrate)
	defer tr.Close()

	dstIP := "127.0.0.1"
	if len(cfg.DstIPs) > 0 {
		dstIP = cfg.DstIPs[0]
	}
	dstPort := 5004
	if len(cfg.DstPorts) > 0 {
		dstPort = cfg.DstPorts[0]
	}

	streamId, err := tr.CreateTX(api.StreamParams{
		DeviceInterface: net.JoinHostPort(dstIP, "0"),
		PacketsPerChunk: 1,
		NumChunks:       64,
		Payload:         api.SubBlockParams{EntrySize: cfg.PayloadSize},
		ChecksumHeader:  cfg.ChecksumHeader,
	})
	if err != nil {
		corelog.Fatalf("CreateTX: %v", err)
	}
	defer tr.Destroy(streamId)

	if err := tr.AttachFlow(streamId, api.Flow{
		DstIP:   dstIP,
		DstPort: uint16(dstPort),
		Tag:     1,
	}); err != nil {
		corelog.Fatalf("AttachFlow: %v", err)
	}

	framer, err := rtp.NewVideoFramer(demoVideo, 0x1234_5678)
	if err != nil {
		corelog.Fatalf("NewVideoFramer: %v", err)
	}

	troNs, err := schedule.ComputeTRO(schedule.TROParams{
		Scan:            demoVideo.Scan,
		Height:          demoVideo.Height,
		FrameRate:       demoVideo.FrameRate,
		PacketsPerFrame: demoVideo.PacketsPerFrameField,
	})
	if err != nil {
		corelog.Fatalf("ComputeTRO: %v", err)
	}
	sendSched, err := schedule.NewSendScheduler(wallClock, demoVideo.FrameRate, demoVideo.Scan, troNs, schedule.DefaultSafetyNs)
	if err != nil {
		corelog.Fatalf("NewSendScheduler: %v", err)
	}

	registry := stats.NewRegistry()
	registry.ForStream(streamId)
	promReg := prometheus.NewRegistry()
	mirror := stats.NewPrometheusMirror(registry, promReg)

	frameBytes := frameSize(demoVideo)
	reader := &pipeline.Reader{
		Config: pipeline.StageConfig{PinCPU: -1},
		Next:   syntheticFrameSource(frameBytes, cfg.Packets),
	}
	sender := &pipeline.VideoFramerSender{
		Config:    pipeline.StageConfig{PinCPU: cfg.InternalCore},
		Transport: tr,
		StreamId:  streamId,
		Framer:    framer,
		Scheduler: sendSched,
		Field:     rtp.FieldProgressive,
	}

	p := pipeline.New(reader, nil, func(q *pipeline.FrameQueue) { sender.Run(q) }, 8)
	p.Start()

	audioPipeline, err := startAudioPipeline(tr, dstIP, dstPort+1, cfg)
	if err != nil {
		corelog.Fatalf("startAudioPipeline: %v", err)
	}

	ancillaryPipeline, err := startAncillaryPipeline(tr, dstIP, dstPort+2, cfg)
	if err != nil {
		corelog.Fatalf("startAncillaryPipeline: %v", err)
	}

	stopMetrics := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-stopMetrics:
				return
			case <-ticker.C:
				mirror.Refresh()
			}
		}
	}()

	signalCh := make(chan os.Signal, 2)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		p.Wait()
		audioPipeline.Wait()
		ancillaryPipeline.Wait()
		close(done)
	}()

	select {
	case <-signalCh:
		corelog.Printf("shutdown signal received")
	case <-done:
		corelog.Printf("frame source exhausted, shutting down")
	}
	close(stopMetrics)
	os.Exit(0)
}

// startAudioPipeline creates the demo AES67/-30 TX stream, marked with
// rtp.DSCPAudio (§4.5.3), and drives it with an AudioFramerSender alongside
// the video stream created in main.
func startAudioPipeline(tr api.Transport, dstIP string, dstPort int, cfg *config.Config) (*pipeline.Pipeline, error) {
	framer, err := rtp.NewAudioFramer(demoAudio, 0x2345_6789)
	if err != nil {
		return nil, err
	}

	streamId, err := tr.CreateTX(api.StreamParams{
		DeviceInterface: net.JoinHostPort(dstIP, "0"),
		PacketsPerChunk: 1,
		NumChunks:       64,
		Payload:         api.SubBlockParams{EntrySize: framer.PayloadSize() + rtpHeaderSlack},
		ChecksumHeader:  cfg.ChecksumHeader,
		DSCP:            rtp.DSCPAudio,
	})
	if err != nil {
		return nil, err
	}
	if err := tr.AttachFlow(streamId, api.Flow{
		DstIP:   dstIP,
		DstPort: uint16(dstPort),
		Tag:     2,
	}); err != nil {
		return nil, err
	}

	packetBytes := framer.PayloadSize()
	reader := &pipeline.Reader{
		Config: pipeline.StageConfig{PinCPU: -1},
		Next:   syntheticFrameSource(packetBytes*4, cfg.Packets),
	}
	sender := &pipeline.AudioFramerSender{
		Config:    pipeline.StageConfig{PinCPU: -1},
		Transport: tr,
		StreamId:  streamId,
		Framer:    framer,
	}

	p := pipeline.New(reader, nil, func(q *pipeline.FrameQueue) { sender.Run(q) }, 8)
	p.Start()
	return p, nil
}

// rtpHeaderSlack reserves room for the 12-byte RTP header ahead of each
// audio packet's PCM payload within its chunk-ring entry.
const rtpHeaderSlack = 12

// ancillaryUserDataBytes bounds the synthetic ANC data block size the demo
// source produces per wake-up.
const ancillaryUserDataBytes = 16

// startAncillaryPipeline creates the demo -40 TX stream and drives it with
// an AncillaryFramerSender paced to the default rate-limited wake-up
// cadence (§4.5.4).
func startAncillaryPipeline(tr api.Transport, dstIP string, dstPort int, cfg *config.Config) (*pipeline.Pipeline, error) {
	framer := rtp.NewAncillaryFramer(demoAncillary, 0x3456_789A)

	// pack10Words expands each 8-bit word to 10 bits; size generously so the
	// packed ANC block plus the extended header fits one chunk entry.
	entrySize := ancHeaderSizeEstimate + (ancillaryUserDataBytes+3)*2

	streamId, err := tr.CreateTX(api.StreamParams{
		DeviceInterface: net.JoinHostPort(dstIP, "0"),
		PacketsPerChunk: 1,
		NumChunks:       64,
		Payload:         api.SubBlockParams{EntrySize: entrySize},
		ChecksumHeader:  cfg.ChecksumHeader,
	})
	if err != nil {
		return nil, err
	}
	if err := tr.AttachFlow(streamId, api.Flow{
		DstIP:   dstIP,
		DstPort: uint16(dstPort),
		Tag:     3,
	}); err != nil {
		return nil, err
	}

	reader := &pipeline.Reader{
		Config: pipeline.StageConfig{PinCPU: -1},
		Next:   syntheticFrameSource(ancillaryUserDataBytes, cfg.Packets),
	}
	sender := &pipeline.AncillaryFramerSender{
		Config:    pipeline.StageConfig{PinCPU: -1},
		Transport: tr,
		StreamId:  streamId,
		Framer:    framer,
		DID:       0x61, // SMPTE ST 291-1 "undefined VANC" DID, placeholder for the external ANC source (§6)
		SDID:      0x01,
		Field:     rtp.FieldProgressive,
	}

	p := pipeline.New(reader, nil, func(q *pipeline.FrameQueue) { sender.Run(q) }, 8)
	p.Start()
	return p, nil
}

// ancHeaderSizeEstimate matches rtp.AncillaryFramer's fixed 20-byte extended
// header (rtp/ancillary.go's ancHeaderSize, unexported outside the package).
const ancHeaderSizeEstimate = 20

func frameSize(v api.VideoParams) int {
	bytesPerGroup := 4
	if v.PixelFormat == api.PixYUV422_10 {
		bytesPerGroup = 5
	}
	groups := (v.Width * v.Height) / 2
	return groups * bytesPerGroup
}

// syntheticFrameSource stands in for the external frame-source
// collaborator named in §6: it hands back zeroed frame buffers, up to
// maxFrames times (0 means unbounded), then signals EOF.
func syntheticFrameSource(frameBytes, maxFrames int) func() (pipeline.Frame, error) {
	sent := 0
	return func() (pipeline.Frame, error) {
		if maxFrames > 0 && sent >= maxFrames {
			return pipeline.Frame{EOF: true}, nil
		}
		sent++
		return pipeline.Frame{Data: make([]byte, frameBytes)}, nil
	}
}
