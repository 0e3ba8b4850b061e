// File: cmd/mediarx/main.go
// mediarx is the RX demo application: it creates one RX stream per
// redundant path named by --local-ips, drives an ipo.Receiver across
// them, and prints the released, deduplicated packet stream's rate
// alongside live stats, following the teacher's
// examples/stest/server/main.go shutdown shape.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package main

import (
	"net"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/momentics/rivermedia/api"
	"github.com/momentics/rivermedia/clock"
	"github.com/momentics/rivermedia/config"
	"github.com/momentics/rivermedia/internal/corelog"
	"github.com/momentics/rivermedia/internal/transport"
	"github.com/momentics/rivermedia/ipo"
	"github.com/momentics/rivermedia/memsub"
	"github.com/momentics/rivermedia/stats"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		corelog.Printf("config: %v", err)
		os.Exit(2)
	}

	localIPs := cfg.LocalIPs
	if len(localIPs) == 0 {
		localIPs = []string{"127.0.0.1"}
	}
	dstPort := 5004
	if len(cfg.DstPorts) > 0 {
		dstPort = cfg.DstPorts[0]
	}

	wallClock := clock.NewSystemTAI(api.DefaultLeapSeconds)
	substrate := memsub.New(nil)
	tr := transport.New(substrate)
	defer tr.Close()

	width := ipo.Width16
	if cfg.ExtendedSeqNum {
		width = ipo.Width32
	}

	var sources []ipo.PathSource
	for _, ip := range localIPs {
		id, err := tr.CreateRX(api.StreamParams{
			DeviceInterface: net.JoinHostPort(ip, strconv.Itoa(dstPort)),
			PacketsPerChunk: 1,
			NumChunks:       256,
			Payload:         api.SubBlockParams{EntrySize: cfg.PayloadSize},
			ChecksumHeader:  cfg.ChecksumHeader,
		})
		if err != nil {
			corelog.Fatalf("CreateRX(%s): %v", ip, err)
		}
		if err := tr.AttachFlow(id, api.Flow{
			DstIP:   ip,
			DstPort: uint16(dstPort),
			Tag:     api.FlowTag(len(sources) + 1),
		}); err != nil {
			corelog.Fatalf("AttachFlow(%s): %v", ip, err)
		}
		defer tr.Destroy(id)
		sources = append(sources, ipo.PathSource{
			Transport:      tr,
			StreamId:       id,
			ExtendedSeqNum: cfg.ExtendedSeqNum,
		})
	}

	packetIntervalNs := uint64(1_000_000_000) / 90_000 // placeholder clock-rate-derived interval floor, refined per stream by MediaParams (§6, external SDP)
	windowNs := uint64(cfg.MaxPDUs) * 1000

	receiver := ipo.NewReceiver(sources, windowNs, packetIntervalNs, width, wallClock)
	out := make(chan ipo.Released, 1024)
	receiver.Start(out)
	defer receiver.Stop()

	registry := stats.NewRegistry()
	promReg := prometheus.NewRegistry()
	mirror := stats.NewPrometheusMirror(registry, promReg)

	const aggregatedStreamId = api.StreamId(0) // one logical stream results from collapsing all redundant paths (§4.8)
	counters := registry.ForStream(aggregatedStreamId)

	var released int64
	go func() {
		for rel := range out {
			atomic.AddInt64(&released, 1)
			reorderStats, pathStats := receiver.StatsSnapshot()
			counters.IngestIPOStats(reorderStats.Unique, reorderStats.Redundant, reorderStats.LateDrops, reorderStats.LostAfterWindow)
			var checksumBad uint64
			for _, ps := range pathStats {
				checksumBad += ps.ChecksumMismatches
			}
			counters.SetChecksumMismatch(checksumBad)
			counters.SetLastSequence(rel.Seq)
		}
	}()

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
				corelog.Printf("released=%d", atomic.SwapInt64(&released, 0))
			}
		}
	}()

	signalCh := make(chan os.Signal, 2)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	<-signalCh
	corelog.Printf("shutdown signal received")
	close(stopMetrics)
	os.Exit(0)
}
