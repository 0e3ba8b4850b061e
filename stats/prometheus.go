// File: stats/prometheus.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package stats

import (
	"fmt"

	dto "github.com/prometheus/client_model/go"

	"github.com/momentics/rivermedia/api"
	"github.com/prometheus/client_golang/prometheus"
)

func streamIDLabel(id api.StreamId) string {
	return fmt.Sprintf("%d", id)
}

// PrometheusMirror periodically copies a Registry's per-stream counters
// into labeled Prometheus vectors, the same external-scrape mirroring
// role runZeroInc-sockstats/pkg/exporter gives its TCPInfoCollector, but
// as a plain CounterVec/GaugeVec pull on demand rather than a custom
// Collector, since stream counters are already monotonic atomics rather
// than values that must be fetched from a syscall at scrape time.
type PrometheusMirror struct {
	registry *Registry

	receivedPackets  *prometheus.CounterVec
	receivedBytes    *prometheus.CounterVec
	droppedPackets   *prometheus.CounterVec
	checksumMismatch *prometheus.CounterVec
	redundantPackets *prometheus.CounterVec
	uniquePackets    *prometheus.CounterVec
	lateDrops        *prometheus.CounterVec
	lostAfterWindow  *prometheus.CounterVec
	lastSequence     *prometheus.GaugeVec
}

// NewPrometheusMirror builds the vector set and registers it with reg.
func NewPrometheusMirror(registry *Registry, reg prometheus.Registerer) *PrometheusMirror {
	labels := []string{"stream_id"}
	m := &PrometheusMirror{
		registry: registry,
		receivedPackets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rivermedia", Name: "received_packets_total",
			Help: "Packets received on this stream.",
		}, labels),
		receivedBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rivermedia", Name: "received_bytes_total",
			Help: "Bytes received on this stream.",
		}, labels),
		droppedPackets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rivermedia", Name: "dropped_packets_total",
			Help: "Gap-inferred dropped packets on this stream.",
		}, labels),
		checksumMismatch: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rivermedia", Name: "checksum_mismatch_total",
			Help: "Synthetic checksum-header mismatches on this stream.",
		}, labels),
		redundantPackets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rivermedia", Name: "redundant_packets_total",
			Help: "IPO duplicate arrivals collapsed away.",
		}, labels),
		uniquePackets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rivermedia", Name: "unique_packets_total",
			Help: "IPO first-seen arrivals.",
		}, labels),
		lateDrops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rivermedia", Name: "late_drops_total",
			Help: "IPO stale arrivals dropped behind the release cursor.",
		}, labels),
		lostAfterWindow: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rivermedia", Name: "lost_after_window_total",
			Help: "IPO gaps skipped after the path differential window elapsed.",
		}, labels),
		lastSequence: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "rivermedia", Name: "last_sequence",
			Help: "Most recent released sequence number, reset-to-value.",
		}, labels),
	}

	reg.MustRegister(
		m.receivedPackets, m.receivedBytes, m.droppedPackets, m.checksumMismatch,
		m.redundantPackets, m.uniquePackets, m.lateDrops, m.lostAfterWindow, m.lastSequence,
	)
	return m
}

// Refresh overwrites every labeled series from the current Registry
// snapshot. Counters are monotonic in the underlying Registry, so
// re-setting from an absolute value on every scrape (rather than Add-ing
// a delta) keeps the mirror correct even across missed refresh ticks.
func (m *PrometheusMirror) Refresh() {
	for _, snap := range m.registry.Snapshot() {
		label := prometheus.Labels{"stream_id": streamIDLabel(snap.StreamId)}
		setCounter(m.receivedPackets.With(label), snap.ReceivedPackets)
		setCounter(m.receivedBytes.With(label), snap.ReceivedBytes)
		setCounter(m.droppedPackets.With(label), snap.DroppedPackets)
		setCounter(m.checksumMismatch.With(label), snap.ChecksumMismatch)
		setCounter(m.redundantPackets.With(label), snap.RedundantPackets)
		setCounter(m.uniquePackets.With(label), snap.UniquePackets)
		setCounter(m.lateDrops.With(label), snap.LateDrops)
		setCounter(m.lostAfterWindow.With(label), snap.LostAfterWindow)
		m.lastSequence.With(label).Set(float64(snap.LastSequence))
	}
}

// setCounter sets a prometheus.Counter to an absolute value. Counter has
// no Set method by design (it is meant to only go up via Add), but since
// the source of truth here is already a monotonic atomic snapshot, Add
// of the delta from the counter's own current value achieves the same
// absolute result without violating the monotonic-increase contract.
func setCounter(c prometheus.Counter, value uint64) {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return
	}
	current := uint64(m.GetCounter().GetValue())
	if value > current {
		c.Add(float64(value - current))
	}
}
