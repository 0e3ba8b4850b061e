// File: ipo/reorder.go
// Author: momentics <momentics@gmail.com>
package ipo

import (
	"github.com/momentics/rivermedia/api"
)

// Entry is one buffered packet awaiting release, carrying zero-copy slices
// into its origin chunk's memory (§4.8 "Outputs" — never copied here).
type Entry struct {
	Seq       uint64
	ArrivalNs uint64
	PathID    int
	FlowTag   api.FlowTag
	Header    api.Buffer
	Payload   api.Buffer
}

// Released is one entry handed to the consumer, with the winning path
// recorded.
type Released struct {
	Entry
	WinningPathID int
}

// InsertOutcome classifies what Insert did with an arriving packet.
type InsertOutcome int

const (
	OutcomeUnique InsertOutcome = iota
	OutcomeRedundant
	OutcomeStale
	OutcomeEvicted // a stale unreleased entry occupied the slot and was force-retired as lost
)

// Stats accumulates the IPO-specific counters from §4.9.
type Stats struct {
	Unique        uint64
	Redundant     uint64
	LateDrops     uint64
	LostAfterWindow uint64
}

// Buffer is the reorder buffer: a fixed-capacity ring keyed by
// seq % capacity, with a release cursor that emits packets in order or
// skips gaps once they age past the path-differential window D.
type Buffer struct {
	width        SequenceWidth
	cap          uint64
	windowNs     uint64
	wrapMargin   uint64
	entries      []*Entry
	nextExpected uint64
	haveHead     bool
	waiting      bool
	waitSinceNs  uint64
	stats        Stats
}

// MinCapacityFloor is the smallest reorder buffer capacity ever used,
// regardless of how small 2*D/packet_interval computes to (§4.8).
const MinCapacityFloor = 8

// NewBuffer sizes the reorder buffer to max(MinCapacityFloor,
// 2*windowNs/packetIntervalNs) slots.
func NewBuffer(windowNs, packetIntervalNs uint64, width SequenceWidth) *Buffer {
	capacity := uint64(MinCapacityFloor)
	if packetIntervalNs > 0 {
		computed := 2 * windowNs / packetIntervalNs
		if computed > capacity {
			capacity = computed
		}
	}
	return &Buffer{
		width:      width,
		cap:        capacity,
		windowNs:   windowNs,
		wrapMargin: 0, // a packet strictly behind the release cursor is stale
		entries:    make([]*Entry, capacity),
	}
}

// Insert places an arriving packet into the buffer. release is called with
// any payload that must be returned to its chunk ring without being
// delivered to the consumer (redundant arrivals, stale arrivals).
func (b *Buffer) Insert(e Entry, release func(api.Buffer)) InsertOutcome {
	if !b.haveHead {
		b.haveHead = true
		b.nextExpected = e.Seq
	}
	headSeq := b.nextExpected
	if seqBehind(e.Seq, subMod(headSeq, b.wrapMargin, b.width), b.width) {
		b.stats.LateDrops++
		if release != nil {
			release(e.Payload)
		}
		return OutcomeStale
	}

	slot := e.Seq % b.cap
	existing := b.entries[slot]
	switch {
	case existing == nil:
		b.entries[slot] = &e
		b.stats.Unique++
		return OutcomeUnique
	case existing.Seq == e.Seq:
		b.stats.Redundant++
		if release != nil {
			release(e.Payload)
		}
		return OutcomeRedundant
	default:
		// A different, unreleased entry occupies this slot: it never made
		// it through the release cursor before wrapping back around.
		b.stats.LostAfterWindow++
		b.entries[slot] = &e
		return OutcomeEvicted
	}
}

func subMod(a, b uint64, w SequenceWidth) uint64 {
	m := modulus(w)
	return (a - b + m) % m
}

// ReleaseCursor advances, emitting entries in sequence order while the
// entry for next_expected is present. When it is missing, the cursor waits
// until the window D has elapsed since it first found the gap, then counts
// that sequence as lost and skips it. now is the current time in the same
// clock domain as Entry.ArrivalNs.
func (b *Buffer) ReleaseCursor(now uint64) []Released {
	var out []Released
	for {
		slot := b.nextExpected % b.cap
		entry := b.entries[slot]
		if entry != nil && entry.Seq == b.nextExpected {
			out = append(out, Released{Entry: *entry, WinningPathID: entry.PathID})
			b.entries[slot] = nil
			b.nextExpected = (b.nextExpected + 1) % modulus(b.width)
			b.waiting = false
			continue
		}
		if !b.waiting {
			b.waiting = true
			b.waitSinceNs = now
			return out
		}
		if now-b.waitSinceNs >= b.windowNs {
			b.stats.LostAfterWindow++
			b.nextExpected = (b.nextExpected + 1) % modulus(b.width)
			b.waiting = false
			continue
		}
		return out
	}
}

// Stats returns the current counter snapshot.
func (b *Buffer) StatsSnapshot() Stats { return b.stats }
