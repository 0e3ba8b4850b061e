//go:build !linux
// +build !linux

// File: internal/transport/loops_stub.go
// Author: momentics <momentics@gmail.com>
//
// Portable one-packet-per-syscall send/receive loops over net.UDPConn for
// every platform other than Linux.
package transport

import (
	"time"

	"github.com/momentics/rivermedia/api"
)

const pollInterval = 2 * time.Millisecond

func (s *stream) sendLoop() {
	defer s.wg.Done()
	var scratch []byte
	if s.params.ChecksumHeader {
		scratch = make([]byte, s.params.Payload.EntrySize+checksumHeaderSize)
	}
	for {
		select {
		case <-s.stopCh:
			return
		default:
		}
		idx, ok := s.ring.NextReady()
		if !ok {
			time.Sleep(pollInterval)
			continue
		}
		slot := s.ring.Slot(idx)
		for _, pkt := range slot.Payload {
			out := pkt.Data
			if s.params.ChecksumHeader {
				seq := s.checksumSeq.Add(1) - 1
				n := encodeChecksumFrame(scratch, seq, pkt.Data)
				out = scratch[:n]
			}
			if _, err := s.conn.Write(out); err != nil {
				break
			}
		}
		s.ring.Release(idx)
		notifyNonBlocking(s.notify)
	}
}

func (s *stream) recvLoop() {
	defer s.wg.Done()
	var scratch []byte
	if s.params.ChecksumHeader {
		scratch = make([]byte, s.params.Payload.EntrySize+checksumHeaderSize)
	}
	for {
		select {
		case <-s.stopCh:
			return
		default:
		}
		idx, ok := s.ring.Acquire()
		if !ok {
			time.Sleep(pollInterval)
			continue
		}
		slot := s.ring.Slot(idx)
		completion := api.Completion{StreamId: s.id, Index: idx64(idx)}
		for _, pkt := range slot.Payload {
			_ = s.conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
			var n int
			var err error
			checksumBad := false
			if s.params.ChecksumHeader {
				var rn int
				rn, _, err = s.conn.ReadFromUDP(scratch)
				if err != nil {
					continue
				}
				var ok bool
				n, ok = decodeChecksumFrame(pkt.Data, scratch[:rn])
				checksumBad = !ok
			} else {
				n, _, err = s.conn.ReadFromUDP(pkt.Data)
				if err != nil {
					continue
				}
			}
			completion.Payload = append(completion.Payload, pkt.Slice(0, n))
			completion.ArrivalNs = append(completion.ArrivalNs, uint64(time.Now().UnixNano()))
			completion.ChecksumBad = append(completion.ChecksumBad, checksumBad)
		}
		s.ring.Release(idx)
		if len(completion.Payload) > 0 {
			s.completions.Enqueue(completion)
			notifyNonBlocking(s.notify)
		}
	}
}

func notifyNonBlocking(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

func idx64(i int) uint64 { return uint64(i) }
