// File: internal/transport/checksum.go
// Author: momentics <momentics@gmail.com>
//
// Synthetic loss/corruption detection for streams created with
// StreamParams.ChecksumHeader set, grounded on the original generic
// sender/receiver's wire prefix (_examples/original_source/util/
// checksum_header.h's ChecksumHeader{sequence, checksum}) and its additive
// byte-sum verifier (_examples/original_source/generic_receiver/
// checksum_verifier.cpp's CPUChecksumVerifier::add_packet).
package transport

import "encoding/binary"

const checksumHeaderSize = 8

// sumBytes is the same plain additive checksum the original CPU verifier
// computes: a running sum of every payload byte.
func sumBytes(b []byte) uint32 {
	var sum uint32
	for _, c := range b {
		sum += uint32(c)
	}
	return sum
}

// encodeChecksumFrame writes a sequence+checksum header followed by payload
// into dst, which must be at least checksumHeaderSize+len(payload) long.
// Returns the number of bytes written.
func encodeChecksumFrame(dst []byte, seq uint32, payload []byte) int {
	binary.BigEndian.PutUint32(dst[0:4], seq)
	binary.BigEndian.PutUint32(dst[4:8], sumBytes(payload))
	n := copy(dst[checksumHeaderSize:], payload)
	return checksumHeaderSize + n
}

// decodeChecksumFrame verifies src's header against its trailing payload,
// copying the payload (header stripped) into dst. ok is false when src is
// too short to hold a header or the checksum does not match.
func decodeChecksumFrame(dst, src []byte) (n int, ok bool) {
	if len(src) < checksumHeaderSize {
		return 0, false
	}
	want := binary.BigEndian.Uint32(src[4:8])
	payload := src[checksumHeaderSize:]
	got := sumBytes(payload)
	n = copy(dst, payload)
	return n, got == want
}
