// File: internal/transport/checksum_test.go
// Author: momentics <momentics@gmail.com>
package transport

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeChecksumFrameRoundTrips(t *testing.T) {
	payload := []byte("hello-world-0123")
	scratch := make([]byte, len(payload)+checksumHeaderSize)

	n := encodeChecksumFrame(scratch, 42, payload)
	require.Equal(t, len(payload)+checksumHeaderSize, n)

	dst := make([]byte, len(payload))
	got, ok := decodeChecksumFrame(dst, scratch[:n])
	require.True(t, ok)
	require.Equal(t, len(payload), got)
	require.Equal(t, payload, dst)
}

func TestDecodeChecksumFrameDetectsCorruption(t *testing.T) {
	payload := []byte("hello-world-0123")
	scratch := make([]byte, len(payload)+checksumHeaderSize)
	n := encodeChecksumFrame(scratch, 1, payload)

	scratch[n-1] ^= 0xFF // flip a payload byte after the checksum was computed

	dst := make([]byte, len(payload))
	_, ok := decodeChecksumFrame(dst, scratch[:n])
	require.False(t, ok)
}

func TestDecodeChecksumFrameRejectsShortInput(t *testing.T) {
	dst := make([]byte, 4)
	_, ok := decodeChecksumFrame(dst, []byte{1, 2, 3})
	require.False(t, ok)
}
