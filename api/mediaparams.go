// File: api/mediaparams.go
// Package api
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// MediaParams is the structured, already-parsed description consumed by the
// framers and scheduler. SDP text parsing itself is an external collaborator
// (§6); this module only consumes the result.

package api

// ScanType distinguishes progressive from interlaced video.
type ScanType int

const (
	ScanProgressive ScanType = iota
	ScanInterlaced
)

// PixelFormat enumerates the -20 framer's supported 4:2:2 layouts.
type PixelFormat int

const (
	PixYUV422_8 PixelFormat = iota
	PixYUV422_10
	PixUYVY422
)

// Resolution is a frame's active width/height in pixels.
type Resolution struct {
	Width  int
	Height int
}

// FrameRate is expressed as an exact rational num/den (e.g. 30000/1001).
type FrameRate struct {
	Num uint64
	Den uint64
}

// MediaParams is the computed, never-parsed-here description of a stream's
// media layout (§3 Data Model).
type MediaParams struct {
	Resolution            Resolution
	Scan                  ScanType
	PixelFormat           PixelFormat
	FrameRate             FrameRate
	SampleRateHz          int
	PacketsPerFrameField  int
	PacketsPerLine        int
	ChunksPerFrameField   int
	FrameFieldIntervalNs  uint64
}

// BitDepth for -30 audio samples.
type BitDepth int

const (
	BitDepth16 BitDepth = 16
	BitDepth24 BitDepth = 24
	BitDepth32 BitDepth = 32
)

// AudioParams parametrizes the -30 framer.
type AudioParams struct {
	SampleRateHz int
	Channels     int
	Depth        BitDepth
	PtimeUs      int
	PayloadType  byte
}

// VideoParams parametrizes the -20 framer.
type VideoParams struct {
	Width              int
	Height             int
	Scan               ScanType
	PixelFormat        PixelFormat
	PacketsPerFrameField int
	FrameRate          FrameRate
	MTU                int
	AllowPadding       bool
	ExtendedSeqNum     bool
	PayloadType        byte
}

// AncillaryParams parametrizes the -40 framer.
type AncillaryParams struct {
	Scan           ScanType
	WakeupPeriodNs uint64
	ExtendedSeqNum bool
	PayloadType    byte
}
