// File: api/flow.go
// Package api
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// FlowTag is an opaque application-chosen identifier carried by every
// packet matched to a Flow (§3 Data Model).
type FlowTag uint32

// Flow is a 4-tuple match rule attached to an RX stream. SrcPort is
// optional; zero means "any source port".
type Flow struct {
	SrcIP   string
	SrcPort uint16
	DstIP   string
	DstPort uint16
	Tag     FlowTag
}
