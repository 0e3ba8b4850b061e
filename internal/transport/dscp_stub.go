// File: internal/transport/dscp_stub.go
// Author: momentics <momentics@gmail.com>

//go:build !linux

package transport

import "net"

// applyDSCP is a no-op off Linux: IP_TOS socket-option marking isn't
// portable across the other platforms this stub path targets (§4.5.3 is an
// advisory QoS hint, not correctness-critical).
func applyDSCP(conn *net.UDPConn, dscp int) error {
	return nil
}
