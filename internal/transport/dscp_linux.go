// File: internal/transport/dscp_linux.go
// Author: momentics <momentics@gmail.com>
//
// DSCP/TOS marking for UDP streams (§4.5.3), adapted from
// _examples/nishisan-dev-n-backup/internal/agent/dscp.go's ApplyDSCP raw-conn
// SetsockoptInt pattern, retargeted from *net.TCPConn to *net.UDPConn and
// using golang.org/x/sys/unix (already wired in loops_linux.go) instead of
// the stdlib syscall package.

//go:build linux

package transport

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// applyDSCP sets the IP_TOS socket option to dscp<<2 (DSCP code point,
// ECN bits left zero). dscp == 0 is a no-op.
func applyDSCP(conn *net.UDPConn, dscp int) error {
	if dscp == 0 {
		return nil
	}
	rawConn, err := conn.SyscallConn()
	if err != nil {
		return fmt.Errorf("getting raw conn for DSCP: %w", err)
	}
	tos := dscp << 2
	var sysErr error
	if err := rawConn.Control(func(fd uintptr) {
		sysErr = unix.SetsockoptInt(int(fd), unix.IPPROTO_IP, unix.IP_TOS, tos)
	}); err != nil {
		return fmt.Errorf("control fd for DSCP: %w", err)
	}
	if sysErr != nil {
		return fmt.Errorf("setsockopt IP_TOS=%d: %w", tos, sysErr)
	}
	return nil
}
