// File: internal/transport/netconn.go
// Author: momentics <momentics@gmail.com>
package transport

import (
	"net"

	"github.com/higebu/netfd"
	"github.com/momentics/rivermedia/api"
)

// udpNetConn adapts *net.UDPConn to api.NetConn, exposing the raw file
// descriptor for callers that need to register it with an external poller.
type udpNetConn struct {
	conn *net.UDPConn
}

var _ api.NetConn = (*udpNetConn)(nil)

// NewNetConn wraps conn as an api.NetConn.
func NewNetConn(conn *net.UDPConn) api.NetConn {
	return &udpNetConn{conn: conn}
}

func (c *udpNetConn) Read(p []byte) (int, error)  { return c.conn.Read(p) }
func (c *udpNetConn) Write(p []byte) (int, error) { return c.conn.Write(p) }
func (c *udpNetConn) Close() error                { return c.conn.Close() }

func (c *udpNetConn) RawFD() uintptr {
	return uintptr(netfd.GetFdFromConn(c.conn))
}
