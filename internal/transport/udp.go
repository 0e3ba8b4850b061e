// File: internal/transport/udp.go
// Author: momentics <momentics@gmail.com>
package transport

import (
	"net"

	"github.com/momentics/rivermedia/api"
	"github.com/momentics/rivermedia/internal/corelog"
)

// bindUDP opens the socket backing one stream. params.DeviceInterface is an
// "ip:port" pair naming the local NIC address the stream binds to (§3).
func bindUDP(params api.StreamParams) (*net.UDPConn, error) {
	addr, err := net.ResolveUDPAddr("udp", params.DeviceInterface)
	if err != nil {
		return nil, api.NewError(api.ErrKindInvalidArgument, "transport: invalid device_interface: "+err.Error())
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, api.NewError(api.ErrKindNotInitialized, "transport: bind failed: "+err.Error())
	}
	if params.DSCP != 0 {
		if err := applyDSCP(conn, params.DSCP); err != nil {
			// Advisory QoS marking (§4.5.3): failure to set it doesn't
			// invalidate the stream, just its network priority.
			corelog.Warnf("transport: DSCP marking failed for %s: %v", params.DeviceInterface, err)
		}
	}
	return conn, nil
}
