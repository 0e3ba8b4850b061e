// File: internal/transport/feature_detect.go
// Author: momentics <momentics@gmail.com>
package transport

import (
	"runtime"

	"github.com/momentics/rivermedia/api"
)

// detectFeatures reports this platform's capabilities. Batch is false on
// every platform: the Linux loops issue one unix.Write/unix.Read per packet
// on the raw socket fd, the other platforms one net.UDPConn call per packet.
func detectFeatures() api.TransportFeatures {
	return api.TransportFeatures{
		ZeroCopy:  true,
		Batch:     false,
		NUMAAware: true,
		HDS:       true,
		OS:        []string{runtime.GOOS},
	}
}
