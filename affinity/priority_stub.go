//go:build !linux
// +build !linux

// File: affinity/priority_stub.go
// Author: momentics <momentics@gmail.com>

package affinity

import "github.com/momentics/rivermedia/api"

// SetRealtimePriority is unsupported outside Linux.
func SetRealtimePriority(priority int) error {
	return api.NewError(api.ErrKindUnsupported, "affinity: realtime priority not supported on this platform")
}
