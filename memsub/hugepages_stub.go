//go:build !linux
// +build !linux

// File: memsub/hugepages_stub.go
// Author: momentics <momentics@gmail.com>

package memsub

import "github.com/momentics/rivermedia/api"

func hugePageAlloc(size int, pageSize api.HugePageSize) (rawAlloc, error) {
	return rawAlloc{}, api.NewError(api.ErrKindUnsupported, "memsub: huge pages not supported on this platform")
}

func hugePageFree(r rawAlloc) error { return nil }
