//go:build linux
// +build linux

// File: memsub/hugepages_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux huge-page backend via mmap(MAP_HUGETLB), replacing the teacher's
// heap-only TODO with the mmap path it left unimplemented.

package memsub

import (
	"github.com/momentics/rivermedia/api"
	"golang.org/x/sys/unix"
)

func hugeTLBFlag(size api.HugePageSize) int {
	switch size {
	case api.HugePage1GiB:
		return unix.MAP_HUGETLB | (30 << 26) // MAP_HUGE_1GB shift encoding
	case api.HugePage512MiB:
		return unix.MAP_HUGETLB | (29 << 26)
	default:
		return unix.MAP_HUGETLB | (21 << 26) // MAP_HUGE_2MB
	}
}

func hugePageAlloc(size int, pageSize api.HugePageSize) (rawAlloc, error) {
	if pageSize == 0 {
		pageSize = api.HugePage2MiB
		if unix.Getpagesize() == 64<<10 {
			pageSize = api.HugePage512MiB // 64 KiB base-page kernels
		}
	}
	flags := unix.MAP_PRIVATE | unix.MAP_ANONYMOUS | hugeTLBFlag(pageSize)
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, flags)
	if err != nil {
		return rawAlloc{}, api.NewError(api.ErrKindNotInitialized, "memsub: huge page mmap failed: "+err.Error())
	}
	return rawAlloc{bytes: data, numa: -1, ptr: bufferPtr(api.Buffer{Data: data})}, nil
}

func hugePageFree(r rawAlloc) error {
	if len(r.bytes) == 0 {
		return nil
	}
	return unix.Munmap(r.bytes)
}
