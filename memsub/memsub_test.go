// File: memsub/memsub_test.go
// Author: momentics <momentics@gmail.com>
package memsub

import (
	"testing"

	"github.com/momentics/rivermedia/api"
	"github.com/stretchr/testify/require"
)

func TestAllocateFreeMalloc(t *testing.T) {
	s := New(nil)
	buf, err := s.Allocate(api.AllocRequest{Size: 4096, Kind: api.MemoryMalloc})
	require.NoError(t, err)
	require.Len(t, buf.Data, 4096)
	require.Equal(t, api.MemoryMalloc, buf.Kind)
	require.NoError(t, s.Free(buf))
}

func TestAllocateRecyclesViaRelease(t *testing.T) {
	s := New(nil)
	buf, err := s.Allocate(api.AllocRequest{Size: 2048, Kind: api.MemoryMalloc})
	require.NoError(t, err)
	buf.Pool = s
	buf.Release()

	buf2, err := s.Allocate(api.AllocRequest{Size: 2048, Kind: api.MemoryMalloc})
	require.NoError(t, err)
	require.Len(t, buf2.Data, 2048)
}

func TestGpuWithoutBackendFails(t *testing.T) {
	s := New(nil)
	_, err := s.Allocate(api.AllocRequest{Size: 1024, Kind: api.MemoryGpu})
	require.Error(t, err)
	var coreErr *api.CoreError
	require.ErrorAs(t, err, &coreErr)
	require.Equal(t, api.ErrKindUnsupported, coreErr.Kind)
}

func TestGpuFallsBackToMallocWhenAllowed(t *testing.T) {
	s := New(nil)
	buf, err := s.Allocate(api.AllocRequest{Size: 1024, Kind: api.MemoryGpu, AllowMallocFallback: true})
	require.NoError(t, err)
	require.Equal(t, api.MemoryMalloc, buf.Kind)
}

func TestGpuBar1Exhaustion(t *testing.T) {
	gpu := NewSimulatedGpu(map[int]int64{0: 1024})
	s := New(gpu)

	_, err := s.Allocate(api.AllocRequest{Size: 1024, Kind: api.MemoryGpu, GpuDevice: 0})
	require.NoError(t, err)

	_, err = s.Allocate(api.AllocRequest{Size: 1, Kind: api.MemoryGpu, GpuDevice: 0})
	require.Error(t, err)
	var coreErr *api.CoreError
	require.ErrorAs(t, err, &coreErr)
	require.Equal(t, api.ErrKindInsufficientBar1, coreErr.Kind)
}

func TestRegisterDeregister(t *testing.T) {
	s := New(nil)
	buf, err := s.Allocate(api.AllocRequest{Size: 512, Kind: api.MemoryMalloc})
	require.NoError(t, err)

	key, err := s.Register(buf, "mlx5_0")
	require.NoError(t, err)
	require.NotZero(t, key)

	require.NoError(t, s.Deregister(key))
	require.Error(t, s.Deregister(key))
}

func TestMemsetMemcpy(t *testing.T) {
	s := New(nil)
	dst, _ := s.Allocate(api.AllocRequest{Size: 16, Kind: api.MemoryMalloc})
	require.NoError(t, s.Memset(dst, 0xAB))
	for _, v := range dst.Data {
		require.Equal(t, byte(0xAB), v)
	}

	src, _ := s.Allocate(api.AllocRequest{Size: 16, Kind: api.MemoryMalloc})
	for i := range src.Data {
		src.Data[i] = byte(i)
	}
	n, err := s.Memcpy(dst, src)
	require.NoError(t, err)
	require.Equal(t, 16, n)
	require.Equal(t, src.Data, dst.Data)
}
