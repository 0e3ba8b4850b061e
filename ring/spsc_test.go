// File: ring/spsc_test.go
// Author: momentics <momentics@gmail.com>
package ring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSPSCPushPopOrder(t *testing.T) {
	r := NewSPSC[int](4)
	require.True(t, r.Push(1))
	require.True(t, r.Push(2))
	v, ok := r.Pop()
	require.True(t, ok)
	require.Equal(t, 1, v)
	v, ok = r.Pop()
	require.True(t, ok)
	require.Equal(t, 2, v)
	_, ok = r.Pop()
	require.False(t, ok)
}

func TestSPSCBackpressure(t *testing.T) {
	r := NewSPSC[int](2)
	require.True(t, r.Push(1))
	require.True(t, r.Push(2))
	require.False(t, r.Push(3))
	require.Equal(t, 2, r.Len())
	require.Equal(t, 2, r.Cap())
}

func TestCeilToCacheLine(t *testing.T) {
	require.Equal(t, 64, CeilToCacheLine(1))
	require.Equal(t, 64, CeilToCacheLine(64))
	require.Equal(t, 128, CeilToCacheLine(65))
}
