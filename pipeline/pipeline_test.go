// File: pipeline/pipeline_test.go
package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPipelinePropagatesEOF(t *testing.T) {
	var produced int
	reader := &Reader{
		Config: StageConfig{PinCPU: -1},
		Next: func() (Frame, error) {
			produced++
			if produced > 3 {
				return Frame{EOF: true}, nil
			}
			return Frame{Data: []byte{byte(produced)}}, nil
		},
	}
	passthrough := &Transform{
		Config: StageConfig{PinCPU: -1},
		Fn:     func(src []byte) ([]byte, error) { return src, nil },
	}

	var consumed []byte
	done := make(chan struct{})
	sink := func(q *FrameQueue) {
		for {
			f := q.Pop()
			if f.EOF {
				close(done)
				return
			}
			consumed = append(consumed, f.Data...)
		}
	}

	p := New(reader, []*Transform{passthrough}, sink, 4)
	p.Start()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("pipeline did not reach EOF in time")
	}
	p.Wait()
	require.Equal(t, []byte{1, 2, 3}, consumed)
}

func TestPlanarYUV422ToUYVY(t *testing.T) {
	fn := PlanarYUV422ToUYVY(2, 1) // 1 group per frame
	src := []byte{10, 20, 100, 200}
	out, err := fn(src)
	require.NoError(t, err)
	require.Equal(t, []byte{100, 10, 200, 20}, out)
}

func TestPCMTo24BitBEFromPCM16(t *testing.T) {
	fn := PCMTo24BitBE(16)
	// one little-endian 16-bit sample: 0x1234
	src := []byte{0x34, 0x12}
	out, err := fn(src)
	require.NoError(t, err)
	require.Len(t, out, 3)
	require.Equal(t, byte(0x12), out[0])
	require.Equal(t, byte(0x34), out[1])
	require.Equal(t, byte(0x00), out[2])
}
