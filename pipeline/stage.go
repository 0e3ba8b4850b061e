// File: pipeline/stage.go
// Author: momentics <momentics@gmail.com>
package pipeline

import (
	"runtime"
	"sync"

	"github.com/momentics/rivermedia/affinity"
)

// StageConfig configures one pipeline stage's thread affinity (§5
// "Scheduling model": each stage has its own thread, optionally pinned).
type StageConfig struct {
	PinCPU int // -1 disables pinning
}

func pinIfConfigured(cfg StageConfig) {
	if cfg.PinCPU < 0 {
		return
	}
	runtime.LockOSThread()
	mask := affinity.NewMaskBuilder().Add(cfg.PinCPU).Build()
	_ = affinity.PinCurrentToCPUs(mask)
}

// Reader produces Frames from an external source (a decoder, file reader,
// etc.) and pushes them into out until the source is exhausted, at which
// point it pushes the EOF sentinel and returns.
type Reader struct {
	Config StageConfig
	Next   func() (Frame, error) // returns io.EOF-equivalent by returning f.EOF=true
}

// Run executes the reader stage, returning when the source signals EOF.
func (r *Reader) Run(out *FrameQueue) {
	pinIfConfigured(r.Config)
	for {
		f, err := r.Next()
		if err != nil {
			out.Push(Frame{EOF: true})
			return
		}
		out.Push(f)
		if f.EOF {
			return
		}
	}
}

// TransformFunc converts one frame's raw bytes (pixel format conversion for
// video, PCM depth conversion for audio) in place or into a new buffer.
type TransformFunc func(src []byte) ([]byte, error)

// Transform is the Converter/Encoder stage: applies fn to every frame that
// passes through, forwarding the EOF sentinel unchanged.
type Transform struct {
	Config StageConfig
	Fn     TransformFunc
}

// Run executes the transform stage until it forwards an EOF frame.
func (t *Transform) Run(in, out *FrameQueue) {
	pinIfConfigured(t.Config)
	for {
		f := in.Pop()
		if f.EOF {
			out.Push(f)
			return
		}
		converted, err := t.Fn(f.Data)
		if err != nil {
			continue
		}
		out.Push(Frame{Data: converted})
	}
}

// Pipeline wires a Reader, zero or more Transforms, and a terminal sink
// function together with bounded FrameQueues, running each stage on its
// own goroutine.
type Pipeline struct {
	reader     *Reader
	transforms []*Transform
	queues     []*FrameQueue
	sink       func(*FrameQueue)
	wg         sync.WaitGroup
}

// New builds a pipeline: reader -> transforms[0] -> ... -> transforms[n-1]
// -> sink, with one FrameQueue of queueCapacity between every stage.
func New(reader *Reader, transforms []*Transform, sink func(*FrameQueue), queueCapacity int) *Pipeline {
	p := &Pipeline{reader: reader, transforms: transforms, sink: sink}
	for i := 0; i < len(transforms)+1; i++ {
		p.queues = append(p.queues, NewFrameQueue(queueCapacity))
	}
	return p
}

// Start launches every stage's goroutine.
func (p *Pipeline) Start() {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.reader.Run(p.queues[0])
	}()
	for i, t := range p.transforms {
		t := t
		in, out := p.queues[i], p.queues[i+1]
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			t.Run(in, out)
		}()
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.sink(p.queues[len(p.queues)-1])
	}()
}

// Wait blocks until every stage has observed EOF and returned.
func (p *Pipeline) Wait() { p.wg.Wait() }
