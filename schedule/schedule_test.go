// File: schedule/schedule_test.go
package schedule

import (
	"sync"
	"testing"
	"time"

	"github.com/momentics/rivermedia/api"
	"github.com/stretchr/testify/require"
)

func TestSchedulerFiresInOrder(t *testing.T) {
	s := New(nil)
	defer s.Close()

	var mu sync.Mutex
	var order []int

	var wg sync.WaitGroup
	wg.Add(3)
	_, err := s.Schedule(30*int64(time.Millisecond), func() {
		mu.Lock()
		order = append(order, 3)
		mu.Unlock()
		wg.Done()
	})
	require.NoError(t, err)
	_, err = s.Schedule(10*int64(time.Millisecond), func() {
		mu.Lock()
		order = append(order, 1)
		mu.Unlock()
		wg.Done()
	})
	require.NoError(t, err)
	_, err = s.Schedule(20*int64(time.Millisecond), func() {
		mu.Lock()
		order = append(order, 2)
		mu.Unlock()
		wg.Done()
	})
	require.NoError(t, err)

	wg.Wait()
	require.Equal(t, []int{1, 2, 3}, order)
}

func TestSchedulerCancel(t *testing.T) {
	s := New(nil)
	defer s.Close()

	fired := false
	c, err := s.Schedule(int64(50*time.Millisecond), func() { fired = true })
	require.NoError(t, err)
	require.NoError(t, c.Cancel())

	time.Sleep(80 * time.Millisecond)
	require.False(t, fired)
}

func TestComputeTROProgressive1080(t *testing.T) {
	tro, err := ComputeTRO(TROParams{
		Scan:            api.ScanProgressive,
		Height:          1080,
		FrameRate:       api.FrameRate{Num: 60, Den: 1},
		PacketsPerFrame: 4000,
	})
	require.NoError(t, err)
	require.Positive(t, tro)
}

func TestComputeTROInterlaced480(t *testing.T) {
	tro, err := ComputeTRO(TROParams{
		Scan:            api.ScanInterlaced,
		Height:          480,
		FrameRate:       api.FrameRate{Num: 30000, Den: 1001},
		PacketsPerFrame: 500,
	})
	require.NoError(t, err)
	require.NotZero(t, tro)
}

func TestSendSchedulerAdvancesByExactFrameInterval(t *testing.T) {
	sc, err := NewSendScheduler(nil, api.FrameRate{Num: 30000, Den: 1001}, api.ScanProgressive, 0, 1)
	require.NoError(t, err)

	first := sc.NextSendTimeNs()
	second := sc.NextSendTimeNs()
	delta := second - first
	// 30000/1001 fps => frame period ~33366666.67ns; allow 1ns rounding only.
	require.InDelta(t, 33366667, delta, 1)
}

func TestCommitTimeoutNsAppliesGuard(t *testing.T) {
	require.Equal(t, int64(0), CommitTimeoutNs(true, 1000, 999+CommitGuardNs))
	require.Equal(t, int64(1000), CommitTimeoutNs(true, 2000, 1000))
	require.Equal(t, int64(0), CommitTimeoutNs(false, 5000, 0))
}

func TestEOFSynchroniserReleasesTogether(t *testing.T) {
	rendezvous := NewEOFSynchroniser(2)
	results := make([]int64, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		results[0] = rendezvous.ArriveAndWait(100)
	}()
	go func() {
		defer wg.Done()
		results[1] = rendezvous.ArriveAndWait(200)
	}()
	wg.Wait()
	require.Equal(t, results[0], results[1])
	require.Equal(t, int64(200+LoopRealignGapNs), results[0])
}
