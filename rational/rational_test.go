package rational

import "testing"

func TestAddSubRoundTrip(t *testing.T) {
	a := FromFraction(30000, 1001)
	b := FromFraction(7, 13)
	sum := a.Add(b)
	back := sum.Sub(b)
	if !back.Equal(a) {
		t.Fatalf("(a+b)-b != a: got %s want %s", back, a)
	}
}

func TestNTSCFrameRate(t *testing.T) {
	fps := FromFraction(30000, 1001)
	frameNs := FromInt(1_000_000_000).Div(fps)
	// 1e9 * 1001 / 30000 ~= 33366666.67ns per frame
	got := Cast[float64](frameNs)
	want := 1e9 * 1001.0 / 30000.0
	if diff := got - want; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("frame interval mismatch: got %v want %v", got, want)
	}
}

func TestSubNegativeRejected(t *testing.T) {
	a := FromInt(1)
	b := FromInt(2)
	if _, err := a.TrySub(b); err == nil {
		t.Fatalf("expected ErrInvalidArgument")
	}
}

func TestMulDiv(t *testing.T) {
	a := New(0, 43, 1125)
	frame := FromFraction(1_000_000_000, 1).DivInt(60)
	tro := a.Mul(frame)
	if tro.IsZero() {
		t.Fatalf("expected non-zero TRO fragment")
	}
}

func TestNoPrecisionLossOverManyFrames(t *testing.T) {
	fps := FromFraction(30000, 1001)
	frameNs := FromInt(1_000_000_000).Div(fps)
	t0 := FromInt(0)
	for i := 0; i < 1000; i++ {
		t0 = t0.Add(frameNs)
	}
	// Exact rational arithmetic must reduce to the same fraction regardless
	// of accumulation order: 1000 frames == frameNs * 1000.
	direct := frameNs.MulInt(1000)
	if !t0.Equal(direct) {
		t.Fatalf("drift detected: accumulated=%s direct=%s", t0, direct)
	}
}
