package track

import (
	"math"
	"testing"

	"reframe/internal/testsupport"
)

func TestFillInterpolatesGap(t *testing.T) {
	series := []float64{50, math.NaN(), 70}
	got := Fill(series, 0)
	want := []float64{50, 60, 70}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("frame %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestFillGapValuesStayBetweenNeighbours(t *testing.T) {
	series := testsupport.GappyTrack([]float64{10, 0, 0, 0, 110, 0, 90}, 1, 2, 3, 5)
	got := Fill(series, 0)
	for i := 1; i < 4; i++ {
		if got[i] <= 10 || got[i] >= 110 {
			t.Fatalf("frame %d interpolated to %v, outside (10, 110)", i, got[i])
		}
		if got[i] <= got[i-1] {
			t.Fatalf("expected monotonic fill across rising segment, got %v", got[:5])
		}
	}
	if got[5] <= 90 || got[5] >= 110 {
		t.Fatalf("frame 5 interpolated to %v, outside (90, 110)", got[5])
	}
}

func TestFillEdgesHoldNearestValid(t *testing.T) {
	series := []float64{math.NaN(), math.NaN(), 42, 44, math.NaN()}
	got := Fill(series, 0)
	if got[0] != 42 || got[1] != 42 {
		t.Fatalf("leading gap should hold first valid value, got %v", got)
	}
	if got[4] != 44 {
		t.Fatalf("trailing gap should hold last valid value, got %v", got)
	}
}

func TestFillSingleDetectionHoldsEverywhere(t *testing.T) {
	series := []float64{math.NaN(), 33, math.NaN(), math.NaN()}
	got := Fill(series, 0)
	for i, v := range got {
		if v != 33 {
			t.Fatalf("frame %d: got %v want 33", i, v)
		}
	}
}

func TestFillNoDetectionsFallsBackToCenter(t *testing.T) {
	series := []float64{math.NaN(), math.NaN(), math.NaN()}
	got := Fill(series, 320)
	for i, v := range got {
		if v != 320 {
			t.Fatalf("frame %d: got %v want fallback 320", i, v)
		}
	}
}

func TestSmoothZeroSigmaIsIdentity(t *testing.T) {
	series := []float64{1, 5, 2, 8, 3}
	got := Smooth(series, 0)
	for i := range series {
		if got[i] != series[i] {
			t.Fatalf("frame %d changed: %v -> %v", i, series[i], got[i])
		}
	}
}

func TestSmoothPreservesConstantSeries(t *testing.T) {
	series := []float64{7, 7, 7, 7, 7, 7, 7, 7}
	got := Smooth(series, 2.5)
	for i, v := range got {
		if math.Abs(v-7) > 1e-9 {
			t.Fatalf("frame %d: got %v want 7", i, v)
		}
	}
}

func TestSmoothDampensSpike(t *testing.T) {
	series := []float64{100, 100, 100, 100, 400, 100, 100, 100, 100}
	got := Smooth(series, 1.5)
	if got[4] >= 399 {
		t.Fatalf("expected spike dampened, got %v", got[4])
	}
	if got[4] <= 100 {
		t.Fatalf("expected spike to still pull upward, got %v", got[4])
	}
	// Mass spreads but kernel normalization preserves range bounds.
	for i, v := range got {
		if v < 100-1e-9 || v > 400+1e-9 {
			t.Fatalf("frame %d escaped input range: %v", i, v)
		}
	}
}

func TestReconcileSeriesPadsAndTruncates(t *testing.T) {
	series := []float64{1, 2, 3}
	padded := ReconcileSeries(series, 5)
	if len(padded) != 5 || padded[3] != 3 || padded[4] != 3 {
		t.Fatalf("unexpected padding: %v", padded)
	}
	truncated := ReconcileSeries(series, 2)
	if len(truncated) != 2 || truncated[0] != 1 || truncated[1] != 2 {
		t.Fatalf("unexpected truncation: %v", truncated)
	}
	if got := ReconcileSeries(nil, 3); got != nil {
		t.Fatalf("expected nil for empty series, got %v", got)
	}
}

func TestFinalizeProducesCleanTrack(t *testing.T) {
	tr := New(3)
	tr.Set(0, 50, 50)
	tr.Set(2, 70, 70)

	out, err := tr.Finalize(320, 180, 0)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if err := out.Validate(); err != nil {
		t.Fatalf("Validate after Finalize: %v", err)
	}
	if out.Xs[1] != 60 || out.Ys[1] != 60 {
		t.Fatalf("midpoint not interpolated: (%v, %v)", out.Xs[1], out.Ys[1])
	}
	if out.Len() != 3 {
		t.Fatalf("unexpected length %d", out.Len())
	}
}

func TestFinalizeRejectsMismatchedSeries(t *testing.T) {
	tr := Track{Xs: []float64{1, 2}, Ys: []float64{1}}
	if _, err := tr.Finalize(0, 0, 0); err == nil {
		t.Fatal("expected error for mismatched series")
	}
}

func TestValidateFlagsRemainingNaN(t *testing.T) {
	tr := Track{Xs: []float64{1, math.NaN()}, Ys: []float64{1, 2}}
	if err := tr.Validate(); err == nil {
		t.Fatal("expected validation error for NaN entry")
	}
}

func TestReconcileTrack(t *testing.T) {
	tr := Track{Xs: []float64{1, 2, 3}, Ys: []float64{4, 5, 6}}
	out := tr.Reconcile(2)
	if out.Len() != 2 || out.Xs[1] != 2 || out.Ys[1] != 5 {
		t.Fatalf("unexpected reconcile result: %+v", out)
	}
}
