package detect

import (
	"math"
	"testing"
)

func TestIoU(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	if got := IoU(a, a); math.Abs(got-1.0) > 1e-9 {
		t.Fatalf("identical boxes: got %v", got)
	}
	b := Rect{X: 20, Y: 20, W: 10, H: 10}
	if got := IoU(a, b); got != 0 {
		t.Fatalf("disjoint boxes: got %v", got)
	}
	// Half overlap: inter 50, union 150.
	c := Rect{X: 5, Y: 0, W: 10, H: 10}
	if got := IoU(a, c); math.Abs(got-50.0/150.0) > 1e-9 {
		t.Fatalf("half overlap: got %v", got)
	}
}

func TestRectCenter(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 100, H: 50}
	c := r.Center()
	if c.X != 60 || c.Y != 45 {
		t.Fatalf("unexpected center (%v, %v)", c.X, c.Y)
	}
}

func TestSubjectCenterUsesKeypointMean(t *testing.T) {
	d := Detection{
		Box:        Rect{X: 0, Y: 0, W: 100, H: 200},
		Confidence: 0.9,
		Keypoints: []Keypoint{
			0: {X: 50, Y: 20, Confidence: 0.9},  // nose
			9: {X: 30, Y: 80, Confidence: 0.8},  // left wrist
			10: {X: 70, Y: 80, Confidence: 0.8}, // right wrist
		},
	}
	c, ok := SubjectCenter([]Detection{d}, []int{0, 9, 10}, 0.5)
	if !ok {
		t.Fatal("expected a center")
	}
	if c.X != 50 || c.Y != 60 {
		t.Fatalf("unexpected keypoint mean (%v, %v)", c.X, c.Y)
	}
}

func TestSubjectCenterFallsBackToBoxCentroid(t *testing.T) {
	d := Detection{
		Box:        Rect{X: 100, Y: 100, W: 50, H: 100},
		Confidence: 0.9,
		Keypoints: []Keypoint{
			0: {X: 120, Y: 110, Confidence: 0.1}, // below threshold
		},
	}
	c, ok := SubjectCenter([]Detection{d}, []int{0, 9, 10}, 0.5)
	if !ok {
		t.Fatal("expected a center")
	}
	if c.X != 125 || c.Y != 150 {
		t.Fatalf("expected box centroid, got (%v, %v)", c.X, c.Y)
	}
}

func TestSubjectCenterNoKeypointsAtAll(t *testing.T) {
	d := Detection{Box: Rect{X: 0, Y: 0, W: 10, H: 10}, Confidence: 0.7}
	c, ok := SubjectCenter([]Detection{d}, []int{0, 9, 10}, 0.5)
	if !ok || c.X != 5 || c.Y != 5 {
		t.Fatalf("unexpected result (%v, %v) ok=%v", c.X, c.Y, ok)
	}
}

func TestSubjectCenterRejectsLowConfidence(t *testing.T) {
	d := Detection{Box: Rect{W: 10, H: 10}, Confidence: 0.3}
	if _, ok := SubjectCenter([]Detection{d}, nil, 0.5); ok {
		t.Fatal("expected no center below threshold")
	}
	if _, ok := SubjectCenter(nil, nil, 0.5); ok {
		t.Fatal("expected no center for empty frame")
	}
}

func TestBestPicksHighestConfidence(t *testing.T) {
	dets := []Detection{
		{Box: Rect{W: 1, H: 1}, Confidence: 0.6},
		{Box: Rect{W: 2, H: 2}, Confidence: 0.9},
		{Box: Rect{W: 3, H: 3}, Confidence: 0.7},
	}
	best, ok := Best(dets, 0.5)
	if !ok || best.Confidence != 0.9 {
		t.Fatalf("unexpected best %v ok=%v", best.Confidence, ok)
	}
}

func TestTrackerMaintainsIdentityAcrossFrames(t *testing.T) {
	tr := NewTracker(0.3, 5)

	// Subject drifting right, a second transient object appearing later.
	subject := Rect{X: 100, Y: 100, W: 50, H: 100}
	for i := 0; i < 5; i++ {
		dets := []Detection{{Box: subject, Confidence: 0.9}}
		if i >= 3 {
			dets = append(dets, Detection{Box: Rect{X: 400, Y: 50, W: 40, H: 80}, Confidence: 0.95})
		}
		tr.Update(dets)
		subject.X += 5
	}

	primary, ok := tr.Primary()
	if !ok {
		t.Fatal("expected a primary subject")
	}
	// The long-lived track wins even though the newcomer scores higher.
	if primary.Box.X != 120 {
		t.Fatalf("primary box x = %v, want the drifting subject at 120", primary.Box.X)
	}
	if tr.ActiveTracks() != 2 {
		t.Fatalf("expected 2 active tracks, got %d", tr.ActiveTracks())
	}
}

func TestTrackerSurvivesShortGaps(t *testing.T) {
	tr := NewTracker(0.3, 5)
	box := Rect{X: 10, Y: 10, W: 20, H: 40}
	tr.Update([]Detection{{Box: box, Confidence: 0.9}})
	// Three missed frames, then the subject reappears nearby.
	for i := 0; i < 3; i++ {
		tr.Update(nil)
	}
	if _, ok := tr.Primary(); ok {
		t.Fatal("no primary expected on a missed frame")
	}
	tr.Update([]Detection{{Box: Rect{X: 12, Y: 11, W: 20, H: 40}, Confidence: 0.9}})
	if tr.ActiveTracks() != 1 {
		t.Fatalf("expected the original track to survive, got %d tracks", tr.ActiveTracks())
	}
	if _, ok := tr.Primary(); !ok {
		t.Fatal("expected primary after reappearance")
	}
}

func TestTrackerDropsStaleTracks(t *testing.T) {
	tr := NewTracker(0.3, 2)
	tr.Update([]Detection{{Box: Rect{X: 10, Y: 10, W: 20, H: 40}, Confidence: 0.9}})
	for i := 0; i < 3; i++ {
		tr.Update(nil)
	}
	if tr.ActiveTracks() != 0 {
		t.Fatalf("expected stale track dropped, got %d", tr.ActiveTracks())
	}
}
