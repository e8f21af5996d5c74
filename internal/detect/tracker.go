package detect

// Tracker maintains subject identity across frames by greedy IoU
// association. It is deliberately small: the pipeline only ever needs the
// primary subject, not a full multi-object track graph.
type Tracker struct {
	iouThreshold float64
	maxMisses    int

	nextID int
	tracks []*tracked
	tick   int
}

type tracked struct {
	id       int
	box      Rect
	last     Detection
	hits     int
	misses   int
	lastSeen int
}

// NewTracker returns a tracker with the given association threshold and
// the number of consecutive missed frames before a track is dropped.
func NewTracker(iouThreshold float64, maxMisses int) *Tracker {
	if iouThreshold <= 0 {
		iouThreshold = 0.3
	}
	if maxMisses <= 0 {
		maxMisses = 10
	}
	return &Tracker{iouThreshold: iouThreshold, maxMisses: maxMisses}
}

// Update associates this frame's detections with existing tracks, starts
// tracks for unmatched detections, and drops stale tracks.
func (t *Tracker) Update(detections []Detection) {
	t.tick++
	claimed := make([]bool, len(detections))

	for _, tr := range t.tracks {
		bestIdx := -1
		bestIoU := t.iouThreshold
		for i, d := range detections {
			if claimed[i] {
				continue
			}
			if iou := IoU(tr.box, d.Box); iou >= bestIoU {
				bestIoU = iou
				bestIdx = i
			}
		}
		if bestIdx >= 0 {
			claimed[bestIdx] = true
			tr.box = detections[bestIdx].Box
			tr.last = detections[bestIdx]
			tr.hits++
			tr.misses = 0
			tr.lastSeen = t.tick
		} else {
			tr.misses++
		}
	}

	for i, d := range detections {
		if claimed[i] {
			continue
		}
		t.nextID++
		t.tracks = append(t.tracks, &tracked{
			id:       t.nextID,
			box:      d.Box,
			last:     d,
			hits:     1,
			lastSeen: t.tick,
		})
	}

	alive := t.tracks[:0]
	for _, tr := range t.tracks {
		if tr.misses <= t.maxMisses {
			alive = append(alive, tr)
		}
	}
	t.tracks = alive
}

// Primary returns the detection matched this frame for the longest-lived
// track. ok is false when no track was updated this frame.
func (t *Tracker) Primary() (Detection, bool) {
	var best *tracked
	for _, tr := range t.tracks {
		if tr.lastSeen != t.tick {
			continue
		}
		if best == nil || tr.hits > best.hits {
			best = tr
		}
	}
	if best == nil {
		return Detection{}, false
	}
	return best.last, true
}

// ActiveTracks reports how many tracks are currently alive.
func (t *Tracker) ActiveTracks() int { return len(t.tracks) }
