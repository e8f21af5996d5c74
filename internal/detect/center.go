package detect

// SubjectCenter derives the subject center for one frame. The highest
// confidence detection at or above minConfidence is selected; its center is
// the mean of the requested keypoint subset when enough of those keypoints
// are themselves confident, falling back to the box centroid otherwise.
// ok is false when no detection clears the threshold.
func SubjectCenter(detections []Detection, keypointIndices []int, minConfidence float64) (Point, bool) {
	best, ok := Best(detections, minConfidence)
	if !ok {
		return Point{}, false
	}
	return CenterOf(best, keypointIndices, minConfidence), true
}

// CenterOf derives the center of a single detection: the mean of the
// requested keypoint subset when confident, the box centroid otherwise.
func CenterOf(d Detection, keypointIndices []int, minConfidence float64) Point {
	if c, ok := keypointMean(d, keypointIndices, minConfidence); ok {
		return c
	}
	return d.Box.Center()
}

// Best returns the highest-confidence detection at or above minConfidence.
func Best(detections []Detection, minConfidence float64) (Detection, bool) {
	var best Detection
	found := false
	for _, d := range detections {
		if d.Confidence < minConfidence {
			continue
		}
		if !found || d.Confidence > best.Confidence {
			best = d
			found = true
		}
	}
	return best, found
}

func keypointMean(d Detection, indices []int, minConfidence float64) (Point, bool) {
	var sumX, sumY float64
	n := 0
	for _, idx := range indices {
		if idx < 0 || idx >= len(d.Keypoints) {
			continue
		}
		kp := d.Keypoints[idx]
		if kp.Confidence < minConfidence {
			continue
		}
		sumX += kp.X
		sumY += kp.Y
		n++
	}
	if n == 0 {
		return Point{}, false
	}
	return Point{X: sumX / float64(n), Y: sumY / float64(n)}, true
}
