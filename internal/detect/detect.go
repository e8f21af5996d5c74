package detect

// Point is a 2D position in source pixel coordinates.
type Point struct {
	X float64
	Y float64
}

// Rect is an axis-aligned bounding box in source pixel coordinates.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Center returns the box centroid.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Area returns the box area, never negative.
func (r Rect) Area() float64 {
	if r.W <= 0 || r.H <= 0 {
		return 0
	}
	return r.W * r.H
}

// Keypoint is one pose landmark with its own confidence score.
type Keypoint struct {
	X          float64
	Y          float64
	Confidence float64
}

// Detection is one detected subject instance in a single frame. Keypoints
// is empty for plain object-detection models.
type Detection struct {
	Box        Rect
	Confidence float64
	Keypoints  []Keypoint
}

// IoU computes intersection over union between two boxes.
func IoU(a, b Rect) float64 {
	x1 := max(a.X, b.X)
	y1 := max(a.Y, b.Y)
	x2 := min(a.X+a.W, b.X+b.W)
	y2 := min(a.Y+a.H, b.Y+b.H)
	if x2 <= x1 || y2 <= y1 {
		return 0
	}
	inter := (x2 - x1) * (y2 - y1)
	union := a.Area() + b.Area() - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}
