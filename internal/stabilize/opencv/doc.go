// Package opencv implements the stabilization engine backed by OpenCV
// through gocv. Decode, warp, crop, resize, and encode all run through
// native OpenCV routines.
package opencv
