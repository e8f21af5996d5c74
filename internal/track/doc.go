// Package track holds the per-frame subject-center signal and the pure
// algorithms that clean it up: linear gap interpolation, two-sided Gaussian
// temporal smoothing with clamped edges, and length reconciliation against
// the decoded frame count.
//
// A Track is an in-memory intermediate created fresh per clip by the target
// extractor and consumed once by a stabilization engine; nothing here is
// persisted.
package track
