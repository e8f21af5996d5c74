// Package gridrun sweeps stabilization parameter combinations over one
// clip with a bounded worker pool, recording outcomes in a file-locked
// JSON results file so parallel sweep processes can share it.
package gridrun
