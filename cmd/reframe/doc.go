// Command reframe is the CLI for the stabilized vertical-crop pipeline:
// per-clip processing, parameter sweeps, media probing, and clip trimming
// and splitting.
package main
