// Package ffprobe wraps the ffprobe binary for media container inspection.
//
// The Result helpers answer the questions the pipeline asks before touching a
// file: does it decode, what are the video dimensions and frame rate, does it
// carry an audio stream to remux. Frame-rate parsing tolerates rational rate
// strings and substitutes a 30fps fallback for containers that report zero.
package ffprobe
