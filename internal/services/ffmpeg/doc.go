// Package ffmpeg wraps the ffmpeg command-line tool.
//
// The Client covers the container-level operations the pipeline needs:
// audio remux onto a stabilized render, and clip trimming and equal splitting
// with a stream-copy-first policy. It also exposes rawvideo stdin/stdout
// pipes that let the rawvideo stabilization engine process frames without
// OpenCV.
package ffmpeg
