// Package extract turns a video into a per-frame subject-center track.
// It owns the decode loop and method selection (tracking versus
// frame-wise); detection math lives in detect and series cleanup in track.
package extract
