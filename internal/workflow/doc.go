// Package workflow orchestrates one clip job from source video to final
// output: extraction, stabilization, and optional audio reattachment, with
// a one-shot fallback from tracking to frame-wise extraction when no model
// is available.
package workflow
