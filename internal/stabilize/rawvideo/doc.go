// Package rawvideo implements the stabilization engine that streams RGB24
// frames through ffmpeg pipes and warps them with in-process bilinear
// resampling. It trades speed for portability: no native vision library
// is required on the host.
package rawvideo
