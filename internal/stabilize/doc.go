// Package stabilize turns a finalized subject track into per-frame
// camera-follow transforms and defines the engine contract both rendering
// backends implement. The planning math here is pure; pixel work lives in
// the opencv and rawvideo subpackages.
package stabilize
