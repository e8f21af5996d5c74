// Package detect defines the detection types the extraction pipeline
// consumes, the subject-center derivation rules, and a small IoU tracker
// for maintaining subject identity across frames. Model inference lives in
// the yolo subpackage; everything here is pure math.
package detect
