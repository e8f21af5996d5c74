// Package yolo loads YOLO-family ONNX models through the OpenCV DNN module
// and decodes their pose or detection heads into the detection types the
// extraction pipeline consumes.
package yolo
