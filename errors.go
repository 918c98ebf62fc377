package main

import "errors"

// Sentinel errors for the conditions the pipeline itself detects. I/O
// failures are wrapped OS or codec errors and carry their own cause.
var (
	// ErrUnsupportedData indicates the selected HDU does not contain a
	// 2-D image.
	ErrUnsupportedData = errors.New("not 2D image data")

	// ErrDimension indicates the grid is too small to mesh.
	ErrDimension = errors.New("image dimensions too small (< 2 pixels)")

	// ErrMeshConsistency indicates the mesh builder emitted a number of
	// triangles that disagrees with the closed-form count. This must
	// never happen.
	ErrMeshConsistency = errors.New("triangle count mismatch")
)
