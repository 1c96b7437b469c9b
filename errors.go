// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package denoise

import (
	"errors"
	"fmt"
)

// Errors returned by the denoise pipeline.
var (
	// ErrInvalidDimensions is returned when surface sizes or array layers
	// are incompatible, or a buffer length disagrees with the pixel count.
	ErrInvalidDimensions = errors.New("denoise: invalid image dimensions")

	// ErrUnsupportedFormat is returned when a texture format is not one of
	// the two supported 4-channel float formats.
	ErrUnsupportedFormat = errors.New("denoise: unsupported texture format")

	// ErrAllocationFailed is returned when the engine could not allocate a
	// scratch buffer.
	ErrAllocationFailed = errors.New("denoise: engine buffer allocation failed")

	// ErrFilterCreationFailed is returned when the engine could not create
	// the denoising filter.
	ErrFilterCreationFailed = errors.New("denoise: filter creation failed")

	// ErrBufferMapFailed is returned when the GPU staging buffer's
	// asynchronous map did not complete successfully.
	ErrBufferMapFailed = errors.New("denoise: buffer map failed")

	// ErrNilEngine is returned when a nil Engine is passed.
	ErrNilEngine = errors.New("denoise: nil engine")

	// ErrNilDevice is returned when a nil Device is passed.
	ErrNilDevice = errors.New("denoise: nil device")
)

// EngineError is an error reported by the denoising engine itself,
// surfaced verbatim. The bridge drains the engine's pending-error slot
// after every boundary that can produce one (commit, execute,
// synchronize, readback) and returns it as the call's failure.
type EngineError struct {
	// Code is the engine's numeric error code.
	Code int

	// Message is the engine's human-readable description.
	Message string
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	return fmt.Sprintf("denoise: engine error (%d): %s", e.Code, e.Message)
}
