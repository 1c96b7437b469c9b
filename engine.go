// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package denoise

// Filter slot and parameter names understood by conforming engines.
// They match the Open Image Denoise RT filter parameter set.
const (
	// SlotColor is the noisy beauty image input slot.
	SlotColor = "color"

	// SlotOutput is the denoised image output slot.
	SlotOutput = "output"

	// SlotAlbedo is the optional albedo auxiliary input slot.
	SlotAlbedo = "albedo"

	// SlotNormal is the optional normal auxiliary input slot.
	SlotNormal = "normal"

	// ParamHDR marks the input as HDR.
	ParamHDR = "hdr"

	// ParamSRGB marks the input as sRGB-encoded LDR.
	ParamSRGB = "srgb"

	// ParamCleanAux marks auxiliary images as noise-free.
	ParamCleanAux = "cleanAux"

	// ParamInputScale is the input scale; NaN means auto.
	ParamInputScale = "inputScale"

	// ParamQuality is the quality level (see Quality values).
	ParamQuality = "quality"
)

// FilterRT is the filter kind for ray-tracing (beauty image) denoising.
const FilterRT = "RT"

// BufferHandle identifies an engine-owned scratch allocation. Handles are
// opaque to the bridge: they are created by Engine.Allocate, used for one
// call, and released by Engine.Release exactly once.
type BufferHandle any

// FilterHandle identifies an engine filter object, created by
// Engine.NewFilter and released by Engine.ReleaseFilter.
type FilterHandle any

// Engine is the capability surface the bridge requires from a denoising
// engine. engine/software provides a pure-Go implementation; native
// bindings (e.g. to Open Image Denoise) implement it out of tree.
//
// Execute may run asynchronously on accelerated backends; Synchronize
// must complete all pending work before any Read observes results.
// Implementations must tolerate concurrent calls operating on disjoint
// filters and buffers.
type Engine interface {
	// NewFilter creates a filter of the given kind (e.g. FilterRT).
	NewFilter(kind string) (FilterHandle, error)

	// ReleaseFilter releases a filter handle.
	ReleaseFilter(f FilterHandle)

	// Allocate creates a scratch buffer of the given byte size.
	Allocate(byteSize int) (BufferHandle, error)

	// Write copies host bytes into a scratch buffer at the given offset.
	Write(b BufferHandle, offset int, data []byte) error

	// Read copies bytes out of a scratch buffer at the given offset.
	Read(b BufferHandle, offset int, dst []byte) error

	// Release frees a scratch buffer.
	Release(b BufferHandle)

	// SetImage binds a scratch buffer to a named image slot as a packed
	// 3-channel float32 image of the given dimensions.
	SetImage(f FilterHandle, slot string, b BufferHandle, width, height int)

	// SetBool sets a boolean filter parameter.
	SetBool(f FilterHandle, name string, value bool)

	// SetInt sets an integer filter parameter.
	SetInt(f FilterHandle, name string, value int)

	// SetFloat sets a float filter parameter.
	SetFloat(f FilterHandle, name string, value float32)

	// Commit applies all parameter changes. Must be called before Execute.
	Commit(f FilterHandle)

	// Execute runs the filter. May return before the work completes.
	Execute(f FilterHandle)

	// Synchronize blocks until all previously submitted work completes.
	Synchronize()

	// Error drains the engine's pending-error slot: the first unqueried
	// failure since the last call, or nil when no error is pending.
	// Engines wrapping a native runtime report *EngineError.
	Error() error
}
