// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package denoise bridges GPU-resident images and a denoising engine.
//
// # Overview
//
// denoise moves pixel data between a wgpu texture and a denoising engine
// (such as Intel Open Image Denoise), converts between pixel encodings,
// and releases every resource it allocates for one call exactly once,
// even when the call fails partway through.
//
// The pipeline for one call is strictly linear: validate the surfaces,
// read the input texture into host memory through an alignment-padded
// staging buffer, split the interleaved RGBA pixels into an RGB sequence
// plus a separate alpha sequence, run the engine on its own scratch
// buffers, merge the denoised RGB back with the preserved alpha, and
// upload the result to the output texture.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/denoise"
//	    "github.com/gogpu/denoise/backend/wgpu"
//	    "github.com/gogpu/denoise/engine/software"
//	)
//
//	dev := wgpu.NewDevice(halDevice, halQueue)
//	eng := software.New() // or a native engine binding
//
//	err := denoise.Denoise(eng, dev, input, output,
//	    denoise.FormatRGBA16Float, denoise.DefaultOptions())
//
// Only RGB is denoised; alpha is preserved. Input and output may be the
// same texture for in-place denoising. Supported formats are
// [FormatRGBA32Float] and [FormatRGBA16Float].
//
// # Capabilities
//
// The package does not create GPU devices or denoising engines. Both are
// consumed through small capability interfaces: [Device] for the GPU side
// (implemented by backend/wgpu over gogpu/wgpu) and [Engine] for the
// denoiser (implemented by engine/software in pure Go, or by a native
// binding out of tree).
//
// # Concurrency
//
// A call runs start to finish on the calling goroutine and blocks until
// the result is written (readback) or enqueued (final upload). Concurrent
// calls from different goroutines are safe provided the shared Engine and
// Device implementations tolerate them; each call's scratch buffers and
// staging buffers are independent.
package denoise
