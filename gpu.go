// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package denoise

import "github.com/gogpu/gputypes"

// Texture is a GPU-resident 2D image surface with exactly one array
// layer. backend/wgpu wraps gogpu/wgpu textures; tests use in-memory
// fakes.
type Texture interface {
	// Width returns the width in pixels.
	Width() uint32

	// Height returns the height in pixels.
	Height() uint32

	// Layers returns the array layer count. Denoising requires 1.
	Layers() uint32

	// Format returns the wgpu pixel format.
	Format() gputypes.TextureFormat
}

// Buffer is a GPU staging buffer used for texture readback and upload.
//
// Readback buffers follow the asynchronous wgpu mapping contract:
// MapAsync registers a completion callback, Device.Poll drives progress,
// and MappedBytes is valid only between a successful completion and
// Unmap. Destroy releases the buffer and is idempotent.
type Buffer interface {
	// MapAsync initiates mapping for reading. done is invoked exactly
	// once, with nil on success or the failure cause otherwise; it may
	// run on any goroutine during Device.Poll.
	MapAsync(done func(error)) error

	// MappedBytes returns the mapped contents. Only valid after the
	// MapAsync callback reported success and before Unmap.
	MappedBytes() ([]byte, error)

	// Unmap releases the mapped range.
	Unmap()

	// Destroy releases the buffer. Idempotent.
	Destroy()
}

// Device is the GPU capability surface the bridge requires: staging
// buffer creation, texture copies in both directions, and the polling
// hook that drives asynchronous map completion. It bundles the
// underlying device and queue handles, which must be safe for use by
// concurrent independent calls.
type Device interface {
	// RowAlignment returns the required row-stride alignment in bytes
	// for texture-buffer copies (256 for WebGPU).
	RowAlignment() uint32

	// CreateReadbackBuffer creates a mappable staging buffer for
	// texture-to-host transfer.
	CreateReadbackBuffer(byteSize uint64) (Buffer, error)

	// CreateUploadBuffer creates a staging buffer pre-filled with data
	// for host-to-texture transfer.
	CreateUploadBuffer(data []byte) (Buffer, error)

	// CopyTextureToBuffer submits a copy of the whole texture into the
	// buffer using the given padded row stride.
	CopyTextureToBuffer(t Texture, b Buffer, bytesPerRow, rows uint32) error

	// CopyBufferToTexture enqueues a copy of the buffer into the whole
	// texture using the given padded row stride. The copy is
	// fire-and-forget: it need not have landed when the call returns.
	CopyBufferToTexture(b Buffer, t Texture, bytesPerRow, rows uint32) error

	// Poll drives pending asynchronous operations (map completions).
	Poll()
}
