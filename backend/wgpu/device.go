// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/denoise"
)

// Device errors.
var (
	// ErrNilHALDevice is returned when constructing without a device.
	ErrNilHALDevice = errors.New("wgpu: hal device is nil")

	// ErrNilHALQueue is returned when constructing without a queue.
	ErrNilHALQueue = errors.New("wgpu: hal queue is nil")

	// ErrNoHALProvider is returned when a DeviceProvider does not expose
	// HAL device access.
	ErrNoHALProvider = errors.New("wgpu: provider does not expose HalDevice/HalQueue")

	// ErrForeignTexture is returned when a texture was not created by or
	// wrapped for this backend.
	ErrForeignTexture = errors.New("wgpu: texture does not belong to this backend")

	// ErrForeignBuffer is returned when a buffer was not created by this
	// backend.
	ErrForeignBuffer = errors.New("wgpu: buffer does not belong to this backend")

	// ErrNotUploadBuffer is returned when an upload operation receives a
	// readback buffer or vice versa.
	ErrNotUploadBuffer = errors.New("wgpu: buffer was not created for upload")
)

// copyPitchAlignment is the row-stride alignment WebGPU (and DX12)
// require for texture-buffer copies.
const copyPitchAlignment = 256

// Device implements denoise.Device over a gogpu/wgpu hal device and
// queue. The pair is shared across calls and must be safe for use by
// concurrent independent calls; Device adds no locking beyond its own
// pending-readback list.
type Device struct {
	dev   hal.Device
	queue hal.Queue

	mu      sync.Mutex
	pending []*Buffer
}

// NewDevice wraps an existing hal device and queue.
func NewDevice(dev hal.Device, queue hal.Queue) (*Device, error) {
	if dev == nil {
		return nil, ErrNilHALDevice
	}
	if queue == nil {
		return nil, ErrNilHALQueue
	}
	return &Device{dev: dev, queue: queue}, nil
}

// halProvider is implemented by device providers that expose raw HAL
// handles (e.g. gogpu.App contexts).
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// FromProvider extracts the HAL device and queue from a
// gpucontext.DeviceProvider. The provider must implement HalDevice() any
// and HalQueue() any returning hal.Device and hal.Queue.
func FromProvider(p gpucontext.DeviceProvider) (*Device, error) {
	hp, ok := any(p).(halProvider)
	if !ok {
		return nil, ErrNoHALProvider
	}
	dev, ok := hp.HalDevice().(hal.Device)
	if !ok {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHALProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHALProvider)
	}
	return NewDevice(dev, queue)
}

// RowAlignment returns the required row-stride alignment in bytes.
func (d *Device) RowAlignment() uint32 {
	return copyPitchAlignment
}

// CreateReadbackBuffer creates a mappable staging buffer for
// texture-to-host transfer.
func (d *Device) CreateReadbackBuffer(byteSize uint64) (denoise.Buffer, error) {
	halBuf, err := d.dev.CreateBuffer(&hal.BufferDescriptor{
		Label: "denoise_readback",
		Size:  byteSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create readback buffer: %w", err)
	}
	denoise.Logger().Debug("wgpu: readback buffer created", slog.Uint64("bytes", byteSize))
	return &Buffer{dev: d, halBuffer: halBuf, size: byteSize}, nil
}

// CreateUploadBuffer stages data for host-to-texture transfer. The bytes
// are held host-side; CopyBufferToTexture hands them to the queue.
func (d *Device) CreateUploadBuffer(data []byte) (denoise.Buffer, error) {
	staged := make([]byte, len(data))
	copy(staged, data)
	return &Buffer{dev: d, staged: staged, size: uint64(len(data))}, nil
}

// CopyTextureToBuffer encodes and submits a copy of the whole texture
// into the buffer. The returned submission index is recorded on the
// buffer so a later MapAsync/Poll can observe completion through the
// queue.
func (d *Device) CopyTextureToBuffer(t denoise.Texture, b denoise.Buffer, bytesPerRow, rows uint32) error {
	tex, ok := t.(*Texture)
	if !ok {
		return ErrForeignTexture
	}
	buf, ok := b.(*Buffer)
	if !ok {
		return ErrForeignBuffer
	}
	if buf.halBuffer == nil {
		return ErrNotUploadBuffer
	}

	encoder, err := d.dev.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "denoise_readback_encoder",
	})
	if err != nil {
		return fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("denoise_readback"); err != nil {
		return fmt.Errorf("wgpu: begin encoding: %w", err)
	}

	encoder.CopyTextureToBuffer(tex.halTexture, buf.halBuffer, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: bytesPerRow, RowsPerImage: rows},
		TextureBase:  hal.ImageCopyTexture{Texture: tex.halTexture, MipLevel: 0},
		Size:         hal.Extent3D{Width: tex.width, Height: rows, DepthOrArrayLayers: 1},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpu: end encoding: %w", err)
	}

	idx, err := d.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		d.dev.FreeCommandBuffer(cmdBuf)
		return fmt.Errorf("wgpu: submit readback: %w", err)
	}

	// The command buffer stays alive until the GPU finishes with it;
	// pollCompletion frees it once the submission completes.
	buf.mu.Lock()
	buf.submission = idx
	buf.submitted = true
	buf.cmdBuf = cmdBuf
	buf.mu.Unlock()
	return nil
}

// CopyBufferToTexture enqueues the staged upload bytes into the whole
// texture via queue.WriteTexture. Fire-and-forget: the queue owns the
// copy once enqueued.
func (d *Device) CopyBufferToTexture(b denoise.Buffer, t denoise.Texture, bytesPerRow, rows uint32) error {
	tex, ok := t.(*Texture)
	if !ok {
		return ErrForeignTexture
	}
	buf, ok := b.(*Buffer)
	if !ok {
		return ErrForeignBuffer
	}
	if buf.staged == nil {
		return ErrNotUploadBuffer
	}

	err := d.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: tex.halTexture, MipLevel: 0},
		buf.staged,
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: bytesPerRow, RowsPerImage: rows},
		&hal.Extent3D{Width: tex.width, Height: rows, DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("wgpu: write texture: %w", err)
	}
	return nil
}

// Poll drives pending readbacks: for each buffer whose submission the
// queue reports complete, the staging contents are read out of the
// mapping and the map callback is invoked. Buffers whose map fails
// complete with that error.
func (d *Device) Poll() {
	d.mu.Lock()
	pending := d.pending
	d.pending = nil
	d.mu.Unlock()

	var still []*Buffer
	for _, buf := range pending {
		if done := buf.pollCompletion(); !done {
			still = append(still, buf)
		}
	}

	if len(still) > 0 {
		d.mu.Lock()
		d.pending = append(d.pending, still...)
		d.mu.Unlock()
	}
}

// registerPending queues a buffer for completion checks in Poll.
func (d *Device) registerPending(b *Buffer) {
	d.mu.Lock()
	d.pending = append(d.pending, b)
	d.mu.Unlock()
}
