// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/gogpu/wgpu/hal"
)

// Buffer errors.
var (
	// ErrBufferDestroyed is returned when operating on a destroyed buffer.
	ErrBufferDestroyed = errors.New("wgpu: buffer destroyed")

	// ErrBufferAlreadyMapped is returned when mapping a buffer with a map
	// already pending or complete.
	ErrBufferAlreadyMapped = errors.New("wgpu: buffer already mapped")

	// ErrBufferNotMapped is returned when reading a buffer that has not
	// completed mapping.
	ErrBufferNotMapped = errors.New("wgpu: buffer not mapped")

	// ErrNilCallback is returned when MapAsync is called without a
	// completion callback.
	ErrNilCallback = errors.New("wgpu: nil map callback")

	// ErrNoPendingCopy is returned when mapping a readback buffer before
	// any copy was submitted into it.
	ErrNoPendingCopy = errors.New("wgpu: no copy submitted into buffer")
)

// mapState tracks a buffer through the asynchronous mapping lifecycle.
type mapState uint8

const (
	mapIdle mapState = iota
	mapPending
	mapReady
)

// Buffer is a staging buffer. Readback buffers wrap a hal.Buffer and go
// through the MapAsync/Poll/MappedBytes cycle; upload buffers hold their
// bytes host-side until CopyBufferToTexture hands them to the queue.
type Buffer struct {
	dev       *Device
	halBuffer hal.Buffer
	staged    []byte
	size      uint64

	mu         sync.Mutex
	submission uint64
	submitted  bool
	cmdBuf     hal.CommandBuffer
	state      mapState
	callback   func(error)
	data       []byte
	destroyed  bool
}

// MapAsync requests host access to the buffer contents. The callback
// runs from a later Device.Poll once the queue reports the pending
// copy's submission complete and the bytes have been read out of the
// mapping. A copy must have been submitted into the buffer first.
func (b *Buffer) MapAsync(done func(error)) error {
	if done == nil {
		return ErrNilCallback
	}
	b.mu.Lock()
	if b.destroyed {
		b.mu.Unlock()
		return ErrBufferDestroyed
	}
	if b.state != mapIdle {
		b.mu.Unlock()
		return ErrBufferAlreadyMapped
	}
	if b.halBuffer == nil || !b.submitted {
		b.mu.Unlock()
		return ErrNoPendingCopy
	}
	b.state = mapPending
	b.callback = done
	b.mu.Unlock()

	b.dev.registerPending(b)
	return nil
}

// pollCompletion checks the queue's completed submission index and, once
// the copy has landed, maps the buffer, copies the contents out, and
// fires the map callback. It reports whether the buffer is finished
// (successfully or not) and can leave the pending list.
func (b *Buffer) pollCompletion() bool {
	b.mu.Lock()
	if b.destroyed || b.state != mapPending {
		b.mu.Unlock()
		return true
	}
	submission := b.submission
	b.mu.Unlock()

	if b.dev.queue.PollCompleted() < submission {
		return false
	}

	var data []byte
	mapping, err := b.dev.dev.MapBuffer(b.halBuffer, 0, b.size)
	if err != nil {
		err = fmt.Errorf("wgpu: map staging buffer: %w", err)
	} else {
		data = make([]byte, b.size)
		copy(data, unsafe.Slice((*byte)(mapping.Ptr), b.size))
		if uerr := b.dev.dev.UnmapBuffer(b.halBuffer); uerr != nil {
			err = fmt.Errorf("wgpu: unmap staging buffer: %w", uerr)
		}
	}

	b.mu.Lock()
	if b.cmdBuf != nil {
		b.dev.dev.FreeCommandBuffer(b.cmdBuf)
		b.cmdBuf = nil
	}
	b.submitted = false
	done := b.callback
	b.callback = nil
	if err != nil {
		b.state = mapIdle
	} else {
		b.state = mapReady
		b.data = data
	}
	b.mu.Unlock()

	done(err)
	return true
}

// MappedBytes returns the mapped contents. Valid only after the
// MapAsync callback completed without error and before Unmap.
func (b *Buffer) MappedBytes() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.destroyed {
		return nil, ErrBufferDestroyed
	}
	if b.state != mapReady {
		return nil, ErrBufferNotMapped
	}
	return b.data, nil
}

// Unmap releases the mapped contents and returns the buffer to the
// idle state. Safe to call on an unmapped buffer.
func (b *Buffer) Unmap() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == mapReady {
		b.state = mapIdle
		b.data = nil
	}
}

// Destroy releases the underlying GPU buffer. Idempotent. A pending map
// completes as destroyed on the next Poll.
func (b *Buffer) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.destroyed {
		return
	}
	b.destroyed = true
	b.data = nil
	b.staged = nil
	if b.cmdBuf != nil {
		b.dev.dev.FreeCommandBuffer(b.cmdBuf)
		b.cmdBuf = nil
	}
	if b.halBuffer != nil {
		b.dev.dev.DestroyBuffer(b.halBuffer)
		b.halBuffer = nil
	}
}
