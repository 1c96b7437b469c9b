// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package denoise

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/gogpu/denoise/internal/pixconv"
)

// scratchBuffer is one engine-side allocation bound to a filter slot.
type scratchBuffer struct {
	slot   string
	handle BufferHandle
}

// session owns the engine-side resources of one denoise call: the filter
// handle and one scratch buffer per needed role. Every resource is
// released by Close, which runs on every exit path (the caller defers it
// immediately after newSession succeeds) and is idempotent.
type session struct {
	engine  Engine
	filter  FilterHandle
	width   int
	height  int
	buffers []scratchBuffer
	closed  bool
}

// imageBytes is the byte size of one packed float3 image.
func imageBytes(width, height int) int {
	return width * height * 3 * 4
}

// newSession creates the filter and allocates scratch buffers for the
// roles the call needs (color and output always; albedo and normal on
// request). If any allocation fails, everything allocated so far is
// released before the error is returned.
func newSession(engine Engine, width, height int, withAlbedo, withNormal bool) (*session, error) {
	filter, err := engine.NewFilter(FilterRT)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFilterCreationFailed, err)
	}

	s := &session{
		engine: engine,
		filter: filter,
		width:  width,
		height: height,
	}

	slots := []string{SlotColor, SlotOutput}
	if withAlbedo {
		slots = append(slots, SlotAlbedo)
	}
	if withNormal {
		slots = append(slots, SlotNormal)
	}

	size := imageBytes(width, height)
	for _, slot := range slots {
		handle, err := engine.Allocate(size)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("%w: %s buffer (%d bytes): %v",
				ErrAllocationFailed, slot, size, err)
		}
		s.buffers = append(s.buffers, scratchBuffer{slot: slot, handle: handle})
	}

	Logger().Debug("denoise: session buffers allocated",
		slog.Int("count", len(s.buffers)),
		slog.Int("bytes_each", size))
	return s, nil
}

// buffer returns the handle bound to slot, or nil.
func (s *session) buffer(slot string) BufferHandle {
	for _, b := range s.buffers {
		if b.slot == slot {
			return b.handle
		}
	}
	return nil
}

// upload copies a packed float3 image into the named scratch buffer.
func (s *session) upload(slot string, rgb []float32) error {
	if len(rgb) != s.width*s.height*3 {
		return fmt.Errorf("%w: %s has %d values, want %d",
			ErrInvalidDimensions, slot, len(rgb), s.width*s.height*3)
	}
	handle := s.buffer(slot)
	if handle == nil {
		return fmt.Errorf("%w: no %s buffer in session", ErrInvalidDimensions, slot)
	}
	if err := s.engine.Write(handle, 0, pixconv.FloatBytes(rgb)); err != nil {
		return fmt.Errorf("denoise: upload %s: %w", slot, err)
	}
	return nil
}

// configure binds every scratch buffer to its image slot and sets the
// scalar parameters. A nil InputScale becomes the engine's NaN "auto"
// sentinel.
func (s *session) configure(opts Options) {
	for _, b := range s.buffers {
		s.engine.SetImage(s.filter, b.slot, b.handle, s.width, s.height)
	}
	s.engine.SetBool(s.filter, ParamHDR, opts.HDR)
	s.engine.SetBool(s.filter, ParamSRGB, opts.SRGB)
	s.engine.SetBool(s.filter, ParamCleanAux, opts.CleanAux)
	scale := float32(math.NaN())
	if opts.InputScale != nil {
		scale = *opts.InputScale
	}
	s.engine.SetFloat(s.filter, ParamInputScale, scale)
	s.engine.SetInt(s.filter, ParamQuality, int(opts.Quality))
}

// run commits parameters, executes the filter, and synchronizes the
// engine. Synchronization must precede any readback: execution may be
// asynchronous on accelerated backends, and reading the output buffer
// before it completes is a data race. The pending-error slot is drained
// afterwards and any error becomes the call's failure.
func (s *session) run() error {
	s.engine.Commit(s.filter)
	s.engine.Execute(s.filter)
	s.engine.Synchronize()
	if err := s.engine.Error(); err != nil {
		return err
	}
	return nil
}

// readOutput copies the denoised packed float3 image out of the output
// scratch buffer.
func (s *session) readOutput() ([]float32, error) {
	dst := make([]byte, imageBytes(s.width, s.height))
	if err := s.engine.Read(s.buffer(SlotOutput), 0, dst); err != nil {
		return nil, fmt.Errorf("denoise: read output: %w", err)
	}
	if err := s.engine.Error(); err != nil {
		return nil, err
	}
	return pixconv.BytesFloat(dst), nil
}

// Close releases every scratch buffer and the filter handle. It is
// idempotent and must run on every exit path of a call, success or
// failure alike.
func (s *session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	for _, b := range s.buffers {
		s.engine.Release(b.handle)
	}
	s.buffers = nil
	s.engine.ReleaseFilter(s.filter)
	s.filter = nil
}
