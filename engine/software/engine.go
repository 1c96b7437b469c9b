// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/gogpu/denoise"
	"github.com/gogpu/denoise/internal/pixconv"
)

// Engine errors. They surface through denoise.Engine.Error after the
// failing operation, matching the deferred-error model of native
// denoising runtimes.
var (
	// ErrUnknownFilter is recorded for a filter kind other than RT.
	ErrUnknownFilter = errors.New("software: unknown filter kind")

	// ErrReleasedBuffer is recorded when using a buffer after Release.
	ErrReleasedBuffer = errors.New("software: buffer already released")

	// ErrOutOfRange is recorded when a Write or Read exceeds the buffer.
	ErrOutOfRange = errors.New("software: access out of buffer range")

	// ErrNotCommitted is recorded when executing a filter whose
	// parameters were changed since the last Commit.
	ErrNotCommitted = errors.New("software: filter not committed")

	// ErrMissingImage is recorded when executing without both a color and
	// an output image bound.
	ErrMissingImage = errors.New("software: color and output images required")

	// ErrImageMismatch is recorded when bound images disagree on
	// dimensions or undersize their buffers.
	ErrImageMismatch = errors.New("software: image dimensions mismatch")
)

// buffer is one host-memory engine buffer.
type buffer struct {
	data     []byte
	released bool
}

// imageBinding ties a buffer to a filter image slot.
type imageBinding struct {
	buf    *buffer
	width  int
	height int
}

// filter is one RT filter instance: image bindings plus scalar
// parameters, staged until Commit.
type filter struct {
	images map[string]imageBinding
	bools  map[string]bool
	ints   map[string]int
	floats map[string]float32

	committed bool
	released  bool
}

// Engine is a pure-Go denoise.Engine. The zero value is not usable; use
// New. All methods are safe for concurrent use, though a single filter
// must not be driven from multiple goroutines at once.
type Engine struct {
	mu      sync.Mutex
	pending error
}

// New creates a software engine.
func New() *Engine {
	return &Engine{}
}

// record stores err as the pending error unless one is already pending.
func (e *Engine) record(err error) {
	e.mu.Lock()
	if e.pending == nil {
		e.pending = err
	}
	e.mu.Unlock()
}

// Error returns and clears the pending error.
func (e *Engine) Error() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	err := e.pending
	e.pending = nil
	return err
}

// NewFilter creates a filter of the given kind. Only denoise.FilterRT
// is supported.
func (e *Engine) NewFilter(kind string) (denoise.FilterHandle, error) {
	if kind != denoise.FilterRT {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFilter, kind)
	}
	return &filter{
		images: make(map[string]imageBinding),
		bools:  make(map[string]bool),
		ints:   make(map[string]int),
		floats: make(map[string]float32),
	}, nil
}

// ReleaseFilter frees a filter. Safe on nil.
func (e *Engine) ReleaseFilter(f denoise.FilterHandle) {
	if flt, ok := f.(*filter); ok {
		flt.released = true
		flt.images = nil
	}
}

// Allocate creates a zero-initialized engine buffer.
func (e *Engine) Allocate(byteSize int) (denoise.BufferHandle, error) {
	if byteSize <= 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrOutOfRange, byteSize)
	}
	return &buffer{data: make([]byte, byteSize)}, nil
}

// Write copies data into a buffer at offset.
func (e *Engine) Write(b denoise.BufferHandle, offset int, data []byte) error {
	buf, ok := b.(*buffer)
	if !ok || buf.released {
		return ErrReleasedBuffer
	}
	if offset < 0 || offset+len(data) > len(buf.data) {
		return fmt.Errorf("%w: write [%d, %d) of %d",
			ErrOutOfRange, offset, offset+len(data), len(buf.data))
	}
	copy(buf.data[offset:], data)
	return nil
}

// Read copies len(dst) bytes out of a buffer at offset.
func (e *Engine) Read(b denoise.BufferHandle, offset int, dst []byte) error {
	buf, ok := b.(*buffer)
	if !ok || buf.released {
		return ErrReleasedBuffer
	}
	if offset < 0 || offset+len(dst) > len(buf.data) {
		return fmt.Errorf("%w: read [%d, %d) of %d",
			ErrOutOfRange, offset, offset+len(dst), len(buf.data))
	}
	copy(dst, buf.data[offset:])
	return nil
}

// Release frees a buffer. Safe on nil and on double release.
func (e *Engine) Release(b denoise.BufferHandle) {
	if buf, ok := b.(*buffer); ok {
		buf.released = true
		buf.data = nil
	}
}

// SetImage binds a buffer to an image slot. Takes effect at Commit.
func (e *Engine) SetImage(f denoise.FilterHandle, slot string, b denoise.BufferHandle, width, height int) {
	flt, ok := f.(*filter)
	if !ok || flt.released {
		return
	}
	buf, _ := b.(*buffer)
	flt.images[slot] = imageBinding{buf: buf, width: width, height: height}
	flt.committed = false
}

// SetBool stages a boolean parameter.
func (e *Engine) SetBool(f denoise.FilterHandle, name string, v bool) {
	if flt, ok := f.(*filter); ok && !flt.released {
		flt.bools[name] = v
		flt.committed = false
	}
}

// SetInt stages an integer parameter.
func (e *Engine) SetInt(f denoise.FilterHandle, name string, v int) {
	if flt, ok := f.(*filter); ok && !flt.released {
		flt.ints[name] = v
		flt.committed = false
	}
}

// SetFloat stages a float parameter.
func (e *Engine) SetFloat(f denoise.FilterHandle, name string, v float32) {
	if flt, ok := f.(*filter); ok && !flt.released {
		flt.floats[name] = v
		flt.committed = false
	}
}

// Commit validates the staged configuration and makes it current.
// Validation failures are recorded for Error.
func (e *Engine) Commit(f denoise.FilterHandle) {
	flt, ok := f.(*filter)
	if !ok || flt.released {
		e.record(ErrUnknownFilter)
		return
	}
	if err := flt.validate(); err != nil {
		e.record(err)
		return
	}
	flt.committed = true
}

// validate checks the image bindings against each other.
func (f *filter) validate() error {
	color, okColor := f.images[denoise.SlotColor]
	output, okOutput := f.images[denoise.SlotOutput]
	if !okColor || !okOutput || color.buf == nil || output.buf == nil {
		return ErrMissingImage
	}
	for slot, img := range f.images {
		if img.buf == nil || img.buf.released {
			return fmt.Errorf("%w: %s buffer released", ErrReleasedBuffer, slot)
		}
		if img.width != color.width || img.height != color.height {
			return fmt.Errorf("%w: %s is %dx%d, color is %dx%d",
				ErrImageMismatch, slot, img.width, img.height, color.width, color.height)
		}
		if need := img.width * img.height * 3 * 4; len(img.buf.data) < need {
			return fmt.Errorf("%w: %s buffer holds %d bytes, image needs %d",
				ErrImageMismatch, slot, len(img.buf.data), need)
		}
	}
	return nil
}

// Execute runs the committed filter. The software path is synchronous;
// failures are recorded for Error, matching engines that execute
// asynchronously.
func (e *Engine) Execute(f denoise.FilterHandle) {
	flt, ok := f.(*filter)
	if !ok || flt.released {
		e.record(ErrUnknownFilter)
		return
	}
	if !flt.committed {
		e.record(ErrNotCommitted)
		return
	}
	if err := flt.validate(); err != nil {
		e.record(err)
		return
	}

	color := flt.images[denoise.SlotColor]
	output := flt.images[denoise.SlotOutput]
	w, h := color.width, color.height
	n := w * h * 3

	src := pixconv.BytesFloat(color.buf.data[:n*4])
	radius := smoothingRadius(flt.ints[denoise.ParamQuality])

	scale := flt.floats[denoise.ParamInputScale]
	scaled := !math.IsNaN(float64(scale)) && scale > 0
	if scaled {
		in := make([]float32, n)
		for i, v := range src {
			in[i] = v * scale
		}
		src = in
	}

	dst := boxSmooth(src, w, h, radius)
	if scaled {
		inv := 1 / scale
		for i := range dst {
			dst[i] *= inv
		}
	}
	copy(output.buf.data, pixconv.FloatBytes(dst))

	denoise.Logger().Debug("software: filter executed",
		slog.Int("width", w), slog.Int("height", h), slog.Int("radius", radius))
}

// Synchronize waits for outstanding execution. The software path is
// synchronous, so this is a no-op.
func (e *Engine) Synchronize() {}

// smoothingRadius maps a quality level to the filter radius.
func smoothingRadius(quality int) int {
	switch denoise.Quality(quality) {
	case denoise.QualityFast:
		return 1
	case denoise.QualityBalanced:
		return 2
	default:
		return 3
	}
}

// boxSmooth applies a separable box filter of the given radius to a
// packed float3 image. Edges clamp.
func boxSmooth(src []float32, w, h, radius int) []float32 {
	horiz := make([]float32, len(src))
	for y := 0; y < h; y++ {
		row := y * w * 3
		for x := 0; x < w; x++ {
			var r, g, b float32
			count := 0
			for dx := -radius; dx <= radius; dx++ {
				sx := clamp(x+dx, 0, w-1)
				i := row + sx*3
				r += src[i]
				g += src[i+1]
				b += src[i+2]
				count++
			}
			i := row + x*3
			inv := 1 / float32(count)
			horiz[i] = r * inv
			horiz[i+1] = g * inv
			horiz[i+2] = b * inv
		}
	}

	dst := make([]float32, len(src))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, b float32
			count := 0
			for dy := -radius; dy <= radius; dy++ {
				sy := clamp(y+dy, 0, h-1)
				i := (sy*w + x) * 3
				r += horiz[i]
				g += horiz[i+1]
				b += horiz[i+2]
				count++
			}
			i := (y*w + x) * 3
			inv := 1 / float32(count)
			dst[i] = r * inv
			dst[i+1] = g * inv
			dst[i+2] = b * inv
		}
	}
	return dst
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
