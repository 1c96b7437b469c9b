// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"errors"
	"math"
	"testing"

	"github.com/gogpu/denoise"
	"github.com/gogpu/denoise/internal/pixconv"
)

func TestNewFilterKinds(t *testing.T) {
	e := New()
	f, err := e.NewFilter(denoise.FilterRT)
	if err != nil {
		t.Fatalf("NewFilter(RT) error = %v", err)
	}
	e.ReleaseFilter(f)

	if _, err := e.NewFilter("lightmap"); !errors.Is(err, ErrUnknownFilter) {
		t.Errorf("NewFilter(lightmap) error = %v, want ErrUnknownFilter", err)
	}
}

func TestBufferReadWrite(t *testing.T) {
	e := New()
	b, err := e.Allocate(16)
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	defer e.Release(b)

	data := []byte{1, 2, 3, 4}
	if err := e.Write(b, 4, data); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got := make([]byte, 4)
	if err := e.Read(b, 4, got); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	for i := range data {
		if got[i] != data[i] {
			t.Fatalf("Read() = %v, want %v", got, data)
		}
	}

	if err := e.Write(b, 14, data); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Write() past end error = %v, want ErrOutOfRange", err)
	}
	if err := e.Read(b, -1, got); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Read() negative offset error = %v, want ErrOutOfRange", err)
	}
}

func TestReleasedBufferRejected(t *testing.T) {
	e := New()
	b, err := e.Allocate(8)
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	e.Release(b)
	e.Release(b) // double release is safe

	if err := e.Write(b, 0, []byte{1}); !errors.Is(err, ErrReleasedBuffer) {
		t.Errorf("Write() after Release error = %v, want ErrReleasedBuffer", err)
	}
}

func TestExecuteWithoutCommit(t *testing.T) {
	e := New()
	f, err := e.NewFilter(denoise.FilterRT)
	if err != nil {
		t.Fatalf("NewFilter() error = %v", err)
	}
	defer e.ReleaseFilter(f)

	e.Execute(f)
	if err := e.Error(); !errors.Is(err, ErrNotCommitted) {
		t.Errorf("Error() = %v, want ErrNotCommitted", err)
	}
	if err := e.Error(); err != nil {
		t.Errorf("Error() after drain = %v, want nil", err)
	}
}

func TestCommitRequiresImages(t *testing.T) {
	e := New()
	f, err := e.NewFilter(denoise.FilterRT)
	if err != nil {
		t.Fatalf("NewFilter() error = %v", err)
	}
	defer e.ReleaseFilter(f)

	e.Commit(f)
	if err := e.Error(); !errors.Is(err, ErrMissingImage) {
		t.Errorf("Error() = %v, want ErrMissingImage", err)
	}
}

func TestCommitRejectsMismatchedImages(t *testing.T) {
	e := New()
	f, err := e.NewFilter(denoise.FilterRT)
	if err != nil {
		t.Fatalf("NewFilter() error = %v", err)
	}
	defer e.ReleaseFilter(f)

	color, _ := e.Allocate(4 * 4 * 3 * 4)
	output, _ := e.Allocate(4 * 4 * 3 * 4)
	defer e.Release(color)
	defer e.Release(output)

	e.SetImage(f, denoise.SlotColor, color, 4, 4)
	e.SetImage(f, denoise.SlotOutput, output, 4, 2)
	e.Commit(f)
	if err := e.Error(); !errors.Is(err, ErrImageMismatch) {
		t.Errorf("Error() = %v, want ErrImageMismatch", err)
	}
}

// runFilter pushes src through a committed RT filter and returns the
// output image.
func runFilter(t *testing.T, e *Engine, w, h int, src []float32, opts func(f denoise.FilterHandle)) []float32 {
	t.Helper()
	f, err := e.NewFilter(denoise.FilterRT)
	if err != nil {
		t.Fatalf("NewFilter() error = %v", err)
	}
	defer e.ReleaseFilter(f)

	size := w * h * 3 * 4
	color, err := e.Allocate(size)
	if err != nil {
		t.Fatalf("Allocate(color) error = %v", err)
	}
	defer e.Release(color)
	output, err := e.Allocate(size)
	if err != nil {
		t.Fatalf("Allocate(output) error = %v", err)
	}
	defer e.Release(output)

	if err := e.Write(color, 0, pixconv.FloatBytes(src)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	e.SetImage(f, denoise.SlotColor, color, w, h)
	e.SetImage(f, denoise.SlotOutput, output, w, h)
	e.SetFloat(f, denoise.ParamInputScale, float32(math.NaN()))
	if opts != nil {
		opts(f)
	}
	e.Commit(f)
	e.Execute(f)
	e.Synchronize()
	if err := e.Error(); err != nil {
		t.Fatalf("Error() after execute = %v", err)
	}

	raw := make([]byte, size)
	if err := e.Read(output, 0, raw); err != nil {
		t.Fatalf("Read(output) error = %v", err)
	}
	return pixconv.BytesFloat(raw)
}

func TestExecuteUniformImageUnchanged(t *testing.T) {
	const w, h = 8, 8
	src := make([]float32, w*h*3)
	for i := range src {
		src[i] = 0.5
	}

	got := runFilter(t, New(), w, h, src, nil)
	for i, v := range got {
		if math.Abs(float64(v)-0.5) > 1e-5 {
			t.Fatalf("output[%d] = %v, want 0.5", i, v)
		}
	}
}

func TestExecuteReducesNoise(t *testing.T) {
	const w, h = 16, 16
	src := make([]float32, w*h*3)
	// Checkerboard: maximal high-frequency noise around mean 0.5.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := float32(0.0)
			if (x+y)%2 == 0 {
				v = 1.0
			}
			i := (y*w + x) * 3
			src[i], src[i+1], src[i+2] = v, v, v
		}
	}

	got := runFilter(t, New(), w, h, src, nil)

	variance := func(img []float32) float64 {
		var mean float64
		for _, v := range img {
			mean += float64(v)
		}
		mean /= float64(len(img))
		var sum float64
		for _, v := range img {
			d := float64(v) - mean
			sum += d * d
		}
		return sum / float64(len(img))
	}
	if variance(got) >= variance(src) {
		t.Errorf("variance = %v, want less than input %v", variance(got), variance(src))
	}
}

func TestQualityControlsRadius(t *testing.T) {
	tests := []struct {
		quality denoise.Quality
		want    int
	}{
		{denoise.QualityFast, 1},
		{denoise.QualityBalanced, 2},
		{denoise.QualityHigh, 3},
		{denoise.QualityDefault, 3},
	}
	for _, tt := range tests {
		if got := smoothingRadius(int(tt.quality)); got != tt.want {
			t.Errorf("smoothingRadius(%v) = %d, want %d", tt.quality, got, tt.want)
		}
	}
}

func TestInputScaleRoundTrips(t *testing.T) {
	const w, h = 4, 4
	src := make([]float32, w*h*3)
	for i := range src {
		src[i] = 0.25
	}

	auto := runFilter(t, New(), w, h, src, nil)
	// An explicit scale on a uniform image must match the NaN auto path:
	// the filter scales in and back out.
	e := New()
	scaled := runFilter(t, e, w, h, src, func(f denoise.FilterHandle) {
		e.SetFloat(f, denoise.ParamInputScale, 4)
	})
	for i := range auto {
		if math.Abs(float64(scaled[i])-float64(auto[i])) > 1e-5 {
			t.Fatalf("scaled output[%d] = %v, want %v", i, scaled[i], auto[i])
		}
	}
}
