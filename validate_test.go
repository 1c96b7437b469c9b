// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package denoise

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

// fakeTexture is an in-memory Texture. data holds the tightly packed
// pixel bytes the fake device copies from and into.
type fakeTexture struct {
	width  uint32
	height uint32
	layers uint32
	format gputypes.TextureFormat
	data   []byte
}

func (t *fakeTexture) Width() uint32                  { return t.width }
func (t *fakeTexture) Height() uint32                 { return t.height }
func (t *fakeTexture) Layers() uint32                 { return t.layers }
func (t *fakeTexture) Format() gputypes.TextureFormat { return t.format }

// newFakeTexture creates a zero-filled single-layer texture.
func newFakeTexture(w, h uint32, format Format) *fakeTexture {
	return &fakeTexture{
		width:  w,
		height: h,
		layers: 1,
		format: format.TextureFormat(),
		data:   make([]byte, w*h*format.BytesPerPixel()),
	}
}

func TestValidateSurfaces(t *testing.T) {
	tests := []struct {
		name    string
		input   *fakeTexture
		output  *fakeTexture
		format  Format
		aux     []Texture
		wantErr error
	}{
		{
			name:   "matching pair",
			input:  newFakeTexture(64, 64, FormatRGBA32Float),
			output: newFakeTexture(64, 64, FormatRGBA32Float),
			format: FormatRGBA32Float,
		},
		{
			name:   "same texture in place",
			input:  newFakeTexture(16, 16, FormatRGBA16Float),
			output: nil, // filled below with the input itself
			format: FormatRGBA16Float,
		},
		{
			name:    "zero width input",
			input:   newFakeTexture(0, 64, FormatRGBA32Float),
			output:  newFakeTexture(0, 64, FormatRGBA32Float),
			format:  FormatRGBA32Float,
			wantErr: ErrInvalidDimensions,
		},
		{
			name:    "output height differs",
			input:   newFakeTexture(64, 64, FormatRGBA32Float),
			output:  newFakeTexture(64, 32, FormatRGBA32Float),
			format:  FormatRGBA32Float,
			wantErr: ErrInvalidDimensions,
		},
		{
			name:    "array texture",
			input:   newFakeTexture(64, 64, FormatRGBA32Float),
			output:  &fakeTexture{width: 64, height: 64, layers: 6, format: gputypes.TextureFormatRGBA32Float},
			format:  FormatRGBA32Float,
			wantErr: ErrInvalidDimensions,
		},
		{
			name:    "format mismatch",
			input:   newFakeTexture(64, 64, FormatRGBA32Float),
			output:  newFakeTexture(64, 64, FormatRGBA16Float),
			format:  FormatRGBA32Float,
			wantErr: ErrUnsupportedFormat,
		},
		{
			name:    "unknown format",
			input:   newFakeTexture(64, 64, FormatRGBA32Float),
			output:  newFakeTexture(64, 64, FormatRGBA32Float),
			format:  Format(7),
			wantErr: ErrUnsupportedFormat,
		},
		{
			name:   "nil aux skipped",
			input:  newFakeTexture(64, 64, FormatRGBA32Float),
			output: newFakeTexture(64, 64, FormatRGBA32Float),
			format: FormatRGBA32Float,
			aux:    []Texture{nil, nil},
		},
		{
			name:    "aux dims differ",
			input:   newFakeTexture(64, 64, FormatRGBA32Float),
			output:  newFakeTexture(64, 64, FormatRGBA32Float),
			format:  FormatRGBA32Float,
			aux:     []Texture{newFakeTexture(32, 32, FormatRGBA32Float)},
			wantErr: ErrInvalidDimensions,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := Texture(tt.output)
			if tt.output == nil {
				output = tt.input
			}
			err := validateSurfaces(tt.input, output, tt.format, tt.aux...)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("validateSurfaces() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("validateSurfaces() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
