// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package denoise

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Format is the pixel encoding of a texture supported for denoising.
// Both formats are interleaved 4-channel float; only RGB is denoised and
// alpha is preserved.
type Format uint8

const (
	// FormatRGBA32Float is RGBA with one 32-bit float per channel.
	FormatRGBA32Float Format = iota

	// FormatRGBA16Float is RGBA with one IEEE 754 binary16 per channel.
	FormatRGBA16Float
)

// String returns a human-readable name for the format.
func (f Format) String() string {
	switch f {
	case FormatRGBA32Float:
		return "RGBA32Float"
	case FormatRGBA16Float:
		return "RGBA16Float"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(f))
	}
}

// BytesPerPixel returns the byte size of one interleaved RGBA pixel.
func (f Format) BytesPerPixel() uint32 {
	switch f {
	case FormatRGBA32Float:
		return 16
	case FormatRGBA16Float:
		return 8
	default:
		return 16
	}
}

// TextureFormat returns the corresponding wgpu texture format.
func (f Format) TextureFormat() gputypes.TextureFormat {
	switch f {
	case FormatRGBA16Float:
		return gputypes.TextureFormatRGBA16Float
	default:
		return gputypes.TextureFormatRGBA32Float
	}
}

// FormatFromTexture converts a wgpu texture format to a denoise Format.
// The second result is false if the format is not supported for denoising.
func FormatFromTexture(tf gputypes.TextureFormat) (Format, bool) {
	switch tf {
	case gputypes.TextureFormatRGBA32Float:
		return FormatRGBA32Float, true
	case gputypes.TextureFormatRGBA16Float:
		return FormatRGBA16Float, true
	default:
		return 0, false
	}
}
