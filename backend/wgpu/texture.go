// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Texture wraps a hal.Texture with the dimensions and format the bridge
// validates against. HAL textures do not expose their descriptor, so the
// wrapper records it at creation or wrap time.
type Texture struct {
	halTexture hal.Texture
	width      uint32
	height     uint32
	layers     uint32
	format     gputypes.TextureFormat
	owned      bool
}

// Wrap adopts a texture created elsewhere. The caller keeps ownership;
// Destroy on a wrapped texture is a no-op. The stated dimensions and
// format must match the texture's actual descriptor.
func Wrap(tex hal.Texture, width, height uint32, format gputypes.TextureFormat) *Texture {
	return &Texture{
		halTexture: tex,
		width:      width,
		height:     height,
		layers:     1,
		format:     format,
	}
}

// CreateTexture creates a single-layer 2D texture usable as both a copy
// source and a copy destination, so one texture can serve as denoise
// input and output.
func (d *Device) CreateTexture(label string, width, height uint32, format gputypes.TextureFormat) (*Texture, error) {
	halTex, err := d.dev.CreateTexture(&hal.TextureDescriptor{
		Label: label,
		Size: hal.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageCopySrc | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create texture %q: %w", label, err)
	}
	return &Texture{
		halTexture: halTex,
		width:      width,
		height:     height,
		layers:     1,
		format:     format,
		owned:      true,
	}, nil
}

// Width returns the texture width in pixels.
func (t *Texture) Width() uint32 { return t.width }

// Height returns the texture height in pixels.
func (t *Texture) Height() uint32 { return t.height }

// Layers returns the array layer count.
func (t *Texture) Layers() uint32 { return t.layers }

// Format returns the pixel format.
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// HalTexture returns the underlying HAL texture for use with other
// gogpu components.
func (t *Texture) HalTexture() hal.Texture { return t.halTexture }

// Destroy releases the texture if this wrapper owns it. Idempotent.
func (t *Texture) Destroy(d *Device) {
	if !t.owned || t.halTexture == nil {
		return
	}
	d.dev.DestroyTexture(t.halTexture)
	t.halTexture = nil
}
