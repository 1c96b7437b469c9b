// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package denoise

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gogpu/denoise/internal/pixconv"
	"github.com/gogpu/denoise/internal/rowpack"
)

// mapPollInterval is the sleep between device polls while waiting for a
// staging buffer map to complete.
const mapPollInterval = 100 * time.Microsecond

// channelBuffers is the exchange format with the engine: a dense
// 3-channel color sequence plus the separate alpha sequence the engine
// never sees.
type channelBuffers struct {
	rgb   []float32
	alpha []float32
}

// Denoise denoises a GPU texture by readback, engine execution, and
// upload. Input and output may be the same texture for in-place
// denoising; both must carry the given format and identical dimensions.
// Only RGB is denoised; alpha is preserved.
//
// The input texture must allow copy-source usage and the output texture
// copy-destination usage.
//
// This is a blocking call: it submits the readback copy, waits for the
// staging buffer map, runs the engine to completion, then enqueues the
// upload. The final buffer-to-texture copy is fire-and-forget; the
// output texture is caller-owned and caller-synchronized afterwards.
func Denoise(engine Engine, dev Device, input, output Texture, format Format, opts Options) error {
	return DenoiseAux(engine, dev, input, output, format, opts, nil, nil)
}

// DenoiseAux is Denoise with optional albedo and normal auxiliary
// textures of the same dimensions and format as the color input.
// Providing both improves quality; either may be nil. A partially
// provided AOV set is accepted, not rejected.
func DenoiseAux(engine Engine, dev Device, input, output Texture, format Format, opts Options, albedo, normal Texture) error {
	if engine == nil {
		return ErrNilEngine
	}
	if dev == nil {
		return ErrNilDevice
	}
	if err := validateSurfaces(input, output, format, albedo, normal); err != nil {
		return err
	}

	w := int(input.Width())
	h := int(input.Height())
	Logger().Debug("denoise: start",
		slog.Int("width", w), slog.Int("height", h),
		slog.String("format", format.String()),
		slog.Bool("albedo", albedo != nil), slog.Bool("normal", normal != nil))

	color, err := readSurface(dev, input, format)
	if err != nil {
		return err
	}
	var albedoRGB, normalRGB []float32
	if albedo != nil {
		aux, err := readSurface(dev, albedo, format)
		if err != nil {
			return err
		}
		albedoRGB = aux.rgb
	}
	if normal != nil {
		aux, err := readSurface(dev, normal, format)
		if err != nil {
			return err
		}
		normalRGB = aux.rgb
	}

	sess, err := newSession(engine, w, h, albedoRGB != nil, normalRGB != nil)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.upload(SlotColor, color.rgb); err != nil {
		return err
	}
	if albedoRGB != nil {
		if err := sess.upload(SlotAlbedo, albedoRGB); err != nil {
			return err
		}
	}
	if normalRGB != nil {
		if err := sess.upload(SlotNormal, normalRGB); err != nil {
			return err
		}
	}
	sess.configure(opts)
	if err := sess.run(); err != nil {
		return err
	}
	denoised, err := sess.readOutput()
	if err != nil {
		return err
	}

	return writeSurface(dev, output, format, channelBuffers{rgb: denoised, alpha: color.alpha})
}

// DenoiseBuffers denoises a packed float3 color image in place, without
// any GPU involvement. color must hold width*height*3 values.
func DenoiseBuffers(engine Engine, width, height int, color []float32, opts Options) error {
	return DenoiseBuffersAux(engine, width, height, color, nil, nil, opts)
}

// DenoiseBuffersAux is DenoiseBuffers with optional albedo and normal
// images, each width*height*3 values when present.
func DenoiseBuffersAux(engine Engine, width, height int, color, albedo, normal []float32, opts Options) error {
	if engine == nil {
		return ErrNilEngine
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	n := width * height * 3
	if len(color) != n {
		return fmt.Errorf("%w: color has %d values, want %d", ErrInvalidDimensions, len(color), n)
	}
	if albedo != nil && len(albedo) != n {
		return fmt.Errorf("%w: albedo has %d values, want %d", ErrInvalidDimensions, len(albedo), n)
	}
	if normal != nil && len(normal) != n {
		return fmt.Errorf("%w: normal has %d values, want %d", ErrInvalidDimensions, len(normal), n)
	}

	sess, err := newSession(engine, width, height, albedo != nil, normal != nil)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.upload(SlotColor, color); err != nil {
		return err
	}
	if albedo != nil {
		if err := sess.upload(SlotAlbedo, albedo); err != nil {
			return err
		}
	}
	if normal != nil {
		if err := sess.upload(SlotNormal, normal); err != nil {
			return err
		}
	}
	sess.configure(opts)
	if err := sess.run(); err != nil {
		return err
	}
	denoised, err := sess.readOutput()
	if err != nil {
		return err
	}
	copy(color, denoised)
	return nil
}

// readSurface copies a texture into host memory through an
// alignment-padded staging buffer, blocks until the buffer map
// completes, and splits the pixels into color and alpha channels.
func readSurface(dev Device, tex Texture, format Format) (channelBuffers, error) {
	w := tex.Width()
	h := tex.Height()
	layout := rowpack.New(w, format.BytesPerPixel(), dev.RowAlignment())

	buf, err := dev.CreateReadbackBuffer(uint64(layout.Padded) * uint64(h))
	if err != nil {
		return channelBuffers{}, fmt.Errorf("denoise: create readback buffer: %w", err)
	}
	defer buf.Destroy()

	if err := dev.CopyTextureToBuffer(tex, buf, layout.Padded, h); err != nil {
		return channelBuffers{}, fmt.Errorf("denoise: texture readback: %w", err)
	}
	if err := awaitMap(dev, buf); err != nil {
		return channelBuffers{}, err
	}

	raw, err := buf.MappedBytes()
	if err != nil {
		return channelBuffers{}, fmt.Errorf("%w: %v", ErrBufferMapFailed, err)
	}
	tight := layout.Unpack(raw, h)
	buf.Unmap()

	rgb, alpha, err := pixconv.Decode(tight, format.encoding(), int(w)*int(h))
	if err != nil {
		return channelBuffers{}, fmt.Errorf("%w: %v", ErrInvalidDimensions, err)
	}
	return channelBuffers{rgb: rgb, alpha: alpha}, nil
}

// writeSurface re-interleaves color and preserved alpha, pads the rows,
// and enqueues the upload into the output texture. The submit is
// fire-and-forget.
func writeSurface(dev Device, tex Texture, format Format, data channelBuffers) error {
	w := tex.Width()
	h := tex.Height()
	raw, err := pixconv.Encode(data.rgb, data.alpha, format.encoding(), int(w)*int(h))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDimensions, err)
	}

	layout := rowpack.New(w, format.BytesPerPixel(), dev.RowAlignment())
	buf, err := dev.CreateUploadBuffer(layout.Pack(raw, h))
	if err != nil {
		return fmt.Errorf("denoise: create upload buffer: %w", err)
	}
	defer buf.Destroy()

	if err := dev.CopyBufferToTexture(buf, tex, layout.Padded, h); err != nil {
		return fmt.Errorf("denoise: texture upload: %w", err)
	}
	return nil
}

// awaitMap initiates the asynchronous map of a staging buffer and blocks
// until its completion callback fires, polling the device between short
// sleeps. The single-shot channel turns the callback into a value the
// wait loop can consume.
func awaitMap(dev Device, buf Buffer) error {
	done := make(chan error, 1)
	if err := buf.MapAsync(func(err error) { done <- err }); err != nil {
		return fmt.Errorf("%w: %v", ErrBufferMapFailed, err)
	}
	for {
		dev.Poll()
		select {
		case err := <-done:
			if err != nil {
				return fmt.Errorf("%w: %v", ErrBufferMapFailed, err)
			}
			return nil
		default:
			time.Sleep(mapPollInterval)
		}
	}
}

// encoding maps a Format to its pixconv encoding.
func (f Format) encoding() pixconv.Encoding {
	if f == FormatRGBA16Float {
		return pixconv.RGBA16Float
	}
	return pixconv.RGBA32Float
}
