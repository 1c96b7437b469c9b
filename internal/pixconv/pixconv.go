// Package pixconv converts between interleaved 4-channel float pixel
// buffers and the packed 3-channel color plus separate alpha layout a
// denoising engine consumes.
//
// All byte-level layouts are little-endian, matching wgpu buffer
// contents on every supported platform.
package pixconv

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Encoding is the binary layout of one interleaved RGBA pixel.
type Encoding uint8

const (
	// RGBA32Float is 4 consecutive 32-bit floats per pixel.
	RGBA32Float Encoding = iota

	// RGBA16Float is 4 consecutive binary16 floats per pixel.
	RGBA16Float
)

// BytesPerPixel returns the byte size of one pixel in the encoding.
func (e Encoding) BytesPerPixel() int {
	if e == RGBA16Float {
		return 8
	}
	return 16
}

// Decode splits raw interleaved RGBA pixels into a dense 3-channel color
// sequence (len pixels*3) and a separate alpha sequence (len pixels).
// raw must hold at least pixels*BytesPerPixel bytes.
func Decode(raw []byte, enc Encoding, pixels int) (rgb, alpha []float32, err error) {
	if need := pixels * enc.BytesPerPixel(); len(raw) < need {
		return nil, nil, fmt.Errorf("pixconv: raw buffer %d bytes, need %d", len(raw), need)
	}
	rgb = make([]float32, pixels*3)
	alpha = make([]float32, pixels)

	switch enc {
	case RGBA16Float:
		for i := 0; i < pixels; i++ {
			off := i * 8
			rgb[i*3] = Float16From(binary.LittleEndian.Uint16(raw[off:]))
			rgb[i*3+1] = Float16From(binary.LittleEndian.Uint16(raw[off+2:]))
			rgb[i*3+2] = Float16From(binary.LittleEndian.Uint16(raw[off+4:]))
			alpha[i] = Float16From(binary.LittleEndian.Uint16(raw[off+6:]))
		}
	default:
		for i := 0; i < pixels; i++ {
			off := i * 16
			rgb[i*3] = math.Float32frombits(binary.LittleEndian.Uint32(raw[off:]))
			rgb[i*3+1] = math.Float32frombits(binary.LittleEndian.Uint32(raw[off+4:]))
			rgb[i*3+2] = math.Float32frombits(binary.LittleEndian.Uint32(raw[off+8:]))
			alpha[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[off+12:]))
		}
	}
	return rgb, alpha, nil
}

// Encode interleaves a dense 3-channel color sequence and an alpha
// sequence back into raw RGBA pixels. Indices past the end of alpha are
// written as 1.0 (alpha preservation default, not an error). rgb must
// hold at least pixels*3 values.
func Encode(rgb, alpha []float32, enc Encoding, pixels int) ([]byte, error) {
	if len(rgb) < pixels*3 {
		return nil, fmt.Errorf("pixconv: rgb buffer %d values, need %d", len(rgb), pixels*3)
	}
	raw := make([]byte, pixels*enc.BytesPerPixel())

	switch enc {
	case RGBA16Float:
		for i := 0; i < pixels; i++ {
			off := i * 8
			binary.LittleEndian.PutUint16(raw[off:], Float16Bits(rgb[i*3]))
			binary.LittleEndian.PutUint16(raw[off+2:], Float16Bits(rgb[i*3+1]))
			binary.LittleEndian.PutUint16(raw[off+4:], Float16Bits(rgb[i*3+2]))
			binary.LittleEndian.PutUint16(raw[off+6:], Float16Bits(alphaAt(alpha, i)))
		}
	default:
		for i := 0; i < pixels; i++ {
			off := i * 16
			binary.LittleEndian.PutUint32(raw[off:], math.Float32bits(rgb[i*3]))
			binary.LittleEndian.PutUint32(raw[off+4:], math.Float32bits(rgb[i*3+1]))
			binary.LittleEndian.PutUint32(raw[off+8:], math.Float32bits(rgb[i*3+2]))
			binary.LittleEndian.PutUint32(raw[off+12:], math.Float32bits(alphaAt(alpha, i)))
		}
	}
	return raw, nil
}

func alphaAt(alpha []float32, i int) float32 {
	if i < len(alpha) {
		return alpha[i]
	}
	return 1.0
}

// FloatBytes converts a float32 slice to its little-endian byte layout.
func FloatBytes(src []float32) []byte {
	out := make([]byte, len(src)*4)
	for i, v := range src {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

// BytesFloat converts little-endian float32 bytes back to a slice.
// len(src) must be a multiple of 4.
func BytesFloat(src []byte) []float32 {
	out := make([]float32, len(src)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*4:]))
	}
	return out
}
