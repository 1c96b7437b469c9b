// Package rowpack computes padded row strides for texture-buffer copies
// and converts between tightly packed and alignment-padded pixel data.
//
// WebGPU (and DX12) require the row stride of a texture copy to be a
// multiple of the device's copy alignment, so staging buffers carry
// per-row padding that host-side pixel data does not.
package rowpack

// Layout describes the row geometry of one surface copy.
type Layout struct {
	// Unpadded is the tight row size in bytes (width * bytesPerPixel).
	Unpadded uint32

	// Padded is the smallest multiple of the alignment >= Unpadded.
	Padded uint32
}

// New computes the layout for a surface of the given pixel width.
// alignment must be a power of two.
func New(width, bytesPerPixel, alignment uint32) Layout {
	unpadded := width * bytesPerPixel
	padded := (unpadded + alignment - 1) &^ (alignment - 1)
	return Layout{Unpadded: unpadded, Padded: padded}
}

// Pack copies height rows of Unpadded bytes from tight into a new
// padded buffer, zero-filling the padding after each row. It reads
// exactly Unpadded bytes per row from tight.
func (l Layout) Pack(tight []byte, height uint32) []byte {
	padded := make([]byte, uint64(l.Padded)*uint64(height))
	for row := uint32(0); row < height; row++ {
		src := uint64(row) * uint64(l.Unpadded)
		dst := uint64(row) * uint64(l.Padded)
		copy(padded[dst:dst+uint64(l.Unpadded)], tight[src:src+uint64(l.Unpadded)])
	}
	return padded
}

// Unpack copies the first Unpadded bytes of each padded row into a new
// tight buffer, discarding the padding. It is the exact inverse of Pack.
func (l Layout) Unpack(padded []byte, height uint32) []byte {
	tight := make([]byte, uint64(l.Unpadded)*uint64(height))
	for row := uint32(0); row < height; row++ {
		src := uint64(row) * uint64(l.Padded)
		dst := uint64(row) * uint64(l.Unpadded)
		copy(tight[dst:dst+uint64(l.Unpadded)], padded[src:src+uint64(l.Unpadded)])
	}
	return tight
}
