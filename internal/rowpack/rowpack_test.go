package rowpack

import (
	"bytes"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name          string
		width, bpp    uint32
		alignment     uint32
		wantUnpadded  uint32
		wantPadded    uint32
	}{
		{"already aligned", 64, 16, 256, 1024, 1024},
		{"needs padding", 2, 16, 256, 32, 256},
		{"half float row", 100, 8, 256, 800, 1024},
		{"one pixel", 1, 16, 256, 16, 256},
		{"small alignment", 3, 4, 4, 12, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.width, tt.bpp, tt.alignment)
			if l.Unpadded != tt.wantUnpadded {
				t.Errorf("Unpadded = %d, want %d", l.Unpadded, tt.wantUnpadded)
			}
			if l.Padded != tt.wantPadded {
				t.Errorf("Padded = %d, want %d", l.Padded, tt.wantPadded)
			}
			if l.Padded < l.Unpadded {
				t.Errorf("Padded %d < Unpadded %d", l.Padded, l.Unpadded)
			}
			if l.Padded%tt.alignment != 0 {
				t.Errorf("Padded %d not a multiple of %d", l.Padded, tt.alignment)
			}
		})
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		width, bpp uint32
		alignment  uint32
		height     uint32
	}{
		{"2x2 rgba32f", 2, 16, 256, 2},
		{"unaligned rows", 7, 8, 256, 5},
		{"aligned rows", 16, 16, 256, 3},
		{"zero height", 4, 16, 256, 0},
		{"single row", 33, 4, 64, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.width, tt.bpp, tt.alignment)
			tight := make([]byte, uint64(l.Unpadded)*uint64(tt.height))
			for i := range tight {
				tight[i] = byte(i*7 + 3)
			}

			padded := l.Pack(tight, tt.height)
			if got, want := uint64(len(padded)), uint64(l.Padded)*uint64(tt.height); got != want {
				t.Fatalf("len(padded) = %d, want %d", got, want)
			}

			back := l.Unpack(padded, tt.height)
			if !bytes.Equal(back, tight) {
				t.Errorf("Unpack(Pack(x)) != x")
			}
		})
	}
}

func TestPackZeroFillsPadding(t *testing.T) {
	l := New(2, 16, 256) // 32 tight, 256 padded
	tight := bytes.Repeat([]byte{0xff}, int(l.Unpadded)*2)

	padded := l.Pack(tight, 2)
	for row := 0; row < 2; row++ {
		off := row * int(l.Padded)
		for i := int(l.Unpadded); i < int(l.Padded); i++ {
			if padded[off+i] != 0 {
				t.Fatalf("row %d padding byte %d = %#x, want 0", row, i, padded[off+i])
			}
		}
	}
}

// Pack must not read beyond Unpadded bytes per row of the source, so a
// source sized exactly Unpadded*height must not panic.
func TestPackExactSource(t *testing.T) {
	l := New(3, 8, 256)
	tight := make([]byte, int(l.Unpadded)*4)
	_ = l.Pack(tight, 4)
}
