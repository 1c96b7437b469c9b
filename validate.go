// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package denoise

import "fmt"

// validateSurfaces checks that every surface involved in one call shares
// the input's dimensions, has exactly one array layer, and carries the
// requested format. It runs before any allocation or GPU work; nil
// entries in aux are skipped (absent AOV).
func validateSurfaces(input, output Texture, format Format, aux ...Texture) error {
	switch format {
	case FormatRGBA32Float, FormatRGBA16Float:
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}

	w, h := input.Width(), input.Height()
	if w == 0 || h == 0 {
		return fmt.Errorf("%w: input is %dx%d", ErrInvalidDimensions, w, h)
	}

	surfaces := append([]Texture{input, output}, aux...)
	for _, t := range surfaces {
		if t == nil {
			continue
		}
		if t.Layers() != 1 {
			return fmt.Errorf("%w: %d array layers, want 1", ErrInvalidDimensions, t.Layers())
		}
		if t.Width() != w || t.Height() != h {
			return fmt.Errorf("%w: %dx%d, want %dx%d",
				ErrInvalidDimensions, t.Width(), t.Height(), w, h)
		}
		if t.Format() != format.TextureFormat() {
			return fmt.Errorf("%w: surface format %v, want %v",
				ErrUnsupportedFormat, t.Format(), format.TextureFormat())
		}
	}
	return nil
}
