// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package denoise

import "fmt"

// Quality selects the engine's quality vs performance trade-off.
// The numeric values match the engine's wire values and must not be
// reordered.
type Quality int

const (
	// QualityDefault lets the engine pick (typically high quality).
	QualityDefault Quality = 0

	// QualityFast favors speed, for interactive or real-time preview.
	QualityFast Quality = 4

	// QualityBalanced balances speed and quality for interactive use.
	QualityBalanced Quality = 5

	// QualityHigh favors quality, for final-frame rendering.
	QualityHigh Quality = 6
)

// String returns a human-readable name for the quality level.
func (q Quality) String() string {
	switch q {
	case QualityDefault:
		return "Default"
	case QualityFast:
		return "Fast"
	case QualityBalanced:
		return "Balanced"
	case QualityHigh:
		return "High"
	default:
		return fmt.Sprintf("Unknown(%d)", int(q))
	}
}

// Options controls one denoise call. The zero value is not useful;
// start from DefaultOptions.
type Options struct {
	// Quality is the quality vs performance trade-off.
	Quality Quality

	// HDR marks the image as HDR (linear, possibly > 1.0).
	HDR bool

	// SRGB marks the image as sRGB-encoded LDR.
	SRGB bool

	// CleanAux marks albedo/normal auxiliary images as noise-free
	// (prefiltered). Ignored when no auxiliary images are supplied.
	CleanAux bool

	// InputScale overrides the engine's input scale (e.g. exposure).
	// nil means auto.
	InputScale *float32
}

// DefaultOptions returns options matching a typical path-tracer setup:
// HDR input, default quality, automatic input scale.
func DefaultOptions() Options {
	return Options{
		Quality: QualityDefault,
		HDR:     true,
		SRGB:    false,
	}
}
