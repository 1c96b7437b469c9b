// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package software provides a pure-Go denoise engine.
//
// It implements the denoise.Engine capability with host-memory buffers
// and a separable smoothing filter, so the full pipeline runs without
// any native denoising library. Quality maps to filter strength; the
// output is a smoothed image, not a neural reconstruction. It serves as
// a fallback and as the reference engine for tests.
package software
