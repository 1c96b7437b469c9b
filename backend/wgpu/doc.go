// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wgpu implements the denoise GPU capability over gogpu/wgpu.
//
// A Device wraps a hal.Device and hal.Queue pair (either passed
// directly or extracted from a gpucontext.DeviceProvider) and provides
// the staging-buffer and texture-copy operations the bridge needs.
// Readback follows the wgpu asynchronous mapping contract: the copy is
// submitted and its submission index recorded, MapAsync registers a
// completion callback, and Device.Poll maps the buffer and reads it
// back once the queue reports the submission complete.
package wgpu
