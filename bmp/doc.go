// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bmp decodes monochrome Windows bitmap files used as panel assets.
//
// Only uncompressed 1 bit per pixel files are accepted. Decoding never copies
// the pixel payload: the returned Image is a view over the caller's bytes and
// is only valid as long as they are.
//
// Panel assets are authored rotated by 90 degrees: every row of the raster is
// one column of the panel. Oriented(SwapAxes) applies that transform and
// yields a buffer in the column-major layout of package bitmap.
//
// golang.org/x/image/bmp is not used since it neither decodes 1 bit files nor
// exposes the raw payload.
package bmp
