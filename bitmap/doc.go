// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bitmap implements the packed 1 bit per pixel framebuffer used by
// UC8151 based e-paper panels.
//
// Pixels are stored column-major: each column of Height pixels occupies
// Height/8 consecutive bytes, the top-most pixel of a byte being its most
// significant bit. A set bit is white (unpainted), a cleared bit is black.
//
//	byte index = x*(height/8) + y/8
//	bit mask   = 0x80 >> (y%8)
//
// Both dimensions must be multiples of 8 for every addressed region.
package bitmap
