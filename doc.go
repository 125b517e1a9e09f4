// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package epaper is a container for the UC8151 e-paper panel driver and its
// rendering pipeline.
//
// The packages build on each other:
//
//	bitmap   packed column-major 1 bit framebuffer
//	bmp      1 bpp BMP asset decoding and encoding
//	assets   stored assets with their HTTP envelope
//	qrcode   QR code encoding with automatic mask selection
//	render   text, asset, image and QR code drawing through a blit function
//	uc8151   the panel driver
//	preview  terminal and HTTP virtual panels
package epaper
