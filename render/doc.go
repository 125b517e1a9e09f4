// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package render paints text, bitmap assets and QR codes through a blit
// function, usually the region write of a panel driver.
//
// Every drawing call hands packed column-major pixels (see package bitmap) to
// the BlitFunc the Renderer was created with. A Renderer without one fails
// every drawing call with ErrNotInitialized.
//
// Fonts are strips of 95 fixed size cells holding the printable ASCII glyphs
// 32 to 126 in order, packed like a framebuffer; NewFont builds one from any
// font.Face. A strip stored as a bitmap asset can be used directly with
// PrintAsset.
//
// A Renderer is not safe for concurrent use.
package render
