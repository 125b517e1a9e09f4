// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package uc8151 controls e-paper panels driven by an UltraChip UC8151(C),
// such as the 2.9" 296x128 black and white panel of the Pimoroni Badger 2040
// and compatible Raspberry Pi HATs.
//
// The driver is a thin protocol layer: region writes land in the panel's
// memory and only become visible after Refresh. Pixel data uses the packed
// column-major layout of package bitmap, a set bit being white.
//
// The panel goes through three states:
//
//	Uninitialized --Init--> Active --Sleep--> Sleeping --Init--> Active
//
// Every drawing call outside of Active returns ErrNotInitialized or
// ErrSleeping without touching the bus.
//
// Dev is not safe for concurrent use.
//
// # Datasheet
//
// https://www.buydisplay.com/download/ic/UC8151C.pdf
package uc8151
