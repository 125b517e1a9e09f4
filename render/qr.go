// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package render

import (
	"fmt"

	"github.com/GermanBionicSystems/epaper/bitmap"
	"github.com/GermanBionicSystems/epaper/qrcode"
)

// QRCapacity is the size in bytes of the largest QR code canvas, enough for
// a version 11 symbol: 61 modules drawn 2x2 on a 128x128 canvas.
const QRCapacity = 2048

// Modules is a square grid of QR code modules.
type Modules interface {
	// Size returns the number of modules on a side.
	Size() int
	// Module reports whether the module at (x, y) is dark.
	Module(x, y int) bool
}

// QRSize returns the side of the canvas for a code of n modules: every
// module is drawn as a 2x2 block, rounded down to a multiple of 8 plus an 8
// pixel margin.
func QRSize(n int) int {
	return (n*2)&^7 + 8
}

// RasterizeQR draws m on a white square canvas of QRSize(m.Size()) pixels,
// centered, each module as a 2x2 block.
func RasterizeQR(m Modules) ([]byte, int, error) {
	n := m.Size()
	size := QRSize(n)
	if l := bitmap.Len(size, size); l > QRCapacity {
		return nil, 0, fmt.Errorf("%w: %d modules need %d bytes, capacity is %d", ErrCapacity, n, l, QRCapacity)
	}
	border := size/2 - n
	pix := make([]byte, bitmap.Len(size, size))
	for i := range pix {
		pix[i] = bitmap.Blank
	}
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			v := m.Module(x, y)
			px, py := x*2+border, y*2+border
			_ = bitmap.SetPixel(pix, size, size, px, py, v)
			_ = bitmap.SetPixel(pix, size, size, px, py+1, v)
			_ = bitmap.SetPixel(pix, size, size, px+1, py, v)
			_ = bitmap.SetPixel(pix, size, size, px+1, py+1, v)
		}
	}
	return pix, size, nil
}

// DrawQR encodes text as a QR code and draws it with its top-left corner at
// (x, y). It returns the side of the drawn square in pixels.
//
// Unlike Print, text longer than the text limit is an error, not truncated.
func (r *Renderer) DrawQR(x, y int, text string) (int, error) {
	size, err := r.drawQR(x, y, text)
	if err != nil {
		r.logf("draw QR code: %v", err)
		return 0, err
	}
	return size, nil
}

func (r *Renderer) drawQR(x, y int, text string) (int, error) {
	if r == nil || r.blit == nil {
		return 0, ErrNotInitialized
	}
	if max := r.limit(); len(text) > max {
		return 0, fmt.Errorf("%w: %d bytes exceed the %d byte text limit", ErrEncode, len(text), max)
	}
	g, err := qrcode.Encode(text, r.opts.QR)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	pix, size, err := RasterizeQR(g)
	if err != nil {
		return 0, err
	}
	if err := r.blit(pix, size, size, x, y); err != nil {
		return 0, err
	}
	return size, nil
}

// DrawQRf is DrawQR with fmt.Sprintf formatting.
func (r *Renderer) DrawQRf(x, y int, format string, args ...interface{}) (int, error) {
	return r.DrawQR(x, y, fmt.Sprintf(format, args...))
}
