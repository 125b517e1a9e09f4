// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package render

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/GermanBionicSystems/epaper/bitmap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// NewFont rasterizes the printable ASCII glyphs of face into a font strip of
// Glyphs cells of cellW x cellH pixels. cellH must be a multiple of 8.
//
// Glyphs are placed on the baseline at the face's ascent and clipped to their
// cell.
func NewFont(face font.Face, cellW, cellH int) (*bitmap.Frame, error) {
	if cellW <= 0 || cellH <= 0 || cellH%8 != 0 {
		return nil, fmt.Errorf("render: invalid cell %dx%d", cellW, cellH)
	}
	f, err := bitmap.NewFrame(Glyphs*cellW, cellH)
	if err != nil {
		return nil, err
	}
	ascent := face.Metrics().Ascent.Ceil()
	cell := image.NewGray(image.Rect(0, 0, cellW, cellH))
	d := font.Drawer{Dst: cell, Src: image.Black, Face: face}
	for i := 0; i < Glyphs; i++ {
		draw.Draw(cell, cell.Bounds(), image.White, image.Point{}, draw.Src)
		d.Dot = fixed.P(0, ascent)
		d.DrawString(string(rune(' ' + i)))
		f.Blit(bitmap.Convert(cell), i*cellW, 0)
	}
	return f, nil
}

// DefaultFont returns a strip of 8x16 cells rendered from basicfont's 7x13
// face.
func DefaultFont() *bitmap.Frame {
	f, err := NewFont(basicfont.Face7x13, 8, 16)
	if err != nil {
		panic(err)
	}
	return f
}

// DrawFont draws text with a font strip built by NewFont.
func (r *Renderer) DrawFont(f *bitmap.Frame, x, y int, text string) error {
	if f == nil {
		return r.Print(nil, 0, 0, x, y, text)
	}
	return r.Print(f.Pix, f.W, f.H, x, y, text)
}
