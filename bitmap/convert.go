// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bitmap

import (
	"image"
	"image/color"

	"github.com/makeworld-the-better-one/dither/v2"
	"golang.org/x/image/draw"
)

// FromImage scales img to width x height, dithers it to black and white and
// packs the result into a new Frame.
//
// Transparent areas of img are rendered white. height must be a multiple of
// 8.
func FromImage(img image.Image, width, height int) (*Frame, error) {
	f, err := NewFrame(width, height)
	if err != nil {
		return nil, err
	}
	if width == 0 || height == 0 || img.Bounds().Empty() {
		return f, nil
	}
	r := image.Rect(0, 0, width, height)
	scaled := image.NewRGBA(r)
	draw.Draw(scaled, r, image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(scaled, r, img, img.Bounds(), draw.Over, nil)

	d := dither.NewDitherer([]color.Color{color.Black, color.White})
	d.Matrix = dither.FloydSteinberg
	d.Serpentine = true
	p := d.DitherPaletted(scaled)
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			// Palette index 0 is black.
			if p.ColorIndexAt(x, y) == 0 {
				f.SetPixel(x, y, true)
			}
		}
	}
	return f, nil
}

// Convert packs img into a new Frame of the same size using BitModel
// thresholding, without scaling or dithering. The frame height is rounded up
// to a multiple of 8; the extra rows are white.
func Convert(img image.Image) *Frame {
	b := img.Bounds()
	h := (b.Dy() + 7) &^ 7
	f := &Frame{Pix: make([]byte, Len(b.Dx(), h)), W: b.Dx(), H: h}
	f.Fill(false)
	for x := 0; x < b.Dx(); x++ {
		for y := 0; y < b.Dy(); y++ {
			if BitModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(Bit) {
				f.SetPixel(x, y, true)
			}
		}
	}
	return f
}
