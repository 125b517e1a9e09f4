// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package uc8151

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/GermanBionicSystems/epaper/bitmap"
	"periph.io/x/conn/v3/display"
	"tinygo.org/x/drivers"
)

// ColorModel returns a 1 bit color model.
func (d *Dev) ColorModel() color.Model {
	return bitmap.BitModel
}

// Bounds returns the bounds of the panel.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.opts.Width, d.opts.Height)
}

// Draw draws src on the panel and refreshes it. Only the rows of dstRect,
// rounded out to multiples of 8, are sent.
func (d *Dev) Draw(dstRect image.Rectangle, src image.Image, sp image.Point) error {
	if err := d.ready(); err != nil {
		return err
	}
	r := dstRect.Intersect(d.Bounds())
	if r.Empty() {
		return nil
	}
	draw.Src.Draw(d.frame, r, src, sp.Add(r.Min.Sub(dstRect.Min)))
	a := image.Rect(r.Min.X, r.Min.Y&^7, r.Max.X, (r.Max.Y+7)&^7)
	region := crop(d.frame, a)
	if err := d.DrawRegion(region.Pix, region.W, region.H, a.Min.X, a.Min.Y); err != nil {
		return err
	}
	return d.Refresh()
}

// Halt puts an active panel to sleep.
func (d *Dev) Halt() error {
	if d.state != Active {
		return nil
	}
	return d.Sleep()
}

// Frame returns the driver's copy of the panel memory. Changes made to it
// are sent by Display.
func (d *Dev) Frame() *bitmap.Frame {
	return d.frame
}

// Size returns the panel size.
func (d *Dev) Size() (int16, int16) {
	return int16(d.opts.Width), int16(d.opts.Height)
}

// SetPixel sets a pixel of the driver's copy of the panel memory. Call
// Display to show it.
func (d *Dev) SetPixel(x, y int16, c color.RGBA) {
	d.frame.Set(int(x), int(y), c)
}

// Display sends the driver's copy of the panel memory and refreshes.
func (d *Dev) Display() error {
	if err := d.Update(d.frame.Pix); err != nil {
		return err
	}
	return d.Refresh()
}

// crop returns a copy of the r area of f. r.Min.Y and r.Dy() are multiples
// of 8.
func crop(f *bitmap.Frame, r image.Rectangle) *bitmap.Frame {
	out := &bitmap.Frame{Pix: make([]byte, bitmap.Len(r.Dx(), r.Dy())), W: r.Dx(), H: r.Dy()}
	col, outCol := f.H/8, r.Dy()/8
	for x := 0; x < r.Dx(); x++ {
		i := (r.Min.X+x)*col + r.Min.Y/8
		copy(out.Pix[x*outCol:(x+1)*outCol], f.Pix[i:i+outCol])
	}
	return out
}

var (
	_ display.Drawer    = &Dev{}
	_ drivers.Displayer = &Dev{}
)
