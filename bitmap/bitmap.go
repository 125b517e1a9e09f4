// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bitmap

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// ErrInvalidBuffer is returned when no backing buffer was supplied.
var ErrInvalidBuffer = errors.New("bitmap: invalid buffer")

// Blank is the byte value of eight unpainted pixels.
const Blank byte = 0xFF

// Len returns the number of bytes needed to hold a width x height bitmap.
func Len(width, height int) int {
	return (width*height + 7) / 8
}

// offset returns the byte index and bit mask of pixel (x, y) in a bitmap of
// the given height.
func offset(height, x, y int) (int, byte) {
	return x*(height/8) + y/8, 0x80 >> uint(y&7)
}

// SetPixel paints (paint == true) or clears the pixel at (x, y) of buf.
//
// Painting clears the bit and clearing sets it, since the panel stores white
// as 1. No bounds checking is done beyond buf being non-nil: the caller
// guarantees x < width and y < height.
func SetPixel(buf []byte, width, height, x, y int, paint bool) error {
	if buf == nil {
		return ErrInvalidBuffer
	}
	i, m := offset(height, x, y)
	if paint {
		buf[i] &^= m
	} else {
		buf[i] |= m
	}
	return nil
}

// Painted reports whether the pixel at (x, y) of buf is black.
func Painted(buf []byte, height, x, y int) bool {
	i, m := offset(height, x, y)
	return buf[i]&m == 0
}

// Bit is a monochrome color. Black is true.
type Bit bool

const (
	// Black is a painted pixel.
	Black Bit = true
	// White is an unpainted pixel.
	White Bit = false
)

// RGBA implements color.Color.
func (b Bit) RGBA() (uint32, uint32, uint32, uint32) {
	if b {
		return 0, 0, 0, 0xFFFF
	}
	return 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF
}

func (b Bit) String() string {
	if b {
		return "Black"
	}
	return "White"
}

// BitModel converts colors to Bit: anything darker than mid-gray is Black.
var BitModel = color.ModelFunc(convert)

func convert(c color.Color) color.Color {
	if b, ok := c.(Bit); ok {
		return b
	}
	r, g, b, _ := c.RGBA()
	y := (299*r + 587*g + 114*b + 500) / 1000
	return Bit(y < 0x8000)
}

// Frame is a column-major bitmap implementing draw.Image.
type Frame struct {
	// Pix is the packed pixel data, Len(W, H) bytes.
	Pix []byte
	// W and H are the dimensions in pixels; H is a multiple of 8.
	W, H int
}

// NewFrame returns a white frame. It returns an error if the height is not a
// multiple of 8 or a dimension is negative.
func NewFrame(width, height int) (*Frame, error) {
	if width < 0 || height < 0 || height%8 != 0 {
		return nil, fmt.Errorf("bitmap: invalid frame size %dx%d", width, height)
	}
	f := &Frame{Pix: make([]byte, Len(width, height)), W: width, H: height}
	f.Fill(false)
	return f, nil
}

// Wrap returns a Frame using pix as storage without copying it.
func Wrap(pix []byte, width, height int) (*Frame, error) {
	if pix == nil {
		return nil, ErrInvalidBuffer
	}
	if height%8 != 0 || len(pix) < Len(width, height) {
		return nil, fmt.Errorf("bitmap: %d bytes cannot hold %dx%d", len(pix), width, height)
	}
	return &Frame{Pix: pix[:Len(width, height)], W: width, H: height}, nil
}

// Fill paints or clears every pixel.
func (f *Frame) Fill(paint bool) {
	v := Blank
	if paint {
		v = 0
	}
	for i := range f.Pix {
		f.Pix[i] = v
	}
}

// SetPixel paints or clears the pixel at (x, y). Out of range coordinates are
// ignored.
func (f *Frame) SetPixel(x, y int, paint bool) {
	if x < 0 || y < 0 || x >= f.W || y >= f.H {
		return
	}
	_ = SetPixel(f.Pix, f.W, f.H, x, y, paint)
}

// Painted reports whether the pixel at (x, y) is black.
func (f *Frame) Painted(x, y int) bool {
	if x < 0 || y < 0 || x >= f.W || y >= f.H {
		return false
	}
	return Painted(f.Pix, f.H, x, y)
}

// ColorModel implements image.Image.
func (f *Frame) ColorModel() color.Model {
	return BitModel
}

// Bounds implements image.Image.
func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.W, f.H)
}

// At implements image.Image.
func (f *Frame) At(x, y int) color.Color {
	return Bit(f.Painted(x, y))
}

// Set implements draw.Image.
func (f *Frame) Set(x, y int, c color.Color) {
	f.SetPixel(x, y, bool(BitModel.Convert(c).(Bit)))
}

// Blit copies src into f with its top-left corner at (x, y). Pixels falling
// outside f are dropped.
func (f *Frame) Blit(src *Frame, x, y int) {
	for sx := 0; sx < src.W; sx++ {
		for sy := 0; sy < src.H; sy++ {
			f.SetPixel(x+sx, y+sy, src.Painted(sx, sy))
		}
	}
}

var _ draw.Image = &Frame{}
