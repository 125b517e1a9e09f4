// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/GermanBionicSystems/epaper/bitmap"
)

// Default size of a preview, the one of the Badger 2040 panel.
const (
	DefaultWidth  = 296
	DefaultHeight = 128
)

// ErrRegion is returned for a region that does not fit the preview.
var ErrRegion = errors.New("preview: invalid region")

// canvas is the framebuffer shared by the previews.
type canvas struct {
	mu    sync.Mutex
	frame *bitmap.Frame
}

// init allocates a white frame; a zero size selects the default one.
func (c *canvas) init(width, height int) error {
	if width == 0 && height == 0 {
		width, height = DefaultWidth, DefaultHeight
	}
	f, err := bitmap.NewFrame(width, height)
	if err != nil {
		return err
	}
	c.frame = f
	return nil
}

// drawRegion blits packed pixels with the panel's row alignment.
func (c *canvas) drawRegion(pix []byte, width, height, x, y int) error {
	if pix == nil {
		return bitmap.ErrInvalidBuffer
	}
	if width <= 0 || height <= 0 || x < 0 || y < 0 || x+width > c.frame.W || y+height > c.frame.H {
		return fmt.Errorf("%w: %dx%d at (%d, %d) on %dx%d", ErrRegion, width, height, x, y, c.frame.W, c.frame.H)
	}
	src, err := bitmap.Wrap(pix, width, height)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRegion, err)
	}
	c.mu.Lock()
	c.frame.Blit(src, x, y&^7)
	c.mu.Unlock()
	return nil
}

func (c *canvas) clear() {
	c.mu.Lock()
	c.frame.Fill(false)
	c.mu.Unlock()
}

// snapshot returns a copy of the frame as an 8 bit gray image.
func (c *canvas) snapshot() *image.Gray {
	c.mu.Lock()
	defer c.mu.Unlock()
	img := image.NewGray(c.frame.Bounds())
	for x := 0; x < c.frame.W; x++ {
		for y := 0; y < c.frame.H; y++ {
			if !c.frame.Painted(x, y) {
				img.Pix[y*img.Stride+x] = 0xFF
			}
		}
	}
	return img
}
