// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package render

import (
	"image"

	"github.com/GermanBionicSystems/epaper/bitmap"
)

// DrawImage scales img to width x height, dithers it and draws it with its
// top-left corner at (x, y).
func (r *Renderer) DrawImage(img image.Image, x, y, width, height int) error {
	if err := r.drawImage(img, x, y, width, height); err != nil {
		r.logf("draw image: %v", err)
		return err
	}
	return nil
}

func (r *Renderer) drawImage(img image.Image, x, y, width, height int) error {
	if img == nil {
		return ErrInvalidBuffer
	}
	if r == nil || r.blit == nil {
		return ErrNotInitialized
	}
	f, err := bitmap.FromImage(img, width, height)
	if err != nil {
		return err
	}
	return r.blit(f.Pix, f.W, f.H, x, y)
}

// DrawFrame draws f with its top-left corner at (x, y).
func (r *Renderer) DrawFrame(f *bitmap.Frame, x, y int) error {
	if f == nil || f.Pix == nil {
		r.logf("draw frame: %v", ErrInvalidBuffer)
		return ErrInvalidBuffer
	}
	if r == nil || r.blit == nil {
		r.logf("draw frame: %v", ErrNotInitialized)
		return ErrNotInitialized
	}
	return r.blit(f.Pix, f.W, f.H, x, y)
}
