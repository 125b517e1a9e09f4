// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package render

import (
	"fmt"

	"github.com/GermanBionicSystems/epaper/assets"
	"github.com/GermanBionicSystems/epaper/bitmap"
	"github.com/GermanBionicSystems/epaper/bmp"
)

// LoadAsset decodes the named bitmap file from the asset store.
//
// The returned frame aliases the store's memory whenever the file layout
// allows it and must be treated as read-only.
func (r *Renderer) LoadAsset(name string) (*bitmap.Frame, error) {
	f, err := r.loadAsset(name)
	if err != nil {
		r.logf("load asset: %v", err)
		return nil, err
	}
	return f, nil
}

func (r *Renderer) loadAsset(name string) (*bitmap.Frame, error) {
	if r == nil || r.opts.Assets == nil {
		return nil, fmt.Errorf("%w: %s: no asset store", ErrInvalidAsset, name)
	}
	data, err := assets.Load(r.opts.Assets, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAsset, err)
	}
	img, err := bmp.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidAsset, name, err)
	}
	pix, w, h, err := img.Oriented(r.opts.Orientation)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidAsset, name, err)
	}
	f, err := bitmap.Wrap(pix, w, h)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidAsset, name, err)
	}
	return f, nil
}

// DrawAsset draws the named bitmap file with its top-left corner at (x, y).
func (r *Renderer) DrawAsset(name string, x, y int) error {
	if err := r.drawAsset(name, x, y); err != nil {
		r.logf("draw asset: %v", err)
		return err
	}
	return nil
}

func (r *Renderer) drawAsset(name string, x, y int) error {
	if r == nil || r.blit == nil {
		return ErrNotInitialized
	}
	f, err := r.loadAsset(name)
	if err != nil {
		return err
	}
	return r.blit(f.Pix, f.W, f.H, x, y)
}

// PrintAsset draws text using the named bitmap file as the font strip.
func (r *Renderer) PrintAsset(name string, x, y int, text string) error {
	if err := r.printAsset(name, x, y, text); err != nil {
		r.logf("print asset: %v", err)
		return err
	}
	return nil
}

func (r *Renderer) printAsset(name string, x, y int, text string) error {
	f, err := r.loadAsset(name)
	if err != nil {
		return err
	}
	return r.drawString(f.Pix, f.W/Glyphs, f.H, x, y, r.truncate(text))
}

// PrintAssetf is PrintAsset with fmt.Sprintf formatting.
func (r *Renderer) PrintAssetf(name string, x, y int, format string, args ...interface{}) error {
	return r.PrintAsset(name, x, y, fmt.Sprintf(format, args...))
}
