// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package qrcode encodes text into QR code module grids.
//
// It picks the smallest version in a configurable range, can raise the error
// correction level while the data still fits and selects the mask with the
// lowest penalty score.
package qrcode

import (
	"errors"
	"fmt"

	"rsc.io/qr/coding"
)

// AutoMask selects the mask with the lowest penalty.
const AutoMask coding.Mask = -1

var (
	// ErrTooLong is returned when the text does not fit the largest allowed
	// version.
	ErrTooLong = errors.New("qrcode: text too long")
	// ErrOptions is returned for an invalid version range, level or mask.
	ErrOptions = errors.New("qrcode: invalid options")
)

// Options controls the encoding.
type Options struct {
	// Level is the minimum error correction level.
	Level coding.Level
	// MinVersion and MaxVersion bound the symbol size; version v has
	// 17+4*v modules per side.
	MinVersion, MaxVersion coding.Version
	// Mask is a mask pattern in [0, 7] or AutoMask.
	Mask coding.Mask
	// Boost raises the error correction level as long as the text still fits
	// the selected version.
	Boost bool
}

// DefaultOptions is medium error correction, versions 1 to 11, automatic
// mask and boosted error correction. Version 11 is the largest symbol whose
// 2x scaled rendering fits a 128 pixel tall panel.
var DefaultOptions = Options{
	Level:      coding.M,
	MinVersion: coding.MinVersion,
	MaxVersion: 11,
	Mask:       AutoMask,
	Boost:      true,
}

// Grid is an encoded QR code.
type Grid struct {
	Version coding.Version
	Level   coding.Level
	Mask    coding.Mask
	code    *coding.Code
}

// Size returns the number of modules on a side.
func (g *Grid) Size() int {
	return g.code.Size
}

// Module reports whether the module at (x, y) is dark. Out of range modules
// are light.
func (g *Grid) Module(x, y int) bool {
	return g.code.Black(x, y)
}

func (g *Grid) String() string {
	return fmt.Sprintf("QR %s-%s mask %d (%dx%d)", g.Version, g.Level, g.Mask, g.Size(), g.Size())
}

// Encode encodes text. A nil opts selects DefaultOptions.
func Encode(text string, opts *Options) (*Grid, error) {
	if opts == nil {
		opts = &DefaultOptions
	}
	if opts.MinVersion < coding.MinVersion || opts.MaxVersion > coding.MaxVersion || opts.MinVersion > opts.MaxVersion {
		return nil, fmt.Errorf("%w: versions %d to %d", ErrOptions, opts.MinVersion, opts.MaxVersion)
	}
	if opts.Level < coding.L || opts.Level > coding.H {
		return nil, fmt.Errorf("%w: level %s", ErrOptions, opts.Level)
	}
	if opts.Mask < AutoMask || opts.Mask > 7 {
		return nil, fmt.Errorf("%w: mask %d", ErrOptions, opts.Mask)
	}
	enc := encoding(text)
	if err := enc.Check(); err != nil {
		return nil, fmt.Errorf("qrcode: %w", err)
	}

	v := opts.MinVersion
	for ; ; v++ {
		if v > opts.MaxVersion {
			return nil, fmt.Errorf("%w: %d bytes above version %d-%s", ErrTooLong, len(text), opts.MaxVersion, opts.Level)
		}
		if fits(enc, v, opts.Level) {
			break
		}
	}
	l := opts.Level
	if opts.Boost {
		for l < coding.H && fits(enc, v, l+1) {
			l++
		}
	}

	if opts.Mask != AutoMask {
		c, err := encode(enc, v, l, opts.Mask)
		if err != nil {
			return nil, err
		}
		return &Grid{Version: v, Level: l, Mask: opts.Mask, code: c}, nil
	}
	var best *Grid
	bestScore := 0
	for m := coding.Mask(0); m < 8; m++ {
		c, err := encode(enc, v, l, m)
		if err != nil {
			return nil, err
		}
		g := &Grid{Version: v, Level: l, Mask: m, code: c}
		if s := Penalty(g); best == nil || s < bestScore {
			best, bestScore = g, s
		}
	}
	return best, nil
}

// encoding returns the most compact single mode encoding of text.
func encoding(text string) coding.Encoding {
	switch {
	case coding.Num(text).Check() == nil:
		return coding.Num(text)
	case coding.Alpha(text).Check() == nil:
		return coding.Alpha(text)
	default:
		return coding.String(text)
	}
}

func fits(enc coding.Encoding, v coding.Version, l coding.Level) bool {
	return enc.Bits(v) <= v.DataBytes(l)*8
}

func encode(enc coding.Encoding, v coding.Version, l coding.Level, m coding.Mask) (*coding.Code, error) {
	p, err := coding.NewPlan(v, l, m)
	if err != nil {
		return nil, fmt.Errorf("qrcode: %w", err)
	}
	c, err := p.Encode(enc)
	if err != nil {
		return nil, fmt.Errorf("qrcode: %w", err)
	}
	return c, nil
}
