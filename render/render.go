// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package render

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/GermanBionicSystems/epaper/assets"
	"github.com/GermanBionicSystems/epaper/bitmap"
	"github.com/GermanBionicSystems/epaper/bmp"
	"github.com/GermanBionicSystems/epaper/qrcode"
)

// BlitFunc writes width x height packed pixels with their top-left corner at
// (x, y). pix must not be retained after the call returns.
type BlitFunc func(pix []byte, width, height, x, y int) error

// Glyphs is the number of cells in a font strip.
const Glyphs = 95

// DefaultTextLimit is the default size of the text buffer, terminator
// included: at most DefaultTextLimit-1 bytes are rendered.
const DefaultTextLimit = 80

var (
	// ErrInvalidBuffer is returned when no font or pixel data is supplied.
	ErrInvalidBuffer = bitmap.ErrInvalidBuffer
	// ErrNotInitialized is returned when the Renderer has no BlitFunc.
	ErrNotInitialized = errors.New("render: not initialized")
	// ErrInvalidAsset is returned when an asset is missing or malformed.
	ErrInvalidAsset = errors.New("render: invalid asset")
	// ErrEncode is returned when a QR code cannot be encoded.
	ErrEncode = errors.New("render: QR code encoding failed")
	// ErrCapacity is returned when a QR code does not fit the scratch buffer.
	ErrCapacity = errors.New("render: QR code exceeds capacity")
	// ErrGlyph is returned for a character outside of the font.
	ErrGlyph = errors.New("render: no glyph")
)

// Opts configures a Renderer.
type Opts struct {
	// Assets holds the bitmap files used by DrawAsset and PrintAsset.
	Assets assets.Store
	// QR configures QR code encoding; nil selects qrcode.DefaultOptions.
	QR *qrcode.Options
	// TextLimit is the text buffer size, terminator included; 0 selects
	// DefaultTextLimit.
	TextLimit int
	// Orientation maps asset files to the panel; the zero value is
	// bmp.SwapAxes.
	Orientation bmp.Orientation
	// Logger receives diagnostics; nil selects log.Default().
	Logger *log.Logger
}

// Renderer draws through a BlitFunc.
type Renderer struct {
	blit BlitFunc
	opts Opts
}

// New returns a Renderer drawing through blit. opts may be nil.
func New(blit BlitFunc, opts *Opts) *Renderer {
	r := &Renderer{blit: blit}
	if opts != nil {
		r.opts = *opts
	}
	if r.opts.TextLimit <= 0 {
		r.opts.TextLimit = DefaultTextLimit
	}
	if r.opts.Logger == nil {
		r.opts.Logger = log.Default()
	}
	return r
}

func (r *Renderer) String() string {
	return fmt.Sprintf("Renderer{limit: %d, orientation: %s}", r.opts.TextLimit, r.opts.Orientation)
}

// DrawString draws text with a font strip whose cells are charW x charH
// pixels. Character i is drawn at (x+i*charW, y).
//
// Rendering stops at the first NUL byte. The font must hold a glyph for every
// character; no glyph is drawn otherwise. An empty text draws nothing.
func (r *Renderer) DrawString(font []byte, charW, charH, x, y int, text string) error {
	if err := r.drawString(font, charW, charH, x, y, text); err != nil {
		r.logf("draw string: %v", err)
		return err
	}
	return nil
}

func (r *Renderer) drawString(font []byte, charW, charH, x, y int, text string) error {
	if font == nil {
		return ErrInvalidBuffer
	}
	if r == nil || r.blit == nil {
		return ErrNotInitialized
	}
	if i := strings.IndexByte(text, 0); i >= 0 {
		text = text[:i]
	}
	size := charW * charH / 8
	for i := 0; i < len(text); i++ {
		if c := text[i]; c < ' ' || (int(c)-' '+1)*size > len(font) {
			return fmt.Errorf("%w: %q at %d in a %d byte font", ErrGlyph, c, i, len(font))
		}
	}
	for i := 0; i < len(text); i++ {
		off := (int(text[i]) - ' ') * size
		if err := r.blit(font[off:off+size], charW, charH, x+i*charW, y); err != nil {
			return err
		}
	}
	return nil
}

// Print draws text with a font strip of width x height pixels, the cell
// width being width/Glyphs. Text longer than the text limit is truncated.
func (r *Renderer) Print(font []byte, width, height, x, y int, text string) error {
	if err := r.drawString(font, width/Glyphs, height, x, y, r.truncate(text)); err != nil {
		r.logf("print: %v", err)
		return err
	}
	return nil
}

// Printf is Print with fmt.Sprintf formatting.
func (r *Renderer) Printf(font []byte, width, height, x, y int, format string, args ...interface{}) error {
	return r.Print(font, width, height, x, y, fmt.Sprintf(format, args...))
}

// limit returns the maximum text length in bytes.
func (r *Renderer) limit() int {
	if r == nil || r.opts.TextLimit <= 0 {
		return DefaultTextLimit - 1
	}
	return r.opts.TextLimit - 1
}

func (r *Renderer) truncate(text string) string {
	if max := r.limit(); len(text) > max {
		return text[:max]
	}
	return text
}

func (r *Renderer) logf(format string, args ...interface{}) {
	if r == nil || r.opts.Logger == nil {
		log.Printf("render: "+format, args...)
		return
	}
	r.opts.Logger.Printf("render: "+format, args...)
}
