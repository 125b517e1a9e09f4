// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
)

// TerminalOpts for Terminal.
type TerminalOpts struct {
	// Width and Height of the virtual panel. Height must be a multiple of 8.
	// Both zero selects DefaultWidth x DefaultHeight.
	Width, Height int
	// Step prints every Step-th pixel in both directions. 0 is the same as 1.
	Step int
	// Palette used for the blocks; defaults to ansi256.Default.
	Palette *ansi256.Palette
}

// Terminal is a virtual panel printing its frame to a terminal.
type Terminal struct {
	canvas
	w       io.Writer
	step    int
	palette *ansi256.Palette
	buf     bytes.Buffer
}

var (
	ink   = color.NRGBA{0, 0, 0, 255}
	paper = color.NRGBA{255, 255, 255, 255}
)

// NewTerminal returns a Terminal printing to w, or to the colorable standard
// output if w is nil. opts may be nil.
func NewTerminal(w io.Writer, opts *TerminalOpts) (*Terminal, error) {
	if opts == nil {
		opts = &TerminalOpts{}
	}
	t := &Terminal{w: w, step: opts.Step, palette: opts.Palette}
	if err := t.init(opts.Width, opts.Height); err != nil {
		return nil, err
	}
	if t.w == nil {
		t.w = colorable.NewColorableStdout()
	}
	if t.step <= 0 {
		t.step = 1
	}
	if t.palette == nil {
		t.palette = ansi256.Default
	}
	return t, nil
}

func (t *Terminal) String() string {
	return fmt.Sprintf("preview.Terminal{%dx%d}", t.frame.W, t.frame.H)
}

// DrawRegion stores packed pixels at (x, y). It has the signature of
// render.BlitFunc.
func (t *Terminal) DrawRegion(pix []byte, width, height, x, y int) error {
	return t.drawRegion(pix, width, height, x, y)
}

// Clear whitens the frame.
func (t *Terminal) Clear() error {
	t.clear()
	return nil
}

// Refresh prints the frame.
func (t *Terminal) Refresh() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf.Reset()
	for y := 0; y < t.frame.H; y += t.step {
		_, _ = t.buf.WriteString("\r\033[0m")
		for x := 0; x < t.frame.W; x += t.step {
			c := paper
			if t.frame.Painted(x, y) {
				c = ink
			}
			_, _ = io.WriteString(&t.buf, t.palette.Block(c))
		}
		_, _ = t.buf.WriteString("\033[0m\n")
	}
	_, err := t.buf.WriteTo(t.w)
	return err
}

// Halt resets the terminal colors.
func (t *Terminal) Halt() error {
	_, err := io.WriteString(t.w, "\033[0m\n")
	return err
}
