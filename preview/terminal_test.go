// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/GermanBionicSystems/epaper/bitmap"
	"github.com/maruel/ansi256"
)

func TestTerminal(t *testing.T) {
	var buf bytes.Buffer
	term, err := NewTerminal(&buf, &TerminalOpts{Width: 4, Height: 8})
	if err != nil {
		t.Fatal(err)
	}
	if s := term.String(); s != "preview.Terminal{4x8}" {
		t.Fatal(s)
	}
	// Column 1 fully black, column 2 only its top pixel.
	if err := term.DrawRegion([]byte{0x00, 0x7F}, 2, 8, 1, 0); err != nil {
		t.Fatal(err)
	}
	if err := term.Refresh(); err != nil {
		t.Fatal(err)
	}
	w, b := ansi256.Default.Block(paper), ansi256.Default.Block(ink)
	var want strings.Builder
	for y := 0; y < 8; y++ {
		want.WriteString("\r\033[0m" + w + b)
		if y == 0 {
			want.WriteString(b)
		} else {
			want.WriteString(w)
		}
		want.WriteString(w + "\033[0m\n")
	}
	if got := buf.String(); got != want.String() {
		t.Fatalf("Refresh() wrote %q, want %q", got, want.String())
	}

	buf.Reset()
	if err := term.Clear(); err != nil {
		t.Fatal(err)
	}
	if err := term.Halt(); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "\033[0m\n" {
		t.Fatalf("Halt() wrote %q", got)
	}
	if term.frame.Painted(1, 0) {
		t.Fatal("Clear() left pixels")
	}
}

func TestTerminalStep(t *testing.T) {
	var buf bytes.Buffer
	term, err := NewTerminal(&buf, &TerminalOpts{Width: 16, Height: 16, Step: 4})
	if err != nil {
		t.Fatal(err)
	}
	if err := term.Refresh(); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), "\n"); n != 4 {
		t.Fatalf("got %d rows, want 4", n)
	}
	if n := strings.Count(buf.String(), ansi256.Default.Block(paper)); n < 16 {
		t.Fatalf("got %d blocks, want at least 16", n)
	}
}

func TestTerminalErrors(t *testing.T) {
	if _, err := NewTerminal(nil, &TerminalOpts{Width: 8, Height: 12}); err == nil {
		t.Fatal("height not a multiple of 8 accepted")
	}
	term, err := NewTerminal(&bytes.Buffer{}, &TerminalOpts{Width: 8, Height: 8})
	if err != nil {
		t.Fatal(err)
	}
	data := []struct {
		name string
		pix  []byte
		w, h int
		x, y int
		want error
	}{
		{"nil", nil, 8, 8, 0, 0, bitmap.ErrInvalidBuffer},
		{"outside", make([]byte, 8), 8, 8, 1, 0, ErrRegion},
		{"empty", make([]byte, 8), 0, 8, 0, 0, ErrRegion},
		{"short", make([]byte, 4), 8, 8, 0, 0, ErrRegion},
	}
	for _, line := range data {
		t.Run(line.name, func(t *testing.T) {
			if err := term.DrawRegion(line.pix, line.w, line.h, line.x, line.y); !errors.Is(err, line.want) {
				t.Fatalf("got %v, want %v", err, line.want)
			}
		})
	}
}

func TestTerminalNilOpts(t *testing.T) {
	term, err := NewTerminal(&bytes.Buffer{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if s := term.String(); s != "preview.Terminal{296x128}" {
		t.Fatal(s)
	}
}
