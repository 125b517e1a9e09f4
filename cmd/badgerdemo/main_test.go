// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/GermanBionicSystems/epaper/assets"
	"github.com/GermanBionicSystems/epaper/bmp"
	"github.com/GermanBionicSystems/epaper/preview"
	"github.com/GermanBionicSystems/epaper/render"
	"github.com/google/go-cmp/cmp"
)

func TestProvision(t *testing.T) {
	dir := t.TempDir()
	extra := []byte("not a bitmap")
	if err := os.WriteFile(filepath.Join(dir, "extra.txt"), extra, 0o644); err != nil {
		t.Fatal(err)
	}
	store, err := provision(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	b, err := assets.Load(store, "/extra.txt")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(extra, b); diff != "" {
		t.Fatalf("stored file mismatch (-want +got):\n%s", diff)
	}

	b, err = assets.Load(store, fontAsset)
	if err != nil {
		t.Fatal(err)
	}
	img, err := bmp.Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	_, w, h, err := img.Oriented(bmp.SwapAxes)
	if err != nil {
		t.Fatal(err)
	}
	if w != render.Glyphs*fontCellW || h != fontCellH {
		t.Fatalf("font strip is %dx%d", w, h)
	}
	for _, name := range []string{iconOff, iconAuto, iconOn} {
		if _, err := assets.Load(store, name); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestProvisionMissingDir(t *testing.T) {
	if _, err := provision(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("missing directory accepted")
	}
}

func newPreview(t *testing.T) (*preview.Server, *render.Renderer, *status) {
	store, err := provision("")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	l := log.New(io.Discard, "", 0)
	p, err := preview.NewServer(&preview.ServerOpts{Width: 296, Height: 128, Logger: l})
	if err != nil {
		t.Fatal(err)
	}
	r := render.New(p.DrawRegion, &render.Opts{Assets: store, Logger: l})
	s := &status{
		Name:   "Badger",
		Addr:   "192.168.4.1",
		Mode:   "off",
		Temp:   21.5,
		Now:    time.Date(2024, 1, 1, 12, 34, 0, 0, time.UTC),
		Width:  296,
		Height: 128,
	}
	return p, r, s
}

// painted counts the black pixels of the published image inside r.
func painted(t *testing.T, p *preview.Server, r image.Rectangle) int {
	t.Helper()
	data, _ := p.Image()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if v, _, _, _ := img.At(x, y).RGBA(); v == 0 {
				n++
			}
		}
	}
	return n
}

func TestSetupScreen(t *testing.T) {
	p, r, s := newPreview(t)
	if err := drawSetup(p, r, s); err != nil {
		t.Fatal(err)
	}
	data := []struct {
		name string
		r    image.Rectangle
	}{
		{"title", image.Rect(0, 0, 6*fontCellW, fontCellH)},
		{"qr", image.Rect(0, 32, 56, 88)},
		{"setup", image.Rect(96, 32, 96+5*fontCellW, 32+fontCellH)},
	}
	for _, line := range data {
		if painted(t, p, line.r) == 0 {
			t.Errorf("%s: nothing drawn in %v", line.name, line.r)
		}
	}
	if n := painted(t, p, image.Rect(200, 64, 296, 128)); n != 0 {
		t.Errorf("%d pixels drawn outside of the screen items", n)
	}
}

func TestStatusScreen(t *testing.T) {
	p, r, s := newPreview(t)
	if err := drawStatus(p, r, s); err != nil {
		t.Fatal(err)
	}
	data := []struct {
		name string
		r    image.Rectangle
	}{
		{"url", image.Rect(0, 112, 18*8, 128)},
		{"time", image.Rect(96, 64, 96+5*fontCellW, 64+fontCellH)},
		{"temperature", image.Rect(96, 32, 96+5*fontCellW, 32+fontCellH)},
		{"icon", image.Rect(296-iconSize, 48, 296, 48+iconSize)},
	}
	for _, line := range data {
		if painted(t, p, line.r) == 0 {
			t.Errorf("%s: nothing drawn in %v", line.name, line.r)
		}
	}

	s.Mode = "bogus"
	if err := drawStatus(p, r, s); err == nil {
		t.Fatal("unknown mode accepted")
	}
}

func TestFit(t *testing.T) {
	s := &status{Width: 296}
	if got := s.fit(0, "abcdefghijklmnopqrstuvwxyz"); got != "abcdefghijklmnopqr" {
		t.Fatalf("fit() = %q", got)
	}
	if got := s.fit(96, "Setup"); got != "Setup" {
		t.Fatalf("fit() = %q", got)
	}
	if got := s.fit(400, "x"); got != "" {
		t.Fatalf("fit() = %q", got)
	}
}

func TestScreenFunc(t *testing.T) {
	for _, name := range []string{"setup", "status"} {
		if _, err := screenFunc(name); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	if _, err := screenFunc("menu"); err == nil {
		t.Fatal("unknown screen accepted")
	}
}
