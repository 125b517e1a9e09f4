// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package render

import (
	"bytes"
	"errors"
	"testing"

	"github.com/GermanBionicSystems/epaper/assets"
	"github.com/GermanBionicSystems/epaper/bitmap"
	"github.com/GermanBionicSystems/epaper/bmp"
	"github.com/google/go-cmp/cmp"
)

// asset returns f as a stored bitmap file, envelope included.
func asset(t *testing.T, name string, f *bitmap.Frame) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, f); err != nil {
		t.Fatal(err)
	}
	b, err := assets.Wrap(name, buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func testStore(t *testing.T) (assets.Map, *bitmap.Frame, *bitmap.Frame) {
	icon, err := bitmap.NewFrame(16, 16)
	if err != nil {
		t.Fatal(err)
	}
	icon.SetPixel(0, 0, true)
	icon.SetPixel(15, 15, true)
	font, err := bitmap.Wrap(testFont(), Glyphs*8, 8)
	if err != nil {
		t.Fatal(err)
	}
	bad := asset(t, "/bad.bmp", icon)
	bad[assets.EnvelopeSize] = 'X'
	return assets.Map{
		"/clock.bmp":     asset(t, "/clock.bmp", icon),
		"/monospace.bmp": asset(t, "/monospace.bmp", font),
		"/bad.bmp":       bad,
		"/short":         []byte("HTTP/1.0"),
	}, icon, font
}

func TestLoadAsset(t *testing.T) {
	store, icon, _ := testStore(t)
	r, _, _ := newTest(&Opts{Assets: store})
	f, err := r.LoadAsset("/clock.bmp")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(icon, f); diff != "" {
		t.Errorf("LoadAsset() difference (-want +got):\n%s", diff)
	}
}

func TestDrawAsset(t *testing.T) {
	store, icon, _ := testStore(t)
	r, rec, _ := newTest(&Opts{Assets: store})
	if err := r.DrawAsset("/clock.bmp", 200, 8); err != nil {
		t.Fatal(err)
	}
	want := []blitCall{{Pix: icon.Pix, W: 16, H: 16, X: 200, Y: 8}}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Errorf("DrawAsset() difference (-want +got):\n%s", diff)
	}
}

func TestPrintAsset(t *testing.T) {
	store, _, _ := testStore(t)
	r, rec, _ := newTest(&Opts{Assets: store})
	if err := r.PrintAssetf("/monospace.bmp", 0, 100, "v%d", 2); err != nil {
		t.Fatal(err)
	}
	want := []blitCall{
		{Pix: glyph('v'), W: 8, H: 8, X: 0, Y: 100},
		{Pix: glyph('2'), W: 8, H: 8, X: 8, Y: 100},
	}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Errorf("PrintAssetf() difference (-want +got):\n%s", diff)
	}
}

func TestAssetErrors(t *testing.T) {
	store, _, _ := testStore(t)
	for _, tc := range []struct {
		name  string
		opts  *Opts
		asset string
		want  []error
	}{
		{"no store", &Opts{}, "/clock.bmp", []error{ErrInvalidAsset}},
		{"missing", &Opts{Assets: store}, "/radio_on.bmp", []error{ErrInvalidAsset, assets.ErrNotExist}},
		{"magic", &Opts{Assets: store}, "/bad.bmp", []error{ErrInvalidAsset, bmp.ErrInvalidAsset, bmp.ErrMagic}},
		{"envelope", &Opts{Assets: store}, "/short", []error{ErrInvalidAsset, assets.ErrEnvelope}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r, rec, logs := newTest(tc.opts)
			f, err := r.LoadAsset(tc.asset)
			if f != nil {
				t.Error("LoadAsset() returned a frame on failure")
			}
			for _, want := range tc.want {
				if !errors.Is(err, want) {
					t.Errorf("LoadAsset() = %v, want %v", err, want)
				}
			}
			if err := r.DrawAsset(tc.asset, 0, 0); !errors.Is(err, ErrInvalidAsset) {
				t.Errorf("DrawAsset() = %v", err)
			}
			if err := r.PrintAsset(tc.asset, 0, 0, "x"); !errors.Is(err, ErrInvalidAsset) {
				t.Errorf("PrintAsset() = %v", err)
			}
			if len(rec.calls) != 0 {
				t.Errorf("%d blits on failure", len(rec.calls))
			}
			if logs.Len() == 0 {
				t.Error("no diagnostic logged")
			}
		})
	}
}

func TestDrawAssetNoBlit(t *testing.T) {
	store, _, _ := testStore(t)
	r := New(nil, &Opts{Assets: store})
	if err := r.DrawAsset("/clock.bmp", 0, 0); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("DrawAsset() = %v, want %v", err, ErrNotInitialized)
	}
}
