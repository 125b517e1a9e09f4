// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/GermanBionicSystems/epaper/assets"
	"github.com/GermanBionicSystems/epaper/bitmap"
	"github.com/GermanBionicSystems/epaper/bmp"
	"github.com/GermanBionicSystems/epaper/render"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/gomono"
	"tinygo.org/x/tinyfs"
)

// Asset names used by the screens.
const (
	fontAsset  = "/monospace.bmp"
	iconOff    = "/no_sign.bmp"
	iconAuto   = "/clock.bmp"
	iconOn     = "/sun.bmp"
	fontCellW  = 16
	fontCellH  = 32
	iconSize   = 32
	flashPage  = 256
	flashBlock = 4096
	flashCount = 64
)

// provision formats an in-memory flash device, stores the generated assets
// on it and then every regular file of dir, if set, under "/<file name>".
func provision(dir string) (*assets.LittleFS, error) {
	files, err := generate()
	if err != nil {
		return nil, err
	}
	if dir != "" {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.Type().IsRegular() {
				continue
			}
			b, err := os.ReadFile(filepath.Join(dir, e.Name()))
			if err != nil {
				return nil, err
			}
			files["/"+e.Name()] = b
		}
	}
	lfs, err := assets.NewLittleFS(tinyfs.NewMemoryDevice(flashPage, flashBlock, flashCount), true)
	if err != nil {
		return nil, err
	}
	for name, data := range files {
		b, err := assets.Wrap(name, data)
		if err == nil {
			err = lfs.Put(name, b)
		}
		if err != nil {
			_ = lfs.Close()
			return nil, fmt.Errorf("storing %s: %w", name, err)
		}
	}
	return lfs, nil
}

// generate returns the built-in assets as bitmap files.
func generate() (map[string][]byte, error) {
	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, err
	}
	font, err := render.NewFont(truetype.NewFace(ttf, &truetype.Options{Size: 22}), fontCellW, fontCellH)
	if err != nil {
		return nil, err
	}
	frames := map[string]*bitmap.Frame{fontAsset: font}
	for name, draw := range map[string]func(*gg.Context){
		iconOff:  drawNoSign,
		iconAuto: drawClock,
		iconOn:   drawSun,
	} {
		dc := gg.NewContext(iconSize, iconSize)
		dc.SetRGB(1, 1, 1)
		dc.Clear()
		dc.SetRGB(0, 0, 0)
		dc.SetLineWidth(3)
		draw(dc)
		if frames[name], err = icon(dc.Image()); err != nil {
			return nil, err
		}
	}
	out := make(map[string][]byte, len(frames))
	for name, f := range frames {
		var buf bytes.Buffer
		if err := bmp.Encode(&buf, f); err != nil {
			return nil, fmt.Errorf("encoding %s: %w", name, err)
		}
		out[name] = buf.Bytes()
	}
	return out, nil
}

func icon(img image.Image) (*bitmap.Frame, error) {
	return bitmap.FromImage(img, iconSize, iconSize)
}

func drawNoSign(dc *gg.Context) {
	const c, r = iconSize / 2, iconSize/2 - 3
	dc.DrawCircle(c, c, r)
	dc.Stroke()
	dc.DrawLine(c-r*0.7, c-r*0.7, c+r*0.7, c+r*0.7)
	dc.Stroke()
}

func drawClock(dc *gg.Context) {
	const c, r = iconSize / 2, iconSize/2 - 3
	dc.DrawCircle(c, c, r)
	dc.Stroke()
	dc.DrawLine(c, c, c, c-r*0.7)
	dc.DrawLine(c, c, c+r*0.5, c)
	dc.Stroke()
}

func drawSun(dc *gg.Context) {
	const c = iconSize / 2
	dc.DrawCircle(c, c, 7)
	dc.Fill()
	for i := 0; i < 8; i++ {
		dc.Push()
		dc.RotateAbout(gg.Radians(float64(45*i)), c, c)
		dc.DrawLine(c, 2, c, 7)
		dc.Stroke()
		dc.Pop()
	}
}
