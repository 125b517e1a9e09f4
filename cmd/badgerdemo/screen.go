// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"time"

	"github.com/GermanBionicSystems/epaper/render"
)

// panel is implemented by uc8151.Dev, preview.Terminal and preview.Server.
type panel interface {
	DrawRegion(pix []byte, width, height, x, y int) error
	Clear() error
	Refresh() error
	Halt() error
}

// status is what the screens show.
type status struct {
	Name   string
	Addr   string
	Mode   string
	Temp   float64
	Now    time.Time
	Width  int
	Height int
}

// fit truncates s to the characters fitting between x and the right edge.
func (s *status) fit(x int, text string) string {
	if n := (s.Width - x) / fontCellW; len(text) > n {
		if n < 0 {
			n = 0
		}
		return text[:n]
	}
	return text
}

// drawSetup shows the access point name and a QR code to join it.
func drawSetup(p panel, r *render.Renderer, s *status) error {
	if err := p.Clear(); err != nil {
		return err
	}
	if err := r.PrintAsset(fontAsset, 0, 0, s.fit(0, s.Name)); err != nil {
		return err
	}
	if _, err := r.DrawQRf(0, 32, "WIFI:S:%s;T:WPA;;;", s.Name); err != nil {
		return err
	}
	if err := r.PrintAsset(fontAsset, 96, 32, "Setup"); err != nil {
		return err
	}
	return p.Refresh()
}

// drawStatus shows the device address, time, temperature and output mode.
func drawStatus(p panel, r *render.Renderer, s *status) error {
	if err := p.Clear(); err != nil {
		return err
	}
	if err := r.PrintAsset(fontAsset, 0, 0, s.fit(0, s.Name)); err != nil {
		return err
	}
	font := render.DefaultFont()
	url := "http://" + s.Addr
	shown := url
	if n := s.Width / (font.W / render.Glyphs); len(shown) > n {
		shown = shown[:n]
	}
	if err := r.DrawFont(font, 0, s.Height-font.H, shown); err != nil {
		return err
	}
	if _, err := r.DrawQR(0, 32, url); err != nil {
		return err
	}
	if err := r.PrintAssetf(fontAsset, 96, 64, "%02d:%02d", s.Now.Hour(), s.Now.Minute()); err != nil {
		return err
	}
	if err := r.PrintAssetf(fontAsset, 96, 32, "%.01fC", s.Temp); err != nil {
		return err
	}
	name, err := modeIcon(s.Mode)
	if err != nil {
		return err
	}
	if err := r.DrawAsset(name, s.Width-iconSize, 48); err != nil {
		return err
	}
	return p.Refresh()
}

func modeIcon(mode string) (string, error) {
	switch mode {
	case "off":
		return iconOff, nil
	case "auto":
		return iconAuto, nil
	case "on":
		return iconOn, nil
	}
	return "", fmt.Errorf("unknown mode %q", mode)
}
