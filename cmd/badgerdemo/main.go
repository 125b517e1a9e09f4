// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// badgerdemo draws the setup or status screen of the badge firmware on a
// UC8151 e-paper panel, or on a preview when no panel is at hand.
//
// Hardware setup (Inky pHAT header, the default):
//
//	Panel      Raspberry Pi
//	DC         GPIO22
//	RESET      GPIO27
//	BUSY       GPIO17
//	CS         GPIO8 (SPI0 CE0)
//	CLK/MOSI   SPI0
//
// Other wirings are selected with -dc, -rst, -busy and -cs. Bitmap files in
// the -assets directory replace the built-in font and icons, "monospace.bmp"
// being the font strip.
//
// Preview on a host:
//
//	badgerdemo -preview term -screen status
//	badgerdemo -preview http -http :8080
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/GermanBionicSystems/epaper/assets"
	"github.com/GermanBionicSystems/epaper/preview"
	"github.com/GermanBionicSystems/epaper/render"
	"github.com/GermanBionicSystems/epaper/uc8151"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

var (
	spiBus    = flag.String("spi", "", "SPI port name (empty for the first one)")
	dcPin     = flag.String("dc", "", "Data/Command pin name (empty for the pHAT wiring)")
	rstPin    = flag.String("rst", "GPIO27", "Reset pin name, used with -dc")
	busyPin   = flag.String("busy", "GPIO17", "Busy pin name, used with -dc")
	csPin     = flag.String("cs", "", "Chip select pin name, used with -dc; empty when the port drives it")
	previewTo = flag.String("preview", "", "Preview instead of a panel: term or http")
	httpAddr  = flag.String("http", ":8080", "Listen address of the http preview")
	assetDir  = flag.String("assets", "", "Directory of bitmap assets to store on the flash image")
	screen    = flag.String("screen", "setup", "Screen to draw: setup or status")
	name      = flag.String("name", "Badger", "Device name")
	addr      = flag.String("addr", "192.168.4.1", "Device address shown on the status screen")
	mode      = flag.String("mode", "auto", "Output mode shown on the status screen: off, auto or on")
	temp      = flag.Float64("temp", 21.5, "Temperature shown on the status screen")
	noSleep   = flag.Bool("nosleep", false, "Keep the panel powered after drawing")
)

func main() {
	flag.Parse()
	if err := mainImpl(); err != nil {
		log.Fatalf("badgerdemo: %v", err)
	}
}

func mainImpl() error {
	draw, err := screenFunc(*screen)
	if err != nil {
		return err
	}
	store, err := provision(*assetDir)
	if err != nil {
		return fmt.Errorf("provisioning assets: %w", err)
	}
	defer store.Close()

	w, h := uc8151.PHAT.Width, uc8151.PHAT.Height
	s := &status{Name: *name, Addr: *addr, Mode: *mode, Temp: *temp, Now: time.Now(), Width: w, Height: h}

	switch *previewTo {
	case "":
		return drawPanel(draw, store, s)
	case "term":
		p, err := preview.NewTerminal(nil, &preview.TerminalOpts{Width: w, Height: h, Step: 2})
		if err != nil {
			return err
		}
		defer p.Halt()
		return draw(p, render.New(p.DrawRegion, &render.Opts{Assets: store}), s)
	case "http":
		p, err := preview.NewServer(&preview.ServerOpts{Width: w, Height: h})
		if err != nil {
			return err
		}
		if err := draw(p, render.New(p.DrawRegion, &render.Opts{Assets: store}), s); err != nil {
			return err
		}
		return serve(p)
	}
	return fmt.Errorf("unknown preview %q", *previewTo)
}

func screenFunc(name string) (func(panel, *render.Renderer, *status) error, error) {
	switch name {
	case "setup":
		return drawSetup, nil
	case "status":
		return drawStatus, nil
	}
	return nil, fmt.Errorf("unknown screen %q", name)
}

func drawPanel(draw func(panel, *render.Renderer, *status) error, store assets.Store, s *status) error {
	if _, err := host.Init(); err != nil {
		return err
	}
	b, err := spireg.Open(*spiBus)
	if err != nil {
		return err
	}
	defer b.Close()

	dev, err := openPanel(b)
	if err != nil {
		return err
	}
	if err := dev.Init(); err != nil {
		return err
	}
	log.Printf("%s", dev)
	if err := draw(dev, render.New(dev.DrawRegion, &render.Opts{Assets: store}), s); err != nil {
		return err
	}
	if *noSleep {
		return nil
	}
	return dev.Sleep()
}

func openPanel(p spi.Port) (*uc8151.Dev, error) {
	if *dcPin == "" {
		return uc8151.NewPHAT(p, &uc8151.PHAT)
	}
	dc, err := pinByName(*dcPin)
	if err != nil {
		return nil, err
	}
	rst, err := pinByName(*rstPin)
	if err != nil {
		return nil, err
	}
	busy, err := pinByName(*busyPin)
	if err != nil {
		return nil, err
	}
	var cs gpio.PinOut
	if *csPin != "" {
		pin, err := pinByName(*csPin)
		if err != nil {
			return nil, err
		}
		cs = pin
	}
	return uc8151.New(p, dc, cs, rst, busy, &uc8151.PHAT)
}

func pinByName(name string) (gpio.PinIO, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("gpio pin %s not found", name)
	}
	return p, nil
}

// serve publishes p until interrupted.
func serve(p *preview.Server) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	srv := &http.Server{Addr: *httpAddr, Handler: p}
	go func() {
		<-ctx.Done()
		_ = p.Halt()
		_ = srv.Shutdown(context.Background())
	}()
	log.Printf("serving %s on %s", p, *httpAddr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
