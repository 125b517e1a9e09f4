// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package uc8151_test

import (
	"log"

	"github.com/GermanBionicSystems/epaper/render"
	"github.com/GermanBionicSystems/epaper/uc8151"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	// Use spireg SPI bus registry to find the first available SPI bus.
	b, err := spireg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer b.Close()

	dev, err := uc8151.NewPHAT(b, &uc8151.PHAT)
	if err != nil {
		log.Fatalf("Failed to initialize driver: %v", err)
	}
	if err := dev.Init(); err != nil {
		log.Fatalf("Failed to initialize display: %v", err)
	}
	defer dev.Halt()

	if err := dev.Clear(); err != nil {
		log.Fatal(err)
	}
	r := render.New(dev.DrawRegion, nil)
	if err := r.DrawFont(render.DefaultFont(), 0, 0, "Hello from periph!"); err != nil {
		log.Fatal(err)
	}
	if _, err := r.DrawQR(296-56, 0, "https://periph.io"); err != nil {
		log.Fatal(err)
	}
	if err := dev.Refresh(); err != nil {
		log.Fatal(err)
	}
}
