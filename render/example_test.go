// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package render_test

import (
	"fmt"
	"log"

	"github.com/GermanBionicSystems/epaper/bitmap"
	"github.com/GermanBionicSystems/epaper/render"
)

func Example() {
	// Draw into an in-memory framebuffer of the size of an Inky pHAT.
	fb, err := bitmap.NewFrame(296, 128)
	if err != nil {
		log.Fatal(err)
	}
	blit := func(pix []byte, w, h, x, y int) error {
		src, err := bitmap.Wrap(pix, w, h)
		if err != nil {
			return err
		}
		fb.Blit(src, x, y)
		return nil
	}
	r := render.New(blit, nil)
	if err := r.DrawFont(render.DefaultFont(), 0, 0, "Badger"); err != nil {
		log.Fatal(err)
	}
	size, err := r.DrawQRf(296-56, 0, "WIFI:S:%s;T:WPA;;;", "badger")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(size)
	// Output: 56
}
