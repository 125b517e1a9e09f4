// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package preview provides virtual panels for developing screens on a host
// machine.
//
// Terminal and Server accept the same region writes as uc8151.Dev, so a
// render.Renderer can target either one by passing their DrawRegion method
// as its blit function. Terminal prints the frame with ANSI block
// characters; Server publishes it over HTTP as a PNG snapshot or as an MJPEG
// style stream updated on every Refresh.
package preview
