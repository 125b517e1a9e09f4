// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newServer(t *testing.T, w, h int) (*Server, *httptest.Server) {
	s, err := NewServer(&ServerOpts{Width: w, Height: h, Logger: log.New(io.Discard, "", 0)})
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)
	t.Cleanup(srv.CloseClientConnections)
	return s, srv
}

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() failed: %v", err)
	}
	return img
}

func isBlack(c color.Color) bool {
	r, _, _, _ := c.RGBA()
	return r == 0
}

func TestServerSnapshot(t *testing.T) {
	s, srv := newServer(t, 16, 8)
	if got := s.String(); got != "preview.Server{16x8}" {
		t.Fatal(got)
	}
	if err := s.DrawRegion([]byte{0x00}, 1, 8, 3, 0); err != nil {
		t.Fatal(err)
	}

	get := func() image.Image {
		resp, err := http.Get(srv.URL)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d", resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
			t.Fatalf("Content-Type %q", ct)
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatal(err)
		}
		return decode(t, data)
	}

	// Nothing is published before Refresh.
	img := get()
	if got, want := img.Bounds(), image.Rect(0, 0, 16, 8); got != want {
		t.Fatalf("bounds %v, want %v", got, want)
	}
	if isBlack(img.At(3, 0)) {
		t.Fatal("region visible before Refresh")
	}

	_, seq := s.Image()
	if err := s.Refresh(); err != nil {
		t.Fatal(err)
	}
	if _, next := s.Image(); next != seq+1 {
		t.Fatalf("sequence %d, want %d", next, seq+1)
	}
	img = get()
	for y := 0; y < 8; y++ {
		if !isBlack(img.At(3, y)) {
			t.Fatalf("(3, %d) is white", y)
		}
		if isBlack(img.At(2, y)) || isBlack(img.At(4, y)) {
			t.Fatalf("neighbours of (3, %d) are black", y)
		}
	}

	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if err := s.Refresh(); err != nil {
		t.Fatal(err)
	}
	if isBlack(get().At(3, 0)) {
		t.Fatal("Clear() left pixels")
	}
}

func TestServerMethod(t *testing.T) {
	_, srv := newServer(t, 8, 8)
	resp, err := http.Post(srv.URL, "text/plain", bytes.NewReader(nil))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status %d, want %d", resp.StatusCode, http.StatusMethodNotAllowed)
	}

	resp, err = http.Head(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.ContentLength <= 0 {
		t.Fatalf("HEAD: status %d, length %d", resp.StatusCode, resp.ContentLength)
	}
}

func TestServerStream(t *testing.T) {
	s, srv := newServer(t, 8, 8)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	t.Cleanup(cancel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/?stream=1", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	mediaType, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		t.Fatal(err)
	}
	if mediaType != "multipart/x-mixed-replace" {
		t.Fatalf("Content-Type %q", mediaType)
	}
	mr := multipart.NewReader(resp.Body, params["boundary"])

	next := func() image.Image {
		part, err := mr.NextPart()
		if err != nil {
			t.Fatalf("NextPart() failed: %v", err)
		}
		defer part.Close()
		if ct := part.Header.Get("Content-Type"); ct != "image/png" {
			t.Fatalf("part Content-Type %q", ct)
		}
		data, err := io.ReadAll(part)
		if err != nil {
			t.Fatal(err)
		}
		return decode(t, data)
	}

	if isBlack(next().At(0, 0)) {
		t.Fatal("initial frame is not white")
	}
	if err := s.DrawRegion([]byte{0x00}, 1, 8, 0, 0); err != nil {
		t.Fatal(err)
	}
	if err := s.Refresh(); err != nil {
		t.Fatal(err)
	}
	if !isBlack(next().At(0, 0)) {
		t.Fatal("refreshed frame is not black")
	}

	if err := s.Halt(); err != nil {
		t.Fatal(err)
	}
	if _, err := mr.NextPart(); err == nil {
		t.Fatal("stream continued after Halt()")
	}
}

func TestServerNilOpts(t *testing.T) {
	s, err := NewServer(nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.String(); got != "preview.Server{296x128}" {
		t.Fatal(got)
	}
	if got, want := decode(t, mustImage(s)).Bounds(), image.Rect(0, 0, DefaultWidth, DefaultHeight); got != want {
		t.Fatalf("bounds %v, want %v", got, want)
	}
}

func mustImage(s *Server) []byte {
	b, _ := s.Image()
	return b
}
