// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package assets locates stored panel assets.
//
// Assets are kept the way the firmware's embedded web server keeps its files:
// a fixed size HTTP response header (the envelope) followed by the file
// itself. Store implementations return the stored blob, envelope included;
// Strip removes it.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// EnvelopeSize is the size of the HTTP response header prefixing every
// stored asset.
const EnvelopeSize = 100

var (
	// ErrNotExist is returned when no asset has the requested name.
	ErrNotExist = errors.New("assets: not found")
	// ErrEnvelope is returned when a blob is too short to hold the envelope.
	ErrEnvelope = errors.New("assets: missing envelope")
)

// Store returns stored assets by name.
type Store interface {
	// Open returns the stored blob. The returned slice is owned by the store
	// and must not be modified.
	Open(name string) ([]byte, error)
}

// Load opens name in s and returns the asset without its envelope.
func Load(s Store, name string) ([]byte, error) {
	b, err := s.Open(name)
	if err != nil {
		return nil, err
	}
	return Strip(b)
}

// Strip returns b without its envelope.
func Strip(b []byte) ([]byte, error) {
	if len(b) < EnvelopeSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrEnvelope, len(b))
	}
	return b[EnvelopeSize:], nil
}

// Wrap returns data prefixed with an envelope announcing its length and a
// content type derived from name.
func Wrap(name string, data []byte) ([]byte, error) {
	h := fmt.Sprintf("HTTP/1.0 200 OK\r\nContent-Length: %d\r\nContent-Type: %s\r\n", len(data), contentType(name))
	// "X: " + padding + "\r\n\r\n"
	pad := EnvelopeSize - len(h) - 7
	if pad < 0 {
		return nil, fmt.Errorf("assets: header for %q does not fit the envelope", name)
	}
	out := make([]byte, 0, EnvelopeSize+len(data))
	out = append(out, h...)
	out = append(out, "X: "...)
	out = append(out, strings.Repeat(" ", pad)...)
	out = append(out, "\r\n\r\n"...)
	return append(out, data...), nil
}

func contentType(name string) string {
	switch {
	case strings.HasSuffix(name, ".bmp"):
		return "image/bmp"
	case strings.HasSuffix(name, ".html"):
		return "text/html"
	default:
		return "application/octet-stream"
	}
}

// Map is an in-memory Store.
type Map map[string][]byte

// Open implements Store.
func (m Map) Open(name string) ([]byte, error) {
	b, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotExist, name)
	}
	return b, nil
}

// FS is a Store backed by a file system, for example an embed.FS or
// os.DirFS. Names may carry a leading slash.
type FS struct {
	FS fs.FS
}

// Open implements Store.
func (f FS) Open(name string) ([]byte, error) {
	b, err := fs.ReadFile(f.FS, strings.TrimPrefix(name, "/"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotExist, name)
	}
	return b, err
}

var (
	_ Store = Map{}
	_ Store = FS{}
)
