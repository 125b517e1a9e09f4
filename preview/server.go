// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"bytes"
	"fmt"
	"image/png"
	"log"
	"mime"
	"net/http"
	"net/textproto"
	"strconv"
	"sync"
)

// ServerOpts for Server.
type ServerOpts struct {
	// Width and Height of the virtual panel. Height must be a multiple of 8.
	// Both zero selects DefaultWidth x DefaultHeight.
	Width, Height int
	// Compression of the PNG images; the zero value is png.DefaultCompression.
	Compression png.CompressionLevel
	// Logger for request diagnostics; defaults to log.Default().
	Logger *log.Logger
}

// Server is a virtual panel published over HTTP.
//
// A GET request receives the frame as of the last Refresh as a PNG image.
// With "?stream=1" the response is a multipart/x-mixed-replace stream which
// gets a new image on every Refresh until Halt is called or the client goes
// away.
type Server struct {
	canvas
	enc *png.Encoder
	l   *log.Logger

	smu      sync.Mutex
	encoded  []byte
	clients  map[*client]struct{}
	sequence int
}

// encoderPool shares PNG encoder buffers between all servers.
var encoderPool bufferPool

type bufferPool struct {
	p sync.Pool
}

func (b *bufferPool) Get() *png.EncoderBuffer {
	buf, _ := b.p.Get().(*png.EncoderBuffer)
	return buf
}

func (b *bufferPool) Put(buf *png.EncoderBuffer) {
	b.p.Put(buf)
}

type client struct {
	refresh   chan struct{}
	terminate chan struct{}
}

var _ http.Handler = (*Server)(nil)

// NewServer returns a white Server. Call Refresh to publish drawn regions.
// opts may be nil.
func NewServer(opts *ServerOpts) (*Server, error) {
	if opts == nil {
		opts = &ServerOpts{}
	}
	s := &Server{
		enc:     &png.Encoder{CompressionLevel: opts.Compression, BufferPool: &encoderPool},
		l:       opts.Logger,
		clients: map[*client]struct{}{},
	}
	if s.l == nil {
		s.l = log.Default()
	}
	if err := s.init(opts.Width, opts.Height); err != nil {
		return nil, err
	}
	if err := s.Refresh(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) String() string {
	return fmt.Sprintf("preview.Server{%dx%d}", s.frame.W, s.frame.H)
}

// DrawRegion stores packed pixels at (x, y). It has the signature of
// render.BlitFunc.
func (s *Server) DrawRegion(pix []byte, width, height, x, y int) error {
	return s.drawRegion(pix, width, height, x, y)
}

// Clear whitens the frame.
func (s *Server) Clear() error {
	s.clear()
	return nil
}

// Refresh encodes the frame and pushes it to streaming clients.
func (s *Server) Refresh() error {
	var buf bytes.Buffer
	if err := s.enc.Encode(&buf, s.snapshot()); err != nil {
		return fmt.Errorf("preview: encoding frame: %w", err)
	}
	s.smu.Lock()
	defer s.smu.Unlock()
	s.encoded = buf.Bytes()
	s.sequence++
	for c := range s.clients {
		select {
		case c.refresh <- struct{}{}:
		default:
		}
	}
	return nil
}

// Halt terminates all streaming requests asynchronously.
func (s *Server) Halt() error {
	s.smu.Lock()
	defer s.smu.Unlock()
	for c := range s.clients {
		select {
		case c.terminate <- struct{}{}:
		default:
		}
	}
	return nil
}

// Image returns the PNG published by the last Refresh and its sequence
// number, which increases with every Refresh.
func (s *Server) Image() ([]byte, int) {
	s.smu.Lock()
	defer s.smu.Unlock()
	return s.encoded, s.sequence
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.Body.Close(); err != nil {
		s.l.Printf("preview: closing request body failed: %v", err)
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}
	if stream, _ := strconv.ParseBool(r.URL.Query().Get("stream")); stream {
		s.serveStream(w, r)
		return
	}
	img, seq := s.Image()
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Frame-Sequence", strconv.Itoa(seq))
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(img); err != nil {
		s.l.Printf("preview: writing snapshot failed: %v", err)
	}
}

func (s *Server) serveStream(w http.ResponseWriter, r *http.Request) {
	pw := makePartWriter(w)
	w.Header().Set("Content-Type",
		mime.FormatMediaType("multipart/x-mixed-replace", map[string]string{
			"boundary": pw.boundary,
		}))

	c := &client{
		refresh:   make(chan struct{}, 1),
		terminate: make(chan struct{}, 1),
	}
	s.smu.Lock()
	s.clients[c] = struct{}{}
	s.smu.Unlock()
	defer func() {
		s.smu.Lock()
		delete(s.clients, c)
		s.smu.Unlock()
	}()

	header := make(textproto.MIMEHeader)
	header.Set("Content-Type", "image/png")
	header.Set("Content-Transfer-Encoding", "binary")

	for {
		img, _ := s.Image()
		if err := pw.writeFrame(header, img); err != nil {
			// The client went away; there is nobody to report to.
			return
		}
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
		select {
		case <-c.refresh:
		case <-c.terminate:
			return
		case <-r.Context().Done():
			return
		}
	}
}
