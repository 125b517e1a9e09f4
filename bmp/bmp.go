// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bmp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/GermanBionicSystems/epaper/bitmap"
)

// Magic is the "BM" signature read as a little endian uint16.
const Magic = 0x4d42

// HeaderSize is the size of the file header followed by a BITMAPINFOHEADER.
const HeaderSize = 54

var (
	// ErrInvalidAsset is wrapped by every decoding error.
	ErrInvalidAsset = errors.New("bmp: invalid asset")
	// ErrMagic is returned when the signature is not "BM".
	ErrMagic = errors.New("bad magic")
	// ErrSize is returned when the declared file size differs from the data.
	ErrSize = errors.New("declared size mismatch")
	// ErrDepth is returned for anything but 1 bit per pixel.
	ErrDepth = errors.New("unsupported bit depth")
	// ErrTruncated is returned when the header or payload is incomplete.
	ErrTruncated = errors.New("truncated")
	// ErrAlign is returned when a panel column is not a whole number of bytes.
	ErrAlign = errors.New("unaligned dimension")
)

// Header is the subset of the file and info headers read by Decode.
type Header struct {
	Magic        uint16
	Size         uint32
	Offset       uint32
	InfoSize     uint32
	Width        int32
	Height       int32
	Planes       uint16
	BitsPerPixel uint16
	Compression  uint32
	ImageSize    uint32
	XPerMeter    int32
	YPerMeter    int32
	Colors       uint32
	Important    uint32
}

// ParseHeader reads the 54 header bytes at the start of b.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, invalid(ErrTruncated, "%d header bytes", len(b))
	}
	le := binary.LittleEndian
	return Header{
		Magic:        le.Uint16(b[0:]),
		Size:         le.Uint32(b[2:]),
		Offset:       le.Uint32(b[10:]),
		InfoSize:     le.Uint32(b[14:]),
		Width:        int32(le.Uint32(b[18:])),
		Height:       int32(le.Uint32(b[22:])),
		Planes:       le.Uint16(b[26:]),
		BitsPerPixel: le.Uint16(b[28:]),
		Compression:  le.Uint32(b[30:]),
		ImageSize:    le.Uint32(b[34:]),
		XPerMeter:    int32(le.Uint32(b[38:])),
		YPerMeter:    int32(le.Uint32(b[42:])),
		Colors:       le.Uint32(b[46:]),
		Important:    le.Uint32(b[50:]),
	}, nil
}

// Image is a decoded 1 bit per pixel bitmap file.
type Image struct {
	Header
	// Pix is the pixel payload as stored in the file, Stride bytes per row.
	Pix []byte
	// Stride is the length of a row in bytes, padded to 4 bytes.
	Stride int
}

// Decode validates data, a complete bitmap file, and returns a view over it.
//
// The checks are done in order: signature, declared size (must be len(data)),
// bit depth, then the payload bounds.
func Decode(data []byte) (*Image, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	if h.Magic != Magic {
		return nil, invalid(ErrMagic, "0x%04x", h.Magic)
	}
	if int64(h.Size) != int64(len(data)) {
		return nil, invalid(ErrSize, "declared %d, have %d", h.Size, len(data))
	}
	if h.BitsPerPixel != 1 {
		return nil, invalid(ErrDepth, "%d bits per pixel", h.BitsPerPixel)
	}
	if h.Width < 0 {
		return nil, invalid(ErrTruncated, "negative width %d", h.Width)
	}
	stride := ((int(h.Width) + 31) / 32) * 4
	n := stride * abs(int(h.Height))
	if int64(h.Offset)+int64(n) > int64(len(data)) {
		return nil, invalid(ErrTruncated, "payload at %d needs %d bytes, have %d", h.Offset, n, len(data))
	}
	return &Image{Header: h, Pix: data[h.Offset : int(h.Offset)+n], Stride: stride}, nil
}

// Rows returns the number of rows.
func (i *Image) Rows() int {
	return abs(int(i.Height))
}

// Orientation selects how rows of the file map to the panel.
type Orientation int

const (
	// SwapAxes maps each row of the file to one panel column: the file's
	// height becomes the logical width and its width the logical height.
	SwapAxes Orientation = iota
	// Upright keeps the natural orientation of the raster.
	Upright
)

func (o Orientation) String() string {
	switch o {
	case SwapAxes:
		return "SwapAxes"
	case Upright:
		return "Upright"
	default:
		return fmt.Sprintf("Orientation(%d)", int(o))
	}
}

// Oriented returns the image as a column-major buffer of width x height
// pixels, in the layout of package bitmap.
//
// With SwapAxes and rows that need no padding, the returned slice aliases
// Pix. The logical height must be a multiple of 8.
func (i *Image) Oriented(o Orientation) (pix []byte, width, height int, err error) {
	switch o {
	case SwapAxes:
		width, height = i.Rows(), int(i.Width)
		if height%8 != 0 {
			return nil, 0, 0, invalid(ErrAlign, "column of %d pixels is not byte aligned", height)
		}
		if i.Stride == height/8 {
			return i.Pix, width, height, nil
		}
		pix = make([]byte, 0, width*height/8)
		for r := 0; r < width; r++ {
			pix = append(pix, i.Pix[r*i.Stride:r*i.Stride+height/8]...)
		}
		return pix, width, height, nil
	case Upright:
		width, height = int(i.Width), i.Rows()
		f, err := bitmap.NewFrame(width, height)
		if err != nil {
			return nil, 0, 0, invalid(ErrAlign, "%v", err)
		}
		for y := 0; y < height; y++ {
			row := i.row(y)
			for x := 0; x < width; x++ {
				if row[x/8]&(0x80>>uint(x&7)) == 0 {
					f.SetPixel(x, y, true)
				}
			}
		}
		return f.Pix, width, height, nil
	default:
		return nil, 0, 0, fmt.Errorf("bmp: unknown orientation %s", o)
	}
}

// row returns the bytes of the y-th row from the top.
func (i *Image) row(y int) []byte {
	if i.Height > 0 {
		y = i.Rows() - 1 - y
	}
	return i.Pix[y*i.Stride : (y+1)*i.Stride]
}

// Encode writes f as a 1 bit per pixel bitmap file in the SwapAxes layout, so
// that Decode followed by Oriented(SwapAxes) yields f.Pix again.
//
// A set bit is white; the palette is {black, white}.
func Encode(w io.Writer, f *bitmap.Frame) error {
	const paletteSize = 8
	stride := ((f.H + 31) / 32) * 4
	offset := HeaderSize + paletteSize
	size := offset + stride*f.W
	b := make([]byte, size)
	le := binary.LittleEndian
	le.PutUint16(b[0:], Magic)
	le.PutUint32(b[2:], uint32(size))
	le.PutUint32(b[10:], uint32(offset))
	le.PutUint32(b[14:], 40)
	le.PutUint32(b[18:], uint32(f.H))
	// Negative height: rows are stored top-down, first row first.
	le.PutUint32(b[22:], uint32(-int32(f.W)))
	le.PutUint16(b[26:], 1)
	le.PutUint16(b[28:], 1)
	le.PutUint32(b[34:], uint32(stride*f.W))
	le.PutUint32(b[46:], 2)
	// Palette entries are B, G, R, reserved.
	copy(b[HeaderSize:], []byte{0, 0, 0, 0, 0xFF, 0xFF, 0xFF, 0})
	col := f.H / 8
	for x := 0; x < f.W; x++ {
		row := b[offset+x*stride : offset+(x+1)*stride]
		copy(row, f.Pix[x*col:(x+1)*col])
		for j := col; j < stride; j++ {
			row[j] = bitmap.Blank
		}
	}
	_, err := w.Write(b)
	return err
}

func invalid(cause error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %w: %s", ErrInvalidAsset, cause, fmt.Sprintf(format, args...))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
