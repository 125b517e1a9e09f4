// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package assets

import (
	"fmt"
	"io"
	"os"

	"tinygo.org/x/tinyfs"
	"tinygo.org/x/tinyfs/littlefs"
)

// LittleFS is a Store kept in a littlefs file system on a block device, as
// found on the flash of microcontroller boards.
type LittleFS struct {
	fs *littlefs.LFS
}

// NewLittleFS mounts the littlefs file system on dev. If mounting fails and
// format is true, dev is formatted first.
func NewLittleFS(dev tinyfs.BlockDevice, format bool) (*LittleFS, error) {
	lfs := littlefs.New(dev)
	lfs.Configure(&littlefs.Config{
		CacheSize:     512,
		LookaheadSize: 128,
	})
	if err := lfs.Mount(); err != nil {
		if !format {
			return nil, fmt.Errorf("assets: mount: %w", err)
		}
		if err := lfs.Format(); err != nil {
			return nil, fmt.Errorf("assets: format: %w", err)
		}
		if err := lfs.Mount(); err != nil {
			return nil, fmt.Errorf("assets: mount: %w", err)
		}
	}
	return &LittleFS{fs: lfs}, nil
}

// Open implements Store.
func (l *LittleFS) Open(name string) ([]byte, error) {
	f, err := l.fs.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotExist, name, err)
	}
	defer f.Close()
	b, err := readAll(f)
	if err != nil {
		return nil, fmt.Errorf("assets: read %s: %w", name, err)
	}
	return b, nil
}

// readAll reads r until io.EOF or an empty read, which littlefs returns at
// the end of a file.
func readAll(r io.Reader) ([]byte, error) {
	var out []byte
	buf := make([]byte, 512)
	for {
		n, err := r.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return out, nil
		}
	}
}

// Put stores data, envelope included, under name, replacing any previous
// asset.
func (l *LittleFS) Put(name string, data []byte) error {
	tmp := name + ".tmp"
	_ = l.fs.Remove(tmp)
	f, err := l.fs.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return fmt.Errorf("assets: create %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		_ = l.fs.Remove(tmp)
		return fmt.Errorf("assets: write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		_ = l.fs.Remove(tmp)
		return fmt.Errorf("assets: write %s: %w", name, err)
	}
	// littlefs Rename does not replace the destination.
	_ = l.fs.Remove(name)
	if err := l.fs.Rename(tmp, name); err != nil {
		_ = l.fs.Remove(tmp)
		return fmt.Errorf("assets: rename %s: %w", name, err)
	}
	return nil
}

// Remove deletes the asset name.
func (l *LittleFS) Remove(name string) error {
	if err := l.fs.Remove(name); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotExist, name, err)
	}
	return nil
}

// Close unmounts the file system.
func (l *LittleFS) Close() error {
	return l.fs.Unmount()
}

var _ Store = &LittleFS{}
