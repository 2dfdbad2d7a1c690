// Package pack provides access to the numbered RSDK data packs.
//
// Data packs sit beside the index database and are named DataNNN.rsdk with
// a zero-padded, three-digit pack id. Each starts with an opaque header of
// HeaderSize bytes; index offsets are relative to the end of that header.
package pack

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/stxticOVFL/rsdkv6-extract/internal/sizing"
)

const (
	// HeaderSize is the number of bytes before the first payload of a pack.
	HeaderSize = 0x30

	// NoPack is the current id of a router that has not opened a pack yet.
	NoPack int64 = -1
)

// FileName returns the data pack file name for id.
func FileName(id int64) string {
	return fmt.Sprintf("Data%03d.rsdk", id)
}

// Router keeps the data pack for the current pack id open.
//
// Index rows arrive in ascending pack order, so the router holds at most one
// file and only replaces it when the pack id changes. A Router is not safe
// for concurrent use.
type Router struct {
	dir     string
	current int64
	file    *os.File
	size    int64
}

// NewRouter returns a router that opens packs from dir.
func NewRouter(dir string) *Router {
	return &Router{
		dir:     dir,
		current: NoPack,
	}
}

// Current returns the id of the open pack, or NoPack.
func (r *Router) Current() int64 {
	return r.current
}

// Path returns the file path of pack id.
func (r *Router) Path(id int64) string {
	return filepath.Join(r.dir, FileName(id))
}

// EnsureOpen makes pack id the current pack, opening its file if id differs
// from the current id. It reports whether a new file was opened.
func (r *Router) EnsureOpen(id int64) (bool, error) {
	if id == r.current && r.file != nil {
		return false, nil
	}

	f, err := os.Open(r.Path(id))
	if err != nil {
		return false, fmt.Errorf("pack %03d: %w", id, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close() //nolint:errcheck // read-only handle
		return false, fmt.Errorf("pack %03d: %w", id, err)
	}
	if r.file != nil {
		_ = r.file.Close() //nolint:errcheck // read-only handle
	}
	r.file = f
	r.size = info.Size()
	r.current = id
	return true, nil
}

// ReadPayload reads size bytes at offset (relative to the end of the pack
// header) from the current pack.
//
// A pack shorter than offset+HeaderSize+size yields an error wrapping
// io.ErrUnexpectedEOF. Such spans are rejected before any buffer is
// allocated.
func (r *Router) ReadPayload(offset, size int64) ([]byte, error) {
	if r.file == nil {
		return nil, errors.New("pack: no pack open")
	}
	pos, n, err := sizing.Span(offset, size, HeaderSize)
	if err != nil {
		return nil, err
	}
	if pos+size > r.size {
		return nil, fmt.Errorf("span 0x%x+%d exceeds pack size %d: %w", pos, size, r.size, io.ErrUnexpectedEOF)
	}

	buf := make([]byte, n)
	read, err := r.file.ReadAt(buf, pos)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if read != n {
		return nil, fmt.Errorf("short read (%d of %d bytes at 0x%x): %w", read, n, pos, io.ErrUnexpectedEOF)
	}
	return buf, nil
}

// Close closes the current pack, if any.
func (r *Router) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	r.size = 0
	r.current = NoPack
	return err
}
