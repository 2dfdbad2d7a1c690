// Package sink writes extracted payloads to the filesystem.
package sink

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/opencontainers/go-digest"
)

const (
	defaultDirPerm  = 0o750
	defaultFilePerm = 0o644
)

var (
	// ErrUnsafePath is returned for names that would land outside the
	// destination directory.
	ErrUnsafePath = errors.New("sink: unsafe path")

	// ErrCreateDir is returned when a parent directory cannot be created.
	ErrCreateDir = errors.New("sink: create directory")

	// ErrWrite is returned when a payload cannot be written.
	ErrWrite = errors.New("sink: write")
)

// Result describes the outcome of Put.
type Result struct {
	// Path is the destination path on disk.
	Path string

	// Written is false when the destination already existed.
	Written bool

	// Size is the number of bytes written.
	Size int64

	// Digest is the SHA-256 digest of the payload, set when Written.
	Digest digest.Digest
}

// FileSink writes payloads under a destination directory without ever
// replacing an existing file.
//
// Payloads go to a temporary file in the destination's directory and are
// renamed into place, so a partially written file is never visible under its
// final name.
type FileSink struct {
	destDir  string
	dirPerm  os.FileMode
	filePerm os.FileMode
}

// FileSinkOption configures a FileSink.
type FileSinkOption func(*FileSink)

// WithDirPerm sets the permissions of created directories.
func WithDirPerm(perm os.FileMode) FileSinkOption {
	return func(s *FileSink) {
		s.dirPerm = perm
	}
}

// WithFilePerm sets the permissions of written files.
func WithFilePerm(perm os.FileMode) FileSinkOption {
	return func(s *FileSink) {
		s.filePerm = perm
	}
}

// NewFileSink creates a FileSink that writes to destDir.
//
// destDir must be an absolute path or relative to the current directory.
func NewFileSink(destDir string, opts ...FileSinkOption) *FileSink {
	s := &FileSink{
		destDir:  destDir,
		dirPerm:  defaultDirPerm,
		filePerm: defaultFilePerm,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the destination path for a slash-separated name.
func (s *FileSink) Path(name string) (string, error) {
	local := filepath.FromSlash(name)
	if !filepath.IsLocal(local) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}
	return filepath.Join(s.destDir, local), nil
}

// Exists reports whether a file already exists for name.
func (s *FileSink) Exists(name string) (bool, error) {
	path, err := s.Path(name)
	if err != nil {
		return false, err
	}
	_, err = os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("%w: %w", ErrWrite, err)
}

// Put writes payload under name unless a file already exists there.
func (s *FileSink) Put(name string, payload []byte) (Result, error) {
	path, err := s.Path(name)
	if err != nil {
		return Result{}, err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, s.dirPerm); err != nil {
		return Result{}, fmt.Errorf("%w %s: %w", ErrCreateDir, dir, err)
	}

	exists, err := s.Exists(name)
	if err != nil {
		return Result{}, err
	}
	if exists {
		return Result{Path: path}, nil
	}

	if err := writeAtomic(path, payload, s.filePerm); err != nil {
		return Result{}, fmt.Errorf("%w %s: %w", ErrWrite, path, err)
	}
	return Result{
		Path:    path,
		Written: true,
		Size:    int64(len(payload)),
		Digest:  digest.FromBytes(payload),
	}, nil
}

// writeAtomic writes data to a temp file beside path and renames it into place.
func writeAtomic(path string, data []byte, perm os.FileMode) error {
	tempFile, err := os.CreateTemp(filepath.Dir(path), ".rsdk-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()     //nolint:errcheck // we're cleaning up
		_ = os.Remove(tempPath) //nolint:errcheck // best-effort cleanup
		return err
	}
	if err := tempFile.Close(); err != nil {
		_ = os.Remove(tempPath) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, perm); err != nil {
		_ = os.Remove(tempPath) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
