package rsdk

import (
	"errors"
	"io"
	"log/slog"
	"os"
)

// Option configures an Extractor.
type Option func(*Extractor) error

// WithLogger sets a logger for the extractor.
// If nil, a discard logger is used (default behavior).
func WithLogger(logger *slog.Logger) Option {
	return func(x *Extractor) error {
		x.logger = logger
		return nil
	}
}

// WithOutputDir sets the directory extracted files are written under.
// Defaults to the current directory.
func WithOutputDir(dir string) Option {
	return func(x *Extractor) error {
		if dir == "" {
			return errors.New("output directory is empty")
		}
		x.outputDir = dir
		return nil
	}
}

// WithReportWriter sets the writer that receives report lines.
// Report lines are discarded by default.
func WithReportWriter(w io.Writer) Option {
	return func(x *Extractor) error {
		if w == nil {
			w = io.Discard
		}
		x.report = w
		return nil
	}
}

// WithPackNames sets a candidate list for pack names.
//
// Pack names are hashed verbatim, without case folding, and are only used
// to label pack sections of the report.
func WithPackNames(path string) Option {
	return func(x *Extractor) error {
		x.packNamesPath = path
		return nil
	}
}

// WithProgress sets a callback that receives progress updates.
func WithProgress(fn ProgressFunc) Option {
	return func(x *Extractor) error {
		x.progress = fn
		return nil
	}
}

// WithPermissions sets the permissions of created directories and files.
func WithPermissions(dirPerm, filePerm os.FileMode) Option {
	return func(x *Extractor) error {
		if dirPerm&0o700 != 0o700 {
			return errors.New("directory permissions must allow owner access")
		}
		x.dirPerm = dirPerm
		x.filePerm = filePerm
		return nil
	}
}
