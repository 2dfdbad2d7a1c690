package rsdk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/stxticOVFL/rsdkv6-extract/internal/dict"
	"github.com/stxticOVFL/rsdkv6-extract/internal/index"
	"github.com/stxticOVFL/rsdkv6-extract/internal/pack"
	"github.com/stxticOVFL/rsdkv6-extract/internal/sink"
	"github.com/stxticOVFL/rsdkv6-extract/internal/sniff"
)

// MissingDir is the directory unnamed entries are written under.
const MissingDir = "MISSING"

const (
	defaultDirPerm  = 0o750
	defaultFilePerm = 0o644
)

// Extractor extracts the entries of an RSDK pack set.
//
// An Extractor may be reused for several runs but must not run
// concurrently with itself.
type Extractor struct {
	logger        *slog.Logger
	outputDir     string
	report        io.Writer
	packNamesPath string
	progress      ProgressFunc
	dirPerm       os.FileMode
	filePerm      os.FileMode
}

// New creates an Extractor with the given options.
func New(opts ...Option) (*Extractor, error) {
	x := &Extractor{
		outputDir: ".",
		report:    io.Discard,
		dirPerm:   defaultDirPerm,
		filePerm:  defaultFilePerm,
	}
	for _, opt := range opts {
		if err := opt(x); err != nil {
			return nil, err
		}
	}
	return x, nil
}

// log returns the logger, falling back to a discard logger if nil.
func (x *Extractor) log() *slog.Logger {
	if x.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return x.logger
}

func (x *Extractor) notify(ev ProgressEvent) {
	if x.progress != nil {
		x.progress(ev)
	}
}

// Run extracts every entry listed in the index database at indexPath, naming
// entries from the candidate list at namesPath.
//
// Data packs are read from the directory containing the index. Entries whose
// payload cannot be read are reported and skipped; every other failure stops
// the run and is returned wrapped in one of the stage errors (ErrOpenIndex,
// ErrLoadDictionary, ...). Existing output files are never replaced.
func (x *Extractor) Run(ctx context.Context, indexPath, namesPath string) (*Report, error) {
	log := x.log()
	x.notify(ProgressEvent{Stage: StageLoading})

	names, err := dict.LoadFile(namesPath, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadDictionary, err)
	}
	log.Debug("loaded name list",
		slog.String("path", namesPath),
		slog.Int("names", names.Len()))

	packNames := dict.New(false)
	if x.packNamesPath != "" {
		packNames, err = dict.LoadFile(x.packNamesPath, false)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadDictionary, err)
		}
		log.Debug("loaded pack name list",
			slog.String("path", x.packNamesPath),
			slog.Int("names", packNames.Len()))
	}

	idx, err := index.Open(ctx, indexPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenIndex, err)
	}
	defer idx.Close()

	maxCount, err := idx.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryIndex, err)
	}

	r := &run{
		x:         x,
		log:       log,
		names:     names,
		packNames: packNames,
		router:    pack.NewRouter(idx.Dir()),
		sink:      sink.NewFileSink(x.outputDir, sink.WithDirPerm(x.dirPerm), sink.WithFilePerm(x.filePerm)),
		out:       &reportWriter{w: x.report},
		report: &Report{
			DictionarySize: names.Len(),
			MaxCount:       maxCount,
		},
	}
	defer r.router.Close()

	log.Info("extracting",
		slog.String("index", indexPath),
		slog.String("packs", idx.Dir()),
		slog.Int64("entries", maxCount))

	for row, err := range idx.Rows(ctx) {
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrQueryIndex, err)
		}
		if err := r.extract(row); err != nil {
			return nil, err
		}
	}

	x.notify(ProgressEvent{Stage: StageReporting, FilesDone: r.done, FilesTotal: maxCount})
	for _, e := range names.Unused() {
		r.report.Unused = append(r.report.Unused, UnusedName{Hash: e.Hash, Name: e.Name})
	}
	r.out.tail(r.report)
	if r.out.err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteReport, r.out.err)
	}

	log.Info("extraction complete",
		slog.Int("hits", r.report.Hits),
		slog.Int("misses", r.report.Misses),
		slog.Int("errors", r.report.Errors),
		slog.Int("new", r.report.NewFiles),
		slog.String("written", humanize.Bytes(uint64(r.report.BytesWritten)))) //nolint:gosec // never negative
	return r.report, nil
}

// run holds the state of one Run call.
type run struct {
	x         *Extractor
	log       *slog.Logger
	names     *dict.Dictionary
	packNames *dict.Dictionary
	router    *pack.Router
	sink      *sink.FileSink
	out       *reportWriter
	report    *Report
	done      int
}

// extract resolves, reads and writes one index row.
func (r *run) extract(row index.Row) error {
	switched, err := r.router.EnsureOpen(row.Pack)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOpenPack, err)
	}
	if switched {
		r.out.packHeader(row.Pack, r.packLabel(row.PackName))
		r.log.Debug("opened pack",
			slog.Int64("pack", row.Pack),
			slog.String("path", r.router.Path(row.Pack)))
	}

	name := MissingDir + "/" + row.Path
	entry, hit := r.names.Lookup(row.Path)
	if hit {
		r.names.Mark(row.Path)
		name = entry.Name
		r.report.Hits++
	} else {
		r.report.Misses++
	}
	r.done++

	payload, err := r.router.ReadPayload(row.Offset, row.Size)
	if err != nil {
		r.skip(row, name, err)
		return nil
	}

	if !hit {
		name += "@" + strconv.FormatInt(row.Pack, 10)
		res := sniff.Classify(payload)
		name += res.Ext
		if res.Name != "" {
			r.report.Guessed = append(r.report.Guessed, GuessedName{Hash: row.Path, Name: res.Name})
		}
	}

	if _, err := r.sink.Path(name); err != nil {
		r.skip(row, name, err)
		return nil
	}
	r.out.entry(row.Path, name)

	res, err := r.sink.Put(name, payload)
	if errors.Is(err, sink.ErrCreateDir) {
		return fmt.Errorf("%w: %w", ErrCreateDir, err)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if res.Written {
		r.report.NewFiles++
		r.report.BytesWritten += res.Size
		r.report.Written = append(r.report.Written, WrittenFile{Name: name, Size: res.Size, Digest: res.Digest})
		r.log.Debug("wrote file",
			slog.String("path", res.Path),
			slog.String("size", humanize.Bytes(uint64(res.Size))), //nolint:gosec // never negative
			slog.String("digest", res.Digest.String()))
	}

	r.advance(row, name)
	return nil
}

func (r *run) advance(row index.Row, name string) {
	r.x.notify(ProgressEvent{
		Stage:      StageExtracting,
		Path:       name,
		Pack:       row.Pack,
		FilesDone:  r.done,
		FilesTotal: r.report.MaxCount,
	})
}

// skip reports a row that could not be extracted.
func (r *run) skip(row index.Row, name string, err error) {
	r.report.Errors++
	r.out.entryError(row.Path, name, err)
	r.log.Warn("skipping entry",
		slog.String("hash", row.Path),
		slog.String("name", name),
		slog.Int64("pack", row.Pack),
		slog.Any("error", err))
	r.advance(row, name)
}

// packLabel returns the pack list's name for a stored pack name, or the
// stored name itself.
func (r *run) packLabel(stored string) string {
	if name, ok := r.packNames.Name(stored); ok {
		return name
	}
	return stored
}
