package rsdk

import (
	"fmt"
	"io"

	"github.com/opencontainers/go-digest"
)

// UnusedName is a dictionary name whose hash matched no index row.
type UnusedName struct {
	Hash string
	Name string
}

// GuessedName is a file name found inside an unnamed payload's header.
type GuessedName struct {
	// Hash is the path hash of the entry the name was found in.
	Hash string

	// Name is the embedded file name.
	Name string
}

// WrittenFile is a file created by a run.
type WrittenFile struct {
	// Name is the slash-separated path relative to the output directory.
	Name string

	Size int64

	// Digest is the SHA-256 digest of the file contents.
	Digest digest.Digest
}

// Report summarizes a run.
type Report struct {
	// Hits is the number of rows whose hash matched the name dictionary.
	Hits int

	// Misses is the number of rows written under MISSING/.
	Misses int

	// Errors is the number of rows skipped because of a per-row error.
	Errors int

	// NewFiles is the number of files written by this run.
	NewFiles int

	// BytesWritten is the total size of the files written by this run.
	BytesWritten int64

	// DictionarySize is the number of distinct hashes in the name dictionary.
	DictionarySize int

	// MaxCount is the number of rows in the index's files table.
	MaxCount int64

	// Unused lists the dictionary names never matched, in list order.
	Unused []UnusedName

	// Guessed lists file names found in gzip headers, in index order.
	Guessed []GuessedName

	// Written lists the files created by this run, in index order.
	Written []WrittenFile
}

// HitRate returns Hits as a percentage of DictionarySize.
func (r *Report) HitRate() float64 {
	return percent(int64(r.Hits), int64(r.DictionarySize))
}

// Coverage returns Hits as a percentage of MaxCount.
func (r *Report) Coverage() float64 {
	return percent(int64(r.Hits), r.MaxCount)
}

func percent(n, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// Summary returns the final report line:
// hits/dictionary/max - hit rate% / coverage% (+new files).
func (r *Report) Summary() string {
	return fmt.Sprintf("%d/%d/%d - %.2f%% / %.2f%% (+%d)",
		r.Hits, r.DictionarySize, r.MaxCount, r.HitRate(), r.Coverage(), r.NewFiles)
}

// WriteManifest writes one "<hex digest>  <name>" line per written file, the
// format read by sha256sum -c from inside the output directory.
func (r *Report) WriteManifest(w io.Writer) error {
	for _, f := range r.Written {
		if _, err := fmt.Fprintf(w, "%s  %s\n", f.Digest.Encoded(), f.Name); err != nil {
			return err
		}
	}
	return nil
}

// reportWriter formats report lines. The first write error is kept and all
// later writes are dropped.
type reportWriter struct {
	w   io.Writer
	err error
}

func (rw *reportWriter) line(format string, args ...any) {
	if rw.err != nil {
		return
	}
	_, rw.err = fmt.Fprintf(rw.w, format+"\n", args...)
}

func (rw *reportWriter) blank() {
	rw.line("")
}

func (rw *reportWriter) packHeader(id int64, name string) {
	rw.line("------------ PACK %03d - %s ------------", id, name)
}

func (rw *reportWriter) entry(hash, name string) {
	rw.line("%s - %s", hash, name)
}

func (rw *reportWriter) entryError(hash, name string, err error) {
	rw.line("%s - %s - ERROR: %v", hash, name, err)
}

// tail writes the unused names, the guessed names and the summary.
func (rw *reportWriter) tail(r *Report) {
	rw.blank()
	for _, u := range r.Unused {
		rw.line("%s - %s - UNUSED", u.Hash, u.Name)
	}
	rw.blank()
	rw.line("Guessed names:")
	for _, g := range r.Guessed {
		rw.line("%s --> %s", g.Hash, g.Name)
	}
	rw.blank()
	rw.line("%s", r.Summary())
}
