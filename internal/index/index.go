// Package index reads the SQLite metadata database of an RSDK pack set.
//
// The database holds a files table (path hash, pack id, offset, size) and a
// packs table (id, name). It is opened read-only and never modified.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"net/url"
	"path/filepath"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const (
	rowsQuery = `
SELECT files.path,
       files.pack,
       files.offset,
       files.size,
       packs.name AS packname
FROM files
     INNER JOIN packs ON packs.id = files.pack
ORDER BY files.pack`

	countQuery = `SELECT COUNT(id) FROM files`
)

// Row is one archived entry.
type Row struct {
	// Path is the hex MD5 of the entry's lower-cased original path.
	Path string

	// Pack is the id of the data pack holding the entry.
	Pack int64

	// Offset is the entry's position after the pack header.
	Offset int64

	// Size is the entry's length in bytes.
	Size int64

	// PackName is the owning pack's name as stored in the index.
	PackName string
}

// Index is an open metadata database.
type Index struct {
	db  *sql.DB
	dir string
}

// Open opens the index database at path read-only.
func Open(ctx context.Context, path string) (*Index, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("index: %w", err)
	}
	abs, err = filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("index: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(abs))
	if err != nil {
		return nil, fmt.Errorf("index: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("index: %s: %w", path, err)
	}

	return &Index{
		db:  db,
		dir: filepath.Dir(abs),
	}, nil
}

func dsn(path string) string {
	u := url.URL{
		Scheme:   "file",
		Path:     filepath.ToSlash(path),
		RawQuery: "mode=ro",
	}
	return u.String()
}

// Dir returns the absolute directory containing the index file.
func (idx *Index) Dir() string {
	return idx.dir
}

// Count returns the number of rows in the files table.
func (idx *Index) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := idx.db.QueryRowContext(ctx, countQuery).Scan(&n); err != nil {
		return 0, fmt.Errorf("index: count: %w", err)
	}
	return n, nil
}

// Rows returns an iterator over all entries in ascending pack order.
//
// Iteration stops after the first error is yielded.
func (idx *Index) Rows(ctx context.Context) iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		rows, err := idx.db.QueryContext(ctx, rowsQuery)
		if err != nil {
			yield(Row{}, fmt.Errorf("index: query: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var r Row
			if err := rows.Scan(&r.Path, &r.Pack, &r.Offset, &r.Size, &r.PackName); err != nil {
				yield(Row{}, fmt.Errorf("index: scan: %w", err))
				return
			}
			if !yield(r, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(Row{}, fmt.Errorf("index: query: %w", err))
		}
	}
}

// Close closes the database.
func (idx *Index) Close() error {
	return idx.db.Close()
}
