package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// TestPack is a row of the packs table.
type TestPack struct {
	ID   int64
	Name string
}

// TestFile is a row of the files table.
type TestFile struct {
	Path   string
	Pack   int64
	Offset int64
	Size   int64
}

const indexSchema = `
CREATE TABLE packs (
	id   INTEGER PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE files (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	path   TEXT NOT NULL,
	pack   INTEGER NOT NULL REFERENCES packs(id),
	"offset" INTEGER NOT NULL,
	size   INTEGER NOT NULL
);
`

// BuildIndex writes an index database with the given packs and files to path.
// Files are inserted in the order given; the index query sorts them.
func BuildIndex(tb testing.TB, path string, packs []TestPack, files []TestFile) {
	tb.Helper()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		tb.Fatalf("open index: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(indexSchema); err != nil {
		tb.Fatalf("create schema: %v", err)
	}
	for _, p := range packs {
		if _, err := db.Exec(`INSERT INTO packs (id, name) VALUES (?, ?)`, p.ID, p.Name); err != nil {
			tb.Fatalf("insert pack %d: %v", p.ID, err)
		}
	}
	for _, f := range files {
		if _, err := db.Exec(`INSERT INTO files (path, pack, "offset", size) VALUES (?, ?, ?, ?)`,
			f.Path, f.Pack, f.Offset, f.Size); err != nil {
			tb.Fatalf("insert file %s: %v", f.Path, err)
		}
	}
}
