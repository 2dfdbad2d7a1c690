// Package testutil builds index databases, data packs and name lists for tests.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stxticOVFL/rsdkv6-extract/internal/pack"
)

// WritePack writes data pack id into dir: a zeroed header followed by the
// payloads back to back. It returns each payload's index offset.
func WritePack(tb testing.TB, dir string, id int64, payloads ...[]byte) []int64 {
	tb.Helper()

	var buf bytes.Buffer
	buf.Write(make([]byte, pack.HeaderSize))
	offsets := make([]int64, 0, len(payloads))
	for _, p := range payloads {
		offsets = append(offsets, int64(buf.Len()-pack.HeaderSize))
		buf.Write(p)
	}

	path := filepath.Join(dir, pack.FileName(id))
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		tb.Fatalf("write pack %d: %v", id, err)
	}
	return offsets
}

// WriteList writes a newline-separated name list to dir/name and returns its path.
func WriteList(tb testing.TB, dir, name string, lines ...string) string {
	tb.Helper()

	path := filepath.Join(dir, name)
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		tb.Fatalf("write list %s: %v", name, err)
	}
	return path
}
