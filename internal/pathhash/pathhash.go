// Package pathhash computes the path hashes stored in RSDK pack indexes.
//
// The index stores the MD5 digest of each entry's original relative path,
// rendered as lowercase hex. Hashing performs no normalisation: the engine
// hashed lower-cased file paths, so callers fold case before calling Sum.
package pathhash

import (
	"crypto/md5" //nolint:gosec // MD5 is the archive's identity scheme, not a security boundary
	"encoding/hex"
)

// Size is the length of a rendered hash in characters.
const Size = md5.Size * 2

// Sum returns the lowercase hex MD5 digest of data.
func Sum(data []byte) string {
	sum := md5.Sum(data) //nolint:gosec // see package import
	return hex.EncodeToString(sum[:])
}

// String returns the lowercase hex MD5 digest of s.
func String(s string) string {
	return Sum([]byte(s))
}
