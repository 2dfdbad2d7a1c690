// Package sizing provides safe span arithmetic for index offsets and sizes.
package sizing

import (
	"errors"
	"math"
)

// ErrSizeOverflow is returned when an offset or size is negative or does not
// fit the platform's integer types.
var ErrSizeOverflow = errors.New("rsdk: size overflow")

// Span converts an index row's offset and size into an absolute file
// position and a buffer length, adding skip to the offset.
func Span(offset, size, skip int64) (pos int64, n int, err error) {
	if offset < 0 || size < 0 || skip < 0 {
		return 0, 0, ErrSizeOverflow
	}
	pos, ok := AddInt64(offset, skip)
	if !ok {
		return 0, 0, ErrSizeOverflow
	}
	if _, ok := AddInt64(pos, size); !ok {
		return 0, 0, ErrSizeOverflow
	}
	n, err = ToInt(size)
	if err != nil {
		return 0, 0, err
	}
	return pos, n, nil
}

// ToInt converts a non-negative int64 to int.
func ToInt(size int64) (int, error) {
	if size < 0 || uint64(size) > uint64(math.MaxInt) {
		return 0, ErrSizeOverflow
	}
	return int(size), nil
}

// AddInt64 adds two non-negative int64 values, returning (0, false) on overflow.
func AddInt64(a, b int64) (int64, bool) {
	if a < 0 || b < 0 || a > math.MaxInt64-b {
		return 0, false
	}
	return a + b, true
}
