// Package dict loads candidate name lists and indexes them by path hash.
//
// A list holds one candidate name per line. Text from the first comment
// marker ("--") onward is discarded, and blank or comment-only lines are
// ignored. Each surviving name is hashed with pathhash, optionally after
// lower-casing, and stored under that hash together with a matched flag.
package dict

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/stxticOVFL/rsdkv6-extract/internal/pathhash"
)

// CommentMarker starts a comment that runs to the end of the line.
const CommentMarker = "--"

// Entry is a candidate name keyed by its hash.
type Entry struct {
	Hash string
	Name string
	Used bool
}

// Dictionary maps path hashes to candidate names.
//
// Entries keep the position of the first line that produced their hash, so
// reports built from Unused and Entries are stable across runs.
type Dictionary struct {
	fold    bool
	entries map[string]*Entry
	order   []string
}

// New returns an empty dictionary. When fold is true, names are lower-cased
// before hashing.
func New(fold bool) *Dictionary {
	return &Dictionary{
		fold:    fold,
		entries: make(map[string]*Entry),
	}
}

// LoadFile reads a candidate list from path.
func LoadFile(path string, fold bool) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dict: %w", err)
	}
	defer f.Close()

	d, err := Load(f, fold)
	if err != nil {
		return nil, fmt.Errorf("dict: %s: %w", path, err)
	}
	return d, nil
}

// Load reads a candidate list from r.
//
// Lines that are not valid UTF-8 are skipped.
func Load(r io.Reader, fold bool) (*Dictionary, error) {
	d := New(fold)
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 && utf8.ValidString(line) {
			d.Add(line)
		}
		if errors.Is(err, io.EOF) {
			return d, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// Add parses one list line and inserts the name it carries, if any.
// It reports whether a name was inserted.
//
// A later name with the same hash replaces the earlier one.
func (d *Dictionary) Add(line string) bool {
	name, ok := ParseLine(line)
	if !ok {
		return false
	}

	key := name
	if d.fold {
		key = strings.ToLower(name)
	}
	hash := pathhash.String(key)

	if e, exists := d.entries[hash]; exists {
		e.Name = name
		return true
	}
	d.entries[hash] = &Entry{Hash: hash, Name: name}
	d.order = append(d.order, hash)
	return true
}

// ParseLine strips comments and surrounding whitespace from a list line.
// It returns false when nothing is left.
func ParseLine(line string) (string, bool) {
	name, _, _ := strings.Cut(line, CommentMarker)
	name = strings.TrimSpace(name)
	if name == "" || strings.HasPrefix(name, CommentMarker) {
		return "", false
	}
	return name, true
}

// Len returns the number of distinct hashes.
func (d *Dictionary) Len() int {
	return len(d.entries)
}

// Lookup returns a copy of the entry for hash.
func (d *Dictionary) Lookup(hash string) (Entry, bool) {
	e, ok := d.entries[hash]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Name returns the candidate name for hash.
func (d *Dictionary) Name(hash string) (string, bool) {
	e, ok := d.entries[hash]
	if !ok {
		return "", false
	}
	return e.Name, true
}

// Mark flags the entry for hash as matched.
// It returns false if hash is not in the dictionary.
func (d *Dictionary) Mark(hash string) bool {
	e, ok := d.entries[hash]
	if !ok {
		return false
	}
	e.Used = true
	return true
}

// Entries returns an iterator over copies of all entries in insertion order.
func (d *Dictionary) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, hash := range d.order {
			if !yield(*d.entries[hash]) {
				return
			}
		}
	}
}

// Unused returns the entries never passed to Mark, in insertion order.
// The result is a snapshot owned by the caller.
func (d *Dictionary) Unused() []Entry {
	var unused []Entry
	for e := range d.Entries() {
		if !e.Used {
			unused = append(unused, e)
		}
	}
	return unused
}
