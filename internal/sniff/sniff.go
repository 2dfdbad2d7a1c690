// Package sniff infers file extensions for unnamed payloads from their magic
// bytes.
package sniff

import (
	"bytes"
	"encoding/json"
	"unicode/utf8"
)

// ConfigExt is appended to payloads that parse as JSON.
const ConfigExt = ".cfg"

const (
	// gzipFlagName is the FNAME bit of the gzip FLG byte.
	gzipFlagName = 0x08

	// gzipNameStart is the offset of FNAME in a member header without FEXTRA.
	gzipNameStart = 10

	// nameWindow bounds the bytes inspected for an embedded gzip file name.
	nameWindow = 64
)

// Signature maps a payload prefix to an extension.
type Signature struct {
	Magic []byte
	Ext   string

	// Guess optionally extracts an embedded file name from a matching payload.
	Guess func(payload []byte) string
}

// Signatures is evaluated in order; the first matching prefix wins.
var Signatures = []Signature{
	{Magic: []byte("MThd"), Ext: ".mid"},
	{Magic: []byte{0x1f, 0x8b}, Ext: ".pvr.gz", Guess: GzipName},
	{Magic: []byte("GPU\x00"), Ext: ".bin.gpu"},
	{Magic: []byte("PAL\x00"), Ext: ".bin.pal"},
	{Magic: []byte("MDL\x00"), Ext: ".bin.mdl"},
	{Magic: []byte("MDL\x01"), Ext: ".bin.mdl"},
	{Magic: []byte("MDL\x02"), Ext: ".bin.mdl"},
	{Magic: []byte("LYR\x00"), Ext: ".bin.lyr"},
	{Magic: []byte("LYR\x01"), Ext: ".bin.lyr"},
	{Magic: []byte("LYR\x02"), Ext: ".bin.lyr"},
	{Magic: []byte("RIFF"), Ext: ".wav"},
	{Magic: []byte("OggS"), Ext: ".ogg"},
	{Magic: []byte("SQLi"), Ext: ".db"},
	{Magic: []byte("ANI\x00"), Ext: ".bin.ani"},
	{Magic: []byte("SPR\x01"), Ext: ".bin.spr"},
	{Magic: []byte("VFX\x00"), Ext: ".bin.vfx"},
	{Magic: []byte("DKIF"), Ext: ".ivf"},
	{Magic: []byte("COM\x00"), Ext: ".bin.com"},
}

// Result is the outcome of classifying a payload.
type Result struct {
	// Ext is the inferred extension including its leading dot, or "".
	Ext string

	// Name is a file name embedded in the payload, or "".
	Name string
}

// Classify returns the extension for payload.
//
// Payloads without a known signature get ConfigExt if they are valid UTF-8
// JSON, and no extension otherwise.
func Classify(payload []byte) Result {
	for _, sig := range Signatures {
		if !bytes.HasPrefix(payload, sig.Magic) {
			continue
		}
		res := Result{Ext: sig.Ext}
		if sig.Guess != nil {
			res.Name = sig.Guess(payload)
		}
		return res
	}

	if utf8.Valid(payload) && json.Valid(payload) {
		return Result{Ext: ConfigExt}
	}
	return Result{}
}

// GzipName returns the file name stored after a gzip member header's fixed
// fields.
//
// The name is the zero-terminated run starting at byte 10, looked for in the
// first 64 bytes only. The run is returned verbatim when it is non-empty
// valid UTF-8; otherwise, or when FNAME is clear, GzipName returns "".
func GzipName(payload []byte) string {
	if len(payload) <= gzipNameStart || payload[3]&gzipFlagName == 0 {
		return ""
	}
	window := payload[gzipNameStart:min(len(payload), nameWindow)]

	name, _, ok := bytes.Cut(window, []byte{0})
	if !ok || len(name) == 0 || !utf8.Valid(name) {
		return ""
	}
	return string(name)
}
