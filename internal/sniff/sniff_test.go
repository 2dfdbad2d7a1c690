package sniff

import (
	"bytes"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipPayload(t *testing.T, name string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Name = name
	_, err := zw.Write([]byte("PVR texture data"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// gzipHeader returns a gzip member header with the given compression method
// and flags, followed by rest.
func gzipHeader(method, flags byte, rest string) []byte {
	return append([]byte{0x1f, 0x8b, method, flags, 0, 0, 0, 0, 0, 0xff}, rest...)
}

func TestClassify_Signatures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload []byte
		want    string
	}{
		{name: "midi", payload: []byte("MThd\x00\x00\x00\x06"), want: ".mid"},
		{name: "gpu", payload: []byte("GPU\x00rest"), want: ".bin.gpu"},
		{name: "palette", payload: []byte("PAL\x00rest"), want: ".bin.pal"},
		{name: "model v0", payload: []byte("MDL\x00rest"), want: ".bin.mdl"},
		{name: "model v1", payload: []byte("MDL\x01rest"), want: ".bin.mdl"},
		{name: "model v2", payload: []byte("MDL\x02rest"), want: ".bin.mdl"},
		{name: "model v3 unknown", payload: []byte("MDL\x03rest"), want: ""},
		{name: "layer v0", payload: []byte("LYR\x00rest"), want: ".bin.lyr"},
		{name: "layer v1", payload: []byte("LYR\x01rest"), want: ".bin.lyr"},
		{name: "layer v2", payload: []byte("LYR\x02rest"), want: ".bin.lyr"},
		{name: "wave", payload: []byte("RIFF\x24\x00\x00\x00WAVEfmt "), want: ".wav"},
		{name: "ogg", payload: []byte("OggS\x00\x02"), want: ".ogg"},
		{name: "sqlite", payload: []byte("SQLite format 3\x00"), want: ".db"},
		{name: "animation", payload: []byte("ANI\x00rest"), want: ".bin.ani"},
		{name: "sprite", payload: []byte("SPR\x01rest"), want: ".bin.spr"},
		{name: "sprite v0 unknown", payload: []byte("SPR\x00rest"), want: ""},
		{name: "effects", payload: []byte("VFX\x00rest"), want: ".bin.vfx"},
		{name: "ivf", payload: []byte("DKIF\x00\x00"), want: ".ivf"},
		{name: "compiled script", payload: []byte("COM\x00rest"), want: ".bin.com"},
		{name: "gzip without name", payload: []byte{0x1f, 0x8b, 0x08, 0x00, 0, 0, 0, 0, 0, 0xff}, want: ".pvr.gz"},
		{name: "json object", payload: []byte(`{"objects": ["Ring", "Spring"]}`), want: ".cfg"},
		{name: "json array", payload: []byte(` [1, 2, 3] `), want: ".cfg"},
		{name: "json scalar", payload: []byte(`1234`), want: ".cfg"},
		{name: "text", payload: []byte("plain text file"), want: ""},
		{name: "binary", payload: []byte{0x00, 0x01, 0x02, 0x03, 0x04}, want: ""},
		{name: "invalid utf8 json", payload: []byte("\"\xff\xfe\""), want: ""},
		{name: "short", payload: []byte("MT"), want: ""},
		{name: "empty", payload: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Classify(tt.payload)
			assert.Equal(t, tt.want, got.Ext)
			assert.Empty(t, got.Name)
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	t.Parallel()

	payloads := [][]byte{
		[]byte("RIFFxxxxWAVEfmt "),
		[]byte("OggSxxxx"),
		[]byte(`{"a":1}`),
		[]byte("nothing"),
	}
	first := make([]Result, len(payloads))
	for i, p := range payloads {
		first[i] = Classify(p)
	}
	for i := len(payloads) - 1; i >= 0; i-- {
		assert.Equal(t, first[i], Classify(payloads[i]))
	}
}

func TestSignatures_Unambiguous(t *testing.T) {
	t.Parallel()

	for i, a := range Signatures {
		for j, b := range Signatures {
			if i == j {
				continue
			}
			assert.False(t, bytes.HasPrefix(a.Magic, b.Magic),
				"signature %q shadows %q", b.Magic, a.Magic)
		}
	}
}

func TestClassify_GzipName(t *testing.T) {
	t.Parallel()

	payload := gzipPayload(t, "Title.pvr")
	require.Equal(t, byte(0x08), payload[3])

	got := Classify(payload)
	assert.Equal(t, ".pvr.gz", got.Ext)
	assert.Equal(t, "Title.pvr", got.Name)
}

func TestGzipName(t *testing.T) {
	t.Parallel()

	t.Run("fits window", func(t *testing.T) {
		t.Parallel()
		name := strings.Repeat("a", 53)
		assert.Equal(t, name, GzipName(gzipPayload(t, name)))
	})

	t.Run("longer than window", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, GzipName(gzipPayload(t, strings.Repeat("a", 54))))
	})

	t.Run("flag clear", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, GzipName(gzipPayload(t, "")))
	})

	t.Run("truncated", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, GzipName([]byte{0x1f, 0x8b, 0x08, 0x08, 0, 0, 0, 0, 0, 0xff, 'a', 'b'}))
	})

	t.Run("any compression method", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Title.pvr", GzipName(gzipHeader(0x00, 0x08, "Title.pvr\x00")))
	})

	t.Run("utf8 name kept verbatim", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Tétulo.pvr", GzipName(gzipHeader(0x08, 0x08, "Tétulo.pvr\x00")))
	})

	t.Run("invalid utf8 dropped", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, GzipName(gzipHeader(0x08, 0x08, "a\xe9b\x00")))
	})

	t.Run("fixed offset with extra flag", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Title.pvr", GzipName(gzipHeader(0x08, 0x0c, "Title.pvr\x00")))
	})

	t.Run("flag combined with others", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Title.pvr", GzipName(gzipHeader(0x08, 0x0b, "Title.pvr\x00")))
	})

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, GzipName(gzipHeader(0x08, 0x08, "\x00")))
	})

	t.Run("short", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, GzipName([]byte{0x1f, 0x8b}))
	})
}
