package pathhash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString_KnownVectors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"", "d41d8cd98f00b204e9800998ecf8427e"},
		{"a", "0cc175b9c0f1b6a831c399e269772661"},
		{"abc", "900150983cd24fb0d6963f7d28e17f72"},
		{"message digest", "f96b697d7cb7938d525a2f31aaf161d0"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, String(tt.in))
			assert.Equal(t, tt.want, Sum([]byte(tt.in)))
		})
	}
}

func TestString_NoNormalisation(t *testing.T) {
	t.Parallel()

	upper := String("Sounds/Jump.wav")
	lower := String("sounds/jump.wav")

	assert.NotEqual(t, upper, lower)
	assert.Equal(t, lower, String(strings.ToLower("Sounds/Jump.wav")))
}

func TestString_Format(t *testing.T) {
	t.Parallel()

	got := String("Data/Game/GameConfig.bin")
	assert.Len(t, got, Size)
	assert.Equal(t, strings.ToLower(got), got)
}
