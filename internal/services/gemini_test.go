package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateUTF8(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short text untouched", "résumé", 40, "résumé"},
		{"ascii cut", "abcdef", 3, "abc"},
		{"cut inside two-byte rune", "aé", 2, "a"},
		{"cut inside three-byte rune", "ab日本", 4, "ab"},
		{"cut on rune boundary", "ab日本", 5, "ab日"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateUTF8(tt.in, tt.max)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestTruncateUTF8_EmbedWindow(t *testing.T) {
	text := strings.Repeat("a", maxEmbedChars-1) + "日本語"

	got := truncateUTF8(text, maxEmbedChars)

	assert.True(t, utf8.ValidString(got))
	assert.Len(t, got, maxEmbedChars-1)
}
