package display

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"The Fellowship of the Ring", 17, "The Fellowship..."},
		{"abcdef", 2, "ab"},
		{"Cien años de soledad", 9, "Cien a..."},
		{"añoñoño", 7, "añoñoño"},
		{"ñññññ", 3, "ñññ"},
	}
	for _, tt := range tests {
		got := Truncate(tt.in, tt.maxLen)
		assert.Equal(t, tt.want, got, "Truncate(%q, %d)", tt.in, tt.maxLen)
		assert.True(t, utf8.ValidString(got))
	}
}
