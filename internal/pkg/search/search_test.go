package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeILIKE(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "go", want: "%go%"},
		{in: "100%", want: `%100\%%`},
		{in: "my_var", want: `%my\_var%`},
		{in: `path\file`, want: `%path\\file%`},
		{in: "", want: "%%"},
		{in: "日本語", want: "%日本語%"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeILIKE(tt.in))
		})
	}
}

func TestHasTerm(t *testing.T) {
	assert.False(t, HasTerm(""))
	assert.False(t, HasTerm("  \t"))
	assert.True(t, HasTerm(" go "))
}
