package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{"short", "rifa", 10, "rifa"},
		{"exact", "rifa", 4, "rifa"},
		{"cut", "sorteio", 5, "sort…"},
		{"multibyte", "ação entre amigos", 5, "ação…"},
		{"tiny", "abc", 1, "…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, Truncate(tt.input, tt.max))
		})
	}
}

func TestOrDash(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "-", OrDash("   "))
	assert.Equal(t, "Praça", OrDash("Praça"))
}

func TestFormatDiscordTimestamp(t *testing.T) {
	t.Parallel()

	ts := time.Unix(1700000000, 0)
	assert.Equal(t, "<t:1700000000:d>", FormatDiscordTimestamp(ts, "d"))
}
