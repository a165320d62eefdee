package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllNumbers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []int{1, 2, 3, 4, 5}, AllNumbers(Range{InitialSeq: 1, FinalSeq: 5}))
	assert.Equal(t, []int{7}, AllNumbers(Range{InitialSeq: 7, FinalSeq: 7}))
	assert.Empty(t, AllNumbers(Range{InitialSeq: 5, FinalSeq: 3}))
}

func TestAvailable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		r         Range
		history   []int
		want      []int
		soldOut   bool
		available int
	}{
		{
			name:      "empty history returns the whole range",
			r:         Range{InitialSeq: 1, FinalSeq: 5},
			history:   nil,
			want:      []int{1, 2, 3, 4, 5},
			available: 5,
		},
		{
			name:      "drawn numbers are excluded and order is kept",
			r:         Range{InitialSeq: 1, FinalSeq: 5},
			history:   []int{4, 1},
			want:      []int{2, 3, 5},
			available: 3,
		},
		{
			name:      "numbers outside the range are ignored",
			r:         Range{InitialSeq: 1, FinalSeq: 3},
			history:   []int{99, 2},
			want:      []int{1, 3},
			available: 2,
		},
		{
			name:      "every number drawn",
			r:         Range{InitialSeq: 5, FinalSeq: 5},
			history:   []int{5},
			want:      []int{},
			soldOut:   true,
			available: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Available(tt.r, tt.history))
			assert.Equal(t, tt.available, AvailableCount(tt.r, tt.history))
			assert.Equal(t, tt.soldOut, IsSoldOut(tt.r, tt.history))
		})
	}
}
