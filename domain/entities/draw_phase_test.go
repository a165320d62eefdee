package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDrawPhase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		phase        DrawPhase
		inFlight     bool
		acceptsStart bool
	}{
		{phase: DrawPhaseIdle, inFlight: false, acceptsStart: true},
		{phase: DrawPhaseSpinning, inFlight: true, acceptsStart: false},
		{phase: DrawPhaseRevealing, inFlight: true, acceptsStart: false},
		{phase: DrawPhaseResolved, inFlight: false, acceptsStart: true},
		{phase: DrawPhaseClosed, inFlight: false, acceptsStart: false},
	}

	for _, tt := range tests {
		t.Run(string(tt.phase), func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.inFlight, tt.phase.IsInFlight())
			assert.Equal(t, tt.acceptsStart, tt.phase.AcceptsStart())
		})
	}
}
