package entities

// DrawPhase represents the current step of a draw session
type DrawPhase string

const (
	DrawPhaseIdle      DrawPhase = "idle"
	DrawPhaseSpinning  DrawPhase = "spinning"
	DrawPhaseRevealing DrawPhase = "revealing"
	DrawPhaseResolved  DrawPhase = "resolved"
	DrawPhaseClosed    DrawPhase = "closed"
)

// IsInFlight returns true while a spin/reveal cycle is running
func (p DrawPhase) IsInFlight() bool {
	return p == DrawPhaseSpinning || p == DrawPhaseRevealing
}

// AcceptsStart returns true for the phases a new draw may start from
func (p DrawPhase) AcceptsStart() bool {
	return p == DrawPhaseIdle || p == DrawPhaseResolved
}
