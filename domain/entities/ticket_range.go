package entities

import (
	"fmt"
	"math"
)

// MaxRangeSize is the most ticket numbers a single raffle may hold
const MaxRangeSize = 100_000

// Range is the closed interval of valid ticket numbers for a raffle
type Range struct {
	InitialSeq int `json:"initial_seq"`
	FinalSeq   int `json:"final_seq"`
}

// InvalidRangeError reports a range whose bounds are reversed
type InvalidRangeError struct {
	InitialSeq int
	FinalSeq   int
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid ticket range: initial sequence %d is greater than final sequence %d", e.InitialSeq, e.FinalSeq)
}

// Unwrap lets callers match with errors.Is(err, ErrInvalidRange)
func (e *InvalidRangeError) Unwrap() error {
	return ErrInvalidRange
}

// NewRange builds a validated range
func NewRange(initialSeq, finalSeq int) (Range, error) {
	r := Range{InitialSeq: initialSeq, FinalSeq: finalSeq}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

// Validate returns an *InvalidRangeError when InitialSeq > FinalSeq and
// ErrRangeTooLarge when the range holds more than MaxRangeSize numbers.
func (r Range) Validate() error {
	if r.InitialSeq > r.FinalSeq {
		return &InvalidRangeError{InitialSeq: r.InitialSeq, FinalSeq: r.FinalSeq}
	}
	if r.span() >= MaxRangeSize {
		return fmt.Errorf("%w: %s holds more than %d numbers", ErrRangeTooLarge, r, MaxRangeSize)
	}
	return nil
}

// Size returns how many ticket numbers the range holds, saturating at math.MaxInt
func (r Range) Size() int {
	if r.InitialSeq > r.FinalSeq {
		return 0
	}
	span := r.span()
	if span >= math.MaxInt {
		return math.MaxInt
	}
	return int(span) + 1
}

// span is FinalSeq - InitialSeq without overflow. Only meaningful when InitialSeq <= FinalSeq.
func (r Range) span() uint64 {
	return uint64(r.FinalSeq) - uint64(r.InitialSeq)
}

// Contains reports whether n is a valid ticket number for the range
func (r Range) Contains(n int) bool {
	return n >= r.InitialSeq && n <= r.FinalSeq
}

func (r Range) String() string {
	return fmt.Sprintf("%d a %d", r.InitialSeq, r.FinalSeq)
}
