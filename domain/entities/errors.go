package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRange is returned when a ticket range has its initial sequence above its final sequence
	ErrInvalidRange = errors.New("invalid ticket range")

	// ErrRangeTooLarge is returned when a ticket range holds more than MaxRangeSize numbers.
	// It matches ErrInvalidRange as well.
	ErrRangeTooLarge = fmt.Errorf("%w: too many numbers", ErrInvalidRange)

	// ErrInvalidEvent is returned when a raffle event fails validation
	ErrInvalidEvent = errors.New("invalid raffle event")

	// ErrEventNotFound is returned when a raffle event does not exist
	ErrEventNotFound = errors.New("raffle event not found")

	// ErrPageOutOfRange is returned when a ticket grid page does not exist for an event
	ErrPageOutOfRange = errors.New("page out of range")
)
