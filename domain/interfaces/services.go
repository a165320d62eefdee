package interfaces

import (
	"context"

	"rifa/domain/entities"
)

// RaffleEventService defines the interface for raffle event management
type RaffleEventService interface {
	// ListEvents returns every event, most recently created first
	ListEvents(ctx context.Context) ([]*entities.RaffleEvent, error)

	// SearchEvents filters events by title or prize
	SearchEvents(ctx context.Context, term string) ([]*entities.RaffleEvent, error)

	// GetEvent returns the event or entities.ErrEventNotFound
	GetEvent(ctx context.Context, id string) (*entities.RaffleEvent, error)

	// SaveEvent validates and stores the event. Events without an ID get a new
	// ID and creation time.
	SaveEvent(ctx context.Context, event *entities.RaffleEvent) (*entities.RaffleEvent, error)

	// DuplicateEvent stores a copy of an existing event under a new ID
	DuplicateEvent(ctx context.Context, id string) (*entities.RaffleEvent, error)

	// DeleteEvent removes the event or returns entities.ErrEventNotFound
	DeleteEvent(ctx context.Context, id string) error
}
