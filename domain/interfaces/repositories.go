package interfaces

import (
	"context"

	"rifa/domain/entities"
	"rifa/events"
)

// RaffleEventRepository defines the interface for raffle event storage
type RaffleEventRepository interface {
	// GetByID retrieves an event by ID. Returns nil, nil when it does not exist.
	GetByID(ctx context.Context, id string) (*entities.RaffleEvent, error)

	// List returns every event, most recently created first
	List(ctx context.Context) ([]*entities.RaffleEvent, error)

	// Search returns events whose title or prize contains term, ignoring case
	Search(ctx context.Context, term string) ([]*entities.RaffleEvent, error)

	// Upsert inserts the event or replaces the stored one with the same ID
	Upsert(ctx context.Context, event *entities.RaffleEvent) error

	// Delete removes an event. Returns false when nothing was deleted.
	Delete(ctx context.Context, id string) (bool, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}
