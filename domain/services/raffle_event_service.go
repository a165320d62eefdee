package services

import (
	"context"
	"fmt"
	"strings"

	"rifa/domain/clock"
	"rifa/domain/entities"
	"rifa/domain/interfaces"
	"rifa/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// raffleEventService implements the RaffleEventService interface
type raffleEventService struct {
	raffleEventRepo interfaces.RaffleEventRepository
	eventPublisher  interfaces.EventPublisher
	clock           clock.Clock
}

// NewRaffleEventService creates a new raffle event service
func NewRaffleEventService(
	raffleEventRepo interfaces.RaffleEventRepository,
	eventPublisher interfaces.EventPublisher,
	c clock.Clock,
) interfaces.RaffleEventService {
	if c == nil {
		c = clock.NewSystem()
	}
	return &raffleEventService{
		raffleEventRepo: raffleEventRepo,
		eventPublisher:  eventPublisher,
		clock:           c,
	}
}

// ListEvents returns every event, most recently created first
func (s *raffleEventService) ListEvents(ctx context.Context) ([]*entities.RaffleEvent, error) {
	list, err := s.raffleEventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list raffle events: %w", err)
	}
	return list, nil
}

// SearchEvents filters events by title or prize. An empty term lists everything.
func (s *raffleEventService) SearchEvents(ctx context.Context, term string) ([]*entities.RaffleEvent, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.ListEvents(ctx)
	}

	list, err := s.raffleEventRepo.Search(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search raffle events: %w", err)
	}
	return list, nil
}

// GetEvent returns the event or entities.ErrEventNotFound
func (s *raffleEventService) GetEvent(ctx context.Context, id string) (*entities.RaffleEvent, error) {
	event, err := s.raffleEventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get raffle event: %w", err)
	}
	if event == nil {
		return nil, fmt.Errorf("%w: %s", entities.ErrEventNotFound, id)
	}
	return event, nil
}

// SaveEvent validates and upserts the event
func (s *raffleEventService) SaveEvent(ctx context.Context, event *entities.RaffleEvent) (*entities.RaffleEvent, error) {
	if event == nil {
		return nil, fmt.Errorf("%w: missing event", entities.ErrInvalidEvent)
	}

	event.Title = strings.TrimSpace(event.Title)
	if err := event.Validate(); err != nil {
		return nil, err
	}

	created := false
	if event.ID == "" {
		event.ID = uuid.New().String()
		created = true
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = s.clock.Now()
	}

	if err := s.raffleEventRepo.Upsert(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to save raffle event: %w", err)
	}

	if err := s.eventPublisher.Publish(events.RaffleEventSavedEvent{
		EventID:    event.ID,
		Title:      event.Title,
		InitialSeq: event.InitialSeq,
		FinalSeq:   event.FinalSeq,
		Created:    created,
	}); err != nil {
		log.WithFields(log.Fields{
			"eventId": event.ID,
			"error":   err,
		}).Error("Failed to publish raffle event saved")
	}

	return event, nil
}

// DuplicateEvent stores a copy of an existing event under a new ID
func (s *raffleEventService) DuplicateEvent(ctx context.Context, id string) (*entities.RaffleEvent, error) {
	source, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.SaveEvent(ctx, source.CloneAsNew())
}

// DeleteEvent removes the event or returns entities.ErrEventNotFound
func (s *raffleEventService) DeleteEvent(ctx context.Context, id string) error {
	deleted, err := s.raffleEventRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete raffle event: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: %s", entities.ErrEventNotFound, id)
	}

	if err := s.eventPublisher.Publish(events.RaffleEventDeletedEvent{EventID: id}); err != nil {
		log.WithFields(log.Fields{
			"eventId": id,
			"error":   err,
		}).Error("Failed to publish raffle event deleted")
	}
	return nil
}
