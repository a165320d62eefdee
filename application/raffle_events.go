package application

import (
	"context"
	"fmt"

	"rifa/domain/clock"
	"rifa/domain/entities"
	"rifa/domain/interfaces"
	"rifa/domain/services"
)

// RaffleEvents runs raffle event operations inside a unit of work so that
// events published by the service only leave the process after commit.
type RaffleEvents struct {
	uowFactory UnitOfWorkFactory
	clock      clock.Clock
}

// NewRaffleEvents creates the raffle event use cases
func NewRaffleEvents(uowFactory UnitOfWorkFactory, c clock.Clock) *RaffleEvents {
	if c == nil {
		c = clock.NewSystem()
	}
	return &RaffleEvents{uowFactory: uowFactory, clock: c}
}

// List returns every stored event, newest first
func (r *RaffleEvents) List(ctx context.Context) ([]*entities.RaffleEvent, error) {
	var list []*entities.RaffleEvent
	err := r.run(ctx, func(svc interfaces.RaffleEventService) error {
		var err error
		list, err = svc.ListEvents(ctx)
		return err
	})
	return list, err
}

// Search returns events whose title or prize contains term
func (r *RaffleEvents) Search(ctx context.Context, term string) ([]*entities.RaffleEvent, error) {
	var list []*entities.RaffleEvent
	err := r.run(ctx, func(svc interfaces.RaffleEventService) error {
		var err error
		list, err = svc.SearchEvents(ctx, term)
		return err
	})
	return list, err
}

// Get returns a single event or entities.ErrEventNotFound
func (r *RaffleEvents) Get(ctx context.Context, id string) (*entities.RaffleEvent, error) {
	var event *entities.RaffleEvent
	err := r.run(ctx, func(svc interfaces.RaffleEventService) error {
		var err error
		event, err = svc.GetEvent(ctx, id)
		return err
	})
	return event, err
}

// Save creates or updates an event
func (r *RaffleEvents) Save(ctx context.Context, event *entities.RaffleEvent) (*entities.RaffleEvent, error) {
	var saved *entities.RaffleEvent
	err := r.run(ctx, func(svc interfaces.RaffleEventService) error {
		var err error
		saved, err = svc.SaveEvent(ctx, event)
		return err
	})
	return saved, err
}

// Duplicate stores a copy of an event under a new ID
func (r *RaffleEvents) Duplicate(ctx context.Context, id string) (*entities.RaffleEvent, error) {
	var copied *entities.RaffleEvent
	err := r.run(ctx, func(svc interfaces.RaffleEventService) error {
		var err error
		copied, err = svc.DuplicateEvent(ctx, id)
		return err
	})
	return copied, err
}

// Delete removes an event
func (r *RaffleEvents) Delete(ctx context.Context, id string) error {
	return r.run(ctx, func(svc interfaces.RaffleEventService) error {
		return svc.DeleteEvent(ctx, id)
	})
}

func (r *RaffleEvents) run(ctx context.Context, fn func(svc interfaces.RaffleEventService) error) error {
	uow := r.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			uow.Rollback()
			panic(p)
		}
	}()

	svc := services.NewRaffleEventService(uow.RaffleEventRepository(), uow.EventBus(), r.clock)

	if err := fn(svc); err != nil {
		uow.Rollback()
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
