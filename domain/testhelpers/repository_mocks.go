package testhelpers

import (
	"context"

	"rifa/domain/entities"
	"rifa/events"

	"github.com/stretchr/testify/mock"
)

// MockRaffleEventRepository is a mock implementation of RaffleEventRepository
type MockRaffleEventRepository struct {
	mock.Mock
}

func (m *MockRaffleEventRepository) GetByID(ctx context.Context, id string) (*entities.RaffleEvent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RaffleEvent), args.Error(1)
}

func (m *MockRaffleEventRepository) List(ctx context.Context) ([]*entities.RaffleEvent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.RaffleEvent), args.Error(1)
}

func (m *MockRaffleEventRepository) Search(ctx context.Context, term string) ([]*entities.RaffleEvent, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.RaffleEvent), args.Error(1)
}

func (m *MockRaffleEventRepository) Upsert(ctx context.Context, event *entities.RaffleEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockRaffleEventRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}
