package application

import (
	"context"
	"testing"
	"time"

	"rifa/domain/clock"
	"rifa/domain/entities"
	"rifa/events"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 5, 10, 14, 0, 0, 0, time.UTC)

func newEvent() *entities.RaffleEvent {
	return &entities.RaffleEvent{
		Title:      "Rifa do Time",
		DrawDate:   testNow.Add(72 * time.Hour),
		Value:      decimal.NewFromInt(5),
		Prize:      "Camisa oficial",
		InitialSeq: 1,
		FinalSeq:   100,
	}
}

func TestRaffleEvents_SaveCommitsAndPublishes(t *testing.T) {
	factory := newFakeUnitOfWorkFactory()
	factory.repo.On("Upsert", mock.Anything, mock.AnythingOfType("*entities.RaffleEvent")).Return(nil)

	manager := NewRaffleEvents(factory, clock.NewManual(testNow))

	saved, err := manager.Save(context.Background(), newEvent())
	require.NoError(t, err)

	assert.NotEmpty(t, saved.ID)
	assert.True(t, testNow.Equal(saved.CreatedAt))

	uow := factory.last()
	assert.True(t, uow.began)
	assert.True(t, uow.committed)
	assert.False(t, uow.rolledBack)
	assert.Equal(t, []events.EventType{events.EventTypeRaffleEventSaved}, factory.publisher.types())
}

func TestRaffleEvents_InvalidEventRollsBack(t *testing.T) {
	factory := newFakeUnitOfWorkFactory()
	manager := NewRaffleEvents(factory, clock.NewManual(testNow))

	invalid := newEvent()
	invalid.InitialSeq, invalid.FinalSeq = 50, 10

	_, err := manager.Save(context.Background(), invalid)
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrInvalidRange)

	uow := factory.last()
	assert.True(t, uow.rolledBack)
	assert.False(t, uow.committed)
	assert.Empty(t, factory.publisher.types(), "no events leave a rolled back unit of work")
	factory.repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestRaffleEvents_DeleteMissing(t *testing.T) {
	factory := newFakeUnitOfWorkFactory()
	factory.repo.On("Delete", mock.Anything, "missing").Return(false, nil)

	err := NewRaffleEvents(factory, nil).Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, entities.ErrEventNotFound)
	assert.True(t, factory.last().rolledBack)
}

func TestRaffleEvents_BeginFailure(t *testing.T) {
	factory := newFakeUnitOfWorkFactory()
	factory.beginErr = errBoom

	_, err := NewRaffleEvents(factory, nil).List(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "failed to begin transaction")
}

func TestRaffleEvents_ListAndSearch(t *testing.T) {
	factory := newFakeUnitOfWorkFactory()
	first, second := newEvent(), newEvent()
	first.ID, second.ID = "a", "b"

	factory.repo.On("List", mock.Anything).Return([]*entities.RaffleEvent{first, second}, nil)
	factory.repo.On("Search", mock.Anything, "camisa").Return([]*entities.RaffleEvent{second}, nil)
	factory.repo.On("GetByID", mock.Anything, "b").Return(second, nil)

	manager := NewRaffleEvents(factory, nil)
	ctx := context.Background()

	list, err := manager.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	found, err := manager.Search(ctx, "  camisa ")
	require.NoError(t, err)
	assert.Equal(t, []*entities.RaffleEvent{second}, found)

	all, err := manager.Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	got, err := manager.Get(ctx, "b")
	require.NoError(t, err)
	assert.Same(t, second, got)
}

func TestRaffleEvents_Duplicate(t *testing.T) {
	factory := newFakeUnitOfWorkFactory()
	original := newEvent()
	original.ID = "orig"
	original.CreatedAt = testNow.Add(-time.Hour)

	factory.repo.On("GetByID", mock.Anything, "orig").Return(original, nil)
	factory.repo.On("Upsert", mock.Anything, mock.AnythingOfType("*entities.RaffleEvent")).Return(nil)

	copied, err := NewRaffleEvents(factory, clock.NewManual(testNow)).Duplicate(context.Background(), "orig")
	require.NoError(t, err)

	assert.NotEqual(t, "orig", copied.ID)
	assert.Equal(t, original.Title, copied.Title)
	assert.True(t, testNow.Equal(copied.CreatedAt))
	assert.True(t, factory.last().committed)
}
