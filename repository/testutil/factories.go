package testutil

import (
	"time"

	"rifa/domain/entities"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateTestRaffleEvent creates a raffle event with sensible defaults
func CreateTestRaffleEvent(title string) *entities.RaffleEvent {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &entities.RaffleEvent{
		ID:          uuid.New().String(),
		Title:       title,
		Description: "Evento de teste",
		Location:    "Salão Paroquial",
		DrawDate:    now.Add(7 * 24 * time.Hour),
		Value:       decimal.RequireFromString("10.00"),
		Prize:       "Bicicleta",
		InitialSeq:  1,
		FinalSeq:    100,
		CreatedAt:   now,
	}
}

// CreateTestRaffleEventAt creates a raffle event with a specific creation time
func CreateTestRaffleEventAt(title string, createdAt time.Time) *entities.RaffleEvent {
	event := CreateTestRaffleEvent(title)
	event.CreatedAt = createdAt.UTC().Truncate(time.Microsecond)
	return event
}
