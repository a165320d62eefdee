package entities

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEvent() *RaffleEvent {
	event := NewRaffleEventDraft()
	event.Title = "Rifa da Escola"
	event.Prize = "Bicicleta"
	event.DrawDate = time.Date(2026, 12, 20, 0, 0, 0, 0, time.UTC)
	return event
}

func TestNewRaffleEventDraft_Defaults(t *testing.T) {
	t.Parallel()

	event := NewRaffleEventDraft()

	assert.True(t, event.Value.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 1, event.InitialSeq)
	assert.Equal(t, 999, event.FinalSeq)
}

func TestRaffleEvent_Validate(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	beforeStart := start.Add(-24 * time.Hour)

	tests := []struct {
		name        string
		mutate      func(e *RaffleEvent)
		wantErr     error
		errContains string
	}{
		{
			name:   "valid event",
			mutate: func(e *RaffleEvent) {},
		},
		{
			name:        "missing title",
			mutate:      func(e *RaffleEvent) { e.Title = "" },
			wantErr:     ErrInvalidEvent,
			errContains: "Title",
		},
		{
			name:        "missing draw date",
			mutate:      func(e *RaffleEvent) { e.DrawDate = time.Time{} },
			wantErr:     ErrInvalidEvent,
			errContains: "DrawDate",
		},
		{
			name:    "negative value",
			mutate:  func(e *RaffleEvent) { e.Value = decimal.NewFromInt(-1) },
			wantErr: ErrInvalidEvent,
		},
		{
			name: "end date before start date",
			mutate: func(e *RaffleEvent) {
				e.StartDate = &start
				e.EndDate = &beforeStart
			},
			wantErr: ErrInvalidEvent,
		},
		{
			name: "reversed range",
			mutate: func(e *RaffleEvent) {
				e.InitialSeq = 10
				e.FinalSeq = 5
			},
			wantErr: ErrInvalidRange,
		},
		{
			name: "largest allowed range",
			mutate: func(e *RaffleEvent) {
				e.InitialSeq = 1
				e.FinalSeq = MaxRangeSize
			},
		},
		{
			name: "range over the ticket limit",
			mutate: func(e *RaffleEvent) {
				e.InitialSeq = 0
				e.FinalSeq = MaxTicketNumber
			},
			wantErr: ErrRangeTooLarge,
		},
		{
			name: "number beyond the stored column type",
			mutate: func(e *RaffleEvent) {
				e.InitialSeq = MaxTicketNumber + 1
				e.FinalSeq = MaxTicketNumber + 10
			},
			wantErr:     ErrInvalidEvent,
			errContains: "InitialSeq (lte)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			event := validEvent()
			tt.mutate(event)

			err := event.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))
			if tt.errContains != "" {
				assert.Contains(t, err.Error(), tt.errContains)
			}
		})
	}
}

func TestRaffleEvent_TotalPages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		initialSeq int
		finalSeq   int
		perPage    int
		want       int
	}{
		{name: "exact pages", initialSeq: 1, finalSeq: 50, perPage: 25, want: 2},
		{name: "partial last page", initialSeq: 1, finalSeq: 999, perPage: 25, want: 40},
		{name: "single ticket", initialSeq: 5, finalSeq: 5, perPage: 25, want: 1},
		{name: "non positive page size uses default", initialSeq: 1, finalSeq: 26, perPage: 0, want: 2},
		{name: "saturated size does not wrap", initialSeq: 0, finalSeq: math.MaxInt, perPage: 25, want: math.MaxInt/25 + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			event := &RaffleEvent{InitialSeq: tt.initialSeq, FinalSeq: tt.finalSeq}
			assert.Equal(t, tt.want, event.TotalPages(tt.perPage))
		})
	}
}

func TestRaffleEvent_CloneAsNew(t *testing.T) {
	t.Parallel()

	event := validEvent()
	event.ID = "abc"
	event.CreatedAt = time.Now()
	event.HeaderImage = []byte{1, 2, 3}

	clone := event.CloneAsNew()

	assert.Empty(t, clone.ID)
	assert.True(t, clone.CreatedAt.IsZero())
	assert.Equal(t, event.Title, clone.Title)
	assert.Equal(t, event.HeaderImage, clone.HeaderImage)

	clone.HeaderImage[0] = 9
	assert.Equal(t, byte(1), event.HeaderImage[0])
}

func TestRaffleEvent_MatchesSearch(t *testing.T) {
	t.Parallel()

	event := validEvent()

	assert.True(t, event.MatchesSearch(""))
	assert.True(t, event.MatchesSearch("escola"))
	assert.True(t, event.MatchesSearch("BICI"))
	assert.False(t, event.MatchesSearch("carro"))
}

func TestRaffleEvent_Slot(t *testing.T) {
	t.Parallel()

	event := validEvent()
	slot := event.Slot(42)

	assert.Equal(t, 42, slot.Number)
	assert.Equal(t, "Bicicleta", slot.Prize)
	assert.True(t, slot.Value.Equal(event.Value))
	assert.False(t, event.HasHeaderImage())
}
