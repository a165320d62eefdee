package infrastructure

import (
	"testing"

	"rifa/events"

	"github.com/stretchr/testify/assert"
)

type unknownEvent struct{}

func (unknownEvent) Type() events.EventType { return "mystery" }

func TestEventSubjectMapper_RoundTrip(t *testing.T) {
	t.Parallel()

	mapper := NewEventSubjectMapper()

	tests := []struct {
		event   events.Event
		subject string
	}{
		{events.RaffleEventSavedEvent{}, "rifa.event.saved"},
		{events.RaffleEventDeletedEvent{}, "rifa.event.deleted"},
		{events.DrawStartedEvent{}, "rifa.draw.started"},
		{events.DrawResolvedEvent{}, "rifa.draw.resolved"},
		{events.DrawExhaustedEvent{}, "rifa.draw.exhausted"},
		{events.DrawClosedEvent{}, "rifa.draw.closed"},
	}

	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.subject, mapper.MapEventToSubject(tt.event))
			assert.Equal(t, tt.event.Type(), mapper.MapSubjectToEventType(tt.subject))
		})
	}
}

func TestEventSubjectMapper_Unknown(t *testing.T) {
	t.Parallel()

	mapper := NewEventSubjectMapper()
	assert.Equal(t, "rifa.unknown.mystery", mapper.MapEventToSubject(unknownEvent{}))
	assert.Equal(t, events.EventType("some.subject"), mapper.MapSubjectToEventType("some.subject"))
}

func TestEventSubjectMapper_GetAllSubjects(t *testing.T) {
	t.Parallel()

	subjects := NewEventSubjectMapper().GetAllSubjects()
	assert.Len(t, subjects, len(events.AllEventTypes()))
	assert.Equal(t, "rifa.event.saved", subjects[0])
	assert.Contains(t, subjects, "rifa.draw.closed")
}
