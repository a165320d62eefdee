package infrastructure

import (
	"fmt"

	"rifa/events"
)

// StreamName is the JetStream stream holding every subject below
const StreamName = "rifa_events"

var subjectsByType = map[events.EventType]string{
	events.EventTypeRaffleEventSaved:   "rifa.event.saved",
	events.EventTypeRaffleEventDeleted: "rifa.event.deleted",
	events.EventTypeDrawStarted:        "rifa.draw.started",
	events.EventTypeDrawResolved:       "rifa.draw.resolved",
	events.EventTypeDrawExhausted:      "rifa.draw.exhausted",
	events.EventTypeDrawClosed:         "rifa.draw.closed",
}

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	if subject, ok := subjectsByType[event.Type()]; ok {
		return subject
	}
	return fmt.Sprintf("rifa.unknown.%s", event.Type())
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	for eventType, s := range subjectsByType {
		if s == subject {
			return eventType
		}
	}
	return events.EventType(subject)
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	subjects := make([]string, 0, len(subjectsByType))
	for _, eventType := range events.AllEventTypes() {
		subjects = append(subjects, subjectsByType[eventType])
	}
	return subjects
}
