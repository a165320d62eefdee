package events

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeRaffleEventSaved   EventType = "raffle_event_saved"
	EventTypeRaffleEventDeleted EventType = "raffle_event_deleted"
	EventTypeDrawStarted        EventType = "draw_started"
	EventTypeDrawResolved       EventType = "draw_resolved"
	EventTypeDrawExhausted      EventType = "draw_exhausted"
	EventTypeDrawClosed         EventType = "draw_closed"
)

// AllEventTypes lists every event type the service emits
func AllEventTypes() []EventType {
	return []EventType{
		EventTypeRaffleEventSaved,
		EventTypeRaffleEventDeleted,
		EventTypeDrawStarted,
		EventTypeDrawResolved,
		EventTypeDrawExhausted,
		EventTypeDrawClosed,
	}
}

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// Publisher accepts events for delivery
type Publisher interface {
	Publish(event Event) error
}

// RaffleEventSavedEvent is emitted after a raffle event is created or updated
type RaffleEventSavedEvent struct {
	EventID    string `json:"event_id"`
	Title      string `json:"title"`
	InitialSeq int    `json:"initial_seq"`
	FinalSeq   int    `json:"final_seq"`
	Created    bool   `json:"created"`
}

func (e RaffleEventSavedEvent) Type() EventType {
	return EventTypeRaffleEventSaved
}

// RaffleEventDeletedEvent is emitted after a raffle event is removed
type RaffleEventDeletedEvent struct {
	EventID string `json:"event_id"`
}

func (e RaffleEventDeletedEvent) Type() EventType {
	return EventTypeRaffleEventDeleted
}

// DrawStartedEvent is emitted when a draw session begins spinning
type DrawStartedEvent struct {
	SessionKey string `json:"session_key"`
	EventID    string `json:"event_id"`
	Title      string `json:"title"`
	DrawNumber int    `json:"draw_number"`
	Available  int    `json:"available"`
}

func (e DrawStartedEvent) Type() EventType {
	return EventTypeDrawStarted
}

// DrawResolvedEvent is emitted once per winner
type DrawResolvedEvent struct {
	SessionKey string        `json:"session_key"`
	EventID    string        `json:"event_id"`
	Title      string        `json:"title"`
	Winner     int           `json:"winner"`
	DrawNumber int           `json:"draw_number"`
	Remaining  int           `json:"remaining"`
	Duration   time.Duration `json:"duration"`
	ResolvedAt time.Time     `json:"resolved_at"`
}

func (e DrawResolvedEvent) Type() EventType {
	return EventTypeDrawResolved
}

// DrawExhaustedEvent is emitted when the last number of a range was drawn
type DrawExhaustedEvent struct {
	SessionKey string `json:"session_key"`
	EventID    string `json:"event_id"`
	Title      string `json:"title"`
	TotalDrawn int    `json:"total_drawn"`
}

func (e DrawExhaustedEvent) Type() EventType {
	return EventTypeDrawExhausted
}

// DrawClosedEvent is emitted when a draw session is closed
type DrawClosedEvent struct {
	SessionKey string `json:"session_key"`
	EventID    string `json:"event_id"`
	DrawCount  int    `json:"draw_count"`
	History    []int  `json:"history"`
}

func (e DrawClosedEvent) Type() EventType {
	return EventTypeDrawClosed
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type on main event bus")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers on main event bus")

	// Call handlers asynchronously to avoid blocking
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// Publish emits the event with a background context
func (b *Bus) Publish(event Event) error {
	b.Emit(context.Background(), event)
	return nil
}

// A transactional event bus for holding pending events coupled to the Unit of Work.
// Flushes to the underlying publisher.
type TransactionalBus struct {
	mu      sync.Mutex
	real    Publisher
	pending []Event // stashed until Flush
}

func NewTransactionalBus(real Publisher) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	log.WithFields(log.Fields{
		"eventType":    e.Type(),
		"pendingCount": len(b.pending),
	}).Debug("Adding event to transactional bus pending queue")
	b.pending = append(b.pending, e)
	return nil
}

// Pending returns how many events wait for Flush
func (b *TransactionalBus) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// called after successful DB commit
func (b *TransactionalBus) Flush(ctx context.Context) error {
	b.mu.Lock()
	pending := b.pending
	b.pending = nil
	b.mu.Unlock()

	log.WithFields(log.Fields{
		"pendingEventCount": len(pending),
	}).Debug("Flushing pending events from transactional bus")

	for _, ev := range pending {
		if err := b.real.Publish(ev); err != nil {
			// the transaction already committed, keep going with the rest
			log.WithFields(log.Fields{
				"eventType": ev.Type(),
				"error":     err,
			}).Error("Failed to publish event during flush")
		}
	}
	return nil
}

// called after db rollback or to clear state.
func (b *TransactionalBus) Discard() {
	b.mu.Lock()
	defer b.mu.Unlock()

	log.WithFields(log.Fields{
		"discardedEventCount": len(b.pending),
	}).Debug("Discarding pending events from transactional bus")
	b.pending = nil
}
