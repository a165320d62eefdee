package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"rifa/domain/entities"
	"rifa/domain/services"
	"rifa/events"

	log "github.com/sirupsen/logrus"
)

// ErrSessionNotFound is returned for keys without an open draw session
var ErrSessionNotFound = errors.New("draw session not found")

// EventLoader loads the raffle event a draw session is opened for
type EventLoader interface {
	Get(ctx context.Context, id string) (*entities.RaffleEvent, error)
}

// SnapshotListener receives every state change of every session
type SnapshotListener func(key string, snap services.DrawSnapshot)

type drawEntry struct {
	eventID    string
	session    *services.DrawSession
	lastActive time.Time
}

// DrawController keeps one draw session per view key (a Discord channel, an
// API client) and publishes draw events for them.
type DrawController struct {
	loader         EventLoader
	publisher      events.Publisher
	sessionOptions []services.DrawSessionOption
	now            func() time.Time

	mu        sync.Mutex
	sessions  map[string]*drawEntry
	listeners []SnapshotListener
}

// NewDrawController creates a controller. sessionOptions apply to every session it opens.
func NewDrawController(loader EventLoader, publisher events.Publisher, sessionOptions ...services.DrawSessionOption) *DrawController {
	return &DrawController{
		loader:         loader,
		publisher:      publisher,
		sessionOptions: sessionOptions,
		now:            time.Now,
		sessions:       make(map[string]*drawEntry),
	}
}

// OnSnapshot registers a listener for session state changes
func (c *DrawController) OnSnapshot(listener SnapshotListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, listener)
}

// Open returns the session for key, creating it for eventID when needed. An
// open session for a different event is closed first.
func (c *DrawController) Open(ctx context.Context, key, eventID string) (services.DrawSnapshot, error) {
	c.mu.Lock()
	existing := c.sessions[key]
	c.mu.Unlock()

	if existing != nil {
		if existing.eventID == eventID {
			return existing.session.Snapshot(), nil
		}
		if err := c.Close(key); err != nil && !errors.Is(err, ErrSessionNotFound) {
			return services.DrawSnapshot{}, err
		}
	}

	event, err := c.loader.Get(ctx, eventID)
	if err != nil {
		return services.DrawSnapshot{}, err
	}

	opts := append([]services.DrawSessionOption{}, c.sessionOptions...)
	opts = append(opts,
		services.OnChange(func(snap services.DrawSnapshot) { c.broadcast(key, snap) }),
		services.OnResolved(func(result services.DrawResult) { c.publishResolved(key, eventID, result) }),
	)

	session, err := services.NewDrawSession(event.Title, event.Range(), opts...)
	if err != nil {
		return services.DrawSnapshot{}, fmt.Errorf("failed to open draw session: %w", err)
	}

	c.mu.Lock()
	if current := c.sessions[key]; current != nil {
		// another caller opened the same key meanwhile
		c.mu.Unlock()
		session.Close()
		return current.session.Snapshot(), nil
	}
	c.sessions[key] = &drawEntry{eventID: eventID, session: session, lastActive: c.now()}
	c.mu.Unlock()

	log.WithFields(log.Fields{
		"sessionKey": key,
		"eventId":    eventID,
		"range":      event.Range().String(),
	}).Info("Opened draw session")

	return session.Snapshot(), nil
}

// Start begins the next draw. It returns false when the session ignored the
// request (already spinning, or every number was drawn).
func (c *DrawController) Start(key string) (bool, error) {
	entry, err := c.entry(key)
	if err != nil {
		return false, err
	}

	before := entry.session.Snapshot()
	if !entry.session.Start() {
		return false, nil
	}
	c.touch(key)

	c.publish(events.DrawStartedEvent{
		SessionKey: key,
		EventID:    entry.eventID,
		Title:      before.Title,
		DrawNumber: len(before.History) + 1,
		Available:  before.AvailableCount,
	})
	return true, nil
}

// Snapshot returns the current state of the session for key
func (c *DrawController) Snapshot(key string) (services.DrawSnapshot, error) {
	entry, err := c.entry(key)
	if err != nil {
		return services.DrawSnapshot{}, err
	}
	return entry.session.Snapshot(), nil
}

// EventID returns the event the session for key draws from
func (c *DrawController) EventID(key string) (string, error) {
	entry, err := c.entry(key)
	if err != nil {
		return "", err
	}
	return entry.eventID, nil
}

// Close ends and forgets the session for key. The drawn history is published
// with the close event and then discarded.
func (c *DrawController) Close(key string) error {
	c.mu.Lock()
	entry, ok := c.sessions[key]
	delete(c.sessions, key)
	c.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, key)
	}

	entry.session.Close()
	history := entry.session.History()

	c.publish(events.DrawClosedEvent{
		SessionKey: key,
		EventID:    entry.eventID,
		DrawCount:  len(history),
		History:    history,
	})

	log.WithFields(log.Fields{
		"sessionKey": key,
		"eventId":    entry.eventID,
		"drawCount":  len(history),
	}).Info("Closed draw session")
	return nil
}

// CloseAll closes every open session
func (c *DrawController) CloseAll() {
	c.mu.Lock()
	keys := make([]string, 0, len(c.sessions))
	for key := range c.sessions {
		keys = append(keys, key)
	}
	c.mu.Unlock()

	for _, key := range keys {
		if err := c.Close(key); err != nil {
			log.WithError(err).WithField("sessionKey", key).Debug("Session already closed")
		}
	}
}

// CloseIdle closes sessions that have not started a draw for maxIdle.
// Sessions with a draw in flight are kept. Returns the number closed.
func (c *DrawController) CloseIdle(maxIdle time.Duration) int {
	cutoff := c.now().Add(-maxIdle)

	c.mu.Lock()
	candidates := make(map[string]*drawEntry)
	for key, entry := range c.sessions {
		if entry.lastActive.Before(cutoff) {
			candidates[key] = entry
		}
	}
	c.mu.Unlock()

	var stale []string
	for key, entry := range candidates {
		if !entry.session.Snapshot().Phase.IsInFlight() {
			stale = append(stale, key)
		}
	}

	closed := 0
	for _, key := range stale {
		if err := c.Close(key); err == nil {
			closed++
		}
	}
	if closed > 0 {
		log.WithField("closed", closed).Info("Closed idle draw sessions")
	}
	return closed
}

// ActiveSessions returns the number of open sessions
func (c *DrawController) ActiveSessions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}

func (c *DrawController) entry(key string) (*drawEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.sessions[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, key)
	}
	return entry, nil
}

func (c *DrawController) touch(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.sessions[key]; ok {
		entry.lastActive = c.now()
	}
}

func (c *DrawController) broadcast(key string, snap services.DrawSnapshot) {
	c.mu.Lock()
	listeners := append([]SnapshotListener(nil), c.listeners...)
	c.mu.Unlock()

	for _, listener := range listeners {
		listener(key, snap)
	}
}

func (c *DrawController) publishResolved(key, eventID string, result services.DrawResult) {
	c.publish(events.DrawResolvedEvent{
		SessionKey: key,
		EventID:    eventID,
		Title:      result.Title,
		Winner:     result.Winner,
		DrawNumber: result.DrawNumber,
		Remaining:  result.Remaining,
		Duration:   result.ResolvedAt.Sub(result.StartedAt),
		ResolvedAt: result.ResolvedAt,
	})

	if result.SoldOut {
		c.publish(events.DrawExhaustedEvent{
			SessionKey: key,
			EventID:    eventID,
			Title:      result.Title,
			TotalDrawn: result.DrawNumber,
		})
	}
}

func (c *DrawController) publish(event events.Event) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(event); err != nil {
		log.WithFields(log.Fields{
			"eventType": event.Type(),
			"error":     err,
		}).Error("Failed to publish draw event")
	}
}
