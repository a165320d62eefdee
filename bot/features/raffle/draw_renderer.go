package raffle

import (
	"sync"
	"time"

	"rifa/domain/entities"
	"rifa/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// messageEditor is the part of the Discord session used to update draw messages
type messageEditor interface {
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DrawRenderer mirrors draw session snapshots onto Discord messages. Spinning
// frames are throttled to one edit per frame interval; phase changes are
// edited right away.
type DrawRenderer struct {
	editor        messageEditor
	frameInterval time.Duration

	mu       sync.Mutex
	messages map[string]*drawMessage
}

type drawMessage struct {
	channelID string
	messageID string

	mu      sync.Mutex
	latest  *services.DrawSnapshot
	dirty   chan struct{}
	done    chan struct{}
	stopped bool
}

// NewDrawRenderer creates a renderer editing messages through editor
func NewDrawRenderer(editor messageEditor, frameInterval time.Duration) *DrawRenderer {
	return &DrawRenderer{
		editor:        editor,
		frameInterval: frameInterval,
		messages:      make(map[string]*drawMessage),
	}
}

// Track starts mirroring the session for key onto a message
func (r *DrawRenderer) Track(key, channelID, messageID string) {
	m := &drawMessage{
		channelID: channelID,
		messageID: messageID,
		dirty:     make(chan struct{}, 1),
		done:      make(chan struct{}),
	}

	r.mu.Lock()
	previous := r.messages[key]
	r.messages[key] = m
	r.mu.Unlock()

	if previous != nil {
		previous.stop()
	}
	go r.run(key, m)
}

// MessageID returns the message mirrored for key
func (r *DrawRenderer) MessageID(key string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.messages[key]
	if !ok {
		return "", false
	}
	return m.messageID, true
}

// HandleSnapshot queues a snapshot for the message tracked under key
func (r *DrawRenderer) HandleSnapshot(key string, snap services.DrawSnapshot) {
	r.mu.Lock()
	m := r.messages[key]
	r.mu.Unlock()

	if m == nil {
		return
	}

	m.mu.Lock()
	m.latest = &snap
	m.mu.Unlock()

	select {
	case m.dirty <- struct{}{}:
	default:
	}
}

// Stop stops mirroring every message
func (r *DrawRenderer) Stop() {
	r.mu.Lock()
	messages := r.messages
	r.messages = make(map[string]*drawMessage)
	r.mu.Unlock()

	for _, m := range messages {
		m.stop()
	}
}

func (r *DrawRenderer) run(key string, m *drawMessage) {
	var nextFrame time.Time

	for {
		select {
		case <-m.done:
			r.flushClosed(key, m)
			return
		case <-m.dirty:
		}

		// hold spinning frames until the frame interval has passed
		for {
			snap := m.peek()
			if snap == nil || snap.Phase != entities.DrawPhaseSpinning {
				break
			}
			wait := time.Until(nextFrame)
			if wait <= 0 {
				break
			}
			timer := time.NewTimer(wait)
			select {
			case <-m.done:
				timer.Stop()
				r.flushClosed(key, m)
				return
			case <-m.dirty:
				timer.Stop()
			case <-timer.C:
			}
		}

		snap := m.take()
		if snap == nil {
			continue
		}

		r.edit(key, m, *snap)
		if snap.Phase == entities.DrawPhaseSpinning {
			nextFrame = time.Now().Add(r.frameInterval)
		}

		if snap.Phase == entities.DrawPhaseClosed {
			r.forget(key, m)
			return
		}
	}
}

func (r *DrawRenderer) edit(key string, m *drawMessage, snap services.DrawSnapshot) {
	embeds := []*discordgo.MessageEmbed{CreateDrawEmbed(snap)}
	components := CreateDrawComponents(snap)

	_, err := r.editor.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    m.channelID,
		ID:         m.messageID,
		Embeds:     &embeds,
		Components: &components,
	})
	if err != nil {
		log.WithFields(log.Fields{
			"sessionKey": key,
			"channelId":  m.channelID,
			"messageId":  m.messageID,
			"phase":      snap.Phase,
			"error":      err,
		}).Warn("Failed to update draw message")
	}
}

// flushClosed applies a pending close so a replaced message does not keep live buttons
func (r *DrawRenderer) flushClosed(key string, m *drawMessage) {
	if snap := m.take(); snap != nil && snap.Phase == entities.DrawPhaseClosed {
		r.edit(key, m, *snap)
	}
}

func (r *DrawRenderer) forget(key string, m *drawMessage) {
	r.mu.Lock()
	if r.messages[key] == m {
		delete(r.messages, key)
	}
	r.mu.Unlock()
	m.stop()
}

func (m *drawMessage) peek() *services.DrawSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latest
}

func (m *drawMessage) take() *services.DrawSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := m.latest
	m.latest = nil
	return snap
}

func (m *drawMessage) stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.stopped {
		m.stopped = true
		close(m.done)
	}
}
