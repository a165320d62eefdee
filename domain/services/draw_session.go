package services

import (
	"sync"
	"time"

	"rifa/domain/clock"
	"rifa/domain/entities"
	"rifa/domain/utils"

	log "github.com/sirupsen/logrus"
)

// DrawSnapshot is a read-only copy of a draw session's state
type DrawSnapshot struct {
	Title          string
	Range          entities.Range
	Phase          entities.DrawPhase
	CurrentNumber  *int
	Winner         *int
	AvailableCount int
	IsSoldOut      bool
	History        []int
	// Progress of the current spin in [0, 1]. Only meaningful while spinning.
	Progress float64
}

// TotalNumbers returns the size of the session's range
func (s DrawSnapshot) TotalNumbers() int {
	return s.Range.Size()
}

// DrawResult is emitted once per resolved draw
type DrawResult struct {
	Title      string
	Range      entities.Range
	Winner     int
	DrawNumber int
	Remaining  int
	SoldOut    bool
	StartedAt  time.Time
	ResolvedAt time.Time
}

// DrawSessionOption configures a DrawSession
type DrawSessionOption func(*DrawSession)

// WithClock sets the clock used for the spin and reveal timers
func WithClock(c clock.Clock) DrawSessionOption {
	return func(s *DrawSession) {
		s.clock = c
	}
}

// WithTiming overrides the animation timing
func WithTiming(t AnimationTiming) DrawSessionOption {
	return func(s *DrawSession) {
		s.timing = t.Normalize()
	}
}

// WithDisplaySource sets the random source for the cosmetic spin numbers
func WithDisplaySource(src utils.RandomSource) DrawSessionOption {
	return func(s *DrawSession) {
		s.displaySource = src
	}
}

// WithWinnerSource sets the random source used to pick winners
func WithWinnerSource(src utils.RandomSource) DrawSessionOption {
	return func(s *DrawSession) {
		s.winnerSource = src
	}
}

// OnChange registers an observer called after every state change
func OnChange(fn func(DrawSnapshot)) DrawSessionOption {
	return func(s *DrawSession) {
		s.onChange = fn
	}
}

// OnResolved registers an observer called once per winner
func OnResolved(fn func(DrawResult)) DrawSessionOption {
	return func(s *DrawSession) {
		s.onResolved = fn
	}
}

// DrawSession runs winner draws without replacement over a ticket range.
// State only changes through Start, Close and the session's own timers.
type DrawSession struct {
	mu            sync.Mutex
	title         string
	r             entities.Range
	clock         clock.Clock
	timing        AnimationTiming
	displaySource utils.RandomSource
	winnerSource  utils.RandomSource
	onChange      func(DrawSnapshot)
	onResolved    func(DrawResult)

	phase       entities.DrawPhase
	current     *int
	winner      *int
	ledger      *entities.HistoryLedger
	progress    float64
	epoch       uint64
	startedAt   time.Time
	scheduler   *AnimationScheduler
	revealTimer clock.Timer
}

// NewDrawSession opens an idle session for the range. It fails with an
// *entities.InvalidRangeError when the range bounds are reversed and with
// entities.ErrRangeTooLarge above entities.MaxRangeSize numbers.
func NewDrawSession(title string, r entities.Range, opts ...DrawSessionOption) (*DrawSession, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	s := &DrawSession{
		title:  title,
		r:      r,
		clock:  clock.NewSystem(),
		timing: DefaultAnimationTiming(),
		phase:  entities.DrawPhaseIdle,
		ledger: entities.NewHistoryLedger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.displaySource == nil {
		s.displaySource = utils.NewSystemSource()
	}
	if s.winnerSource == nil {
		s.winnerSource = utils.NewSystemSource()
	}

	return s, nil
}

// Title returns the title shown on the draw screen
func (s *DrawSession) Title() string {
	return s.title
}

// Range returns the ticket range being drawn
func (s *DrawSession) Range() entities.Range {
	return s.r
}

// Start begins a new spin. It is a no-op returning false while a spin or
// reveal is running, after Close, or when every number was already drawn.
func (s *DrawSession) Start() bool {
	s.mu.Lock()
	soldOut := s.isSoldOutLocked()
	if !s.phase.AcceptsStart() || soldOut {
		fields := log.Fields{
			"title":     s.title,
			"phase":     s.phase,
			"soldOut":   soldOut,
			"drawCount": s.ledger.Count(),
		}
		s.mu.Unlock()
		log.WithFields(fields).Debug("Ignoring draw start")
		return false
	}

	s.epoch++
	epoch := s.epoch
	s.phase = entities.DrawPhaseSpinning
	s.winner = nil
	s.current = nil
	s.progress = 0
	s.startedAt = s.clock.Now()
	s.revealTimer = nil
	sched := NewAnimationScheduler(s.clock, s.timing, s.r, s.displaySource)
	s.scheduler = sched
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)

	sched.Run(
		func(t AnimationTick) { s.handleTick(epoch, t) },
		func() { s.handleSpinEnd(epoch) },
	)
	return true
}

// Close ends the session. Pending timers are cancelled and later Start calls are ignored.
func (s *DrawSession) Close() {
	s.mu.Lock()
	if s.phase == entities.DrawPhaseClosed {
		s.mu.Unlock()
		return
	}

	s.epoch++
	if s.scheduler != nil {
		s.scheduler.Cancel()
		s.scheduler = nil
	}
	if s.revealTimer != nil {
		s.revealTimer.Stop()
		s.revealTimer = nil
	}
	s.phase = entities.DrawPhaseClosed
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// Snapshot returns a copy of the current state
func (s *DrawSession) Snapshot() DrawSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// History returns the winners drawn so far, most recent first
func (s *DrawSession) History() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Numbers()
}

func (s *DrawSession) handleTick(epoch uint64, t AnimationTick) {
	s.mu.Lock()
	if epoch != s.epoch || s.phase != entities.DrawPhaseSpinning {
		s.mu.Unlock()
		return
	}

	n := t.DisplayNumber
	s.current = &n
	s.progress = t.Progress
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

func (s *DrawSession) handleSpinEnd(epoch uint64) {
	s.mu.Lock()
	if epoch != s.epoch || s.phase != entities.DrawPhaseSpinning {
		s.mu.Unlock()
		return
	}

	s.phase = entities.DrawPhaseRevealing
	s.scheduler = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)

	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch || s.phase != entities.DrawPhaseRevealing {
		return
	}
	s.revealTimer = s.clock.AfterFunc(s.timing.RevealDuration, func() { s.resolve(epoch) })
}

func (s *DrawSession) resolve(epoch uint64) {
	s.mu.Lock()
	if epoch != s.epoch || s.phase != entities.DrawPhaseRevealing {
		s.mu.Unlock()
		return
	}
	s.revealTimer = nil

	available := entities.Available(s.r, s.ledger.Numbers())
	if len(available) == 0 {
		s.phase = entities.DrawPhaseResolved
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.notify(snap)
		return
	}

	winner := available[s.winnerSource.IntN(len(available))]
	s.ledger.Append(winner)
	current := winner
	s.current = &current
	w := winner
	s.winner = &w
	s.progress = 1
	s.phase = entities.DrawPhaseResolved

	result := DrawResult{
		Title:      s.title,
		Range:      s.r,
		Winner:     winner,
		DrawNumber: s.ledger.Count(),
		Remaining:  len(available) - 1,
		SoldOut:    len(available) == 1,
		StartedAt:  s.startedAt,
		ResolvedAt: s.clock.Now(),
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	log.WithFields(log.Fields{
		"title":      s.title,
		"winner":     winner,
		"drawNumber": result.DrawNumber,
		"remaining":  result.Remaining,
	}).Debug("Draw resolved")

	s.notify(snap)
	if s.onResolved != nil {
		s.onResolved(result)
	}
}

// isSoldOutLocked relies on the ledger only holding distinct numbers of the range
func (s *DrawSession) isSoldOutLocked() bool {
	return s.ledger.Count() >= s.r.Size()
}

func (s *DrawSession) snapshotLocked() DrawSnapshot {
	history := s.ledger.Numbers()
	available := s.r.Size() - len(history)
	if available < 0 {
		available = 0
	}

	snap := DrawSnapshot{
		Title:          s.title,
		Range:          s.r,
		Phase:          s.phase,
		AvailableCount: available,
		IsSoldOut:      available == 0,
		History:        history,
		Progress:       s.progress,
	}
	if s.current != nil {
		n := *s.current
		snap.CurrentNumber = &n
	}
	if s.winner != nil {
		n := *s.winner
		snap.Winner = &n
	}
	return snap
}

func (s *DrawSession) notify(snap DrawSnapshot) {
	if s.onChange != nil {
		s.onChange(snap)
	}
}
