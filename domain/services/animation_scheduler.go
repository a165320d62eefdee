package services

import (
	"sync"
	"time"

	"rifa/domain/clock"
	"rifa/domain/entities"
	"rifa/domain/utils"
)

const (
	DefaultSpinDuration   = 4000 * time.Millisecond
	DefaultRevealDuration = 1200 * time.Millisecond
	DefaultBaseInterval   = 50 * time.Millisecond
	DefaultMaxInterval    = 850 * time.Millisecond
)

// AnimationTiming controls how long a draw spins and how the tick cadence slows down
type AnimationTiming struct {
	SpinDuration   time.Duration
	RevealDuration time.Duration
	BaseInterval   time.Duration
	MaxInterval    time.Duration
}

// DefaultAnimationTiming returns the 4s spin / 1.2s reveal timing
func DefaultAnimationTiming() AnimationTiming {
	return AnimationTiming{
		SpinDuration:   DefaultSpinDuration,
		RevealDuration: DefaultRevealDuration,
		BaseInterval:   DefaultBaseInterval,
		MaxInterval:    DefaultMaxInterval,
	}
}

// Normalize fills zero or inconsistent values with the defaults
func (t AnimationTiming) Normalize() AnimationTiming {
	d := DefaultAnimationTiming()
	if t.SpinDuration <= 0 {
		t.SpinDuration = d.SpinDuration
	}
	if t.RevealDuration < 0 {
		t.RevealDuration = d.RevealDuration
	}
	if t.BaseInterval <= 0 {
		t.BaseInterval = d.BaseInterval
	}
	if t.MaxInterval < t.BaseInterval {
		t.MaxInterval = t.BaseInterval
	}
	return t
}

// Progress returns elapsed/SpinDuration clamped to [0, 1]
func (t AnimationTiming) Progress(elapsed time.Duration) float64 {
	if t.SpinDuration <= 0 || elapsed >= t.SpinDuration {
		return 1
	}
	if elapsed <= 0 {
		return 0
	}
	return float64(elapsed) / float64(t.SpinDuration)
}

// IntervalAt returns the delay before the next tick: base + progress^3 * (max - base)
func (t AnimationTiming) IntervalAt(elapsed time.Duration) time.Duration {
	p := t.Progress(elapsed)
	span := float64(t.MaxInterval - t.BaseInterval)
	return t.BaseInterval + time.Duration(p*p*p*span)
}

// AnimationTick is one visual step of the spin
type AnimationTick struct {
	DisplayNumber int
	Elapsed       time.Duration
	Progress      float64
	// Delay until the next tick. Zero on the final tick.
	Delay time.Duration
	Final bool
}

// AnimationScheduler emits the ticks of a single spin. Ticks are strictly
// sequential: the next one is scheduled only after the previous fired.
// A scheduler runs once and cannot be restarted.
type AnimationScheduler struct {
	mu        sync.Mutex
	clock     clock.Clock
	timing    AnimationTiming
	r         entities.Range
	source    utils.RandomSource
	startedAt time.Time
	timer     clock.Timer
	started   bool
	cancelled bool
}

// NewAnimationScheduler creates a scheduler sampling display numbers from the full range
func NewAnimationScheduler(c clock.Clock, timing AnimationTiming, r entities.Range, source utils.RandomSource) *AnimationScheduler {
	return &AnimationScheduler{
		clock:  c,
		timing: timing.Normalize(),
		r:      r,
		source: source,
	}
}

// Run fires the first tick synchronously and schedules the rest. onDone is
// called after the final tick, once elapsed time reached the spin duration.
// It returns false if the scheduler already ran or was cancelled.
func (s *AnimationScheduler) Run(onTick func(AnimationTick), onDone func()) bool {
	s.mu.Lock()
	if s.started || s.cancelled {
		s.mu.Unlock()
		return false
	}
	s.started = true
	s.startedAt = s.clock.Now()
	s.mu.Unlock()

	s.tick(onTick, onDone)
	return true
}

// Cancel stops any pending tick. Safe to call more than once.
func (s *AnimationScheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelled = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Cancelled reports whether Cancel was called
func (s *AnimationScheduler) Cancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

func (s *AnimationScheduler) tick(onTick func(AnimationTick), onDone func()) {
	s.mu.Lock()
	if s.cancelled {
		s.mu.Unlock()
		return
	}
	s.timer = nil

	elapsed := s.clock.Now().Sub(s.startedAt)
	t := AnimationTick{
		DisplayNumber: s.r.InitialSeq + s.source.IntN(s.r.Size()),
		Elapsed:       elapsed,
		Progress:      s.timing.Progress(elapsed),
	}
	if elapsed < s.timing.SpinDuration {
		t.Delay = s.timing.IntervalAt(elapsed)
	} else {
		t.Final = true
	}
	s.mu.Unlock()

	if onTick != nil {
		onTick(t)
	}

	if t.Final {
		if onDone != nil && !s.Cancelled() {
			onDone()
		}
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled {
		return
	}
	s.timer = s.clock.AfterFunc(t.Delay, func() { s.tick(onTick, onDone) })
}
