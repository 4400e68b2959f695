package playback

import (
	"fmt"
	"sync"
	"time"

	apperrors "github.com/yungbote/solstice-backend/internal/pkg/errors"
	"github.com/yungbote/solstice-backend/internal/types"
)

type State string

const (
	StateIdle      State = "idle"
	StateActive    State = "active"
	StateCompleted State = "completed"
)

// Session drives step-by-step traversal of a routine's cards with an optional
// per-card countdown. A session is owned by the caller that created it; the
// only internal concurrency is the ticker goroutine, which holds no state of
// its own and is cancelled at a single point (stopTicker).
type Session struct {
	mu sync.Mutex

	cards         []*types.Card
	state         State
	currentIndex  int
	timeRemaining int
	running       bool

	startedAt   time.Time
	pausedAt    time.Time
	pausedTotal time.Duration
	elapsed     time.Duration

	now        func() time.Time
	manualTick bool
	tickerStop chan struct{}
}

type Option func(*Session)

// WithClock substitutes the wall-clock source. Implies manual ticking: the
// caller drives the countdown via Tick instead of a background ticker.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
		s.manualTick = true
	}
}

// NewSession prepares playback over a non-empty card sequence. An empty
// sequence has no valid idle state and is an error.
func NewSession(cards []*types.Card, opts ...Option) (*Session, error) {
	if len(cards) == 0 {
		return nil, fmt.Errorf("%w: playback requires at least one card", apperrors.ErrInvalidArgument)
	}
	s := &Session{
		cards: cards,
		state: StateIdle,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentIndex
}

func (s *Session) CurrentCard() *types.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateCompleted {
		return nil
	}
	return s.cards[s.currentIndex]
}

func (s *Session) TimeRemaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeRemaining
}

func (s *Session) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Session) IsCompleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateCompleted
}

// Elapsed is the wall-clock time from Start to the completing Advance, minus
// paused time. It is independent of the per-card timers.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed
}

// Start transitions Idle to Active. If the first card has a duration, a
// one-second countdown begins from it; otherwise advancing is manual-only.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return fmt.Errorf("%w: start from %s", apperrors.ErrInvalidTransition, s.state)
	}
	s.state = StateActive
	s.startedAt = s.now()
	s.pausedTotal = 0
	card := s.cards[s.currentIndex]
	if card.Duration > 0 {
		s.timeRemaining = card.Duration
		s.running = true
		s.startTickerLocked()
	}
	return nil
}

// Advance moves to the next card, or completes the session from the last one.
// A countdown only continues on the new card if it was running before.
func (s *Session) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.advanceLocked()
}

func (s *Session) advanceLocked() error {
	if s.state != StateActive {
		return fmt.Errorf("%w: advance from %s", apperrors.ErrInvalidTransition, s.state)
	}
	if s.currentIndex == len(s.cards)-1 {
		s.state = StateCompleted
		s.running = false
		s.timeRemaining = 0
		if !s.pausedAt.IsZero() {
			s.pausedTotal += s.now().Sub(s.pausedAt)
			s.pausedAt = time.Time{}
		}
		s.elapsed = s.now().Sub(s.startedAt) - s.pausedTotal
		s.stopTickerLocked()
		return nil
	}
	s.currentIndex++
	card := s.cards[s.currentIndex]
	if card.Duration > 0 {
		s.timeRemaining = card.Duration
		if s.running {
			s.startTickerLocked()
		}
	} else {
		s.timeRemaining = 0
		s.stopTickerLocked()
	}
	return nil
}

// Retreat steps back one card. Moving backward never auto-runs.
func (s *Session) Retreat() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return fmt.Errorf("%w: retreat from %s", apperrors.ErrInvalidTransition, s.state)
	}
	if s.currentIndex == 0 {
		return fmt.Errorf("%w: already at the first card", apperrors.ErrInvalidTransition)
	}
	s.currentIndex--
	s.running = false
	s.stopTickerLocked()
	s.timeRemaining = s.cards[s.currentIndex].Duration
	return nil
}

// Pause stops the countdown without moving the cursor. No-op when already
// paused.
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return fmt.Errorf("%w: pause from %s", apperrors.ErrInvalidTransition, s.state)
	}
	if !s.running {
		return nil
	}
	s.running = false
	s.pausedAt = s.now()
	s.stopTickerLocked()
	return nil
}

// Resume restarts the countdown on the current card. No-op when already
// running.
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return fmt.Errorf("%w: resume from %s", apperrors.ErrInvalidTransition, s.state)
	}
	if s.running {
		return nil
	}
	if !s.pausedAt.IsZero() {
		s.pausedTotal += s.now().Sub(s.pausedAt)
		s.pausedAt = time.Time{}
	}
	s.running = true
	if s.cards[s.currentIndex].Duration > 0 {
		s.startTickerLocked()
	}
	return nil
}

// Reset returns to Idle from any state, cancelling the ticker.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateIdle
	s.currentIndex = 0
	s.timeRemaining = 0
	s.running = false
	s.elapsed = 0
	s.startedAt = time.Time{}
	s.pausedAt = time.Time{}
	s.pausedTotal = 0
	s.stopTickerLocked()
}

// Close cancels the ticker; the session must not be used afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTickerLocked()
}

// Tick applies one second of countdown. The background ticker calls this once
// per second; sessions built with WithClock call it directly from tests.
func (s *Session) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickLocked()
}

// tickFrom drops ticks from a ticker that was already cancelled but had a
// tick in flight when the session moved on.
func (s *Session) tickFrom(stop chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tickerStop != stop {
		return
	}
	s.tickLocked()
}

func (s *Session) tickLocked() {
	if s.state != StateActive || !s.running {
		return
	}
	if s.cards[s.currentIndex].Duration == 0 {
		return
	}
	if s.timeRemaining > 0 {
		s.timeRemaining--
	}
	if s.timeRemaining == 0 {
		// Timer expiry stops this card's countdown and auto-advances; the
		// running flag survives so playback continues on the next timed card.
		s.stopTickerLocked()
		_ = s.advanceLocked()
	}
}

func (s *Session) startTickerLocked() {
	if s.manualTick {
		return
	}
	s.stopTickerLocked()
	stop := make(chan struct{})
	s.tickerStop = stop
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.tickFrom(stop)
			}
		}
	}()
}

func (s *Session) stopTickerLocked() {
	if s.tickerStop != nil {
		close(s.tickerStop)
		s.tickerStop = nil
	}
}
