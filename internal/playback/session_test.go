package playback

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/yungbote/solstice-backend/internal/pkg/errors"
	"github.com/yungbote/solstice-backend/internal/types"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func timedCard(title string, duration int) *types.Card {
	return &types.Card{ID: uuid.New(), Title: title, SourceType: types.SourceTypeCustom, Duration: duration}
}

func newTestSession(t *testing.T, clock *fakeClock, durations ...int) *Session {
	t.Helper()
	cards := make([]*types.Card, 0, len(durations))
	for _, d := range durations {
		cards = append(cards, timedCard("card", d))
	}
	s, err := NewSession(cards, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	return s
}

func TestNewSession_EmptyCards(t *testing.T) {
	if _, err := NewSession(nil); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for empty cards, got %v", err)
	}
}

func TestSession_MixedDurationTraversal(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, clock, 30, 0, 45)

	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !s.IsRunning() || s.TimeRemaining() != 30 {
		t.Fatalf("expected a 30s countdown after Start, running=%v remaining=%d", s.IsRunning(), s.TimeRemaining())
	}

	// 30 ticks expire the first card and auto-advance to the rep-based card.
	for i := 0; i < 30; i++ {
		clock.Advance(time.Second)
		s.Tick()
	}
	if s.CurrentIndex() != 1 {
		t.Fatalf("expected auto-advance to index 1, got %d", s.CurrentIndex())
	}
	if s.TimeRemaining() != 0 {
		t.Fatalf("rep-based card should not carry a countdown, remaining=%d", s.TimeRemaining())
	}

	// Further ticks on a no-duration card change nothing.
	clock.Advance(time.Second)
	s.Tick()
	if s.CurrentIndex() != 1 {
		t.Fatalf("tick on a rep-based card must not advance, index=%d", s.CurrentIndex())
	}

	// Manual advance onto the timed card; the countdown continues because the
	// session was running before the advance.
	if err := s.Advance(); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if s.CurrentIndex() != 2 || s.TimeRemaining() != 45 {
		t.Fatalf("expected index 2 with 45s remaining, got %d / %d", s.CurrentIndex(), s.TimeRemaining())
	}

	// Advance from the last index completes.
	clock.Advance(5 * time.Second)
	if err := s.Advance(); err != nil {
		t.Fatalf("completing Advance failed: %v", err)
	}
	if !s.IsCompleted() {
		t.Fatalf("expected completed state")
	}
	if got := s.Elapsed(); got != 36*time.Second {
		t.Fatalf("elapsed = %v, want 36s of wall clock", got)
	}
}

func TestSession_AdvanceWhileStoppedDoesNotRun(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, clock, 30, 45)

	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := s.Pause(); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	if err := s.Advance(); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if s.IsRunning() {
		t.Fatalf("advance must not start a stopped timer")
	}
	if s.TimeRemaining() != 45 {
		t.Fatalf("remaining should reset to the new card's duration, got %d", s.TimeRemaining())
	}
	before := s.TimeRemaining()
	s.Tick()
	if s.TimeRemaining() != before {
		t.Fatalf("tick while stopped must not decrement")
	}
}

func TestSession_RetreatStopsTimer(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, clock, 30, 45)

	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := s.Advance(); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if err := s.Retreat(); err != nil {
		t.Fatalf("Retreat failed: %v", err)
	}
	if s.CurrentIndex() != 0 {
		t.Fatalf("expected index 0 after retreat, got %d", s.CurrentIndex())
	}
	if s.IsRunning() {
		t.Fatalf("moving backward must never auto-run")
	}
}

func TestSession_RetreatFromFirstIndex(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, clock, 30)
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := s.Retreat(); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestSession_PauseResumeExcludedFromElapsed(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, clock, 30, 30)

	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	clock.Advance(10 * time.Second)
	if err := s.Pause(); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	clock.Advance(2 * time.Minute)
	if err := s.Resume(); err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	clock.Advance(5 * time.Second)
	if err := s.Advance(); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if err := s.Advance(); err != nil {
		t.Fatalf("completing Advance failed: %v", err)
	}
	if got := s.Elapsed(); got != 15*time.Second {
		t.Fatalf("elapsed = %v, want 15s with paused time excluded", got)
	}
}

func TestSession_CompletingWhilePausedExcludesOpenPause(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, clock, 30, 30)

	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	clock.Advance(10 * time.Second)
	if err := s.Pause(); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	clock.Advance(20 * time.Second)
	if err := s.Advance(); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if err := s.Advance(); err != nil {
		t.Fatalf("completing Advance failed: %v", err)
	}
	if got := s.Elapsed(); got != 10*time.Second {
		t.Fatalf("elapsed = %v, want 10s with the still-open pause excluded", got)
	}
}

func TestSession_PauseResumeIdempotent(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, clock, 30)
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := s.Pause(); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	if err := s.Pause(); err != nil {
		t.Fatalf("second Pause should be a no-op, got %v", err)
	}
	if err := s.Resume(); err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	if err := s.Resume(); err != nil {
		t.Fatalf("second Resume should be a no-op, got %v", err)
	}
}

func TestSession_CompletedIsTerminal(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, clock, 0)
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := s.Advance(); err != nil {
		t.Fatalf("completing Advance failed: %v", err)
	}

	if err := s.Advance(); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("Advance after completion: expected ErrInvalidTransition, got %v", err)
	}
	if err := s.Retreat(); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("Retreat after completion: expected ErrInvalidTransition, got %v", err)
	}
	if err := s.Pause(); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("Pause after completion: expected ErrInvalidTransition, got %v", err)
	}
	if err := s.Resume(); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("Resume after completion: expected ErrInvalidTransition, got %v", err)
	}
	if !s.IsCompleted() {
		t.Fatalf("rejected calls must leave the state unchanged")
	}

	s.Reset()
	if s.State() != StateIdle || s.CurrentIndex() != 0 || s.IsCompleted() {
		t.Fatalf("Reset should return to idle at index 0")
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start after Reset failed: %v", err)
	}
}

func TestSession_StartTwice(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, clock, 30)
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := s.Start(); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition on second Start, got %v", err)
	}
}
