package session

import "time"

// Clock is the injectable time source for deterministic tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Stopwatch tracks elapsed active time across pause/resume cycles. Paused
// time is only committed to totalPaused on Resume or Stop; while a pause is
// open, Elapsed subtracts the open interval so active time freezes.
type Stopwatch struct {
	clock       Clock
	startedAt   time.Time
	pausedAt    time.Time // zero while running
	totalPaused time.Duration
}

func NewStopwatch(clock Clock) *Stopwatch {
	return &Stopwatch{clock: clock, startedAt: clock.Now()}
}

// NewStopwatchAt rebuilds a stopwatch for a recovered session. Pause
// bookkeeping from before the restart is not reconstructed.
func NewStopwatchAt(clock Clock, startedAt time.Time) *Stopwatch {
	return &Stopwatch{clock: clock, startedAt: startedAt}
}

func (s *Stopwatch) StartedAt() time.Time { return s.startedAt }

func (s *Stopwatch) Paused() bool { return !s.pausedAt.IsZero() }

// Pause is a no-op when already paused.
func (s *Stopwatch) Pause() {
	if s.Paused() {
		return
	}
	s.pausedAt = s.clock.Now()
}

// Resume is a no-op when not paused.
func (s *Stopwatch) Resume() {
	if !s.Paused() {
		return
	}
	s.totalPaused += s.clock.Now().Sub(s.pausedAt)
	s.pausedAt = time.Time{}
}

// Elapsed returns accumulated active time. It never goes negative and
// freezes while paused.
func (s *Stopwatch) Elapsed() time.Duration {
	now := s.clock.Now()
	elapsed := now.Sub(s.startedAt) - s.totalPaused
	if s.Paused() {
		elapsed -= now.Sub(s.pausedAt)
	}
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed
}

// Stop folds any open pause into totalPaused and returns the end time
// together with the final active duration. Computing the final figure from
// Elapsed alone would double count a pause that is still open.
func (s *Stopwatch) Stop() (time.Time, time.Duration) {
	now := s.clock.Now()
	if s.Paused() {
		s.totalPaused += now.Sub(s.pausedAt)
		s.pausedAt = time.Time{}
	}
	active := now.Sub(s.startedAt) - s.totalPaused
	if active < 0 {
		active = 0
	}
	return now, active
}
