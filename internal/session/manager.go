package session

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"backend-stridelog/internal/activity"
	"backend-stridelog/internal/gps"

	"github.com/google/uuid"
)

type State string

const (
	StateActive State = "active"
	StatePaused State = "paused"
	StateEnded  State = "ended"
)

var (
	// ErrConflict is returned when a start is attempted while a session is
	// already in progress. The caller must end or discard it first.
	ErrConflict = errors.New("a session is already in progress")
	// ErrNoSession is returned for operations on a user with no live session.
	ErrNoSession = errors.New("no session in progress")
)

// Store is the slice of the activity service the manager persists through.
type Store interface {
	Create(ctx context.Context, a activity.Activity) (activity.Activity, error)
	SaveProgress(ctx context.Context, id string, distanceM float64, steps int64, elevationGainM float64, durationMs int64) error
	AppendPoint(ctx context.Context, activityID string, p activity.RoutePoint) error
	Finalize(ctx context.Context, id string, endedAt time.Time, durationMs int64) error
	Open(ctx context.Context) ([]activity.Activity, error)
}

// Broadcaster pushes live counter snapshots to stream subscribers.
type Broadcaster interface {
	Broadcast(sessionID string, payload []byte)
}

// Snapshot is the live view of a session pushed to clients.
type Snapshot struct {
	ActivityID     string     `json:"activity_id"`
	State          State      `json:"state"`
	Steps          int64      `json:"steps"`
	DistanceM      float64    `json:"distance_m"`
	ElevationGainM float64    `json:"elevation_gain_m"`
	DurationMs     int64      `json:"duration_ms"`
	Signal         gps.Signal `json:"signal"`
	RoutePoints    int        `json:"route_points"`
}

// liveSession is one user's in-progress activity with its clock and
// distance bookkeeping. Counters live in memory and are written through to
// the store optimistically; a failed write is logged and the in-memory
// state is kept, never rolled back.
type liveSession struct {
	act           activity.Activity
	state         State
	watch         *Stopwatch
	acc           *gps.Accumulator
	baseDistanceM float64 // distance persisted before a restart
	baseDuration  time.Duration
	lastElevation float64
	hasElevation  bool
	routePoints   int
}

type Manager struct {
	mu     sync.Mutex
	clock  Clock
	store  Store
	live   Broadcaster
	filter gps.FilterConfig

	sessions map[string]*liveSession // keyed by user id
}

func NewManager(store Store, live Broadcaster, clock Clock, filter gps.FilterConfig) *Manager {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Manager{
		clock:    clock,
		store:    store,
		live:     live,
		filter:   filter,
		sessions: map[string]*liveSession{},
	}
}

// Start opens a new session for the user. At most one session per user may
// be live; a second start is rejected, not queued.
func (m *Manager) Start(ctx context.Context, userID, profileID string) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[userID]; ok {
		return Snapshot{}, ErrConflict
	}

	act := activity.Activity{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProfileID: profileID,
		StartedAt: m.clock.Now(),
	}

	created, err := m.store.Create(ctx, act)
	if err != nil {
		// Degraded mode: the live session still runs, recovery just will
		// not see it after a crash.
		log.Printf("session %s: create activity failed: %v", act.ID, err)
		created = act
	}

	s := &liveSession{
		act:   created,
		state: StateActive,
		watch: NewStopwatch(m.clock),
		acc:   gps.NewAccumulator(m.filter),
	}
	m.sessions[userID] = s

	snap := m.snapshot(s)
	m.broadcast(snap)
	return snap, nil
}

// Pause freezes the session clock. Duplicate pauses are no-ops so repeated
// UI events do not fault.
func (m *Manager) Pause(userID string) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok {
		return Snapshot{}, ErrNoSession
	}
	if s.state == StateActive {
		s.watch.Pause()
		s.state = StatePaused
	}
	snap := m.snapshot(s)
	m.broadcast(snap)
	return snap, nil
}

func (m *Manager) Resume(userID string) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok {
		return Snapshot{}, ErrNoSession
	}
	if s.state == StatePaused {
		s.watch.Resume()
		s.state = StateActive
	}
	snap := m.snapshot(s)
	m.broadcast(snap)
	return snap, nil
}

// RecordFix feeds one GPS fix into the session. Fixes arriving while paused
// are dropped. Only accepted fixes extend the route, so jitter does not
// grow it without bound.
func (m *Manager) RecordFix(ctx context.Context, userID string, fix gps.Coordinate, elevationM float64) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok {
		return Snapshot{}, ErrNoSession
	}
	if s.state != StateActive {
		return m.snapshot(s), nil
	}

	if !s.acc.Ingest(fix) {
		return m.snapshot(s), nil
	}

	s.act.DistanceM = s.baseDistanceM + s.acc.TotalM()
	if s.hasElevation && elevationM > s.lastElevation {
		s.act.ElevationGainM += elevationM - s.lastElevation
	}
	s.lastElevation = elevationM
	s.hasElevation = true
	s.routePoints++

	point := activity.RoutePoint{
		ActivityID: s.act.ID,
		Lat:        fix.Lat,
		Lng:        fix.Lng,
		ElevationM: elevationM,
		RecordedAt: fix.Timestamp,
	}
	if err := m.store.AppendPoint(ctx, s.act.ID, point); err != nil {
		log.Printf("session %s: append point failed: %v", s.act.ID, err)
	}
	m.saveProgress(ctx, s)

	snap := m.snapshot(s)
	m.broadcast(snap)
	return snap, nil
}

// RecordSteps adds an increment from the step sensor. Ignored while paused.
func (m *Manager) RecordSteps(ctx context.Context, userID string, delta int64) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok {
		return Snapshot{}, ErrNoSession
	}
	if s.state == StateActive && delta > 0 {
		s.act.Steps += delta
		m.saveProgress(ctx, s)
	}
	snap := m.snapshot(s)
	m.broadcast(snap)
	return snap, nil
}

// SetSteps replaces the step counter with a stride-derived absolute value.
func (m *Manager) SetSteps(ctx context.Context, userID string, steps int64) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok {
		return Snapshot{}, ErrNoSession
	}
	if s.state == StateActive && steps >= 0 {
		s.act.Steps = steps
		m.saveProgress(ctx, s)
	}
	snap := m.snapshot(s)
	m.broadcast(snap)
	return snap, nil
}

// End finalizes the session from Active or Paused. An open pause is folded
// into the pause total before the final duration is computed, so ending
// while paused never over- or under-counts active time.
func (m *Manager) End(ctx context.Context, userID string) (activity.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok {
		return activity.Activity{}, ErrNoSession
	}

	endedAt, active := s.watch.Stop()
	s.act.DurationMs = (s.baseDuration + active).Milliseconds()
	s.act.EndedAt = endedAt
	s.state = StateEnded

	if err := m.store.Finalize(ctx, s.act.ID, endedAt, s.act.DurationMs); err != nil {
		log.Printf("session %s: finalize failed: %v", s.act.ID, err)
	}
	delete(m.sessions, userID)

	m.broadcast(m.snapshot(s))
	return s.act, nil
}

// Current returns the live counters of the user's session.
func (m *Manager) Current(userID string) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok {
		return Snapshot{}, ErrNoSession
	}
	return m.snapshot(s), nil
}

// Recover rebuilds sessions from activities left open by a crash or
// restart. Persisted cumulative counters become the new baseline; distance
// and pause bookkeeping from before the restart is not recomputed, which is
// an accepted precision loss. A record with accumulated duration is assumed
// paused — that heuristic cannot distinguish "paused" from "briefly active
// then killed", a known limitation of inferring state instead of storing it.
func (m *Manager) Recover(ctx context.Context) (int, error) {
	open, err := m.store.Open(ctx)
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	recovered := 0
	for _, act := range open {
		if _, ok := m.sessions[act.UserID]; ok {
			continue
		}

		s := &liveSession{
			act:           act,
			state:         StateActive,
			watch:         NewStopwatchAt(m.clock, m.clock.Now()),
			acc:           gps.NewAccumulator(m.filter),
			baseDistanceM: act.DistanceM,
			baseDuration:  time.Duration(act.DurationMs) * time.Millisecond,
		}
		if act.DurationMs > 0 {
			s.state = StatePaused
			s.watch.Pause()
		}
		m.sessions[act.UserID] = s
		recovered++
		log.Printf("session %s: recovered for user %s in state %s", act.ID, act.UserID, s.state)
	}
	return recovered, nil
}

func (m *Manager) saveProgress(ctx context.Context, s *liveSession) {
	durationMs := (s.baseDuration + s.watch.Elapsed()).Milliseconds()
	err := m.store.SaveProgress(ctx, s.act.ID, s.act.DistanceM, s.act.Steps, s.act.ElevationGainM, durationMs)
	if err != nil {
		log.Printf("session %s: save progress failed: %v", s.act.ID, err)
	}
}

func (m *Manager) snapshot(s *liveSession) Snapshot {
	durationMs := s.act.DurationMs
	if s.state != StateEnded {
		durationMs = (s.baseDuration + s.watch.Elapsed()).Milliseconds()
	}
	return Snapshot{
		ActivityID:     s.act.ID,
		State:          s.state,
		Steps:          s.act.Steps,
		DistanceM:      s.act.DistanceM,
		ElevationGainM: s.act.ElevationGainM,
		DurationMs:     durationMs,
		Signal:         s.acc.Signal(),
		RoutePoints:    s.routePoints,
	}
}

func (m *Manager) broadcast(snap Snapshot) {
	if m.live == nil {
		return
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return
	}
	m.live.Broadcast(snap.ActivityID, payload)
}
