package calibration

import (
	"errors"
	"sync"

	"backend-stridelog/internal/gps"
)

// ErrNoWalk is returned for walk operations when the user has no
// calibration walk in progress.
var ErrNoWalk = errors.New("no calibration walk in progress")

// WalkStatus is the live view of a calibration walk.
type WalkStatus struct {
	Accepted  bool       `json:"accepted"`
	DistanceM float64    `json:"distance_m"`
	Signal    gps.Signal `json:"signal"`
}

// Recorder runs calibration walks. Fixes go through the same accumulator
// the live session uses, so the walked distance carries the identical
// noise filtering, and the worst fix accuracy feeds the confidence score.
type Recorder struct {
	mu     sync.Mutex
	filter gps.FilterConfig
	walks  map[string]*gps.Accumulator // keyed by user id
}

func NewRecorder(filter gps.FilterConfig) *Recorder {
	return &Recorder{
		filter: filter,
		walks:  map[string]*gps.Accumulator{},
	}
}

// Start opens a walk for the user. A walk already in progress is discarded
// and restarted from scratch.
func (r *Recorder) Start(userID string) WalkStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.walks[userID] = gps.NewAccumulator(r.filter)
	return WalkStatus{}
}

// Ingest feeds one fix into the user's walk.
func (r *Recorder) Ingest(userID string, fix gps.Coordinate) (WalkStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.walks[userID]
	if !ok {
		return WalkStatus{}, ErrNoWalk
	}

	accepted := acc.Ingest(fix)
	return WalkStatus{
		Accepted:  accepted,
		DistanceM: acc.TotalM(),
		Signal:    acc.Signal(),
	}, nil
}

// Complete closes the walk and returns the machine half of the calibration
// input: filtered distance and worst fix accuracy.
func (r *Recorder) Complete(userID string) (distanceM, worstAccuracyM float64, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.walks[userID]
	if !ok {
		return 0, 0, ErrNoWalk
	}
	delete(r.walks, userID)
	return acc.TotalM(), acc.WorstAccuracyM(), nil
}

// Cancel discards the walk, if any.
func (r *Recorder) Cancel(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.walks, userID)
}
