package gps

import "backend-stridelog/internal/shared/geo"

// Accumulator maintains a running distance over a stream of fixes, dropping
// jitter and teleport artifacts. The same accumulator backs both live
// activity tracking and the stride calibration walk.
type Accumulator struct {
	cfg          FilterConfig
	totalM       float64
	lastAccepted *Coordinate
	signal       Signal
	worstM       float64
}

func NewAccumulator(cfg FilterConfig) *Accumulator {
	return &Accumulator{cfg: cfg, signal: SignalWeak}
}

// Ingest feeds one fix into the accumulator and reports whether its delta
// was folded into the total. The first fix establishes the baseline only
// and reports false. Signal quality and worst-seen accuracy update on every
// fix, accepted or not. A rejected fix never replaces the baseline, so the
// next fix is still compared against the last accepted one.
func (a *Accumulator) Ingest(fix Coordinate) bool {
	a.signal = SignalFromAccuracy(fix.AccuracyM)
	if fix.AccuracyM > a.worstM {
		a.worstM = fix.AccuracyM
	}

	if a.lastAccepted == nil {
		f := fix
		a.lastAccepted = &f
		return false
	}

	delta := geo.HaversineM(a.lastAccepted.Lat, a.lastAccepted.Lng, fix.Lat, fix.Lng)
	if !a.cfg.Accept(delta) {
		return false
	}

	a.totalM += delta
	f := fix
	a.lastAccepted = &f
	return true
}

func (a *Accumulator) TotalM() float64 {
	return a.totalM
}

func (a *Accumulator) Signal() Signal {
	return a.signal
}

// WorstAccuracyM is the largest accuracy radius seen across all ingested
// fixes since the last reset. Calibration uses it to derive confidence.
func (a *Accumulator) WorstAccuracyM() float64 {
	return a.worstM
}

// Reset clears the total and the baseline for a new walk or activity.
func (a *Accumulator) Reset() {
	a.totalM = 0
	a.lastAccepted = nil
	a.signal = SignalWeak
	a.worstM = 0
}
