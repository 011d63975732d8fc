package gps

import "time"

// Coordinate is the single fix shape the core consumes. Platform-specific
// sensor payloads are normalized into it at the HTTP boundary.
type Coordinate struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	AccuracyM float64   `json:"accuracy_m"`
	Timestamp time.Time `json:"timestamp"`
}

// Signal classifies fix quality from the reported horizontal accuracy.
type Signal string

const (
	SignalStrong Signal = "strong"
	SignalFair   Signal = "fair"
	SignalWeak   Signal = "weak"
)

func SignalFromAccuracy(accuracyM float64) Signal {
	switch {
	case accuracyM < 10:
		return SignalStrong
	case accuracyM < 20:
		return SignalFair
	default:
		return SignalWeak
	}
}

// FilterConfig holds the jitter/teleport thresholds for consecutive fix
// deltas. These are tuning knobs, not physical constants: deltas at or below
// MinDeltaM are treated as jitter at rest, deltas at or above MaxDeltaM as
// jump artifacts from a lost fix.
type FilterConfig struct {
	MinDeltaM float64
	MaxDeltaM float64
}

func DefaultFilterConfig() FilterConfig {
	return FilterConfig{MinDeltaM: 0.5, MaxDeltaM: 5.0}
}

// Accept reports whether a delta between consecutive fixes should be folded
// into an accumulated path.
func (f FilterConfig) Accept(deltaM float64) bool {
	return deltaM > f.MinDeltaM && deltaM < f.MaxDeltaM
}
