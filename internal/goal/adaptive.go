package goal

import "math"

// historyWindow caps how many past periods feed a suggestion.
const historyWindow = 7

func DefaultTarget(t Type) float64 {
	switch t {
	case WeeklySteps:
		return 70000
	case DailyDistance:
		return 5000
	default:
		return 10000
	}
}

// granularity is the display rounding step per type, so suggested targets
// read as intentional figures instead of raw averages.
func granularity(t Type) float64 {
	if t == DailyDistance {
		return 100
	}
	return 500
}

// SuggestedTarget derives the next target from recent achieved values,
// most recent first. Empty history falls back to the type default;
// otherwise the mean is nudged up 5% and rounded to the type granularity.
func SuggestedTarget(t Type, history []float64) float64 {
	if len(history) == 0 {
		return DefaultTarget(t)
	}
	if len(history) > historyWindow {
		history = history[:historyWindow]
	}

	sum := 0.0
	for _, v := range history {
		sum += v
	}
	mean := sum / float64(len(history))

	step := granularity(t)
	return math.Round(mean*1.05/step) * step
}
