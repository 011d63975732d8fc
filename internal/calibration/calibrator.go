package calibration

import (
	"errors"
	"fmt"
)

// Calibration input floors and stride plausibility bounds. Typical walking
// strides run 0.6-0.8m and running strides 0.8-1.2m; the bounds are wider
// than that on purpose.
const (
	minDistanceM = 5.0
	minSteps     = 5
	minStrideM   = 0.3
	maxStrideM   = 1.5
)

// ErrInputRejected marks a calibration run the user should retry. Nothing
// is saved when it is returned.
var ErrInputRejected = errors.New("calibration input rejected")

type Result struct {
	StepLengthM float64 `json:"step_length_m"`
	Confidence  float64 `json:"confidence"`
}

// Calibrate derives stride length from a measured calibration walk and the
// user-reported step count. Step counting is deliberately left to the
// human; the GPS-measured distance is the machine half of the ground truth.
// worstAccuracyM is the worst fix accuracy recorded during the walk.
func Calibrate(measuredDistanceM float64, reportedSteps int, worstAccuracyM float64) (Result, error) {
	if measuredDistanceM < minDistanceM {
		return Result{}, fmt.Errorf("%w: walked distance %.1fm is below %.0fm, walk further and retry", ErrInputRejected, measuredDistanceM, minDistanceM)
	}
	if reportedSteps < minSteps {
		return Result{}, fmt.Errorf("%w: %d steps is below %d, count again and retry", ErrInputRejected, reportedSteps, minSteps)
	}

	stride := measuredDistanceM / float64(reportedSteps)
	if stride < minStrideM {
		return Result{}, fmt.Errorf("%w: stride %.2fm is implausibly short", ErrInputRejected, stride)
	}
	if stride > maxStrideM {
		return Result{}, fmt.Errorf("%w: stride %.2fm is implausibly long", ErrInputRejected, stride)
	}

	return Result{StepLengthM: stride, Confidence: confidence(worstAccuracyM)}, nil
}

// confidence is a step function of the worst accuracy seen during the
// walk. Using the worst rather than the best fix keeps the score
// conservative.
func confidence(worstAccuracyM float64) float64 {
	switch {
	case worstAccuracyM < 5:
		return 0.98
	case worstAccuracyM < 10:
		return 0.95
	case worstAccuracyM < 15:
		return 0.85
	default:
		return 0.75
	}
}
