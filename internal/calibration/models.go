package calibration

import "time"

const (
	TypeWalking = "walking"
	TypeRunning = "running"
)

// Profile is one saved calibration run. Several may coexist per activity
// type; the highest-confidence one is the active profile.
type Profile struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	ActivityType string    `json:"activity_type"`
	StepLengthM  float64   `json:"step_length_m"`
	Confidence   float64   `json:"confidence"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
