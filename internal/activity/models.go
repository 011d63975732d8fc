package activity

import "time"

// Activity is one tracked walk or run. A zero EndedAt marks an in-progress
// or interrupted session; the session manager guarantees at most one such
// record per user.
type Activity struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	ProfileID      string    `json:"profile_id,omitempty"`
	Steps          int64     `json:"steps"`
	DistanceM      float64   `json:"distance_m"`
	ElevationGainM float64   `json:"elevation_gain_m"`
	DurationMs     int64     `json:"duration_ms"`
	StartedAt      time.Time `json:"started_at"`
	EndedAt        time.Time `json:"ended_at,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type RoutePoint struct {
	ID         int64     `json:"id"`
	ActivityID string    `json:"activity_id"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	ElevationM float64   `json:"elevation_m"`
	RecordedAt time.Time `json:"recorded_at"`
}
