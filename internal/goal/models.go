package goal

import "time"

type Type string

const (
	DailySteps    Type = "daily_steps"
	WeeklySteps   Type = "weekly_steps"
	DailyDistance Type = "daily_distance"
)

func (t Type) Valid() bool {
	return t == DailySteps || t == WeeklySteps || t == DailyDistance
}

// Goal is one target for one period. Date is the day for daily types and
// the week-start (Monday) for weekly types; at most one goal exists per
// (user, type, date) and re-creating one replaces it.
type Goal struct {
	ID      string  `json:"id"`
	UserID  string  `json:"user_id"`
	Type    Type    `json:"type"`
	Target  float64 `json:"target"`
	Current float64 `json:"current"`
	Date    string  `json:"date"`
}

// PeriodFor returns the goal date key covering ts for the given type.
func PeriodFor(t Type, ts time.Time) string {
	if t == WeeklySteps {
		// Roll back to Monday.
		offset := (int(ts.Weekday()) + 6) % 7
		ts = ts.AddDate(0, 0, -offset)
	}
	return ts.Format("2006-01-02")
}
