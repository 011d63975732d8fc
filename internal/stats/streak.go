package stats

import "time"

type Streaks struct {
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
}

// CalcStreaks derives consecutive-active-day streaks from activity start
// times. Days are bucketed by local calendar date, not by 24h timestamp
// windows, so streaks survive DST transitions the way users expect.
// CurrentStreak counts back from today; LongestStreak is the longest run
// anywhere in the history.
func CalcStreaks(startTimes []time.Time, today time.Time, loc *time.Location) Streaks {
	if len(startTimes) == 0 {
		return Streaks{}
	}

	days := map[time.Time]bool{}
	for _, ts := range startTimes {
		days[midnight(ts.In(loc))] = true
	}

	var s Streaks
	for day := midnight(today.In(loc)); days[day]; day = day.AddDate(0, 0, -1) {
		s.CurrentStreak++
	}

	// Longest run needs the full date set, not just the walk back from
	// today.
	for day := range days {
		if days[day.AddDate(0, 0, -1)] {
			continue // not the start of a run
		}
		run := 0
		for d := day; days[d]; d = d.AddDate(0, 0, 1) {
			run++
		}
		if run > s.LongestStreak {
			s.LongestStreak = run
		}
	}
	return s
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
