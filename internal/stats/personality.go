package stats

import "time"

type Personality string

const (
	PersonalityEarlyBird      Personality = "early_bird"
	PersonalityNightOwl       Personality = "night_owl"
	PersonalityWeekendWarrior Personality = "weekend_warrior"
	PersonalitySteady         Personality = "steady"
	PersonalityCasual         Personality = "casual"
)

// minClassifySample is the history size below which classification stays
// casual rather than reading patterns into noise.
const minClassifySample = 5

// Classify buckets a user's training pattern from completed-activity start
// times. Weekend concentration wins over time-of-day, time-of-day wins
// over plain frequency.
func Classify(startTimes []time.Time, loc *time.Location) Personality {
	if len(startTimes) < minClassifySample {
		return PersonalityCasual
	}

	var morning, night, weekend int
	days := map[time.Time]bool{}
	oldest := startTimes[0]
	newest := startTimes[0]

	for _, ts := range startTimes {
		local := ts.In(loc)
		if local.Hour() < 9 {
			morning++
		}
		if local.Hour() >= 20 {
			night++
		}
		if wd := local.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekend++
		}
		days[midnight(local)] = true
		if ts.Before(oldest) {
			oldest = ts
		}
		if ts.After(newest) {
			newest = ts
		}
	}

	total := len(startTimes)
	if weekend*10 >= total*6 {
		return PersonalityWeekendWarrior
	}
	if morning*2 >= total {
		return PersonalityEarlyBird
	}
	if night*2 >= total {
		return PersonalityNightOwl
	}

	weeks := newest.Sub(oldest).Hours() / 24 / 7
	if weeks < 1 {
		weeks = 1
	}
	if float64(len(days))/weeks >= 4 {
		return PersonalitySteady
	}
	return PersonalityCasual
}
