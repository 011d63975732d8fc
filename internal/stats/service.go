package stats

import (
	"context"
	"time"

	"backend-stridelog/internal/db"
)

// historyCap bounds how much history feeds streak and personality scans.
const historyCap = 365

type Service struct {
	db    db.Querier
	loc   *time.Location
	clock func() time.Time
}

func NewService(db db.Querier, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{db: db, loc: loc, clock: time.Now}
}

type Summary struct {
	Activities      int     `json:"activities"`
	TotalDistanceM  float64 `json:"total_distance_m"`
	TotalSteps      int64   `json:"total_steps"`
	TotalDurationMs int64   `json:"total_duration_ms"`
	AvgDistanceM    float64 `json:"avg_distance_m"`
}

func (s *Service) startTimes(ctx context.Context, userID string) ([]time.Time, error) {
	rows, err := s.db.Query(ctx, `
		SELECT started_at FROM activities
		WHERE user_id=$1 AND ended_at IS NOT NULL
		ORDER BY started_at DESC
		LIMIT $2
	`, userID, historyCap)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var ts time.Time
		if err := rows.Scan(&ts); err != nil {
			return nil, err
		}
		times = append(times, ts)
	}
	return times, nil
}

func (s *Service) Streaks(ctx context.Context, userID string) (Streaks, error) {
	times, err := s.startTimes(ctx, userID)
	if err != nil {
		return Streaks{}, err
	}
	return CalcStreaks(times, s.clock(), s.loc), nil
}

func (s *Service) Personality(ctx context.Context, userID string) (Personality, error) {
	times, err := s.startTimes(ctx, userID)
	if err != nil {
		return "", err
	}
	return Classify(times, s.loc), nil
}

func (s *Service) Summary(ctx context.Context, userID string) (Summary, error) {
	var sum Summary
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(distance_m),0), COALESCE(SUM(steps),0), COALESCE(SUM(duration_ms),0)
		FROM activities
		WHERE user_id=$1 AND ended_at IS NOT NULL
	`, userID).Scan(&sum.Activities, &sum.TotalDistanceM, &sum.TotalSteps, &sum.TotalDurationMs)
	if err != nil {
		return Summary{}, err
	}
	if sum.Activities > 0 {
		sum.AvgDistanceM = sum.TotalDistanceM / float64(sum.Activities)
	}
	return sum, nil
}
