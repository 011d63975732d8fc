package goal

import (
	"context"
	"time"

	"backend-stridelog/internal/activity"
	"backend-stridelog/internal/db"

	"github.com/google/uuid"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// Upsert creates or replaces the goal for its (type, date) slot. A replace
// keeps the existing row's id, so the id is read back rather than assumed.
func (s *Service) Upsert(ctx context.Context, g Goal) (Goal, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO goals (id, user_id, type, target, current, date)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (user_id, type, date) DO UPDATE
		SET target=EXCLUDED.target, current=EXCLUDED.current
		RETURNING id
	`, g.ID, g.UserID, string(g.Type), g.Target, g.Current, g.Date)
	if err := row.Scan(&g.ID); err != nil {
		return Goal{}, err
	}
	return g, nil
}

func (s *Service) Get(ctx context.Context, userID string, t Type, date string) (Goal, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, type, target, current, date
		FROM goals WHERE user_id=$1 AND type=$2 AND date=$3
	`, userID, string(t), date)
	var g Goal
	if err := row.Scan(&g.ID, &g.UserID, &g.Type, &g.Target, &g.Current, &g.Date); err != nil {
		return Goal{}, err
	}
	return g, nil
}

// AddProgress folds an increment into the goal for the period covering ts,
// creating the goal with the type default target when absent.
func (s *Service) AddProgress(ctx context.Context, userID string, t Type, ts time.Time, delta float64) error {
	if delta <= 0 {
		return nil
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO goals (id, user_id, type, target, current, date)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (user_id, type, date) DO UPDATE
		SET current = goals.current + EXCLUDED.current
	`, uuid.NewString(), userID, string(t), DefaultTarget(t), delta, PeriodFor(t, ts))
	return err
}

// ApplyActivity rolls one finished activity into the goals of its period.
func (s *Service) ApplyActivity(ctx context.Context, act activity.Activity) error {
	steps := float64(act.Steps)
	if err := s.AddProgress(ctx, act.UserID, DailySteps, act.StartedAt, steps); err != nil {
		return err
	}
	if err := s.AddProgress(ctx, act.UserID, WeeklySteps, act.StartedAt, steps); err != nil {
		return err
	}
	return s.AddProgress(ctx, act.UserID, DailyDistance, act.StartedAt, act.DistanceM)
}

// History returns achieved values of past periods, most recent first,
// limited to the suggestion window. Empty periods are skipped.
func (s *Service) History(ctx context.Context, userID string, t Type, before string) ([]float64, error) {
	rows, err := s.db.Query(ctx, `
		SELECT current FROM goals
		WHERE user_id=$1 AND type=$2 AND current > 0 AND date < $3
		ORDER BY date DESC
		LIMIT $4
	`, userID, string(t), before, historyWindow)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		history = append(history, v)
	}
	return history, nil
}

// Suggested computes the adaptive target for the period containing now.
func (s *Service) Suggested(ctx context.Context, userID string, t Type, now time.Time) (float64, error) {
	history, err := s.History(ctx, userID, t, PeriodFor(t, now))
	if err != nil {
		return 0, err
	}
	return SuggestedTarget(t, history), nil
}
