package goal

import (
	"context"
	"errors"
	"testing"
	"time"

	"backend-stridelog/internal/activity"

	"github.com/pashagolub/pgxmock/v3"
)

var errQuery = errors.New("query error")

func TestUpsertGoal(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO goals`).
		WithArgs(pgxmock.AnyArg(), "user-1", "daily_steps", 12000.0, 0.0, "2025-06-04").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("goal-1"))

	svc := NewService(mock)
	g, err := svc.Upsert(context.Background(), Goal{
		UserID: "user-1",
		Type:   DailySteps,
		Target: 12000,
		Date:   "2025-06-04",
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if g.ID != "goal-1" {
		t.Fatalf("expected persisted id, got %q", g.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetGoal(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, user_id, type, target, current, date`).
		WithArgs("user-1", "daily_steps", "2025-06-04").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "type", "target", "current", "date"}).
			AddRow("g1", "user-1", Type("daily_steps"), 10000.0, 4200.0, "2025-06-04"))

	svc := NewService(mock)
	g, err := svc.Get(context.Background(), "user-1", DailySteps, "2025-06-04")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if g.Current != 4200 {
		t.Fatalf("current = %v, want 4200", g.Current)
	}
}

func TestApplyActivity(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	startedAt := time.Date(2025, 6, 4, 7, 30, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO goals`).
		WithArgs(pgxmock.AnyArg(), "user-1", "daily_steps", 10000.0, 850.0, "2025-06-04").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO goals`).
		WithArgs(pgxmock.AnyArg(), "user-1", "weekly_steps", 70000.0, 850.0, "2025-06-02").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO goals`).
		WithArgs(pgxmock.AnyArg(), "user-1", "daily_distance", 5000.0, 640.0, "2025-06-04").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	svc := NewService(mock)
	err = svc.ApplyActivity(context.Background(), activity.Activity{
		UserID:    "user-1",
		Steps:     850,
		DistanceM: 640,
		StartedAt: startedAt,
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAddProgressSkipsZeroDelta(t *testing.T) {
	svc := NewService(nil)
	if err := svc.AddProgress(context.Background(), "user-1", DailySteps, time.Now(), 0); err != nil {
		t.Fatalf("expected nil for zero delta: %v", err)
	}
}

func TestSuggestedUsesHistory(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT current FROM goals`).
		WithArgs("user-1", "daily_steps", "2025-06-04", historyWindow).
		WillReturnRows(pgxmock.NewRows([]string{"current"}).
			AddRow(9000.0).AddRow(9000.0).AddRow(9000.0))

	svc := NewService(mock)
	now := time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)
	target, err := svc.Suggested(context.Background(), "user-1", DailySteps, now)
	if err != nil {
		t.Fatalf("suggested: %v", err)
	}
	if target != 9500 {
		t.Fatalf("target = %v, want 9500", target)
	}
}

func TestSuggestedEmptyHistoryDefault(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT current FROM goals`).
		WithArgs("user-1", "daily_steps", pgxmock.AnyArg(), historyWindow).
		WillReturnRows(pgxmock.NewRows([]string{"current"}))

	svc := NewService(mock)
	target, err := svc.Suggested(context.Background(), "user-1", DailySteps, time.Now())
	if err != nil {
		t.Fatalf("suggested: %v", err)
	}
	if target != 10000 {
		t.Fatalf("target = %v, want default 10000", target)
	}
}

func TestHistoryQueryError(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT current FROM goals`).
		WithArgs("user-1", "daily_steps", pgxmock.AnyArg(), historyWindow).
		WillReturnError(errQuery)

	svc := NewService(mock)
	if _, err := svc.Suggested(context.Background(), "user-1", DailySteps, time.Now()); err == nil {
		t.Fatalf("expected error")
	}
}
