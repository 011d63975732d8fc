package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
)

var errQuery = errors.New("query error")

func TestCreateAndGetActivity(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	startedAt := time.Now()

	mock.ExpectQuery(`INSERT INTO activities`).
		WithArgs("act-1", "user-1", "profile-1", int64(0), 0.0, 0.0, int64(0), startedAt).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	svc := NewService(mock)
	created, err := svc.Create(context.Background(), Activity{
		ID:        "act-1",
		UserID:    "user-1",
		ProfileID: "profile-1",
		StartedAt: startedAt,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.CreatedAt.IsZero() {
		t.Fatalf("expected created_at set")
	}

	mock.ExpectQuery(`SELECT id, user_id, COALESCE\(profile_id,''\), steps, distance_m, elevation_gain_m, duration_ms, started_at`).
		WithArgs("act-1", "user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "profile_id", "steps", "distance_m", "elevation_gain_m", "duration_ms", "started_at", "ended_at", "created_at"}).
			AddRow("act-1", "user-1", "profile-1", int64(0), 0.0, 0.0, int64(0), startedAt, time.Unix(0, 0), time.Now()))

	loaded, err := svc.Get(context.Background(), "user-1", "act-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.ID != "act-1" {
		t.Fatalf("unexpected activity loaded")
	}
	if !loaded.EndedAt.IsZero() {
		t.Fatalf("expected open activity to report zero ended_at")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSaveProgressAndFinalize(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`UPDATE activities`).
		WithArgs("act-1", 620.5, int64(800), 12.0, int64(90000)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	mock.ExpectExec(`UPDATE activities`).
		WithArgs("act-1", pgxmock.AnyArg(), int64(150000)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	svc := NewService(mock)
	if err := svc.SaveProgress(context.Background(), "act-1", 620.5, 800, 12, 90000); err != nil {
		t.Fatalf("save progress: %v", err)
	}
	if err := svc.Finalize(context.Background(), "act-1", time.Now(), 150000); err != nil {
		t.Fatalf("finalize: %v", err)
	}
}

func TestAppendAndListPoints(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	recordedAt := time.Now()
	mock.ExpectExec(`INSERT INTO route_points`).
		WithArgs("act-1", 13.405, 52.52, 34.0, recordedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	svc := NewService(mock)
	err = svc.AppendPoint(context.Background(), "act-1", RoutePoint{
		Lat:        52.52,
		Lng:        13.405,
		ElevationM: 34,
		RecordedAt: recordedAt,
	})
	if err != nil {
		t.Fatalf("append point: %v", err)
	}

	mock.ExpectQuery(`SELECT rp.id, rp.activity_id, ST_Y\(rp.location::geometry\), ST_X\(rp.location::geometry\)`).
		WithArgs("act-1", "user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "activity_id", "lat", "lng", "elevation_m", "recorded_at"}).
			AddRow(int64(1), "act-1", 52.52, 13.405, 34.0, recordedAt))

	points, err := svc.Points(context.Background(), "user-1", "act-1")
	if err != nil || len(points) != 1 {
		t.Fatalf("points: %v", err)
	}
}

func TestListActivities(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, user_id, COALESCE\(profile_id,''\), steps, distance_m, elevation_gain_m, duration_ms, started_at`).
		WithArgs("user-1", 50).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "profile_id", "steps", "distance_m", "elevation_gain_m", "duration_ms", "started_at", "ended_at", "created_at"}).
			AddRow("act-1", "user-1", "", int64(900), 720.0, 5.0, int64(600000), time.Now(), time.Now(), time.Now()).
			AddRow("act-2", "user-1", "", int64(0), 0.0, 0.0, int64(0), time.Now(), time.Unix(0, 0), time.Now()))

	svc := NewService(mock)
	activities, err := svc.List(context.Background(), "user-1", 0)
	if err != nil || len(activities) != 2 {
		t.Fatalf("list: %v", err)
	}
	if activities[0].EndedAt.IsZero() {
		t.Fatalf("expected first activity ended")
	}
	if !activities[1].EndedAt.IsZero() {
		t.Fatalf("expected second activity open")
	}
}

func TestOpenActivities(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, user_id, COALESCE\(profile_id,''\), steps, distance_m, elevation_gain_m, duration_ms, started_at, created_at`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "profile_id", "steps", "distance_m", "elevation_gain_m", "duration_ms", "started_at", "created_at"}).
			AddRow("act-1", "user-1", "", int64(500), 400.0, 0.0, int64(0), time.Now(), time.Now()))

	svc := NewService(mock)
	open, err := svc.Open(context.Background())
	if err != nil || len(open) != 1 {
		t.Fatalf("open: %v", err)
	}
	if !open[0].EndedAt.IsZero() {
		t.Fatalf("expected open activity")
	}
}

func TestDeleteActivity(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`DELETE FROM route_points`).
		WithArgs("act-1", "user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectExec(`DELETE FROM activities`).
		WithArgs("act-1", "user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	svc := NewService(mock)
	if err := svc.Delete(context.Background(), "user-1", "act-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestGetActivityOtherUser(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	// Ownership is part of the lookup key: another user's id yields no row.
	mock.ExpectQuery(`SELECT id, user_id, COALESCE\(profile_id,''\), steps`).
		WithArgs("act-1", "user-2").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "profile_id", "steps", "distance_m", "elevation_gain_m", "duration_ms", "started_at", "ended_at", "created_at"}))

	svc := NewService(mock)
	if _, err := svc.Get(context.Background(), "user-2", "act-1"); err == nil {
		t.Fatalf("expected no row for non-owner")
	}
}

func TestCreateActivityError(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO activities`).
		WithArgs("act-1", "user-1", "", int64(0), 0.0, 0.0, int64(0), pgxmock.AnyArg()).
		WillReturnError(errQuery)

	svc := NewService(mock)
	if _, err := svc.Create(context.Background(), Activity{ID: "act-1", UserID: "user-1", StartedAt: time.Now()}); err == nil {
		t.Fatalf("expected error")
	}
}
