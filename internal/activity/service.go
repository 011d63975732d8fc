package activity

import (
	"context"
	"time"

	"backend-stridelog/internal/db"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) Create(ctx context.Context, a Activity) (Activity, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO activities (id, user_id, profile_id, steps, distance_m, elevation_gain_m, duration_ms, started_at)
		VALUES ($1,$2,NULLIF($3,''),$4,$5,$6,$7,$8)
		RETURNING created_at
	`, a.ID, a.UserID, a.ProfileID, a.Steps, a.DistanceM, a.ElevationGainM, a.DurationMs, a.StartedAt)
	if err := row.Scan(&a.CreatedAt); err != nil {
		return Activity{}, err
	}
	return a, nil
}

// SaveProgress persists the live counters of an in-progress activity.
func (s *Service) SaveProgress(ctx context.Context, id string, distanceM float64, steps int64, elevationGainM float64, durationMs int64) error {
	_, err := s.db.Exec(ctx, `
		UPDATE activities
		SET distance_m=$2, steps=$3, elevation_gain_m=$4, duration_ms=$5
		WHERE id=$1 AND ended_at IS NULL
	`, id, distanceM, steps, elevationGainM, durationMs)
	return err
}

func (s *Service) AppendPoint(ctx context.Context, activityID string, p RoutePoint) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO route_points (activity_id, location, elevation_m, recorded_at)
		VALUES ($1, ST_SetSRID(ST_MakePoint($2,$3), 4326)::geography, $4, $5)
	`, activityID, p.Lng, p.Lat, p.ElevationM, p.RecordedAt)
	return err
}

// Finalize locks the duration and marks the activity ended. Rows already
// ended are left untouched.
func (s *Service) Finalize(ctx context.Context, id string, endedAt time.Time, durationMs int64) error {
	_, err := s.db.Exec(ctx, `
		UPDATE activities
		SET ended_at=$2, duration_ms=$3
		WHERE id=$1 AND ended_at IS NULL
	`, id, endedAt, durationMs)
	return err
}

// Get is scoped to the owner; other users see the activity as absent.
func (s *Service) Get(ctx context.Context, userID, id string) (Activity, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, COALESCE(profile_id,''), steps, distance_m, elevation_gain_m, duration_ms, started_at, COALESCE(ended_at, 'epoch'::timestamptz), created_at
		FROM activities WHERE id=$1 AND user_id=$2
	`, id, userID)
	var a Activity
	if err := row.Scan(&a.ID, &a.UserID, &a.ProfileID, &a.Steps, &a.DistanceM, &a.ElevationGainM, &a.DurationMs, &a.StartedAt, &a.EndedAt, &a.CreatedAt); err != nil {
		return Activity{}, err
	}
	if a.EndedAt.Unix() == 0 {
		a.EndedAt = time.Time{}
	}
	return a, nil
}

func (s *Service) List(ctx context.Context, userID string, limit int) ([]Activity, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, COALESCE(profile_id,''), steps, distance_m, elevation_gain_m, duration_ms, started_at, COALESCE(ended_at, 'epoch'::timestamptz), created_at
		FROM activities WHERE user_id=$1
		ORDER BY started_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.UserID, &a.ProfileID, &a.Steps, &a.DistanceM, &a.ElevationGainM, &a.DurationMs, &a.StartedAt, &a.EndedAt, &a.CreatedAt); err != nil {
			return nil, err
		}
		if a.EndedAt.Unix() == 0 {
			a.EndedAt = time.Time{}
		}
		activities = append(activities, a)
	}
	return activities, nil
}

func (s *Service) Points(ctx context.Context, userID, activityID string) ([]RoutePoint, error) {
	rows, err := s.db.Query(ctx, `
		SELECT rp.id, rp.activity_id, ST_Y(rp.location::geometry), ST_X(rp.location::geometry), COALESCE(rp.elevation_m,0), rp.recorded_at
		FROM route_points rp
		JOIN activities a ON a.id = rp.activity_id
		WHERE rp.activity_id=$1 AND a.user_id=$2
		ORDER BY rp.recorded_at
	`, activityID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []RoutePoint
	for rows.Next() {
		var p RoutePoint
		if err := rows.Scan(&p.ID, &p.ActivityID, &p.Lat, &p.Lng, &p.ElevationM, &p.RecordedAt); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}

// Delete removes an activity and its route, but only for its owner.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM route_points rp
		USING activities a
		WHERE a.id = rp.activity_id AND rp.activity_id=$1 AND a.user_id=$2
	`, id, userID)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `DELETE FROM activities WHERE id=$1 AND user_id=$2`, id, userID)
	return err
}

// Open returns activities with no end time, used to rebuild interrupted
// sessions after a restart.
func (s *Service) Open(ctx context.Context) ([]Activity, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, COALESCE(profile_id,''), steps, distance_m, elevation_gain_m, duration_ms, started_at, created_at
		FROM activities WHERE ended_at IS NULL
		ORDER BY started_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.UserID, &a.ProfileID, &a.Steps, &a.DistanceM, &a.ElevationGainM, &a.DurationMs, &a.StartedAt, &a.CreatedAt); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, nil
}
