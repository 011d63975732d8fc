package calibration

import (
	"context"

	"backend-stridelog/internal/db"

	"github.com/google/uuid"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// Save runs the calibrator on a completed walk and persists the resulting
// profile. measuredDistanceM and worstAccuracyM come from the walk's
// accumulator, not the client. Rejected input saves nothing.
func (s *Service) Save(ctx context.Context, userID, activityType string, measuredDistanceM float64, reportedSteps int, worstAccuracyM float64) (Profile, error) {
	if activityType == "" {
		activityType = TypeWalking
	}

	result, err := Calibrate(measuredDistanceM, reportedSteps, worstAccuracyM)
	if err != nil {
		return Profile{}, err
	}

	profile := Profile{
		ID:           uuid.NewString(),
		UserID:       userID,
		ActivityType: activityType,
		StepLengthM:  result.StepLengthM,
		Confidence:   result.Confidence,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO calibration_profiles (id, user_id, activity_type, step_length_m, confidence)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at, updated_at
	`, profile.ID, profile.UserID, profile.ActivityType, profile.StepLengthM, profile.Confidence)
	if err := row.Scan(&profile.CreatedAt, &profile.UpdatedAt); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

func (s *Service) Profiles(ctx context.Context, userID string) ([]Profile, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, activity_type, step_length_m, confidence, created_at, updated_at
		FROM calibration_profiles WHERE user_id=$1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.UserID, &p.ActivityType, &p.StepLengthM, &p.Confidence, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// Active returns the highest-confidence profile for the activity type.
func (s *Service) Active(ctx context.Context, userID, activityType string) (Profile, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, activity_type, step_length_m, confidence, created_at, updated_at
		FROM calibration_profiles
		WHERE user_id=$1 AND activity_type=$2
		ORDER BY confidence DESC, updated_at DESC
		LIMIT 1
	`, userID, activityType)
	var p Profile
	if err := row.Scan(&p.ID, &p.UserID, &p.ActivityType, &p.StepLengthM, &p.Confidence, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM calibration_profiles WHERE id=$1 AND user_id=$2`, id, userID)
	return err
}
