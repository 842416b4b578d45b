package assessment

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Repository persists the full session record under an opaque key.
type Repository interface {
	// Load retrieves a persisted session by key.
	// Returns nil if no record exists (not an error).
	Load(ctx context.Context, key string) (*AssessmentSession, error)

	// Save persists the session record, replacing any prior version.
	Save(ctx context.Context, key string, s *AssessmentSession) error

	// Delete removes a persisted session by key.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the repository.
	Close() error
}

type postgresRepo struct {
	db *sql.DB
}

// NewPostgresRepository creates a Repository backed by the
// assessment_sessions table.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepo{db: db}
}

func (r *postgresRepo) Load(ctx context.Context, key string) (*AssessmentSession, error) {
	query := `SELECT session_id, current_step, completed_steps, demographics, vitals, history, symptoms, labs, uploaded_files, created_at, updated_at
		FROM assessment_sessions WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, key)

	var s AssessmentSession
	var completedJSON, demoJSON, vitalsJSON, historyJSON, symptomsJSON, labsJSON, filesJSON []byte

	err := row.Scan(
		&s.SessionID,
		&s.CurrentStep,
		&completedJSON,
		&demoJSON,
		&vitalsJSON,
		&historyJSON,
		&symptomsJSON,
		&labsJSON,
		&filesJSON,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	for _, col := range []struct {
		raw []byte
		dst any
	}{
		{completedJSON, &s.CompletedSteps},
		{demoJSON, &s.DemographicData},
		{vitalsJSON, &s.VitalSigns},
		{historyJSON, &s.MedicalHistory},
		{symptomsJSON, &s.Symptoms},
		{labsJSON, &s.LabResults},
		{filesJSON, &s.UploadedFiles},
	} {
		if len(col.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(col.raw, col.dst); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session column: %w", err)
		}
	}
	if s.CompletedSteps == nil {
		s.CompletedSteps = []Step{}
	}
	if s.UploadedFiles == nil {
		s.UploadedFiles = []string{}
	}

	return &s, nil
}

func (r *postgresRepo) Save(ctx context.Context, key string, s *AssessmentSession) error {
	completedJSON, err := json.Marshal(s.CompletedSteps)
	if err != nil {
		return err
	}
	demoJSON, err := json.Marshal(s.DemographicData)
	if err != nil {
		return err
	}
	vitalsJSON, err := json.Marshal(s.VitalSigns)
	if err != nil {
		return err
	}
	historyJSON, err := json.Marshal(s.MedicalHistory)
	if err != nil {
		return err
	}
	symptomsJSON, err := json.Marshal(s.Symptoms)
	if err != nil {
		return err
	}
	labsJSON, err := json.Marshal(s.LabResults)
	if err != nil {
		return err
	}
	filesJSON, err := json.Marshal(s.UploadedFiles)
	if err != nil {
		return err
	}

	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO assessment_sessions (id, session_id, current_step, completed_steps, demographics, vitals, history, symptoms, labs, uploaded_files, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			session_id = $2,
			current_step = $3,
			completed_steps = $4,
			demographics = $5,
			vitals = $6,
			history = $7,
			symptoms = $8,
			labs = $9,
			uploaded_files = $10,
			updated_at = $12
	`
	_, err = r.db.ExecContext(ctx, query,
		key, s.SessionID, s.CurrentStep, completedJSON, demoJSON, vitalsJSON,
		historyJSON, symptomsJSON, labsJSON, filesJSON, s.CreatedAt, s.UpdatedAt)
	return err
}

func (r *postgresRepo) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM assessment_sessions WHERE id = $1`, key)
	return err
}

func (r *postgresRepo) Close() error {
	return r.db.Close()
}
