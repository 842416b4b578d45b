package assessment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopUploader struct{}

func (noopUploader) Store(ctx context.Context, filename string, data []byte) (string, error) {
	return "upload-1", nil
}

type noopReport struct{}

func (noopReport) RenderSummary(ctx context.Context, s AssessmentSession, p Progress) ([]byte, error) {
	return []byte("pdf"), nil
}

func TestServiceCreateAssignsSessionID(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo, noopUploader{}, noopReport{})

	s, err := svc.CreateAssessment(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, s.SessionID)

	id, err := uuid.Parse(s.SessionID)
	require.NoError(t, err)

	// The freshly created session is already durable.
	persisted, err := repo.Load(ctx, id.String())
	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.Equal(t, s.SessionID, persisted.SessionID)
}

func TestServiceUnknownSession(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(), noopUploader{}, noopReport{})

	_, err := svc.GetAssessment(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)

	err = svc.SetCurrentStep(ctx, uuid.New(), StepVitals)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestServiceSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()

	svc := NewService(repo, noopUploader{}, noopReport{})
	created, err := svc.CreateAssessment(ctx)
	require.NoError(t, err)

	id := uuid.MustParse(created.SessionID)
	require.NoError(t, svc.SetCurrentStep(ctx, id, StepLabs))
	require.NoError(t, svc.MarkStepCompleted(ctx, id, StepDemographics))
	require.NoError(t, svc.UpdateVitalSigns(ctx, id, VitalSigns{HeartRate: ptr(72)}))

	// A new service over the same repository stands in for a restarted
	// process: the session restores field for field.
	restarted := NewService(repo, noopUploader{}, noopReport{})

	s, err := restarted.GetAssessment(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StepLabs, s.CurrentStep)
	assert.Equal(t, []Step{StepDemographics}, s.CompletedSteps)
	require.NotNil(t, s.VitalSigns.HeartRate)
	assert.Equal(t, 72, *s.VitalSigns.HeartRate)

	progress, degraded, err := restarted.GetProgress(ctx, id)
	require.NoError(t, err)
	assert.False(t, degraded)
	assert.Equal(t, 6, progress.TotalSteps)
}

func TestServiceUploadRecordsFileID(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(), noopUploader{}, noopReport{})

	created, err := svc.CreateAssessment(ctx)
	require.NoError(t, err)
	id := uuid.MustParse(created.SessionID)

	fileID, err := svc.UploadFile(ctx, id, "labs.pdf", []byte("bytes"))
	require.NoError(t, err)
	assert.Equal(t, "upload-1", fileID)

	require.NoError(t, svc.RegisterUploadedFile(ctx, id, "ext-9"))

	s, err := svc.GetAssessment(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"upload-1", "ext-9"}, s.UploadedFiles)
}
