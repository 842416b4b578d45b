package drivers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atharhive/CareLens-sub001/internal/assessment"
)

func intPtr(v int) *int { return &v }

func TestInMemoryRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	// Missing keys are nil, not an error.
	s, err := repo.Load(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, s)

	saved := assessment.NewSession()
	saved.SessionID = "abc"
	saved.CurrentStep = assessment.StepLabs
	saved.DemographicData.Age = intPtr(40)
	require.NoError(t, repo.Save(ctx, "abc", saved))

	loaded, err := repo.Load(ctx, "abc")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, saved, loaded)

	// The repository stores copies: mutating the original after Save must
	// not leak into subsequent loads.
	*saved.DemographicData.Age = 99
	loaded, err = repo.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, 40, *loaded.DemographicData.Age)

	require.NoError(t, repo.Delete(ctx, "abc"))
	loaded, err = repo.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestNewRepository(t *testing.T) {
	repo, err := NewRepository(DriverMemory)
	require.NoError(t, err)
	assert.NotNil(t, repo)

	_, err = NewRepository(DriverRedis)
	assert.ErrorIs(t, err, assessment.ErrInvalidConfig)

	_, err = NewRepository(DriverPostgres)
	assert.ErrorIs(t, err, assessment.ErrInvalidConfig)

	_, err = NewRepository(Driver("cassandra"))
	assert.ErrorIs(t, err, assessment.ErrInvalidDriver)
}
