package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/dropscope/pkg/domain"
)

func TestRunRepository(t *testing.T) {
	repos, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	id, err := repos.Run.StartRun(ctx, "collect")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	runs, err := repos.Run.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, domain.RunRunning, runs[0].Status)
	assert.Nil(t, runs[0].FinishedAt)

	stats := map[string]int64{"fetched": 3, "admitted": 2}
	require.NoError(t, repos.Run.FinishRun(ctx, id, domain.RunFailed, stats, errors.New("source down")))

	runs, err = repos.Run.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
	assert.Equal(t, "collect", runs[0].Mode)
	assert.Equal(t, domain.RunFailed, runs[0].Status)
	assert.Equal(t, "source down", runs[0].Error)
	assert.Equal(t, stats, runs[0].Stats)
	require.NotNil(t, runs[0].FinishedAt)

	err = repos.Run.FinishRun(ctx, "missing", domain.RunSuccess, nil, nil)
	require.ErrorIs(t, err, ErrNotFound)
}
