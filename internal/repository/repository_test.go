package repository

import (
	"context"
	"testing"

	"github.com/ngrobisa/artifactory-plugin/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) (BuildRepository, PromotionRepository) {
	t.Helper()
	db, err := NewSQLiteDB("")
	require.NoError(t, err)
	return NewBuildRepository(db), NewPromotionRepository(db)
}

func TestBuildRepository(t *testing.T) {
	builds, _ := newTestDB(t)
	ctx := context.Background()

	created, err := builds.Create(ctx, &entity.Build{Project: "app", Number: 3, ServerID: "main"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	found, err := builds.GetByCoordinates(ctx, "app", 3)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "main", found.ServerID)

	_, err = builds.GetByCoordinates(ctx, "app", 4)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, builds.IncrementPromotions(ctx, created.ID))
	require.NoError(t, builds.IncrementPromotions(ctx, created.ID))
	found, err = builds.GetByCoordinates(ctx, "app", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, found.PromotionCount)

	all, err := builds.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPromotionRepository(t *testing.T) {
	_, promotions := newTestDB(t)
	ctx := context.Background()

	for _, key := range []string{"libs-release-local", "libs-staging-local"} {
		_, err := promotions.Create(ctx, &entity.PromotionRecord{
			TaskID:        "task-" + key,
			Project:       "app",
			BuildNumber:   3,
			TargetStatus:  entity.StatusReleased,
			RepositoryKey: key,
			CiUser:        "alice",
			Succeeded:     true,
		})
		require.NoError(t, err)
	}

	history, err := promotions.ListByBuild(ctx, "app", 3)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "libs-staging-local", history[0].RepositoryKey, "newest first")

	last, err := promotions.LastRepositoryKey(ctx, "app")
	require.NoError(t, err)
	assert.Equal(t, "libs-staging-local", last)

	last, err = promotions.LastRepositoryKey(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, last)
}

func TestPromotionRecorder(t *testing.T) {
	builds, promotions := newTestDB(t)
	ctx := context.Background()

	build, err := builds.Create(ctx, &entity.Build{Project: "app", Number: 3, ServerID: "main"})
	require.NoError(t, err)

	recorder := NewPromotionRecorder(builds, promotions)
	err = recorder.Save(ctx, *build, entity.PromotionRecord{
		TaskID:        "task-1",
		Project:       "app",
		BuildNumber:   3,
		RepositoryKey: "libs-release-local",
		DryRunPassed:  true,
		RealRunPassed: true,
		Succeeded:     true,
	})
	require.NoError(t, err)

	found, err := builds.GetByCoordinates(ctx, "app", 3)
	require.NoError(t, err)
	assert.Equal(t, 1, found.PromotionCount)

	history, err := promotions.ListByBuild(ctx, "app", 3)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "task-1", history[0].TaskID)
}
