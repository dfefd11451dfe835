package service

import (
	"context"
	"studynova_backend/internal/model"
	"studynova_backend/internal/repository"
	"studynova_backend/pkg/docstore"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProgressService(store docstore.Store) (*ProgressService, *repository.ProgressRepository) {
	repo := repository.NewProgressRepository(store)
	return NewProgressService(repo), repo
}

func TestRecordActivityAwardsXP(t *testing.T) {
	svc, _ := newTestProgressService(docstore.NewMemStore())
	ctx := context.Background()

	require.NoError(t, svc.RecordActivity(ctx, "user-1", model.ActionSolutionViewed, 30))
	require.NoError(t, svc.RecordActivity(ctx, "user-1", "hint_opened", 10))

	progress, err := svc.GetProgress(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, XPSolutionViewed+XPDefaultAction, progress.XP)
	assert.Equal(t, 40, progress.TotalTimeSpent)
	assert.Equal(t, 1, progress.StreakDays)
}

func TestRecordActivityStreakSameDay(t *testing.T) {
	svc, _ := newTestProgressService(docstore.NewMemStore())
	ctx := context.Background()

	// 同一天多次活跃不叠加连续天数
	require.NoError(t, svc.RecordActivity(ctx, "user-1", "hint_opened", 0))
	require.NoError(t, svc.RecordActivity(ctx, "user-1", "hint_opened", 0))

	progress, err := svc.GetProgress(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, progress.StreakDays)
}

func TestRecordActivityStreakContinues(t *testing.T) {
	store := docstore.NewMemStore()
	svc, repo := newTestProgressService(store)
	ctx := context.Background()

	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	require.NoError(t, repo.Save(ctx, &model.UserProgress{
		UserID:         "user-1",
		XP:             100,
		StreakDays:     4,
		LastActiveDate: yesterday,
	}))

	require.NoError(t, svc.RecordActivity(ctx, "user-1", "hint_opened", 0))

	progress, err := svc.GetProgress(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 5, progress.StreakDays)
	assert.Equal(t, 100+XPDefaultAction, progress.XP)
}

func TestRecordActivityStreakResets(t *testing.T) {
	store := docstore.NewMemStore()
	svc, repo := newTestProgressService(store)
	ctx := context.Background()

	lastWeek := time.Now().AddDate(0, 0, -7).Format("2006-01-02")
	require.NoError(t, repo.Save(ctx, &model.UserProgress{
		UserID:         "user-1",
		StreakDays:     9,
		LastActiveDate: lastWeek,
	}))

	require.NoError(t, svc.RecordActivity(ctx, "user-1", "hint_opened", 0))

	progress, err := svc.GetProgress(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, progress.StreakDays)
}

func TestGetProgressUnknownUser(t *testing.T) {
	svc, _ := newTestProgressService(docstore.NewMemStore())

	progress, err := svc.GetProgress(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, "nobody", progress.UserID)
	assert.Equal(t, 0, progress.XP)
	assert.Equal(t, 0, progress.StreakDays)
}
