package service

import (
	"context"
	"testing"
	"time"

	"fitweek/fitness-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerService_Completions(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	repo.seedUser("serj")
	svc := NewLedgerService(repo)

	record := domain.CompletionRecord{
		Date:      "2026-08-26",
		Exercises: []domain.ExerciseItem{squat()},
		Memo:      "solid",
	}
	require.NoError(t, svc.AddCompletion(ctx, "serj", record))
	assert.ErrorIs(t, svc.AddCompletion(ctx, "serj", record), domain.ErrDuplicateDate)

	list, err := svc.ListCompletions(ctx, "serj")
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.RemoveCompletion(ctx, "serj", "2026-08-26"))
	assert.ErrorIs(t, svc.RemoveCompletion(ctx, "serj", "2026-08-26"), ErrEntryNotFound)
	assert.Empty(t, repo.stored("serj").Completions)

	assert.ErrorIs(t, svc.AddCompletion(ctx, "ghost", record), ErrUserNotFound)
}

func TestLedgerService_Calendar(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	repo.seedUser("serj")
	svc := NewLedgerService(repo)

	require.NoError(t, svc.AddCompletion(ctx, "serj", domain.CompletionRecord{Date: "2026-05-04", Memo: "legs"}))

	cells, err := svc.Calendar(ctx, "serj", 2026, time.May)
	require.NoError(t, err)
	require.Len(t, cells, 42)

	var found bool
	for _, c := range cells {
		if c.Date == "2026-05-04" {
			found = true
			require.NotNil(t, c.Completion)
			assert.Equal(t, "legs", c.Completion.Memo)
		}
	}
	assert.True(t, found)
}

func TestLedgerService_Progress(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	repo.seedUser("serj")
	svc := NewLedgerService(repo)

	entry := domain.ProgressEntry{Date: "2026-08-26", Weight: 70, MuscleMass: 30, FatMass: 15}
	require.NoError(t, svc.AddProgress(ctx, "serj", entry))

	// Immediate same-date resubmission is a duplicate.
	assert.ErrorIs(t, svc.AddProgress(ctx, "serj", entry), domain.ErrDuplicateDate)

	series, err := svc.Progress(ctx, "serj")
	require.NoError(t, err)
	require.Len(t, series.Weight, 1)
	assert.Equal(t, domain.SeriesPoint{Date: "2026-08-26", Value: 70}, series.Weight[0])
	assert.Equal(t, domain.SeriesPoint{Date: "2026-08-26", Value: 30}, series.MuscleMass[0])
	assert.Equal(t, domain.SeriesPoint{Date: "2026-08-26", Value: 15}, series.FatMass[0])

	// Removal shrinks all three series together.
	require.NoError(t, svc.RemoveProgress(ctx, "serj", "2026-08-26"))
	series, err = svc.Progress(ctx, "serj")
	require.NoError(t, err)
	assert.Empty(t, series.Weight)
	assert.Empty(t, series.MuscleMass)
	assert.Empty(t, series.FatMass)

	assert.ErrorIs(t, svc.RemoveProgress(ctx, "serj", "2026-08-26"), ErrEntryNotFound)
}
