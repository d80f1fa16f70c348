package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"fitweek/fitness-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// performFixture seeds a user whose current routine has one squat planned
// for today's weekday.
func performFixture(t *testing.T) (*fakeUserRepo, PerformService, RoutineService) {
	t.Helper()
	repo := newFakeUserRepo()
	repo.seedUser("serj")
	routines := NewRoutineService(repo)

	var plan domain.WeekPlan
	plan[int(time.Now().Weekday())] = []domain.ExerciseItem{squat()}
	routine, err := routines.Create(context.Background(), "serj", "daily", plan)
	require.NoError(t, err)
	require.NoError(t, routines.SetCurrent(context.Background(), "serj", routine.ID))

	perform := NewPerformService(repo)
	t.Cleanup(perform.Close)
	return repo, perform, routines
}

func TestPerformService_Today(t *testing.T) {
	_, perform, _ := performFixture(t)
	ctx := context.Background()

	state, err := perform.Today(ctx, "serj")
	require.NoError(t, err)
	require.NotNil(t, state.Session)
	require.Len(t, state.Session.Items, 1)
	assert.Equal(t, []bool{false, false, false}, state.Session.Items[0].SetChecks)
	assert.False(t, state.Committed)

	_, err = perform.Today(ctx, "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestPerformService_Today_NoCurrentRoutine(t *testing.T) {
	repo := newFakeUserRepo()
	repo.seedUser("serj")
	perform := NewPerformService(repo)
	t.Cleanup(perform.Close)
	ctx := context.Background()

	state, err := perform.Today(ctx, "serj")
	require.NoError(t, err)
	assert.Nil(t, state.Session)

	_, err = perform.ToggleSet(ctx, "serj", 0, 0)
	assert.ErrorIs(t, err, domain.ErrEmptySession)
}

func TestPerformService_ToggleSequencing(t *testing.T) {
	_, perform, _ := performFixture(t)
	ctx := context.Background()

	// An out-of-order toggle is silently ignored; the state comes back
	// unchanged rather than as an error.
	state, err := perform.ToggleSet(ctx, "serj", 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false, false}, state.Session.Items[0].SetChecks)

	for set := 0; set < 3; set++ {
		state, err = perform.ToggleSet(ctx, "serj", 0, set)
		require.NoError(t, err)
	}
	assert.Equal(t, []bool{true, true, true}, state.Session.Items[0].SetChecks)
	assert.True(t, state.Session.AllComplete())
}

func TestPerformService_ConcurrentToggles(t *testing.T) {
	_, perform, _ := performFixture(t)
	ctx := context.Background()

	// A double-click lands as two concurrent requests for the same session.
	// Run under -race: toggles must mutate the live session only inside the
	// store lock.
	var wg sync.WaitGroup
	for g := 0; g < 2; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_, err := perform.ToggleSet(ctx, "serj", 0, 0)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	// 200 toggles in total, so set 0 ends up unchecked.
	state, err := perform.Today(ctx, "serj")
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false, false}, state.Session.Items[0].SetChecks)
}

func TestPerformService_ReturnedStateIsSnapshot(t *testing.T) {
	_, perform, _ := performFixture(t)
	ctx := context.Background()

	state, err := perform.Today(ctx, "serj")
	require.NoError(t, err)

	// Scribbling on the returned session (as a concurrent JSON encoder
	// would read it) must not reach the stored one.
	state.Session.Items[0].SetChecks[2] = true
	state.Session.Items = nil

	fresh, err := perform.Today(ctx, "serj")
	require.NoError(t, err)
	require.Len(t, fresh.Session.Items, 1)
	assert.Equal(t, []bool{false, false, false}, fresh.Session.Items[0].SetChecks)
}

func TestPerformService_RebuildOnRoutineEdit(t *testing.T) {
	_, perform, routines := performFixture(t)
	ctx := context.Background()

	state, err := perform.ToggleSet(ctx, "serj", 0, 0)
	require.NoError(t, err)
	require.True(t, state.Session.Items[0].SetChecks[0])

	// Any routine edit bumps lastModified; the next access discards the
	// partial checks and rebuilds from the fresh plan.
	_, err = routines.Rename(ctx, "serj", state.Session.RoutineID, "renamed")
	require.NoError(t, err)

	state, err = perform.Today(ctx, "serj")
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false, false}, state.Session.Items[0].SetChecks)
}

func TestPerformService_Commit(t *testing.T) {
	repo, perform, _ := performFixture(t)
	ctx := context.Background()

	// Committing an incomplete session is rejected.
	_, err := perform.Commit(ctx, "serj", "too early")
	assert.ErrorIs(t, err, domain.ErrIncompleteSets)

	_, err = perform.CheckAllSets(ctx, "serj", 0)
	require.NoError(t, err)

	record, err := perform.Commit(ctx, "serj", "felt good")
	require.NoError(t, err)
	assert.Equal(t, domain.Today(), record.Date)
	assert.Equal(t, "felt good", record.Memo)
	require.Len(t, record.Exercises, 1)
	assert.Equal(t, "Squat", record.Exercises[0].Name)

	stored := repo.stored("serj")
	require.Len(t, stored.Completions, 1)

	// The committed day reads as committed, with a fresh unchecked session.
	state, err := perform.Today(ctx, "serj")
	require.NoError(t, err)
	assert.True(t, state.Committed)
	assert.False(t, state.Session.AllComplete())

	// A second commit for the same day is a duplicate.
	_, err = perform.CheckAllSets(ctx, "serj", 0)
	require.NoError(t, err)
	_, err = perform.Commit(ctx, "serj", "again")
	assert.ErrorIs(t, err, domain.ErrDuplicateDate)
	assert.Len(t, repo.stored("serj").Completions, 1)
}

func TestPerformService_CommitEmptyDay(t *testing.T) {
	repo := newFakeUserRepo()
	repo.seedUser("serj")
	routines := NewRoutineService(repo)
	ctx := context.Background()

	// Current routine exists but has nothing planned today.
	routine, err := routines.Create(ctx, "serj", "restweek", domain.WeekPlan{})
	require.NoError(t, err)
	require.NoError(t, routines.SetCurrent(ctx, "serj", routine.ID))

	perform := NewPerformService(repo)
	t.Cleanup(perform.Close)

	_, err = perform.Commit(ctx, "serj", "nothing")
	assert.ErrorIs(t, err, domain.ErrEmptySession)
}
