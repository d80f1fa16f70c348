package service

import (
	"context"
	"sync"

	"fitweek/fitness-tracker/internal/domain"
	"fitweek/fitness-tracker/internal/repository"
)

// fakeUserRepo is an in-memory repository.UserRepository. Reads return deep
// copies so a service mutation only becomes visible through an explicit
// persist call, mirroring the read-modify-save contract of the real store.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.Routines = make([]domain.Routine, len(u.Routines))
	for i, r := range u.Routines {
		cr := r
		for day := range r.WeekPlan {
			cr.WeekPlan[day] = append([]domain.ExerciseItem(nil), r.WeekPlan[day]...)
		}
		c.Routines[i] = cr
	}
	c.Completions = append([]domain.CompletionRecord(nil), u.Completions...)
	c.Progress = append([]domain.ProgressEntry(nil), u.Progress...)
	return &c
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.Username]; ok {
		return repository.ErrDuplicateKey
	}
	f.users[user.Username] = cloneUser(user)
	return nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(user), nil
}

func (f *fakeUserRepo) Save(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.Username]; !ok {
		return repository.ErrNotFound
	}
	f.users[user.Username] = cloneUser(user)
	return nil
}

func (f *fakeUserRepo) update(username string, apply func(*domain.User)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[username]
	if !ok {
		return repository.ErrNotFound
	}
	apply(user)
	return nil
}

func (f *fakeUserRepo) UpdateRoutines(_ context.Context, username string, routines []domain.Routine, currentRoutineID string) error {
	return f.update(username, func(u *domain.User) {
		u.Routines = append([]domain.Routine(nil), routines...)
		u.CurrentRoutineID = currentRoutineID
	})
}

func (f *fakeUserRepo) UpdateCurrentRoutine(_ context.Context, username string, currentRoutineID string) error {
	return f.update(username, func(u *domain.User) {
		u.CurrentRoutineID = currentRoutineID
	})
}

func (f *fakeUserRepo) UpdateCompletions(_ context.Context, username string, completions []domain.CompletionRecord) error {
	return f.update(username, func(u *domain.User) {
		u.Completions = append([]domain.CompletionRecord(nil), completions...)
	})
}

func (f *fakeUserRepo) UpdateProgress(_ context.Context, username string, progress []domain.ProgressEntry) error {
	return f.update(username, func(u *domain.User) {
		u.Progress = append([]domain.ProgressEntry(nil), progress...)
	})
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, username string, profile domain.Profile) error {
	return f.update(username, func(u *domain.User) {
		u.Profile = profile
	})
}

// seedUser registers a bare user directly in the fake store.
func (f *fakeUserRepo) seedUser(username string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[username] = &domain.User{
		Username: username,
		Provider: domain.ProviderLocal,
	}
}

// stored returns the persisted aggregate, bypassing the copy-on-read.
func (f *fakeUserRepo) stored(username string) *domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[username]
}
