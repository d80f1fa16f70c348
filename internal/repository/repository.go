package repository

import (
	"context"

	"fitweek/fitness-tracker/internal/domain"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicateKey = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository is the persistence collaborator for the User aggregate. The
// aggregate is stored as one document per user; mutating operations either
// replace the whole document (Save) or atomically $set a single top-level
// field, so a request never writes a partial aggregate.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Save(ctx context.Context, user *domain.User) error

	UpdateRoutines(ctx context.Context, username string, routines []domain.Routine, currentRoutineID string) error
	UpdateCurrentRoutine(ctx context.Context, username string, currentRoutineID string) error
	UpdateCompletions(ctx context.Context, username string, completions []domain.CompletionRecord) error
	UpdateProgress(ctx context.Context, username string, progress []domain.ProgressEntry) error
	UpdateProfile(ctx context.Context, username string, profile domain.Profile) error
}
