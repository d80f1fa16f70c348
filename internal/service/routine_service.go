package service

import (
	"context"
	"errors"

	"fitweek/fitness-tracker/internal/domain"
	"fitweek/fitness-tracker/internal/repository"
)

// --- Error Definitions ---
var (
	ErrUserNotFound = errors.New("user not found")
)

// RoutineService owns the routine-store operations. Every mutation follows
// the same shape: load the aggregate, apply the in-memory reducer, persist
// the routines field. Nothing is written when the reducer rejects the
// operation.
type RoutineService interface {
	List(ctx context.Context, username string) ([]domain.Routine, string, error)
	Create(ctx context.Context, username, title string, weekPlan domain.WeekPlan) (*domain.Routine, error)
	Replace(ctx context.Context, username string, routine domain.Routine) (*domain.Routine, error)
	Rename(ctx context.Context, username, routineID, title string) (*domain.Routine, error)
	Delete(ctx context.Context, username, routineID string) error
	SetCurrent(ctx context.Context, username, routineID string) error
	AddExercise(ctx context.Context, username, routineID string, day int, item domain.ExerciseItem) (*domain.Routine, error)
	RemoveExercise(ctx context.Context, username, routineID string, day, index int) (*domain.Routine, error)
	MoveExercise(ctx context.Context, username, routineID string, day, from, to int) (*domain.Routine, error)
}

// routineService implements the RoutineService interface.
type routineService struct {
	userRepo repository.UserRepository
}

// NewRoutineService creates a new instance of routineService.
func NewRoutineService(userRepo repository.UserRepository) RoutineService {
	return &routineService{userRepo: userRepo}
}

func (s *routineService) loadUser(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *routineService) persistRoutines(ctx context.Context, user *domain.User) error {
	return s.userRepo.UpdateRoutines(ctx, user.Username, user.Routines, user.CurrentRoutineID)
}

// List returns the user's routines and the current-routine id.
func (s *routineService) List(ctx context.Context, username string) ([]domain.Routine, string, error) {
	user, err := s.loadUser(ctx, username)
	if err != nil {
		return nil, "", err
	}
	return user.Routines, user.CurrentRoutineID, nil
}

// Create adds a new routine. The week plan may be pre-filled (the client
// builds routines locally before first save) or empty.
func (s *routineService) Create(ctx context.Context, username, title string, weekPlan domain.WeekPlan) (*domain.Routine, error) {
	user, err := s.loadUser(ctx, username)
	if err != nil {
		return nil, err
	}

	routine := domain.NewRoutine(title)
	routine.WeekPlan = weekPlan
	if err := user.AddRoutine(routine); err != nil {
		return nil, err
	}
	if err := s.persistRoutines(ctx, user); err != nil {
		return nil, err
	}
	return user.RoutineByID(routine.ID), nil
}

// Replace is the full-routine edit: the submitted routine replaces the
// stored one with the same id.
func (s *routineService) Replace(ctx context.Context, username string, routine domain.Routine) (*domain.Routine, error) {
	user, err := s.loadUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := user.ReplaceRoutine(routine); err != nil {
		return nil, err
	}
	if err := s.persistRoutines(ctx, user); err != nil {
		return nil, err
	}
	return user.RoutineByID(routine.ID), nil
}

// Rename sets a routine's title.
func (s *routineService) Rename(ctx context.Context, username, routineID, title string) (*domain.Routine, error) {
	user, err := s.loadUser(ctx, username)
	if err != nil {
		return nil, err
	}
	routine := user.RoutineByID(routineID)
	if routine == nil {
		return nil, domain.ErrRoutineNotFound
	}
	if err := routine.Rename(title); err != nil {
		return nil, err
	}
	if err := s.persistRoutines(ctx, user); err != nil {
		return nil, err
	}
	return routine, nil
}

// Delete removes a routine; the aggregate clears the current pointer when
// it referenced the deleted routine.
func (s *routineService) Delete(ctx context.Context, username, routineID string) error {
	user, err := s.loadUser(ctx, username)
	if err != nil {
		return err
	}
	if err := user.DeleteRoutine(routineID); err != nil {
		return err
	}
	return s.persistRoutines(ctx, user)
}

// SetCurrent sets or clears (empty id) the current-routine pointer.
func (s *routineService) SetCurrent(ctx context.Context, username, routineID string) error {
	user, err := s.loadUser(ctx, username)
	if err != nil {
		return err
	}
	user.SetCurrentRoutine(routineID)
	return s.userRepo.UpdateCurrentRoutine(ctx, username, routineID)
}

// AddExercise appends an exercise to one day of a routine.
func (s *routineService) AddExercise(ctx context.Context, username, routineID string, day int, item domain.ExerciseItem) (*domain.Routine, error) {
	user, err := s.loadUser(ctx, username)
	if err != nil {
		return nil, err
	}
	routine := user.RoutineByID(routineID)
	if routine == nil {
		return nil, domain.ErrRoutineNotFound
	}
	if err := routine.AddExercise(day, item); err != nil {
		return nil, err
	}
	if err := s.persistRoutines(ctx, user); err != nil {
		return nil, err
	}
	return routine, nil
}

// RemoveExercise removes an exercise by position. An out-of-range index is
// a no-op in the reducer; the unchanged aggregate is still persisted, which
// keeps removal idempotent for retried requests.
func (s *routineService) RemoveExercise(ctx context.Context, username, routineID string, day, index int) (*domain.Routine, error) {
	user, err := s.loadUser(ctx, username)
	if err != nil {
		return nil, err
	}
	routine := user.RoutineByID(routineID)
	if routine == nil {
		return nil, domain.ErrRoutineNotFound
	}
	routine.RemoveExercise(day, index)
	if err := s.persistRoutines(ctx, user); err != nil {
		return nil, err
	}
	return routine, nil
}

// MoveExercise repositions an exercise within one day.
func (s *routineService) MoveExercise(ctx context.Context, username, routineID string, day, from, to int) (*domain.Routine, error) {
	user, err := s.loadUser(ctx, username)
	if err != nil {
		return nil, err
	}
	routine := user.RoutineByID(routineID)
	if routine == nil {
		return nil, domain.ErrRoutineNotFound
	}
	routine.MoveExercise(day, from, to)
	if err := s.persistRoutines(ctx, user); err != nil {
		return nil, err
	}
	return routine, nil
}
