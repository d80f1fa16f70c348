package service

import (
	"context"
	"errors"
	"time"

	"fitweek/fitness-tracker/internal/domain"
	"fitweek/fitness-tracker/internal/repository"
)

var ErrEntryNotFound = errors.New("no entry for this date")

// LedgerService owns the historical records: completion entries keyed by
// calendar date and the body-composition progress entries.
type LedgerService interface {
	AddCompletion(ctx context.Context, username string, record domain.CompletionRecord) error
	RemoveCompletion(ctx context.Context, username, date string) error
	ListCompletions(ctx context.Context, username string) ([]domain.CompletionRecord, error)
	Calendar(ctx context.Context, username string, year int, month time.Month) ([]domain.CalendarCell, error)

	AddProgress(ctx context.Context, username string, entry domain.ProgressEntry) error
	RemoveProgress(ctx context.Context, username, date string) error
	Progress(ctx context.Context, username string) (domain.ProgressSeries, error)
}

// ledgerService implements the LedgerService interface.
type ledgerService struct {
	userRepo repository.UserRepository
}

// NewLedgerService creates a new instance of ledgerService.
func NewLedgerService(userRepo repository.UserRepository) LedgerService {
	return &ledgerService{userRepo: userRepo}
}

func (s *ledgerService) loadUser(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// AddCompletion records exercises performed on a date. One record per date;
// a second submission for the same date is rejected.
func (s *ledgerService) AddCompletion(ctx context.Context, username string, record domain.CompletionRecord) error {
	user, err := s.loadUser(ctx, username)
	if err != nil {
		return err
	}
	if err := user.AddCompletion(record); err != nil {
		return err
	}
	return s.userRepo.UpdateCompletions(ctx, username, user.Completions)
}

// RemoveCompletion deletes the record for a date.
func (s *ledgerService) RemoveCompletion(ctx context.Context, username, date string) error {
	user, err := s.loadUser(ctx, username)
	if err != nil {
		return err
	}
	if !user.RemoveCompletion(date) {
		return ErrEntryNotFound
	}
	return s.userRepo.UpdateCompletions(ctx, username, user.Completions)
}

// ListCompletions returns the full completion history.
func (s *ledgerService) ListCompletions(ctx context.Context, username string) ([]domain.CompletionRecord, error) {
	user, err := s.loadUser(ctx, username)
	if err != nil {
		return nil, err
	}
	return user.Completions, nil
}

// Calendar renders one month of completions as a fixed-size grid.
func (s *ledgerService) Calendar(ctx context.Context, username string, year int, month time.Month) ([]domain.CalendarCell, error) {
	user, err := s.loadUser(ctx, username)
	if err != nil {
		return nil, err
	}
	return domain.MonthGrid(year, month, user.Completions), nil
}

// AddProgress appends one measurement triple.
func (s *ledgerService) AddProgress(ctx context.Context, username string, entry domain.ProgressEntry) error {
	user, err := s.loadUser(ctx, username)
	if err != nil {
		return err
	}
	if err := user.AddProgressEntry(entry); err != nil {
		return err
	}
	return s.userRepo.UpdateProgress(ctx, username, user.Progress)
}

// RemoveProgress deletes the entry for a date from all three series at once.
func (s *ledgerService) RemoveProgress(ctx context.Context, username, date string) error {
	user, err := s.loadUser(ctx, username)
	if err != nil {
		return err
	}
	if !user.RemoveProgressEntry(date) {
		return ErrEntryNotFound
	}
	return s.userRepo.UpdateProgress(ctx, username, user.Progress)
}

// Progress returns the three chart series in insertion order.
func (s *ledgerService) Progress(ctx context.Context, username string) (domain.ProgressSeries, error) {
	user, err := s.loadUser(ctx, username)
	if err != nil {
		return domain.ProgressSeries{}, err
	}
	return domain.SeriesOf(user.Progress), nil
}
