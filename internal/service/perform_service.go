package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"fitweek/fitness-tracker/internal/domain"
	"fitweek/fitness-tracker/internal/repository"
)

// Sessions are ephemeral; an untouched one is dropped after this long. A
// dropped session simply rebuilds unchecked on the next access.
const defaultSessionTTL = 6 * time.Hour

// PerformState is what the perform endpoints return: the session (nil when
// there is nothing to perform today) and whether today was already
// committed.
type PerformState struct {
	Session   *domain.PerformSession
	Committed bool
}

// PerformService projects today's slice of the current routine into a
// checkable session, guards the set-sequencing rule and turns a fully
// checked session into a completion record.
type PerformService interface {
	Today(ctx context.Context, username string) (PerformState, error)
	ToggleSet(ctx context.Context, username string, item, set int) (PerformState, error)
	CheckAllSets(ctx context.Context, username string, item int) (PerformState, error)
	Commit(ctx context.Context, username, memo string) (*domain.CompletionRecord, error)
	Close()
}

// performService implements the PerformService interface. Check state lives
// only in this process; it is derived state, deliberately never persisted.
type performService struct {
	userRepo repository.UserRepository
	ttl      time.Duration

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	session *domain.PerformSession
	expiry  *time.Timer
}

// NewPerformService creates a new instance of performService. ttl <= 0
// falls back to the default.
func NewPerformService(userRepo repository.UserRepository) PerformService {
	return &performService{
		userRepo: userRepo,
		ttl:      defaultSessionTTL,
		sessions: make(map[string]*sessionEntry),
	}
}

// Close stops all expiry timers. Called on shutdown.
func (s *performService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for username, entry := range s.sessions {
		entry.expiry.Stop()
		delete(s.sessions, username)
	}
}

// withSession resolves the user's session for today, rebuilding it when the
// source routine changed (any edit bumps LastModified, so even a rename
// discards partial checks) or when the calendar day rolled over, then runs
// mutate against the live session while still holding the store lock. The
// returned session is a deep copy: the live one is shared between requests
// and must never escape the lock, not even for JSON encoding.
func (s *performService) withSession(ctx context.Context, username string, mutate func(*domain.PerformSession)) (*domain.User, *domain.PerformSession, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}

	routine := user.CurrentRoutine()
	day := int(time.Now().Weekday())

	s.mu.Lock()
	defer s.mu.Unlock()

	if routine == nil {
		s.dropLocked(username)
		return user, nil, nil
	}

	var session *domain.PerformSession
	if entry, ok := s.sessions[username]; ok && !entry.session.Stale(routine, day) {
		entry.expiry.Reset(s.ttl)
		session = entry.session
	} else {
		session = domain.BuildPerformSession(routine, day)
		s.storeLocked(username, session)
	}

	if mutate != nil {
		mutate(session)
	}
	return user, session.Clone(), nil
}

// storeLocked replaces the user's entry, arming a fresh expiry timer. Must
// be called with mu held.
func (s *performService) storeLocked(username string, session *domain.PerformSession) {
	s.dropLocked(username)
	s.sessions[username] = &sessionEntry{
		session: session,
		expiry: time.AfterFunc(s.ttl, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.dropLocked(username)
		}),
	}
}

func (s *performService) dropLocked(username string) {
	if entry, ok := s.sessions[username]; ok {
		entry.expiry.Stop()
		delete(s.sessions, username)
	}
}

func (s *performService) state(user *domain.User, session *domain.PerformSession) PerformState {
	return PerformState{
		Session:   session,
		Committed: user.CompletionFor(domain.Today()) != nil,
	}
}

// Today returns the current perform state, rebuilding the session if stale.
func (s *performService) Today(ctx context.Context, username string) (PerformState, error) {
	user, session, err := s.withSession(ctx, username, nil)
	if err != nil {
		return PerformState{}, err
	}
	return s.state(user, session), nil
}

// ToggleSet flips one set check. Sequencing violations are silent no-ops;
// the returned state is authoritative either way.
func (s *performService) ToggleSet(ctx context.Context, username string, item, set int) (PerformState, error) {
	user, session, err := s.withSession(ctx, username, func(live *domain.PerformSession) {
		live.ToggleSet(item, set)
	})
	if err != nil {
		return PerformState{}, err
	}
	if session == nil {
		return PerformState{}, domain.ErrEmptySession
	}
	return s.state(user, session), nil
}

// CheckAllSets force-checks every set of one exercise.
func (s *performService) CheckAllSets(ctx context.Context, username string, item int) (PerformState, error) {
	user, session, err := s.withSession(ctx, username, func(live *domain.PerformSession) {
		live.CheckAllSets(item)
	})
	if err != nil {
		return PerformState{}, err
	}
	if session == nil {
		return PerformState{}, domain.ErrEmptySession
	}
	return s.state(user, session), nil
}

// Commit turns a fully checked session into today's completion record. The
// recorded exercises are the day's planned items, not the check state. The
// session is discarded on success so the day reads as committed afterwards.
func (s *performService) Commit(ctx context.Context, username, memo string) (*domain.CompletionRecord, error) {
	user, session, err := s.withSession(ctx, username, nil)
	if err != nil {
		return nil, err
	}
	if session == nil || len(session.Items) == 0 {
		return nil, domain.ErrEmptySession
	}
	if !session.AllComplete() {
		return nil, domain.ErrIncompleteSets
	}

	record := domain.CompletionRecord{
		Date:      domain.Today(),
		Exercises: session.Exercises(),
		Memo:      memo,
	}
	if err := user.AddCompletion(record); err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateCompletions(ctx, username, user.Completions); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.dropLocked(username)
	s.mu.Unlock()

	return &record, nil
}
