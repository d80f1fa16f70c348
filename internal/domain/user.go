package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Provider identifies how an account authenticates.
type Provider string

const (
	ProviderLocal Provider = "local"
	ProviderOAuth Provider = "oauth"
)

// Profile holds the user-editable account fields.
type Profile struct {
	Nickname  string  `bson:"nickname" json:"nickname"`
	Height    float64 `bson:"height,omitempty" json:"height,omitempty"`
	GoalMemo  string  `bson:"goalMemo,omitempty" json:"goalMemo,omitempty"`
	AvatarKey string  `bson:"avatarKey,omitempty" json:"-"`
}

// User is the aggregate root. The whole document is read, mutated in memory
// and written back per request; two concurrent requests for the same user
// race last-write-wins, which is accepted for a single-person account.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"` // unique
	PasswordHash string             `bson:"passwordHash,omitempty" json:"-"`
	Provider     Provider           `bson:"provider" json:"provider"`
	Profile      Profile            `bson:"profile" json:"profile"`

	Routines         []Routine          `bson:"routines" json:"routines"`
	CurrentRoutineID string             `bson:"currentRoutineId,omitempty" json:"currentRoutineId,omitempty"`
	Completions      []CompletionRecord `bson:"completions" json:"completions"`
	Progress         []ProgressEntry    `bson:"progress" json:"progress"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// --- Routine store ---

// RoutineByID returns the routine with the given id, or nil.
func (u *User) RoutineByID(id string) *Routine {
	for i := range u.Routines {
		if u.Routines[i].ID == id {
			return &u.Routines[i]
		}
	}
	return nil
}

// CurrentRoutine returns the routine designated as current, or nil. A
// dangling CurrentRoutineID behaves as "no current routine".
func (u *User) CurrentRoutine() *Routine {
	if u.CurrentRoutineID == "" {
		return nil
	}
	return u.RoutineByID(u.CurrentRoutineID)
}

// AddRoutine appends a routine, enforcing the per-user cap.
func (u *User) AddRoutine(r Routine) error {
	if len(u.Routines) >= MaxRoutines {
		return ErrLimitExceeded
	}
	if err := r.Validate(); err != nil {
		return err
	}
	u.Routines = append(u.Routines, r)
	return nil
}

// ReplaceRoutine swaps the stored routine with the same id for r (the
// full-routine edit operation). The replacement carries a fresh
// LastModified so a perform session built from the old version is discarded.
func (u *User) ReplaceRoutine(r Routine) error {
	if err := r.Validate(); err != nil {
		return err
	}
	for i := range u.Routines {
		if u.Routines[i].ID == r.ID {
			r.touch()
			u.Routines[i] = r
			return nil
		}
	}
	return ErrRoutineNotFound
}

// DeleteRoutine removes the routine by id. Deleting the current routine
// clears CurrentRoutineID as well; trusting every call site to do that
// separately is how dangling pointers happen.
func (u *User) DeleteRoutine(id string) error {
	for i := range u.Routines {
		if u.Routines[i].ID == id {
			u.Routines = append(u.Routines[:i], u.Routines[i+1:]...)
			if u.CurrentRoutineID == id {
				u.CurrentRoutineID = ""
			}
			return nil
		}
	}
	return ErrRoutineNotFound
}

// SetCurrentRoutine sets or clears the single "current" pointer. The id is
// assigned as given, without checking it resolves to a stored routine.
func (u *User) SetCurrentRoutine(id string) {
	u.CurrentRoutineID = id
}

// --- Completion ledger ---

// CompletionFor returns the completion record for a date, or nil.
func (u *User) CompletionFor(date string) *CompletionRecord {
	for i := range u.Completions {
		if u.Completions[i].Date == date {
			return &u.Completions[i]
		}
	}
	return nil
}

// AddCompletion appends a record, rejecting a second record for the same
// date.
func (u *User) AddCompletion(rec CompletionRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if u.CompletionFor(rec.Date) != nil {
		return ErrDuplicateDate
	}
	u.Completions = append(u.Completions, rec)
	return nil
}

// RemoveCompletion removes all records for the date (expected 0 or 1) and
// reports whether anything was removed.
func (u *User) RemoveCompletion(date string) bool {
	kept := u.Completions[:0]
	removed := false
	for _, rec := range u.Completions {
		if rec.Date == date {
			removed = true
			continue
		}
		kept = append(kept, rec)
	}
	u.Completions = kept
	return removed
}

// --- Progress ledger ---

// AddProgressEntry appends one measurement triple. Only the most recently
// appended entry's date is checked for duplication: resubmitting today twice
// in a row is rejected, while back-dated inserts are accepted as-is.
func (u *User) AddProgressEntry(e ProgressEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if n := len(u.Progress); n > 0 && u.Progress[n-1].Date == e.Date {
		return ErrDuplicateDate
	}
	u.Progress = append(u.Progress, e)
	return nil
}

// RemoveProgressEntry removes all entries for the date and reports whether
// anything was removed.
func (u *User) RemoveProgressEntry(date string) bool {
	kept := u.Progress[:0]
	removed := false
	for _, e := range u.Progress {
		if e.Date == date {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	u.Progress = kept
	return removed
}
