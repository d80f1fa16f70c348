package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Limits applied to a user's routine collection. These are enforced here in
// the domain layer so that forged requests cannot bypass the client-side
// checks.
const (
	MaxRoutines        = 10
	MaxExercisesPerDay = 20
	MaxSetCount        = 20
	MaxTitleLength     = 12
	DaysPerWeek        = 7

	DefaultRoutineTitle = "new routine"
)

var (
	ErrLimitExceeded   = errors.New("limit exceeded")
	ErrRoutineNotFound = errors.New("routine not found")
	ErrInvalidExercise = errors.New("invalid exercise")
	ErrInvalidTitle    = errors.New("invalid routine title")
)

// ExerciseItem is one planned (or, inside a CompletionRecord, performed)
// exercise instance.
type ExerciseItem struct {
	Name        string  `bson:"name" json:"name"`
	Weight      float64 `bson:"weight" json:"weight"`
	Repetitions int     `bson:"repetitions" json:"repetitions"`
	SetCount    int     `bson:"setCount" json:"setCount"`
}

// Validate checks the exercise shape constraints: positive weight and
// repetitions, set count between 1 and MaxSetCount.
func (e ExerciseItem) Validate() error {
	if e.Name == "" || e.Weight <= 0 || e.Repetitions <= 0 {
		return ErrInvalidExercise
	}
	if e.SetCount < 1 || e.SetCount > MaxSetCount {
		return ErrInvalidExercise
	}
	return nil
}

// WeekPlan is a fixed 7-slot plan, indexed 0=Sunday..6=Saturday. The array
// type makes the "exactly 7 slots" invariant structural.
type WeekPlan [DaysPerWeek][]ExerciseItem

// Routine is a named weekly exercise plan owned by a single user.
type Routine struct {
	ID           string   `bson:"id" json:"id"`
	Title        string   `bson:"title" json:"title"`
	LastModified int64    `bson:"lastModified" json:"lastModified"` // unix ms
	WeekPlan     WeekPlan `bson:"weekPlan" json:"weekPlan"`
}

// NewRoutine creates a routine with an empty week plan. An empty title falls
// back to the default.
func NewRoutine(title string) Routine {
	if title == "" {
		title = DefaultRoutineTitle
	}
	return Routine{
		ID:           uuid.NewString(),
		Title:        title,
		LastModified: nowMillis(),
	}
}

// ValidTitle reports whether a routine title is within 1..MaxTitleLength
// characters (counted as runes, titles are user-visible text).
func ValidTitle(title string) bool {
	n := len([]rune(title))
	return n >= 1 && n <= MaxTitleLength
}

// Rename sets the title and bumps LastModified.
func (r *Routine) Rename(title string) error {
	if !ValidTitle(title) {
		return ErrInvalidTitle
	}
	r.Title = title
	r.touch()
	return nil
}

// AddExercise appends item to the given day slot. Fails with ErrLimitExceeded
// once the slot holds MaxExercisesPerDay items; the slot is left unchanged on
// any failure.
func (r *Routine) AddExercise(day int, item ExerciseItem) error {
	if day < 0 || day >= DaysPerWeek {
		return ErrInvalidExercise
	}
	if err := item.Validate(); err != nil {
		return err
	}
	if len(r.WeekPlan[day]) >= MaxExercisesPerDay {
		return ErrLimitExceeded
	}
	r.WeekPlan[day] = append(r.WeekPlan[day], item)
	r.touch()
	return nil
}

// RemoveExercise removes the item at index from the given day slot. An
// out-of-range day or index is a silent no-op.
func (r *Routine) RemoveExercise(day, index int) {
	if day < 0 || day >= DaysPerWeek {
		return
	}
	list := r.WeekPlan[day]
	if index < 0 || index >= len(list) {
		return
	}
	r.WeekPlan[day] = append(list[:index], list[index+1:]...)
	r.touch()
}

// MoveExercise removes the item at from and re-inserts it at to, where to is
// an index into the remaining (n-1)-length list, not the original one. Drag
// and drop in the client computes the target slot against the list with the
// dragged item already taken out, so the asymmetry is deliberate. An
// out-of-range from is a silent no-op; to is clamped into the remaining list.
func (r *Routine) MoveExercise(day, from, to int) {
	if day < 0 || day >= DaysPerWeek {
		return
	}
	list := r.WeekPlan[day]
	if from < 0 || from >= len(list) {
		return
	}
	item := list[from]
	rest := append(append([]ExerciseItem{}, list[:from]...), list[from+1:]...)
	if to < 0 {
		to = 0
	}
	if to > len(rest) {
		to = len(rest)
	}
	moved := append(rest[:to:to], append([]ExerciseItem{item}, rest[to:]...)...)
	r.WeekPlan[day] = moved
	r.touch()
}

// Validate checks the whole routine shape: title length, per-day caps and
// per-item constraints.
func (r *Routine) Validate() error {
	if !ValidTitle(r.Title) {
		return ErrInvalidTitle
	}
	for day := range r.WeekPlan {
		if len(r.WeekPlan[day]) > MaxExercisesPerDay {
			return ErrLimitExceeded
		}
		for _, item := range r.WeekPlan[day] {
			if err := item.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

// touch bumps LastModified. Two edits landing in the same millisecond must
// still produce distinct timestamps, since perform sessions detect staleness
// by comparing this value.
func (r *Routine) touch() {
	now := nowMillis()
	if now <= r.LastModified {
		now = r.LastModified + 1
	}
	r.LastModified = now
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
