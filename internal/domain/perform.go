package domain

import "errors"

var (
	ErrIncompleteSets = errors.New("not all sets are complete")
	ErrEmptySession   = errors.New("no perform session for today")
)

// PerformItem is one exercise of today's checklist with its per-set check
// state. SetChecks always has exactly Exercise.SetCount entries.
type PerformItem struct {
	Exercise  ExerciseItem `json:"exercise"`
	SetChecks []bool       `json:"setChecks"`
}

// PerformSession is the live checklist derived from today's slice of the
// current routine. It is never persisted; a session is identified by the
// (RoutineID, SourceTimestamp) pair and discarded whenever the source routine
// changes.
type PerformSession struct {
	RoutineID       string        `json:"routineId"`
	SourceTimestamp int64         `json:"sourceTimestamp"`
	Day             int           `json:"day"` // 0=Sunday..6=Saturday
	Items           []PerformItem `json:"items"`
}

// BuildPerformSession projects the routine's day slot into a fresh session
// with every set unchecked.
func BuildPerformSession(r *Routine, day int) *PerformSession {
	s := &PerformSession{
		RoutineID:       r.ID,
		SourceTimestamp: r.LastModified,
		Day:             day,
	}
	if day < 0 || day >= DaysPerWeek {
		return s
	}
	for _, ex := range r.WeekPlan[day] {
		s.Items = append(s.Items, PerformItem{
			Exercise:  ex,
			SetChecks: make([]bool, ex.SetCount),
		})
	}
	return s
}

// Stale reports whether the session no longer matches the routine it was
// built from. Any routine edit bumps LastModified, so even a rename discards
// partial check state.
func (s *PerformSession) Stale(r *Routine, day int) bool {
	if r == nil {
		return true
	}
	return s.RoutineID != r.ID || s.SourceTimestamp != r.LastModified || s.Day != day
}

// ToggleSet flips the check at (item, set) under the sequencing rule: sets
// are checked front to back and unchecked back to front. A violating or
// out-of-range toggle is a silent no-op, never an error; out-of-order
// clicks are disabled in the UI, but forged requests must not corrupt state.
// It reports whether the toggle was applied.
func (s *PerformSession) ToggleSet(item, set int) bool {
	if item < 0 || item >= len(s.Items) {
		return false
	}
	checks := s.Items[item].SetChecks
	if set < 0 || set >= len(checks) {
		return false
	}
	if checks[set] {
		// Unchecking proceeds from the end.
		if set != len(checks)-1 && checks[set+1] {
			return false
		}
		checks[set] = false
		return true
	}
	if set != 0 && !checks[set-1] {
		return false
	}
	checks[set] = true
	return true
}

// CheckAllSets force-checks every set of one item. This is the "done with
// this exercise" shortcut; the sequencing rule only constrains individual
// toggles.
func (s *PerformSession) CheckAllSets(item int) bool {
	if item < 0 || item >= len(s.Items) {
		return false
	}
	checks := s.Items[item].SetChecks
	for i := range checks {
		checks[i] = true
	}
	return true
}

// Clone returns a deep copy of the session, including every per-set check.
// The live session is shared mutable state; callers that hand a session out
// of the owning store must hand out a clone.
func (s *PerformSession) Clone() *PerformSession {
	if s == nil {
		return nil
	}
	c := *s
	c.Items = make([]PerformItem, len(s.Items))
	for i, item := range s.Items {
		c.Items[i] = PerformItem{
			Exercise:  item.Exercise,
			SetChecks: append([]bool(nil), item.SetChecks...),
		}
	}
	return &c
}

// AllComplete reports whether every set of every item is checked. An empty
// session is never complete.
func (s *PerformSession) AllComplete() bool {
	if len(s.Items) == 0 {
		return false
	}
	for _, item := range s.Items {
		for _, checked := range item.SetChecks {
			if !checked {
				return false
			}
		}
	}
	return true
}

// Exercises returns the day's exercise items as planned, decoupled from the
// check state. This is the snapshot recorded on commit.
func (s *PerformSession) Exercises() []ExerciseItem {
	items := make([]ExerciseItem, len(s.Items))
	for i, item := range s.Items {
		items[i] = item.Exercise
	}
	return items
}
