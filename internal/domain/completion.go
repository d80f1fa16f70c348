package domain

import (
	"errors"
	"time"
)

// DateLayout is the calendar-date key used throughout the ledger.
const DateLayout = "2006-01-02"

const MaxMemoLength = 100

var (
	ErrDuplicateDate = errors.New("an entry for this date already exists")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidMemo   = errors.New("memo too long")
)

// CompletionRecord is one historical entry of exercises actually performed
// on a date. Records are immutable once created; they are only ever appended
// or removed as a whole.
type CompletionRecord struct {
	Date      string         `bson:"date" json:"date"` // YYYY-MM-DD
	Exercises []ExerciseItem `bson:"exercises" json:"exercises"`
	Memo      string         `bson:"memo" json:"memo"`
}

// Validate checks the record shape. The memo may be empty but is capped at
// MaxMemoLength characters.
func (c CompletionRecord) Validate() error {
	if !ValidDate(c.Date) {
		return ErrInvalidDate
	}
	if len([]rune(c.Memo)) > MaxMemoLength {
		return ErrInvalidMemo
	}
	for _, ex := range c.Exercises {
		if err := ex.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ValidDate reports whether s is a well-formed YYYY-MM-DD date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// DateOf formats t as a ledger date key.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// Today returns the current calendar date key.
func Today() string {
	return DateOf(time.Now())
}
