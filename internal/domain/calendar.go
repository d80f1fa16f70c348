package domain

import "time"

// Calendar grids are always rendered as full weeks starting on Sunday, with
// either 5 or 6 rows.
const (
	calendarSmall = 35
	calendarLarge = 42
)

// CalendarCell is one cell of a rendered month grid. Filler cells belong to
// the previous or next month and never carry a completion.
type CalendarCell struct {
	Date       string            `json:"date"` // YYYY-MM-DD
	Day        int               `json:"day"`  // day of month
	InMonth    bool              `json:"inMonth"`
	Completion *CompletionRecord `json:"completion,omitempty"`
}

// MonthGrid renders year/month into a fixed-size grid: leading filler days
// from the previous month, this month's days each paired with its completion
// record (if any), then trailing filler. The grid is 35 cells unless the
// leading filler plus the month itself does not fit, in which case it is 42.
func MonthGrid(year int, month time.Month, completions []CompletionRecord) []CalendarCell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	leading := int(first.Weekday()) // Sunday == 0
	daysInMonth := first.AddDate(0, 1, -1).Day()

	total := calendarSmall
	if leading+daysInMonth > calendarSmall {
		total = calendarLarge
	}

	byDate := make(map[string]*CompletionRecord, len(completions))
	for i := range completions {
		byDate[completions[i].Date] = &completions[i]
	}

	cells := make([]CalendarCell, 0, total)
	for i := 0; i < total; i++ {
		day := first.AddDate(0, 0, i-leading)
		cell := CalendarCell{
			Date:    DateOf(day),
			Day:     day.Day(),
			InMonth: day.Month() == month,
		}
		if cell.InMonth {
			cell.Completion = byDate[cell.Date]
		}
		cells = append(cells, cell)
	}
	return cells
}
