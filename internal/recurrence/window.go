package recurrence

import (
	"time"

	"taskboard/internal/models/task"
)

// GridDays is the size of the month grid: six weeks.
const GridDays = 42

// Window is an inclusive range of civil dates.
type Window struct {
	Start time.Time
	End   time.Time
}

func NewWindow(start, end time.Time) Window {
	return Window{Start: task.DayOf(start), End: task.DayOf(end)}
}

func (w Window) Contains(day time.Time) bool {
	day = task.DayOf(day)
	return !day.Before(w.Start) && !day.After(w.End)
}

// Days lists every date of the window.
func (w Window) Days() []time.Time {
	var out []time.Time
	for d := w.Start; !d.After(w.End); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// MonthWindow is the Monday-first six-week grid that shows month, including
// the trailing days of the previous month and leading days of the next.
func MonthWindow(year int, month time.Month) Window {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(first.Weekday()) + 6) % 7 // Monday = 0
	start := first.AddDate(0, 0, -offset)
	return Window{Start: start, End: start.AddDate(0, 0, GridDays-1)}
}
