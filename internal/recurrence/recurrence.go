// Package recurrence expands recurring tasks into the calendar dates on which
// they appear.
//
// A recurring task (daily, weekly, monthly) repeats from its due date, the
// anchor, up to a series horizon measured from the anchor:
//
//	daily    every day,   anchor + 13 days
//	weekly   every 7 days, anchor + 3 months
//	monthly  every month,  anchor + 6 months
//
// Only occurrences inside the visible window are produced. The horizon never
// depends on today's date.
//
// Month arithmetic clamps to the end of the target month: the k-th monthly
// occurrence is computed from the anchor, so an anchor on Jan 31 yields
// Feb 28 (or 29), Mar 31, Apr 30 and so on. The same rule computes the
// weekly and monthly horizons.
//
// All comparisons are made on civil dates; the time of day is ignored.
package recurrence

import (
	"time"

	"taskboard/internal/models/task"
)

// AddMonths adds n calendar months to day, clamping the day of month.
func AddMonths(day time.Time, n int) time.Time {
	y, m, d := day.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := daysIn(first.Year(), first.Month())
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// SeriesEnd is the last date a series anchored at base may occupy. For
// one-time categories it is base itself.
func SeriesEnd(category task.Category, base time.Time) time.Time {
	base = task.DayOf(base)
	switch category {
	case task.CategoryDaily:
		return base.AddDate(0, 0, 13)
	case task.CategoryWeekly:
		return AddMonths(base, 3)
	case task.CategoryMonthly:
		return AddMonths(base, 6)
	}
	return base
}

// Step returns the k-th occurrence (k = 0 is the anchor).
func Step(category task.Category, base time.Time, k int) time.Time {
	base = task.DayOf(base)
	switch category {
	case task.CategoryDaily:
		return base.AddDate(0, 0, k)
	case task.CategoryWeekly:
		return base.AddDate(0, 0, 7*k)
	case task.CategoryMonthly:
		return AddMonths(base, k)
	}
	return base
}

// Expand lists the occurrence dates of a series anchored at base that fall
// inside w, in chronological order.
func Expand(category task.Category, base time.Time, w Window) []time.Time {
	if !category.Recurring() {
		day := task.DayOf(base)
		return []time.Time{day}
	}

	end := SeriesEnd(category, base)
	k := 0
	occurrence := Step(category, base, k)

	// fast-forward to the window
	for occurrence.Before(w.Start) && !occurrence.After(end) {
		k++
		occurrence = Step(category, base, k)
	}

	var hits []time.Time
	for !occurrence.After(end) && !occurrence.After(w.End) {
		hits = append(hits, occurrence)
		k++
		occurrence = Step(category, base, k)
	}
	return hits
}

// Occurrences lists the dates on which t is shown for window w. Tasks without
// a due date have none; one-time tasks sit on their due date whatever the
// window.
func Occurrences(t task.Task, w Window) []time.Time {
	if !t.HasDue() {
		return nil
	}
	return Expand(t.Category.Normalize(), t.DueAt.Time, w)
}
