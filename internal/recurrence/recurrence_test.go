package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/models/task"
)

func day(s string) time.Time {
	d, err := time.Parse(task.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func keys(days []time.Time) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, task.DateKey(d))
	}
	return out
}

func dueTask(id int64, category task.Category, due string) task.Task {
	ts, err := task.ParseTimestamp(due)
	if err != nil {
		panic(err)
	}
	return task.Task{ID: id, Title: "t", Category: category, DueAt: &ts}
}

func wide() Window {
	return NewWindow(day("2000-01-01"), day("2100-12-31"))
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"plain", "2025-03-10", 1, "2025-04-10"},
		{"clamp to february", "2025-01-31", 1, "2025-02-28"},
		{"clamp leap year", "2024-01-31", 1, "2024-02-29"},
		{"clamp to thirty", "2025-01-31", 3, "2025-04-30"},
		{"year rollover", "2025-11-30", 3, "2026-02-28"},
		{"zero", "2025-05-05", 0, "2025-05-05"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, task.DateKey(AddMonths(day(tt.in), tt.n)))
		})
	}
}

func TestSeriesEnd(t *testing.T) {
	base := day("2025-01-31")
	assert.Equal(t, "2025-02-13", task.DateKey(SeriesEnd(task.CategoryDaily, base)))
	assert.Equal(t, "2025-04-30", task.DateKey(SeriesEnd(task.CategoryWeekly, base)))
	assert.Equal(t, "2025-07-31", task.DateKey(SeriesEnd(task.CategoryMonthly, base)))
	assert.Equal(t, "2025-01-31", task.DateKey(SeriesEnd(task.CategoryOneTime, base)))
}

// TestOccurrences_Daily тестирует полную серию ежедневной задачи.
func TestOccurrences_Daily(t *testing.T) {
	tk := dueTask(1, task.CategoryDaily, "2025-06-01 09:30:00")

	got := keys(Occurrences(tk, wide()))

	require.Len(t, got, 14)
	assert.Equal(t, "2025-06-01", got[0])
	assert.Equal(t, "2025-06-14", got[13])
}

func TestOccurrences_Weekly(t *testing.T) {
	tk := dueTask(1, task.CategoryWeekly, "2025-06-02 10:00:00")
	base := day("2025-06-02")
	limit := AddMonths(base, 3)

	got := Occurrences(tk, wide())

	require.NotEmpty(t, got)
	for i, d := range got {
		assert.Equal(t, base.AddDate(0, 0, 7*i), d)
		assert.False(t, d.After(limit))
	}
	// the next step is already past the horizon
	assert.True(t, base.AddDate(0, 0, 7*len(got)).After(limit))
	assert.Len(t, got, 14)
}

func TestOccurrences_Monthly(t *testing.T) {
	tk := dueTask(1, task.CategoryMonthly, "2025-03-15 08:00:00")

	got := keys(Occurrences(tk, wide()))

	assert.Equal(t, []string{
		"2025-03-15", "2025-04-15", "2025-05-15", "2025-06-15",
		"2025-07-15", "2025-08-15", "2025-09-15",
	}, got)
}

func TestOccurrences_MonthlyEndOfMonth(t *testing.T) {
	tk := dueTask(1, task.CategoryMonthly, "2025-01-31 08:00:00")

	got := keys(Occurrences(tk, wide()))

	assert.Equal(t, []string{
		"2025-01-31", "2025-02-28", "2025-03-31", "2025-04-30",
		"2025-05-31", "2025-06-30", "2025-07-31",
	}, got)
}

func TestOccurrences_OneTime(t *testing.T) {
	tk := dueTask(1, task.CategoryOneTime, "2025-06-15 12:00:00")

	t.Run("inside window", func(t *testing.T) {
		got := keys(Occurrences(tk, MonthWindow(2025, time.June)))
		assert.Equal(t, []string{"2025-06-15"}, got)
	})

	t.Run("outside window", func(t *testing.T) {
		got := keys(Occurrences(tk, MonthWindow(2025, time.January)))
		assert.Equal(t, []string{"2025-06-15"}, got)
	})

	t.Run("unknown category", func(t *testing.T) {
		odd := dueTask(2, task.Category("YEARLY"), "2025-06-15 12:00:00")
		got := keys(Occurrences(odd, wide()))
		assert.Equal(t, []string{"2025-06-15"}, got)
	})
}

func TestOccurrences_NoDueDate(t *testing.T) {
	tk := task.Task{ID: 1, Category: task.CategoryDaily}
	assert.Empty(t, Occurrences(tk, wide()))

	zero := task.Timestamp{}
	tk.DueAt = &zero
	assert.Empty(t, Occurrences(tk, wide()))
}

func TestOccurrences_ClippedByWindow(t *testing.T) {
	tk := dueTask(1, task.CategoryDaily, "2025-06-25 09:00:00")

	got := keys(Occurrences(tk, MonthWindow(2025, time.June)))

	// June 2025 grid ends on Sunday July 6
	assert.Equal(t, []string{
		"2025-06-25", "2025-06-26", "2025-06-27", "2025-06-28", "2025-06-29",
		"2025-06-30", "2025-07-01", "2025-07-02", "2025-07-03", "2025-07-04",
		"2025-07-05", "2025-07-06",
	}, got)
}

func TestOccurrences_AnchorBeforeWindow(t *testing.T) {
	tk := dueTask(1, task.CategoryWeekly, "2025-05-05 09:00:00")
	w := NewWindow(day("2025-06-01"), day("2025-06-30"))

	got := keys(Occurrences(tk, w))

	assert.Equal(t, []string{"2025-06-02", "2025-06-09", "2025-06-16", "2025-06-23", "2025-06-30"}, got)
}

func TestOccurrences_Idempotent(t *testing.T) {
	tk := dueTask(1, task.CategoryMonthly, "2025-01-31 08:00:00")
	w := MonthWindow(2025, time.February)

	assert.Equal(t, Occurrences(tk, w), Occurrences(tk, w))
}

func TestMonthWindow(t *testing.T) {
	tests := []struct {
		year      int
		month     time.Month
		wantStart string
		wantEnd   string
	}{
		{2025, time.June, "2025-05-26", "2025-07-06"},
		{2025, time.September, "2025-09-01", "2025-10-12"},
		{2024, time.February, "2024-01-29", "2024-03-10"},
	}
	for _, tt := range tests {
		t.Run(tt.month.String(), func(t *testing.T) {
			w := MonthWindow(tt.year, tt.month)
			assert.Equal(t, tt.wantStart, task.DateKey(w.Start))
			assert.Equal(t, tt.wantEnd, task.DateKey(w.End))
			assert.Equal(t, time.Monday, w.Start.Weekday())
			assert.Len(t, w.Days(), GridDays)
		})
	}
}

func TestWindowContains(t *testing.T) {
	w := NewWindow(day("2025-06-01"), day("2025-06-30"))

	assert.True(t, w.Contains(day("2025-06-01")))
	assert.True(t, w.Contains(time.Date(2025, 6, 30, 23, 59, 0, 0, time.UTC)))
	assert.False(t, w.Contains(day("2025-07-01")))
	assert.False(t, w.Contains(day("2025-05-31")))
}
