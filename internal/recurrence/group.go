package recurrence

import (
	"time"

	"taskboard/internal/models/task"
)

// DisplayCap is how many tasks a calendar cell shows before "+N more".
const DisplayCap = 3

// Grouping maps a date key (YYYY-MM-DD) to the tasks shown that day, in the
// order the tasks were encountered.
type Grouping map[string][]task.Task

// Group places every task of tasks on its occurrence dates for window w.
func Group(tasks []task.Task, w Window) Grouping {
	g := Grouping{}
	for _, t := range tasks {
		for _, day := range Occurrences(t, w) {
			key := task.DateKey(day)
			g[key] = append(g[key], t)
		}
	}
	return g
}

// On returns all tasks for day.
func (g Grouping) On(day time.Time) []task.Task {
	return g[task.DateKey(day)]
}

// Day returns at most limit tasks for day and how many were held back.
// The grouping itself is never trimmed.
func (g Grouping) Day(day time.Time, limit int) ([]task.Task, int) {
	all := g.On(day)
	if limit < 0 || len(all) <= limit {
		return all, 0
	}
	return all[:limit], len(all) - limit
}
