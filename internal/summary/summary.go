package summary

import (
	"time"

	"taskboard/internal/models/task"
)

type Summary struct {
	Total      int `json:"total"`
	DueToday   int `json:"dueToday"`
	InProgress int `json:"inProgress"`
	Done       int `json:"done"`
	Overdue    int `json:"overdue"`
}

// Compute counts over the whole snapshot, never the filtered view. today is
// a civil date (see task.Today).
func Compute(tasks []task.Task, today time.Time) Summary {
	today = task.DayOf(today)
	s := Summary{Total: len(tasks)}

	for _, t := range tasks {
		switch t.Status {
		case task.StatusTodo, task.StatusInProgress:
			s.InProgress++
		case task.StatusDone:
			s.Done++
		}

		if !t.HasDue() {
			continue
		}
		day := t.DueAt.Day()
		if day.Equal(today) {
			s.DueToday++
		} else if day.Before(today) && t.Status != task.StatusDone {
			s.Overdue++
		}
	}
	return s
}

// IsOverdue: due on a day strictly before today and not done.
func IsOverdue(t task.Task, today time.Time) bool {
	if !t.HasDue() || t.Status == task.StatusDone {
		return false
	}
	return t.DueAt.Day().Before(task.DayOf(today))
}
