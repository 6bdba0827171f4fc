// Package summary derives the filtered task view and the header counters from
// a task snapshot. Everything here is a pure function of its inputs.
package summary

import (
	"fmt"
	"strconv"
	"strings"

	"taskboard/internal/models/task"
)

type Mine string

const MineAny Mine = ""
const MineAssigned Mine = "assigned"
const MineCreated Mine = "created"

// Filter holds the four selectors; zero values mean "any".
type Filter struct {
	Status   task.Status   `json:"status,omitempty"`
	Category task.Category `json:"category,omitempty"`
	Priority int           `json:"priority,omitempty"`
	Mine     Mine          `json:"mine,omitempty"`
}

// ParseFilter builds a Filter from raw selector values as they arrive from
// query strings or flags.
func ParseFilter(status, category, priority, mine string) (Filter, error) {
	var f Filter

	if s := strings.TrimSpace(status); s != "" {
		f.Status = task.Status(strings.ToUpper(s))
		if !f.Status.Valid() {
			return Filter{}, fmt.Errorf("unknown status %q", status)
		}
	}
	if c := strings.TrimSpace(category); c != "" {
		f.Category = task.Category(strings.ToLower(c))
		if !f.Category.Valid() {
			return Filter{}, fmt.Errorf("unknown category %q", category)
		}
	}
	if p := strings.TrimSpace(priority); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 || n > 5 {
			return Filter{}, fmt.Errorf("priority must be 1-5, got %q", priority)
		}
		f.Priority = n
	}
	switch m := Mine(strings.ToLower(strings.TrimSpace(mine))); m {
	case MineAny, MineAssigned, MineCreated:
		f.Mine = m
	default:
		return Filter{}, fmt.Errorf("mine must be assigned or created, got %q", mine)
	}
	return f, nil
}

// Match reports whether t passes every selector.
func (f Filter) Match(t task.Task, currentUserID int64) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.Priority != 0 && t.Priority != f.Priority {
		return false
	}
	switch f.Mine {
	case MineAssigned:
		if !t.AssignedTo(currentUserID) {
			return false
		}
	case MineCreated:
		if t.CreatedByUserID != currentUserID {
			return false
		}
	}
	return true
}

// Apply keeps the tasks matching f, in snapshot order.
func Apply(tasks []task.Task, f Filter, currentUserID int64) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t, currentUserID) {
			out = append(out, t)
		}
	}
	return out
}
