package task

import "strings"

// Task is the client copy of a backend task record. The backend owns it; the
// dashboard only ever holds a snapshot rebuilt on every reload.
type Task struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Category        Category   `json:"category,omitempty"`
	Priority        int        `json:"priority,omitempty"`
	Status          Status     `json:"status"`
	PendingReview   bool       `json:"pendingReview"`
	DueAt           *Timestamp `json:"dueAt,omitempty"`
	AssigneeID      *int64     `json:"assigneeId,omitempty"`
	CreatedByUserID int64      `json:"createdByUserId,omitempty"`
	CreatedAt       string     `json:"createdAt,omitempty"`
	CompletedAt     *string    `json:"completedAt,omitempty"`
}

type Status string
type Category string

const StatusTodo Status = "TODO"
const StatusInProgress Status = "IN_PROGRESS"
const StatusDone Status = "DONE"

const CategoryOneTime Category = "one-time"
const CategoryDaily Category = "daily"
const CategoryWeekly Category = "weekly"
const CategoryMonthly Category = "monthly"

const DefaultPriority = 3

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Label is the human form used by list rendering ("IN PROGRESS").
func (s Status) Label() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

func (c Category) Valid() bool {
	switch c {
	case CategoryOneTime, CategoryDaily, CategoryWeekly, CategoryMonthly:
		return true
	}
	return false
}

// Normalize maps an empty or unknown category to one-time.
func (c Category) Normalize() Category {
	if c.Valid() {
		return c
	}
	return CategoryOneTime
}

func (c Category) Recurring() bool {
	switch c {
	case CategoryDaily, CategoryWeekly, CategoryMonthly:
		return true
	}
	return false
}

// NormalizePriority clamps missing or out-of-range priorities to the default.
func NormalizePriority(p int) int {
	if p < 1 || p > 5 {
		return DefaultPriority
	}
	return p
}

func (t *Task) EffectivePriority() int {
	return NormalizePriority(t.Priority)
}

func (t *Task) AssignedTo(userID int64) bool {
	return t.AssigneeID != nil && *t.AssigneeID == userID
}

// HasDue reports whether the task carries a usable due date. The backend
// echoes an empty dueAt verbatim, which decodes to a zero Timestamp.
func (t *Task) HasDue() bool {
	return t.DueAt != nil && !t.DueAt.IsZero()
}

func (t *Task) IsDone() bool {
	return t.Status == StatusDone
}
