package task

import (
	"strings"
	"time"
)

// Form holds the create/edit form fields. Assignees travel separately.
type Form struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    Category   `json:"category"`
	Priority    int        `json:"priority"`
	DueAt       *Timestamp `json:"dueAt,omitempty"`
}

type FormOption func(*Form)

func NewForm(title string, options ...FormOption) Form {
	form := Form{
		Title:    strings.TrimSpace(title),
		Category: CategoryOneTime,
		Priority: DefaultPriority,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&form)
		}
	}
	return form
}

// FormFromTask prefills the form for edit mode.
func FormFromTask(t *Task) Form {
	form := Form{
		Title:       t.Title,
		Description: t.Description,
		Category:    t.Category.Normalize(),
		Priority:    t.EffectivePriority(),
	}
	if t.HasDue() {
		// minute precision, same as the datetime-local input
		due := *t.DueAt
		due.Time = due.Truncate(time.Minute)
		form.DueAt = &due
	}
	return form
}

func WithDescription(description string) FormOption {
	return func(form *Form) {
		form.Description = description
	}
}

func WithCategory(category Category) FormOption {
	if category == "" {
		return nil
	}
	return func(form *Form) {
		form.Category = category.Normalize()
	}
}

func WithPriority(priority int) FormOption {
	if priority == 0 {
		return nil
	}
	return func(form *Form) {
		form.Priority = NormalizePriority(priority)
	}
}

func WithDueAt(due *Timestamp) FormOption {
	if due == nil || due.IsZero() {
		return nil
	}
	return func(form *Form) {
		d := *due
		form.DueAt = &d
	}
}
