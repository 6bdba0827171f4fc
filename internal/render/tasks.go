package render

import (
	"fmt"
	"strings"

	"taskboard/internal/app"
	"taskboard/internal/models/task"
	"taskboard/internal/service"
	"taskboard/internal/summary"

	"github.com/charmbracelet/lipgloss"
)

type column struct {
	title string
	width int
}

var taskColumns = []column{
	{"ID", 6},
	{"TITLE", 28},
	{"STATUS", 12},
	{"CATEGORY", 9},
	{"PRI", 4},
	{"DUE", 17},
	{"ASSIGNEE", 12},
	{"BY", 10},
	{"CMT", 4},
	{"ACTIONS", 24},
}

func row(values []string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = cell(taskColumns[i].width).Render(truncate(v, taskColumns[i].width-1))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// TaskTable renders the task list. Overdue rows are highlighted.
func TaskTable(rows []app.TaskRow) string {
	if len(rows) == 0 {
		return mutedStyle.Render("No tasks.")
	}

	header := make([]string, len(taskColumns))
	for i, c := range taskColumns {
		header[i] = c.title
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(row(header)))
	b.WriteByte('\n')
	for _, r := range rows {
		status := r.Status.Label()
		if r.PendingReview {
			status += "*"
		}
		line := row([]string{
			fmt.Sprint(r.ID),
			r.Title,
			status,
			string(r.Category.Normalize()),
			fmt.Sprint(r.EffectivePriority()),
			dueText(r.DueAt),
			r.AssigneeName,
			r.CreatorName,
			fmt.Sprint(r.Comments),
			actionsText(r.Actions),
		})
		switch {
		case r.Overdue:
			line = overdueStyle.Render(line)
		case r.IsDone():
			line = doneStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func dueText(due *task.Timestamp) string {
	if due == nil || due.IsZero() {
		return "-"
	}
	return due.Format("2006-01-02 15:04")
}

func actionsText(actions []service.Action) string {
	if len(actions) == 0 {
		return "-"
	}
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a)
	}
	return strings.Join(names, ",")
}

// SummaryLine renders the header counters and the unread badge.
func SummaryLine(s summary.Summary, unread int) string {
	parts := []string{
		fmt.Sprintf("Total %d", s.Total),
		fmt.Sprintf("Due today %d", s.DueToday),
		fmt.Sprintf("In progress %d", s.InProgress),
		doneStyle.Render(fmt.Sprintf("Done %d", s.Done)),
		overdueStyle.Render(fmt.Sprintf("Overdue %d", s.Overdue)),
	}
	line := strings.Join(parts, mutedStyle.Render(" · "))
	if unread > 0 {
		line += "  " + badgeStyle.Render(fmt.Sprintf("%d unread", unread))
	}
	return line
}

// SaveOutcome describes a form save for the terminal.
func SaveOutcome(result service.SaveResult, message func(error) string) string {
	var b strings.Builder
	if result.Updated != nil {
		fmt.Fprintf(&b, "Updated task %d\n", result.Updated.ID)
	}
	for _, t := range result.Created {
		fmt.Fprintf(&b, "Created task %d for %s\n", t.ID, assigneeLabel(t))
	}
	for _, f := range result.Failures {
		b.WriteString(overdueStyle.Render(fmt.Sprintf("Failed for %s: %s", f.Username, message(f.Err))))
		b.WriteByte('\n')
	}
	return b.String()
}

func assigneeLabel(t task.Task) string {
	if t.AssigneeID == nil {
		return "unassigned"
	}
	return fmt.Sprintf("user %d", *t.AssigneeID)
}
