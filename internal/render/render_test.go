package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"taskboard/internal/app"
	"taskboard/internal/comments"
	"taskboard/internal/models/comment"
	"taskboard/internal/models/notification"
	"taskboard/internal/models/task"
	"taskboard/internal/service"
	"taskboard/internal/summary"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatTable, f)

	f, err = ParseFormat("YAML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestWrite(t *testing.T) {
	s := summary.Summary{Total: 2, DueToday: 1, InProgress: 1, Done: 1, Overdue: 1}

	var js bytes.Buffer
	require.NoError(t, Write(&js, FormatJSON, s))
	assert.Contains(t, js.String(), `"dueToday": 1`)

	var ym bytes.Buffer
	require.NoError(t, Write(&ym, FormatYAML, s))
	assert.Contains(t, ym.String(), "dueToday: 1")

	assert.Error(t, Write(&js, FormatTable, s))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "long ti…", truncate("long title", 8))
	assert.Equal(t, "…", truncate("abc", 1))
}

func TestTaskTable(t *testing.T) {
	due, err := task.ParseTimestamp("2025-06-01 09:00:00")
	require.NoError(t, err)
	rows := []app.TaskRow{{
		Task:         task.Task{ID: 11, Title: "Invoices", Status: task.StatusInProgress, DueAt: &due},
		AssigneeName: "bob",
		CreatorName:  "boss",
		Overdue:      true,
		Comments:     2,
		Actions:      []service.Action{service.ActionToggle, service.ActionEdit},
	}}

	out := TaskTable(rows)

	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "Invoices")
	assert.Contains(t, out, "2025-06-01 09:00")
	assert.Contains(t, out, "toggle,edit")
	assert.Contains(t, TaskTable(nil), "No tasks.")
}

func TestSummaryLine(t *testing.T) {
	out := SummaryLine(summary.Summary{Total: 3, Overdue: 1}, 2)
	assert.Contains(t, out, "Total 3")
	assert.Contains(t, out, "Overdue 1")
	assert.Contains(t, out, "2 unread")
	assert.NotContains(t, SummaryLine(summary.Summary{}, 0), "unread")
}

func TestCalendar(t *testing.T) {
	view := app.CalendarView{Year: 2025, Month: time.June}
	for i := 0; i < 42; i++ {
		view.Cells = append(view.Cells, app.CalendarCell{Day: i%30 + 1, InMonth: true})
	}
	view.Cells[3].Tasks = []task.Task{{Title: "Standup"}}
	view.Cells[3].More = 4

	out := Calendar(view)

	assert.Contains(t, out, "June 2025")
	assert.Contains(t, out, "Mon")
	assert.Contains(t, out, "Standup")
	assert.Contains(t, out, "+4 more")
}

func TestCommentList(t *testing.T) {
	parent := int64(1)
	rows := []comments.Row{
		{Comment: comment.Comment{ID: 1, Text: "root"}, Author: "alice"},
		{Comment: comment.Comment{ID: 2, Text: "reply", ParentCommentID: &parent}, Author: "bob", ParentAuthor: "alice", ParentText: "root"},
	}

	out := CommentList(rows)

	assert.Contains(t, out, "#2")
	assert.Contains(t, out, "alice: root")
	assert.Equal(t, 1, strings.Count(out, "↳"))
	assert.Contains(t, CommentList(nil), "No comments")
}

func TestNotificationList(t *testing.T) {
	out := NotificationList([]notification.Notification{
		{ID: 1, TaskID: 10, Message: "Task approved"},
		{ID: 2, TaskID: 11, Message: "Task denied", Read: true},
	})
	assert.Contains(t, out, "Task approved")
	assert.Equal(t, 1, strings.Count(out, "•"))
}

func TestSaveOutcome(t *testing.T) {
	assignee := int64(7)
	out := SaveOutcome(service.SaveResult{
		Updated:  &task.Task{ID: 42},
		Created:  []task.Task{{ID: 43, AssigneeID: &assignee}},
		Failures: []service.AssigneeFailure{{Username: "bob", Err: errors.New("boom")}},
	}, func(err error) string { return err.Error() })

	assert.Contains(t, out, "Updated task 42")
	assert.Contains(t, out, "Created task 43 for user 7")
	assert.Contains(t, out, "Failed for bob: boom")
}
