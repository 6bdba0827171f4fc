package handlers

import (
	"context"
	"time"

	"taskboard/internal/app"
	"taskboard/internal/comments"
	"taskboard/internal/models/notification"
	"taskboard/internal/models/task"
	"taskboard/internal/models/user"
	"taskboard/internal/service"
	"taskboard/internal/summary"
)

// Dashboard is the application state the HTTP layer reads and drives.
type Dashboard interface {
	Me() (user.User, bool)
	MinDue() string
	Summary() summary.Summary
	Rows(summary.Filter) []app.TaskRow
	TasksMatching(summary.Filter) []task.Task
	CalendarCursor() time.Time
	CalendarFor(int, time.Month, []task.Task) app.CalendarView
	Save(context.Context, service.SaveRequest) (service.SaveResult, error)
	Perform(context.Context, int64, service.Action) error
	OpenComments(context.Context, int64) ([]comments.Row, error)
	PostComment(context.Context, int64, comments.Mode, string) (comments.Mode, error)
	DeleteComment(context.Context, int64) error
	Notifications() []notification.Notification
	UnreadCount() int
	MarkNotificationRead(context.Context, int64) error
	Refresh(context.Context) error
}

var _ Dashboard = (*app.App)(nil)
