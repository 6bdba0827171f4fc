package repository

import "taskboard/internal/models/task"

// TaskReader is the read side of the task snapshot.
type TaskReader interface {
	All() []task.Task
	GetByID(id int64) (task.Task, error)
}

// UserResolver maps assignee usernames back to user ids.
type UserResolver interface {
	ResolveUsername(username string) (int64, bool)
	Name(id *int64) string
}
