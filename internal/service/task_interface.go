package service

import (
	"context"

	"taskboard/internal/client"
	"taskboard/internal/models/task"
)

// TaskBackend is the part of the REST client the service drives.
type TaskBackend interface {
	CreateTask(context.Context, client.CreateTaskRequest) (*task.Task, error)
	UpdateTask(context.Context, int64, client.UpdateTaskRequest) (*task.Task, error)
	SubmitTask(context.Context, int64) error
	ApproveTask(context.Context, int64) error
	DenyTask(context.Context, int64) error
	SetTaskStatus(context.Context, int64, task.Status) error
	DeleteTask(context.Context, int64) error
}

var _ TaskBackend = (*client.Client)(nil)
