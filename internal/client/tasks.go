package client

import (
	"context"
	"fmt"
	"net/http"

	"taskboard/internal/models/task"
)

func (c *Client) ListTasks(ctx context.Context) ([]task.Task, error) {
	var tasks []task.Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) GetTask(ctx context.Context, id int64) (*task.Task, error) {
	var t task.Task
	if err := c.do(ctx, http.MethodGet, taskPath(id), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (*task.Task, error) {
	var created task.Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateTask(ctx context.Context, id int64, req UpdateTaskRequest) (*task.Task, error) {
	var updated task.Task
	if err := c.do(ctx, http.MethodPut, taskPath(id), req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) SubmitTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPatch, taskPath(id)+"/submit", nil, nil)
}

func (c *Client) ApproveTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPatch, taskPath(id)+"/approve", nil, nil)
}

func (c *Client) DenyTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPatch, taskPath(id)+"/deny", nil, nil)
}

func (c *Client) SetTaskStatus(ctx context.Context, id int64, status task.Status) error {
	return c.do(ctx, http.MethodPatch, taskPath(id)+"/status", StatusRequest{Status: status}, nil)
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

func taskPath(id int64) string {
	return fmt.Sprintf("/api/tasks/%d", id)
}
