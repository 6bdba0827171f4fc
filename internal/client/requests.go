package client

import (
	"taskboard/internal/models/task"
	"taskboard/internal/models/user"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Password string    `json:"password"`
	Role     user.Role `json:"role"`
}

// CreateTaskRequest is the POST /api/tasks body. DueAt is sent as null when
// the form leaves it empty.
type CreateTaskRequest struct {
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Category         task.Category   `json:"category"`
	Priority         int             `json:"priority"`
	DueAt            *task.Timestamp `json:"dueAt"`
	AssigneeUsername string          `json:"assigneeUsername"`
}

type UpdateTaskRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    task.Category   `json:"category"`
	Priority    int             `json:"priority"`
	DueAt       *task.Timestamp `json:"dueAt"`
	AssigneeID  int64           `json:"assigneeId"`
	Status      task.Status     `json:"status"`
}

type StatusRequest struct {
	Status task.Status `json:"status"`
}

type CommentRequest struct {
	Text            string `json:"text"`
	ParentCommentID *int64 `json:"parentCommentId,omitempty"`
}

func NewCreateTaskRequest(form task.Form, assignee string) CreateTaskRequest {
	return CreateTaskRequest{
		Title:            form.Title,
		Description:      form.Description,
		Category:         form.Category.Normalize(),
		Priority:         task.NormalizePriority(form.Priority),
		DueAt:            form.DueAt,
		AssigneeUsername: assignee,
	}
}

func NewUpdateTaskRequest(form task.Form, assigneeID int64, status task.Status) UpdateTaskRequest {
	return UpdateTaskRequest{
		Title:       form.Title,
		Description: form.Description,
		Category:    form.Category.Normalize(),
		Priority:    task.NormalizePriority(form.Priority),
		DueAt:       form.DueAt,
		AssigneeID:  assigneeID,
		Status:      status,
	}
}
