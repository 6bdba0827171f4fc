package dto

import (
	"fmt"
	"strings"

	"taskboard/internal/comments"
	"taskboard/internal/models/task"
	"taskboard/internal/service"
)

// SaveTaskRequest is the task form as posted by the dashboard page.
type SaveTaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Priority    int      `json:"priority"`
	DueAt       string   `json:"dueAt"`
	Assignees   []string `json:"assignees"`
	EditTaskID  *int64   `json:"editTaskId,omitempty"`
}

func (r SaveTaskRequest) ToSaveRequest() (service.SaveRequest, error) {
	var due *task.Timestamp
	if raw := strings.TrimSpace(r.DueAt); raw != "" {
		parsed, err := task.ParseDueInput(raw)
		if err != nil {
			return service.SaveRequest{}, service.NewValidationError("dueAt", err.Error())
		}
		due = &parsed
	}

	category := task.Category(strings.ToLower(strings.TrimSpace(r.Category)))
	if category != "" && !category.Valid() {
		return service.SaveRequest{}, service.NewValidationError("category", fmt.Sprintf("unknown category %q", r.Category))
	}
	if r.Priority != 0 && (r.Priority < 1 || r.Priority > 5) {
		return service.SaveRequest{}, service.NewValidationError("priority", "priority must be between 1 and 5")
	}

	form := task.NewForm(r.Title,
		task.WithDescription(r.Description),
		task.WithCategory(category),
		task.WithPriority(r.Priority),
		task.WithDueAt(due))
	return service.SaveRequest{
		Form:       form,
		Assignees:  r.Assignees,
		EditTaskID: r.EditTaskID,
	}, nil
}

type FailureResponse struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

type SaveTaskResponse struct {
	Updated  *task.Task        `json:"updated,omitempty"`
	Created  []task.Task       `json:"created"`
	Failures []FailureResponse `json:"failures"`
}

func FromSaveResult(result service.SaveResult, message func(error) string) SaveTaskResponse {
	resp := SaveTaskResponse{
		Updated:  result.Updated,
		Created:  append([]task.Task{}, result.Created...),
		Failures: make([]FailureResponse, 0, len(result.Failures)),
	}
	for _, f := range result.Failures {
		resp.Failures = append(resp.Failures, FailureResponse{Username: f.Username, Message: message(f.Err)})
	}
	return resp
}

// CommentRequest is a composer submit. Mode is "", "reply" or "edit";
// CommentID names the target comment for the latter two.
type CommentRequest struct {
	Text      string `json:"text"`
	Mode      string `json:"mode,omitempty"`
	CommentID int64  `json:"commentId,omitempty"`
}

func (r CommentRequest) ToMode() (comments.Mode, error) {
	kind, err := comments.ParseModeKind(r.Mode)
	if err != nil {
		return comments.Mode{}, service.NewValidationError("mode", err.Error())
	}
	if kind != comments.ModeNone && r.CommentID <= 0 {
		return comments.Mode{}, service.NewValidationError("commentId", "commentId is required for "+string(kind))
	}
	if kind == comments.ModeNone {
		return comments.Mode{}, nil
	}
	return comments.Mode{Kind: kind, CommentID: r.CommentID}, nil
}
