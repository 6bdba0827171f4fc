package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskboard/internal/client"
	"taskboard/internal/logger"
	"taskboard/internal/models/task"
	rep "taskboard/internal/repository"

	"go.uber.org/zap"
)

// TaskService turns form submissions and row actions into backend calls.
// It never touches the local snapshot; callers reload after every call.
type TaskService struct {
	backend TaskBackend
	tasks   rep.TaskReader
	users   rep.UserResolver
	now     func() time.Time
	loc     *time.Location
}

func NewTaskService(backend TaskBackend, tasks rep.TaskReader, users rep.UserResolver, options ...Option) *TaskService {
	s := &TaskService{
		backend: backend,
		tasks:   tasks,
		users:   users,
		now:     time.Now,
		loc:     time.Local,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// SaveRequest is one submission of the task form. EditTaskID selects edit
// mode.
type SaveRequest struct {
	Form       task.Form
	Assignees  []string
	EditTaskID *int64
}

// AssigneeFailure is a create call that failed for one assignee.
type AssigneeFailure struct {
	Username string
	Err      error
}

type SaveResult struct {
	Updated  *task.Task
	Created  []task.Task
	Failures []AssigneeFailure
}

// Partial reports whether some create calls failed.
func (r SaveResult) Partial() bool {
	return len(r.Failures) > 0
}

// Err folds the per-assignee failures into one error, nil when all succeeded.
func (r SaveResult) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, fmt.Errorf("%s: %w", f.Username, f.Err))
	}
	return errors.Join(errs...)
}

// NormalizeAssignees trims, drops blanks and duplicates, keeping first-seen
// order.
func NormalizeAssignees(usernames []string) []string {
	seen := make(map[string]struct{}, len(usernames))
	out := make([]string, 0, len(usernames))
	for _, name := range usernames {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// Save creates one task per assignee, or in edit mode updates the existing
// task for the first assignee and clones it for the rest.
//
// Validation and resolution failures are returned before any call is made.
// In create mode a failed call is recorded in the result and the remaining
// assignees are still processed. In edit mode a failed update aborts the
// save and no clones are made.
func (s *TaskService) Save(ctx context.Context, req SaveRequest) (SaveResult, error) {
	assignees := NormalizeAssignees(req.Assignees)
	if len(assignees) == 0 {
		return SaveResult{}, NewValidationError("assignees", "select at least one assignee")
	}
	if strings.TrimSpace(req.Form.Title) == "" {
		return SaveResult{}, NewValidationError("title", "title is required")
	}

	if req.EditTaskID == nil {
		return s.create(ctx, req.Form, assignees)
	}
	return s.edit(ctx, *req.EditTaskID, req.Form, assignees)
}

func (s *TaskService) create(ctx context.Context, form task.Form, assignees []string) (SaveResult, error) {
	if form.DueAt != nil && !form.DueAt.IsZero() {
		floor := task.FromTime(s.now().In(s.loc)).Truncate(time.Minute)
		if form.DueAt.Before(floor) {
			return SaveResult{}, NewValidationError("dueAt", "you cannot create tasks in the past")
		}
	}

	var result SaveResult
	s.createEach(ctx, form, assignees, &result)

	logger.Info("Service: tasks created",
		zap.Int("requested", len(assignees)),
		zap.Int("created", len(result.Created)),
		zap.Int("failed", len(result.Failures)))
	return result, nil
}

func (s *TaskService) edit(ctx context.Context, id int64, form task.Form, assignees []string) (SaveResult, error) {
	primary := assignees[0]
	assigneeID, ok := s.users.ResolveUsername(primary)
	if !ok {
		logger.Info("Service: assignee not resolved", zap.String("username", primary))
		return SaveResult{}, NewResolutionError(primary)
	}

	existing, err := s.tasks.GetByID(id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return SaveResult{}, NewNotFound("task", id)
		}
		return SaveResult{}, fmt.Errorf("reading task %d: %w", id, err)
	}

	updated, err := s.backend.UpdateTask(ctx, id, client.NewUpdateTaskRequest(form, assigneeID, existing.Status))
	if err != nil {
		logger.Error("Service: task update failed", err, zap.Int64("task_id", id))
		return SaveResult{}, NewUpdateFailed(id, err)
	}

	result := SaveResult{Updated: updated}
	s.createEach(ctx, form, assignees[1:], &result)

	logger.Info("Service: task updated",
		zap.Int64("task_id", id),
		zap.Int64("assignee_id", assigneeID),
		zap.Int("clones", len(result.Created)),
		zap.Int("failed", len(result.Failures)))
	return result, nil
}

// createEach issues the create calls one after another in selection order.
func (s *TaskService) createEach(ctx context.Context, form task.Form, assignees []string, result *SaveResult) {
	for _, username := range assignees {
		created, err := s.backend.CreateTask(ctx, client.NewCreateTaskRequest(form, username))
		if err != nil {
			logger.Warn("Service: create failed for assignee",
				zap.String("username", username),
				zap.Error(err))
			result.Failures = append(result.Failures, AssigneeFailure{Username: username, Err: err})
			continue
		}
		result.Created = append(result.Created, *created)
	}
}

func (s *TaskService) SubmitForReview(ctx context.Context, id int64) error {
	if err := s.backend.SubmitTask(ctx, id); err != nil {
		return fmt.Errorf("submitting task %d: %w", id, err)
	}
	return nil
}

func (s *TaskService) Approve(ctx context.Context, id int64) error {
	if err := s.backend.ApproveTask(ctx, id); err != nil {
		return fmt.Errorf("approving task %d: %w", id, err)
	}
	return nil
}

func (s *TaskService) Deny(ctx context.Context, id int64) error {
	if err := s.backend.DenyTask(ctx, id); err != nil {
		return fmt.Errorf("denying task %d: %w", id, err)
	}
	return nil
}

// ToggleComplete flips a task between DONE and IN_PROGRESS and returns the
// status it asked for.
func (s *TaskService) ToggleComplete(ctx context.Context, id int64) (task.Status, error) {
	current, err := s.tasks.GetByID(id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return "", NewNotFound("task", id)
		}
		return "", fmt.Errorf("reading task %d: %w", id, err)
	}

	next := task.StatusDone
	if current.IsDone() {
		next = task.StatusInProgress
	}
	if err := s.backend.SetTaskStatus(ctx, id, next); err != nil {
		return "", fmt.Errorf("setting task %d to %s: %w", id, next, err)
	}
	return next, nil
}

func (s *TaskService) Delete(ctx context.Context, id int64) error {
	if err := s.backend.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("deleting task %d: %w", id, err)
	}
	logger.Info("Service: task deleted", zap.Int64("task_id", id))
	return nil
}
