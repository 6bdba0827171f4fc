package app

import (
	"context"

	"taskboard/internal/comments"
	"taskboard/internal/logger"
	"taskboard/internal/models/task"
	"taskboard/internal/service"

	"go.uber.org/zap"
)

// SaveForm submits the form with the picker's selection, in edit mode when
// StartEdit was called. The form state is reset when the save went through.
func (a *App) SaveForm(ctx context.Context, form task.Form) (service.SaveResult, error) {
	result, err := a.Save(ctx, a.formRequest(form))
	if err == nil {
		a.CancelEdit()
	}
	return result, err
}

// Save runs the reconciler and reloads from the backend whatever happened.
func (a *App) Save(ctx context.Context, req service.SaveRequest) (service.SaveResult, error) {
	result, err := a.svc.Save(ctx, req)
	if err != nil && !callsMade(err) {
		return result, err
	}
	a.reload(ctx)
	return result, err
}

// callsMade reports whether err came after the backend was contacted.
// Validation and lookup failures happen before any call.
func callsMade(err error) bool {
	switch service.CodeOf(err) {
	case service.CodeValidation, service.CodeResolution, service.CodeNotFound:
		return false
	}
	return true
}

func (a *App) SubmitForReview(ctx context.Context, id int64) error {
	return a.mutate(ctx, a.svc.SubmitForReview(ctx, id))
}

func (a *App) Approve(ctx context.Context, id int64) error {
	return a.mutate(ctx, a.svc.Approve(ctx, id))
}

func (a *App) Deny(ctx context.Context, id int64) error {
	return a.mutate(ctx, a.svc.Deny(ctx, id))
}

func (a *App) ToggleComplete(ctx context.Context, id int64) (task.Status, error) {
	status, err := a.svc.ToggleComplete(ctx, id)
	return status, a.mutate(ctx, err)
}

func (a *App) Delete(ctx context.Context, id int64) error {
	return a.mutate(ctx, a.svc.Delete(ctx, id))
}

// Perform runs a row action by name.
func (a *App) Perform(ctx context.Context, id int64, action service.Action) error {
	switch action {
	case service.ActionSubmit:
		return a.SubmitForReview(ctx, id)
	case service.ActionApprove:
		return a.Approve(ctx, id)
	case service.ActionDeny:
		return a.Deny(ctx, id)
	case service.ActionToggle:
		_, err := a.ToggleComplete(ctx, id)
		return err
	case service.ActionDelete:
		return a.Delete(ctx, id)
	}
	return service.NewValidationError("action", "unsupported action "+string(action))
}

func (a *App) mutate(ctx context.Context, err error) error {
	a.reload(ctx)
	return err
}

func (a *App) reload(ctx context.Context) {
	if err := a.Refresh(ctx); err != nil {
		logger.Warn("Service: reload after mutation incomplete", zap.Error(err))
	}
}

// OpenComments opens the thread of taskID and returns its rows.
func (a *App) OpenComments(ctx context.Context, taskID int64) ([]comments.Row, error) {
	a.thread.Open(taskID)
	return a.CommentRows(ctx)
}

func (a *App) CommentRows(ctx context.Context) ([]comments.Row, error) {
	list, err := a.thread.Load(ctx)
	if err != nil {
		return nil, err
	}
	a.counts.Set(a.thread.TaskID(), len(list))
	return comments.Rows(list, a.users), nil
}

// SubmitComment sends the composer text in the thread's current mode.
func (a *App) SubmitComment(ctx context.Context, text string) (comments.Mode, error) {
	mode, err := a.thread.Submit(ctx, text)
	if err == nil {
		a.refreshCommentCount(ctx, a.thread.TaskID())
	}
	return mode, err
}

func (a *App) DeleteComment(ctx context.Context, commentID int64) error {
	err := a.thread.Delete(ctx, commentID)
	if err == nil {
		a.refreshCommentCount(ctx, a.thread.TaskID())
	}
	return err
}

// PostComment submits text for taskID in mode. Used by stateless callers that
// carry the composer mode with the request; the shared thread is left alone.
func (a *App) PostComment(ctx context.Context, taskID int64, mode comments.Mode, text string) (comments.Mode, error) {
	next, err := a.thread.SubmitTo(ctx, taskID, mode, text)
	if err == nil {
		a.refreshCommentCount(ctx, taskID)
	}
	return next, err
}
