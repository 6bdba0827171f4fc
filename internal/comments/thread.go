// Package comments drives the comment composer of the open task.
package comments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"taskboard/internal/client"
	"taskboard/internal/logger"
	"taskboard/internal/models/comment"
	"taskboard/internal/service"

	"go.uber.org/zap"
)

var ErrNoTask = errors.New("no task open")

type Backend interface {
	ListComments(context.Context, int64) ([]comment.Comment, error)
	CreateComment(ctx context.Context, taskID int64, text string, parent *int64) (*comment.Comment, error)
	UpdateComment(ctx context.Context, commentID int64, text string) error
	DeleteComment(ctx context.Context, commentID int64) error
}

var _ Backend = (*client.Client)(nil)

type ModeKind string

const (
	ModeNone  ModeKind = ""
	ModeReply ModeKind = "reply"
	ModeEdit  ModeKind = "edit"
)

func ParseModeKind(raw string) (ModeKind, error) {
	switch k := ModeKind(strings.ToLower(strings.TrimSpace(raw))); k {
	case ModeNone, ModeReply, ModeEdit:
		return k, nil
	}
	return ModeNone, fmt.Errorf("unknown comment mode %q", raw)
}

// Mode is the composer state: nothing, replying to a comment or editing one.
type Mode struct {
	Kind      ModeKind `json:"kind"`
	CommentID int64    `json:"commentId,omitempty"`
}

func (m Mode) Active() bool {
	return m.Kind != ModeNone
}

// Thread tracks at most one mode for the composer of one open task. Setting a
// mode replaces the previous one.
type Thread struct {
	backend Backend
	mtx     sync.Mutex
	taskID  int64
	mode    Mode
}

func NewThread(backend Backend) *Thread {
	return &Thread{backend: backend}
}

// Open switches the thread to taskID and clears the mode.
func (t *Thread) Open(taskID int64) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.taskID = taskID
	t.mode = Mode{}
}

func (t *Thread) Close() {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.taskID = 0
	t.mode = Mode{}
}

func (t *Thread) TaskID() int64 {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.taskID
}

func (t *Thread) Reply(commentID int64) {
	t.set(Mode{Kind: ModeReply, CommentID: commentID})
}

func (t *Thread) Edit(commentID int64) {
	t.set(Mode{Kind: ModeEdit, CommentID: commentID})
}

func (t *Thread) Cancel() {
	t.set(Mode{})
}

func (t *Thread) Mode() Mode {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.mode
}

func (t *Thread) set(m Mode) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.mode = m
}

// Load fetches the comments of the open task.
func (t *Thread) Load(ctx context.Context) ([]comment.Comment, error) {
	taskID := t.TaskID()
	if taskID == 0 {
		return nil, ErrNoTask
	}
	comments, err := t.backend.ListComments(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("loading comments of task %d: %w", taskID, err)
	}
	return comments, nil
}

// Submit sends text according to the current mode: an update in edit mode,
// a reply in reply mode, a plain comment otherwise. The mode is cleared once
// the call succeeds and kept when it fails.
func (t *Thread) Submit(ctx context.Context, text string) (Mode, error) {
	text = strings.TrimSpace(text)

	t.mtx.Lock()
	taskID, mode := t.taskID, t.mode
	t.mtx.Unlock()

	if err := t.send(ctx, taskID, mode, text); err != nil {
		return mode, err
	}

	t.mtx.Lock()
	// a different mode picked while the call was in flight wins
	if t.mode == mode {
		t.mode = Mode{}
	}
	t.mtx.Unlock()
	return mode, nil
}

// SubmitTo sends text for taskID in the given mode without reading or
// changing the open task and mode. Concurrent callers sharing the thread use
// it. On success the returned mode is cleared.
func (t *Thread) SubmitTo(ctx context.Context, taskID int64, mode Mode, text string) (Mode, error) {
	if err := t.send(ctx, taskID, mode, strings.TrimSpace(text)); err != nil {
		return mode, err
	}
	return Mode{}, nil
}

func (t *Thread) send(ctx context.Context, taskID int64, mode Mode, text string) error {
	if taskID == 0 {
		return ErrNoTask
	}
	if text == "" {
		return service.NewValidationError("text", "comment cannot be empty")
	}

	var err error
	switch mode.Kind {
	case ModeEdit:
		err = t.backend.UpdateComment(ctx, mode.CommentID, text)
	case ModeReply:
		parent := mode.CommentID
		_, err = t.backend.CreateComment(ctx, taskID, text, &parent)
	default:
		_, err = t.backend.CreateComment(ctx, taskID, text, nil)
	}
	if err != nil {
		logger.Error("Service: comment submit failed", err,
			zap.Int64("task_id", taskID),
			zap.String("mode", string(mode.Kind)))
		return fmt.Errorf("submitting comment: %w", err)
	}
	return nil
}

// Delete removes a comment. A mode pointing at it is dropped.
func (t *Thread) Delete(ctx context.Context, commentID int64) error {
	if err := t.backend.DeleteComment(ctx, commentID); err != nil {
		return fmt.Errorf("deleting comment %d: %w", commentID, err)
	}
	t.mtx.Lock()
	if t.mode.CommentID == commentID {
		t.mode = Mode{}
	}
	t.mtx.Unlock()
	return nil
}
