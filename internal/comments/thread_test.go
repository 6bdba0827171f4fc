package comments_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"taskboard/internal/client"
	"taskboard/internal/comments"
	"taskboard/internal/models/comment"
	"taskboard/internal/models/task"
	"taskboard/internal/models/user"
	"taskboard/internal/service"
	"taskboard/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*testutil.Backend, *comments.Thread) {
	t.Helper()
	b := testutil.NewBackend(t)
	b.AddUser(1, "boss", user.RoleManager)
	b.AddTask(task.Task{ID: 10, Title: "Report"})
	b.AddComment(comment.Comment{ID: 20, TaskID: 10, UserID: 1, Text: "first"})

	c, err := client.New(b.URL(), client.WithTimeout(2*time.Second))
	require.NoError(t, err)
	c.SetCookies([]*http.Cookie{b.Session(1)})

	th := comments.NewThread(c)
	th.Open(10)
	b.ResetCalls()
	return b, th
}

// TestThread_Modes тестирует переключение режимов композера
func TestThread_Modes(t *testing.T) {
	_, th := setup(t)

	assert.False(t, th.Mode().Active())

	th.Reply(20)
	assert.Equal(t, comments.Mode{Kind: comments.ModeReply, CommentID: 20}, th.Mode())

	th.Edit(21)
	assert.Equal(t, comments.Mode{Kind: comments.ModeEdit, CommentID: 21}, th.Mode())

	th.Cancel()
	assert.False(t, th.Mode().Active())

	th.Reply(20)
	th.Open(11)
	assert.False(t, th.Mode().Active())
	assert.Equal(t, int64(11), th.TaskID())
}

func TestThread_SubmitPlain(t *testing.T) {
	ctx := context.Background()
	b, th := setup(t)

	used, err := th.Submit(ctx, "  hello ")

	require.NoError(t, err)
	assert.Equal(t, comments.ModeNone, used.Kind)
	calls := b.CallsTo(http.MethodPost, "/api/tasks/10/comments")
	require.Len(t, calls, 1)
	assert.Equal(t, "hello", calls[0].Body["text"])
	assert.NotContains(t, calls[0].Body, "parentCommentId")
}

func TestThread_SubmitReply(t *testing.T) {
	ctx := context.Background()
	b, th := setup(t)
	th.Reply(20)

	used, err := th.Submit(ctx, "agreed")

	require.NoError(t, err)
	assert.Equal(t, comments.ModeReply, used.Kind)
	calls := b.CallsTo(http.MethodPost, "/api/tasks/10/comments")
	require.Len(t, calls, 1)
	assert.EqualValues(t, 20, calls[0].Body["parentCommentId"])
	assert.False(t, th.Mode().Active())
}

func TestThread_SubmitEdit(t *testing.T) {
	ctx := context.Background()
	b, th := setup(t)
	th.Edit(20)

	_, err := th.Submit(ctx, "first, revised")

	require.NoError(t, err)
	assert.Len(t, b.CallsTo(http.MethodPatch, "/api/comments/20"), 1)
	assert.Empty(t, b.CallsTo(http.MethodPost, "/api/tasks/10/comments"))
	stored, ok := b.Comment(20)
	require.True(t, ok)
	assert.Equal(t, "first, revised", stored.Text)
	assert.False(t, th.Mode().Active())
}

func TestThread_SubmitFailureKeepsMode(t *testing.T) {
	ctx := context.Background()
	b, th := setup(t)
	th.Edit(999)

	_, err := th.Submit(ctx, "nope")

	require.Error(t, err)
	assert.True(t, client.IsNotFound(err))
	assert.Equal(t, comments.Mode{Kind: comments.ModeEdit, CommentID: 999}, th.Mode())
	assert.Len(t, b.Calls(), 1)
}

func TestThread_SubmitBlank(t *testing.T) {
	b, th := setup(t)

	_, err := th.Submit(context.Background(), "   ")

	assert.Equal(t, service.CodeValidation, service.CodeOf(err))
	assert.Empty(t, b.Calls())
}

func TestThread_NoTaskOpen(t *testing.T) {
	_, th := setup(t)
	th.Close()

	_, err := th.Submit(context.Background(), "hi")
	assert.ErrorIs(t, err, comments.ErrNoTask)

	_, err = th.Load(context.Background())
	assert.ErrorIs(t, err, comments.ErrNoTask)
}

func TestThread_LoadAndDelete(t *testing.T) {
	ctx := context.Background()
	b, th := setup(t)

	list, err := th.Load(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	th.Reply(20)
	require.NoError(t, th.Delete(ctx, 20))
	assert.False(t, th.Mode().Active())
	_, ok := b.Comment(20)
	assert.False(t, ok)
}

func TestParseModeKind(t *testing.T) {
	k, err := comments.ParseModeKind(" Reply ")
	require.NoError(t, err)
	assert.Equal(t, comments.ModeReply, k)

	k, err = comments.ParseModeKind("")
	require.NoError(t, err)
	assert.Equal(t, comments.ModeNone, k)

	_, err = comments.ParseModeKind("quote")
	assert.Error(t, err)
}

// TestThread_SubmitTo тестирует отправку без изменения открытого треда
func TestThread_SubmitTo(t *testing.T) {
	ctx := context.Background()
	b, th := setup(t)
	b.AddTask(task.Task{ID: 11, Title: "Invoices"})
	th.Edit(20)

	next, err := th.SubmitTo(ctx, 11, comments.Mode{Kind: comments.ModeReply, CommentID: 20}, " thanks ")

	require.NoError(t, err)
	assert.False(t, next.Active())
	calls := b.CallsTo(http.MethodPost, "/api/tasks/11/comments")
	require.Len(t, calls, 1)
	assert.Equal(t, "thanks", calls[0].Body["text"])
	assert.EqualValues(t, 20, calls[0].Body["parentCommentId"])
	assert.Equal(t, int64(10), th.TaskID())
	assert.Equal(t, comments.Mode{Kind: comments.ModeEdit, CommentID: 20}, th.Mode())

	kept, err := th.SubmitTo(ctx, 11, comments.Mode{Kind: comments.ModeEdit, CommentID: 20}, "   ")
	assert.Equal(t, service.CodeValidation, service.CodeOf(err))
	assert.Equal(t, comments.ModeEdit, kept.Kind)

	_, err = th.SubmitTo(ctx, 0, comments.Mode{}, "hi")
	assert.ErrorIs(t, err, comments.ErrNoTask)
}
