package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"taskboard/internal/app"
	"taskboard/internal/client"
	"taskboard/internal/comments"
	"taskboard/internal/handlers"
	"taskboard/internal/models/notification"
	"taskboard/internal/models/task"
	"taskboard/internal/models/user"
	"taskboard/internal/service"
	"taskboard/internal/summary"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDashboard - мок состояния дашборда
type MockDashboard struct {
	mock.Mock
}

func (m *MockDashboard) Me() (user.User, bool) {
	args := m.Called()
	return args.Get(0).(user.User), args.Bool(1)
}

func (m *MockDashboard) MinDue() string {
	return m.Called().String(0)
}

func (m *MockDashboard) Summary() summary.Summary {
	return m.Called().Get(0).(summary.Summary)
}

func (m *MockDashboard) Rows(f summary.Filter) []app.TaskRow {
	return m.Called(f).Get(0).([]app.TaskRow)
}

func (m *MockDashboard) TasksMatching(f summary.Filter) []task.Task {
	return m.Called(f).Get(0).([]task.Task)
}

func (m *MockDashboard) CalendarCursor() time.Time {
	return m.Called().Get(0).(time.Time)
}

func (m *MockDashboard) CalendarFor(year int, month time.Month, tasks []task.Task) app.CalendarView {
	return m.Called(year, month, tasks).Get(0).(app.CalendarView)
}

func (m *MockDashboard) Save(ctx context.Context, req service.SaveRequest) (service.SaveResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(service.SaveResult), args.Error(1)
}

func (m *MockDashboard) Perform(ctx context.Context, id int64, action service.Action) error {
	return m.Called(ctx, id, action).Error(0)
}

func (m *MockDashboard) OpenComments(ctx context.Context, id int64) ([]comments.Row, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]comments.Row), args.Error(1)
}

func (m *MockDashboard) PostComment(ctx context.Context, id int64, mode comments.Mode, text string) (comments.Mode, error) {
	args := m.Called(ctx, id, mode, text)
	return args.Get(0).(comments.Mode), args.Error(1)
}

func (m *MockDashboard) DeleteComment(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockDashboard) Notifications() []notification.Notification {
	return m.Called().Get(0).([]notification.Notification)
}

func (m *MockDashboard) UnreadCount() int {
	return m.Called().Int(0)
}

func (m *MockDashboard) MarkNotificationRead(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockDashboard) Refresh(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

var _ handlers.Dashboard = (*MockDashboard)(nil)

func serve(t *testing.T, m *MockDashboard, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := handlers.NewDashboardHandler(m)
	router := handlers.NewRouter(&h, handlers.RouterConfig{})

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthCheck(t *testing.T) {
	m := new(MockDashboard)
	m.On("Me").Return(user.User{ID: 1}, true)

	rec := serve(t, m, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestGetMe(t *testing.T) {
	t.Run("signed in", func(t *testing.T) {
		m := new(MockDashboard)
		m.On("Me").Return(user.User{ID: 1, Username: "boss", Role: user.RoleManager}, true)
		m.On("MinDue").Return("2025-06-10T12:00")
		m.On("UnreadCount").Return(2)

		rec := serve(t, m, http.MethodGet, "/api/dashboard/me", "")

		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, true, body["canCreateTasks"])
		assert.Equal(t, "2025-06-10T12:00", body["minDue"])
		assert.EqualValues(t, 2, body["unreadNotifications"])
	})

	t.Run("signed out", func(t *testing.T) {
		m := new(MockDashboard)
		m.On("Me").Return(user.User{}, false)

		rec := serve(t, m, http.MethodGet, "/api/dashboard/me", "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

// TestGetTasks тестирует фильтрацию списка задач
func TestGetTasks(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		filter     summary.Filter
		wantStatus int
	}{
		{
			name:       "no filter",
			query:      "",
			filter:     summary.Filter{},
			wantStatus: http.StatusOK,
		},
		{
			name:       "all selectors",
			query:      "?status=done&category=DAILY&priority=2&mine=assigned",
			filter:     summary.Filter{Status: task.StatusDone, Category: task.CategoryDaily, Priority: 2, Mine: summary.MineAssigned},
			wantStatus: http.StatusOK,
		},
		{
			name:       "bad priority",
			query:      "?priority=9",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad mine",
			query:      "?mine=everyone",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(MockDashboard)
			if tt.wantStatus == http.StatusOK {
				m.On("Rows", tt.filter).Return([]app.TaskRow{{Task: task.Task{ID: 1}}})
			}

			rec := serve(t, m, http.MethodGet, "/api/dashboard/tasks"+tt.query, "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.EqualValues(t, 1, decode(t, rec)["count"])
			}
			m.AssertExpectations(t)
		})
	}
}

func TestGetCalendar(t *testing.T) {
	t.Run("explicit month", func(t *testing.T) {
		m := new(MockDashboard)
		tasks := []task.Task{{ID: 1}}
		m.On("CalendarCursor").Return(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
		m.On("TasksMatching", summary.Filter{}).Return(tasks)
		m.On("CalendarFor", 2025, time.February, tasks).Return(app.CalendarView{Year: 2025, Month: time.February})

		rec := serve(t, m, http.MethodGet, "/api/dashboard/calendar?year=2025&month=2", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		m.AssertExpectations(t)
	})

	t.Run("cursor month", func(t *testing.T) {
		m := new(MockDashboard)
		m.On("CalendarCursor").Return(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
		m.On("TasksMatching", summary.Filter{}).Return([]task.Task{})
		m.On("CalendarFor", 2025, time.June, []task.Task{}).Return(app.CalendarView{Year: 2025, Month: time.June})

		rec := serve(t, m, http.MethodGet, "/api/dashboard/calendar", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		m.AssertExpectations(t)
	})

	t.Run("bad month", func(t *testing.T) {
		m := new(MockDashboard)
		m.On("CalendarCursor").Return(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

		rec := serve(t, m, http.MethodGet, "/api/dashboard/calendar?month=13", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSaveTask(t *testing.T) {
	body := `{"title":"Audit","category":"weekly","priority":2,"dueAt":"2025-06-20T10:00","assignees":["alice","bob"]}`
	matchForm := mock.MatchedBy(func(req service.SaveRequest) bool {
		return req.Form.Title == "Audit" &&
			req.Form.Category == task.CategoryWeekly &&
			req.Form.DueAt != nil && req.Form.DueAt.String() == "2025-06-20 10:00:00" &&
			len(req.Assignees) == 2 && req.EditTaskID == nil
	})

	t.Run("created", func(t *testing.T) {
		m := new(MockDashboard)
		m.On("Save", mock.Anything, matchForm).Return(service.SaveResult{Created: []task.Task{{ID: 1}, {ID: 2}}}, nil)

		rec := serve(t, m, http.MethodPost, "/api/dashboard/tasks", body)

		assert.Equal(t, http.StatusCreated, rec.Code)
		m.AssertExpectations(t)
	})

	t.Run("partial failure", func(t *testing.T) {
		m := new(MockDashboard)
		m.On("Save", mock.Anything, matchForm).Return(service.SaveResult{
			Created:  []task.Task{{ID: 1}},
			Failures: []service.AssigneeFailure{{Username: "bob", Err: &client.APIError{StatusCode: 400, Message: "Assignee not found"}}},
		}, nil)

		rec := serve(t, m, http.MethodPost, "/api/dashboard/tasks", body)

		require.Equal(t, http.StatusMultiStatus, rec.Code)
		result := decode(t, rec)["result"].(map[string]any)
		failures := result["failures"].([]any)
		require.Len(t, failures, 1)
		assert.Equal(t, "Assignee not found", failures[0].(map[string]any)["message"])
	})

	t.Run("validation error", func(t *testing.T) {
		m := new(MockDashboard)
		m.On("Save", mock.Anything, mock.Anything).Return(service.SaveResult{}, service.NewValidationError("dueAt", "you cannot create tasks in the past"))

		rec := serve(t, m, http.MethodPost, "/api/dashboard/tasks", body)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, service.CodeValidation, decode(t, rec)["error"])
	})

	t.Run("resolution error", func(t *testing.T) {
		m := new(MockDashboard)
		m.On("Save", mock.Anything, mock.Anything).Return(service.SaveResult{}, service.NewResolutionError("alice"))

		rec := serve(t, m, http.MethodPost, "/api/dashboard/tasks", `{"title":"x","assignees":["alice"],"editTaskId":3}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("bad due date never reaches the service", func(t *testing.T) {
		m := new(MockDashboard)

		rec := serve(t, m, http.MethodPost, "/api/dashboard/tasks", `{"title":"x","dueAt":"tomorrow","assignees":["alice"]}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		m.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("wrong content type", func(t *testing.T) {
		m := new(MockDashboard)
		h := handlers.NewDashboardHandler(m)
		router := handlers.NewRouter(&h, handlers.RouterConfig{})
		req := httptest.NewRequest(http.MethodPost, "/api/dashboard/tasks", strings.NewReader(body))
		req.Header.Set("Content-Type", "text/plain")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})
}

func TestTaskAction(t *testing.T) {
	t.Run("toggle", func(t *testing.T) {
		m := new(MockDashboard)
		m.On("Perform", mock.Anything, int64(5), service.ActionToggle).Return(nil)

		rec := serve(t, m, http.MethodPatch, "/api/dashboard/tasks/5/toggle", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		m.AssertExpectations(t)
	})

	t.Run("backend 404 is relayed", func(t *testing.T) {
		m := new(MockDashboard)
		m.On("Perform", mock.Anything, int64(5), service.ActionApprove).
			Return(&client.APIError{StatusCode: http.StatusNotFound, Message: "Task not found"})

		rec := serve(t, m, http.MethodPatch, "/api/dashboard/tasks/5/approve", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Task not found", decode(t, rec)["error"])
	})

	t.Run("transport failure", func(t *testing.T) {
		m := new(MockDashboard)
		m.On("Perform", mock.Anything, int64(5), service.ActionDeny).
			Return(&client.TransportError{Method: http.MethodPatch, Path: "/api/tasks/5/deny", Err: errors.New("connection refused")})

		rec := serve(t, m, http.MethodPatch, "/api/dashboard/tasks/5/deny", "")

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "Network error.", decode(t, rec)["error"])
	})

	t.Run("unknown action", func(t *testing.T) {
		m := new(MockDashboard)

		rec := serve(t, m, http.MethodPatch, "/api/dashboard/tasks/5/archive", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		m := new(MockDashboard)

		rec := serve(t, m, http.MethodPatch, "/api/dashboard/tasks/abc/toggle", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		m := new(MockDashboard)
		m.On("Perform", mock.Anything, int64(5), service.ActionDelete).Return(nil)

		rec := serve(t, m, http.MethodDelete, "/api/dashboard/tasks/5", "")

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestComments(t *testing.T) {
	rows := []comments.Row{{Author: "boss"}}

	t.Run("list", func(t *testing.T) {
		m := new(MockDashboard)
		m.On("OpenComments", mock.Anything, int64(5)).Return(rows, nil)

		rec := serve(t, m, http.MethodGet, "/api/dashboard/tasks/5/comments", "")

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("reply", func(t *testing.T) {
		m := new(MockDashboard)
		mode := comments.Mode{Kind: comments.ModeReply, CommentID: 9}
		m.On("PostComment", mock.Anything, int64(5), mode, "ok").Return(mode, nil)
		m.On("OpenComments", mock.Anything, int64(5)).Return(rows, nil)

		rec := serve(t, m, http.MethodPost, "/api/dashboard/tasks/5/comments", `{"text":"ok","mode":"reply","commentId":9}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		m.AssertExpectations(t)
	})

	t.Run("edit without target", func(t *testing.T) {
		m := new(MockDashboard)

		rec := serve(t, m, http.MethodPost, "/api/dashboard/tasks/5/comments", `{"text":"ok","mode":"edit"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		m.AssertNotCalled(t, "PostComment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("delete", func(t *testing.T) {
		m := new(MockDashboard)
		m.On("DeleteComment", mock.Anything, int64(9)).Return(nil)

		rec := serve(t, m, http.MethodDelete, "/api/dashboard/comments/9", "")

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestNotificationsAndRefresh(t *testing.T) {
	m := new(MockDashboard)
	m.On("Notifications").Return([]notification.Notification{{ID: 1}})
	m.On("UnreadCount").Return(1).Once()
	m.On("UnreadCount").Return(0)
	m.On("MarkNotificationRead", mock.Anything, int64(1)).Return(nil)
	m.On("Refresh", mock.Anything).Return(nil)
	m.On("Summary").Return(summary.Summary{Total: 3})

	rec := serve(t, m, http.MethodGet, "/api/dashboard/notifications", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode(t, rec)["unread"])

	rec = serve(t, m, http.MethodPatch, "/api/dashboard/notifications/1/read", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, decode(t, rec)["unread"])

	rec = serve(t, m, http.MethodPost, "/api/dashboard/refresh", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	m.AssertExpectations(t)
}
