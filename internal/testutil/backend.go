// Package testutil provides an in-process fake of the task backend REST API.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"

	"taskboard/internal/models/comment"
	"taskboard/internal/models/notification"
	"taskboard/internal/models/task"
	"taskboard/internal/models/user"

	"github.com/go-chi/chi/v5"
)

const SessionCookie = "JSESSIONID"

// Call is one request seen by the fake backend.
type Call struct {
	Method string
	Path   string
	Body   map[string]any
}

type Backend struct {
	Server *httptest.Server

	mtx           sync.Mutex
	users         map[int64]user.User
	passwords     map[string]string
	sessions      map[string]int64
	tasks         map[int64]*task.Task
	comments      map[int64]*comment.Comment
	notifications map[int64]*notification.Notification
	nextID        int64
	calls         []Call

	failCreateFor map[string]int
	failUpdate    map[int64]int
	failList      int
	down          bool
}

func NewBackend(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{
		users:         map[int64]user.User{},
		passwords:     map[string]string{},
		sessions:      map[string]int64{},
		tasks:         map[int64]*task.Task{},
		comments:      map[int64]*comment.Comment{},
		notifications: map[int64]*notification.Notification{},
		nextID:        100,
		failCreateFor: map[string]int{},
		failUpdate:    map[int64]int{},
	}
	b.Server = httptest.NewServer(b.router())
	t.Cleanup(b.Server.Close)
	return b
}

func (b *Backend) URL() string {
	return b.Server.URL
}

// AddUser registers a user with a fixed id and password "secret".
func (b *Backend) AddUser(id int64, username string, role user.Role) user.User {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	u := user.User{ID: id, Username: username, Role: role}
	b.users[id] = u
	b.passwords[username] = "secret"
	return u
}

// Session returns a cookie authenticating as userID.
func (b *Backend) Session(userID int64) *http.Cookie {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	token := fmt.Sprintf("session-%d", userID)
	b.sessions[token] = userID
	return &http.Cookie{Name: SessionCookie, Value: token, Path: "/"}
}

func (b *Backend) AddTask(t task.Task) task.Task {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	if t.ID == 0 {
		t.ID = b.newID()
	}
	if t.Status == "" {
		t.Status = task.StatusTodo
	}
	stored := t
	b.tasks[t.ID] = &stored
	return t
}

func (b *Backend) AddComment(c comment.Comment) comment.Comment {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	if c.ID == 0 {
		c.ID = b.newID()
	}
	stored := c
	b.comments[c.ID] = &stored
	return c
}

func (b *Backend) AddNotification(n notification.Notification) notification.Notification {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	if n.ID == 0 {
		n.ID = b.newID()
	}
	stored := n
	b.notifications[n.ID] = &stored
	return n
}

// FailCreateFor makes POST /api/tasks fail with status for that assignee.
func (b *Backend) FailCreateFor(username string, status int) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	b.failCreateFor[username] = status
}

func (b *Backend) FailUpdate(id int64, status int) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	b.failUpdate[id] = status
}

func (b *Backend) FailListTasks(status int) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	b.failList = status
}

// Down makes every request fail at the connection level.
func (b *Backend) Down() {
	b.mtx.Lock()
	b.down = true
	b.mtx.Unlock()
	b.Server.CloseClientConnections()
}

func (b *Backend) Calls() []Call {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	out := make([]Call, len(b.calls))
	copy(out, b.calls)
	return out
}

// CallsTo filters recorded calls by method and path.
func (b *Backend) CallsTo(method, path string) []Call {
	var out []Call
	for _, c := range b.Calls() {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

func (b *Backend) ResetCalls() {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	b.calls = nil
}

func (b *Backend) Tasks() []task.Task {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return b.sortedTasks()
}

func (b *Backend) Task(id int64) (task.Task, bool) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	t, ok := b.tasks[id]
	if !ok {
		return task.Task{}, false
	}
	return *t, true
}

func (b *Backend) Comment(id int64) (comment.Comment, bool) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	c, ok := b.comments[id]
	if !ok {
		return comment.Comment{}, false
	}
	return *c, true
}

func (b *Backend) newID() int64 {
	b.nextID++
	return b.nextID
}

func (b *Backend) sortedTasks() []task.Task {
	out := make([]task.Task, 0, len(b.tasks))
	for _, t := range b.tasks {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (b *Backend) router() http.Handler {
	r := chi.NewRouter()
	r.Use(b.record)

	r.Post("/api/auth/login", b.login)
	r.Post("/api/auth/register", b.register)

	r.Group(func(r chi.Router) {
		r.Use(b.authenticated)
		r.Get("/api/auth/me", b.me)
		r.Get("/api/users", b.listUsers)
		r.Route("/api/tasks", func(r chi.Router) {
			r.Get("/", b.listTasks)
			r.Post("/", b.createTask)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", b.getTask)
				r.Put("/", b.updateTask)
				r.Delete("/", b.deleteTask)
				r.Patch("/submit", b.transition("submit"))
				r.Patch("/approve", b.transition("approve"))
				r.Patch("/deny", b.transition("deny"))
				r.Patch("/status", b.transition("status"))
				r.Get("/comments", b.listComments)
				r.Post("/comments", b.createComment)
			})
		})
		r.Patch("/api/comments/{id}", b.updateComment)
		r.Delete("/api/comments/{id}", b.deleteComment)
		r.Get("/api/notifications", b.listNotifications)
		r.Patch("/api/notifications/{id}/read", b.readNotification)
	})
	return r
}

type ctxUser struct{}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &body)
		}
		r.Body = io.NopCloser(bytesReader(raw))

		b.mtx.Lock()
		b.calls = append(b.calls, Call{Method: r.Method, Path: r.URL.Path, Body: body})
		down := b.down
		b.mtx.Unlock()

		if down {
			if hj, ok := w.(http.Hijacker); ok {
				if conn, _, err := hj.Hijack(); err == nil {
					conn.Close()
					return
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Not logged in")
			return
		}
		b.mtx.Lock()
		userID, ok := b.sessions[cookie.Value]
		b.mtx.Unlock()
		if !ok {
			writeError(w, http.StatusUnauthorized, "Not logged in")
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), userID)))
	})
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Username == "" {
		writeError(w, http.StatusBadRequest, "Missing username or password")
		return
	}
	b.mtx.Lock()
	defer b.mtx.Unlock()
	if b.passwords[body.Username] != body.Password {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	for _, u := range b.users {
		if u.Username == body.Username {
			token := fmt.Sprintf("session-%d", u.ID)
			b.sessions[token] = u.ID
			http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: token, Path: "/"})
			writeJSON(w, http.StatusOK, u)
			return
		}
	}
	writeError(w, http.StatusUnauthorized, "Invalid credentials")
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string    `json:"username"`
		Email    string    `json:"email"`
		Password string    `json:"password"`
		Role     user.Role `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Username == "" || body.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing fields")
		return
	}
	if !body.Role.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid role")
		return
	}
	b.mtx.Lock()
	defer b.mtx.Unlock()
	if _, taken := b.passwords[body.Username]; taken {
		writeError(w, http.StatusConflict, "Username already taken")
		return
	}
	u := user.User{ID: b.newID(), Username: body.Username, Email: body.Email, Role: body.Role}
	b.users[u.ID] = u
	b.passwords[u.Username] = body.Password
	writeJSON(w, http.StatusCreated, u)
}

func (b *Backend) me(w http.ResponseWriter, r *http.Request) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	u, ok := b.users[userFrom(r.Context())]
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (b *Backend) listUsers(w http.ResponseWriter, r *http.Request) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	out := make([]user.User, 0, len(b.users))
	for _, u := range b.users {
		out = append(out, user.User{ID: u.ID, Username: u.Username, Role: u.Role})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) listTasks(w http.ResponseWriter, r *http.Request) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	if b.failList != 0 {
		writeError(w, b.failList, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, b.sortedTasks())
}

func (b *Backend) getTask(w http.ResponseWriter, r *http.Request) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	t, ok := b.lookupTask(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (b *Backend) createTask(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title            string          `json:"title"`
		Description      string          `json:"description"`
		Category         task.Category   `json:"category"`
		Priority         int             `json:"priority"`
		DueAt            *task.Timestamp `json:"dueAt"`
		AssigneeUsername string          `json:"assigneeUsername"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Title == "" {
		writeError(w, http.StatusBadRequest, "Missing title")
		return
	}
	b.mtx.Lock()
	defer b.mtx.Unlock()
	if status, fail := b.failCreateFor[body.AssigneeUsername]; fail {
		writeError(w, status, "Assignee not found")
		return
	}
	var assignee *int64
	for _, u := range b.users {
		if u.Username == body.AssigneeUsername {
			id := u.ID
			assignee = &id
		}
	}
	if assignee == nil {
		writeError(w, http.StatusBadRequest, "Assignee not found")
		return
	}
	t := &task.Task{
		ID:              b.newID(),
		Title:           body.Title,
		Description:     body.Description,
		Category:        body.Category,
		Priority:        body.Priority,
		Status:          task.StatusTodo,
		DueAt:           body.DueAt,
		AssigneeID:      assignee,
		CreatedByUserID: userFrom(r.Context()),
		CreatedAt:       "2025-01-01 00:00:00",
	}
	b.tasks[t.ID] = t
	writeJSON(w, http.StatusCreated, t)
}

func (b *Backend) updateTask(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title       string          `json:"title"`
		Description string          `json:"description"`
		Category    task.Category   `json:"category"`
		Priority    int             `json:"priority"`
		DueAt       *task.Timestamp `json:"dueAt"`
		AssigneeID  int64           `json:"assigneeId"`
		Status      task.Status     `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid body")
		return
	}
	b.mtx.Lock()
	defer b.mtx.Unlock()
	t, ok := b.lookupTask(w, r)
	if !ok {
		return
	}
	if status, fail := b.failUpdate[t.ID]; fail {
		writeError(w, status, "Update rejected")
		return
	}
	t.Title = body.Title
	t.Description = body.Description
	t.Category = body.Category
	t.Priority = body.Priority
	t.DueAt = body.DueAt
	assignee := body.AssigneeID
	t.AssigneeID = &assignee
	t.Status = body.Status
	writeJSON(w, http.StatusOK, t)
}

func (b *Backend) deleteTask(w http.ResponseWriter, r *http.Request) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	t, ok := b.lookupTask(w, r)
	if !ok {
		return
	}
	delete(b.tasks, t.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) transition(action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Status task.Status `json:"status"`
		}
		if action == "status" {
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil || !body.Status.Valid() {
				writeError(w, http.StatusBadRequest, "Invalid status")
				return
			}
		}
		b.mtx.Lock()
		defer b.mtx.Unlock()
		t, ok := b.lookupTask(w, r)
		if !ok {
			return
		}
		switch action {
		case "submit":
			if t.PendingReview {
				writeError(w, http.StatusBadRequest, "Task already pending review")
				return
			}
			t.PendingReview = true
		case "approve":
			t.PendingReview = false
			t.Status = task.StatusDone
		case "deny":
			t.PendingReview = false
			t.Status = task.StatusInProgress
		case "status":
			t.Status = body.Status
		}
		writeJSON(w, http.StatusOK, t)
	}
}

func (b *Backend) listComments(w http.ResponseWriter, r *http.Request) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	t, ok := b.lookupTask(w, r)
	if !ok {
		return
	}
	out := []comment.Comment{}
	for _, c := range b.comments {
		if c.TaskID == t.ID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) createComment(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text            string `json:"text"`
		ParentCommentID *int64 `json:"parentCommentId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Text == "" {
		writeError(w, http.StatusBadRequest, "Missing text")
		return
	}
	b.mtx.Lock()
	defer b.mtx.Unlock()
	t, ok := b.lookupTask(w, r)
	if !ok {
		return
	}
	c := &comment.Comment{
		ID:              b.newID(),
		TaskID:          t.ID,
		UserID:          userFrom(r.Context()),
		Text:            body.Text,
		CreatedAt:       "2025-01-01 00:00:00",
		ParentCommentID: body.ParentCommentID,
	}
	b.comments[c.ID] = c
	writeJSON(w, http.StatusCreated, c)
}

func (b *Backend) updateComment(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Text == "" {
		writeError(w, http.StatusBadRequest, "Missing text")
		return
	}
	b.mtx.Lock()
	defer b.mtx.Unlock()
	c, ok := b.comments[pathID(r)]
	if !ok {
		writeError(w, http.StatusNotFound, "Comment not found")
		return
	}
	c.Text = body.Text
	writeJSON(w, http.StatusOK, c)
}

func (b *Backend) deleteComment(w http.ResponseWriter, r *http.Request) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	id := pathID(r)
	if _, ok := b.comments[id]; !ok {
		writeError(w, http.StatusNotFound, "Comment not found")
		return
	}
	delete(b.comments, id)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) listNotifications(w http.ResponseWriter, r *http.Request) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	me := userFrom(r.Context())
	out := []notification.Notification{}
	for _, n := range b.notifications {
		if n.UserID == me {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) readNotification(w http.ResponseWriter, r *http.Request) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	n, ok := b.notifications[pathID(r)]
	if !ok || n.UserID != userFrom(r.Context()) {
		writeError(w, http.StatusNotFound, "Notification not found")
		return
	}
	n.Read = true
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// lookupTask expects b.mtx to be held.
func (b *Backend) lookupTask(w http.ResponseWriter, r *http.Request) (*task.Task, bool) {
	t, ok := b.tasks[pathID(r)]
	if !ok {
		writeError(w, http.StatusNotFound, "Task not found")
		return nil, false
	}
	return t, true
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"error": message})
}
