// Package app holds the dashboard state and the operations that change it.
// Views are derived from a snapshot on every read.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"taskboard/internal/client"
	"taskboard/internal/comments"
	"taskboard/internal/logger"
	"taskboard/internal/models/notification"
	"taskboard/internal/models/task"
	"taskboard/internal/models/user"
	"taskboard/internal/repository/inmemory"
	"taskboard/internal/service"
	"taskboard/internal/summary"

	"go.uber.org/zap"
)

var ErrNotLoggedIn = errors.New("not logged in")

// Backend is everything the dashboard asks of the REST API.
type Backend interface {
	service.TaskBackend
	comments.Backend
	Me(context.Context) (*user.User, error)
	ListUsers(context.Context) ([]user.User, error)
	ListTasks(context.Context) ([]task.Task, error)
	ListNotifications(context.Context) ([]notification.Notification, error)
	MarkNotificationRead(context.Context, int64) error
}

var _ Backend = (*client.Client)(nil)

const defaultCommentWorkers = 8

type App struct {
	backend Backend
	svc     *service.TaskService
	thread  *comments.Thread
	tasks   *inmemory.TaskStorage
	users   *inmemory.UserDirectory
	counts  *inmemory.CommentCounts

	now     func() time.Time
	loc     *time.Location
	workers int

	countsMtx sync.Mutex

	mtx           sync.RWMutex
	me            *user.User
	filter        summary.Filter
	cursor        time.Time
	assignees     []string
	editing       *int64
	notifications []notification.Notification
}

type Option func(*App)

func WithClock(now func() time.Time) Option {
	return func(a *App) {
		if now != nil {
			a.now = now
		}
	}
}

func WithLocation(loc *time.Location) Option {
	return func(a *App) {
		if loc != nil {
			a.loc = loc
		}
	}
}

// WithCommentWorkers bounds the concurrent comment-count requests.
func WithCommentWorkers(n int) Option {
	return func(a *App) {
		if n > 0 {
			a.workers = n
		}
	}
}

func New(backend Backend, options ...Option) *App {
	a := &App{
		backend: backend,
		thread:  comments.NewThread(backend),
		tasks:   inmemory.NewTaskStorage(),
		users:   inmemory.NewUserDirectory(),
		counts:  inmemory.NewCommentCounts(),
		now:     time.Now,
		loc:     time.Local,
		workers: defaultCommentWorkers,
	}
	for _, opt := range options {
		opt(a)
	}
	a.svc = service.NewTaskService(backend, a.tasks, a.users,
		service.WithClock(a.now),
		service.WithLocation(a.loc))

	today := a.Today()
	a.cursor = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	return a
}

// Init loads the signed-in user and everything the dashboard shows. A 401
// from the backend is reported as ErrNotLoggedIn.
func (a *App) Init(ctx context.Context) error {
	me, err := a.backend.Me(ctx)
	if err != nil {
		if client.IsUnauthorized(err) {
			return ErrNotLoggedIn
		}
		return fmt.Errorf("loading current user: %w", err)
	}

	a.mtx.Lock()
	a.me = me
	a.mtx.Unlock()
	logger.Info("Service: signed in", zap.Int64("user_id", me.ID), zap.String("role", string(me.Role)))

	if err := a.LoadUsers(ctx); err != nil {
		return err
	}
	if err := a.LoadTasks(ctx); err != nil {
		return err
	}
	if err := a.LoadNotifications(ctx); err != nil {
		logger.Warn("Service: notifications unavailable", zap.Error(err))
	}
	return nil
}

// Me returns the signed-in user.
func (a *App) Me() (user.User, bool) {
	a.mtx.RLock()
	defer a.mtx.RUnlock()
	if a.me == nil {
		return user.User{}, false
	}
	return *a.me, true
}

func (a *App) Users() *inmemory.UserDirectory {
	return a.users
}

func (a *App) Service() *service.TaskService {
	return a.svc
}

func (a *App) Thread() *comments.Thread {
	return a.thread
}

// Today is the current civil date in the configured zone.
func (a *App) Today() time.Time {
	return task.Today(a.now(), a.loc)
}

// MinDue is the earliest due value the create form accepts.
func (a *App) MinDue() string {
	return task.MinDue(a.now(), a.loc)
}

func (a *App) LoadUsers(ctx context.Context) error {
	users, err := a.backend.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("loading users: %w", err)
	}
	a.users.Replace(users)
	return nil
}

// LoadTasks replaces the snapshot with the backend's list. When another load
// was started meanwhile this result is dropped, so the newest request wins
// regardless of arrival order.
func (a *App) LoadTasks(ctx context.Context) error {
	me, ok := a.Me()
	if !ok {
		return ErrNotLoggedIn
	}

	gen := a.tasks.Begin()
	list, err := a.backend.ListTasks(ctx)
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}
	if !a.tasks.Apply(gen, list, me) {
		return nil
	}
	a.refreshCommentCounts(ctx, gen, a.tasks.IDs())
	return nil
}

func (a *App) LoadNotifications(ctx context.Context) error {
	list, err := a.backend.ListNotifications(ctx)
	if err != nil {
		return fmt.Errorf("loading notifications: %w", err)
	}
	a.mtx.Lock()
	a.notifications = list
	a.mtx.Unlock()
	return nil
}

// Refresh reloads tasks and notifications. Used after every mutation and by
// the background workers.
func (a *App) Refresh(ctx context.Context) error {
	taskErr := a.LoadTasks(ctx)
	if taskErr != nil {
		logger.Warn("Service: task reload failed", zap.Error(taskErr))
	}
	noteErr := a.LoadNotifications(ctx)
	if noteErr != nil {
		logger.Warn("Service: notification reload failed", zap.Error(noteErr))
	}
	return errors.Join(taskErr, noteErr)
}

func (a *App) Notifications() []notification.Notification {
	a.mtx.RLock()
	defer a.mtx.RUnlock()
	return append([]notification.Notification(nil), a.notifications...)
}

func (a *App) UnreadCount() int {
	a.mtx.RLock()
	defer a.mtx.RUnlock()
	return notification.UnreadCount(a.notifications)
}

func (a *App) MarkNotificationRead(ctx context.Context, id int64) error {
	err := a.backend.MarkNotificationRead(ctx, id)
	if err != nil {
		err = fmt.Errorf("marking notification %d read: %w", id, err)
	}
	if loadErr := a.LoadNotifications(ctx); loadErr != nil {
		logger.Warn("Service: notification reload failed", zap.Error(loadErr))
	}
	return err
}
