package inmemory

import (
	"sync"

	"taskboard/internal/logger"
	"taskboard/internal/models/task"
	"taskboard/internal/models/user"
	repo "taskboard/internal/repository"

	"go.uber.org/zap"
)

// TaskStorage holds the tasks visible to the current user. Reloads are
// tagged with a generation; only the newest begun load may replace the list.
type TaskStorage struct {
	tasks  []task.Task
	byID   map[int64]int
	mtx    *sync.RWMutex
	issued uint64
	loaded uint64
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		byID: make(map[int64]int),
		mtx:  &sync.RWMutex{},
	}
}

// Begin reserves a generation for a load about to start.
func (s *TaskStorage) Begin() uint64 {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.issued++
	return s.issued
}

// Apply installs the result of load gen, filtered for viewer. It reports
// false and drops the result when a newer load has been begun since.
func (s *TaskStorage) Apply(gen uint64, tasks []task.Task, viewer user.User) bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if gen != s.issued || gen <= s.loaded {
		logger.Info("Repository: stale task load discarded",
			zap.Uint64("generation", gen),
			zap.Uint64("latest", s.issued))
		return false
	}

	visible := VisibleTo(tasks, viewer)
	s.tasks = visible
	s.byID = make(map[int64]int, len(visible))
	for i, t := range visible {
		s.byID[t.ID] = i
	}
	s.loaded = gen
	return true
}

// VisibleTo applies the role filter: Staff only see tasks assigned to them.
func VisibleTo(tasks []task.Task, viewer user.User) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if viewer.Role == user.RoleStaff && !t.AssignedTo(viewer.ID) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// All returns a copy of the snapshot in backend order.
func (s *TaskStorage) All() []task.Task {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	out := make([]task.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *TaskStorage) GetByID(id int64) (task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return task.Task{}, repo.ErrNotFound
	}
	return s.tasks[i], nil
}

func (s *TaskStorage) Len() int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return len(s.tasks)
}

func (s *TaskStorage) IDs() []int64 {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	ids := make([]int64, len(s.tasks))
	for i, t := range s.tasks {
		ids[i] = t.ID
	}
	return ids
}

// Generation is the generation of the snapshot currently held.
func (s *TaskStorage) Generation() uint64 {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.loaded
}

var _ repo.TaskReader = (*TaskStorage)(nil)
