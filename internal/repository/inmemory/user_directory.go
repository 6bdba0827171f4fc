package inmemory

import (
	"fmt"
	"strings"
	"sync"

	"taskboard/internal/models/user"
	repo "taskboard/internal/repository"
)

// UserDirectory caches id -> user, refreshed once per dashboard load.
type UserDirectory struct {
	users []user.User
	byID  map[int64]user.User
	mtx   sync.RWMutex
}

func NewUserDirectory() *UserDirectory {
	return &UserDirectory{byID: make(map[int64]user.User)}
}

func (d *UserDirectory) Replace(users []user.User) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.users = append([]user.User(nil), users...)
	d.byID = make(map[int64]user.User, len(users))
	for _, u := range users {
		d.byID[u.ID] = u
	}
}

func (d *UserDirectory) Users() []user.User {
	d.mtx.RLock()
	defer d.mtx.RUnlock()
	return append([]user.User(nil), d.users...)
}

func (d *UserDirectory) Get(id int64) (user.User, bool) {
	d.mtx.RLock()
	defer d.mtx.RUnlock()
	u, ok := d.byID[id]
	return u, ok
}

// Name is the display name for an assignee or creator id.
func (d *UserDirectory) Name(id *int64) string {
	if id == nil || *id == 0 {
		return "Unassigned"
	}
	if u, ok := d.Get(*id); ok {
		return u.Username
	}
	return fmt.Sprintf("User %d", *id)
}

// CreatorName differs from Name only in the missing-id wording.
func (d *UserDirectory) CreatorName(id int64) string {
	if id == 0 {
		return "Unknown"
	}
	return d.Name(&id)
}

// ResolveUsername is an exact, case-sensitive match like the backend's.
func (d *UserDirectory) ResolveUsername(username string) (int64, bool) {
	username = strings.TrimSpace(username)
	d.mtx.RLock()
	defer d.mtx.RUnlock()
	for _, u := range d.users {
		if u.Username == username {
			return u.ID, true
		}
	}
	return 0, false
}

// AssignableUsers lists picker options: everyone except the current user and
// those already selected.
func (d *UserDirectory) AssignableUsers(currentID int64, selected []string) []user.User {
	taken := make(map[string]bool, len(selected))
	for _, name := range selected {
		taken[name] = true
	}
	d.mtx.RLock()
	defer d.mtx.RUnlock()
	out := make([]user.User, 0, len(d.users))
	for _, u := range d.users {
		if u.ID == currentID || taken[u.Username] {
			continue
		}
		out = append(out, u)
	}
	return out
}

var _ repo.UserResolver = (*UserDirectory)(nil)
