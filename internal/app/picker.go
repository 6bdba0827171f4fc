package app

import (
	"strings"

	"taskboard/internal/models/task"
	"taskboard/internal/models/user"
	"taskboard/internal/service"
)

// SelectAssignee adds username to the picker. Picking someone twice is a
// no-op.
func (a *App) SelectAssignee(username string) error {
	username = strings.TrimSpace(username)
	if _, ok := a.users.ResolveUsername(username); !ok {
		return service.NewResolutionError(username)
	}

	a.mtx.Lock()
	defer a.mtx.Unlock()
	for _, name := range a.assignees {
		if name == username {
			return nil
		}
	}
	a.assignees = append(a.assignees, username)
	return nil
}

func (a *App) RemoveAssignee(username string) {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	kept := a.assignees[:0]
	for _, name := range a.assignees {
		if name != username {
			kept = append(kept, name)
		}
	}
	a.assignees = kept
}

func (a *App) ClearAssignees() {
	a.mtx.Lock()
	a.assignees = nil
	a.mtx.Unlock()
}

// Assignees returns the selection in pick order.
func (a *App) Assignees() []string {
	a.mtx.RLock()
	defer a.mtx.RUnlock()
	return append([]string(nil), a.assignees...)
}

// AssigneeOptions lists users that can still be picked.
func (a *App) AssigneeOptions() []user.User {
	me, _ := a.Me()
	return a.users.AssignableUsers(me.ID, a.Assignees())
}

// StartEdit switches the form to edit mode for id and preselects its current
// assignee.
func (a *App) StartEdit(id int64) (task.Form, error) {
	t, err := a.tasks.GetByID(id)
	if err != nil {
		return task.Form{}, service.NewNotFound("task", id)
	}

	var selected []string
	if t.AssigneeID != nil {
		if u, ok := a.users.Get(*t.AssigneeID); ok {
			selected = []string{u.Username}
		}
	}

	a.mtx.Lock()
	a.editing = &id
	a.assignees = selected
	a.mtx.Unlock()
	return task.FormFromTask(&t), nil
}

// CancelEdit returns the form to create mode and clears the picker.
func (a *App) CancelEdit() {
	a.mtx.Lock()
	a.editing = nil
	a.assignees = nil
	a.mtx.Unlock()
}

// Editing is the id of the task in edit mode, if any.
func (a *App) Editing() (int64, bool) {
	a.mtx.RLock()
	defer a.mtx.RUnlock()
	if a.editing == nil {
		return 0, false
	}
	return *a.editing, true
}

func (a *App) formRequest(form task.Form) service.SaveRequest {
	a.mtx.RLock()
	defer a.mtx.RUnlock()
	req := service.SaveRequest{
		Form:      form,
		Assignees: append([]string(nil), a.assignees...),
	}
	if a.editing != nil {
		id := *a.editing
		req.EditTaskID = &id
	}
	return req
}
