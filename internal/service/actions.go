package service

import (
	"taskboard/internal/models/task"
	"taskboard/internal/models/user"
)

type Action string

const (
	ActionSubmit  Action = "submit"
	ActionApprove Action = "approve"
	ActionDeny    Action = "deny"
	ActionToggle  Action = "toggle"
	ActionEdit    Action = "edit"
	ActionDelete  Action = "delete"
)

func ParseAction(raw string) (Action, bool) {
	switch a := Action(raw); a {
	case ActionSubmit, ActionApprove, ActionDeny, ActionToggle, ActionEdit, ActionDelete:
		return a, true
	}
	return "", false
}

// AllowedActions lists the row buttons shown to viewer. The backend enforces
// permissions on its own; this only decides what is offered.
func AllowedActions(viewer user.User, t task.Task) []Action {
	if !viewer.Role.CanManage() {
		if t.AssignedTo(viewer.ID) && !t.PendingReview && !t.IsDone() {
			return []Action{ActionSubmit}
		}
		return nil
	}

	actions := []Action{ActionToggle, ActionEdit, ActionDelete}
	if t.PendingReview {
		actions = append(actions, ActionApprove, ActionDeny)
	}
	return actions
}

func Allowed(viewer user.User, t task.Task, action Action) bool {
	for _, a := range AllowedActions(viewer, t) {
		if a == action {
			return true
		}
	}
	return false
}
