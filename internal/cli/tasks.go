package cli

import (
	"fmt"
	"strconv"
	"strings"

	"taskboard/internal/app"
	"taskboard/internal/client"
	"taskboard/internal/handlers/dto"
	"taskboard/internal/models/task"
	"taskboard/internal/render"
	"taskboard/internal/service"
	"taskboard/internal/summary"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newTasksCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Task commands",
	}
	cmd.AddCommand(newTasksListCmd(env))
	cmd.AddCommand(newTasksCreateCmd(env))
	cmd.AddCommand(newTasksEditCmd(env))
	for _, action := range []service.Action{
		service.ActionSubmit,
		service.ActionApprove,
		service.ActionDeny,
		service.ActionToggle,
		service.ActionDelete,
	} {
		cmd.AddCommand(newTaskActionCmd(env, action))
	}
	return cmd
}

type filterFlags struct {
	status, category, priority, mine string
}

func (f *filterFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.status, "status", "", "TODO|IN_PROGRESS|DONE")
	flags.StringVar(&f.category, "category", "", "one-time|daily|weekly|monthly")
	flags.StringVar(&f.priority, "priority", "", "1-5")
	flags.StringVar(&f.mine, "mine", "", "assigned|created|any")
}

func (f *filterFlags) parse() (summary.Filter, error) {
	return summary.ParseFilter(f.status, f.category, f.priority, f.mine)
}

func newTasksListCmd(env *Env) *cobra.Command {
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List visible tasks with their allowed actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := filters.parse()
			if err != nil {
				return err
			}
			a, err := env.dashboard(cmd.Context())
			if err != nil {
				return err
			}
			rows := a.Rows(f)
			return writeOut(cmd, env, rows, func() string { return render.TaskTable(rows) })
		},
	}
	filters.register(cmd.Flags())
	return cmd
}

type formFlags struct {
	title, description, category, due string
	priority                          int
	assignees                         []string
}

func (f *formFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.title, "title", "", "Title")
	flags.StringVar(&f.description, "description", "", "Description")
	flags.StringVar(&f.category, "category", "", "one-time|daily|weekly|monthly")
	flags.IntVar(&f.priority, "priority", 0, "Priority 1-5 (default 3)")
	flags.StringVar(&f.due, "due", "", "Due time, YYYY-MM-DDTHH:MM")
	flags.StringSliceVar(&f.assignees, "assignee", nil, "Assignee username (repeatable)")
}

func parseDue(raw string) (*task.Timestamp, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	due, err := task.ParseDueInput(raw)
	if err != nil {
		return nil, service.NewValidationError("due", err.Error())
	}
	return &due, nil
}

func parseCategory(raw string) (task.Category, error) {
	c := task.Category(strings.ToLower(strings.TrimSpace(raw)))
	if c != "" && !c.Valid() {
		return "", service.NewValidationError("category", fmt.Sprintf("unknown category %q", raw))
	}
	return c, nil
}

// apply overlays the flags that were set on form.
func (f *formFlags) apply(flags *pflag.FlagSet, form task.Form) (task.Form, error) {
	if flags.Changed("title") {
		form.Title = strings.TrimSpace(f.title)
	}
	if flags.Changed("description") {
		form.Description = f.description
	}
	if flags.Changed("category") {
		c, err := parseCategory(f.category)
		if err != nil {
			return form, err
		}
		form.Category = c.Normalize()
	}
	if flags.Changed("priority") {
		if f.priority < 1 || f.priority > 5 {
			return form, service.NewValidationError("priority", "priority must be between 1 and 5")
		}
		form.Priority = f.priority
	}
	if flags.Changed("due") {
		due, err := parseDue(f.due)
		if err != nil {
			return form, err
		}
		form.DueAt = due
	}
	return form, nil
}

func selectAssignees(a *app.App, usernames []string) error {
	for _, name := range service.NormalizeAssignees(usernames) {
		if err := a.SelectAssignee(name); err != nil {
			return err
		}
	}
	return nil
}

func writeSave(cmd *cobra.Command, env *Env, result service.SaveResult, err error) error {
	if err != nil && result.Updated == nil && len(result.Created) == 0 && !result.Partial() {
		return err
	}
	message := func(e error) string { return client.Message(e, e.Error()) }
	out := writeOut(cmd, env, dto.FromSaveResult(result, message), func() string {
		return render.SaveOutcome(result, message)
	})
	if out != nil {
		return out
	}
	if err != nil {
		return err
	}
	return result.Err()
}

func newTasksCreateCmd(env *Env) *cobra.Command {
	var form formFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task, one copy per assignee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := form.apply(cmd.Flags(), task.NewForm(""))
			if err != nil {
				return err
			}
			a, err := env.dashboard(cmd.Context())
			if err != nil {
				return err
			}
			if err := selectAssignees(a, form.assignees); err != nil {
				return err
			}
			result, err := a.SaveForm(cmd.Context(), base)
			return writeSave(cmd, env, result, err)
		},
	}
	form.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("assignee")
	return cmd
}

func newTasksEditCmd(env *Env) *cobra.Command {
	var form formFlags

	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Edit a task; extra assignees get their own copy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			a, err := env.dashboard(cmd.Context())
			if err != nil {
				return err
			}
			current, err := a.StartEdit(id)
			if err != nil {
				return err
			}
			edited, err := form.apply(cmd.Flags(), current)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("assignee") {
				a.ClearAssignees()
				if err := selectAssignees(a, form.assignees); err != nil {
					return err
				}
			}
			result, err := a.SaveForm(cmd.Context(), edited)
			return writeSave(cmd, env, result, err)
		},
	}
	form.register(cmd.Flags())
	return cmd
}

var actionDone = map[service.Action]string{
	service.ActionSubmit:  "submitted for review",
	service.ActionApprove: "approved",
	service.ActionDeny:    "sent back",
	service.ActionDelete:  "deleted",
}

func newTaskActionCmd(env *Env, action service.Action) *cobra.Command {
	return &cobra.Command{
		Use:   string(action) + " <task-id>",
		Short: strings.ToUpper(string(action[:1])) + string(action[1:]) + " a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			a, err := env.dashboard(cmd.Context())
			if err != nil {
				return err
			}

			result := map[string]any{"id": id, "action": action}
			done := actionDone[action]
			if action == service.ActionToggle {
				status, err := a.ToggleComplete(cmd.Context(), id)
				if err != nil {
					return err
				}
				result["status"] = status
				done = "is now " + status.Label()
			} else if err := a.Perform(cmd.Context(), id, action); err != nil {
				return err
			}
			return writeOut(cmd, env, result, func() string { return fmt.Sprintf("Task %d %s", id, done) })
		},
	}
}

func parseID(kind, raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, service.NewValidationError(kind, fmt.Sprintf("invalid %s id %q", kind, raw))
	}
	return id, nil
}
