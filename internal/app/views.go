package app

import (
	"time"

	"taskboard/internal/models/task"
	"taskboard/internal/recurrence"
	"taskboard/internal/service"
	"taskboard/internal/summary"
)

func (a *App) SetFilter(f summary.Filter) {
	a.mtx.Lock()
	a.filter = f
	a.mtx.Unlock()
}

func (a *App) Filter() summary.Filter {
	a.mtx.RLock()
	defer a.mtx.RUnlock()
	return a.filter
}

// AllTasks is the unfiltered snapshot.
func (a *App) AllTasks() []task.Task {
	return a.tasks.All()
}

// Tasks is the snapshot narrowed by the current filter.
func (a *App) Tasks() []task.Task {
	return a.TasksMatching(a.Filter())
}

func (a *App) TasksMatching(f summary.Filter) []task.Task {
	me, _ := a.Me()
	return summary.Apply(a.tasks.All(), f, me.ID)
}

// Summary counts over the whole snapshot, ignoring the filter.
func (a *App) Summary() summary.Summary {
	return summary.Compute(a.tasks.All(), a.Today())
}

func (a *App) Task(id int64) (task.Task, error) {
	return a.tasks.GetByID(id)
}

// TaskRow is one line of the task list.
type TaskRow struct {
	task.Task
	AssigneeName string           `json:"assigneeName"`
	CreatorName  string           `json:"creatorName"`
	Overdue      bool             `json:"overdue"`
	Comments     int              `json:"comments"`
	Actions      []service.Action `json:"actions"`
}

func (a *App) Rows(f summary.Filter) []TaskRow {
	me, _ := a.Me()
	today := a.Today()
	list := summary.Apply(a.tasks.All(), f, me.ID)

	rows := make([]TaskRow, 0, len(list))
	for _, t := range list {
		rows = append(rows, TaskRow{
			Task:         t,
			AssigneeName: a.users.Name(t.AssigneeID),
			CreatorName:  a.users.CreatorName(t.CreatedByUserID),
			Overdue:      summary.IsOverdue(t, today),
			Comments:     a.counts.Get(t.ID),
			Actions:      service.AllowedActions(me, t),
		})
	}
	return rows
}

// CalendarCursor is the first day of the month on display.
func (a *App) CalendarCursor() time.Time {
	a.mtx.RLock()
	defer a.mtx.RUnlock()
	return a.cursor
}

func (a *App) SetMonth(year int, month time.Month) {
	a.mtx.Lock()
	a.cursor = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	a.mtx.Unlock()
}

func (a *App) PrevMonth() time.Time {
	return a.moveCursor(-1)
}

func (a *App) NextMonth() time.Time {
	return a.moveCursor(1)
}

func (a *App) moveCursor(delta int) time.Time {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	a.cursor = a.cursor.AddDate(0, delta, 0)
	return a.cursor
}

type CalendarCell struct {
	Date    string      `json:"date"`
	Day     int         `json:"day"`
	InMonth bool        `json:"inMonth"`
	Today   bool        `json:"today"`
	Tasks   []task.Task `json:"tasks"`
	More    int         `json:"more"`
}

type CalendarView struct {
	Year  int            `json:"year"`
	Month time.Month     `json:"month"`
	Start string         `json:"start"`
	End   string         `json:"end"`
	Cells []CalendarCell `json:"cells"`
}

// Calendar lays out the filtered tasks on the grid of the cursor month.
func (a *App) Calendar() CalendarView {
	cursor := a.CalendarCursor()
	return a.CalendarFor(cursor.Year(), cursor.Month(), a.Tasks())
}

// CalendarFor lays out tasks on the grid of the given month. Each cell shows
// at most recurrence.DisplayCap tasks; More counts the rest.
func (a *App) CalendarFor(year int, month time.Month, tasks []task.Task) CalendarView {
	window := recurrence.MonthWindow(year, month)
	grouping := recurrence.Group(tasks, window)
	today := a.Today()

	view := CalendarView{
		Year:  year,
		Month: month,
		Start: task.DateKey(window.Start),
		End:   task.DateKey(window.End),
	}
	for _, day := range window.Days() {
		visible, more := grouping.Day(day, recurrence.DisplayCap)
		view.Cells = append(view.Cells, CalendarCell{
			Date:    task.DateKey(day),
			Day:     day.Day(),
			InMonth: day.Month() == month,
			Today:   day.Equal(today),
			Tasks:   append([]task.Task{}, visible...),
			More:    more,
		})
	}
	return view
}
