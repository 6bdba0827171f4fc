package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"taskboard/internal/models/task"
)

func TestGroup(t *testing.T) {
	tasks := []task.Task{
		dueTask(1, task.CategoryOneTime, "2025-06-10 09:00:00"),
		dueTask(2, task.CategoryDaily, "2025-06-09 09:00:00"),
		{ID: 3, Title: "no due"},
	}

	g := Group(tasks, MonthWindow(2025, time.June))

	on10 := g.On(day("2025-06-10"))
	if assert.Len(t, on10, 2) {
		assert.Equal(t, int64(1), on10[0].ID)
		assert.Equal(t, int64(2), on10[1].ID)
	}
	assert.Len(t, g.On(day("2025-06-22")), 1)
	assert.Empty(t, g.On(day("2025-06-23")))
	for _, list := range g {
		for _, tk := range list {
			assert.NotEqual(t, int64(3), tk.ID)
		}
	}
}

func TestGroupingDay(t *testing.T) {
	var tasks []task.Task
	for i := int64(1); i <= 5; i++ {
		tasks = append(tasks, dueTask(i, task.CategoryOneTime, "2025-06-10 09:00:00"))
	}
	g := Group(tasks, MonthWindow(2025, time.June))

	visible, more := g.Day(day("2025-06-10"), DisplayCap)
	assert.Len(t, visible, 3)
	assert.Equal(t, 2, more)
	assert.Len(t, g.On(day("2025-06-10")), 5)

	visible, more = g.Day(day("2025-06-10"), -1)
	assert.Len(t, visible, 5)
	assert.Zero(t, more)

	visible, more = g.Day(day("2025-06-11"), DisplayCap)
	assert.Empty(t, visible)
	assert.Zero(t, more)
}
