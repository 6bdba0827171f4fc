package render

import (
	"fmt"
	"strings"

	"taskboard/internal/app"

	"github.com/charmbracelet/lipgloss"
)

const calendarCellWidth = 16

var weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Calendar renders the six-week grid. Each cell lists the visible tasks
// and a "+N more" line when some were held back.
func Calendar(view app.CalendarView) string {
	title := headerStyle.Render(fmt.Sprintf("%s %d", view.Month, view.Year))

	head := make([]string, len(weekdays))
	for i, d := range weekdays {
		head[i] = headerStyle.Width(calendarCellWidth).Render(d)
	}

	lines := []string{title, lipgloss.JoinHorizontal(lipgloss.Top, head...)}
	for week := 0; week*7 < len(view.Cells); week++ {
		end := week*7 + 7
		if end > len(view.Cells) {
			end = len(view.Cells)
		}
		cells := make([]string, 0, 7)
		for _, c := range view.Cells[week*7 : end] {
			cells = append(cells, calendarCell(c))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func calendarCell(c app.CalendarCell) string {
	day := fmt.Sprintf("%2d", c.Day)
	switch {
	case c.Today:
		day = todayStyle.Render(day)
	case !c.InMonth:
		day = mutedStyle.Render(day)
	}

	body := []string{day}
	for _, t := range c.Tasks {
		body = append(body, truncate(t.Title, calendarCellWidth-2))
	}
	if c.More > 0 {
		body = append(body, mutedStyle.Render(fmt.Sprintf("+%d more", c.More)))
	}

	return lipgloss.NewStyle().
		Width(calendarCellWidth).
		Height(5).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorBorder).
		BorderTop(true).
		Render(strings.Join(body, "\n"))
}
