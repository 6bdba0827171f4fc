package render

import "github.com/charmbracelet/lipgloss"

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted   = ac("240", "243")
	colorAccent  = ac("27", "62")
	colorDanger  = ac("160", "203")
	colorSuccess = ac("28", "78")
	colorBorder  = ac("250", "240")

	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	overdueStyle = lipgloss.NewStyle().Foreground(colorDanger)
	doneStyle    = lipgloss.NewStyle().Foreground(colorSuccess)
	todayStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	badgeStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorDanger)
)

func cell(width int) lipgloss.Style {
	return lipgloss.NewStyle().Width(width).MaxWidth(width).PaddingRight(1)
}

// truncate shortens s to width runes, marking the cut with "…".
func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
