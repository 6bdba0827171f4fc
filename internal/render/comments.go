package render

import (
	"fmt"
	"strings"

	"taskboard/internal/comments"
	"taskboard/internal/models/notification"
)

// CommentList renders a flat thread. Replies quote their parent.
func CommentList(rows []comments.Row) string {
	if len(rows) == 0 {
		return mutedStyle.Render("No comments yet.")
	}
	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "%s %s %s\n",
			headerStyle.Render(fmt.Sprintf("#%d", r.ID)),
			r.Author,
			mutedStyle.Render(r.CreatedAt))
		if r.ParentText != "" {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("  ↳ %s: %s", r.ParentAuthor, truncate(r.ParentText, 60))))
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "  %s\n", r.Text)
	}
	return b.String()
}

func NotificationList(list []notification.Notification) string {
	if len(list) == 0 {
		return mutedStyle.Render("No notifications.")
	}
	var b strings.Builder
	for _, n := range list {
		marker := "•"
		line := fmt.Sprintf("%s #%d task %d: %s %s", marker, n.ID, n.TaskID, n.Message, n.CreatedAt)
		if n.Read {
			line = mutedStyle.Render(strings.Replace(line, marker, " ", 1))
		} else {
			line = badgeStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
