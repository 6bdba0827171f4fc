package comments

import "taskboard/internal/models/comment"

// Namer resolves a user id to a display name.
type Namer interface {
	Name(id *int64) string
}

// Row is one line of the flat comment list. Replies carry a quote of their
// parent instead of being nested under it.
type Row struct {
	comment.Comment
	Author       string `json:"author"`
	ParentAuthor string `json:"parentAuthor,omitempty"`
	ParentText   string `json:"parentText,omitempty"`
}

func Rows(list []comment.Comment, names Namer) []Row {
	byID := make(map[int64]comment.Comment, len(list))
	for _, c := range list {
		byID[c.ID] = c
	}

	rows := make([]Row, 0, len(list))
	for _, c := range list {
		author := c.UserID
		row := Row{Comment: c, Author: names.Name(&author)}
		if c.IsReply() {
			if parent, ok := byID[*c.ParentCommentID]; ok {
				parentAuthor := parent.UserID
				row.ParentAuthor = names.Name(&parentAuthor)
				row.ParentText = parent.Text
			}
		}
		rows = append(rows, row)
	}
	return rows
}
