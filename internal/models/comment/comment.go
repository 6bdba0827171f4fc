package comment

type Comment struct {
	ID              int64  `json:"id"`
	TaskID          int64  `json:"taskId,omitempty"`
	UserID          int64  `json:"userId"`
	Text            string `json:"text"`
	CreatedAt       string `json:"createdAt,omitempty"`
	ParentCommentID *int64 `json:"parentCommentId,omitempty"`
}

func (c *Comment) IsReply() bool {
	return c.ParentCommentID != nil && *c.ParentCommentID != 0
}
