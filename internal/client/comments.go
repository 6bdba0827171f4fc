package client

import (
	"context"
	"fmt"
	"net/http"

	"taskboard/internal/models/comment"
)

func (c *Client) ListComments(ctx context.Context, taskID int64) ([]comment.Comment, error) {
	var comments []comment.Comment
	if err := c.do(ctx, http.MethodGet, taskPath(taskID)+"/comments", nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CreateComment posts a comment; parent is set for replies.
func (c *Client) CreateComment(ctx context.Context, taskID int64, text string, parent *int64) (*comment.Comment, error) {
	var created comment.Comment
	req := CommentRequest{Text: text, ParentCommentID: parent}
	if err := c.do(ctx, http.MethodPost, taskPath(taskID)+"/comments", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateComment(ctx context.Context, commentID int64, text string) error {
	return c.do(ctx, http.MethodPatch, commentPath(commentID), CommentRequest{Text: text}, nil)
}

func (c *Client) DeleteComment(ctx context.Context, commentID int64) error {
	return c.do(ctx, http.MethodDelete, commentPath(commentID), nil, nil)
}

func commentPath(id int64) string {
	return fmt.Sprintf("/api/comments/%d", id)
}
