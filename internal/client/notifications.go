package client

import (
	"context"
	"fmt"
	"net/http"

	"taskboard/internal/models/notification"
)

func (c *Client) ListNotifications(ctx context.Context) ([]notification.Notification, error) {
	var list []notification.Notification
	if err := c.do(ctx, http.MethodGet, "/api/notifications", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/notifications/%d/read", id), nil, nil)
}
