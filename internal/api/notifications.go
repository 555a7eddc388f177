package api

import (
	"context"
	"net/http"
)

// NotificationClient talks to the notification domain of the remote API.
type NotificationClient struct {
	client *Client
}

// NewNotificationClient wraps the shared HTTP core for notifications.
func NewNotificationClient(client *Client) *NotificationClient {
	return &NotificationClient{client: client}
}

// List fetches the full notification collection for the current user.
func (c *NotificationClient) List(ctx context.Context) ([]NotificationDTO, error) {
	notifications, err := get[[]NotificationDTO](ctx, c.client, "/notifications", true)
	if err != nil {
		return nil, err
	}
	return *notifications, nil
}

// MarkRead marks a single notification as read.
func (c *NotificationClient) MarkRead(ctx context.Context, id string) error {
	return c.client.call(ctx, http.MethodPost, "/notifications/"+id+"/read", nil, true, nil)
}

// MarkAllRead marks every notification as read.
func (c *NotificationClient) MarkAllRead(ctx context.Context) error {
	return c.client.call(ctx, http.MethodPost, "/notifications/read-all", nil, true, nil)
}
