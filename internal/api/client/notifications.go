package client

import (
	"context"
	"fmt"

	"github.com/ecomwatch/competitor-alerts/internal/engine"
	domain "github.com/ecomwatch/competitor-alerts/pkg/types"
)

// ListNotifications returns the newest notification log entries.
func (c *Client) ListNotifications(ctx context.Context, limit int) ([]domain.LogEntry, error) {
	var entries []domain.LogEntry
	path := "/api/v1/notifications"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}
	if err := c.get(ctx, path, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// TriggerDetection runs one detection cycle on the server.
func (c *Client) TriggerDetection(ctx context.Context) (*engine.RunSummary, error) {
	var summary engine.RunSummary
	if err := c.post(ctx, "/api/v1/detect/trigger", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// RotateSnapshots rotates the snapshot window on the server.
func (c *Client) RotateSnapshots(ctx context.Context) error {
	return c.post(ctx, "/api/v1/snapshots/rotate", nil, nil)
}
