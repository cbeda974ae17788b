package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ecomwatch/competitor-alerts/internal/store"
	domain "github.com/ecomwatch/competitor-alerts/pkg/types"
)

// NotificationsHandler serves the notification feed the dashboard renders.
type NotificationsHandler struct {
	store store.Store
}

// NewNotificationsHandler creates a new NotificationsHandler.
func NewNotificationsHandler(s store.Store) *NotificationsHandler {
	return &NotificationsHandler{store: s}
}

// ListNotificationsInput is the input for listing recent notifications.
type ListNotificationsInput struct {
	Limit int `query:"limit" default:"50" minimum:"1" maximum:"500" doc:"Maximum entries to return, newest first"`
}

// ListNotificationsOutput is the response for listing recent notifications.
type ListNotificationsOutput struct {
	Body []domain.LogEntry
}

// ListNotifications returns the newest notification log entries.
func (h *NotificationsHandler) ListNotifications(
	ctx context.Context,
	input *ListNotificationsInput,
) (*ListNotificationsOutput, error) {
	entries, err := h.store.ListRecent(ctx, input.Limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list notifications: " + err.Error())
	}

	if entries == nil {
		entries = []domain.LogEntry{}
	}

	return &ListNotificationsOutput{Body: entries}, nil
}

// RegisterNotificationRoutes registers the feed endpoint with the Huma API.
func RegisterNotificationRoutes(api huma.API, h *NotificationsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-notifications",
		Method:      http.MethodGet,
		Path:        "/api/v1/notifications",
		Summary:     "List recent notifications",
		Description: "Returns the newest entries of the notification log, the same records the dedup filter consults.",
		Tags:        []string{"notifications"},
	}, h.ListNotifications)
}
