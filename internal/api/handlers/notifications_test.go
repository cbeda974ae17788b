package handlers_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecomwatch/competitor-alerts/internal/api/handlers"
	domain "github.com/ecomwatch/competitor-alerts/pkg/types"
)

func feedEntry(id string) domain.LogEntry {
	return domain.LogEntry{
		Timestamp: time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC),
		Kind:      domain.KindPriceDrop,
		Message:   "Price drop on " + id,
		EventID:   id,
	}
}

func TestListNotifications(t *testing.T) {
	t.Parallel()

	s := &fakeStore{entries: []domain.LogEntry{feedEntry("e1"), feedEntry("e2")}}
	h := handlers.NewNotificationsHandler(s)

	_, api := humatest.New(t)
	handlers.RegisterNotificationRoutes(api, h)

	resp := api.Get("/api/v1/notifications?limit=10")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"unique_id":"e2"`)
	assert.Contains(t, resp.Body.String(), `"unique_id":"e1"`)
	assert.Equal(t, 10, s.lastList)
}

func TestListNotifications_DefaultLimit(t *testing.T) {
	t.Parallel()

	s := &fakeStore{}
	h := handlers.NewNotificationsHandler(s)

	_, api := humatest.New(t)
	handlers.RegisterNotificationRoutes(api, h)

	resp := api.Get("/api/v1/notifications")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 50, s.lastList)
	assert.JSONEq(t, `[]`, resp.Body.String())
}

func TestListNotifications_StoreError(t *testing.T) {
	t.Parallel()

	s := &fakeStore{listErr: errors.New("backend unavailable")}
	h := handlers.NewNotificationsHandler(s)

	_, api := humatest.New(t)
	handlers.RegisterNotificationRoutes(api, h)

	resp := api.Get("/api/v1/notifications")
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "failed to list notifications")
}

func TestListNotifications_LimitValidation(t *testing.T) {
	t.Parallel()

	h := handlers.NewNotificationsHandler(&fakeStore{})

	_, api := humatest.New(t)
	handlers.RegisterNotificationRoutes(api, h)

	resp := api.Get("/api/v1/notifications?limit=0")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}
