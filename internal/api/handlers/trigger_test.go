package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecomwatch/competitor-alerts/internal/api/handlers"
	"github.com/ecomwatch/competitor-alerts/internal/engine"
)

// fakeRunner implements DetectionRunner for testing.
type fakeRunner struct {
	summary *engine.RunSummary
	err     error
	called  bool
}

func (f *fakeRunner) RunDetection(_ context.Context) (*engine.RunSummary, error) {
	f.called = true
	return f.summary, f.err
}

// fakeRotator implements Rotator for testing.
type fakeRotator struct {
	err    error
	called bool
}

func (f *fakeRotator) Rotate() error {
	f.called = true
	return f.err
}

func TestDetectHandler_Success(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{summary: &engine.RunSummary{Dispatched: 3, Suppressed: 1}}
	h := handlers.NewDetectHandler(r)

	_, api := humatest.New(t)
	handlers.RegisterTriggerRoutes(api, h, handlers.NewRotateHandler(&fakeRotator{}))

	resp := api.Post("/api/v1/detect/trigger")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, r.called)
	assert.Contains(t, resp.Body.String(), `"dispatched":3`)
	assert.Contains(t, resp.Body.String(), `"suppressed":1`)
}

func TestDetectHandler_Error(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{err: errors.New("store unreachable")}
	h := handlers.NewDetectHandler(r)

	_, api := humatest.New(t)
	handlers.RegisterTriggerRoutes(api, h, handlers.NewRotateHandler(&fakeRotator{}))

	resp := api.Post("/api/v1/detect/trigger")
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "detection failed")
}

func TestRotateHandler_Success(t *testing.T) {
	t.Parallel()

	rot := &fakeRotator{}
	h := handlers.NewRotateHandler(rot)

	_, api := humatest.New(t)
	handlers.RegisterTriggerRoutes(api, handlers.NewDetectHandler(&fakeRunner{summary: &engine.RunSummary{}}), h)

	resp := api.Post("/api/v1/snapshots/rotate")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, rot.called)
	assert.Contains(t, resp.Body.String(), "snapshots rotated")
}

func TestRotateHandler_Error(t *testing.T) {
	t.Parallel()

	rot := &fakeRotator{err: errors.New("disk full")}
	h := handlers.NewRotateHandler(rot)

	_, api := humatest.New(t)
	handlers.RegisterTriggerRoutes(api, handlers.NewDetectHandler(&fakeRunner{summary: &engine.RunSummary{}}), h)

	resp := api.Post("/api/v1/snapshots/rotate")
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "rotation failed")
}
