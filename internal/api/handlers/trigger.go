package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ecomwatch/competitor-alerts/internal/engine"
)

// DetectionRunner defines the interface for triggering a detection run.
type DetectionRunner interface {
	RunDetection(ctx context.Context) (*engine.RunSummary, error)
}

// Rotator defines the interface for rotating the snapshot window.
type Rotator interface {
	Rotate() error
}

// DetectHandler handles manual detection trigger requests.
type DetectHandler struct {
	runner DetectionRunner
}

// NewDetectHandler creates a new DetectHandler.
func NewDetectHandler(r DetectionRunner) *DetectHandler {
	return &DetectHandler{runner: r}
}

// DetectOutput is the response body for the detection trigger endpoint.
type DetectOutput struct {
	Body engine.RunSummary
}

// Detect runs one detection cycle and reports what it did.
func (h *DetectHandler) Detect(ctx context.Context, _ *struct{}) (*DetectOutput, error) {
	summary, err := h.runner.RunDetection(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("detection failed: " + err.Error())
	}

	return &DetectOutput{Body: *summary}, nil
}

// RotateHandler handles snapshot rotation requests from the scrape pipeline.
type RotateHandler struct {
	rotator Rotator
}

// NewRotateHandler creates a new RotateHandler.
func NewRotateHandler(r Rotator) *RotateHandler {
	return &RotateHandler{rotator: r}
}

// RotateOutput is the response body for the rotation endpoint.
type RotateOutput struct {
	Body struct {
		Status string `json:"status" example:"snapshots rotated" doc:"Rotation status"`
	}
}

// Rotate copies each current snapshot over its previous counterpart.
func (h *RotateHandler) Rotate(_ context.Context, _ *struct{}) (*RotateOutput, error) {
	if err := h.rotator.Rotate(); err != nil {
		return nil, huma.Error500InternalServerError("rotation failed: " + err.Error())
	}

	resp := &RotateOutput{}
	resp.Body.Status = "snapshots rotated"
	return resp, nil
}

// RegisterTriggerRoutes registers trigger endpoints with the Huma API.
func RegisterTriggerRoutes(api huma.API, detectH *DetectHandler, rotateH *RotateHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "trigger-detection",
		Method:      http.MethodPost,
		Path:        "/api/v1/detect/trigger",
		Summary:     "Trigger a detection run",
		Description: "Diffs the snapshot window, filters candidates against the " +
			"notification log, and dispatches new alerts.",
		Tags:   []string{"detection"},
		Errors: []int{http.StatusInternalServerError},
	}, detectH.Detect)

	huma.Register(api, huma.Operation{
		OperationID: "rotate-snapshots",
		Method:      http.MethodPost,
		Path:        "/api/v1/snapshots/rotate",
		Summary:     "Rotate the snapshot window",
		Description: "Copies each current snapshot over its previous counterpart. " +
			"Call after a scrape cycle has been detected against.",
		Tags:   []string{"detection"},
		Errors: []int{http.StatusInternalServerError},
	}, rotateH.Rotate)
}
