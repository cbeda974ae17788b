// Package notify defines the notification interface and implementations
// for alert delivery.
package notify

import (
	"context"
	"time"

	domain "github.com/ecomwatch/competitor-alerts/pkg/types"
)

// AlertPayload contains the data needed to deliver one alert.
type AlertPayload struct {
	Kind      domain.EventKind
	Subject   string
	Body      string
	EventID   string
	Timestamp time.Time
}

// Notifier defines the interface for sending alert notifications.
// Implementations must be safe for use from a single detection run;
// they are not required to dedup, the engine does that.
type Notifier interface {
	SendAlert(ctx context.Context, alert *AlertPayload) error
}
