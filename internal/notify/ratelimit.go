package notify

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimitedNotifier wraps a Notifier with a token bucket so a burst of
// detected events does not hammer the delivery backend (webhook endpoints
// and SMTP relays both throttle aggressively).
type RateLimitedNotifier struct {
	next    Notifier
	limiter *rate.Limiter
}

// NewRateLimitedNotifier creates a rate-limited wrapper around next with the
// given per-second rate and burst size.
func NewRateLimitedNotifier(next Notifier, perSecond float64, burst int) *RateLimitedNotifier {
	return &RateLimitedNotifier{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// SendAlert blocks until the limiter allows the send, then delegates.
func (r *RateLimitedNotifier) SendAlert(ctx context.Context, alert *AlertPayload) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}
	return r.next.SendAlert(ctx, alert)
}
