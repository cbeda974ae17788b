package notify

import (
	"context"
	"errors"
)

// MultiNotifier fans an alert out to every configured backend. A failure on
// one backend does not stop delivery to the others; the joined error reports
// all failures.
type MultiNotifier struct {
	notifiers []Notifier
}

// NewMultiNotifier combines notifiers into one. With a single notifier it
// returns that notifier unwrapped.
func NewMultiNotifier(notifiers ...Notifier) Notifier {
	if len(notifiers) == 1 {
		return notifiers[0]
	}
	return &MultiNotifier{notifiers: notifiers}
}

// SendAlert delivers the alert to every backend.
func (m *MultiNotifier) SendAlert(ctx context.Context, alert *AlertPayload) error {
	var errs []error
	for _, n := range m.notifiers {
		if err := n.SendAlert(ctx, alert); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
