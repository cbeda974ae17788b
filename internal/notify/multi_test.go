package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/ecomwatch/competitor-alerts/pkg/types"
)

type recordingNotifier struct {
	sent []AlertPayload
	err  error
}

func (r *recordingNotifier) SendAlert(_ context.Context, alert *AlertPayload) error {
	r.sent = append(r.sent, *alert)
	return r.err
}

func TestMultiNotifier_FanOut(t *testing.T) {
	t.Parallel()

	a := &recordingNotifier{}
	b := &recordingNotifier{}
	m := NewMultiNotifier(a, b)

	alert := testAlert(domain.KindPriceDrop)
	require.NoError(t, m.SendAlert(context.Background(), &alert))

	assert.Len(t, a.sent, 1)
	assert.Len(t, b.sent, 1)
}

func TestMultiNotifier_OneFailureDoesNotStopOthers(t *testing.T) {
	t.Parallel()

	failing := &recordingNotifier{err: errors.New("smtp down")}
	working := &recordingNotifier{}
	m := NewMultiNotifier(failing, working)

	alert := testAlert(domain.KindNegativeReview)
	err := m.SendAlert(context.Background(), &alert)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp down")
	assert.Len(t, working.sent, 1, "second backend still receives the alert")
}

func TestNewMultiNotifier_SingleUnwrapped(t *testing.T) {
	t.Parallel()

	only := &recordingNotifier{}
	assert.Same(t, Notifier(only), NewMultiNotifier(only))
}
