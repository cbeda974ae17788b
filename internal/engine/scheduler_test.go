package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheduler(t *testing.T) {
	t.Parallel()

	eng, _ := newFixture(t)
	s, err := NewScheduler(eng, time.Hour, discardLog())
	require.NoError(t, err)
	assert.Len(t, s.Entries(), 1)
}

func TestScheduler_StartStop(t *testing.T) {
	t.Parallel()

	eng, _ := newFixture(t)
	s, err := NewScheduler(eng, time.Hour, discardLog())
	require.NoError(t, err)

	s.Start()
	done := s.Stop()

	select {
	case <-done.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop in time")
	}
}
