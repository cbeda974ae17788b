package handlers_test

import (
	"context"

	domain "github.com/ecomwatch/competitor-alerts/pkg/types"
)

// fakeStore is an in-memory store.Store for handler tests.
type fakeStore struct {
	entries  []domain.LogEntry
	listErr  error
	pingErr  error
	lastList int
}

func (f *fakeStore) SentEventIDs(_ context.Context) (map[string]struct{}, error) {
	ids := make(map[string]struct{}, len(f.entries))
	for _, e := range f.entries {
		ids[e.EventID] = struct{}{}
	}
	return ids, nil
}

func (f *fakeStore) Append(_ context.Context, e *domain.LogEntry) error {
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeStore) ListRecent(_ context.Context, limit int) ([]domain.LogEntry, error) {
	f.lastList = limit
	if f.listErr != nil {
		return nil, f.listErr
	}
	if limit > len(f.entries) {
		limit = len(f.entries)
	}
	out := make([]domain.LogEntry, 0, limit)
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.entries[i])
	}
	return out, nil
}

func (f *fakeStore) Ping(_ context.Context) error { return f.pingErr }
func (f *fakeStore) Close() error                 { return nil }
