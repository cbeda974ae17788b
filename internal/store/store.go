// Package store persists the notification log. The log is append-only and
// plays two roles: it is the dedup record consulted before any alert is
// sent, and it is the feed the dashboard reads. The engine depends on the
// Store interface, never on a concrete backend.
package store

import (
	"context"

	domain "github.com/ecomwatch/competitor-alerts/pkg/types"
)

// DefaultFeedLimit caps ListRecent when the caller passes no limit.
const DefaultFeedLimit = 50

// Store defines the notification log operations.
type Store interface {
	// SentEventIDs returns the set of every event ID ever logged. A missing
	// or empty backing store yields an empty set, not an error: an
	// unreadable log means "no prior sends" by design, trading duplicate
	// risk for availability.
	SentEventIDs(ctx context.Context) (map[string]struct{}, error)

	// Append durably records one entry. Entries are never mutated or
	// deleted. Append happens after the send attempt, so a crash between
	// send and append re-delivers on the next run (at-least-once).
	Append(ctx context.Context, e *domain.LogEntry) error

	// ListRecent returns up to limit entries, newest first.
	ListRecent(ctx context.Context, limit int) ([]domain.LogEntry, error)

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
