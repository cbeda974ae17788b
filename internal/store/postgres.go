package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/ecomwatch/competitor-alerts/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
// Unlike the CSV backend it is safe under concurrent detection runs, since the
// dedup read and the append both go through the same database.
//
// TODO(test): PostgresStore methods require live Postgres, tested via integration tests.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// PostgresOption configures a PostgresStore.
type PostgresOption func(*pgxpool.Config)

// WithPoolSize overrides the maximum number of pooled connections.
func WithPoolSize(n int) PostgresOption {
	return func(cfg *pgxpool.Config) {
		if n > 0 {
			cfg.MaxConns = int32(n)
		}
	}
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string, opts ...PostgresOption) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize
	for _, opt := range opts {
		opt(cfg)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// SentEventIDs returns every distinct event ID in the notification log.
func (s *PostgresStore) SentEventIDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.pool.Query(ctx, querySentEventIDs)
	if err != nil {
		return nil, fmt.Errorf("querying sent event ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning event id: %w", err)
		}
		ids[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating event ids: %w", err)
	}

	return ids, nil
}

// Append inserts one notification log entry. Duplicate event IDs are allowed;
// the log records sends, the engine decides what to suppress.
func (s *PostgresStore) Append(ctx context.Context, e *domain.LogEntry) error {
	args := pgx.NamedArgs{
		"sent_at":  e.Timestamp.UTC(),
		"kind":     string(e.Kind),
		"message":  e.Message,
		"event_id": e.EventID,
	}

	if _, err := s.pool.Exec(ctx, queryAppendNotification, args); err != nil {
		return fmt.Errorf("inserting notification: %w", err)
	}
	return nil
}

// ListRecent returns up to limit entries, newest first. limit <= 0 falls back
// to DefaultFeedLimit.
func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]domain.LogEntry, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}

	rows, err := s.pool.Query(ctx, queryListRecent, limit)
	if err != nil {
		return nil, fmt.Errorf("querying notifications: %w", err)
	}
	defer rows.Close()

	entries := []domain.LogEntry{}
	for rows.Next() {
		var e domain.LogEntry
		var sentAt time.Time
		if err := rows.Scan(&sentAt, &e.Kind, &e.Message, &e.EventID); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}
		e.Timestamp = sentAt.UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notifications: %w", err)
	}

	return entries, nil
}
