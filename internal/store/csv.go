package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	domain "github.com/ecomwatch/competitor-alerts/pkg/types"
)

// feedHeader is the column layout of the notification feed file. The
// dashboard parses it by these names; keep them stable.
var feedHeader = []string{"timestamp", "type", "message", "unique_id"}

// CSVStore implements Store over a single append-only CSV file. It is the
// default backend and assumes at most one detection run in flight at a time;
// concurrent runs can race between reading and appending the log.
type CSVStore struct {
	path string
	log  *slog.Logger
}

// NewCSVStore creates a CSVStore. The file is created lazily on first
// append so an empty deployment still has a valid (absent) feed.
func NewCSVStore(path string, log *slog.Logger) *CSVStore {
	return &CSVStore{path: path, log: log}
}

// SentEventIDs reads the whole log and collects the unique_id column.
// Missing file, empty file, and unreadable rows all degrade to "not sent".
func (s *CSVStore) SentEventIDs(_ context.Context) (map[string]struct{}, error) {
	ids := make(map[string]struct{})

	entries, err := s.readAll()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ids, nil
		}
		s.log.Warn("notification log unreadable, treating as empty", "path", s.path, "error", err)
		return ids, nil
	}

	for _, e := range entries {
		ids[e.EventID] = struct{}{}
	}
	return ids, nil
}

// Append writes one entry and syncs the file before returning.
func (s *CSVStore) Append(_ context.Context, e *domain.LogEntry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("creating notification log directory: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o640) //nolint:gosec // path from config
	if err != nil {
		return fmt.Errorf("opening notification log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("statting notification log: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(feedHeader); err != nil {
			return fmt.Errorf("writing feed header: %w", err)
		}
	}

	record := []string{
		e.Timestamp.UTC().Format(time.RFC3339),
		string(e.Kind),
		e.Message,
		e.EventID,
	}
	if err := w.Write(record); err != nil {
		return fmt.Errorf("writing notification entry: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing notification log: %w", err)
	}

	if err := f.Sync(); err != nil {
		return fmt.Errorf("syncing notification log: %w", err)
	}

	return nil
}

// ListRecent returns the newest entries first. limit <= 0 falls back to
// DefaultFeedLimit.
func (s *CSVStore) ListRecent(_ context.Context, limit int) ([]domain.LogEntry, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}

	entries, err := s.readAll()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []domain.LogEntry{}, nil
		}
		return nil, err
	}

	// File order is write order; reverse for newest-first.
	if len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	return entries, nil
}

// Ping checks that the log's directory is accessible. The file itself may
// legitimately not exist yet.
func (s *CSVStore) Ping(_ context.Context) error {
	_, err := os.Stat(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("notification log inaccessible: %w", err)
	}
	return nil
}

// Close is a no-op; the file is opened per operation.
func (s *CSVStore) Close() error { return nil }

func (s *CSVStore) readAll() ([]domain.LogEntry, error) {
	f, err := os.Open(s.path) //nolint:gosec // path from config
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var entries []domain.LogEntry
	first := true
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A corrupt row loses that row, not the log.
			s.log.Warn("skipping corrupt notification log row", "path", s.path, "error", err)
			continue
		}

		if first {
			first = false
			continue // header
		}
		if len(record) < 4 {
			s.log.Warn("skipping short notification log row", "path", s.path, "fields", len(record))
			continue
		}

		ts, err := time.Parse(time.RFC3339, record[0])
		if err != nil {
			s.log.Warn("skipping notification log row with bad timestamp", "path", s.path, "value", record[0])
			continue
		}

		entries = append(entries, domain.LogEntry{
			Timestamp: ts,
			Kind:      domain.EventKind(record[1]),
			Message:   record[2],
			EventID:   record[3],
		})
	}

	return entries, nil
}
