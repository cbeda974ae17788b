package store

// SQL queries for the Postgres notification log.
const (
	queryAppendNotification = `
		INSERT INTO notifications (sent_at, kind, message, event_id)
		VALUES (@sent_at, @kind, @message, @event_id)`

	querySentEventIDs = `
		SELECT DISTINCT event_id FROM notifications`

	queryListRecent = `
		SELECT sent_at, kind, message, event_id
		FROM notifications
		ORDER BY sent_at DESC
		LIMIT $1`
)
