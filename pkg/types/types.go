// Package domain defines the core business types for competitor-alerts.
package domain

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"strconv"
	"time"
)

// EventKind represents the category of a detected change.
type EventKind string

// Event kind constants. The values double as the "type" column of the
// notification feed, so they must stay stable across releases.
const (
	KindPriceDrop      EventKind = "price_drop"
	KindNegativeReview EventKind = "negative_review"
)

// ProductRecord is one row of a product snapshot. A snapshot holds one row
// per (ProductID, Source) pair.
type ProductRecord struct {
	ProductID       string  `json:"product_id"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DiscountPercent float64 `json:"discount_percent"`
	Rating          float64 `json:"rating"`
	Source          string  `json:"source"`
}

// ReviewRecord is one row of a review snapshot. Reviews carry no upstream
// identifier; identity for change detection is the composite
// (ProductID, UserID, ReviewText). Rating is deliberately not part of the
// identity: a review whose rating was edited without changing the text is
// invisible to the detector.
type ReviewRecord struct {
	ProductID  string    `json:"product_id"`
	UserID     string    `json:"user_id"`
	ReviewText string    `json:"review_text"`
	Rating     int       `json:"rating"`
	Date       time.Time `json:"date"`
	Source     string    `json:"source"`
}

// Key returns the composite identity used for the review anti-join.
func (r *ReviewRecord) Key() ReviewKey {
	return ReviewKey{ProductID: r.ProductID, UserID: r.UserID, ReviewText: r.ReviewText}
}

// ReviewKey is the comparable identity of a review.
type ReviewKey struct {
	ProductID  string
	UserID     string
	ReviewText string
}

// Event is a detected change that may be dispatched as an alert. ID is the
// idempotency key: recomputing it from the same underlying record state on a
// later run yields the same value, which is what makes deduplication correct.
type Event struct {
	Kind      EventKind `json:"kind"`
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}

// LogEntry is one persisted row of the notification log. The log is
// append-only and serves both as the dedup record and as the feed the
// dashboard renders.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp" db:"sent_at"`
	Kind      EventKind `json:"type"      db:"kind"`
	Message   string    `json:"message"   db:"message"`
	EventID   string    `json:"unique_id" db:"event_id"`
}

// PriceDropEventID derives the deterministic event ID for a price drop.
// The (old, new) price pair is part of the identity, so a product dropping
// twice (old→mid→new) yields two distinct events.
func PriceDropEventID(productID string, oldPrice, newPrice float64) string {
	return eventID(
		string(KindPriceDrop),
		productID,
		strconv.FormatFloat(oldPrice, 'f', -1, 64),
		strconv.FormatFloat(newPrice, 'f', -1, 64),
	)
}

// NegativeReviewEventID derives the deterministic event ID for a newly
// appeared negative review.
func NegativeReviewEventID(productID, userID, reviewText string) string {
	return eventID(string(KindNegativeReview), productID, userID, reviewText)
}

// eventID hashes the identity fields with a length-prefixed encoding.
// Joining with a plain separator would let crafted field values collide
// ("a|b"+"c" vs "a"+"b|c").
func eventID(fields ...string) string {
	h := sha256.New()
	var lenBuf [8]byte
	for _, f := range fields {
		binary.BigEndian.PutUint64(lenBuf[:], uint64(len(f)))
		h.Write(lenBuf[:])
		h.Write([]byte(f))
	}
	return hex.EncodeToString(h.Sum(nil))[:32]
}
