// Package engine orchestrates a detection run: load snapshots, diff them,
// filter candidates against the notification log, and dispatch what remains.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ecomwatch/competitor-alerts/internal/detect"
	"github.com/ecomwatch/competitor-alerts/internal/metrics"
	"github.com/ecomwatch/competitor-alerts/internal/notify"
	"github.com/ecomwatch/competitor-alerts/internal/snapshot"
	"github.com/ecomwatch/competitor-alerts/internal/store"
	domain "github.com/ecomwatch/competitor-alerts/pkg/types"
)

// Engine runs change detection over the snapshot window and dispatches
// deduplicated alerts.
type Engine struct {
	store    store.Store
	notifier notify.Notifier
	log      *slog.Logger

	products snapshot.Pair
	reviews  snapshot.Pair

	priceDropThresholdPct  float64
	negativeReviewMinCount int
	negativeRatingCeiling  int

	nowFunc func() time.Time
}

// NewEngine creates a new Engine with injected dependencies.
func NewEngine(
	s store.Store,
	n notify.Notifier,
	products snapshot.Pair,
	reviews snapshot.Pair,
	opts ...EngineOption,
) *Engine {
	eng := &Engine{
		store:                  s,
		notifier:               n,
		log:                    slog.Default(),
		products:               products,
		reviews:                reviews,
		priceDropThresholdPct:  10,
		negativeReviewMinCount: 2,
		negativeRatingCeiling:  2,
		nowFunc:                time.Now,
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithPriceDropThreshold sets the minimum qualifying drop percentage.
func WithPriceDropThreshold(pct float64) EngineOption {
	return func(e *Engine) {
		e.priceDropThresholdPct = pct
	}
}

// WithNegativeReviewGate sets the review detector's minimum candidate count
// and the highest rating still considered negative.
func WithNegativeReviewGate(minCount, ratingCeiling int) EngineOption {
	return func(e *Engine) {
		e.negativeReviewMinCount = minCount
		e.negativeRatingCeiling = ratingCeiling
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) EngineOption {
	return func(e *Engine) {
		e.nowFunc = f
	}
}

// RunSummary reports what one detection run did.
type RunSummary struct {
	PriceDropCandidates int `json:"price_drop_candidates"`
	ReviewCandidates    int `json:"review_candidates"`
	Suppressed          int `json:"suppressed"`
	Dispatched          int `json:"dispatched"`
	SendFailures        int `json:"send_failures"`
}

// RunDetection executes one full detection cycle. A dataset that cannot be
// read is skipped with a warning rather than failing the run; an unreachable
// notification log store aborts, since dispatching without the dedup record
// would re-send everything ever alerted.
func (eng *Engine) RunDetection(ctx context.Context) (*RunSummary, error) {
	metrics.DetectionRunsTotal.Inc()
	start := time.Now()
	defer func() {
		metrics.DetectionDuration.Observe(time.Since(start).Seconds())
	}()

	sent, err := eng.store.SentEventIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading sent event ids: %w", err)
	}

	summary := &RunSummary{}

	events := eng.collectPriceDrops(&summary.PriceDropCandidates)
	events = append(events, eng.collectNegativeReviews(&summary.ReviewCandidates)...)

	for i := range events {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		eng.dispatch(ctx, &events[i], sent, summary)
	}

	eng.log.Info("detection run complete",
		"price_drop_candidates", summary.PriceDropCandidates,
		"review_candidates", summary.ReviewCandidates,
		"suppressed", summary.Suppressed,
		"dispatched", summary.Dispatched,
		"send_failures", summary.SendFailures,
	)

	return summary, nil
}

func (eng *Engine) collectPriceDrops(candidates *int) []domain.Event {
	if !eng.products.HasBaseline() {
		eng.log.Info("no product baseline yet, skipping price drop detection",
			"previous", eng.products.Previous,
		)
		return nil
	}

	current, err := snapshot.ReadProducts(eng.products.Current, eng.log)
	if err != nil {
		eng.log.Error("reading current product snapshot failed, skipping dataset",
			"file", eng.products.Current, "error", err)
		return nil
	}
	previous, err := snapshot.ReadProducts(eng.products.Previous, eng.log)
	if err != nil {
		eng.log.Error("reading previous product snapshot failed, skipping dataset",
			"file", eng.products.Previous, "error", err)
		return nil
	}

	drops := detect.PriceDrops(current, previous, eng.priceDropThresholdPct)
	*candidates = len(drops)
	metrics.CandidateEventsTotal.WithLabelValues(string(domain.KindPriceDrop)).
		Add(float64(len(drops)))

	now := eng.nowFunc()
	events := make([]domain.Event, 0, len(drops))
	for _, d := range drops {
		events = append(events, priceDropEvent(d, now))
	}
	return events
}

func (eng *Engine) collectNegativeReviews(candidates *int) []domain.Event {
	if !eng.reviews.HasBaseline() {
		eng.log.Info("no review baseline yet, skipping review detection",
			"previous", eng.reviews.Previous,
		)
		return nil
	}

	current, err := snapshot.ReadReviews(eng.reviews.Current, eng.log)
	if err != nil {
		eng.log.Error("reading current review snapshot failed, skipping dataset",
			"file", eng.reviews.Current, "error", err)
		return nil
	}
	previous, err := snapshot.ReadReviews(eng.reviews.Previous, eng.log)
	if err != nil {
		eng.log.Error("reading previous review snapshot failed, skipping dataset",
			"file", eng.reviews.Previous, "error", err)
		return nil
	}

	negatives := detect.NewNegativeReviews(current, previous, eng.negativeRatingCeiling)
	*candidates = len(negatives)
	metrics.CandidateEventsTotal.WithLabelValues(string(domain.KindNegativeReview)).
		Add(float64(len(negatives)))

	// The gate counts candidates before dedup: a trickle of one new negative
	// review per run never alerts, however long it goes on.
	if len(negatives) < eng.negativeReviewMinCount {
		if len(negatives) > 0 {
			eng.log.Info("negative reviews below alert gate",
				"count", len(negatives),
				"min_count", eng.negativeReviewMinCount,
			)
		}
		return nil
	}

	now := eng.nowFunc()
	events := make([]domain.Event, 0, len(negatives))
	for i := range negatives {
		events = append(events, negativeReviewEvent(&negatives[i], now))
	}
	return events
}

// dispatch sends one event unless the log already records it. The send
// attempt comes first and the append happens regardless of the send outcome:
// a failed delivery is still recorded so the next run does not retry it,
// while a crash between send and append re-delivers (at-least-once).
func (eng *Engine) dispatch(
	ctx context.Context,
	ev *domain.Event,
	sent map[string]struct{},
	summary *RunSummary,
) {
	if _, dup := sent[ev.ID]; dup {
		summary.Suppressed++
		metrics.SuppressedDuplicatesTotal.WithLabelValues(string(ev.Kind)).Inc()
		return
	}

	sendErr := eng.notifier.SendAlert(ctx, &notify.AlertPayload{
		Kind:      ev.Kind,
		Subject:   ev.Subject,
		Body:      ev.Body,
		EventID:   ev.ID,
		Timestamp: ev.Timestamp,
	})
	if sendErr != nil {
		summary.SendFailures++
		metrics.NotificationFailuresTotal.Inc()
		eng.log.Error("alert delivery failed",
			"kind", ev.Kind, "event_id", ev.ID, "error", sendErr)
	} else {
		summary.Dispatched++
		metrics.AlertsFiredTotal.WithLabelValues(string(ev.Kind)).Inc()
	}

	if err := eng.store.Append(ctx, &domain.LogEntry{
		Timestamp: ev.Timestamp,
		Kind:      ev.Kind,
		Message:   ev.Body,
		EventID:   ev.ID,
	}); err != nil {
		eng.log.Error("appending notification log failed",
			"kind", ev.Kind, "event_id", ev.ID, "error", err)
		return
	}

	sent[ev.ID] = struct{}{}
}

// Rotate establishes the next diff window by copying each current snapshot
// over its previous counterpart. Run it after detection, once the day's
// scrape has been processed.
func (eng *Engine) Rotate() error {
	var errs []error
	if err := eng.products.Rotate(); err != nil {
		errs = append(errs, fmt.Errorf("rotating product snapshots: %w", err))
	}
	if err := eng.reviews.Rotate(); err != nil {
		errs = append(errs, fmt.Errorf("rotating review snapshots: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	eng.log.Info("snapshots rotated",
		"products", eng.products.Previous,
		"reviews", eng.reviews.Previous,
	)
	return nil
}
