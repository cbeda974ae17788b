package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ecomwatch/competitor-alerts/internal/config"
	"github.com/ecomwatch/competitor-alerts/internal/engine"
	"github.com/ecomwatch/competitor-alerts/internal/notify"
	"github.com/ecomwatch/competitor-alerts/internal/snapshot"
	"github.com/ecomwatch/competitor-alerts/internal/store"
)

// buildStore constructs the configured notification log backend.
func buildStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (store.Store, error) {
	switch cfg.Store.Backend {
	case "postgres":
		s, err := store.NewPostgresStore(ctx, cfg.Store.Database.DSN(),
			store.WithPoolSize(cfg.Store.Database.PoolSize))
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		return s, nil
	default:
		return store.NewCSVStore(cfg.Store.CSV.NotificationsFile, log), nil
	}
}

// buildNotifier assembles the configured delivery backends behind one
// rate-limited Notifier. With nothing enabled, alerts are logged and
// discarded but the notification log still fills.
func buildNotifier(cfg *config.Config, log *slog.Logger) (notify.Notifier, error) {
	var backends []notify.Notifier

	if cfg.Notifications.Email.Enabled {
		email := cfg.Notifications.Email
		n, err := notify.NewEmailNotifier(
			email.Host, email.Port, email.Username, email.Password,
			email.From, email.To,
		)
		if err != nil {
			return nil, fmt.Errorf("configuring email notifier: %w", err)
		}
		backends = append(backends, n)
	}

	if cfg.Notifications.Discord.Enabled {
		backends = append(backends, notify.NewDiscordNotifier(cfg.Notifications.Discord.WebhookURL))
	}

	if len(backends) == 0 {
		log.Warn("no notification backend enabled, alerts will only be logged")
		return notify.NewNoOpNotifier(log), nil
	}

	return notify.NewRateLimitedNotifier(
		notify.NewMultiNotifier(backends...),
		cfg.Notifications.Rate.PerSecond,
		cfg.Notifications.Rate.Burst,
	), nil
}

// buildEngine wires the detection engine from config.
func buildEngine(cfg *config.Config, s store.Store, n notify.Notifier, log *slog.Logger) *engine.Engine {
	products := snapshot.Pair{
		Current:  cfg.Snapshots.ProductsCurrent,
		Previous: cfg.Snapshots.ProductsPrevious,
	}
	reviews := snapshot.Pair{
		Current:  cfg.Snapshots.ReviewsCurrent,
		Previous: cfg.Snapshots.ReviewsPrevious,
	}

	return engine.NewEngine(s, n, products, reviews,
		engine.WithLogger(log),
		engine.WithPriceDropThreshold(cfg.Detectors.PriceDropThresholdPct),
		engine.WithNegativeReviewGate(
			cfg.Detectors.NegativeReviewMinCount,
			cfg.Detectors.NegativeRatingCeiling,
		),
	)
}
