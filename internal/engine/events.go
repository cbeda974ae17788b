package engine

import (
	"fmt"
	"time"

	"github.com/ecomwatch/competitor-alerts/internal/detect"
	domain "github.com/ecomwatch/competitor-alerts/pkg/types"
)

func priceDropEvent(d detect.PriceDrop, now time.Time) domain.Event {
	name := d.Product.Name
	if name == "" {
		name = d.Product.ProductID
	}

	return domain.Event{
		Kind:    domain.KindPriceDrop,
		ID:      d.EventID(),
		Subject: fmt.Sprintf("Price drop: %s", name),
		Body: fmt.Sprintf(
			"%s (%s) dropped from %.2f to %.2f (-%.1f%%)",
			name, d.Product.ProductID, d.OldPrice, d.NewPrice, d.DropPercent,
		),
		Timestamp: now,
	}
}

func negativeReviewEvent(r *domain.ReviewRecord, now time.Time) domain.Event {
	return domain.Event{
		Kind:    domain.KindNegativeReview,
		ID:      domain.NegativeReviewEventID(r.ProductID, r.UserID, r.ReviewText),
		Subject: fmt.Sprintf("Negative review on %s", r.ProductID),
		Body: fmt.Sprintf(
			"%s rated %s %d/5: %q",
			r.UserID, r.ProductID, r.Rating, r.ReviewText,
		),
		Timestamp: now,
	}
}
