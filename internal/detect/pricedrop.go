// Package detect holds the pure snapshot-diff detectors. Detectors produce
// candidates only; the engine filters them against the notification log.
package detect

import (
	domain "github.com/ecomwatch/competitor-alerts/pkg/types"
)

// PriceDrop is a qualifying price-drop candidate.
type PriceDrop struct {
	Product     domain.ProductRecord // the current-generation row
	OldPrice    float64
	NewPrice    float64
	DropPercent float64
}

// EventID returns the deterministic identity of this drop. The exact
// (old, new) pair is part of the identity so repeated drops of the same
// product alert again.
func (d PriceDrop) EventID() string {
	return domain.PriceDropEventID(d.Product.ProductID, d.OldPrice, d.NewPrice)
}

// PriceDrops inner-joins the current and previous product snapshots on
// product_id and returns every drop at or above thresholdPct percent.
//
// Products present on only one side are ignored: a new product has no
// baseline, a delisted one has no current price. Rises and sub-threshold
// drops leave no trace. A previous price of zero (or less) makes the
// percentage undefined and the pair is skipped.
func PriceDrops(current, previous []domain.ProductRecord, thresholdPct float64) []PriceDrop {
	baseline := make(map[string]domain.ProductRecord, len(previous))
	for _, p := range previous {
		// First occurrence wins when a snapshot carries duplicate IDs.
		if _, ok := baseline[p.ProductID]; !ok {
			baseline[p.ProductID] = p
		}
	}

	var drops []PriceDrop
	seen := make(map[string]struct{}, len(current))
	for _, p := range current {
		if _, dup := seen[p.ProductID]; dup {
			continue
		}
		seen[p.ProductID] = struct{}{}

		old, ok := baseline[p.ProductID]
		if !ok {
			continue
		}
		if old.Price <= 0 {
			continue
		}

		dropPct := (old.Price - p.Price) / old.Price * 100
		if dropPct >= thresholdPct {
			drops = append(drops, PriceDrop{
				Product:     p,
				OldPrice:    old.Price,
				NewPrice:    p.Price,
				DropPercent: dropPct,
			})
		}
	}

	return drops
}
