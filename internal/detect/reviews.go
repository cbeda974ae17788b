package detect

import (
	domain "github.com/ecomwatch/competitor-alerts/pkg/types"
)

// NewNegativeReviews returns the reviews that appear in the current snapshot
// but not in the previous one and carry a rating at or below ratingCeiling.
//
// Review data is append-only upstream, so the anti-join isolates what was
// added since the last rotation. Both sides are de-duplicated on the
// composite (product_id, user_id, review_text) key first: accidental exact
// duplicate rows must not manufacture phantom "new" reviews. Ratings are not
// part of the key, so a rating edit on unchanged text is invisible.
func NewNegativeReviews(current, previous []domain.ReviewRecord, ratingCeiling int) []domain.ReviewRecord {
	known := make(map[domain.ReviewKey]struct{}, len(previous))
	for _, r := range previous {
		known[r.Key()] = struct{}{}
	}

	var negatives []domain.ReviewRecord
	seen := make(map[domain.ReviewKey]struct{}, len(current))
	for _, r := range current {
		key := r.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if _, existed := known[key]; existed {
			continue
		}
		if r.Rating >= 1 && r.Rating <= ratingCeiling {
			negatives = append(negatives, r)
		}
	}

	return negatives
}
