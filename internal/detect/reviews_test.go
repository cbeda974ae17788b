package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/ecomwatch/competitor-alerts/pkg/types"
)

func review(productID, userID, text string, rating int) domain.ReviewRecord {
	return domain.ReviewRecord{
		ProductID:  productID,
		UserID:     userID,
		ReviewText: text,
		Rating:     rating,
		Source:     "amazon",
	}
}

func TestNewNegativeReviews_FiltersByRating(t *testing.T) {
	t.Parallel()

	current := []domain.ReviewRecord{
		review("p1", "u1", "terrible battery", 1),
		review("p1", "u2", "stopped working", 1),
		review("p1", "u3", "love it", 5),
	}

	negatives := NewNegativeReviews(current, nil, 2)
	require.Len(t, negatives, 2)
	assert.Equal(t, "u1", negatives[0].UserID)
	assert.Equal(t, "u2", negatives[1].UserID)
}

func TestNewNegativeReviews_ExistingReviewNotNew(t *testing.T) {
	t.Parallel()

	previous := []domain.ReviewRecord{review("p1", "u1", "awful", 1)}
	current := []domain.ReviewRecord{
		review("p1", "u1", "awful", 1),
		review("p1", "u2", "broke on day two", 2),
	}

	negatives := NewNegativeReviews(current, previous, 2)
	require.Len(t, negatives, 1)
	assert.Equal(t, "u2", negatives[0].UserID)
}

func TestNewNegativeReviews_RatingEditInvisible(t *testing.T) {
	t.Parallel()

	// Same (product, user, text) with a different rating is the same review.
	previous := []domain.ReviewRecord{review("p1", "u1", "meh", 4)}
	current := []domain.ReviewRecord{review("p1", "u1", "meh", 1)}

	assert.Empty(t, NewNegativeReviews(current, previous, 2))
}

func TestNewNegativeReviews_TextChangeIsNew(t *testing.T) {
	t.Parallel()

	previous := []domain.ReviewRecord{review("p1", "u1", "meh", 2)}
	current := []domain.ReviewRecord{review("p1", "u1", "meh.", 2)}

	negatives := NewNegativeReviews(current, previous, 2)
	require.Len(t, negatives, 1)
	assert.Equal(t, "meh.", negatives[0].ReviewText)
}

func TestNewNegativeReviews_DuplicateRowsCollapsed(t *testing.T) {
	t.Parallel()

	current := []domain.ReviewRecord{
		review("p1", "u1", "bad", 1),
		review("p1", "u1", "bad", 1),
		review("p1", "u1", "bad", 1),
	}

	assert.Len(t, NewNegativeReviews(current, nil, 2), 1)
}

func TestNewNegativeReviews_RatingCeiling(t *testing.T) {
	t.Parallel()

	current := []domain.ReviewRecord{
		review("p1", "u1", "one", 1),
		review("p1", "u2", "two", 2),
		review("p1", "u3", "three", 3),
		review("p1", "u4", "zero means unrated", 0),
	}

	negatives := NewNegativeReviews(current, nil, 3)
	require.Len(t, negatives, 3)
	for _, n := range negatives {
		assert.GreaterOrEqual(t, n.Rating, 1)
		assert.LessOrEqual(t, n.Rating, 3)
	}
}
