// Package snapshot reads the scraper's flat-file product and review
// snapshots and manages the two-generation (current/previous) window the
// detectors diff against.
package snapshot

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ecomwatch/competitor-alerts/internal/metrics"
	domain "github.com/ecomwatch/competitor-alerts/pkg/types"
)

// Product snapshot columns. Columns are matched by header name, so the
// scraper may emit them in any order and append extra columns freely.
const (
	colProductID       = "product_id"
	colName            = "name"
	colPrice           = "price"
	colDiscountPercent = "discount_percent"
	colRating          = "rating"
	colSource          = "source"
	colUserID          = "user_id"
	colReviewText      = "review_text"
	colDate            = "date"
)

// Review dates arrive in whatever shape the marketplace renders them.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"02/01/2006",
}

// ReadProducts loads a product snapshot. Malformed rows are skipped with a
// warning; only an unreadable file or header is an error.
func ReadProducts(path string, log *slog.Logger) ([]domain.ProductRecord, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	if err := header.require(colProductID, colPrice); err != nil {
		return nil, fmt.Errorf("product snapshot %s: %w", path, err)
	}

	products := make([]domain.ProductRecord, 0, len(rows))
	for i, row := range rows {
		p, err := parseProduct(row, header)
		if err != nil {
			log.Warn("skipping malformed product row",
				"file", path,
				"line", i+2, // 1-based, after the header
				"error", err,
			)
			metrics.SnapshotRowsSkippedTotal.WithLabelValues("products").Inc()
			continue
		}
		products = append(products, p)
	}

	return products, nil
}

// ReadReviews loads a review snapshot with the same row-level tolerance as
// ReadProducts.
func ReadReviews(path string, log *slog.Logger) ([]domain.ReviewRecord, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	if err := header.require(colProductID, colUserID, colReviewText, colRating); err != nil {
		return nil, fmt.Errorf("review snapshot %s: %w", path, err)
	}

	reviews := make([]domain.ReviewRecord, 0, len(rows))
	for i, row := range rows {
		r, err := parseReview(row, header)
		if err != nil {
			log.Warn("skipping malformed review row",
				"file", path,
				"line", i+2,
				"error", err,
			)
			metrics.SnapshotRowsSkippedTotal.WithLabelValues("reviews").Inc()
			continue
		}
		reviews = append(reviews, r)
	}

	return reviews, nil
}

// columnIndex maps header names to positions.
type columnIndex map[string]int

func (c columnIndex) require(names ...string) error {
	for _, n := range names {
		if _, ok := c[n]; !ok {
			return fmt.Errorf("missing required column %q", n)
		}
	}
	return nil
}

// get returns the trimmed cell value, or "" when the row is too short.
func (c columnIndex) get(row []string, name string) string {
	idx, ok := c[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func readCSV(path string) ([][]string, columnIndex, error) {
	f, err := os.Open(path) //nolint:gosec // snapshot paths come from config
	if err != nil {
		return nil, nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows handled per-row

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("snapshot %s has no header row", path)
	}

	header := make(columnIndex, len(records[0]))
	for i, name := range records[0] {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}

	return records[1:], header, nil
}

func parseProduct(row []string, header columnIndex) (domain.ProductRecord, error) {
	id := header.get(row, colProductID)
	if id == "" {
		return domain.ProductRecord{}, fmt.Errorf("empty product_id")
	}

	price, err := strconv.ParseFloat(header.get(row, colPrice), 64)
	if err != nil {
		return domain.ProductRecord{}, fmt.Errorf("unparseable price %q", header.get(row, colPrice))
	}

	// Discount and rating are informational; a bad value degrades to zero
	// rather than dropping the row.
	discount, _ := strconv.ParseFloat(header.get(row, colDiscountPercent), 64)
	rating, _ := strconv.ParseFloat(header.get(row, colRating), 64)

	return domain.ProductRecord{
		ProductID:       id,
		Name:            header.get(row, colName),
		Price:           price,
		DiscountPercent: discount,
		Rating:          rating,
		Source:          header.get(row, colSource),
	}, nil
}

func parseReview(row []string, header columnIndex) (domain.ReviewRecord, error) {
	id := header.get(row, colProductID)
	if id == "" {
		return domain.ReviewRecord{}, fmt.Errorf("empty product_id")
	}

	text := header.get(row, colReviewText)
	if text == "" {
		return domain.ReviewRecord{}, fmt.Errorf("empty review_text")
	}

	rating, err := strconv.Atoi(header.get(row, colRating))
	if err != nil {
		return domain.ReviewRecord{}, fmt.Errorf("unparseable rating %q", header.get(row, colRating))
	}

	return domain.ReviewRecord{
		ProductID:  id,
		UserID:     header.get(row, colUserID),
		ReviewText: text,
		Rating:     rating,
		Date:       parseDate(header.get(row, colDate)),
		Source:     header.get(row, colSource),
	}, nil
}

// parseDate tries the known layouts and falls back to the zero time. The
// date is display-only; it is not part of the review identity.
func parseDate(s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
