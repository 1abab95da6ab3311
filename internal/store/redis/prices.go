package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	// priceHistoryMaxPoints caps the per-listing price history
	priceHistoryMaxPoints = 100
)

// PricePoint is one observed price for a listing.
type PricePoint struct {
	Price float64   `json:"price"`
	At    time.Time `json:"at"`
}

// RecordPrice appends an observed price to the listing's capped history.
func (s *Store) RecordPrice(ctx context.Context, listingID string, price float64) error {
	point := PricePoint{Price: price, At: time.Now()}
	data, err := json.Marshal(point)
	if err != nil {
		return fmt.Errorf("failed to marshal price point: %w", err)
	}

	key := PriceHistoryKey(listingID)

	pipe := s.client.Pipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, priceHistoryMaxPoints-1)
	pipe.Expire(ctx, key, DefaultListingTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record price: %w", err)
	}

	return nil
}

// PriceHistory returns up to n observed prices for a listing, newest first.
func (s *Store) PriceHistory(ctx context.Context, listingID string, n int) ([]PricePoint, error) {
	if n <= 0 {
		return []PricePoint{}, nil
	}

	raw, err := s.client.LRange(ctx, PriceHistoryKey(listingID), 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get price history: %w", err)
	}

	points := make([]PricePoint, 0, len(raw))
	for _, entry := range raw {
		var point PricePoint
		if err := json.Unmarshal([]byte(entry), &point); err != nil {
			continue
		}
		points = append(points, point)
	}

	return points, nil
}
