package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/scout/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultListingTTL is the default TTL for catalog listings (7 days).
	// The refresh job rewrites live listings well before expiry, so an
	// expired key means the listing stopped appearing in fetch results.
	DefaultListingTTL = 7 * 24 * time.Hour
)

// Store handles Redis persistence for the product catalog, search
// history and price tracking.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// SaveListing stores a catalog listing in Redis. Listings without an
// identifier get a deterministic one derived from their product URL.
func (s *Store) SaveListing(ctx context.Context, listing *domain.Listing) error {
	if listing.ID == "" {
		listing.ID = domain.SyntheticID(listing.ProductURL)
	}

	data, err := json.Marshal(listing)
	if err != nil {
		return fmt.Errorf("failed to marshal listing: %w", err)
	}

	key := ListingKey(listing.ID)

	if err := s.client.Set(ctx, key, data, DefaultListingTTL).Err(); err != nil {
		return fmt.Errorf("failed to save listing: %w", err)
	}

	if err := s.client.SAdd(ctx, AllListingsKey(), listing.ID).Err(); err != nil {
		return fmt.Errorf("failed to add listing to set: %w", err)
	}

	return nil
}

// GetListing retrieves a listing from Redis by ID
func (s *Store) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	key := ListingKey(id)
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("listing not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}

	var listing domain.Listing
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil, fmt.Errorf("failed to unmarshal listing: %w", err)
	}

	return &listing, nil
}

// GetAllListings retrieves all catalog listings from Redis
func (s *Store) GetAllListings(ctx context.Context) ([]*domain.Listing, error) {
	ids, err := s.client.SMembers(ctx, AllListingsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get listing IDs: %w", err)
	}

	if len(ids) == 0 {
		return []*domain.Listing{}, nil
	}

	listings := make([]*domain.Listing, 0, len(ids))
	for _, id := range ids {
		listing, err := s.GetListing(ctx, id)
		if err != nil {
			// Expired or corrupt entries are skipped, the GC prunes the
			// index set eventually.
			continue
		}
		listings = append(listings, listing)
	}

	return listings, nil
}

// DeleteListing removes a listing and its price history from Redis
func (s *Store) DeleteListing(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, ListingKey(id), PriceHistoryKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}

	if err := s.client.SRem(ctx, AllListingsKey(), id).Err(); err != nil {
		return fmt.Errorf("failed to remove listing from set: %w", err)
	}

	return nil
}

// SaveListingsMany stores multiple listings in Redis (bulk operation)
func (s *Store) SaveListingsMany(ctx context.Context, listings []*domain.Listing) error {
	pipe := s.client.Pipeline()

	for _, listing := range listings {
		if listing.ID == "" {
			listing.ID = domain.SyntheticID(listing.ProductURL)
		}

		data, err := json.Marshal(listing)
		if err != nil {
			return fmt.Errorf("failed to marshal listing %s: %w", listing.ID, err)
		}

		pipe.Set(ctx, ListingKey(listing.ID), data, DefaultListingTTL)
		pipe.SAdd(ctx, AllListingsKey(), listing.ID)
	}

	_, err := pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save listings: %w", err)
	}

	return nil
}
