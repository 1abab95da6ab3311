package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/scout/internal/index"
	"github.com/MrSnakeDoc/scout/internal/logger"
	redisstore "github.com/MrSnakeDoc/scout/internal/store/redis"
)

const (
	// DefaultGCThreshold is the age after which listings that stopped
	// appearing in fetch results are deleted
	DefaultGCThreshold = 30 * 24 * time.Hour // 30 days
)

// GarbageCollector prunes catalog listings that no platform has
// returned for longer than the threshold.
type GarbageCollector struct {
	store     *redisstore.Store
	catalog   *index.Catalog
	logger    logger.Logger
	interval  time.Duration
	threshold time.Duration
	stopCh    chan struct{}
}

// NewGarbageCollector creates a new garbage collector
func NewGarbageCollector(
	store *redisstore.Store,
	catalog *index.Catalog,
	log logger.Logger,
	interval time.Duration,
	threshold time.Duration,
) *GarbageCollector {
	if threshold == 0 {
		threshold = DefaultGCThreshold
	}

	return &GarbageCollector{
		store:     store,
		catalog:   catalog,
		logger:    log,
		interval:  interval,
		threshold: threshold,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic garbage collection process
func (gc *GarbageCollector) Start(ctx context.Context) error {
	// Run immediately on start
	if err := gc.Collect(ctx); err != nil {
		gc.logger.Warn("initial garbage collection failed",
			logger.Error(err))
	}

	ticker := time.NewTicker(gc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := gc.Collect(ctx); err != nil {
					gc.logger.Error("garbage collection failed",
						logger.Error(err))
				}
			case <-gc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the garbage collector
func (gc *GarbageCollector) Stop() {
	close(gc.stopCh)
}

// Collect removes listings whose LastSeenAt is older than the
// threshold from both the memory catalog and the Redis mirror.
func (gc *GarbageCollector) Collect(ctx context.Context) error {
	gc.logger.Debug("running catalog garbage collection")

	now := time.Now()
	deleted := 0

	for _, listing := range gc.catalog.All() {
		// Entries without a sighting timestamp predate this field and
		// are left for the TTL on their Redis key.
		if listing.LastSeenAt.IsZero() {
			continue
		}

		age := now.Sub(listing.LastSeenAt)
		if age < gc.threshold {
			continue
		}

		gc.catalog.Delete(listing.ProductURL)

		// Redis delete is best effort
		if gc.store != nil {
			if err := gc.store.DeleteListing(ctx, listing.ID); err != nil {
				gc.logger.Warn("failed to delete listing from redis",
					logger.String("listing_id", listing.ID),
					logger.Error(err))
			}
		}

		gc.logger.Info("garbage collected stale listing",
			logger.String("listing_id", listing.ID),
			logger.String("platform", listing.Platform),
			logger.String("unseen_for", age.String()))

		deleted++
	}

	if deleted > 0 {
		gc.logger.Info("garbage collection completed",
			logger.Int("deleted", deleted))
	}

	return nil
}
