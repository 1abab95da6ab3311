package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/MrSnakeDoc/scout/internal/domain"
	"github.com/MrSnakeDoc/scout/internal/index"
	"github.com/MrSnakeDoc/scout/internal/logger"
	"github.com/MrSnakeDoc/scout/internal/search"
	redisstore "github.com/MrSnakeDoc/scout/internal/store/redis"
)

// CatalogRefresher periodically runs the seed queries through the
// platform fan-out and folds the results into the catalog: memory
// index, Redis mirror and per-listing price history. After each batch
// it refits the similarity model so trained-mode scoring stays fresh.
type CatalogRefresher struct {
	aggregator    *search.Aggregator
	store         *redisstore.Store
	catalog       *index.Catalog
	logger        logger.Logger
	queries       []string
	resultTarget  int
	maxFeatures   int
	schedule      string
	cron          *cron.Cron
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewCatalogRefresher creates a new catalog refresher
func NewCatalogRefresher(
	agg *search.Aggregator,
	store *redisstore.Store,
	catalog *index.Catalog,
	log logger.Logger,
	queries []string,
	resultTarget int,
	maxFeatures int,
	schedule string,
	manualTrigger chan struct{},
) *CatalogRefresher {
	return &CatalogRefresher{
		aggregator:    agg,
		store:         store,
		catalog:       catalog,
		logger:        log,
		queries:       queries,
		resultTarget:  resultTarget,
		maxFeatures:   maxFeatures,
		schedule:      schedule,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start validates the cron schedule and begins periodic refreshing.
// The first refresh runs in the background so startup is not blocked
// on slow marketplaces.
func (cr *CatalogRefresher) Start(ctx context.Context) error {
	cr.cron = cron.New()

	fire := make(chan struct{}, 1)
	if _, err := cr.cron.AddFunc(cr.schedule, func() {
		select {
		case fire <- struct{}{}:
		default:
		}
	}); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", cr.schedule, err)
	}
	cr.cron.Start()

	go func() {
		defer cr.cron.Stop()

		// Warm the catalog right away if it is still empty.
		if cr.catalog.Count() == 0 {
			if err := cr.Refresh(ctx); err != nil {
				cr.logger.Warn("initial catalog refresh failed",
					logger.Error(err))
			}
		}

		for {
			select {
			case <-fire:
				if err := cr.Refresh(ctx); err != nil {
					cr.logger.Error("catalog refresh failed",
						logger.Error(err))
				}
			case <-cr.manualTrigger:
				cr.logger.Info("manual catalog refresh triggered")
				if err := cr.Refresh(ctx); err != nil {
					cr.logger.Error("catalog refresh failed",
						logger.Error(err))
				}
			case <-cr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the refresher
func (cr *CatalogRefresher) Stop() {
	close(cr.stopCh)
}

// Refresh fans the seed queries out to every platform and folds the
// merged results into catalog, store and price history.
func (cr *CatalogRefresher) Refresh(ctx context.Context) error {
	start := time.Now()
	cr.logger.Info("refreshing catalog",
		logger.Int("queries", len(cr.queries)))

	total := 0
	for _, query := range cr.queries {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		merged := cr.aggregator.Aggregate(ctx, query, nil, cr.resultTarget)
		if len(merged) == 0 {
			cr.logger.Warn("seed query returned nothing",
				logger.String("query", query))
			continue
		}

		total += cr.fold(ctx, merged)
	}

	if total > 0 {
		if err := cr.catalog.Fit(cr.maxFeatures); err != nil {
			cr.logger.Warn("similarity model fit skipped",
				logger.Error(err))
		}
	}

	cr.logger.Info("catalog refresh completed",
		logger.Int("upserted", total),
		logger.Int("catalog_size", cr.catalog.Count()),
		logger.Duration("elapsed", time.Since(start)))

	return nil
}

// fold upserts one merged batch into memory and Redis, recording a
// price point whenever a listing's price moved.
func (cr *CatalogRefresher) fold(ctx context.Context, merged []domain.Listing) int {
	now := time.Now()
	batch := make([]*domain.Listing, 0, len(merged))

	for i := range merged {
		l := merged[i]
		if l.ID == "" {
			l.ID = domain.SyntheticID(l.ProductURL)
		}
		l.LastSeenAt = now

		previous := cr.catalog.Upsert(l)

		if l.Price != nil && priceMoved(previous, *l.Price) {
			if err := cr.store.RecordPrice(ctx, l.ID, *l.Price); err != nil {
				cr.logger.Warn("failed to record price point",
					logger.String("listing_id", l.ID),
					logger.Error(err))
			}
		}

		stored := l
		batch = append(batch, &stored)
	}

	// Redis mirror is best effort, memory is the primary source.
	if err := cr.store.SaveListingsMany(ctx, batch); err != nil {
		cr.logger.Warn("failed to save listings to redis",
			logger.Int("count", len(batch)),
			logger.Error(err))
	}

	return len(batch)
}

// priceMoved reports whether the new price differs from the previously
// cataloged one. A first observation always counts.
func priceMoved(previous *domain.Listing, newPrice float64) bool {
	if previous == nil || previous.Price == nil {
		return true
	}
	return *previous.Price != newPrice
}
