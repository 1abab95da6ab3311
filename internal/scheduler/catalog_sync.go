package scheduler

import (
	"context"

	"github.com/MrSnakeDoc/scout/internal/domain"
	"github.com/MrSnakeDoc/scout/internal/index"
	"github.com/MrSnakeDoc/scout/internal/logger"
	redisstore "github.com/MrSnakeDoc/scout/internal/store/redis"
)

// CatalogSyncer loads the persisted catalog from Redis into the memory
// index on startup, so trained-mode scoring is available before the
// first refresh run completes.
type CatalogSyncer struct {
	store       *redisstore.Store
	catalog     *index.Catalog
	logger      logger.Logger
	maxFeatures int
}

// NewCatalogSyncer creates a new catalog syncer
func NewCatalogSyncer(
	store *redisstore.Store,
	catalog *index.Catalog,
	log logger.Logger,
	maxFeatures int,
) *CatalogSyncer {
	return &CatalogSyncer{
		store:       store,
		catalog:     catalog,
		logger:      log,
		maxFeatures: maxFeatures,
	}
}

// Sync loads listings from Redis, fills the memory catalog and fits
// the similarity model over them.
func (cs *CatalogSyncer) Sync(ctx context.Context) error {
	cs.logger.Info("syncing catalog from redis to memory")

	listings, err := cs.store.GetAllListings(ctx)
	if err != nil {
		return err
	}

	if len(listings) == 0 {
		cs.logger.Info("no catalog listings found in redis")
		return nil
	}

	batch := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		batch = append(batch, *l)
	}
	cs.catalog.ReplaceAll(batch)

	if err := cs.catalog.Fit(cs.maxFeatures); err != nil {
		cs.logger.Warn("similarity model fit skipped",
			logger.Error(err))
	}

	cs.logger.Info("synced catalog from redis",
		logger.Int("count", len(listings)))

	return nil
}
