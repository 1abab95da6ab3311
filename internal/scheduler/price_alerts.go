package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/scout/internal/index"
	"github.com/MrSnakeDoc/scout/internal/logger"
	"github.com/MrSnakeDoc/scout/internal/notify"
)

const (
	// DefaultDropRatio is the minimum relative price drop that fires
	// an alert (5%). Anything smaller is marketplace noise.
	DefaultDropRatio = 0.05
)

// PriceAlertEvaluator watches the catalog for price drops between its
// own runs and pushes notifications for significant ones.
type PriceAlertEvaluator struct {
	catalog   *index.Catalog
	notifier  notify.Notifier
	logger    logger.Logger
	interval  time.Duration
	dropRatio float64
	lastSeen  map[string]float64 // listing ID -> last observed price
	stopCh    chan struct{}
}

// NewPriceAlertEvaluator creates a new price alert evaluator
func NewPriceAlertEvaluator(
	catalog *index.Catalog,
	notifier notify.Notifier,
	log logger.Logger,
	interval time.Duration,
) *PriceAlertEvaluator {
	return &PriceAlertEvaluator{
		catalog:   catalog,
		notifier:  notifier,
		logger:    log,
		interval:  interval,
		dropRatio: DefaultDropRatio,
		lastSeen:  make(map[string]float64),
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic evaluation process
func (pe *PriceAlertEvaluator) Start(ctx context.Context) error {
	// Baseline run: record current prices without alerting.
	pe.Evaluate(ctx)

	ticker := time.NewTicker(pe.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				pe.Evaluate(ctx)
			case <-pe.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the evaluator
func (pe *PriceAlertEvaluator) Stop() {
	close(pe.stopCh)
}

// Evaluate compares current catalog prices against the previous run
// and notifies on drops past the threshold.
func (pe *PriceAlertEvaluator) Evaluate(ctx context.Context) {
	listings := pe.catalog.All()
	alerted := 0

	for i := range listings {
		l := listings[i]
		if l.Price == nil || l.ID == "" {
			continue
		}

		current := *l.Price
		previous, known := pe.lastSeen[l.ID]
		pe.lastSeen[l.ID] = current

		if !known || previous <= 0 {
			continue
		}
		if current >= previous*(1-pe.dropRatio) {
			continue
		}

		if err := pe.notifier.NotifyPriceDrop(&l, previous, current); err != nil {
			pe.logger.Warn("failed to send price drop alert",
				logger.String("listing_id", l.ID),
				logger.Error(err))
			continue
		}

		pe.logger.Info("price drop alert sent",
			logger.String("listing_id", l.ID),
			logger.String("platform", l.Platform),
			logger.Float64("previous", previous),
			logger.Float64("current", current))
		alerted++
	}

	if alerted > 0 {
		pe.logger.Info("price alert run completed",
			logger.Int("alerts", alerted))
	}
}
