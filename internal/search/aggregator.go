package search

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/scout/internal/domain"
	"github.com/MrSnakeDoc/scout/internal/logger"
	"github.com/MrSnakeDoc/scout/internal/platform"
)

// DefaultPlatformFloor is the minimum per-platform result cap. It
// prevents small result targets from starving individual platforms.
const DefaultPlatformFloor = 15

// fetchResult is the outcome of one platform task. Failure is an
// expected, handled state: the merge step converts errors into empty
// contributions instead of letting them abort the request.
type fetchResult struct {
	platform string
	listings []domain.Listing
	err      error
}

// Aggregator fans a search query out to all requested platform
// adapters concurrently and merges whatever completes in time.
//
// Two independent timeout scopes apply: each task is bounded by the
// per-platform timeout, and the collect loop is bounded by the overall
// timeout. A task that outlives either is abandoned - it may keep
// running in the background, but its eventual result is dropped into
// the buffered channel and ignored.
type Aggregator struct {
	registry           *platform.Registry
	logger             logger.Logger
	perPlatformTimeout time.Duration
	overallTimeout     time.Duration
	platformFloor      int
}

func NewAggregator(
	registry *platform.Registry,
	log logger.Logger,
	perPlatformTimeout time.Duration,
	overallTimeout time.Duration,
) *Aggregator {
	return &Aggregator{
		registry:           registry,
		logger:             log,
		perPlatformTimeout: perPlatformTimeout,
		overallTimeout:     overallTimeout,
		platformFloor:      DefaultPlatformFloor,
	}
}

// Aggregate queries the named platforms (all registered ones when the
// list is empty) and returns the merged listings in task completion
// order. Merge order is irrelevant to ranking, which happens later.
//
// Partial results are a normal outcome; zero contributions from every
// platform yields an empty slice, never an error.
func (a *Aggregator) Aggregate(ctx context.Context, query string, names []string, target int) []domain.Listing {
	if len(names) == 0 {
		names = a.registry.Names()
	}

	// Resolve adapters before sizing the per-platform cap: unknown
	// names must not shrink the share of the platforms that exist.
	type task struct {
		name    string
		fetcher platform.Fetcher
	}
	tasks := make([]task, 0, len(names))
	for _, name := range names {
		fetcher, ok := a.registry.Get(name)
		if !ok {
			a.logger.Warn("unknown platform requested, skipping",
				logger.String("platform", name))
			continue
		}
		tasks = append(tasks, task{name: name, fetcher: fetcher})
	}
	if len(tasks) == 0 {
		return nil
	}

	perPlatformCap := target / len(tasks)
	if perPlatformCap < a.platformFloor {
		perPlatformCap = a.platformFloor
	}

	// Buffered so abandoned tasks can always deliver and exit.
	results := make(chan fetchResult, len(tasks))

	dispatched := len(tasks)
	for _, tk := range tasks {
		go func(name string, fetcher platform.Fetcher) {
			taskCtx, cancel := context.WithTimeout(ctx, a.perPlatformTimeout)
			defer cancel()

			listings, err := safeFetch(taskCtx, fetcher, query, perPlatformCap)
			results <- fetchResult{platform: name, listings: listings, err: err}
		}(tk.name, tk.fetcher)
	}

	overall := time.NewTimer(a.overallTimeout)
	defer overall.Stop()

	var merged []domain.Listing
	received := 0

collect:
	for received < dispatched {
		select {
		case res := <-results:
			received++
			if res.err != nil {
				// Non-fatal and localized: this platform simply
				// contributes zero results.
				a.logger.Warn("platform fetch failed",
					logger.String("platform", res.platform),
					logger.Error(res.err))
				continue
			}
			a.logger.Debug("platform fetch completed",
				logger.String("platform", res.platform),
				logger.Int("listings", len(res.listings)))
			merged = append(merged, res.listings...)
		case <-overall.C:
			a.logger.Warn("overall search deadline elapsed, proceeding with partial results",
				logger.Int("completed", received),
				logger.Int("dispatched", dispatched))
			break collect
		case <-ctx.Done():
			a.logger.Debug("search context cancelled during fan-out")
			break collect
		}
	}

	a.logger.Info("fan-out merge complete",
		logger.String("query", query),
		logger.Int("platforms", dispatched),
		logger.Int("completed", received),
		logger.Int("listings", len(merged)))

	return merged
}

// safeFetch calls the adapter inside a recover boundary so a panicking
// adapter degrades to an error like any other failure.
func safeFetch(ctx context.Context, fetcher platform.Fetcher, query string, maxResults int) (listings []domain.Listing, err error) {
	defer func() {
		if r := recover(); r != nil {
			listings = nil
			err = fmt.Errorf("adapter panicked: %v", r)
		}
	}()
	return fetcher.Fetch(ctx, query, maxResults)
}
