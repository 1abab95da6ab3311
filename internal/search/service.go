package search

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MrSnakeDoc/scout/internal/domain"
	"github.com/MrSnakeDoc/scout/internal/index"
	"github.com/MrSnakeDoc/scout/internal/logger"
)

// ErrEmptyQuery rejects a search before any fan-out work happens.
var ErrEmptyQuery = errors.New("query must not be empty")

// noResultsMessage explains an empty result set: a valid outcome of a
// live best-effort query, not a failure.
const noResultsMessage = "No products found. Try a different search term."

const historyTimeout = 2 * time.Second

// HistoryRecorder receives the outcome of every search. It is a
// fire-and-forget collaborator: it must never block or fail the
// response.
type HistoryRecorder interface {
	RecordSearch(ctx context.Context, query string, resultCount int) error
}

// Options bound the pipeline's output and select the trained-mode
// threshold.
type Options struct {
	ResultTarget        int // default total fetched across platforms
	ResultFloor         int // minimum returned when enough candidates exist
	ResultCeiling       int // maximum returned
	SimilarityThreshold float64
}

// Response is the curated result of one search request. Sources is
// the distinct set of platforms actually represented in the truncated
// list, not the platforms queried.
type Response struct {
	Query   string                 `json:"query"`
	Count   int                    `json:"count"`
	Results []domain.ScoredListing `json:"results"`
	Sources []string               `json:"sources"`
	Message string                 `json:"message,omitempty"`
}

// Service runs the full aggregation-and-ranking pipeline:
// fan-out -> filter -> score -> select.
type Service struct {
	aggregator *Aggregator
	engine     *domain.Engine
	catalog    *index.Catalog
	history    HistoryRecorder
	logger     logger.Logger
	opts       Options
}

func NewService(
	aggregator *Aggregator,
	engine *domain.Engine,
	catalog *index.Catalog,
	history HistoryRecorder,
	log logger.Logger,
	opts Options,
) *Service {
	if opts.ResultTarget <= 0 {
		opts.ResultTarget = 50
	}
	if opts.ResultFloor <= 0 {
		opts.ResultFloor = domain.DefaultResultFloor
	}
	if opts.ResultCeiling < opts.ResultFloor {
		opts.ResultCeiling = domain.DefaultResultCeiling
	}
	return &Service{
		aggregator: aggregator,
		engine:     engine,
		catalog:    catalog,
		history:    history,
		logger:     log,
		opts:       opts,
	}
}

// Search executes one real-time search. Adapter failures surface as
// missing contributions, never as request errors; only input
// validation fails hard.
func (s *Service) Search(ctx context.Context, query string, filters domain.FilterSpec, target int) (*Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if target <= 0 {
		target = s.opts.ResultTarget
	}

	merged := s.aggregator.Aggregate(ctx, query, filters.Platforms, target)

	if len(merged) == 0 {
		// Live platforms gave nothing. When a trained catalog index
		// exists, fall back to it - mode selection by data
		// availability, not by request parameter.
		if s.catalog != nil && s.catalog.Trained() {
			s.logger.Info("no live results, falling back to trained catalog",
				logger.String("query", query))
			resp := s.searchCatalog(query, filters)
			s.recordHistory(query, resp.Count)
			return resp, nil
		}

		s.recordHistory(query, 0)
		return &Response{
			Query:   query,
			Count:   0,
			Results: []domain.ScoredListing{},
			Sources: []string{},
			Message: noResultsMessage,
		}, nil
	}

	filtered := domain.ApplyFilter(merged, filters)
	priced := dropPriceless(filtered)
	scored := s.engine.ScoreRealtime(query, priced)
	selected := domain.SelectTop(scored, s.opts.ResultFloor, s.opts.ResultCeiling)

	resp := s.buildResponse(query, selected)
	s.recordHistory(query, resp.Count)
	return resp, nil
}

// SearchCatalog ranks the persisted catalog explicitly, skipping the
// live fan-out. Callers use it to get the trained model's view of a
// query regardless of what the live platforms would return.
func (s *Service) SearchCatalog(ctx context.Context, query string, filters domain.FilterSpec) (*Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	if s.catalog == nil || !s.catalog.Trained() {
		s.recordHistory(query, 0)
		return &Response{
			Query:   query,
			Count:   0,
			Results: []domain.ScoredListing{},
			Sources: []string{},
			Message: noResultsMessage,
		}, nil
	}

	resp := s.searchCatalog(query, filters)
	s.recordHistory(query, resp.Count)
	return resp, nil
}

// searchCatalog ranks the persisted catalog with the trained model and
// the trained-mode blend.
func (s *Service) searchCatalog(query string, filters domain.FilterSpec) *Response {
	candidates := s.catalog.Rank(query, s.opts.SimilarityThreshold)
	candidates = filterCandidates(candidates, filters)

	scored := s.engine.ScoreTrained(candidates)
	selected := domain.SelectTop(scored, s.opts.ResultFloor, s.opts.ResultCeiling)

	resp := s.buildResponse(query, selected)
	if resp.Count == 0 {
		resp.Message = noResultsMessage
	}
	return resp
}

func (s *Service) buildResponse(query string, selected []domain.ScoredListing) *Response {
	sources := make([]string, 0, 4)
	seen := make(map[string]bool, 4)
	for _, l := range selected {
		if !seen[l.Platform] {
			seen[l.Platform] = true
			sources = append(sources, l.Platform)
		}
	}

	resp := &Response{
		Query:   query,
		Count:   len(selected),
		Results: selected,
		Sources: sources,
	}
	if resp.Count == 0 {
		resp.Message = noResultsMessage
	}
	return resp
}

// recordHistory hands the outcome to the history collaborator without
// ever blocking or failing the response.
func (s *Service) recordHistory(query string, count int) {
	if s.history == nil {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Warn("history recorder panicked",
					logger.String("query", query))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		defer cancel()

		if err := s.history.RecordSearch(ctx, query, count); err != nil {
			s.logger.Warn("failed to record search history",
				logger.String("query", query),
				logger.Error(err))
		}
	}()
}

// dropPriceless excludes listings without a price: price participates
// in every scoring mode.
func dropPriceless(listings []domain.Listing) []domain.Listing {
	out := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if l.HasPrice() {
			out = append(out, l)
		}
	}
	return out
}

// filterCandidates applies the filter spec to trained-mode candidates,
// preserving their similarity scores, and drops priceless listings.
func filterCandidates(candidates []domain.Candidate, filters domain.FilterSpec) []domain.Candidate {
	listings := make([]domain.Listing, 0, len(candidates))
	for _, c := range candidates {
		listings = append(listings, c.Listing)
	}

	passing := make(map[string]bool)
	for _, l := range domain.ApplyFilter(listings, filters) {
		passing[l.ProductURL] = true
	}

	out := make([]domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if passing[c.Listing.ProductURL] && c.Listing.HasPrice() {
			out = append(out, c)
		}
	}
	return out
}
