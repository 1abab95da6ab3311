package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrSnakeDoc/scout/internal/domain"
	"github.com/MrSnakeDoc/scout/internal/index"
	"github.com/MrSnakeDoc/scout/internal/logger"
	"github.com/MrSnakeDoc/scout/internal/platform"
)

var serviceWeights = domain.Weights{Trust: 0.4, Rating: 0.3, Price: 0.2, Reviews: 0.1}

var serviceTrust = domain.TrustTable{
	"amazon":   0.95,
	"flipkart": 0.90,
	"meesho":   0.80,
}

type recordedSearch struct {
	query string
	count int
}

type fakeHistory struct {
	ch  chan recordedSearch
	err error
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{ch: make(chan recordedSearch, 8)}
}

func (h *fakeHistory) RecordSearch(_ context.Context, query string, count int) error {
	h.ch <- recordedSearch{query: query, count: count}
	return h.err
}

func newTestService(reg *platform.Registry, catalog *index.Catalog, history HistoryRecorder) *Service {
	agg := NewAggregator(reg, logger.NewNop(), 50*time.Millisecond, 200*time.Millisecond)
	engine := domain.NewEngine(serviceWeights, serviceTrust)
	return NewService(agg, engine, catalog, history, logger.NewNop(), Options{
		ResultTarget:        50,
		ResultFloor:         5,
		ResultCeiling:       10,
		SimilarityThreshold: 0.1,
	})
}

func TestSearchEmptyQueryMakesNoAdapterCalls(t *testing.T) {
	amazon := &fakeFetcher{listings: makeListings("amazon", 3)}
	reg := platform.NewRegistry()
	reg.Register("amazon", amazon)

	svc := newTestService(reg, nil, nil)

	for _, q := range []string{"", "   ", "\t"} {
		if _, err := svc.Search(context.Background(), q, domain.FilterSpec{}, 0); !errors.Is(err, ErrEmptyQuery) {
			t.Errorf("query %q: expected ErrEmptyQuery, got %v", q, err)
		}
	}

	if amazon.calls.Load() != 0 {
		t.Errorf("expected 0 adapter calls for invalid input, got %d", amazon.calls.Load())
	}
}

func TestSearchEndToEndWithTimedOutPlatform(t *testing.T) {
	reg := platform.NewRegistry()
	reg.Register("amazon", &fakeFetcher{listings: makeListings("amazon", 5)})
	reg.Register("flipkart", &fakeFetcher{listings: makeListings("flipkart", 3)})
	reg.Register("meesho", &fakeFetcher{listings: makeListings("meesho", 4), delay: 500 * time.Millisecond})

	svc := newTestService(reg, nil, nil)

	resp, err := svc.Search(context.Background(), "headphones", domain.FilterSpec{}, 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if resp.Count < 5 || resp.Count > 8 {
		t.Errorf("expected count between 5 and 8, got %d", resp.Count)
	}

	gotSources := make(map[string]bool)
	for _, s := range resp.Sources {
		gotSources[s] = true
	}
	if !gotSources["amazon"] || !gotSources["flipkart"] || len(gotSources) != 2 {
		t.Errorf("expected sources exactly {amazon, flipkart}, got %v", resp.Sources)
	}

	for _, l := range resp.Results {
		if l.Platform == "meesho" {
			t.Error("listing from the timed-out platform leaked into the results")
		}
	}
}

func TestSearchResultInvariants(t *testing.T) {
	reg := platform.NewRegistry()
	reg.Register("amazon", &fakeFetcher{listings: makeListings("amazon", 8)})
	reg.Register("flipkart", &fakeFetcher{listings: makeListings("flipkart", 8)})

	svc := newTestService(reg, nil, nil)

	resp, err := svc.Search(context.Background(), "product", domain.FilterSpec{}, 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	seen := make(map[string]bool)
	for _, l := range resp.Results {
		if seen[l.ProductURL] {
			t.Errorf("duplicate product URL in results: %s", l.ProductURL)
		}
		seen[l.ProductURL] = true

		if l.ID == "" {
			t.Errorf("listing %s has no identifier", l.ProductURL)
		}
	}

	for i := 1; i < len(resp.Results); i++ {
		if resp.Results[i].CombinedScore > resp.Results[i-1].CombinedScore {
			t.Errorf("combined_score increases at position %d", i)
		}
	}

	if resp.Count > 10 {
		t.Errorf("result ceiling exceeded: %d", resp.Count)
	}
}

func TestSearchCrossPlatformDuplicateFirstResponderWins(t *testing.T) {
	sharedURL := "https://shop.example/p/shared"
	cheapPrice, fastPrice := 50.0, 100.0

	fastListings := makeListings("amazon", 5)
	fastListings[0].ProductURL = sharedURL
	fastListings[0].Price = &fastPrice

	slowListings := makeListings("flipkart", 5)
	slowListings[0].ProductURL = sharedURL
	slowListings[0].Price = &cheapPrice

	reg := platform.NewRegistry()
	reg.Register("amazon", &fakeFetcher{listings: fastListings})
	reg.Register("flipkart", &fakeFetcher{listings: slowListings, delay: 20 * time.Millisecond})

	svc := newTestService(reg, nil, nil)

	resp, err := svc.Search(context.Background(), "product", domain.FilterSpec{}, 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	found := 0
	for _, l := range resp.Results {
		if l.ProductURL == sharedURL {
			found++
			if l.Platform != "amazon" || *l.Price != fastPrice {
				t.Errorf("expected the first-responding platform's listing to survive, got %s at %f",
					l.Platform, *l.Price)
			}
		}
	}
	if found != 1 {
		t.Errorf("expected exactly one survivor for the shared URL, got %d", found)
	}
}

func TestSearchEmptyMergedSetIsNotAnError(t *testing.T) {
	reg := platform.NewRegistry()
	reg.Register("amazon", &fakeFetcher{err: errors.New("down")})
	reg.Register("flipkart", &fakeFetcher{err: errors.New("also down")})

	svc := newTestService(reg, nil, nil)

	resp, err := svc.Search(context.Background(), "headphones", domain.FilterSpec{}, 0)
	if err != nil {
		t.Fatalf("total adapter failure must not fail the request: %v", err)
	}
	if resp.Count != 0 {
		t.Errorf("expected count 0, got %d", resp.Count)
	}
	if resp.Message == "" {
		t.Error("expected an explanatory message for the empty result")
	}
}

func TestSearchFiltersApplied(t *testing.T) {
	listings := makeListings("amazon", 6) // prices 10, 17, 24, 31, 38, 45
	reg := platform.NewRegistry()
	reg.Register("amazon", &fakeFetcher{listings: listings})

	svc := newTestService(reg, nil, nil)

	maxPrice := 25.0
	resp, err := svc.Search(context.Background(), "product", domain.FilterSpec{MaxPrice: &maxPrice}, 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if resp.Count != 3 {
		t.Errorf("expected 3 listings under the price cap, got %d", resp.Count)
	}
	for _, l := range resp.Results {
		if *l.Price > maxPrice {
			t.Errorf("listing over the price cap leaked: %f", *l.Price)
		}
	}
}

func TestSearchRecordsHistory(t *testing.T) {
	reg := platform.NewRegistry()
	reg.Register("amazon", &fakeFetcher{listings: makeListings("amazon", 3)})

	history := newFakeHistory()
	svc := newTestService(reg, nil, history)

	resp, err := svc.Search(context.Background(), "headphones", domain.FilterSpec{}, 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	select {
	case rec := <-history.ch:
		if rec.query != "headphones" || rec.count != resp.Count {
			t.Errorf("unexpected history record: %+v", rec)
		}
	case <-time.After(time.Second):
		t.Fatal("history recorder was never called")
	}
}

func TestSearchHistoryFailureDoesNotFailResponse(t *testing.T) {
	reg := platform.NewRegistry()
	reg.Register("amazon", &fakeFetcher{listings: makeListings("amazon", 3)})

	history := newFakeHistory()
	history.err = errors.New("redis down")
	svc := newTestService(reg, nil, history)

	resp, err := svc.Search(context.Background(), "headphones", domain.FilterSpec{}, 0)
	if err != nil {
		t.Fatalf("history failure must not fail the search: %v", err)
	}
	if resp.Count == 0 {
		t.Error("expected results despite history failure")
	}
}

func TestSearchCatalogModeIgnoresLivePlatforms(t *testing.T) {
	amazon := &fakeFetcher{listings: makeListings("amazon", 5)}
	reg := platform.NewRegistry()
	reg.Register("amazon", amazon)

	catalog := index.NewCatalog()
	price := 19.99
	catalog.Upsert(domain.Listing{
		Name:        "mechanical keyboard",
		Description: "rgb backlit",
		ProductURL:  "https://catalog.example/p/kb",
		Platform:    "flipkart",
		Price:       &price,
	})
	catalog.Upsert(domain.Listing{
		Name:        "office chair",
		Description: "ergonomic mesh",
		ProductURL:  "https://catalog.example/p/chair",
		Platform:    "amazon",
		Price:       &price,
	})
	if err := catalog.Fit(1000); err != nil {
		t.Fatalf("catalog fit failed: %v", err)
	}

	svc := newTestService(reg, catalog, nil)

	resp, err := svc.SearchCatalog(context.Background(), "mechanical keyboard", domain.FilterSpec{})
	if err != nil {
		t.Fatalf("SearchCatalog failed: %v", err)
	}

	if amazon.calls.Load() != 0 {
		t.Errorf("catalog mode must not query live platforms, got %d calls", amazon.calls.Load())
	}
	if resp.Count == 0 {
		t.Fatal("expected catalog results")
	}
	if resp.Results[0].ProductURL != "https://catalog.example/p/kb" {
		t.Errorf("expected the keyboard listing first, got %s", resp.Results[0].ProductURL)
	}
}

func TestSearchFallsBackToTrainedCatalog(t *testing.T) {
	reg := platform.NewRegistry()
	reg.Register("amazon", &fakeFetcher{err: errors.New("down")})

	catalog := index.NewCatalog()
	price := 29.99
	catalog.Upsert(domain.Listing{
		Name:        "wireless bluetooth headphones",
		Description: "over-ear with noise cancellation",
		ProductURL:  "https://catalog.example/p/1",
		Platform:    "amazon",
		Price:       &price,
	})
	catalog.Upsert(domain.Listing{
		Name:        "stainless steel kitchen knife",
		Description: "chef grade blade",
		ProductURL:  "https://catalog.example/p/2",
		Platform:    "flipkart",
		Price:       &price,
	})
	catalog.Upsert(domain.Listing{
		Name:        "ceramic coffee mug",
		Description: "large 400ml",
		ProductURL:  "https://catalog.example/p/3",
		Platform:    "meesho",
		Price:       &price,
	})
	if err := catalog.Fit(1000); err != nil {
		t.Fatalf("catalog fit failed: %v", err)
	}

	svc := newTestService(reg, catalog, nil)

	resp, err := svc.Search(context.Background(), "bluetooth headphones", domain.FilterSpec{}, 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if resp.Count == 0 {
		t.Fatal("expected trained-catalog fallback results")
	}
	if resp.Results[0].ProductURL != "https://catalog.example/p/1" {
		t.Errorf("expected the semantically closest catalog listing first, got %s",
			resp.Results[0].ProductURL)
	}
	if resp.Results[0].SimilarityScore <= 0 {
		t.Error("expected a positive trained similarity score")
	}
}
