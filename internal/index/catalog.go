package index

import (
	"sync"
	"time"

	"github.com/MrSnakeDoc/scout/internal/domain"
)

// Catalog is the in-memory mirror of the persisted product catalog,
// keyed by product URL, together with the trained similarity model
// fitted over it.
//
// The request path only reads from it; the catalog refresh scheduler
// owns all writes and retraining.
type Catalog struct {
	mu          sync.RWMutex
	entries     map[string]*domain.Listing // ProductURL -> Listing
	model       *domain.TFIDF
	vectors     map[string]domain.Vector // ProductURL -> document vector
	lastRefresh time.Time
	lastFit     time.Time
}

func NewCatalog() *Catalog {
	return &Catalog{
		entries: make(map[string]*domain.Listing),
	}
}

// Upsert adds or replaces a listing and returns the previous version,
// if any. The trained model is not touched; callers refit explicitly
// after a refresh batch.
func (c *Catalog) Upsert(l domain.Listing) (previous *domain.Listing) {
	c.mu.Lock()
	defer c.mu.Unlock()

	previous = c.entries[l.ProductURL]
	stored := l
	c.entries[l.ProductURL] = &stored
	c.lastRefresh = time.Now()
	return previous
}

// ReplaceAll swaps the whole catalog content.
func (c *Catalog) ReplaceAll(listings []domain.Listing) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*domain.Listing, len(listings))
	for _, l := range listings {
		stored := l
		c.entries[l.ProductURL] = &stored
	}
	c.lastRefresh = time.Now()
}

// Get retrieves a listing by product URL.
func (c *Catalog) Get(productURL string) (domain.Listing, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	l, ok := c.entries[productURL]
	if !ok {
		return domain.Listing{}, false
	}
	return *l, true
}

// Delete removes a listing and its document vector.
func (c *Catalog) Delete(productURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, productURL)
	delete(c.vectors, productURL)
}

// All returns a snapshot of every catalog listing.
func (c *Catalog) All() []domain.Listing {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Listing, 0, len(c.entries))
	for _, l := range c.entries {
		out = append(out, *l)
	}
	return out
}

// Count returns the number of catalog listings.
func (c *Catalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// LastRefresh returns when the catalog content last changed.
func (c *Catalog) LastRefresh() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.lastRefresh
}

// LastFit returns when the similarity model was last trained.
func (c *Catalog) LastFit() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.lastFit
}

// Fit trains the vector-space model over the current catalog text.
// Called by the refresh scheduler after upserting a batch, never by
// the request path.
func (c *Catalog) Fit(maxFeatures int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	urls := make([]string, 0, len(c.entries))
	texts := make([]string, 0, len(c.entries))
	for url, l := range c.entries {
		urls = append(urls, url)
		texts = append(texts, l.IndexText())
	}

	model := domain.NewTFIDF(maxFeatures)
	vectors, err := model.Fit(texts)
	if err != nil {
		return err
	}

	c.model = model
	c.vectors = make(map[string]domain.Vector, len(urls))
	for i, url := range urls {
		c.vectors[url] = vectors[i]
	}
	c.lastFit = time.Now()
	return nil
}

// Trained reports whether a fitted model is available. This is what
// selects trained-mode scoring: data availability, not a request
// parameter.
func (c *Catalog) Trained() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.model != nil && c.model.Fitted()
}

// Rank projects the query into the trained space and returns every
// catalog listing whose cosine similarity meets the threshold. Order
// is unspecified; ranking happens downstream.
func (c *Catalog) Rank(query string, threshold float64) []domain.Candidate {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.model == nil || !c.model.Fitted() {
		return nil
	}

	queryVec := c.model.Transform(query)
	if len(queryVec) == 0 {
		return nil
	}

	var candidates []domain.Candidate
	for url, vec := range c.vectors {
		sim := domain.Cosine(queryVec, vec)
		if sim < threshold {
			continue
		}
		l, ok := c.entries[url]
		if !ok {
			continue
		}
		candidates = append(candidates, domain.Candidate{
			Listing:    *l,
			Similarity: sim,
		})
	}
	return candidates
}
