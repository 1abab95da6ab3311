package domain

import "time"

// Listing represents one marketplace's view of a product for a single
// search request.
//
// It is NOT tied to any adapter, Redis or scraping library.
// Every platform adapter maps its raw payload into this structure
// before handing it to the pipeline.
//
// A Listing is uniquely identified by its ProductURL.
type Listing struct {
	// ID is a stable identifier. Adapters may leave it empty; the
	// result selector derives one deterministically from ProductURL.
	ID string `json:"id,omitempty"`

	// ProductURL is the canonical source URL on the marketplace.
	// It is the identity key for deduplication and for the persisted
	// catalog mirror.
	ProductURL string `json:"product_url"`

	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Brand       string `json:"brand,omitempty"`

	// Price and OriginalPrice are currency-normalized by the adapter.
	// A nil Price excludes the listing from scoring.
	Price         *float64 `json:"price,omitempty"`
	OriginalPrice *float64 `json:"original_price,omitempty"`

	// Rating is 0.0-5.0 when present.
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"review_count,omitempty"`

	// Platform identifies the source marketplace (e.g. "amazon").
	Platform string `json:"platform"`

	ImageURL     string `json:"image_url,omitempty"`
	Availability string `json:"availability,omitempty"`

	// LastSeenAt records when an adapter last returned this listing.
	// Zero for transient search results, set for catalog entries so
	// the garbage collector can drop listings that stopped appearing.
	LastSeenAt time.Time `json:"last_seen_at,omitempty"`
}

// ScoredListing is a Listing annotated with the per-request scores
// computed by the scoring engine. Scores are never supplied by
// adapters and never survive past one request.
type ScoredListing struct {
	Listing

	SimilarityScore     float64 `json:"similarity_score"`
	RecommendationScore float64 `json:"recommendation_score"`
	CombinedScore       float64 `json:"combined_score"`
}

// HasPrice reports whether the listing carries a usable price.
func (l *Listing) HasPrice() bool {
	return l.Price != nil
}

// SearchText returns the lower-cased free text used by lexical
// similarity matching.
func (l *Listing) SearchText() string {
	return lowerJoin(l.Name, l.Description, l.Category)
}

// IndexText returns the text indexed by the trained similarity model.
// Unlike SearchText it includes the brand, matching what the catalog
// model is fitted on.
func (l *Listing) IndexText() string {
	return lowerJoin(l.Name, l.Description, l.Category, l.Brand)
}
