package domain

import (
	"fmt"
	"math"
)

const (
	// Blend split for real-time mode. The substring similarity signal
	// is coarse, so quality/value dominates.
	realtimeRecommendationShare = 0.7
	realtimeSimilarityShare     = 0.3

	// Blend split for trained mode. The vector-space similarity signal
	// is a real semantic score, so it dominates.
	trainedSimilarityShare     = 0.6
	trainedRecommendationShare = 0.4

	// DefaultTrust is the neutral mid-value for marketplaces missing
	// from the trust table.
	DefaultTrust = 0.5

	// weightSumTolerance allows for float drift when validating that
	// the four weights sum to 1.0.
	weightSumTolerance = 1e-6
)

// Weights holds the four externally configured scoring weights.
// They must sum to 1.0 (within tolerance).
type Weights struct {
	Trust   float64
	Rating  float64
	Price   float64
	Reviews float64
}

// Validate checks that every weight is non-negative and that the sum
// is 1.0 within tolerance.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"trust": w.Trust, "rating": w.Rating, "price": w.Price, "reviews": w.Reviews,
	} {
		if v < 0 {
			return fmt.Errorf("scoring weight %q must not be negative, got %v", name, v)
		}
	}
	sum := w.Trust + w.Rating + w.Price + w.Reviews
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("scoring weights must sum to 1.0, got %v", sum)
	}
	return nil
}

// TrustTable maps a platform name to its fixed trust constant.
type TrustTable map[string]float64

// Score returns the trust constant for a platform, falling back to the
// neutral default for unknown marketplaces.
func (t TrustTable) Score(platform string) float64 {
	if v, ok := t[platform]; ok {
		return v
	}
	return DefaultTrust
}

// Candidate pairs a listing with its similarity signal before the
// quality/value blend is applied.
type Candidate struct {
	Listing    Listing
	Similarity float64
}

// Engine computes recommendation and combined scores for a candidate
// set. All relative normalizations (price spread, review maximum) are
// computed against the candidate set of the current request, never
// against the whole catalog.
type Engine struct {
	weights Weights
	trust   TrustTable
}

// NewEngine builds a scoring engine. Weights must have been validated
// by the caller (configuration loading).
func NewEngine(weights Weights, trust TrustTable) *Engine {
	return &Engine{weights: weights, trust: trust}
}

// ScoreRealtime scores adapter-sourced listings with the cheap lexical
// similarity and the real-time blend. Listings without a price must
// have been excluded beforehand.
func (e *Engine) ScoreRealtime(query string, listings []Listing) []ScoredListing {
	candidates := make([]Candidate, 0, len(listings))
	for _, l := range listings {
		candidates = append(candidates, Candidate{
			Listing:    l,
			Similarity: LexicalSimilarity(query, &l),
		})
	}
	return e.score(candidates, realtimeSimilarityShare, realtimeRecommendationShare)
}

// ScoreTrained scores candidates whose similarity was produced by the
// trained catalog model, using the trained blend.
func (e *Engine) ScoreTrained(candidates []Candidate) []ScoredListing {
	return e.score(candidates, trainedSimilarityShare, trainedRecommendationShare)
}

type setStats struct {
	minPrice   float64
	maxPrice   float64
	havePrices bool
	maxReviews int
}

func statsOf(candidates []Candidate) setStats {
	var st setStats
	for _, c := range candidates {
		if c.Listing.Price != nil {
			p := *c.Listing.Price
			if !st.havePrices {
				st.minPrice, st.maxPrice = p, p
				st.havePrices = true
			} else {
				st.minPrice = math.Min(st.minPrice, p)
				st.maxPrice = math.Max(st.maxPrice, p)
			}
		}
		if c.Listing.ReviewCount != nil && *c.Listing.ReviewCount > st.maxReviews {
			st.maxReviews = *c.Listing.ReviewCount
		}
	}
	return st
}

func (e *Engine) score(candidates []Candidate, simShare, recShare float64) []ScoredListing {
	if len(candidates) == 0 {
		return []ScoredListing{}
	}

	st := statsOf(candidates)

	scored := make([]ScoredListing, 0, len(candidates))
	for _, c := range candidates {
		rec := e.weights.Trust*e.trust.Score(c.Listing.Platform) +
			e.weights.Rating*ratingScore(&c.Listing) +
			e.weights.Price*priceScore(&c.Listing, st) +
			e.weights.Reviews*reviewScore(&c.Listing, st)

		scored = append(scored, ScoredListing{
			Listing:             c.Listing,
			SimilarityScore:     c.Similarity,
			RecommendationScore: rec,
			CombinedScore:       simShare*c.Similarity + recShare*rec,
		})
	}

	return scored
}

// priceScore maps the cheapest listing in the set to 1.0 and the most
// expensive to 0.0, linearly. A set with a single price point scores
// 1.0; a listing with no usable spread data scores the neutral 0.5.
func priceScore(l *Listing, st setStats) float64 {
	if l.Price == nil || !st.havePrices {
		return 0.5
	}
	if st.maxPrice == st.minPrice {
		return 1.0
	}
	return 1.0 - ((*l.Price - st.minPrice) / (st.maxPrice - st.minPrice))
}

func ratingScore(l *Listing) float64 {
	if l.Rating == nil {
		return 0.0
	}
	return *l.Rating / 5.0
}

func reviewScore(l *Listing, st setStats) float64 {
	if l.ReviewCount == nil || st.maxReviews == 0 {
		return 0.0
	}
	return math.Min(1.0, float64(*l.ReviewCount)/float64(st.maxReviews))
}
